package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"surveyclean/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths    PathConfig
	Cleaning CleaningConfig
	LogLevel string `validate:"oneof=ERROR WARN INFO DEBUG TRACE"`
}

// PathConfig holds file system paths
type PathConfig struct {
	DataDir     string `validate:"required"`
	PrimaryFile string `validate:"required"`
	OutputPath  string `validate:"required"`
}

// CleaningConfig holds pipeline settings
type CleaningConfig struct {
	LenientNumbers bool
	PolicyFile     string // optional YAML column policy override
}

// Defaults of the historical survey layout
const (
	DefaultDataDir     = "datos"
	DefaultPrimaryFile = "BASE HISTORICA.xlsx"
	DefaultOutputPath  = "salida/salarios_limpios.csv"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Paths:    *loadPathConfig(),
		Cleaning: *loadCleaningConfig(),
		LogLevel: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadPathConfig() *PathConfig {
	return &PathConfig{
		DataDir:     getEnvOrDefault("SURVEY_DATA_DIR", DefaultDataDir),
		PrimaryFile: getEnvOrDefault("SURVEY_PRIMARY_FILE", DefaultPrimaryFile),
		OutputPath:  getEnvOrDefault("SURVEY_OUTPUT_PATH", DefaultOutputPath),
	}
}

func loadCleaningConfig() *CleaningConfig {
	return &CleaningConfig{
		LenientNumbers: getEnvBoolOrDefault("SURVEY_LENIENT_NUMBERS", false),
		PolicyFile:     getEnvOrDefault("SURVEY_POLICY_FILE", ""),
	}
}

func validateConfig(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
			}
		}
		if len(fields) == 0 {
			return errors.Wrap(err, "invalid configuration")
		}
		return errors.ConfigInvalid("invalid fields: " + strings.Join(fields, ", "))
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
