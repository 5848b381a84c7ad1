package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"surveyclean/adapters/coercer"
	"surveyclean/adapters/excel"
	"surveyclean/app"
	"surveyclean/internal"
	"surveyclean/internal/config"
	"surveyclean/internal/files"
	"surveyclean/internal/pipeline"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// overrides are command line values that win over the environment
type overrides struct {
	dataDir    string
	primary    string
	output     string
	policyFile string
	lenient    bool
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var ov overrides
	rootCmd := &cobra.Command{
		Use:           "surveyclean",
		Short:         "Clean and consolidate multi-sheet survey workbooks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&ov.dataDir, "data-dir", "", "Directory holding the survey workbook (env SURVEY_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&ov.primary, "file", "", "Preferred workbook name inside the data directory (env SURVEY_PRIMARY_FILE)")
	rootCmd.PersistentFlags().StringVar(&ov.policyFile, "policy", "", "YAML column policy override (env SURVEY_POLICY_FILE)")
	rootCmd.PersistentFlags().BoolVar(&ov.lenient, "lenient", false, "Accept currency symbols, thousands separators and (negatives) in numeric cells")

	rootCmd.AddCommand(
		newCleanCmd(&ov),
		newSalariesCmd(&ov),
		newDiscoverCmd(&ov),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCleanCmd(ov *overrides) *cobra.Command {
	var report bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Run the full-column clean and print the table before and after",
		Long: `Consolidate every sheet keeping all columns, fill nulls per column policy,
coerce numeric columns, drop duplicate rows and lower-case categorical text.

Example: surveyclean clean --data-dir datos --report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := buildService(ov)
			if err != nil {
				return err
			}
			result, err := svc.CleanFull(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Before cleaning:\n%s\n", result.Report.Before)
			fmt.Fprintf(out, "After cleaning:\n%s\n", result.Report.After)
			if report {
				return printReport(cmd, result.Report)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&report, "report", false, "Print the per-stage report as JSON")
	return cmd
}

func newSalariesCmd(ov *overrides) *cobra.Command {
	var report bool

	cmd := &cobra.Command{
		Use:   "salaries",
		Short: "Reshape the daily salary sheets and write them sorted by company",
		Long: `Read company and four salary categories by position from every sheet (skipping the
title rows), melt the salaries to one row per category, keep positive salaries of
known companies and write the result sorted by company.

The output path comes from --output or SURVEY_OUTPUT_PATH; a .xlsx extension writes a workbook.

Example: surveyclean salaries --output salida/salarios_limpios.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := buildService(ov)
			if err != nil {
				return err
			}
			run, err := svc.CleanSalaries(cmd.Context(), cfg.Paths.OutputPath)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", run.Table.Len(), run.OutputPath)
			if report {
				return printReport(cmd, run.Report)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ov.output, "output", "", "Output file (env SURVEY_OUTPUT_PATH)")
	cmd.Flags().BoolVar(&report, "report", false, "Print the per-stage report as JSON")
	return cmd
}

func newDiscoverCmd(ov *overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Print the workbook the cleaning commands would read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := buildService(ov)
			if err != nil {
				return err
			}
			path, err := svc.Discover()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// buildService loads the configuration, applies flag overrides and wires the service
func buildService(ov *overrides) (*app.CleaningService, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if ov.dataDir != "" {
		cfg.Paths.DataDir = ov.dataDir
	}
	if ov.primary != "" {
		cfg.Paths.PrimaryFile = ov.primary
	}
	if ov.output != "" {
		cfg.Paths.OutputPath = ov.output
	}
	if ov.policyFile != "" {
		cfg.Cleaning.PolicyFile = ov.policyFile
	}
	if ov.lenient {
		cfg.Cleaning.LenientNumbers = true
	}

	pol, err := cfg.Policy()
	if err != nil {
		return nil, nil, err
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	pipe, err := pipeline.New(pol,
		pipeline.WithObserver(internal.NewLoggingObserver(logger)),
		pipeline.WithCoercion(coercer.CoercionConfig{Lenient: cfg.Cleaning.LenientNumbers}),
	)
	if err != nil {
		return nil, nil, err
	}

	svc := app.NewCleaningService(
		files.NewDiscovery(cfg.Paths.DataDir, cfg.Paths.PrimaryFile),
		excel.NewWorkbookReader(),
		pipe,
		pol.Selection,
		logger,
	)
	return svc, cfg, nil
}

func printReport(cmd *cobra.Command, report *pipeline.Report) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
