package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"surveyclean/domain/policy"
	"surveyclean/internal/errors"
)

// policyFile is the YAML shape of a column policy override. Omitted sections keep the defaults.
type policyFile struct {
	Columns []struct {
		Name string `yaml:"name" validate:"required"`
		Role string `yaml:"role" validate:"oneof=numeric free_text categorical"`
	} `yaml:"columns" validate:"dive"`
	Selection *struct {
		CompanyPosition *int     `yaml:"company_position" validate:"omitempty,min=0"`
		SalaryPositions []int    `yaml:"salary_positions" validate:"omitempty,dive,min=0"`
		SalaryLabels    []string `yaml:"salary_labels" validate:"omitempty,dive,required"`
		SkipRows        *int     `yaml:"skip_rows" validate:"omitempty,min=0"`
	} `yaml:"selection"`
}

// LoadPolicy reads a YAML column policy over policy.Default
func LoadPolicy(path string) (policy.Policy, error) {
	pol := policy.Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return pol, errors.IOError(path, err)
	}

	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return pol, errors.Wrap(errors.InvalidInput(err.Error()), fmt.Sprintf("failed to parse policy %s", path))
	}
	if err := validator.New().Struct(&file); err != nil {
		return pol, errors.Wrap(errors.ConfigInvalid(err.Error()), fmt.Sprintf("invalid policy %s", path))
	}

	if len(file.Columns) > 0 {
		pol.Columns = nil
		for _, c := range file.Columns {
			pol.Columns = append(pol.Columns, policy.ColumnPolicy{Name: c.Name, Role: policy.ColumnRole(c.Role)})
		}
	}
	if sel := file.Selection; sel != nil {
		if sel.CompanyPosition != nil {
			pol.Selection.CompanyPosition = *sel.CompanyPosition
		}
		if len(sel.SalaryPositions) > 0 {
			pol.Selection.SalaryPositions = sel.SalaryPositions
		}
		if len(sel.SalaryLabels) > 0 {
			pol.Selection.SalaryLabels = sel.SalaryLabels
		}
		if sel.SkipRows != nil {
			pol.Selection.SkipRows = *sel.SkipRows
		}
	}

	if err := pol.Validate(); err != nil {
		return policy.Default(), errors.Wrap(errors.ConfigInvalid(err.Error()), fmt.Sprintf("invalid policy %s", path))
	}
	return pol, nil
}

// Policy returns the configured column policy, the default one when no file is set
func (c *Config) Policy() (policy.Policy, error) {
	if c.Cleaning.PolicyFile == "" {
		return policy.Default(), nil
	}
	return LoadPolicy(c.Cleaning.PolicyFile)
}
