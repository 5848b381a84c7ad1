// Package policy holds the column policy table shared by both pipeline variants:
// which columns are numeric, free text or categorical, the sentinel used for
// unknown categories and the positional layout of the salary workbook.
package policy

import (
	"fmt"
	"strings"
)

// ColumnRole decides how null handling, coercion and normalization treat a column
type ColumnRole string

const (
	RoleNumeric     ColumnRole = "numeric"     // median fill, numeric coercion
	RoleFreeText    ColumnRole = "free_text"   // fill with ""
	RoleCategorical ColumnRole = "categorical" // fill with UnknownCategory, lower-cased
)

// Fixed column names
const (
	ProvenanceColumn   = "source_sheet"
	CompanyColumn      = "company"
	SalaryOriginColumn = "salary_category_origin"
	SalaryValueColumn  = "salary_daily"

	// UnknownCategory fills missing categorical values. It is a retained category in the
	// full clean and a rejected company in the salary reshape.
	UnknownCategory = "Desconocido"
)

// ColumnPolicy binds a column name to its role
type ColumnPolicy struct {
	Name string
	Role ColumnRole
}

// Selection describes the positional layout read by the salary reshape
type Selection struct {
	CompanyPosition int
	SalaryPositions []int
	SalaryLabels    []string
	SkipRows        int
}

// Policy is the full column policy table
type Policy struct {
	Columns   []ColumnPolicy
	Selection Selection
}

// Default returns the policy of the historical survey workbook
func Default() Policy {
	return Policy{
		Columns: []ColumnPolicy{
			{Name: "salario", Role: RoleNumeric},
			{Name: "pregunta_abierta_1", Role: RoleFreeText},
			{Name: "sector_empresa", Role: RoleCategorical},
		},
		Selection: Selection{
			CompanyPosition: 0,
			SalaryPositions: []int{1, 2, 3, 4},
			SalaryLabels:    []string{"salary_entry", "salary_junior", "salary_senior", "salary_manager"},
			SkipRows:        2,
		},
	}
}

// ColumnsWithRole returns the names of the columns playing a role, in policy order
func (p Policy) ColumnsWithRole(role ColumnRole) []string {
	var out []string
	for _, c := range p.Columns {
		if c.Role == role {
			out = append(out, c.Name)
		}
	}
	return out
}

// Validate checks the policy table for unusable entries
func (p Policy) Validate() error {
	seen := make(map[string]bool)
	for _, c := range p.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("policy column name cannot be empty")
		}
		if seen[c.Name] {
			return fmt.Errorf("policy column %q declared twice", c.Name)
		}
		seen[c.Name] = true
		switch c.Role {
		case RoleNumeric, RoleFreeText, RoleCategorical:
		default:
			return fmt.Errorf("policy column %q has unknown role %q", c.Name, c.Role)
		}
	}
	return p.Selection.Validate()
}

// Positions returns the positions to read, company first
func (s Selection) Positions() []int {
	return append([]int{s.CompanyPosition}, s.SalaryPositions...)
}

// Labels returns the names given to Positions, in the same order
func (s Selection) Labels() []string {
	return append([]string{CompanyColumn}, s.SalaryLabels...)
}

// MaxPosition returns the highest position the selection needs
func (s Selection) MaxPosition() int {
	max := s.CompanyPosition
	for _, p := range s.SalaryPositions {
		if p > max {
			max = p
		}
	}
	return max
}

// Validate checks the selection layout
func (s Selection) Validate() error {
	if len(s.SalaryPositions) == 0 {
		return fmt.Errorf("selection needs at least one salary position")
	}
	if len(s.SalaryPositions) != len(s.SalaryLabels) {
		return fmt.Errorf("selection has %d salary positions but %d labels", len(s.SalaryPositions), len(s.SalaryLabels))
	}
	if s.SkipRows < 0 {
		return fmt.Errorf("skip rows cannot be negative")
	}
	positions := make(map[int]bool)
	for _, p := range s.Positions() {
		if p < 0 {
			return fmt.Errorf("column position %d is negative", p)
		}
		if positions[p] {
			return fmt.Errorf("column position %d selected twice", p)
		}
		positions[p] = true
	}
	labels := map[string]bool{ProvenanceColumn: true}
	for _, l := range s.Labels() {
		if labels[l] {
			return fmt.Errorf("label %q is reserved or repeated", l)
		}
		labels[l] = true
	}
	return nil
}
