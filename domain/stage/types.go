package stage

import (
	"surveyclean/domain/core"
)

// StageName represents a named stage in the pipeline
type StageName string

// StageKind categorizes stages by function
type StageKind string

const (
	StageKindConsolidate StageKind = "consolidate" // sheets -> one table
	StageKindTransform   StageKind = "transform"   // rewrites cells, row count unchanged
	StageKindFilter      StageKind = "filter"      // removes rows, never adds
	StageKindReshape     StageKind = "reshape"     // changes table shape
)

// Predefined stage names
const (
	// Shared stages
	StageConsolidate StageName = "consolidate"
	StageNullFill    StageName = "null_fill"
	StageCoerce      StageName = "type_coercion"
	StageNullRefill  StageName = "null_refill"
	StageDeduplicate StageName = "deduplicate"
	StageNormalize   StageName = "text_normalization"

	// Salary reshape stages
	StageReshape              StageName = "reshape"
	StageCoerceSalary         StageName = "coerce_salary"
	StageDropMissingSalary    StageName = "drop_missing_salary"
	StageDropNonPositive      StageName = "drop_non_positive_salary"
	StageNormalizeCompany     StageName = "normalize_company"
	StageDropUnknownCompanies StageName = "drop_unknown_company"
)

// StageResult represents the outcome of one stage over the table
type StageResult struct {
	StageName StageName      `json:"stage_name"`
	Kind      StageKind      `json:"kind"`
	RowsIn    int            `json:"rows_in"`
	RowsOut   int            `json:"rows_out"`
	Changed   map[string]int `json:"changed,omitempty"` // cells rewritten per column
	Skipped   []string       `json:"skipped,omitempty"` // absent columns the stage did not touch
	Notes     []string       `json:"notes,omitempty"`
	Duration  int64          `json:"duration_us"` // microseconds
}

// NewStageResult starts a result for a stage seeing rowsIn rows
func NewStageResult(name StageName, kind StageKind, rowsIn int) StageResult {
	return StageResult{
		StageName: name,
		Kind:      kind,
		RowsIn:    rowsIn,
		RowsOut:   rowsIn,
		Changed:   make(map[string]int),
	}
}

// Removed returns how many rows the stage dropped
func (r StageResult) Removed() int {
	if r.RowsOut > r.RowsIn {
		return 0
	}
	return r.RowsIn - r.RowsOut
}

// Skip records a column the stage did not find
func (r *StageResult) Skip(column string) {
	r.Skipped = append(r.Skipped, column)
}

// Note records a free-form observation
func (r *StageResult) Note(note string) {
	r.Notes = append(r.Notes, note)
}

// PipelineResult contains the results of one pipeline run
type PipelineResult struct {
	RunID   core.RunID      `json:"run_id"`
	Variant string          `json:"variant"`
	Results []StageResult   `json:"results"`
	Overall PipelineSummary `json:"overall"`
}

// PipelineSummary provides high-level pipeline statistics
type PipelineSummary struct {
	TotalStages   int   `json:"total_stages"`
	RowsIn        int   `json:"rows_in"`
	RowsOut       int   `json:"rows_out"`
	RowsRemoved   int   `json:"rows_removed"`
	TotalDuration int64 `json:"total_duration_us"`
}

// NewPipelineResult creates a new pipeline result
func NewPipelineResult(runID core.RunID, variant string) *PipelineResult {
	return &PipelineResult{
		RunID:   runID,
		Variant: variant,
		Results: make([]StageResult, 0),
	}
}

// AddResult adds a stage result and updates summary
func (r *PipelineResult) AddResult(result StageResult) {
	if r.Overall.TotalStages == 0 {
		r.Overall.RowsIn = result.RowsIn
	}
	r.Results = append(r.Results, result)
	r.Overall.TotalStages++
	r.Overall.RowsOut = result.RowsOut
	r.Overall.RowsRemoved += result.Removed()
	r.Overall.TotalDuration += result.Duration
}

// Find returns the first result for a stage name
func (r *PipelineResult) Find(name StageName) (StageResult, bool) {
	for _, res := range r.Results {
		if res.StageName == name {
			return res, true
		}
	}
	return StageResult{}, false
}
