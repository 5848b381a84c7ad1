// Package pipeline implements the tabular cleaning pipeline: consolidation of a workbook
// into one table followed by a fixed sequence of stages. The full clean keeps every
// column; the salary reshape works on a positional selection and melts it to long form.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"surveyclean/adapters/coercer"
	"surveyclean/domain/core"
	"surveyclean/domain/policy"
	"surveyclean/domain/stage"
	"surveyclean/domain/table"
	"surveyclean/internal/profiling"
	"surveyclean/ports"
)

// Variants
const (
	VariantFull     = "full"
	VariantSelected = "selected"
)

// Pipeline runs both variants over one column policy table
type Pipeline struct {
	policy   policy.Policy
	coercer  *coercer.TypeCoercer
	observer ports.StageObserver
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithObserver reports every stage result to o. A nil observer is ignored.
func WithObserver(o ports.StageObserver) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithCoercion replaces the default strict numeric coercion rules
func WithCoercion(config coercer.CoercionConfig) Option {
	return func(p *Pipeline) {
		p.coercer = coercer.NewTypeCoercer(config)
	}
}

// New creates a pipeline for the given policy
func New(pol policy.Policy, opts ...Option) (*Pipeline, error) {
	if err := pol.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	p := &Pipeline{
		policy:   pol,
		coercer:  coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()),
		observer: ports.NopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Report describes one run
type Report struct {
	*stage.PipelineResult
	Before profiling.TableInfo `json:"before"`
	After  profiling.TableInfo `json:"after"`
}

// Result is the cleaned table and its report
type Result struct {
	Table  *table.Table
	Report *Report
}

// run tracks stage timing for one pipeline execution
type run struct {
	p      *Pipeline
	report *Report
}

func (p *Pipeline) newRun(variant string) *run {
	return &run{
		p:      p,
		report: &Report{PipelineResult: stage.NewPipelineResult(core.NewRunID(), variant)},
	}
}

// do times a stage and records its result
func (r *run) do(t *table.Table, fn func() stage.StageResult) {
	start := time.Now()
	res := fn()
	res.RowsOut = t.Len()
	res.Duration = time.Since(start).Microseconds()
	r.report.AddResult(res)
	r.p.observer.StageCompleted(res)
}

// filter runs a row filter as a named stage
func (r *run) filter(t *table.Table, name stage.StageName, keep func(row []table.Value) bool) {
	r.do(t, func() stage.StageResult {
		res := stage.NewStageResult(name, stage.StageKindFilter, t.Len())
		t.Filter(keep)
		return res
	})
}

// RunFull consolidates every sheet keeping all columns, then fills nulls, coerces types,
// fills again, removes duplicate rows and lower-cases categorical text.
func (p *Pipeline) RunFull(wb *table.Workbook) (*Result, error) {
	r := p.newRun(VariantFull)
	p.observer.Info("[Pipeline] run %s: full clean of %d sheets", r.report.RunID, len(workbookSheets(wb)))

	start := time.Now()
	t, err := ConsolidateFull(wb)
	if err != nil {
		return nil, fmt.Errorf("consolidate: %w", err)
	}
	r.recordConsolidate(wb, t, start)
	r.report.Before = profiling.Describe(t)
	p.observer.Info("[Pipeline] table before cleaning:\n%s", r.report.Before)

	r.do(t, func() stage.StageResult {
		return p.fillNulls(t, stage.StageNullFill, policy.RoleNumeric, policy.RoleFreeText, policy.RoleCategorical)
	})
	r.do(t, func() stage.StageResult { return p.coerceTypes(t) })
	r.do(t, func() stage.StageResult { return p.fillNulls(t, stage.StageNullRefill, policy.RoleNumeric) })
	r.do(t, func() stage.StageResult { return p.deduplicate(t) })
	r.do(t, func() stage.StageResult { return p.normalizeText(t) })

	r.report.After = profiling.Describe(t)
	p.observer.Info("[Pipeline] table after cleaning:\n%s", r.report.After)
	return &Result{Table: t, Report: r.report}, nil
}

// RunSelected consolidates the selected positions of every sheet, melts the salary columns
// and keeps only rows with a positive salary and a known company, without duplicates.
// When the selection cannot be applied the result holds an empty table next to the error.
func (p *Pipeline) RunSelected(wb *table.Workbook) (*Result, error) {
	r := p.newRun(VariantSelected)
	sel := p.policy.Selection
	p.observer.Info("[Pipeline] run %s: salary reshape of %d sheets", r.report.RunID, len(workbookSheets(wb)))

	start := time.Now()
	wide, err := ConsolidateSelected(wb, sel)
	if err != nil {
		return &Result{Table: wide, Report: r.report}, fmt.Errorf("consolidate: %w", err)
	}
	r.recordConsolidate(wb, wide, start)
	r.report.Before = profiling.Describe(wide)

	start = time.Now()
	labels := sel.Labels()
	t, err := Melt(wide, []string{policy.CompanyColumn, policy.ProvenanceColumn}, labels[1:],
		policy.SalaryOriginColumn, policy.SalaryValueColumn)
	if err != nil {
		return nil, fmt.Errorf("reshape: %w", err)
	}
	melted := stage.NewStageResult(stage.StageReshape, stage.StageKindReshape, wide.Len())
	melted.Note(fmt.Sprintf("%d salary columns melted", len(labels)-1))
	melted.RowsOut = t.Len()
	melted.Duration = time.Since(start).Microseconds()
	r.report.AddResult(melted)
	p.observer.StageCompleted(melted)

	salary, _ := t.ColumnIndex(policy.SalaryValueColumn)
	company, _ := t.ColumnIndex(policy.CompanyColumn)

	r.do(t, func() stage.StageResult {
		res := stage.NewStageResult(stage.StageCoerceSalary, stage.StageKindTransform, t.Len())
		a := p.coerceColumn(t, policy.SalaryValueColumn)
		res.Changed[policy.SalaryValueColumn] = a.ValidCount - a.NumericCount
		return res
	})
	r.filter(t, stage.StageDropMissingSalary, func(row []table.Value) bool {
		return !row[salary].IsMissing()
	})
	r.filter(t, stage.StageDropNonPositive, func(row []table.Value) bool {
		return row[salary].AsFloat64() > 0
	})
	r.do(t, func() stage.StageResult {
		res := stage.NewStageResult(stage.StageNormalizeCompany, stage.StageKindTransform, t.Len())
		res.Changed[policy.CompanyColumn], _ = t.MapColumn(policy.CompanyColumn, normalizeCompany)
		return res
	})
	r.filter(t, stage.StageDropUnknownCompanies, func(row []table.Value) bool {
		return !isUnknownCompany(row[company].Str)
	})
	r.do(t, func() stage.StageResult { return p.deduplicate(t) })

	r.report.After = profiling.Describe(t)
	return &Result{Table: t, Report: r.report}, nil
}

func (r *run) recordConsolidate(wb *table.Workbook, t *table.Table, start time.Time) {
	res := stage.NewStageResult(stage.StageConsolidate, stage.StageKindConsolidate, wb.TotalRows())
	res.Note(fmt.Sprintf("sheets: %s", strings.Join(wb.SheetNames(), ", ")))
	res.RowsOut = t.Len()
	res.Duration = time.Since(start).Microseconds()
	r.report.AddResult(res)
	r.p.observer.StageCompleted(res)
}

// normalizeCompany renders a company as trimmed text, missing companies become UnknownCategory
func normalizeCompany(v table.Value) table.Value {
	if v.IsMissing() {
		return table.NewStringValue(policy.UnknownCategory)
	}
	return table.NewStringValue(strings.TrimSpace(v.String()))
}

func isUnknownCompany(s string) bool {
	switch s {
	case "", "nan", policy.UnknownCategory:
		return true
	}
	return false
}

func workbookSheets(wb *table.Workbook) []table.Sheet {
	if wb == nil {
		return nil
	}
	return wb.Sheets
}
