package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyclean/adapters/coercer"
	"surveyclean/domain/core"
	"surveyclean/domain/policy"
	"surveyclean/domain/stage"
	"surveyclean/domain/table"
	"surveyclean/internal/testkit"
)

var positional = []string{"0", "1", "2", "3", "4"}

func newPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	p, err := New(policy.Default(), opts...)
	require.NoError(t, err)
	return p
}

type recordingObserver struct {
	stages []stage.StageName
	infos  int
}

func (o *recordingObserver) StageCompleted(r stage.StageResult) { o.stages = append(o.stages, r.StageName) }
func (o *recordingObserver) Info(string, ...interface{})        { o.infos++ }

func TestRunFull_TwoSheetsOneRowEach(t *testing.T) {
	cols := []string{"salario", "pregunta_abierta_1", "sector_empresa"}
	wb := testkit.Workbook(
		table.Sheet{Name: "2023", Table: testkit.Table(t, cols, []interface{}{1200, "bien", "Salud"})},
		table.Sheet{Name: "2024", Table: testkit.Table(t, cols, []interface{}{1200, "bien", "Salud"})},
	)

	res, err := newPipeline(t).RunFull(wb)
	require.NoError(t, err)

	require.Equal(t, 2, res.Table.Len())
	assert.Equal(t, "2023", res.Table.Value(0, policy.ProvenanceColumn).Str)
	assert.Equal(t, "2024", res.Table.Value(1, policy.ProvenanceColumn).Str)

	dedup, ok := res.Report.Find(stage.StageDeduplicate)
	require.True(t, ok)
	assert.Equal(t, 0, dedup.Removed(), "rows from different sheets are not duplicates")
}

func TestRunFull_MedianFill(t *testing.T) {
	wb := testkit.Workbook(table.Sheet{
		Name:  "2024",
		Table: testkit.Table(t, []string{"salario"}, []interface{}{10}, []interface{}{nil}, []interface{}{30}),
	})

	res, err := newPipeline(t).RunFull(wb)
	require.NoError(t, err)

	values, err := res.Table.ColumnValues("salario")
	require.NoError(t, err)
	assert.Equal(t, []table.Value{
		table.NewNumericValue(10), table.NewNumericValue(20), table.NewNumericValue(30),
	}, values)

	fill, ok := res.Report.Find(stage.StageNullFill)
	require.True(t, ok)
	assert.Equal(t, 1, fill.Changed["salario"])
	assert.ElementsMatch(t, []string{"pregunta_abierta_1", "sector_empresa"}, fill.Skipped)
}

func TestRunFull_RefillsAfterCoercion(t *testing.T) {
	wb := testkit.Workbook(table.Sheet{
		Name: "2024",
		Table: testkit.Table(t, []string{"salario"},
			[]interface{}{"100"}, []interface{}{"no sabe"}, []interface{}{300}, []interface{}{nil}),
	})

	res, err := newPipeline(t).RunFull(wb)
	require.NoError(t, err)

	values, _ := res.Table.ColumnValues("salario")
	for _, v := range values {
		assert.True(t, v.IsNumeric(), "salario should be numeric, got %+v", v)
	}
	// the first fill only sees 300, the refill sees 100, 300 and the filled 300
	assert.Equal(t, 300.0, values[3].Num)
	assert.Equal(t, 300.0, values[1].Num)
	assert.Equal(t, 100.0, values[0].Num)

	coerce, _ := res.Report.Find(stage.StageCoerce)
	assert.Equal(t, 1, coerce.Changed["salario"])
	require.NotEmpty(t, coerce.Notes)
	assert.Equal(t, "salario: numeric, 2 of 3 values parsed (67%), 1 unparseable set to null", coerce.Notes[0])
}

func TestRunFull_NoNumericSalaryKeepsNulls(t *testing.T) {
	wb := testkit.Workbook(table.Sheet{
		Name:  "2024",
		Table: testkit.Table(t, []string{"salario"}, []interface{}{"abc"}, []interface{}{nil}),
	})

	res, err := newPipeline(t).RunFull(wb)
	require.NoError(t, err)

	values, _ := res.Table.ColumnValues("salario")
	assert.True(t, values[0].IsMissing())
	assert.True(t, values[1].IsMissing())

	refill, _ := res.Report.Find(stage.StageNullRefill)
	require.NotEmpty(t, refill.Notes)
	assert.Contains(t, refill.Notes[0], "median undefined")
}

func TestRunFull_CategoricalAndFreeText(t *testing.T) {
	cols := []string{"salario", "pregunta_abierta_1", "sector_empresa"}
	wb := testkit.Workbook(table.Sheet{
		Name: "2024",
		Table: testkit.Table(t, cols,
			[]interface{}{100, nil, "COMERCIO"},
			[]interface{}{200, "ok", nil},
			[]interface{}{300, "", 7},
		),
	})

	res, err := newPipeline(t).RunFull(wb)
	require.NoError(t, err)
	tb := res.Table

	assert.Equal(t, table.NewStringValue(""), tb.Value(0, "pregunta_abierta_1"))
	assert.Equal(t, "comercio", tb.Value(0, "sector_empresa").Str)
	assert.Equal(t, "desconocido", tb.Value(1, "sector_empresa").Str)
	assert.Equal(t, table.NewNumericValue(7), tb.Value(2, "sector_empresa"), "numbers are not lower-cased")
	assert.True(t, tb.IsCategorical("sector_empresa"))

	info, ok := res.Report.After.Column("sector_empresa")
	require.True(t, ok)
	assert.Equal(t, 3, info.NonNull)
}

func TestRunFull_OuterUnionAcrossSheets(t *testing.T) {
	wb := testkit.Workbook(
		table.Sheet{Name: "a", Table: testkit.Table(t, []string{"salario", "extra"}, []interface{}{100, "x"})},
		table.Sheet{Name: "b", Table: testkit.Table(t, []string{"salario", "otra"}, []interface{}{200, "y"})},
	)

	res, err := newPipeline(t).RunFull(wb)
	require.NoError(t, err)

	assert.Equal(t, []string{"salario", "extra", policy.ProvenanceColumn, "otra"}, res.Table.Columns())
	assert.True(t, res.Table.Value(0, "otra").IsMissing())
	assert.True(t, res.Table.Value(1, "extra").IsMissing())
}

func TestRunFull_EmptyWorkbook(t *testing.T) {
	_, err := newPipeline(t).RunFull(&table.Workbook{})
	assert.ErrorIs(t, err, core.ErrEmptyInput)
}

func TestRunFull_Properties(t *testing.T) {
	gen := testkit.NewSurveyGenerator(testkit.DefaultSurveyConfig())
	wb := gen.FullColumnWorkbook()

	res, err := newPipeline(t).RunFull(wb)
	require.NoError(t, err)

	values, err := res.Table.ColumnValues("salario")
	require.NoError(t, err)
	for i, v := range values {
		require.True(t, v.IsNumeric(), "row %d salario %+v", i, v)
	}
	assert.Zero(t, duplicates(res.Table))
	assert.Equal(t, wb.TotalRows(), res.Report.Overall.RowsIn)
	assert.Equal(t, res.Table.Len(), res.Report.Overall.RowsOut)

	sectors, _ := res.Table.ColumnValues("sector_empresa")
	for _, v := range sectors {
		assert.False(t, v.IsMissing())
	}
}

func TestRunSelected_AcmeRow(t *testing.T) {
	wb := testkit.Workbook(table.Sheet{
		Name:  "2024",
		Table: testkit.Table(t, positional, []interface{}{"Acme", 5, nil, "x", -1}),
	})

	res, err := newPipeline(t).RunSelected(wb)
	require.NoError(t, err)

	reshape, ok := res.Report.Find(stage.StageReshape)
	require.True(t, ok)
	assert.Equal(t, 4, reshape.RowsOut)

	coerce, _ := res.Report.Find(stage.StageCoerceSalary)
	assert.Equal(t, 1, coerce.Changed[policy.SalaryValueColumn], "x is nulled")

	missing, _ := res.Report.Find(stage.StageDropMissingSalary)
	assert.Equal(t, 2, missing.Removed())
	nonPositive, _ := res.Report.Find(stage.StageDropNonPositive)
	assert.Equal(t, 1, nonPositive.Removed())

	require.Equal(t, 1, res.Table.Len())
	assert.Equal(t, []string{policy.CompanyColumn, policy.ProvenanceColumn, policy.SalaryOriginColumn, policy.SalaryValueColumn},
		res.Table.Columns())
	assert.Equal(t, "Acme", res.Table.Value(0, policy.CompanyColumn).Str)
	assert.Equal(t, "salary_entry", res.Table.Value(0, policy.SalaryOriginColumn).Str)
	assert.Equal(t, table.NewNumericValue(5), res.Table.Value(0, policy.SalaryValueColumn))
}

func TestRunSelected_UnknownCompanies(t *testing.T) {
	wb := testkit.Workbook(table.Sheet{
		Name: "2024",
		Table: testkit.Table(t, positional,
			[]interface{}{"   ", 100, 100, 100, 100},
			[]interface{}{nil, 100, 100, 100, 100},
			[]interface{}{"nan", 100, 100, 100, 100},
			[]interface{}{"Desconocido", 100, 100, 100, 100},
			[]interface{}{"  Hooli ", 100, 0, 0, 0},
			[]interface{}{42, 100, 0, 0, 0},
		),
	})

	res, err := newPipeline(t).RunSelected(wb)
	require.NoError(t, err)

	require.Equal(t, 2, res.Table.Len())
	assert.Equal(t, "Hooli", res.Table.Value(0, policy.CompanyColumn).Str)
	assert.Equal(t, table.NewStringValue("42"), res.Table.Value(1, policy.CompanyColumn))
}

func TestRunSelected_NarrowSheetYieldsEmptyTable(t *testing.T) {
	wb := testkit.Workbook(
		table.Sheet{Name: "ok", Table: testkit.Table(t, positional, []interface{}{"Acme", 1, 2, 3, 4})},
		table.Sheet{Name: "narrow", Table: testkit.Table(t, []string{"0", "1", "2"}, []interface{}{"Acme", 1, 2})},
	)

	res, err := newPipeline(t).RunSelected(wb)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrColumnSelection))
	assert.Contains(t, err.Error(), "narrow")

	require.NotNil(t, res)
	assert.Zero(t, res.Table.Len())
	assert.Equal(t, []string{"company", "salary_entry", "salary_junior", "salary_senior", "salary_manager", policy.ProvenanceColumn},
		res.Table.Columns())
}

func TestRunSelected_Properties(t *testing.T) {
	gen := testkit.NewSurveyGenerator(testkit.DefaultSurveyConfig())
	wb := gen.PositionalWorkbook()
	obs := &recordingObserver{}

	res, err := newPipeline(t, WithObserver(obs)).RunSelected(wb)
	require.NoError(t, err)
	require.NotZero(t, res.Table.Len())

	for i := 0; i < res.Table.Len(); i++ {
		salary := res.Table.Value(i, policy.SalaryValueColumn)
		require.True(t, salary.IsNumeric())
		assert.Greater(t, salary.Num, 0.0)

		company := res.Table.Value(i, policy.CompanyColumn)
		assert.NotContains(t, []string{"", "nan", policy.UnknownCategory}, company.Str)
		assert.Equal(t, company.Str, trimmed(company.Str))
	}
	assert.Zero(t, duplicates(res.Table))

	for _, r := range res.Report.Results {
		if r.Kind == stage.StageKindFilter {
			assert.LessOrEqual(t, r.RowsOut, r.RowsIn, "stage %s", r.StageName)
		}
	}

	reshape, _ := res.Report.Find(stage.StageReshape)
	assert.Equal(t, wb.TotalRows()*4, reshape.RowsOut)
	assert.Equal(t, []stage.StageName{
		stage.StageConsolidate, stage.StageReshape, stage.StageCoerceSalary, stage.StageDropMissingSalary,
		stage.StageDropNonPositive, stage.StageNormalizeCompany, stage.StageDropUnknownCompanies, stage.StageDeduplicate,
	}, obs.stages)
	assert.NotZero(t, obs.infos)
}

func TestRunSelected_LenientCoercion(t *testing.T) {
	wb := testkit.Workbook(table.Sheet{
		Name:  "2024",
		Table: testkit.Table(t, positional, []interface{}{"Acme", "$300", "(20)", "15%", "abc"}),
	})

	strict, err := newPipeline(t).RunSelected(wb)
	require.NoError(t, err)
	assert.Zero(t, strict.Table.Len())

	lenient, err := newPipeline(t, WithCoercion(coercer.CoercionConfig{Lenient: true})).RunSelected(wb)
	require.NoError(t, err)
	require.Equal(t, 2, lenient.Table.Len())
	assert.Equal(t, 300.0, lenient.Table.Value(0, policy.SalaryValueColumn).Num)
	assert.Equal(t, 15.0, lenient.Table.Value(1, policy.SalaryValueColumn).Num)
}

func TestNewRejectsInvalidPolicy(t *testing.T) {
	pol := policy.Default()
	pol.Selection.SalaryLabels = pol.Selection.SalaryLabels[:2]
	_, err := New(pol)
	assert.Error(t, err)
}

func TestRunIDsDiffer(t *testing.T) {
	p := newPipeline(t)
	cols := []string{"salario"}
	wb := testkit.Workbook(table.Sheet{Name: "a", Table: testkit.Table(t, cols, []interface{}{1})})

	first, err := p.RunFull(wb)
	require.NoError(t, err)
	second, err := p.RunFull(wb)
	require.NoError(t, err)
	assert.NotEqual(t, first.Report.RunID, second.Report.RunID)
	assert.Equal(t, VariantFull, first.Report.Variant)
}

// duplicates counts duplicate rows without touching t
func duplicates(t *table.Table) int {
	return Deduplicate(t.Clone())
}

func trimmed(s string) string {
	return normalizeCompany(table.NewStringValue(s)).Str
}
