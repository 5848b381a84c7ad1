package pipeline

import (
	"fmt"
	"strings"

	"surveyclean/adapters/coercer"
	"surveyclean/domain/core"
	"surveyclean/domain/policy"
	"surveyclean/domain/stage"
	"surveyclean/domain/table"

	"github.com/montanaflynn/stats"
)

// Median returns the median of the numeric values, ignoring everything else.
// ok is false when there is no numeric value.
func Median(values []table.Value) (median float64, ok bool) {
	var data []float64
	for _, v := range values {
		if v.IsNumeric() {
			data = append(data, v.Num)
		}
	}
	m, err := stats.Median(data)
	if err != nil {
		return 0, false
	}
	return m, true
}

// FillMissing replaces missing cells of a column and returns how many were filled
func FillMissing(t *table.Table, column string, fill table.Value) (int, error) {
	return t.MapColumn(column, func(v table.Value) table.Value {
		if v.IsMissing() {
			return fill
		}
		return v
	})
}

// Deduplicate removes rows equal in every column to an earlier row, keeping the first
// occurrence and the original order, and returns the number removed
func Deduplicate(t *table.Table) int {
	seen := make(map[core.RowFingerprint]bool, t.Len())
	return t.Filter(func(row []table.Value) bool {
		key := table.FingerprintValues(row)
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
}

// Melt turns valueColumns into rows: one output row per input row per value column, carrying
// the id columns, the originating column name in varName and the cell in valueName.
// Output rows are grouped by value column, in valueColumns order.
func Melt(t *table.Table, idColumns, valueColumns []string, varName, valueName string) (*table.Table, error) {
	idIdx, err := indexes(t, idColumns)
	if err != nil {
		return nil, err
	}
	valIdx, err := indexes(t, valueColumns)
	if err != nil {
		return nil, err
	}

	out := table.New(append(append([]string{}, idColumns...), varName, valueName)...)
	for k, vc := range valueColumns {
		origin := table.NewStringValue(vc)
		for i := 0; i < t.Len(); i++ {
			src := t.Row(i)
			row := make([]table.Value, 0, len(idIdx)+2)
			for _, ci := range idIdx {
				row = append(row, src[ci])
			}
			row = append(row, origin, src[valIdx[k]])
			if err := out.AppendRow(row...); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func indexes(t *table.Table, columns []string) ([]int, error) {
	out := make([]int, len(columns))
	for i, c := range columns {
		ci, ok := t.ColumnIndex(c)
		if !ok {
			return nil, fmt.Errorf("melt: %w", core.NewColumnNotFoundError(c))
		}
		out[i] = ci
	}
	return out, nil
}

// fillNulls applies the null policy of every column whose role is listed
func (p *Pipeline) fillNulls(t *table.Table, name stage.StageName, roles ...policy.ColumnRole) stage.StageResult {
	res := stage.NewStageResult(name, stage.StageKindTransform, t.Len())
	wanted := make(map[policy.ColumnRole]bool, len(roles))
	for _, r := range roles {
		wanted[r] = true
	}

	for _, col := range p.policy.Columns {
		if !wanted[col.Role] {
			continue
		}
		if !t.Has(col.Name) {
			res.Skip(col.Name)
			continue
		}

		var fill table.Value
		switch col.Role {
		case policy.RoleNumeric:
			values, _ := t.ColumnValues(col.Name)
			median, ok := Median(values)
			if !ok {
				res.Note(fmt.Sprintf("%s: no numeric values, median undefined, nulls kept", col.Name))
				continue
			}
			fill = table.NewNumericValue(median)
			res.Note(fmt.Sprintf("%s: nulls filled with median %g", col.Name, median))
		case policy.RoleFreeText:
			fill = table.NewStringValue("")
		case policy.RoleCategorical:
			fill = table.NewStringValue(policy.UnknownCategory)
		}

		filled, _ := FillMissing(t, col.Name, fill)
		res.Changed[col.Name] = filled
	}
	return res
}

// coerceTypes converts numeric columns to numbers (unparseable cells become missing) and
// flags categorical columns
func (p *Pipeline) coerceTypes(t *table.Table) stage.StageResult {
	res := stage.NewStageResult(stage.StageCoerce, stage.StageKindTransform, t.Len())

	for _, col := range p.policy.Columns {
		if !t.Has(col.Name) {
			if col.Role != policy.RoleFreeText {
				res.Skip(col.Name)
			}
			continue
		}
		switch col.Role {
		case policy.RoleNumeric:
			a := p.coerceColumn(t, col.Name)
			nulled := a.ValidCount - a.NumericCount
			res.Changed[col.Name] = nulled
			res.Note(fmt.Sprintf("%s: numeric, %d of %d values parsed (%.0f%%), %d unparseable set to null",
				col.Name, a.NumericCount, a.ValidCount, 100*a.NumericRatio, nulled))
		case policy.RoleCategorical:
			_ = t.MarkCategorical(col.Name)
			cats, _ := t.Categories(col.Name)
			res.Note(fmt.Sprintf("%s: category, %d distinct values", col.Name, len(cats)))
		}
	}
	return res
}

// coerceColumn coerces a column in place. The analysis is taken before coercion, so
// ValidCount-NumericCount present values became missing.
func (p *Pipeline) coerceColumn(t *table.Table, column string) coercer.NumericAnalysis {
	values, err := t.ColumnValues(column)
	if err != nil {
		return coercer.NumericAnalysis{}
	}
	analysis := p.coercer.AnalyzeNumeric(values)
	_, _ = t.MapColumn(column, p.coercer.CoerceNumeric)
	return analysis
}

func (p *Pipeline) deduplicate(t *table.Table) stage.StageResult {
	res := stage.NewStageResult(stage.StageDeduplicate, stage.StageKindFilter, t.Len())
	res.Note(fmt.Sprintf("%d duplicate rows removed", Deduplicate(t)))
	res.RowsOut = t.Len()
	return res
}

// normalizeText lower-cases the string values of categorical columns
func (p *Pipeline) normalizeText(t *table.Table) stage.StageResult {
	res := stage.NewStageResult(stage.StageNormalize, stage.StageKindTransform, t.Len())
	for _, column := range p.policy.ColumnsWithRole(policy.RoleCategorical) {
		if !t.Has(column) {
			res.Skip(column)
			continue
		}
		changed, _ := t.MapColumn(column, func(v table.Value) table.Value {
			if v.IsString() {
				return table.NewStringValue(strings.ToLower(v.Str))
			}
			return v
		})
		res.Changed[column] = changed
	}
	return res
}
