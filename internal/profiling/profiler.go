// Package profiling describes tables the way a data analyst inspects them between
// cleaning steps: row count, non-null count and storage kind per column.
package profiling

import (
	"fmt"
	"strings"

	"surveyclean/domain/table"
)

// ColumnKind is the observed storage kind of a column
type ColumnKind string

const (
	KindNumeric  ColumnKind = "numeric"
	KindString   ColumnKind = "string"
	KindMixed    ColumnKind = "mixed"
	KindEmpty    ColumnKind = "empty"
	KindCategory ColumnKind = "category"
)

// ColumnInfo describes one column
type ColumnInfo struct {
	Name       string          `json:"name"`
	NonNull    int             `json:"non_null"`
	Kind       ColumnKind      `json:"kind"`
	Categories int             `json:"categories,omitempty"`
	Numeric    *NumericSummary `json:"numeric,omitempty"`
}

// Nulls returns the number of missing cells given the table row count
func (c ColumnInfo) Nulls(rows int) int {
	return rows - c.NonNull
}

// TableInfo describes a whole table
type TableInfo struct {
	Rows    int          `json:"rows"`
	Columns []ColumnInfo `json:"columns"`
}

// Describe inspects every column of t
func Describe(t *table.Table) TableInfo {
	info := TableInfo{Rows: t.Len()}
	for _, name := range t.Columns() {
		values, err := t.ColumnValues(name)
		if err != nil {
			continue
		}
		info.Columns = append(info.Columns, describeColumn(t, name, values))
	}
	return info
}

func describeColumn(t *table.Table, name string, values []table.Value) ColumnInfo {
	col := ColumnInfo{Name: name}
	var numbers []float64
	texts := 0
	for _, v := range values {
		switch {
		case v.IsNumeric():
			numbers = append(numbers, v.Num)
		case v.IsString():
			texts++
		}
	}
	col.NonNull = len(numbers) + texts

	switch {
	case t.IsCategorical(name):
		col.Kind = KindCategory
		if cats, err := t.Categories(name); err == nil {
			col.Categories = len(cats)
		}
	case col.NonNull == 0:
		col.Kind = KindEmpty
	case texts == 0:
		col.Kind = KindNumeric
	case len(numbers) == 0:
		col.Kind = KindString
	default:
		col.Kind = KindMixed
	}

	if col.Kind == KindNumeric {
		if summary, err := Summarize(numbers); err == nil {
			col.Numeric = &summary
		}
	}
	return col
}

// Column finds a column by name
func (ti TableInfo) Column(name string) (ColumnInfo, bool) {
	for _, c := range ti.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// String renders a compact per-column listing
func (ti TableInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d rows, %d columns\n", ti.Rows, len(ti.Columns))
	for i, c := range ti.Columns {
		fmt.Fprintf(&b, "  %2d  %-28s %6d non-null  %s", i, c.Name, c.NonNull, c.Kind)
		if c.Numeric != nil {
			fmt.Fprintf(&b, "  min=%g max=%g mean=%.2f median=%g", c.Numeric.Min, c.Numeric.Max, c.Numeric.Mean, c.Numeric.Median)
		}
		if c.Kind == KindCategory {
			fmt.Fprintf(&b, "  (%d categories)", c.Categories)
		}
		b.WriteString("\n")
	}
	return b.String()
}
