package table

import (
	"fmt"
	"sort"
	"strings"

	"surveyclean/domain/core"
)

// Table is an in-memory, row-oriented dataset with ordered, named columns.
// A Table has one owner at a time; none of its methods are safe for concurrent use.
type Table struct {
	columns     []string
	index       map[string]int
	categorical map[string]bool
	rows        [][]Value
}

// New creates an empty table with the given columns
func New(columns ...string) *Table {
	t := &Table{
		index:       make(map[string]int, len(columns)),
		categorical: make(map[string]bool),
	}
	for _, c := range columns {
		t.columns = append(t.columns, c)
		t.index[c] = len(t.columns) - 1
	}
	return t
}

// Columns returns a copy of the column names in order
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.rows) }

// Width returns the number of columns
func (t *Table) Width() int { return len(t.columns) }

// Has reports whether the column exists
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// ColumnIndex returns the position of a column
func (t *Table) ColumnIndex(column string) (int, bool) {
	i, ok := t.index[column]
	return i, ok
}

// AppendRow adds a row. Short rows are padded with missing values.
func (t *Table) AppendRow(values ...Value) error {
	if len(values) > len(t.columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.columns))
	}
	row := make([]Value, len(t.columns))
	copy(row, values)
	for i := len(values); i < len(row); i++ {
		row[i] = NewMissingValue()
	}
	t.rows = append(t.rows, row)
	return nil
}

// Row returns a copy of row i
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Value returns the cell at (row, column); missing if the column does not exist
func (t *Table) Value(row int, column string) Value {
	ci, ok := t.index[column]
	if !ok {
		return NewMissingValue()
	}
	return t.rows[row][ci]
}

// Set overwrites a cell
func (t *Table) Set(row int, column string, v Value) error {
	ci, ok := t.index[column]
	if !ok {
		return core.NewColumnNotFoundError(column)
	}
	t.rows[row][ci] = v
	return nil
}

// ColumnValues returns a copy of every value in a column
func (t *Table) ColumnValues(column string) ([]Value, error) {
	ci, ok := t.index[column]
	if !ok {
		return nil, core.NewColumnNotFoundError(column)
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[ci]
	}
	return out, nil
}

// MapColumn replaces every value of a column with fn(value) and returns how many cells changed
func (t *Table) MapColumn(column string, fn func(Value) Value) (int, error) {
	ci, ok := t.index[column]
	if !ok {
		return 0, core.NewColumnNotFoundError(column)
	}
	changed := 0
	for _, row := range t.rows {
		next := fn(row[ci])
		if !next.Equal(row[ci]) {
			changed++
		}
		row[ci] = next
	}
	return changed, nil
}

// AddColumn appends a column with every row set to fill
func (t *Table) AddColumn(column string, fill Value) error {
	if t.Has(column) {
		return fmt.Errorf("column %q already exists", column)
	}
	t.columns = append(t.columns, column)
	t.index[column] = len(t.columns) - 1
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], fill)
	}
	return nil
}

// Filter keeps the rows for which keep returns true, preserving order, and returns how many were removed
func (t *Table) Filter(keep func(row []Value) bool) int {
	kept := t.rows[:0]
	for _, row := range t.rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	removed := len(t.rows) - len(kept)
	for i := len(kept); i < len(t.rows); i++ {
		t.rows[i] = nil
	}
	t.rows = kept
	return removed
}

// MarkCategorical flags a column as holding a bounded set of categories
func (t *Table) MarkCategorical(column string) error {
	if !t.Has(column) {
		return core.NewColumnNotFoundError(column)
	}
	t.categorical[column] = true
	return nil
}

// IsCategorical reports whether a column was flagged categorical
func (t *Table) IsCategorical(column string) bool {
	return t.categorical[column]
}

// Categories returns the sorted distinct non-missing values of a column
func (t *Table) Categories(column string) ([]string, error) {
	values, err := t.ColumnValues(column)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		s := v.String()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

// FingerprintValues hashes a row of cells. Rows are equal exactly when their fingerprints are.
func FingerprintValues(row []Value) core.RowFingerprint {
	var b strings.Builder
	for _, v := range row {
		v.appendKey(&b)
	}
	return core.NewRowFingerprint([]byte(b.String()))
}

// SortBy orders rows ascending by one column. The sort is stable; missing values sort last,
// numbers compare numerically and everything else by its string form.
func (t *Table) SortBy(column string) error {
	ci, ok := t.index[column]
	if !ok {
		return core.NewColumnNotFoundError(column)
	}
	sort.SliceStable(t.rows, func(i, j int) bool {
		return less(t.rows[i][ci], t.rows[j][ci])
	})
	return nil
}

func less(a, b Value) bool {
	if a.IsMissing() || b.IsMissing() {
		return !a.IsMissing() && b.IsMissing()
	}
	if a.IsNumeric() && b.IsNumeric() {
		return a.Num < b.Num
	}
	return a.String() < b.String()
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	c := New(t.columns...)
	for k, v := range t.categorical {
		c.categorical[k] = v
	}
	c.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		c.rows[i] = make([]Value, len(row))
		copy(c.rows[i], row)
	}
	return c
}

// Concat row-concatenates tables over the union of their columns. Columns keep the order of
// first appearance and cells a table lacks are missing.
func Concat(tables ...*Table) *Table {
	var columns []string
	seen := make(map[string]bool)
	for _, tb := range tables {
		for _, c := range tb.columns {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}

	out := New(columns...)
	for _, tb := range tables {
		positions := make([]int, len(tb.columns))
		for i, c := range tb.columns {
			positions[i] = out.index[c]
		}
		for _, row := range tb.rows {
			merged := make([]Value, len(columns))
			for i := range merged {
				merged[i] = NewMissingValue()
			}
			for i, v := range row {
				merged[positions[i]] = v
			}
			out.rows = append(out.rows, merged)
		}
		for c := range tb.categorical {
			out.categorical[c] = true
		}
	}
	return out
}
