// Package testkit builds fixture tables and workbooks for tests
package testkit

import (
	"fmt"
	"path/filepath"
	"testing"

	"surveyclean/domain/table"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// SheetFixture is one sheet of a fixture workbook. Rows are written from A1 downwards;
// nil cells are left empty.
type SheetFixture struct {
	Name string
	Rows [][]interface{}
}

// WriteWorkbook saves the sheets to dir/name and returns the path
func WriteWorkbook(t testing.TB, dir, name string, sheets ...SheetFixture) string {
	t.Helper()
	require.NotEmpty(t, sheets, "a workbook needs at least one sheet")

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet.Name))
		} else {
			_, err := f.NewSheet(sheet.Name)
			require.NoError(t, err)
		}
		for r, row := range sheet.Rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(sheet.Name, cell, v))
			}
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// Table builds a table from Go values: nil is missing, strings are text, ints and floats are numeric
func Table(t testing.TB, columns []string, rows ...[]interface{}) *table.Table {
	t.Helper()
	tb := table.New(columns...)
	for _, row := range rows {
		values := make([]table.Value, len(row))
		for i, v := range row {
			values[i] = ValueOf(v)
		}
		require.NoError(t, tb.AppendRow(values...))
	}
	return tb
}

// ValueOf converts a Go value to a cell
func ValueOf(v interface{}) table.Value {
	switch x := v.(type) {
	case nil:
		return table.NewMissingValue()
	case table.Value:
		return x
	case string:
		return table.NewStringValue(x)
	case int:
		return table.NewNumericValue(float64(x))
	case int64:
		return table.NewNumericValue(float64(x))
	case float64:
		return table.NewNumericValue(x)
	default:
		return table.NewStringValue(fmt.Sprintf("%v", x))
	}
}

// Workbook wraps named tables into a workbook in the given order
func Workbook(sheets ...table.Sheet) *table.Workbook {
	return &table.Workbook{Sheets: sheets}
}
