package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"surveyclean/domain/table"
	"surveyclean/ports"

	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the sheet written by TableWriter
const DefaultSheetName = "datos"

// TableWriter writes a table to a single-sheet .xlsx workbook
type TableWriter struct {
	sheetName string
}

var _ ports.TableWriter = (*TableWriter)(nil)

// NewTableWriter creates a writer using DefaultSheetName
func NewTableWriter() *TableWriter {
	return &TableWriter{sheetName: DefaultSheetName}
}

// WriteTable writes the header in row 1 and one row per table row; missing cells stay blank
func (w *TableWriter) WriteTable(ctx context.Context, path string, t *table.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), w.sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, t.Width())
	for i, c := range t.Columns() {
		header[i] = c
	}
	if err := f.SetSheetRow(w.sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < t.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := t.Row(i)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			switch {
			case v.IsNumeric():
				cells[j] = v.Num
			case v.IsString():
				cells[j] = v.Str
			default:
				cells[j] = nil
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(w.sheetName, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}
