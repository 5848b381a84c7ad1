package excel

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"surveyclean/domain/core"
	"surveyclean/domain/table"
	"surveyclean/ports"

	"github.com/xuri/excelize/v2"
)

// WorkbookReader reads every sheet of an .xlsx/.xlsm workbook into tables
type WorkbookReader struct {
	config ReaderConfig
}

var _ ports.WorkbookReader = (*WorkbookReader)(nil)

// NewWorkbookReader creates a reader with the default configuration
func NewWorkbookReader() *WorkbookReader {
	return NewWorkbookReaderWithConfig(DefaultReaderConfig())
}

// NewWorkbookReaderWithConfig creates a reader with a custom configuration
func NewWorkbookReaderWithConfig(config ReaderConfig) *WorkbookReader {
	return &WorkbookReader{config: config}
}

// ReadWorkbook reads all sheets in workbook order
func (r *WorkbookReader) ReadWorkbook(ctx context.Context, path string, opts ports.ReadOptions) (*table.Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, core.NewFileNotFoundError(path)
	}
	if opts.SkipRows < 0 {
		return nil, fmt.Errorf("skip rows cannot be negative: %d", opts.SkipRows)
	}

	startTime := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()
	log.Printf("[WorkbookReader] %s opened in %.2fms", path, float64(time.Since(startTime).Nanoseconds())/1e6)

	sheetNames := f.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrEmptyInput, path)
	}

	wb := &table.Workbook{Path: path}
	for _, name := range sheetNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tb, err := r.readSheet(f, name, opts)
		if err != nil {
			return nil, err
		}
		log.Printf("[WorkbookReader] sheet %q: %d columns, %d rows", name, tb.Width(), tb.Len())
		wb.Sheets = append(wb.Sheets, table.Sheet{Name: name, Table: tb})
	}

	return wb, nil
}

func (r *WorkbookReader) readSheet(f *excelize.File, sheet string, opts ports.ReadOptions) (*table.Table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	firstRow := opts.SkipRows
	if firstRow > len(rows) {
		firstRow = len(rows)
	}
	rows = rows[firstRow:]

	var columns []string
	dataStart := 0
	switch opts.Mode {
	case ports.ReadPositional:
		columns = positionalColumns(maxWidth(rows))
	case ports.ReadWithHeader, "":
		if len(rows) == 0 {
			return table.New(), nil
		}
		columns = r.headerColumns(rows[0], maxWidth(rows))
		dataStart = 1
	default:
		return nil, fmt.Errorf("unsupported read mode: %s", opts.Mode)
	}

	tb := table.New(columns...)
	for i := dataStart; i < len(rows); i++ {
		// 1-based sheet row number of rows[i]
		rowNumber := firstRow + i + 1
		values := make([]table.Value, len(rows[i]))
		for j, raw := range rows[i] {
			values[j] = r.cellValue(f, sheet, j+1, rowNumber, raw)
		}
		if err := tb.AppendRow(values...); err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet, rowNumber, err)
		}
	}
	return tb, nil
}

// headerColumns names columns from the header row. Blank header cells, and data columns
// beyond the header, are named "Unnamed: <index>". A repeated name becomes "<name>.<n>",
// n counting up past any name already taken.
func (r *WorkbookReader) headerColumns(header []string, width int) []string {
	if len(header) > width {
		width = len(header)
	}
	columns := make([]string, width)
	seen := make(map[string]bool, width)
	repeats := make(map[string]int)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(header) {
			name = header[i]
			if r.config.TrimHeaders {
				name = strings.TrimSpace(name)
			}
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[name] {
			base := name
			for seen[name] {
				repeats[base]++
				name = fmt.Sprintf("%s.%d", base, repeats[base])
			}
		}
		seen[name] = true
		columns[i] = name
	}
	return columns
}

// cellValue types a raw cell using the workbook's own cell type
func (r *WorkbookReader) cellValue(f *excelize.File, sheet string, col, row int, raw string) table.Value {
	if raw == "" {
		return table.NewMissingValue()
	}
	if !r.config.NumericCells {
		return table.NewStringValue(raw)
	}

	cellRef, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return table.NewStringValue(raw)
	}
	cellType, err := f.GetCellType(sheet, cellRef)
	if err != nil {
		return table.NewStringValue(raw)
	}

	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeUnset, excelize.CellTypeFormula:
		// cells without an explicit type are numbers in OOXML
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return table.NewNumericValue(n)
		}
	case excelize.CellTypeBool:
		if raw == "1" {
			return table.NewStringValue("TRUE")
		}
		return table.NewStringValue("FALSE")
	}
	return table.NewStringValue(raw)
}

func positionalColumns(width int) []string {
	columns := make([]string, width)
	for i := range columns {
		columns[i] = strconv.Itoa(i)
	}
	return columns
}

func maxWidth(rows [][]string) int {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}
