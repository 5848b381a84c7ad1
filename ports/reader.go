package ports

import (
	"context"

	"surveyclean/domain/table"
)

// ReadMode selects how a sheet's first rows are interpreted
type ReadMode string

const (
	// ReadWithHeader uses the first row as column names
	ReadWithHeader ReadMode = "header"
	// ReadPositional has no header row; columns are named by zero-based position ("0", "1", ...)
	ReadPositional ReadMode = "positional"
)

// ReadOptions control how a workbook is turned into tables
type ReadOptions struct {
	Mode     ReadMode
	SkipRows int // leading rows discarded before the header (or the data, in positional mode)
}

// WorkbookReader supplies every sheet of a spreadsheet as a raw table
type WorkbookReader interface {
	ReadWorkbook(ctx context.Context, path string, opts ReadOptions) (*table.Workbook, error)
}
