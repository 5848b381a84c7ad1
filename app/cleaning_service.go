package app

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"surveyclean/adapters/csvout"
	"surveyclean/adapters/excel"
	"surveyclean/domain/policy"
	"surveyclean/internal"
	"surveyclean/internal/errors"
	"surveyclean/internal/pipeline"
	"surveyclean/ports"
)

// WorkbookLocator finds the input workbook
type WorkbookLocator interface {
	Locate() (string, error)
}

// CleaningService runs discovery, reading, cleaning and persistence for both pipeline variants
type CleaningService struct {
	locator   WorkbookLocator
	reader    ports.WorkbookReader
	pipeline  *pipeline.Pipeline
	selection policy.Selection
	writers   map[string]ports.TableWriter // by lower-case output extension
	logger    *internal.Logger
}

// SalaryRun is the outcome of a salary reshape
type SalaryRun struct {
	*pipeline.Result
	InputPath  string
	OutputPath string
}

// NewCleaningService creates a cleaning service. Outputs ending in .xlsx are written as
// workbooks, everything else as CSV.
func NewCleaningService(locator WorkbookLocator, reader ports.WorkbookReader, pipe *pipeline.Pipeline, selection policy.Selection, logger *internal.Logger) *CleaningService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CleaningService{
		locator:   locator,
		reader:    reader,
		pipeline:  pipe,
		selection: selection,
		writers: map[string]ports.TableWriter{
			".csv":  csvout.NewWriter(),
			".xlsx": excel.NewTableWriter(),
		},
		logger: logger,
	}
}

// Discover returns the workbook the service would read
func (s *CleaningService) Discover() (string, error) {
	path, err := s.locator.Locate()
	if err != nil {
		return "", errors.Classify(err, "failed to locate input workbook")
	}
	return path, nil
}

// CleanFull reads every sheet with its header row and runs the full clean
func (s *CleaningService) CleanFull(ctx context.Context) (*pipeline.Result, error) {
	startTime := time.Now()
	path, err := s.Discover()
	if err != nil {
		return nil, err
	}

	wb, err := s.reader.ReadWorkbook(ctx, path, ports.ReadOptions{Mode: ports.ReadWithHeader})
	if err != nil {
		return nil, errors.Classify(err, "failed to read "+path)
	}

	result, err := s.pipeline.RunFull(wb)
	if err != nil {
		return nil, errors.Classify(err, "full clean failed")
	}

	s.logger.Info("[CleaningService] full clean of %s: %d rows in %dms", path, result.Table.Len(), time.Since(startTime).Milliseconds())
	return result, nil
}

// CleanSalaries reads the positional salary layout, reshapes and filters it, sorts by company
// and writes the table to outputPath. When the column selection fails nothing is written and
// the returned run holds the empty table.
func (s *CleaningService) CleanSalaries(ctx context.Context, outputPath string) (*SalaryRun, error) {
	startTime := time.Now()
	path, err := s.Discover()
	if err != nil {
		return nil, err
	}

	opts := ports.ReadOptions{Mode: ports.ReadPositional, SkipRows: s.selection.SkipRows}
	wb, err := s.reader.ReadWorkbook(ctx, path, opts)
	if err != nil {
		return nil, errors.Classify(err, "failed to read "+path)
	}

	result, err := s.pipeline.RunSelected(wb)
	run := &SalaryRun{Result: result, InputPath: path}
	if err != nil {
		return run, errors.Classify(err, "salary reshape failed")
	}

	if err := result.Table.SortBy(policy.CompanyColumn); err != nil {
		return run, errors.Classify(err, "failed to sort salaries")
	}

	writer, ok := s.writers[strings.ToLower(filepath.Ext(outputPath))]
	if !ok {
		writer = s.writers[".csv"]
	}
	if err := writer.WriteTable(ctx, outputPath, result.Table); err != nil {
		return run, errors.IOError(outputPath, err)
	}
	run.OutputPath = outputPath

	s.logger.Info("[CleaningService] %d salary rows from %s written to %s in %dms",
		result.Table.Len(), path, outputPath, time.Since(startTime).Milliseconds())
	return run, nil
}
