package csvout

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"surveyclean/domain/table"
	"surveyclean/ports"
)

// Writer persists tables as comma-separated files with a header row and no index column
type Writer struct {
	comma rune
}

var _ ports.TableWriter = (*Writer)(nil)

// NewWriter creates a comma-separated writer
func NewWriter() *Writer {
	return &Writer{comma: ','}
}

// WriteTable writes t to path, creating parent directories. The file is written to a
// temporary name first and renamed into place so a failed run never leaves a partial file.
func (w *Writer) WriteTable(ctx context.Context, path string, t *table.Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set CSV file mode: %w", err)
	}

	if err := w.encode(ctx, tmp, t); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close CSV file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move CSV file into place: %w", err)
	}
	return nil
}

func (w *Writer) encode(ctx context.Context, f *os.File, t *table.Table) error {
	cw := csv.NewWriter(f)
	cw.Comma = w.comma

	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, t.Width())
	for i := 0; i < t.Len(); i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for j, v := range t.Row(i) {
			record[j] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
