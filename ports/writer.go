package ports

import (
	"context"

	"surveyclean/domain/table"
)

// TableWriter persists a cleaned table. Implementations write a header row and no row index.
type TableWriter interface {
	WriteTable(ctx context.Context, path string, t *table.Table) error
}
