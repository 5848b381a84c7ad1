package csvout

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyclean/internal/testkit"
)

func TestWriteTable(t *testing.T) {
	tb := testkit.Table(t, []string{"company", "source_sheet", "salary_category_origin", "salary_daily"},
		[]interface{}{"acme", "Lima", "salary_entry", 5},
		[]interface{}{"hooli, inc", "Cusco", "salary_senior", 12.75},
		[]interface{}{"globex", nil, "salary_entry", 300},
	)
	path := filepath.Join(t.TempDir(), "salida", "salarios_limpios.csv")

	require.NoError(t, NewWriter().WriteTable(context.Background(), path, tb))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "company,source_sheet,salary_category_origin,salary_daily\n" +
		"acme,Lima,salary_entry,5\n" +
		"\"hooli, inc\",Cusco,salary_senior,12.75\n" +
		"globex,,salary_entry,300\n"
	assert.Equal(t, want, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should be gone")
}

func TestWriteTableHeaderOnly(t *testing.T) {
	tb := testkit.Table(t, []string{"company", "salary_daily"})
	path := filepath.Join(t.TempDir(), "empty.csv")

	require.NoError(t, NewWriter().WriteTable(context.Background(), path, tb))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "company,salary_daily\n", string(data))
}
