package excel

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyclean/domain/core"
	"surveyclean/internal/testkit"
	"surveyclean/ports"
)

func TestReadWorkbookWithHeader(t *testing.T) {
	dir := t.TempDir()
	path := testkit.WriteWorkbook(t, dir, "encuesta.xlsx",
		testkit.SheetFixture{Name: "2022", Rows: [][]interface{}{
			{"salario", " sector_empresa ", "activo"},
			{1500, "Tech", true},
			{nil, "Salud", false},
			{"2500", nil, nil},
		}},
		testkit.SheetFixture{Name: "2023", Rows: [][]interface{}{
			{"salario", "sector_empresa"},
			{1800.5, "Comercio"},
		}},
	)

	wb, err := NewWorkbookReader().ReadWorkbook(context.Background(), path, ports.ReadOptions{Mode: ports.ReadWithHeader})
	require.NoError(t, err)

	require.Equal(t, []string{"2022", "2023"}, wb.SheetNames())
	first := wb.Sheets[0].Table
	assert.Equal(t, []string{"salario", "sector_empresa", "activo"}, first.Columns())
	assert.Equal(t, 3, first.Len())

	assert.True(t, first.Value(0, "salario").IsNumeric())
	assert.Equal(t, 1500.0, first.Value(0, "salario").Num)
	assert.True(t, first.Value(1, "salario").IsMissing())
	assert.True(t, first.Value(2, "salario").IsString(), "text cells stay text until coercion")
	assert.Equal(t, "TRUE", first.Value(0, "activo").Str)
	assert.Equal(t, "FALSE", first.Value(1, "activo").Str)
	assert.True(t, first.Value(2, "sector_empresa").IsMissing())

	assert.Equal(t, 1800.5, wb.Sheets[1].Table.Value(0, "salario").Num)
	assert.Equal(t, 4, wb.TotalRows())
}

func TestReadWorkbookPositional(t *testing.T) {
	dir := t.TempDir()
	path := testkit.WriteWorkbook(t, dir, "salarios.xlsx",
		testkit.SheetFixture{Name: "Lima", Rows: [][]interface{}{
			{"Encuesta de salarios diarios"},
			{"Empresa", "Operario", "Técnico", "Supervisor", "Jefe"},
			{"Acme", 5, nil, "x", -1},
			{"Globex", 40, 50, 60, 70},
		}},
	)

	wb, err := NewWorkbookReader().ReadWorkbook(context.Background(), path, ports.ReadOptions{Mode: ports.ReadPositional, SkipRows: 2})
	require.NoError(t, err)

	tb := wb.Sheets[0].Table
	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, tb.Columns())
	require.Equal(t, 2, tb.Len())
	assert.Equal(t, "Acme", tb.Value(0, "0").Str)
	assert.Equal(t, 5.0, tb.Value(0, "1").Num)
	assert.True(t, tb.Value(0, "2").IsMissing())
	assert.Equal(t, "x", tb.Value(0, "3").Str)
	assert.Equal(t, -1.0, tb.Value(0, "4").Num)
}

func TestReadWorkbookHeaderEdgeCases(t *testing.T) {
	dir := t.TempDir()

	t.Run("blank header is unnamed", func(t *testing.T) {
		path := testkit.WriteWorkbook(t, dir, "blank.xlsx", testkit.SheetFixture{Name: "S", Rows: [][]interface{}{
			{"a", nil, "c"},
			{1, 2, 3, 4},
		}})
		wb, err := NewWorkbookReader().ReadWorkbook(context.Background(), path, ports.ReadOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "Unnamed: 1", "c", "Unnamed: 3"}, wb.Sheets[0].Table.Columns())
	})

	t.Run("repeated header is numbered", func(t *testing.T) {
		path := testkit.WriteWorkbook(t, dir, "dup.xlsx", testkit.SheetFixture{Name: "S", Rows: [][]interface{}{
			{"a", "a"},
			{1, 2},
		}})
		wb, err := NewWorkbookReader().ReadWorkbook(context.Background(), path, ports.ReadOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "a.1"}, wb.Sheets[0].Table.Columns())
		assert.Equal(t, 2.0, wb.Sheets[0].Table.Value(0, "a.1").Num)
	})

	t.Run("repeated header skips taken names", func(t *testing.T) {
		path := testkit.WriteWorkbook(t, dir, "dup-taken.xlsx", testkit.SheetFixture{Name: "S", Rows: [][]interface{}{
			{"b", "b.1", "b", "b"},
			{1, 2, 3, 4},
		}})
		wb, err := NewWorkbookReader().ReadWorkbook(context.Background(), path, ports.ReadOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "b.1", "b.2", "b.3"}, wb.Sheets[0].Table.Columns())
	})

	t.Run("empty sheet yields empty table", func(t *testing.T) {
		path := testkit.WriteWorkbook(t, dir, "empty.xlsx", testkit.SheetFixture{Name: "S"})
		wb, err := NewWorkbookReader().ReadWorkbook(context.Background(), path, ports.ReadOptions{})
		require.NoError(t, err)
		assert.Equal(t, 0, wb.Sheets[0].Table.Len())
		assert.Equal(t, 0, wb.Sheets[0].Table.Width())
	})

	t.Run("text mode keeps numbers as text", func(t *testing.T) {
		path := testkit.WriteWorkbook(t, dir, "text.xlsx", testkit.SheetFixture{Name: "S", Rows: [][]interface{}{
			{"n"},
			{42},
		}})
		reader := NewWorkbookReaderWithConfig(ReaderConfig{TrimHeaders: true, NumericCells: false})
		wb, err := reader.ReadWorkbook(context.Background(), path, ports.ReadOptions{})
		require.NoError(t, err)
		assert.Equal(t, "42", wb.Sheets[0].Table.Value(0, "n").Str)
	})
}

func TestReadWorkbookMissingFile(t *testing.T) {
	_, err := NewWorkbookReader().ReadWorkbook(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"), ports.ReadOptions{})
	assert.True(t, errors.Is(err, core.ErrFileNotFound))
}

func TestReadWorkbookCancelled(t *testing.T) {
	path := testkit.WriteWorkbook(t, t.TempDir(), "c.xlsx", testkit.SheetFixture{Name: "S", Rows: [][]interface{}{{"a"}, {1}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWorkbookReader().ReadWorkbook(ctx, path, ports.ReadOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
