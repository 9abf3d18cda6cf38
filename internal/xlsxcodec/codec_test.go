package xlsxcodec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/record-converter/internal/codec"
	"github.com/ginjaninja78/record-converter/internal/config"
	"github.com/ginjaninja78/record-converter/internal/types"
)

func newTestCodec() *Codec {
	return New(config.Default().Output)
}

// writeWorkbook saves rows to the first sheet of a new workbook.
func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	if sheet != SheetName {
		require.NoError(t, f.SetSheetName(SheetName, sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "in.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestRead(t *testing.T) {
	t.Run("header and rows", func(t *testing.T) {
		path := writeWorkbook(t, "People", [][]any{
			{"name", "age"},
			{"Alice", "30"},
			{"Bob", "25"},
		})

		rs, err := newTestCodec().Read(path)
		require.NoError(t, err)
		assert.Equal(t, "[{name:Alice age:30} {name:Bob age:25}]", rs.String())
	})

	t.Run("short rows are padded and empty rows kept", func(t *testing.T) {
		path := writeWorkbook(t, SheetName, [][]any{
			{"a", "b", "c"},
			{"1"},
			{},
			{"2", "x", "y"},
		})

		rs, err := newTestCodec().Read(path)
		require.NoError(t, err)
		want := types.RecordSet{
			types.NewRecord([]string{"a", "b", "c"}, []any{"1", "", ""}),
			types.NewRecord([]string{"a", "b", "c"}, []any{"", "", ""}),
			types.NewRecord([]string{"a", "b", "c"}, []any{"2", "x", "y"}),
		}
		assert.Equal(t, want, rs)
	})

	t.Run("records range extends past the last filled row", func(t *testing.T) {
		f := excelize.NewFile()
		defer f.Close()
		require.NoError(t, f.SetSheetRow(SheetName, "A1", &[]any{"a", "b"}))
		require.NoError(t, f.SetSheetRow(SheetName, "A2", &[]any{"1", "2"}))
		require.NoError(t, f.SetDefinedName(&excelize.DefinedName{Name: RangeName, RefersTo: "Sheet1!$A$1:$B$4"}))
		path := filepath.Join(t.TempDir(), "in.xlsx")
		require.NoError(t, f.SaveAs(path))

		rs, err := newTestCodec().Read(path)
		require.NoError(t, err)
		assert.Equal(t, "[{a:1 b:2} {a: b:} {a: b:}]", rs.String())
	})

	t.Run("too many values", func(t *testing.T) {
		path := writeWorkbook(t, SheetName, [][]any{{"a"}, {"1", "2"}})

		_, err := newTestCodec().Read(path)
		assert.ErrorIs(t, err, codec.ErrDecode)
	})

	t.Run("empty sheet", func(t *testing.T) {
		path := writeWorkbook(t, SheetName, nil)

		rs, err := newTestCodec().Read(path)
		require.NoError(t, err)
		assert.NotNil(t, rs)
		assert.Empty(t, rs)
	})

	t.Run("not a workbook", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "in.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("name,age\n"), 0644))

		_, err := newTestCodec().Read(path)
		assert.ErrorIs(t, err, codec.ErrDecode)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := newTestCodec().Read(filepath.Join(t.TempDir(), "missing.xlsx"))
		assert.ErrorIs(t, err, codec.ErrIO)
	})
}

func TestWrite(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		rs := types.RecordSet{
			types.NewRecord([]string{"name", "note"}, []any{"Smith, John", `said "hi"`}),
			types.NewRecord([]string{"note", "name"}, []any{"=1+1", "Jane"}),
		}
		path := filepath.Join(t.TempDir(), "out.xlsx")

		c := newTestCodec()
		require.NoError(t, c.Write(path, rs))

		back, err := c.Read(path)
		require.NoError(t, err)
		want := types.RecordSet{
			types.NewRecord([]string{"name", "note"}, []any{"Smith, John", `said "hi"`}),
			types.NewRecord([]string{"name", "note"}, []any{"Jane", "=1+1"}),
		}
		assert.Equal(t, want, back)
	})

	t.Run("records with only empty values", func(t *testing.T) {
		keys := []string{"a", "b"}
		rs := types.RecordSet{
			types.NewRecord(keys, []any{"1", "2"}),
			types.NewRecord(keys, []any{"", ""}),
			types.NewRecord(keys, []any{"3", "4"}),
			types.NewRecord(keys, []any{"", ""}),
			types.NewRecord(keys, []any{"", ""}),
		}
		path := filepath.Join(t.TempDir(), "out.xlsx")

		c := newTestCodec()
		require.NoError(t, c.Write(path, rs))

		back, err := c.Read(path)
		require.NoError(t, err)
		assert.Equal(t, rs, back)
	})

	t.Run("cells are written to the output sheet", func(t *testing.T) {
		rs := types.RecordSet{types.NewRecord([]string{"n", "ok"}, []any{7, true})}
		path := filepath.Join(t.TempDir(), "out.xlsx")
		require.NoError(t, newTestCodec().Write(path, rs))

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows(SheetName)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"n", "ok"}, {"7", "true"}}, rows)
	})

	t.Run("missing field", func(t *testing.T) {
		rs := types.RecordSet{
			types.NewRecord([]string{"a", "b"}, []any{"1", "2"}),
			types.NewRecord([]string{"b"}, []any{"3"}),
		}
		path := filepath.Join(t.TempDir(), "out.xlsx")

		err := newTestCodec().Write(path, rs)
		var shapeErr *codec.ShapeError
		require.True(t, errors.As(err, &shapeErr))
		assert.Equal(t, "a", shapeErr.Field)
		assert.NoFileExists(t, path)
	})

	t.Run("empty set", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.xlsx")
		c := newTestCodec()
		require.NoError(t, c.Write(path, types.RecordSet{}))

		rs, err := c.Read(path)
		require.NoError(t, err)
		assert.Empty(t, rs)
	})
}
