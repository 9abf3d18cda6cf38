package jsoncodec

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/record-converter/internal/codec"
	"github.com/ginjaninja78/record-converter/internal/config"
	"github.com/ginjaninja78/record-converter/internal/types"
)

func newTestCodec() *Codec {
	cfg := config.Default()
	return New(cfg.JSON, cfg.Output)
}

func TestEncode(t *testing.T) {
	t.Run("four space indent in field order", func(t *testing.T) {
		rs := types.RecordSet{
			types.NewRecord([]string{"name", "age"}, []any{"Alice", "30"}),
			types.NewRecord([]string{"zip"}, []any{"0150"}),
		}

		data, err := newTestCodec().Encode(rs)
		require.NoError(t, err)

		want := `[
    {
        "name": "Alice",
        "age": "30"
    },
    {
        "zip": "0150"
    }
]`
		assert.Equal(t, want, string(data))
	})

	t.Run("empty set and empty record", func(t *testing.T) {
		data, err := newTestCodec().Encode(types.RecordSet{})
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))

		data, err = newTestCodec().Encode(types.RecordSet{{}})
		require.NoError(t, err)
		assert.Equal(t, "[\n    {}\n]", string(data))
	})

	t.Run("html characters are kept", func(t *testing.T) {
		rs := types.RecordSet{types.NewRecord([]string{"tag"}, []any{"<b>&</b>"})}
		data, err := newTestCodec().Encode(rs)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"<b>&</b>"`)
	})

	t.Run("scalar values", func(t *testing.T) {
		rs := types.RecordSet{types.NewRecord(
			[]string{"n", "f", "ok", "none"},
			[]any{json.Number("12"), json.Number("1.50"), true, nil},
		)}
		data, err := newTestCodec().Encode(rs)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"n": 12, "f": 1.50, "ok": true, "none": null}]`, string(data))
	})
}

func TestDecode(t *testing.T) {
	t.Run("keeps document key order", func(t *testing.T) {
		rs, err := newTestCodec().Decode([]byte(`[{"z": "1", "a": "2", "m": "3"}]`))
		require.NoError(t, err)
		require.Len(t, rs, 1)
		assert.Equal(t, []string{"z", "a", "m"}, rs[0].Keys())
	})

	t.Run("scalars", func(t *testing.T) {
		rs, err := newTestCodec().Decode([]byte(`[{"n": 1.50, "ok": false, "none": null, "s": "x"}]`))
		require.NoError(t, err)
		want := types.RecordSet{types.NewRecord(
			[]string{"n", "ok", "none", "s"},
			[]any{json.Number("1.50"), false, nil, "x"},
		)}
		assert.Equal(t, want, rs)
	})

	t.Run("empty array", func(t *testing.T) {
		rs, err := newTestCodec().Decode([]byte(" [ ] \n"))
		require.NoError(t, err)
		assert.NotNil(t, rs)
		assert.Empty(t, rs)
	})

	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"invalid syntax", `[{"a": }]`},
		{"truncated", `[{"a": "b"`},
		{"top-level object", `{"a": "b"}`},
		{"array of scalars", `["a", "b"]`},
		{"nested object", `[{"a": {"b": "c"}}]`},
		{"nested array", `[{"a": [1, 2]}]`},
		{"trailing data", `[{"a": "b"}] [1]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestCodec().Decode([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	rs := types.RecordSet{
		types.NewRecord([]string{"name", "age"}, []any{"Alice", "30"}),
		types.NewRecord([]string{"city", "name", "zip"}, []any{"Paris", "Bob", "75001"}),
		types.NewRecord([]string{"quote"}, []any{"she said \"hi\"\n\tand left"}),
		types.NewRecord([]string{"unicode"}, []any{"Zoë 日本"}),
	}
	path := filepath.Join(t.TempDir(), "out.json")

	c := newTestCodec()
	require.NoError(t, c.Write(path, rs))

	back, err := c.Read(path)
	require.NoError(t, err)
	assert.Equal(t, rs, back)
}

func TestRead(t *testing.T) {
	t.Run("invalid content is a decode error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "in.json")
		require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

		_, err := newTestCodec().Read(path)
		assert.ErrorIs(t, err, codec.ErrDecode)
	})

	t.Run("missing file is an i/o error", func(t *testing.T) {
		_, err := newTestCodec().Read(filepath.Join(t.TempDir(), "missing.json"))
		assert.ErrorIs(t, err, codec.ErrIO)
	})
}
