package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/record-converter/internal/codec"
	"github.com/ginjaninja78/record-converter/internal/types"
)

func people() types.RecordSet {
	return types.RecordSet{
		types.NewRecord([]string{"name", "age"}, []any{"Alice", "30"}),
		types.NewRecord([]string{"age", "name", "city"}, []any{"25", "Bob", "Paris"}),
	}
}

func TestShape(t *testing.T) {
	t.Run("first record dictates the columns", func(t *testing.T) {
		shape := NewShape(people(), MissingFieldError)
		assert.Equal(t, []string{"name", "age"}, shape.Columns())

		rows, err := shape.ProjectAll(people())
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"Alice", "30"}, {"Bob", "25"}}, rows)
	})

	t.Run("missing field fails with shape error", func(t *testing.T) {
		rs := append(people(), types.NewRecord([]string{"name"}, []any{"Carol"}))
		_, err := NewShape(rs, MissingFieldError).ProjectAll(rs)

		var shapeErr *codec.ShapeError
		require.True(t, errors.As(err, &shapeErr))
		assert.Equal(t, 2, shapeErr.Index)
		assert.Equal(t, "age", shapeErr.Field)
	})

	t.Run("missing field written empty", func(t *testing.T) {
		rs := append(people(), types.NewRecord([]string{"name"}, []any{"Carol"}))
		rows, err := NewShape(rs, MissingFieldEmpty).ProjectAll(rs)
		require.NoError(t, err)
		assert.Equal(t, []string{"Carol", ""}, rows[2])
	})

	t.Run("empty set", func(t *testing.T) {
		shape := NewShape(nil, MissingFieldError)
		assert.Empty(t, shape.Columns())
		rows, err := shape.ProjectAll(nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestParseMissingFieldPolicy(t *testing.T) {
	policy, err := ParseMissingFieldPolicy("empty")
	require.NoError(t, err)
	assert.Equal(t, MissingFieldEmpty, policy)

	policy, err = ParseMissingFieldPolicy("")
	require.NoError(t, err)
	assert.Equal(t, MissingFieldError, policy)

	_, err = ParseMissingFieldPolicy("skip")
	assert.Error(t, err)
}
