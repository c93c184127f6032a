package factor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/survgo/codec"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	status, err := New("status", []string{"alive", "dead"}, []float64{0, 1},
		map[string]string{"living": "alive", "deceased": "dead"}, false)
	require.NoError(t, err)

	sex, err := New("sex", []string{"M", "F"}, []float64{1, 2}, nil, true)
	require.NoError(t, err)

	r := NewRegistry()
	require.NoError(t, r.Add(status))
	require.NoError(t, r.Add(sex))
	return r
}

func TestRegistry(t *testing.T) {
	t.Run("AddAndGet", func(t *testing.T) {
		r := newTestRegistry(t)

		f, ok := r.Get("status")
		require.True(t, ok)
		assert.Equal(t, []string{"alive", "dead"}, f.Levels)

		_, ok = r.Get("nope")
		assert.False(t, ok)
	})

	t.Run("DuplicateColumn", func(t *testing.T) {
		r := newTestRegistry(t)
		f, err := New("status", []string{"x"}, []float64{0}, nil, false)
		require.NoError(t, err)

		var malformed *ErrMalformedDefinition
		require.ErrorAs(t, r.Add(f), &malformed)
	})

	t.Run("ColumnsKeepInsertionOrder", func(t *testing.T) {
		r := newTestRegistry(t)
		assert.Equal(t, []string{"status", "sex"}, r.Columns())
	})

	t.Run("BuildMissing", func(t *testing.T) {
		r := newTestRegistry(t)
		raw := map[string][]string{
			"status":    {"alive", "dead"},
			"condition": {"treated", "placebo", "treated"},
		}

		require.NoError(t, r.BuildMissing([]string{"status", "condition"}, raw, false))

		// Existing definition untouched, new one inferred.
		status, _ := r.Get("status")
		assert.Equal(t, map[string]string{"living": "alive", "deceased": "dead"}, status.Matching)

		condition, ok := r.Get("condition")
		require.True(t, ok)
		assert.Equal(t, []string{"treated", "placebo"}, condition.Levels)
	})
}

func TestRegistryRoundTrip(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			r := newTestRegistry(t)

			data, err := r.Save(c)
			require.NoError(t, err)

			loaded, err := Load(data, c)
			require.NoError(t, err)

			require.Equal(t, r.Columns(), loaded.Columns())
			for _, column := range r.Columns() {
				want, _ := r.Get(column)
				got, ok := loaded.Get(column)
				require.True(t, ok)
				assert.Equal(t, want.Levels, got.Levels)
				assert.Equal(t, want.Numeric, got.Numeric)
				assert.Equal(t, want.Matching, got.Matching)
				assert.Equal(t, want.OneHot, got.OneHot)
			}
		})
	}
}

func TestRegistrySaveDeterministic(t *testing.T) {
	r := newTestRegistry(t)

	first, err := r.Save(nil)
	require.NoError(t, err)
	second, err := r.Save(nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLoadRejectsMalformedDefinitions(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "LengthMismatch",
			data: `[{"column":"status","levels":["alive","dead"],"numeric":[0],"one_hot":false}]`,
		},
		{
			name: "DuplicateLevels",
			data: `[{"column":"status","levels":["alive","alive"],"numeric":[0,1],"one_hot":false}]`,
		},
		{
			name: "DuplicateColumns",
			data: `[{"column":"status","levels":["a"],"numeric":[0],"one_hot":false},
			        {"column":"status","levels":["b"],"numeric":[0],"one_hot":false}]`,
		},
		{
			name: "MatchingToUnknownLevel",
			data: `[{"column":"sex","levels":["M","F"],"numeric":[0,1],"matching":{"Male":"male"},"one_hot":false}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data), nil)

			var malformed *ErrMalformedDefinition
			require.ErrorAs(t, err, &malformed)
		})
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	_, err := Load([]byte("{not json"), nil)
	require.Error(t, err)
}
