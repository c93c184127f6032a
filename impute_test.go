package survgo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/survgo/factor"
)

func TestImputeKNN(t *testing.T) {
	t.Run("NumericMeanOfKNearest", func(t *testing.T) {
		// Row 2 misses age; its two nearest rows on the remaining numeric
		// column (marker) are rows 0 and 1, so the imputed age must be the
		// mean of their ages.
		ds := NewDataset(nil)
		require.NoError(t, ds.AddNumericColumn("age",
			[]float64{60, 40, 0, 80, 90},
			[]bool{true, true, false, true, true}))
		require.NoError(t, ds.AddNumericColumn("marker",
			[]float64{1.0, 1.1, 1.05, 5.0, 6.0}, nil))
		require.NoError(t, ds.AddCategoricalColumn("status",
			[]string{"alive", "alive", "alive", "dead", "dead"}))

		filled, err := ds.ImputeKNN(context.Background(), 2, 1, false)
		require.NoError(t, err)
		assert.Equal(t, 1, filled)

		v, ok := ds.Value("age", 2)
		require.True(t, ok)
		assert.Equal(t, 50.0, v)
	})

	t.Run("NeverAltersPresentValues", func(t *testing.T) {
		ds := NewDataset(nil)
		require.NoError(t, ds.AddNumericColumn("age",
			[]float64{60, 40, 0, 80, 90},
			[]bool{true, true, false, true, true}))
		require.NoError(t, ds.AddNumericColumn("marker",
			[]float64{1.0, 1.1, 1.05, 5.0, 6.0}, nil))

		before := map[int]float64{}
		for r := 0; r < ds.Rows(); r++ {
			if v, ok := ds.Value("age", r); ok {
				before[r] = v
			}
		}

		_, err := ds.ImputeKNN(context.Background(), 2, 3, false)
		require.NoError(t, err)

		for r, want := range before {
			got, ok := ds.Value("age", r)
			require.True(t, ok)
			assert.Equal(t, want, got)
		}
	})

	t.Run("CategoricalMajority", func(t *testing.T) {
		registry := factor.NewRegistry()
		f, err := factor.New("status", []string{"alive", "dead"}, []float64{0, 1}, nil, false)
		require.NoError(t, err)
		require.NoError(t, registry.Add(f))

		ds := NewDataset(registry)
		require.NoError(t, ds.AddNumericColumn("marker",
			[]float64{0, 0.1, -0.1, 0.2}, nil))
		require.NoError(t, ds.AddCategoricalColumn("status",
			[]string{"", "dead", "dead", "alive"}))

		filled, err := ds.ImputeKNN(context.Background(), 3, 1, false)
		require.NoError(t, err)
		assert.Equal(t, 1, filled)

		level, ok := ds.Level("status", 0)
		require.True(t, ok)
		assert.Equal(t, "dead", level)
	})

	t.Run("CategoricalTieGoesToLowestCode", func(t *testing.T) {
		registry := factor.NewRegistry()
		f, err := factor.New("status", []string{"alive", "dead"}, []float64{0, 1}, nil, false)
		require.NoError(t, err)
		require.NoError(t, registry.Add(f))

		ds := NewDataset(registry)
		require.NoError(t, ds.AddNumericColumn("marker",
			[]float64{0, 1, -1}, nil))
		require.NoError(t, ds.AddCategoricalColumn("status",
			[]string{"", "dead", "alive"}))

		// Rows 1 and 2 are equidistant; one votes dead, one alive. The tie
		// must break to the lowest numeric code (alive) deterministically.
		filled, err := ds.ImputeKNN(context.Background(), 2, 1, false)
		require.NoError(t, err)
		assert.Equal(t, 1, filled)

		level, ok := ds.Level("status", 0)
		require.True(t, ok)
		assert.Equal(t, "alive", level)
	})

	t.Run("ConservativeWithTooFewNeighbors", func(t *testing.T) {
		// Only one row holds a value for "rare": fewer than k=2 qualifying
		// neighbors, so the field must stay missing.
		ds := NewDataset(nil)
		require.NoError(t, ds.AddNumericColumn("marker", []float64{1, 2, 3, 4}, nil))
		require.NoError(t, ds.AddNumericColumn("rare",
			[]float64{7, 0, 0, 0},
			[]bool{true, false, false, false}))

		metrics := &BasicMetricsCollector{}
		ds.opts.metrics = metrics

		_, err := ds.ImputeKNN(context.Background(), 2, 5, false)
		require.NoError(t, err)

		for _, r := range []int{1, 2, 3} {
			_, ok := ds.Value("rare", r)
			assert.False(t, ok)
		}
		assert.Equal(t, int64(3), metrics.GetStats().InsufficientNeighbors)
	})

	t.Run("UseCategoricalDistances", func(t *testing.T) {
		// With only a categorical column shared, distances exist solely when
		// useCategorical is true.
		registry := factor.NewRegistry()
		f, err := factor.New("grp", []string{"x", "y"}, []float64{0, 1}, nil, false)
		require.NoError(t, err)
		require.NoError(t, registry.Add(f))

		ds := NewDataset(registry)
		require.NoError(t, ds.AddNumericColumn("age",
			[]float64{10, 12, 0, 50},
			[]bool{true, true, false, true}))
		require.NoError(t, ds.AddCategoricalColumn("grp",
			[]string{"x", "x", "x", "y"}))

		filled, err := ds.ImputeKNN(context.Background(), 2, 1, true)
		require.NoError(t, err)
		require.Equal(t, 1, filled)

		// Row 2 shares only grp with the others; its nearest two are the
		// other "x" rows, so age becomes mean(10, 12).
		v, ok := ds.Value("age", 2)
		require.True(t, ok)
		assert.Equal(t, 11.0, v)
	})

	t.Run("NoSharedDimensionsLeavesMissing", func(t *testing.T) {
		ds := NewDataset(nil)
		require.NoError(t, ds.AddNumericColumn("age",
			[]float64{10, 12, 0, 50},
			[]bool{true, true, false, true}))
		require.NoError(t, ds.AddCategoricalColumn("grp",
			[]string{"x", "x", "x", "y"}))

		// Same table, but categorical dimensions are excluded: row 2 shares
		// no comparable dimension with any other row.
		filled, err := ds.ImputeKNN(context.Background(), 2, 1, false)
		require.NoError(t, err)
		assert.Equal(t, 0, filled)

		_, ok := ds.Value("age", 2)
		assert.False(t, ok)
	})

	t.Run("MultiPassConverges", func(t *testing.T) {
		// Row 3 misses both markers, so the first pass cannot reach it from
		// marker distances alone once k requires comparable rows; later
		// passes run on the partially filled table and must terminate early
		// once nothing changes.
		ds := NewDataset(nil)
		require.NoError(t, ds.AddNumericColumn("m1",
			[]float64{1, 2, 3, 0},
			[]bool{true, true, true, false}))
		require.NoError(t, ds.AddNumericColumn("m2",
			[]float64{10, 20, 30, 0},
			[]bool{true, true, true, false}))

		metrics := &BasicMetricsCollector{}
		ds.opts.metrics = metrics

		_, err := ds.ImputeKNN(context.Background(), 2, 10, false)
		require.NoError(t, err)

		// No shared dims for row 3 ever appear, so exactly one pass runs
		// before the early exit.
		assert.Equal(t, int64(1), metrics.GetStats().ImputePasses)
	})

	t.Run("ParallelMatchesSequential", func(t *testing.T) {
		build := func(optFns ...Option) *Dataset {
			ds := NewDataset(nil, optFns...)
			require.NoError(t, ds.AddNumericColumn("age",
				[]float64{60, 40, 0, 80, 90, 0, 55},
				[]bool{true, true, false, true, true, false, true}))
			require.NoError(t, ds.AddNumericColumn("marker",
				[]float64{1.0, 1.1, 1.05, 5.0, 6.0, 5.5, 1.2}, nil))
			return ds
		}

		seq := build()
		par := build(WithParallelism(4))

		_, err := seq.ImputeKNN(context.Background(), 2, 2, false)
		require.NoError(t, err)
		_, err = par.ImputeKNN(context.Background(), 2, 2, false)
		require.NoError(t, err)

		for r := 0; r < seq.Rows(); r++ {
			want, wantOK := seq.Value("age", r)
			got, gotOK := par.Value("age", r)
			require.Equal(t, wantOK, gotOK)
			assert.Equal(t, want, got)
		}
	})

	t.Run("InvalidK", func(t *testing.T) {
		ds := NewDataset(nil)
		_, err := ds.ImputeKNN(context.Background(), 0, 1, false)
		require.ErrorIs(t, err, ErrInvalidK)
	})
}
