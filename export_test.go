package survgo

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/survgo/blobstore"
	"github.com/hupe1980/survgo/delim"
	"github.com/hupe1980/survgo/factor"
)

func exportFixture(t *testing.T, oneHot bool) *Dataset {
	t.Helper()

	registry := factor.NewRegistry()
	f, err := factor.New("treatment", []string{"control", "drugA", "drugB"}, []float64{0, 1, 2}, nil, oneHot)
	require.NoError(t, err)
	require.NoError(t, registry.Add(f))

	ds := NewDataset(registry, WithDelimiter(','))
	require.NoError(t, ds.AddNumericColumn("age",
		[]float64{61, 58, 0}, []bool{true, true, false}))
	require.NoError(t, ds.AddCategoricalColumn("treatment",
		[]string{"drugA", "control", ""}))
	return ds
}

func readBack(t *testing.T, data []byte, name string, delimiter byte) [][]string {
	t.Helper()

	r, err := delim.NewReader(bytes.NewReader(data), name, delimiter)
	require.NoError(t, err)
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.NoError(t, r.Close())
	return records
}

func TestWriteTo(t *testing.T) {
	t.Run("OneHotExpansion", func(t *testing.T) {
		ds := exportFixture(t, true)

		var buf bytes.Buffer
		require.NoError(t, ds.WriteTo(&buf, "out.csv"))

		records := readBack(t, buf.Bytes(), "out.csv", ',')
		require.Len(t, records, 4)
		assert.Equal(t, []string{"age", "treatment_control", "treatment_drugA", "treatment_drugB"}, records[0])
		assert.Equal(t, []string{"61", "0", "1", "0"}, records[1])
		assert.Equal(t, []string{"58", "1", "0", "0"}, records[2])
	})

	t.Run("MissingSerializesEmpty", func(t *testing.T) {
		ds := exportFixture(t, true)

		var buf bytes.Buffer
		require.NoError(t, ds.WriteTo(&buf, "out.csv"))

		records := readBack(t, buf.Bytes(), "out.csv", ',')
		assert.Equal(t, []string{"", "", "", ""}, records[3])
	})

	t.Run("SingleCodeColumn", func(t *testing.T) {
		ds := exportFixture(t, false)

		var buf bytes.Buffer
		require.NoError(t, ds.WriteTo(&buf, "out.csv"))

		records := readBack(t, buf.Bytes(), "out.csv", ',')
		assert.Equal(t, []string{"age", "treatment"}, records[0])
		assert.Equal(t, []string{"61", "1"}, records[1])
		assert.Equal(t, []string{"58", "0"}, records[2])
		assert.Equal(t, []string{"", ""}, records[3])
	})

	t.Run("RoundTripThroughIngestion", func(t *testing.T) {
		ds := exportFixture(t, false)

		var buf bytes.Buffer
		require.NoError(t, ds.WriteTo(&buf, "out.csv"))

		// Re-ingest the export: numeric values and missingness must survive.
		back, err := FromReader(context.Background(), &buf, "out.csv", WithDelimiter(','))
		require.NoError(t, err)
		require.Equal(t, ds.Rows(), back.Rows())

		for r := 0; r < ds.Rows(); r++ {
			want, wantOK := ds.Value("age", r)
			got, gotOK := back.Value("age", r)
			require.Equal(t, wantOK, gotOK)
			if wantOK {
				assert.Equal(t, want, got)
			}
		}
	})

	t.Run("CompressedExport", func(t *testing.T) {
		ds := exportFixture(t, true)

		for _, name := range []string{"out.csv.gz", "out.csv.zst", "out.csv.lz4"} {
			var buf bytes.Buffer
			require.NoError(t, ds.WriteTo(&buf, name))

			records := readBack(t, buf.Bytes(), name, ',')
			require.Len(t, records, 4)
			assert.Equal(t, []string{"61", "0", "1", "0"}, records[1])
		}
	})
}

func TestWriteFile(t *testing.T) {
	store := blobstore.NewMemoryStore()
	ds := exportFixture(t, true)
	ds.opts.store = store

	require.NoError(t, ds.WriteFile(context.Background(), "out.csv"))

	data, err := blobstore.ReadAll(context.Background(), store, "out.csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "age,treatment_control,treatment_drugA,treatment_drugB\n"))
}

func TestSaveFactors(t *testing.T) {
	store := blobstore.NewMemoryStore()
	ds := exportFixture(t, true)
	ds.opts.store = store

	require.NoError(t, ds.SaveFactors(context.Background(), "factors.json"))

	data, err := blobstore.ReadAll(context.Background(), store, "factors.json")
	require.NoError(t, err)

	// Output must load through the same loader (round-trip guarantee).
	loaded, err := factor.Load(data, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"treatment"}, loaded.Columns())

	f, _ := loaded.Get("treatment")
	assert.Equal(t, []string{"control", "drugA", "drugB"}, f.Levels)
	assert.True(t, f.OneHot)
}
