package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsAreInterchangeable(t *testing.T) {
	type def struct {
		Column string    `json:"column"`
		Levels []string  `json:"levels"`
		Codes  []float64 `json:"numeric"`
	}
	in := def{Column: "status", Levels: []string{"alive", "dead"}, Codes: []float64{0, 1}}

	stdlib := MustMarshal(JSON{}, in)
	goccy := MustMarshal(GoJSON{}, in)
	assert.Equal(t, string(stdlib), string(goccy))

	// nil codec falls back to Default.
	assert.Equal(t, string(goccy), string(MustMarshal(nil, in)))

	var out def
	require.NoError(t, JSON{}.Unmarshal(goccy, &out))
	assert.Equal(t, in, out)
	require.NoError(t, GoJSON{}.Unmarshal(stdlib, &out))
	assert.Equal(t, in, out)
}
