package factor

import (
	"fmt"

	"github.com/hupe1980/survgo/codec"
)

// Registry is the full set of Factor definitions for one dataset, persisted
// as a unit. Insertion order is preserved so repeated saves of an unchanged
// registry are byte-identical.
//
// A Registry is built once during ingestion (loaded from a definition file
// or inferred from the data) and treated as immutable afterwards; datasets
// produced by filtering or splitting share the same Registry instance.
type Registry struct {
	factors []*Factor
	byName  map[string]*Factor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Factor),
	}
}

// Add registers a factor. Column names must be unique within a registry.
func (r *Registry) Add(f *Factor) error {
	if _, ok := r.byName[f.Column]; ok {
		return &ErrMalformedDefinition{Column: f.Column, Reason: "duplicate column"}
	}
	r.factors = append(r.factors, f)
	r.byName[f.Column] = f
	return nil
}

// Get returns the factor for a column.
func (r *Registry) Get(column string) (*Factor, bool) {
	f, ok := r.byName[column]
	return f, ok
}

// Len returns the number of factors.
func (r *Registry) Len() int {
	return len(r.factors)
}

// Columns returns the factor column names in insertion order.
func (r *Registry) Columns() []string {
	names := make([]string, len(r.factors))
	for i, f := range r.factors {
		names[i] = f.Column
	}
	return names
}

// BuildMissing infers factors for the named categorical columns that have no
// definition yet. raw maps column name to its observed values; columns are
// processed in the given order to keep inference deterministic.
func (r *Registry) BuildMissing(columns []string, raw map[string][]string, oneHot bool) error {
	for _, column := range columns {
		if _, ok := r.byName[column]; ok {
			continue
		}
		values, ok := raw[column]
		if !ok {
			return fmt.Errorf("no raw values for categorical column %q", column)
		}
		if err := r.Add(Infer(column, values, oneHot)); err != nil {
			return err
		}
	}
	return nil
}

// Save serializes the registry as an insertion-ordered sequence of factor
// definitions. The output is loadable by Load (round-trip guarantee).
func (r *Registry) Save(c codec.Codec) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	return c.Marshal(r.factors)
}

// Load deserializes a registry written by Save, validating every definition.
// Any malformed entry rejects the whole file.
func Load(data []byte, c codec.Codec) (*Registry, error) {
	if c == nil {
		c = codec.Default
	}

	var factors []*Factor
	if err := c.Unmarshal(data, &factors); err != nil {
		return nil, fmt.Errorf("decode factor definitions: %w", err)
	}

	r := NewRegistry()
	for _, f := range factors {
		if f == nil {
			return nil, &ErrMalformedDefinition{Reason: "null factor entry"}
		}
		if err := f.init(); err != nil {
			return nil, err
		}
		if err := r.Add(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}
