package survgo

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/survgo/factor"
)

// Dataset is the in-memory representation of a survival dataset: named
// numeric columns and named categorical columns, each categorical column
// tied to a shared factor definition.
//
// Missing values are tracked per column with a presence bitmap rather than
// a sentinel number, so "missing" can never be confused with zero or with
// NaN used as data. Every column always holds exactly Rows() entries.
//
// Dataset is not safe for concurrent mutation; operations assume exclusive
// access for their duration.
type Dataset struct {
	numeric     []*numericColumn
	categorical []*categoricalColumn
	numIdx      map[string]int
	catIdx      map[string]int
	rows        int
	registry    *factor.Registry
	opts        options
}

type numericColumn struct {
	name    string
	values  []float64
	present *roaring.Bitmap
}

type categoricalColumn struct {
	name    string
	codes   []float64
	present *roaring.Bitmap
	factor  *factor.Factor
}

// NewDataset creates an empty dataset bound to a factor registry.
// A nil registry creates a fresh one.
func NewDataset(registry *factor.Registry, optFns ...Option) *Dataset {
	if registry == nil {
		registry = factor.NewRegistry()
	}
	return &Dataset{
		numIdx:   make(map[string]int),
		catIdx:   make(map[string]int),
		registry: registry,
		opts:     applyOptions(optFns),
	}
}

// Rows returns the number of rows.
func (d *Dataset) Rows() int {
	return d.rows
}

// Registry returns the factor registry shared by this dataset.
func (d *Dataset) Registry() *factor.Registry {
	return d.registry
}

// NumericColumns returns the numeric column names in column order.
func (d *Dataset) NumericColumns() []string {
	names := make([]string, len(d.numeric))
	for i, c := range d.numeric {
		names[i] = c.name
	}
	return names
}

// CategoricalColumns returns the categorical column names in column order.
func (d *Dataset) CategoricalColumns() []string {
	names := make([]string, len(d.categorical))
	for i, c := range d.categorical {
		names[i] = c.name
	}
	return names
}

// HasColumn reports whether the dataset has a column with the given name.
func (d *Dataset) HasColumn(name string) bool {
	if _, ok := d.numIdx[name]; ok {
		return true
	}
	_, ok := d.catIdx[name]
	return ok
}

// Value returns the numeric value at (column, row). ok is false when the
// entry is missing.
func (d *Dataset) Value(column string, row int) (v float64, ok bool) {
	if i, found := d.numIdx[column]; found {
		c := d.numeric[i]
		if !c.present.Contains(uint32(row)) {
			return 0, false
		}
		return c.values[row], true
	}
	if i, found := d.catIdx[column]; found {
		c := d.categorical[i]
		if !c.present.Contains(uint32(row)) {
			return 0, false
		}
		return c.codes[row], true
	}
	return 0, false
}

// Level returns the canonical level at (categorical column, row). ok is
// false when the entry is missing or the column is not categorical.
func (d *Dataset) Level(column string, row int) (level string, ok bool) {
	i, found := d.catIdx[column]
	if !found {
		return "", false
	}
	c := d.categorical[i]
	if !c.present.Contains(uint32(row)) {
		return "", false
	}
	return c.factor.Decode(c.codes[row])
}

// MissingCount returns the number of missing entries in a column, or an
// ErrUnknownColumn error for columns the dataset does not have.
func (d *Dataset) MissingCount(column string) (int, error) {
	if i, ok := d.numIdx[column]; ok {
		return d.rows - int(d.numeric[i].present.GetCardinality()), nil
	}
	if i, ok := d.catIdx[column]; ok {
		return d.rows - int(d.categorical[i].present.GetCardinality()), nil
	}
	return 0, &ErrUnknownColumn{Column: column}
}

// AddNumericColumn appends a numeric column. present marks rows that carry a
// value; a nil present marks every row as present. The first column added
// fixes the row count; later columns must match it.
func (d *Dataset) AddNumericColumn(name string, values []float64, present []bool) error {
	if err := d.checkNewColumn(name, len(values)); err != nil {
		return err
	}

	c := &numericColumn{
		name:    name,
		values:  append([]float64(nil), values...),
		present: presenceBitmap(len(values), present),
	}
	d.numIdx[name] = len(d.numeric)
	d.numeric = append(d.numeric, c)
	return nil
}

// AddCategoricalColumn appends a categorical column by encoding raw tokens
// through the registry's factor for that column. A factor is inferred (and
// registered) when none exists. Unresolved tokens become missing entries and
// are reported to the metrics collector.
func (d *Dataset) AddCategoricalColumn(name string, raw []string) error {
	if err := d.checkNewColumn(name, len(raw)); err != nil {
		return err
	}

	f, ok := d.registry.Get(name)
	if !ok {
		f = factor.Infer(name, raw, false)
		if err := d.registry.Add(f); err != nil {
			return err
		}
	}

	c := &categoricalColumn{
		name:    name,
		codes:   make([]float64, len(raw)),
		present: roaring.New(),
		factor:  f,
	}
	for i, token := range raw {
		code, resolved := f.Encode(token)
		if !resolved {
			if token != "" {
				d.opts.metrics.RecordUnresolvedCategory(name)
			}
			continue
		}
		c.codes[i] = code
		c.present.Add(uint32(i))
	}

	d.catIdx[name] = len(d.categorical)
	d.categorical = append(d.categorical, c)
	return nil
}

func (d *Dataset) checkNewColumn(name string, length int) error {
	if d.HasColumn(name) {
		return &ErrDuplicateColumn{Column: name}
	}
	if len(d.numeric) == 0 && len(d.categorical) == 0 {
		d.rows = length
		return nil
	}
	if length != d.rows {
		return &ErrDimensionMismatch{Expected: d.rows, Actual: length}
	}
	return nil
}

func presenceBitmap(n int, present []bool) *roaring.Bitmap {
	bm := roaring.New()
	if present == nil {
		if n > 0 {
			bm.AddRange(0, uint64(n))
		}
		return bm
	}
	for i, p := range present {
		if p {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// Clone returns an independent deep copy of the column data. The factor
// registry is shared by reference: factors are immutable after construction,
// so clones can never encode the same category differently.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		numeric:     make([]*numericColumn, len(d.numeric)),
		categorical: make([]*categoricalColumn, len(d.categorical)),
		numIdx:      make(map[string]int, len(d.numIdx)),
		catIdx:      make(map[string]int, len(d.catIdx)),
		rows:        d.rows,
		registry:    d.registry,
		opts:        d.opts,
	}
	for i, c := range d.numeric {
		out.numeric[i] = &numericColumn{
			name:    c.name,
			values:  append([]float64(nil), c.values...),
			present: c.present.Clone(),
		}
		out.numIdx[c.name] = i
	}
	for i, c := range d.categorical {
		out.categorical[i] = &categoricalColumn{
			name:    c.name,
			codes:   append([]float64(nil), c.codes...),
			present: c.present.Clone(),
			factor:  c.factor,
		}
		out.catIdx[c.name] = i
	}
	return out
}

// emptyLike returns a dataset with the same columns (and shared factors) but
// no rows. Used by filtering and splitting.
func (d *Dataset) emptyLike() *Dataset {
	out := &Dataset{
		numeric:     make([]*numericColumn, len(d.numeric)),
		categorical: make([]*categoricalColumn, len(d.categorical)),
		numIdx:      make(map[string]int, len(d.numIdx)),
		catIdx:      make(map[string]int, len(d.catIdx)),
		registry:    d.registry,
		opts:        d.opts,
	}
	for i, c := range d.numeric {
		out.numeric[i] = &numericColumn{name: c.name, present: roaring.New()}
		out.numIdx[c.name] = i
	}
	for i, c := range d.categorical {
		out.categorical[i] = &categoricalColumn{name: c.name, present: roaring.New(), factor: c.factor}
		out.catIdx[c.name] = i
	}
	return out
}

// appendRow copies row r of src onto the end of d. Both datasets must have
// identical column layouts; appendRow is only called on emptyLike outputs.
func (d *Dataset) appendRow(src *Dataset, r int) {
	n := d.rows
	for i, c := range src.numeric {
		dst := d.numeric[i]
		dst.values = append(dst.values, c.values[r])
		if c.present.Contains(uint32(r)) {
			dst.present.Add(uint32(n))
		}
	}
	for i, c := range src.categorical {
		dst := d.categorical[i]
		dst.codes = append(dst.codes, c.codes[r])
		if c.present.Contains(uint32(r)) {
			dst.present.Add(uint32(n))
		}
	}
	d.rows = n + 1
}
