// Package factor models categorical columns of a survival dataset.
//
// A Factor maps between the three representations of one categorical
// variable: the string level, its numeric code, and its one-hot indicator
// vector. Factors are immutable after construction and are shared by
// reference between a Registry and the dataset columns that use them, so
// encoding can never drift between views of the same data.
package factor

import (
	"fmt"
)

// Factor describes one categorical column: its canonical levels, the numeric
// code assigned to each level, optional raw-token aliases, and whether the
// column expands to one-hot indicator columns on export.
//
// Numeric codes need not be 0..n-1; custom codes allow matching external
// encodings. The only requirements are len(Levels) == len(Numeric) and
// distinct levels.
type Factor struct {
	Column   string            `json:"column"`
	Levels   []string          `json:"levels"`
	Numeric  []float64         `json:"numeric"`
	Matching map[string]string `json:"matching,omitempty"`
	OneHot   bool              `json:"one_hot"`

	codeByLevel map[string]float64
	levelByCode map[float64]string
}

// New creates a Factor and validates its invariants.
func New(column string, levels []string, numeric []float64, matching map[string]string, oneHot bool) (*Factor, error) {
	f := &Factor{
		Column:   column,
		Levels:   levels,
		Numeric:  numeric,
		Matching: matching,
		OneHot:   oneHot,
	}
	if err := f.init(); err != nil {
		return nil, err
	}
	return f, nil
}

// Infer builds a Factor from observed raw values. Levels are assigned in
// first-seen order and numeric codes 0..n-1; empty strings are treated as
// missing and never become a level. The policy is deterministic: the same
// value sequence always yields the same Factor.
func Infer(column string, raw []string, oneHot bool) *Factor {
	seen := make(map[string]struct{})
	var levels []string
	for _, v := range raw {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		levels = append(levels, v)
	}

	numeric := make([]float64, len(levels))
	for i := range numeric {
		numeric[i] = float64(i)
	}

	f := &Factor{
		Column:  column,
		Levels:  levels,
		Numeric: numeric,
		OneHot:  oneHot,
	}
	// Inferred levels are distinct by construction.
	_ = f.init()
	return f
}

// init validates invariants and builds the lookup indexes.
func (f *Factor) init() error {
	if f.Column == "" {
		return &ErrMalformedDefinition{Column: f.Column, Reason: "empty column name"}
	}
	if len(f.Levels) != len(f.Numeric) {
		return &ErrMalformedDefinition{
			Column: f.Column,
			Reason: fmt.Sprintf("levels/numeric length mismatch: %d != %d", len(f.Levels), len(f.Numeric)),
		}
	}

	f.codeByLevel = make(map[string]float64, len(f.Levels))
	f.levelByCode = make(map[float64]string, len(f.Levels))
	for i, level := range f.Levels {
		if _, ok := f.codeByLevel[level]; ok {
			return &ErrMalformedDefinition{Column: f.Column, Reason: fmt.Sprintf("duplicate level %q", level)}
		}
		f.codeByLevel[level] = f.Numeric[i]
		f.levelByCode[f.Numeric[i]] = level
	}

	for token, level := range f.Matching {
		if _, ok := f.codeByLevel[level]; !ok {
			return &ErrMalformedDefinition{
				Column: f.Column,
				Reason: fmt.Sprintf("matching token %q maps to unknown level %q", token, level),
			}
		}
	}
	return nil
}

// Len returns the number of levels.
func (f *Factor) Len() int {
	return len(f.Levels)
}

// Encode resolves a raw token to its numeric code. Resolution tries the
// Matching aliases first, then a direct level lookup. Unresolved tokens and
// empty strings report ok=false and become missing values; this is not an
// error (permissive ingestion policy), callers wanting diagnostics count
// these via the metrics collector.
func (f *Factor) Encode(raw string) (code float64, ok bool) {
	if raw == "" {
		return 0, false
	}
	if level, found := f.Matching[raw]; found {
		raw = level
	}
	code, ok = f.codeByLevel[raw]
	return code, ok
}

// Decode returns the canonical level for a numeric code.
func (f *Factor) Decode(code float64) (level string, ok bool) {
	level, ok = f.levelByCode[code]
	return level, ok
}

// OneHotVector expands a numeric code into an indicator vector with one
// entry per level, in level order. A missing value (present=false) or an
// unknown code yields the all-zero vector, so indicator vectors always sum
// to at most one.
func (f *Factor) OneHotVector(code float64, present bool) []float64 {
	vec := make([]float64, len(f.Levels))
	if !present {
		return vec
	}
	level, ok := f.levelByCode[code]
	if !ok {
		return vec
	}
	for i, l := range f.Levels {
		if l == level {
			vec[i] = 1
			break
		}
	}
	return vec
}

// IndicatorNames returns the export column names for one-hot expansion,
// "column_level" in level order.
func (f *Factor) IndicatorNames() []string {
	names := make([]string, len(f.Levels))
	for i, level := range f.Levels {
		names[i] = f.Column + "_" + level
	}
	return names
}
