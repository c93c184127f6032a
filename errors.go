package survgo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrInvalidFraction is returned when a split fraction is outside (0, 1).
	ErrInvalidFraction = errors.New("fraction must be in (0, 1)")

	// ErrInvalidThreshold is returned when a missingness threshold is
	// outside [0, 1].
	ErrInvalidThreshold = errors.New("threshold must be in [0, 1]")

	// ErrEmptyHeader is returned when an input file has no header row.
	ErrEmptyHeader = errors.New("input has no header row")
)

// ErrMalformedRow indicates a data row whose field count does not match the
// header. Ingestion is aborted: rows must populate every declared column.
type ErrMalformedRow struct {
	Line     int // 1-based line number in the input, header included
	Expected int
	Actual   int
}

func (e *ErrMalformedRow) Error() string {
	return fmt.Sprintf("malformed row at line %d: expected %d fields, got %d", e.Line, e.Expected, e.Actual)
}

// ErrDimensionMismatch indicates a column or row whose length does not match
// the dataset's row count. This is caller misuse: all columns must stay
// aligned at all times.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d rows, got %d", e.Expected, e.Actual)
}

// ErrUnknownColumn indicates a reference to a column the dataset does not
// have.
type ErrUnknownColumn struct {
	Column string
}

func (e *ErrUnknownColumn) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}

// ErrDuplicateColumn indicates two columns with the same name.
type ErrDuplicateColumn struct {
	Column string
}

func (e *ErrDuplicateColumn) Error() string {
	return fmt.Sprintf("duplicate column %q", e.Column)
}
