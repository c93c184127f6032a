package factor

import "fmt"

// ErrMalformedDefinition indicates an internally inconsistent factor
// definition: mismatched levels/numeric lengths, duplicate levels or
// columns, or aliases pointing at unknown levels.
//
// Loading a definition file is total-or-fail: a single malformed entry
// rejects the whole file with this error.
type ErrMalformedDefinition struct {
	Column string
	Reason string
}

func (e *ErrMalformedDefinition) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("malformed factor definition: %s", e.Reason)
	}
	return fmt.Sprintf("malformed factor definition for column %q: %s", e.Column, e.Reason)
}
