// Package builder holds the runtime support imported by code generated by buildergen.
package builder

import (
	"errors"
	"fmt"
)

// ErrMissingField is matched by every MissingFieldError.
var ErrMissingField = errors.New("missing required field")

// MissingFieldError is returned by a generated Build method when a field
// was never set. Field is the first unset field in declaration order.
type MissingFieldError struct {
	Type  string // target type name
	Field string // field name as declared
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Type, ErrMissingField, e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
