package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingRequiredField marks a record that cannot be grouped
var ErrMissingRequiredField = errors.New("missing required field")

// MissingFieldError reports which required fields a record lacks.
// Record is the device's identifier, Index its position in the input.
type MissingFieldError struct {
	Record string
	Index  int
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("device %s: %s: %s", e.Identifier(), ErrMissingRequiredField, strings.Join(e.Fields, ", "))
}

// Is lets errors.Is match ErrMissingRequiredField
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// Identifier names the record, falling back to its input position
func (e *MissingFieldError) Identifier() string {
	if e.Record != "" {
		return e.Record
	}
	return fmt.Sprintf("#%d", e.Index)
}
