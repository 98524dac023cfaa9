package model

import "fmt"

// FieldError reports one malformed or out-of-range field. Documents coming
// off the wire are never trusted: constructors reject anything that fails
// these checks before it reaches the ledger or a write path.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func fieldErr(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}
