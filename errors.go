// File: strata/errors.go
package strata

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable reports that a required source failed to materialize
// its backing data (e.g. an unreadable configuration file that was not
// marked optional). It aborts resolution.
var ErrSourceUnavailable = errors.New("configuration source unavailable")

// Error carries the context of a resolution failure: which source it
// occurred in and what operation was being performed.
type Error struct {
	Source    string // provenance name of the failing source
	Operation string // "load", "merge", "deserialize"
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("settings error in %s during %s: %v", e.Source, e.Operation, e.Err)
}

// Unwrap returns the underlying error for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Err }

func newError(source, operation string, err error) *Error {
	return &Error{Source: source, Operation: operation, Err: err}
}

// TypeMismatchError reports a source value whose type disagrees with the
// field's declared kind. It aborts resolution.
type TypeMismatchError struct {
	Field string
	Want  Kind
	Value any // the offending raw value, as the source supplied it
	Err   error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q declared %s but source supplied %T (%v): %v",
		e.Field, e.Want, e.Value, e.Value, e.Err)
}

func (e *TypeMismatchError) Unwrap() error { return e.Err }

// MissingFieldError reports a mandatory field that no source or default
// supplied. It aborts construction of the validated view.
type MissingFieldError struct {
	Schema string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("schema %q: mandatory field %q is missing", e.Schema, e.Field)
}
