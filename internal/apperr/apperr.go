// Package apperr holds the error taxonomy shared by every save path:
// validation failures block the write and keep the prior value, unresolved
// references block the write, and everything else is a backend failure
// surfaced as a generic message with no retry.
package apperr

import "fmt"

// ValidationError reports out-of-range or unparseable input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError reports a relational reference that could not be resolved.
type NotFoundError struct {
	Entity string
	Name   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Name)
}

// BackendError wraps a network or database failure.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Backend classifies err as a BackendError unless it already belongs to the
// taxonomy.
func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case *ValidationError, *NotFoundError, *BackendError:
		return err
	}
	return &BackendError{Op: op, Err: err}
}
