// Package validation checks the whole content corpus for schema, uniqueness and reference errors.
package validation

import "fmt"

// InternalError represents an environment failure unrelated to content correctness,
// such as a missing governed directory or an unreadable file.
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("internal error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("internal error: %s", e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}
