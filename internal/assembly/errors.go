// Package assembly merges static data and resolved content into the rendering context.
package assembly

import "fmt"

// Error represents a failure to load static data or assemble a context
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
