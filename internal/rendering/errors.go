// Package rendering turns an assembled context into an HTML or LaTeX document.
package rendering

import (
	"fmt"
	"strings"
)

// TemplateError represents an error parsing or executing a template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// TemplateNotFoundError is returned when no template file exists for a manifest's template name
type TemplateNotFoundError struct {
	Name     string
	Searched []string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found (searched: %s)", e.Name, strings.Join(e.Searched, ", "))
}

// RenderError represents a failure writing or converting rendered output
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
