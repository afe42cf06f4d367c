// Package loader reads governed YAML documents and validates them into typed records.
package loader

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-vault/internal/types"
)

// Stage identifies which decode step rejected a document.
type Stage string

const (
	StageEncoding Stage = "encoding"
	StageSyntax   Stage = "syntax"
	StageEmpty    Stage = "empty"
	StageShape    Stage = "shape"
)

// ReadError represents a file that could not be read at all
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error: %s: %v", e.Path, e.Cause)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

// DecodeError represents bytes that never became a document of the right shape.
// Line and Column are 1-based and zero when unknown; Offset is only set for encoding errors.
type DecodeError struct {
	Path    string
	Stage   Stage
	Line    int
	Column  int
	Offset  int
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(string(e.Stage))
	sb.WriteString(" error")
	switch {
	case e.Stage == StageEncoding:
		fmt.Fprintf(&sb, " at byte offset %d", e.Offset)
	case e.Line > 0 && e.Column > 0:
		fmt.Fprintf(&sb, " at line %d, column %d", e.Line, e.Column)
	case e.Line > 0:
		fmt.Fprintf(&sb, " at line %d", e.Line)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	return sb.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// SchemaError carries every field-level violation found in one document.
type SchemaError struct {
	Path   string
	Kind   types.Kind
	Errors []types.FieldError
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&sb, "%s: ", e.Path)
	}
	fmt.Fprintf(&sb, "%s schema validation failed with %d error(s)", e.Kind, len(e.Errors))
	for _, fe := range e.Errors {
		fmt.Fprintf(&sb, "\n  %s: %s", fe.Field, fe.Message)
	}
	return sb.String()
}
