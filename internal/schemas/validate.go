// Package schemas provides JSON Schema validation of decoded documents against the embedded schemas.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/resume-vault/internal/types"
	schemafiles "github.com/jonathan/resume-vault/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// RootField is the path reported for errors on the document itself.
const RootField = "(root)"

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []types.FieldError
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// DocumentError represents a document value that cannot be presented to the validator at all,
// such as a number JSON has no encoding for.
type DocumentError struct {
	Schema string
	Cause  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document could not be validated against %s: %v", e.Schema, e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	compiledMu sync.Mutex
	compiled   = map[string]*gojsonschema.Schema{}
)

// Load compiles an embedded schema, reusing an earlier compilation.
func Load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}
	data, err := schemafiles.Read(name)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema not found", Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema failed to compile", Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// ValidateValue validates an in-memory generic value (maps, slices, scalars) against
// the named embedded schema. Every violation is returned, sorted by field path.
func ValidateValue(name string, value any) error {
	return validate(name, gojsonschema.NewGoLoader(value))
}

// ValidateJSONString validates raw JSON content against the named embedded schema.
func ValidateJSONString(name, jsonContent string) error {
	return validate(name, gojsonschema.NewStringLoader(jsonContent))
}

func validate(name string, doc gojsonschema.JSONLoader) error {
	schema, err := Load(name)
	if err != nil {
		return err
	}
	result, err := schema.Validate(doc)
	if err != nil {
		return &DocumentError{Schema: name, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]types.FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		validationErr.Errors = append(validationErr.Errors, types.FieldError{
			Field:   fieldPath(desc),
			Message: desc.Description(),
		})
	}
	types.SortFieldErrors(validationErr.Errors)
	return validationErr
}

// fieldPath points required and unknown-key errors at the offending key rather than its parent.
func fieldPath(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if field == "" {
		field = RootField
	}
	switch desc.Type() {
	case "required", "additional_property_not_allowed":
		if prop, ok := desc.Details()["property"].(string); ok && prop != "" {
			if field == RootField {
				return prop
			}
			return field + "." + prop
		}
	}
	return field
}
