// Package types provides type definitions for structured data used throughout the resume-vault system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Violation categories reported by the validator.
const (
	CategoryRegistry        = "registry"
	CategoryDecode          = "decode"
	CategorySchema          = "schema"
	CategoryDuplicateID     = "duplicate_id"
	CategoryBrokenReference = "broken_reference"
)

// Violation represents a single content validation failure
type Violation struct {
	File     string `json:"file"`
	Category string `json:"category"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
	Line     *int   `json:"line,omitempty"`
	Column   *int   `json:"column,omitempty"`

	// Fields for identifier-level failures
	ID        *string  `json:"id,omitempty"`        // Identifier involved
	EntryID   *string  `json:"entry_id,omitempty"`  // Entry the identifier was referenced under
	Locations []string `json:"locations,omitempty"` // Every file/path where a duplicate occurs
}
