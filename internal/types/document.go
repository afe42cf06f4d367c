// Package types provides type definitions for structured data used throughout the resume-vault system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Kind names the schema a governed document is validated against.
type Kind string

const (
	KindProfile    Kind = "profile"
	KindEducation  Kind = "education"
	KindSkills     Kind = "skills"
	KindExperience Kind = "experience"
	KindProjects   Kind = "projects"
	KindManifest   Kind = "manifest"
)

// Kinds lists every known document kind in a stable order.
var Kinds = []Kind{KindProfile, KindEducation, KindSkills, KindExperience, KindProjects, KindManifest}

// Shape is the top-level structure a document of some Kind must decode to.
type Shape string

const (
	ShapeMapping  Shape = "mapping"
	ShapeSequence Shape = "sequence"
)

// Shape returns the expected top-level structure. Every current kind is a mapping.
func (k Kind) Shape() Shape {
	return ShapeMapping
}

// SchemaName returns the embedded JSON Schema file for the kind.
func (k Kind) SchemaName() string {
	return string(k) + ".schema.json"
}

// New returns an empty record of the kind, or nil for an unknown kind.
func (k Kind) New() Document {
	switch k {
	case KindProfile:
		return &Profile{}
	case KindEducation:
		return &Education{}
	case KindSkills:
		return &Skills{}
	case KindExperience:
		return &ExperienceFile{}
	case KindProjects:
		return &ProjectFile{}
	case KindManifest:
		return &Manifest{}
	}
	return nil
}

// Document is a typed record decoded from one governed file.
type Document interface {
	Kind() Kind
	// Normalize replaces nil lists with empty ones so serialized output is stable.
	Normalize()
	// Invariants runs cross-field checks on a fully typed record.
	Invariants() []FieldError
}

// FieldError is one violation at a structural path such as "entries.0.highlights.1.id".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SortFieldErrors orders errors by field path, then message.
func SortFieldErrors(errs []FieldError) {
	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].Field != errs[j].Field {
			return errs[i].Field < errs[j].Field
		}
		return errs[i].Message < errs[j].Message
	})
}

// JoinPath builds a dotted structural path, skipping empty segments.
func JoinPath(parts ...any) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		s := fmt.Sprint(p)
		if s == "" {
			continue
		}
		segs = append(segs, s)
	}
	return strings.Join(segs, ".")
}

// duplicates returns every value that occurs more than once, each once, in first-seen order,
// together with the positions of all its occurrences.
func duplicates(values []string) ([]string, map[string][]int) {
	positions := make(map[string][]int, len(values))
	var order []string
	for i, v := range values {
		if _, seen := positions[v]; !seen {
			order = append(order, v)
		}
		positions[v] = append(positions[v], i)
	}
	var dups []string
	for _, v := range order {
		if len(positions[v]) > 1 {
			dups = append(dups, v)
		}
	}
	return dups, positions
}

// duplicateErrors reports one FieldError per duplicated value, naming every occurrence.
func duplicateErrors(field, what string, values []string) []FieldError {
	dups, positions := duplicates(values)
	if len(dups) == 0 {
		return nil
	}
	errs := make([]FieldError, 0, len(dups))
	for _, v := range dups {
		locs := make([]string, 0, len(positions[v]))
		for _, i := range positions[v] {
			locs = append(locs, JoinPath(field, i))
		}
		errs = append(errs, FieldError{
			Field:   field,
			Message: fmt.Sprintf("duplicate %s %q at %s", what, v, strings.Join(locs, ", ")),
		})
	}
	return errs
}

// dateRangeError checks end >= start for an entry at path.
func dateRangeError(path string, start, end *DateValue) []FieldError {
	if start == nil || end == nil {
		return nil
	}
	if end.Before(*start) {
		return []FieldError{{
			Field:   JoinPath(path, "end_date"),
			Message: fmt.Sprintf("end_date (%s) cannot be before start_date (%s)", end, start),
		}}
	}
	return nil
}

func idStrings(ids []ResumeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
