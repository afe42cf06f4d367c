// Package types provides type definitions for structured data used throughout the resume-vault system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	resumeIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	techTagPattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// Expected formats, used in FormatError messages and mirrored by the JSON schemas.
const (
	ExpectedResumeID = "lowercase alphanumeric with hyphens/underscores, starting with alphanumeric (^[a-z0-9][a-z0-9_-]*$)"
	ExpectedTechTag  = "lowercase alphanumeric with dots, hyphens or underscores, starting with alphanumeric (^[a-z0-9][a-z0-9._-]*$)"
	ExpectedDate     = "'YYYY-MM' (month 01-12) or 'Present'"
)

// PresentLiteral is the serialized form of an ongoing date.
const PresentLiteral = "Present"

// FormatError reports a scalar that fails its pattern or range check.
type FormatError struct {
	Type     string // "ResumeID", "TechTag" or "date"
	Value    string
	Expected string
}

func (e *FormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s cannot be empty: expected %s", e.Type, e.Expected)
	}
	return fmt.Sprintf("invalid %s %q: expected %s", e.Type, e.Value, e.Expected)
}

// ResumeID names one addressable unit of content. IDs are never case-folded.
type ResumeID string

// ValidateID checks raw against the identifier pattern and returns it unchanged.
func ValidateID(raw string) (ResumeID, error) {
	if !resumeIDPattern.MatchString(raw) {
		return "", &FormatError{Type: "ResumeID", Value: raw, Expected: ExpectedResumeID}
	}
	return ResumeID(raw), nil
}

// UnmarshalJSON validates the identifier while decoding.
func (id *ResumeID) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ValidateID(raw)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// TechTag is a normalized, lowercase technology label.
type TechTag string

// NormalizeTag lowercases raw and then validates it against the tag pattern.
func NormalizeTag(raw string) (TechTag, error) {
	lowered := strings.ToLower(raw)
	if !techTagPattern.MatchString(lowered) {
		return "", &FormatError{Type: "TechTag", Value: lowered, Expected: ExpectedTechTag}
	}
	return TechTag(lowered), nil
}

// UnmarshalJSON normalizes the tag while decoding.
func (t *TechTag) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := NormalizeTag(raw)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// DateValue is either a concrete calendar month or the ongoing sentinel.
// The zero value is not a valid date; use ParseDate, NewDate or Present.
type DateValue struct {
	year    int
	month   int
	ongoing bool
}

// Present is the ongoing sentinel. It sorts after every concrete month.
var Present = DateValue{ongoing: true}

// NewDate builds a concrete month value.
func NewDate(year, month int) (DateValue, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return DateValue{}, &FormatError{Type: "date", Value: fmt.Sprintf("%d-%d", year, month), Expected: ExpectedDate}
	}
	return DateValue{year: year, month: month}, nil
}

// ParseDate accepts exactly "Present" or a zero-padded "YYYY-MM" string.
func ParseDate(raw string) (DateValue, error) {
	if raw == PresentLiteral {
		return Present, nil
	}
	if !datePattern.MatchString(raw) {
		return DateValue{}, &FormatError{Type: "date", Value: raw, Expected: ExpectedDate}
	}
	year, _ := strconv.Atoi(raw[:4])
	month, _ := strconv.Atoi(raw[5:])
	if year < 1 || month < 1 || month > 12 {
		return DateValue{}, &FormatError{Type: "date", Value: raw, Expected: ExpectedDate}
	}
	return DateValue{year: year, month: month}, nil
}

// IsPresent reports whether d is the ongoing sentinel.
func (d DateValue) IsPresent() bool { return d.ongoing }

// IsZero reports whether d was never set.
func (d DateValue) IsZero() bool { return !d.ongoing && d.month == 0 }

// Year returns the calendar year, or 0 for Present.
func (d DateValue) Year() int { return d.year }

// Month returns the calendar month, or 0 for Present.
func (d DateValue) Month() int { return d.month }

// Compare returns -1, 0 or +1. Present equals only itself and is greater than any month.
func (d DateValue) Compare(other DateValue) int {
	switch {
	case d.ongoing && other.ongoing:
		return 0
	case d.ongoing:
		return 1
	case other.ongoing:
		return -1
	}
	if d.year != other.year {
		if d.year < other.year {
			return -1
		}
		return 1
	}
	switch {
	case d.month < other.month:
		return -1
	case d.month > other.month:
		return 1
	}
	return 0
}

// Before reports whether d sorts strictly before other.
func (d DateValue) Before(other DateValue) bool { return d.Compare(other) < 0 }

// String returns "YYYY-MM" or "Present".
func (d DateValue) String() string {
	if d.ongoing {
		return PresentLiteral
	}
	return fmt.Sprintf("%04d-%02d", d.year, d.month)
}

// Format renders a concrete month with a time layout; Present is returned verbatim.
func (d DateValue) Format(layout string) string {
	if d.ongoing {
		return PresentLiteral
	}
	return time.Date(d.year, time.Month(d.month), 1, 0, 0, 0, 0, time.UTC).Format(layout)
}

// MarshalJSON serializes the date in its canonical string form.
func (d DateValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses a canonical date string.
func (d *DateValue) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
