// Package types provides type definitions for structured data used throughout the resume-vault system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	formatValidator = newFormatValidator()
	indexSegment    = regexp.MustCompile(`\[(\d+)\]`)
)

func newFormatValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateFormats checks string formats (email, http URLs) declared with validate tags.
func ValidateFormats(doc Document) []FieldError {
	err := formatValidator.Struct(doc)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "(root)", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   namespaceToPath(fe.Namespace()),
			Message: formatMessage(fe),
		})
	}
	return out
}

// namespaceToPath turns "Profile.links[0].url" into "links.0.url".
func namespaceToPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return indexSegment.ReplaceAllString(ns, ".$1")
}

func formatMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "email":
		return fmt.Sprintf("%q is not a valid email address", fe.Value())
	case "http_url":
		return fmt.Sprintf("%q is not a valid http(s) URL", fe.Value())
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}
