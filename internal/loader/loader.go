// Package loader reads governed YAML documents and validates them into typed records.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-vault/internal/schemas"
	"github.com/jonathan/resume-vault/internal/types"
	"gopkg.in/yaml.v3"
)

var (
	yamlLine       = regexp.MustCompile(`line (\d+)`)
	yamlLinePrefix = regexp.MustCompile(`^line \d+: `)
)

// LoadFile reads one file and decodes it as kind.
func LoadFile(path string, kind types.Kind) (types.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}
	return decode(path, src, kind)
}

// Decode turns raw bytes into a typed record of the given kind. Each stage must pass
// before the next one runs: encoding, syntax, emptiness, shape, schema, then invariants.
func Decode(src []byte, kind types.Kind) (types.Document, error) {
	return decode("", src, kind)
}

func decode(path string, src []byte, kind types.Kind) (types.Document, error) {
	doc := kind.New()
	if doc == nil {
		return nil, fmt.Errorf("unknown document kind %q", kind)
	}

	if off, ok := invalidUTF8(src); ok {
		return nil, &DecodeError{
			Path:    path,
			Stage:   StageEncoding,
			Offset:  off,
			Message: fmt.Sprintf("invalid UTF-8 byte 0x%02x", src[off]),
		}
	}

	value, err := parseGeneric(path, src)
	if err != nil {
		return nil, err
	}

	if got := shapeOf(value); got != kind.Shape() {
		return nil, &DecodeError{
			Path:    path,
			Stage:   StageShape,
			Message: fmt.Sprintf("expected a %s at the top level, got %s", kind.Shape(), got),
		}
	}

	value, nonFinite := replaceNonFinite(value, "")
	schemaErrs, err := schemaErrors(kind, value)
	if err != nil {
		return nil, err
	}
	if schemaErrs = mergeNonFinite(schemaErrs, nonFinite); len(schemaErrs) > 0 {
		return nil, &SchemaError{Path: path, Kind: kind, Errors: schemaErrs}
	}

	if err := bind(value, doc); err != nil {
		return nil, &SchemaError{Path: path, Kind: kind, Errors: []types.FieldError{{Field: schemas.RootField, Message: err.Error()}}}
	}
	doc.Normalize()

	if fieldErrs := types.ValidateFormats(doc); len(fieldErrs) > 0 {
		types.SortFieldErrors(fieldErrs)
		return nil, &SchemaError{Path: path, Kind: kind, Errors: fieldErrs}
	}
	if fieldErrs := doc.Invariants(); len(fieldErrs) > 0 {
		types.SortFieldErrors(fieldErrs)
		return nil, &SchemaError{Path: path, Kind: kind, Errors: fieldErrs}
	}
	return doc, nil
}

func invalidUTF8(src []byte) (int, bool) {
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size <= 1 {
			return i, true
		}
		i += size
	}
	return 0, false
}

// parseGeneric decodes exactly one YAML document into plain maps, slices and scalars
// with string keys and trimmed strings.
func parseGeneric(path string, src []byte) (any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	var node yaml.Node
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, emptyError(path)
		}
		return nil, syntaxError(path, err)
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); err == nil {
		return nil, &DecodeError{
			Path:    path,
			Stage:   StageSyntax,
			Line:    extra.Line,
			Column:  extra.Column,
			Message: "multiple YAML documents are not supported",
		}
	} else if !errors.Is(err, io.EOF) {
		return nil, syntaxError(path, err)
	}

	var value any
	if err := node.Decode(&value); err != nil {
		return nil, syntaxError(path, err)
	}
	if value == nil {
		return nil, emptyError(path)
	}
	return normalize(value), nil
}

func emptyError(path string) error {
	return &DecodeError{Path: path, Stage: StageEmpty, Message: "document is empty"}
}

func syntaxError(path string, err error) error {
	msg := strings.TrimPrefix(err.Error(), "yaml: ")
	msg = strings.TrimSpace(strings.TrimPrefix(msg, "unmarshal errors:"))
	de := &DecodeError{
		Path:    path,
		Stage:   StageSyntax,
		Message: yamlLinePrefix.ReplaceAllString(msg, ""),
		Cause:   err,
	}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		de.Line, _ = strconv.Atoi(m[1])
	}
	return de
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case string:
		return strings.TrimSpace(t)
	}
	return v
}

// replaceNonFinite swaps .inf and .nan floats for null, since JSON cannot carry them, and
// reports each one against its field path.
func replaceNonFinite(v any, path string) (any, []types.FieldError) {
	switch t := v.(type) {
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return nil, []types.FieldError{{Field: fieldOrRoot(path), Message: fmt.Sprintf("non-finite number %v is not allowed", t)}}
		}
	case map[string]any:
		var errs []types.FieldError
		for k, val := range t {
			var fe []types.FieldError
			t[k], fe = replaceNonFinite(val, types.JoinPath(path, k))
			errs = append(errs, fe...)
		}
		return t, errs
	case []any:
		var errs []types.FieldError
		for i, val := range t {
			var fe []types.FieldError
			t[i], fe = replaceNonFinite(val, types.JoinPath(path, i))
			errs = append(errs, fe...)
		}
		return t, errs
	}
	return v, nil
}

func fieldOrRoot(path string) string {
	if path == "" {
		return schemas.RootField
	}
	return path
}

// schemaErrors runs the JSON Schema for kind. A document the validator cannot take in is
// reported as a field error on the document rather than an internal failure.
func schemaErrors(kind types.Kind, value any) ([]types.FieldError, error) {
	err := schemas.ValidateValue(kind.SchemaName(), value)
	if err == nil {
		return nil, nil
	}
	var verr *schemas.ValidationError
	if errors.As(err, &verr) {
		return verr.Errors, nil
	}
	var derr *schemas.DocumentError
	if errors.As(err, &derr) {
		return []types.FieldError{{Field: schemas.RootField, Message: derr.Cause.Error()}}, nil
	}
	return nil, err
}

// mergeNonFinite drops schema complaints about fields that were nulled for holding a
// non-finite number and adds the non-finite errors in their place.
func mergeNonFinite(fieldErrs, nonFinite []types.FieldError) []types.FieldError {
	if len(nonFinite) == 0 {
		return fieldErrs
	}
	nulled := make(map[string]bool, len(nonFinite))
	for _, fe := range nonFinite {
		nulled[fe.Field] = true
	}
	out := make([]types.FieldError, 0, len(fieldErrs)+len(nonFinite))
	for _, fe := range fieldErrs {
		if !nulled[fe.Field] {
			out = append(out, fe)
		}
	}
	out = append(out, nonFinite...)
	types.SortFieldErrors(out)
	return out
}

func shapeOf(v any) types.Shape {
	switch v.(type) {
	case map[string]any:
		return types.ShapeMapping
	case []any:
		return types.ShapeSequence
	}
	return "scalar"
}

func bind(value any, doc types.Document) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(doc)
}

// LoadProfile loads a profile document.
func LoadProfile(path string) (*types.Profile, error) {
	return loadAs[*types.Profile](path, types.KindProfile)
}

// LoadEducation loads the education document.
func LoadEducation(path string) (*types.Education, error) {
	return loadAs[*types.Education](path, types.KindEducation)
}

// LoadSkills loads the skills document.
func LoadSkills(path string) (*types.Skills, error) {
	return loadAs[*types.Skills](path, types.KindSkills)
}

// LoadExperience loads one experience file.
func LoadExperience(path string) (*types.ExperienceFile, error) {
	return loadAs[*types.ExperienceFile](path, types.KindExperience)
}

// LoadProjects loads one project file.
func LoadProjects(path string) (*types.ProjectFile, error) {
	return loadAs[*types.ProjectFile](path, types.KindProjects)
}

// LoadManifest loads one build manifest.
func LoadManifest(path string) (*types.Manifest, error) {
	return loadAs[*types.Manifest](path, types.KindManifest)
}

func loadAs[T types.Document](path string, kind types.Kind) (T, error) {
	var zero T
	doc, err := LoadFile(path, kind)
	if err != nil {
		return zero, err
	}
	typed, ok := doc.(T)
	if !ok {
		return zero, fmt.Errorf("%s: decoded %T, want %T", path, doc, zero)
	}
	return typed, nil
}
