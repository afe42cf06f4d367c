package rendering

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	"github.com/jonathan/resume-vault/internal/types"
)

// Format identifies the kind of document a template produces.
type Format string

const (
	FormatHTML Format = "html"
	FormatTeX  Format = "tex"
)

// TemplateSuffix follows the output extension in template file names, e.g. modern.html.tmpl.
const TemplateSuffix = ".tmpl"

// DateLayout is how formatDate renders a concrete month.
const DateLayout = "Jan 2006"

// Output is one rendered document.
type Output struct {
	Template string
	Format   Format
	Text     string
}

// Ext returns the file extension for the output, including the dot.
func (o *Output) Ext() string { return "." + string(o.Format) }

// Renderer executes templates from a single directory. HTML templates get contextual
// escaping; LaTeX templates get the escape function.
type Renderer struct {
	dir string
}

// NewRenderer returns a Renderer reading templates from dir.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Resolve finds the template file for name, preferring HTML over LaTeX.
func (r *Renderer) Resolve(name string) (string, Format, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", "", &TemplateNotFoundError{Name: name}
	}
	var searched []string
	for _, f := range []Format{FormatHTML, FormatTeX} {
		path := filepath.Join(r.dir, name+"."+string(f)+TemplateSuffix)
		searched = append(searched, path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, f, nil
		}
	}
	return "", "", &TemplateNotFoundError{Name: name, Searched: searched}
}

// Render executes the named template against data. Missing map keys are errors.
func (r *Renderer) Render(name string, data map[string]any) (*Output, error) {
	path, format, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &TemplateError{Message: fmt.Sprintf("failed to read template file: %s", path), Cause: err}
	}

	var buf bytes.Buffer
	switch format {
	case FormatHTML:
		tmpl, err := htmltemplate.New(filepath.Base(path)).
			Option("missingkey=error").
			Funcs(htmltemplate.FuncMap(funcs())).
			Parse(string(src))
		if err != nil {
			return nil, &TemplateError{Message: "failed to parse template", Cause: err}
		}
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, &TemplateError{Message: "failed to execute template", Cause: err}
		}
	case FormatTeX:
		fm := funcs()
		fm["escape"] = escapeValue
		tmpl, err := texttemplate.New(filepath.Base(path)).
			Option("missingkey=error").
			Funcs(fm).
			Parse(string(src))
		if err != nil {
			return nil, &TemplateError{Message: "failed to parse template", Cause: err}
		}
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, &TemplateError{Message: "failed to execute template", Cause: err}
		}
	}
	return &Output{Template: name, Format: format, Text: buf.String()}, nil
}

func funcs() texttemplate.FuncMap {
	return texttemplate.FuncMap{
		"formatDate": FormatDate,
		"dateRange":  DateRange,
		"join":       join,
	}
}

// FormatDate renders a context date value: "YYYY-MM" as "Jan 2006", "Present" verbatim
// and null as the empty string.
func FormatDate(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("formatDate: expected a date string, got %T", v)
	}
	d, err := types.ParseDate(s)
	if err != nil {
		return "", err
	}
	return d.Format(DateLayout), nil
}

// DateRange renders "start - end". A missing end renders the start alone.
func DateRange(start, end any) (string, error) {
	from, err := FormatDate(start)
	if err != nil {
		return "", err
	}
	to, err := FormatDate(end)
	if err != nil {
		return "", err
	}
	switch {
	case from == "":
		return to, nil
	case to == "":
		return from, nil
	}
	return from + " - " + to, nil
}

func join(sep string, v any) string {
	switch items := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(items, sep)
	case []any:
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, sep)
	default:
		return fmt.Sprint(v)
	}
}
