package rendering

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContext() map[string]any {
	return map[string]any{
		"profile": map[string]any{
			"name": "Ada <Lovelace>", "email": "ada@example.com", "phone": "", "location": "London",
			"linkedin": "", "github": "https://github.com/ada", "website": "",
			"links": []any{},
		},
		"education": []any{
			map[string]any{
				"id": "edu", "institution": "University of London", "degree": "Mathematics",
				"field_of_study": "", "gpa": "", "start_date": "1832-09", "end_date": "1835-06",
			},
		},
		"skills": map[string]any{
			"languages": []any{"c", "go"},
			"tools":     []any{},
		},
		"experience": []any{
			map[string]any{
				"id": "acme", "company": "Acme & Co", "role": "Engineer", "location": "Berlin",
				"start_date": "2019-01", "end_date": "Present",
				"highlights": []any{
					map[string]any{"id": "h3", "text": "Cut costs by 40%"},
					map[string]any{"id": "h1", "text": "Shipped_v2"},
				},
			},
		},
		"projects": []any{},
		"meta": map[string]any{
			"timestamp": "1970-01-01T00:00:00Z", "revision": "0000000", "manifest": "config/x.yaml",
		},
	}
}

func repoTemplates(t *testing.T) string {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("..", "..", "templates"))
	require.NoError(t, err)
	return dir
}

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestRender_ModernHTML(t *testing.T) {
	out, err := NewRenderer(repoTemplates(t)).Render("modern", sampleContext())
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, out.Format)
	assert.Equal(t, ".html", out.Ext())

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out.Text))
	require.NoError(t, err)

	assert.Equal(t, "Ada <Lovelace>", doc.Find("h1.name").Text())
	assert.Equal(t, "Acme & Co", doc.Find("#experience .company").Text())
	assert.Equal(t, "Jan 2019 - Present", doc.Find("#experience .dates").Text())

	var ids []string
	doc.Find("#experience li.highlight").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("data-id")
		ids = append(ids, id)
	})
	assert.Equal(t, []string{"h3", "h1"}, ids)

	assert.Equal(t, 0, doc.Find("#projects").Length())
	assert.Equal(t, "Sep 1832 - Jun 1835", doc.Find("#education .dates").Text())
	assert.Equal(t, 1, doc.Find("p.skills").Length())
	assert.Contains(t, doc.Find(`p.skills[data-category="languages"]`).Text(), "c, go")
	assert.NotContains(t, out.Text, "<Lovelace>")
}

func TestRender_ClassicTeX(t *testing.T) {
	out, err := NewRenderer(repoTemplates(t)).Render("classic", sampleContext())
	require.NoError(t, err)
	assert.Equal(t, FormatTeX, out.Format)
	assert.Contains(t, out.Text, `\textbf{Acme \& Co}`)
	assert.Contains(t, out.Text, `\item Cut costs by 40\%`)
	assert.Contains(t, out.Text, `\item Shipped\_v2`)
	assert.Contains(t, out.Text, "Jan 2019 - Present")
	assert.Less(t, strings.Index(out.Text, "40\\%"), strings.Index(out.Text, "Shipped"))
}

func TestRender_PrefersHTML(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "both.html.tmpl", "html")
	writeTemplate(t, dir, "both.tex.tmpl", "tex")

	out, err := NewRenderer(dir).Render("both", nil)
	require.NoError(t, err)
	assert.Equal(t, "html", out.Text)
}

func TestRender_TemplateNotFound(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"missing", "../escape", "", ".hidden"} {
		_, err := NewRenderer(dir).Render(name, nil)
		var nf *TemplateNotFoundError
		require.True(t, errors.As(err, &nf), "name %q", name)
		assert.Equal(t, name, nf.Name)
	}
}

func TestRender_MissingKeyIsError(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "strict.html.tmpl", "{{.profile.nickname}}")

	_, err := NewRenderer(dir).Render("strict", map[string]any{"profile": map[string]any{}})
	var te *TemplateError
	require.True(t, errors.As(err, &te))
	assert.Contains(t, te.Message, "execute")
}

func TestRender_ParseError(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "broken.tex.tmpl", "{{if}")

	_, err := NewRenderer(dir).Render("broken", nil)
	var te *TemplateError
	require.True(t, errors.As(err, &te))
	assert.Contains(t, te.Message, "parse")
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in      any
		want    string
		wantErr bool
	}{
		{"2023-03", "Mar 2023", false},
		{"Present", "Present", false},
		{nil, "", false},
		{"2023-13", "", true},
		{42, "", true},
	}
	for _, tt := range tests {
		got, err := FormatDate(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "%v", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestDateRange(t *testing.T) {
	got, err := DateRange("2020-01", nil)
	require.NoError(t, err)
	assert.Equal(t, "Jan 2020", got)

	got, err = DateRange(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a, b", join(", ", []any{"a", "b"}))
	assert.Equal(t, "a/b", join("/", []string{"a", "b"}))
	assert.Equal(t, "", join(", ", nil))
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "resume.html")

	require.NoError(t, WriteAtomic(path, []byte("first"), 0644))
	require.NoError(t, WriteAtomic(path, []byte("second"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestWriteAtomic_TargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0755))

	err := WriteAtomic(target, []byte("x"), 0644)
	var re *RenderError
	require.True(t, errors.As(err, &re))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
