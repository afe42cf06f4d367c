package assembly

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jonathan/resume-vault/internal/registry"
	"github.com/jonathan/resume-vault/internal/selection"
	"github.com/jonathan/resume-vault/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, raw string) types.DateValue {
	t.Helper()
	d, err := types.ParseDate(raw)
	require.NoError(t, err)
	return d
}

func sampleInput(t *testing.T) Input {
	present := types.Present
	return Input{
		Static: &Static{
			Profile: &types.Profile{Name: "Ada Lovelace", Email: "ada@example.com", Links: []types.Link{}},
			Education: &types.Education{Entries: []types.EducationEntry{{
				ID:          "edu-london",
				Institution: "University of London",
				Degree:      "Mathematics",
				StartDate:   mustDate(t, "1832-09"),
				Honors:      []string{},
				Coursework:  []string{},
			}}},
			Skills: &types.Skills{
				Languages:     []types.TechTag{"python", "go", "c"},
				Tools:         []types.TechTag{},
				Methodologies: []string{"tdd", "Agile", "kanban"},
			},
		},
		Selection: &selection.Selection{
			Experience: []types.ExperienceEntry{{
				ID:        "acme",
				Company:   "Acme",
				Role:      "Engineer",
				StartDate: mustDate(t, "2019-01"),
				EndDate:   &present,
				Highlights: []types.Highlight{
					{ID: "h3", Text: "Third", Tags: []types.TechTag{"go"}},
					{ID: "h1", Text: "First", Tags: []types.TechTag{}},
				},
			}},
		},
		Manifest:     &types.Manifest{Template: "modern", Profile: "default"},
		ManifestPath: "config/backend.yaml",
	}
}

func fixedOptions() Options {
	return Options{
		Clock:    func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.FixedZone("x", 3600)) },
		Revision: func(string) string { return "abc1234" },
		NewID:    func() uuid.UUID { return uuid.MustParse("0b6f1d3c-6a55-4c5e-9b0e-5b2f9d1f6c11") },
	}
}

func TestAssemble_Shape(t *testing.T) {
	ctx, err := Assemble(sampleInput(t), fixedOptions())
	require.NoError(t, err)

	m := ctx.Map()
	want := map[string]any{
		"timestamp": "2024-05-01T11:30:00Z",
		"revision":  "abc1234",
		"build_id":  "0b6f1d3c-6a55-4c5e-9b0e-5b2f9d1f6c11",
		"manifest":  "config/backend.yaml",
		"template":  "modern",
		"profile":   "default",
	}
	if diff := cmp.Diff(want, m["meta"]); diff != "" {
		t.Errorf("meta mismatch (-want +got):\n%s", diff)
	}

	exp := m["experience"].([]any)
	require.Len(t, exp, 1)
	entry := exp[0].(map[string]any)
	assert.Equal(t, "Present", entry["end_date"])
	assert.Equal(t, "2019-01", entry["start_date"])
	highlights := entry["highlights"].([]any)
	assert.Equal(t, "h3", highlights[0].(map[string]any)["id"])
	assert.Equal(t, "h1", highlights[1].(map[string]any)["id"])

	assert.Equal(t, []any{}, m["projects"])
	assert.Len(t, m["education"], 1)
}

func TestAssemble_SkillsSortedCaseInsensitive(t *testing.T) {
	ctx, err := Assemble(sampleInput(t), fixedOptions())
	require.NoError(t, err)

	skills := ctx.Map()["skills"].(map[string]any)
	if diff := cmp.Diff([]any{"c", "go", "python"}, skills["languages"]); diff != "" {
		t.Errorf("languages (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"Agile", "kanban", "tdd"}, skills["methodologies"]); diff != "" {
		t.Errorf("methodologies (-want +got):\n%s", diff)
	}
	assert.Equal(t, []any{}, skills["frameworks"])
}

func TestSortedSkills_StableForCaseVariants(t *testing.T) {
	got := SortedSkills(&types.Skills{Other: []string{"b", "ab", "AB", "Aa"}})
	assert.Equal(t, []string{"Aa", "AB", "ab", "b"}, got["other"])
}

func TestAssemble_MapIsDeepCopy(t *testing.T) {
	in := sampleInput(t)
	ctx, err := Assemble(in, fixedOptions())
	require.NoError(t, err)

	first := ctx.Map()
	first["profile"].(map[string]any)["name"] = "changed"
	first["experience"].([]any)[0].(map[string]any)["highlights"] = nil
	first["meta"] = nil

	second := ctx.Map()
	assert.Equal(t, "Ada Lovelace", second["profile"].(map[string]any)["name"])
	assert.Len(t, second["experience"].([]any)[0].(map[string]any)["highlights"], 2)
	assert.NotNil(t, second["meta"])

	// later changes to the inputs do not leak into the context
	in.Static.Profile.Name = "mutated"
	assert.Equal(t, "Ada Lovelace", ctx.Map()["profile"].(map[string]any)["name"])
}

func TestAssemble_ReproducibleIsByteIdentical(t *testing.T) {
	opts := Options{
		Reproducible: true,
		Clock:        time.Now,
		Revision:     func(string) string { t.Fatal("revision looked up in reproducible mode"); return "" },
	}
	a, err := Assemble(sampleInput(t), opts)
	require.NoError(t, err)
	b, err := Assemble(sampleInput(t), opts)
	require.NoError(t, err)

	aj, err := json.Marshal(a)
	require.NoError(t, err)
	bj, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(aj), string(bj))

	meta := a.Meta()
	assert.Equal(t, ReproducibleTimestamp, meta.Timestamp)
	assert.Equal(t, ReproducibleRevision, meta.Revision)
	assert.Equal(t, uuid.Nil.String(), meta.BuildID)
}

func TestAssemble_DefaultsAreVolatile(t *testing.T) {
	a, err := Assemble(sampleInput(t), Options{Revision: func(string) string { return "r" }})
	require.NoError(t, err)
	b, err := Assemble(sampleInput(t), Options{Revision: func(string) string { return "r" }})
	require.NoError(t, err)
	assert.NotEqual(t, a.Meta().BuildID, b.Meta().BuildID)
	_, err = time.Parse(TimestampLayout, a.Meta().Timestamp)
	assert.NoError(t, err)
}

func TestAssemble_IncompleteInput(t *testing.T) {
	in := sampleInput(t)
	in.Selection = nil
	_, err := Assemble(in, Options{})
	var ae *Error
	require.True(t, errors.As(err, &ae))

	in = sampleInput(t)
	in.Static.Skills = nil
	_, err = Assemble(in, Options{})
	assert.Error(t, err)
}

func TestGitRevision_NotARepository(t *testing.T) {
	assert.Equal(t, UnknownRevision, GitRevision(t.TempDir()))
}

func TestLoadStatic(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	write("data/profile.yaml", "name: Ada\nemail: ada@example.com\n")
	write("data/profiles/redacted.yml", "name: A.\nemail: a@example.com\n")
	write("data/education.yaml", "entries:\n  - id: edu\n    institution: U\n    degree: D\n    start_date: \"2000-01\"\n")
	write("data/skills.yaml", "languages: [Go]\n")
	layout := registry.NewLayout(root)

	s, err := LoadStatic(layout, "")
	require.NoError(t, err)
	assert.Equal(t, "Ada", s.Profile.Name)
	assert.Equal(t, []types.TechTag{"go"}, s.Skills.Languages)

	s, err = LoadStatic(layout, "redacted")
	require.NoError(t, err)
	assert.Equal(t, "A.", s.Profile.Name)

	_, err = LoadStatic(layout, "ghost")
	var ae *Error
	require.True(t, errors.As(err, &ae))
	assert.Contains(t, err.Error(), `profile "ghost"`)

	require.NoError(t, os.Remove(filepath.Join(root, "data", "skills.yaml")))
	_, err = LoadStatic(layout, "")
	assert.ErrorContains(t, err, "failed to load skills")
}
