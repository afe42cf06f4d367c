package search

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/resume-vault/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	acmeYAML = `entries:
  - id: acme
    company: Acme
    role: Backend Engineer
    location: Berlin
    start_date: "2019-01"
    highlights:
      - {id: acme-build, text: Built Go services, tags: [go, kubernetes]}
      - {id: acme-hiring, text: Led hiring}
`
	engineYAML = `entries:
  - id: engine
    name: Engine
    description: A Rust calculator
    technologies: [rust]
    highlights:
      - {id: engine-cards, text: Parsed punch cards}
`
)

func newIndex(t *testing.T, files map[string]string) *Index {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	ix, err := BuildIndex(registry.NewLayout(root), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func defaultIndex(t *testing.T) *Index {
	return newIndex(t, map[string]string{
		"content/experience/acme.yaml": acmeYAML,
		"content/projects/engine.yaml": engineYAML,
	})
}

func ids(hits []Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.ID
	}
	return out
}

func TestSearch_TagOutweighsBody(t *testing.T) {
	hits, err := defaultIndex(t).Search("Go", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, Hit{
		ID:      "acme-build",
		Parent:  "acme",
		Type:    TypeBullet,
		File:    "content/experience/acme.yaml",
		Score:   TagWeight + BodyWeight,
		Snippet: "Built Go services",
	}, hits[0])
}

func TestSearch_TitleMatchesTieByID(t *testing.T) {
	hits, err := defaultIndex(t).Search("engineer", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme-build", "acme-hiring"}, ids(hits))
	for _, h := range hits {
		assert.Equal(t, TitleWeight+BodyWeight, h.Score)
	}
}

func TestSearch_MultipleTermsAccumulate(t *testing.T) {
	hits, err := defaultIndex(t).Search("rust, engine, hiring", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"engine", "acme-hiring"}, ids(hits))
	assert.Equal(t, TagWeight+BodyWeight+TitleWeight+BodyWeight, hits[0].Score)
	assert.Equal(t, TypeProject, hits[0].Type)
	assert.Equal(t, BodyWeight, hits[1].Score)
}

func TestSearch_Limit(t *testing.T) {
	hits, err := defaultIndex(t).Search("engineer", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme-build"}, ids(hits))
}

func TestSearch_NoTerms(t *testing.T) {
	hits, err := defaultIndex(t).Search(" , ,", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestBuildIndex_SkipsInvalidFiles(t *testing.T) {
	ix := newIndex(t, map[string]string{
		"content/experience/acme.yaml": acmeYAML,
		"content/experience/bad.yaml":  "entries: [",
	})
	assert.Equal(t, []string{"content/experience/bad.yaml"}, ix.Skipped())
	assert.Equal(t, 2, ix.Len())
}

func TestBuildIndex_EmptyCorpus(t *testing.T) {
	ix := newIndex(t, nil)
	hits, err := ix.Search("go", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestParseTerms(t *testing.T) {
	assert.Equal(t, []string{"go", "machine learning"}, ParseTerms(" Go ,, Machine Learning "))
	assert.Nil(t, ParseTerms(""))
}

func TestSnippet(t *testing.T) {
	long := strings.Repeat("é", 150)
	assert.Equal(t, strings.Repeat("é", 100)+"...", snippet(long))
	assert.Equal(t, "short", snippet("short"))
}
