// Package search provides keyword search over highlights and projects using an in-memory bleve index.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/jonathan/resume-vault/internal/loader"
	"github.com/jonathan/resume-vault/internal/registry"
	"github.com/jonathan/resume-vault/internal/types"
	"go.uber.org/zap"
)

// Indexed field names
const (
	FieldTags  = "tags"
	FieldTitle = "title"
	FieldBody  = "body"
)

// Weights added per matching term.
const (
	TagWeight   = 10
	TitleWeight = 5
	BodyWeight  = 1
)

// Hit types
const (
	TypeBullet  = "bullet"
	TypeProject = "project"
)

const snippetLength = 100

// Hit is one scored search result
type Hit struct {
	ID      string `json:"id"`
	Parent  string `json:"parent_id,omitempty"`
	Type    string `json:"type"`
	File    string `json:"file"`
	Score   int    `json:"score"`
	Snippet string `json:"snippet"`
}

// Index is a searchable snapshot of the content directories
type Index struct {
	idx     bleve.Index
	hits    map[string]Hit
	skipped []string
}

// NewIndexMapping creates the bleve mapping: tags are matched whole, title and body are analyzed.
func NewIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()
	docMapping.Dynamic = false

	tagsField := bleve.NewTextFieldMapping()
	tagsField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(FieldTags, tagsField)

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(FieldTitle, titleField)

	bodyField := bleve.NewTextFieldMapping()
	bodyField.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(FieldBody, bodyField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

// BuildIndex indexes every experience highlight and project under layout. Files that fail
// to load are skipped and reported by Skipped.
func BuildIndex(layout registry.Layout, logger *zap.Logger) (*Index, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	idx, err := bleve.NewMemOnly(NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	ix := &Index{idx: idx, hits: map[string]Hit{}}
	batch := idx.NewBatch()

	expFiles, err := registry.ListDir(layout.ExperienceDir())
	if err != nil {
		return nil, err
	}
	for _, path := range expFiles {
		rel := layout.Rel(path)
		f, err := loader.LoadExperience(path)
		if err != nil {
			logger.Warn("skipping experience file", zap.String("file", rel), zap.Error(err))
			ix.skipped = append(ix.skipped, rel)
			continue
		}
		for _, e := range f.Entries {
			for _, h := range e.Highlights {
				doc := map[string]any{
					FieldTags:  tagStrings(h.Tags),
					FieldTitle: e.Role,
					FieldBody:  strings.Join([]string{e.Company, e.Role, e.Team, e.Department, h.Text, h.Impact}, " "),
				}
				if err := batch.Index(string(h.ID), doc); err != nil {
					return nil, fmt.Errorf("failed to index %s: %w", h.ID, err)
				}
				ix.hits[string(h.ID)] = Hit{ID: string(h.ID), Parent: string(e.ID), Type: TypeBullet, File: rel, Snippet: snippet(h.Text)}
			}
		}
	}

	projFiles, err := registry.ListDir(layout.ProjectsDir())
	if err != nil {
		return nil, err
	}
	for _, path := range projFiles {
		rel := layout.Rel(path)
		f, err := loader.LoadProjects(path)
		if err != nil {
			logger.Warn("skipping project file", zap.String("file", rel), zap.Error(err))
			ix.skipped = append(ix.skipped, rel)
			continue
		}
		for _, p := range f.Entries {
			tags := tagStrings(p.Technologies)
			body := []string{p.Name, p.Description, p.Role, p.Organization}
			for _, h := range p.Highlights {
				tags = append(tags, tagStrings(h.Tags)...)
				body = append(body, h.Text)
			}
			doc := map[string]any{
				FieldTags:  tags,
				FieldTitle: p.Name,
				FieldBody:  strings.Join(body, " "),
			}
			if err := batch.Index(string(p.ID), doc); err != nil {
				return nil, fmt.Errorf("failed to index %s: %w", p.ID, err)
			}
			ix.hits[string(p.ID)] = Hit{ID: string(p.ID), Type: TypeProject, File: rel, Snippet: snippet(p.Description)}
		}
	}

	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			return nil, fmt.Errorf("failed to build search index: %w", err)
		}
	}
	logger.Debug("search index built", zap.Int("documents", len(ix.hits)), zap.Int("skipped_files", len(ix.skipped)))
	return ix, nil
}

// Skipped lists the content files that could not be loaded.
func (ix *Index) Skipped() []string { return ix.skipped }

// Len returns the number of indexed documents.
func (ix *Index) Len() int { return len(ix.hits) }

// Close releases the index.
func (ix *Index) Close() error { return ix.idx.Close() }

// ParseTerms splits a comma-separated query into trimmed, lower-cased terms.
func ParseTerms(raw string) []string {
	var terms []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// Search scores every document against the comma-separated terms in raw. Each term adds
// TagWeight for an exact tag, TitleWeight for a title match and BodyWeight for a body match.
// Results are ordered by score, then ID; limit <= 0 returns all of them.
func (ix *Index) Search(raw string, limit int) ([]Hit, error) {
	terms := ParseTerms(raw)
	if len(terms) == 0 || len(ix.hits) == 0 {
		return []Hit{}, nil
	}

	scores := map[string]int{}
	for _, term := range terms {
		tagQuery := bleve.NewTermQuery(term)
		tagQuery.SetField(FieldTags)

		titleQuery := bleve.NewMatchQuery(term)
		titleQuery.SetField(FieldTitle)
		titleQuery.SetOperator(query.MatchQueryOperatorAnd)

		bodyQuery := bleve.NewMatchQuery(term)
		bodyQuery.SetField(FieldBody)
		bodyQuery.SetOperator(query.MatchQueryOperatorAnd)

		for _, q := range []struct {
			q      query.Query
			weight int
		}{
			{tagQuery, TagWeight},
			{titleQuery, TitleWeight},
			{bodyQuery, BodyWeight},
		} {
			ids, err := ix.matching(q.q)
			if err != nil {
				return nil, err
			}
			for _, id := range ids {
				scores[id] += q.weight
			}
		}
	}

	out := make([]Hit, 0, len(scores))
	for id, score := range scores {
		h := ix.hits[id]
		h.Score = score
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (ix *Index) matching(q query.Query) ([]string, error) {
	req := bleve.NewSearchRequest(q)
	req.Size = len(ix.hits)
	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	ids := make([]string, len(res.Hits))
	for i, h := range res.Hits {
		ids[i] = h.ID
	}
	return ids, nil
}

func tagStrings(tags []types.TechTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

func snippet(text string) string {
	r := []rune(text)
	if len(r) <= snippetLength {
		return text
	}
	return string(r[:snippetLength]) + "..."
}
