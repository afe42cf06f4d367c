// Package selection resolves build manifests into the ordered, filtered content they select.
package selection

import (
	"fmt"

	"github.com/jonathan/resume-vault/internal/loader"
	"github.com/jonathan/resume-vault/internal/registry"
	"github.com/jonathan/resume-vault/internal/types"
	"go.uber.org/zap"
)

// Selection is the resolved content of one manifest, in manifest order.
type Selection struct {
	Experience []types.ExperienceEntry
	Projects   []types.ProjectEntry
}

// Resolver looks entries up by identifier. Its index is built from every experience and
// project file on the first lookup and reused for the lifetime of the Resolver only.
type Resolver struct {
	layout registry.Layout
	logger *zap.Logger

	built      bool
	experience map[types.ResumeID]*types.ExperienceEntry
	projects   map[types.ResumeID]*types.ProjectEntry
	owners     map[types.ResumeID]string // highlight id -> description of its owning entry
}

// NewResolver returns a Resolver over the content under layout. A nil logger is replaced by a no-op.
func NewResolver(layout registry.Layout, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{layout: layout, logger: logger}
}

// Built reports whether the index has been constructed.
func (r *Resolver) Built() bool { return r.built }

func (r *Resolver) ensureIndex() error {
	if r.built {
		return nil
	}
	experience := map[types.ResumeID]*types.ExperienceEntry{}
	projects := map[types.ResumeID]*types.ProjectEntry{}
	owners := map[types.ResumeID]string{}

	expFiles, err := registry.ListDir(r.layout.ExperienceDir())
	if err != nil {
		return &Error{Message: "failed to list experience files", Cause: err}
	}
	for _, path := range expFiles {
		f, err := loader.LoadExperience(path)
		if err != nil {
			return &Error{Message: fmt.Sprintf("failed to load experience file %s", r.layout.Rel(path)), Cause: err}
		}
		for i := range f.Entries {
			e := &f.Entries[i]
			if _, dup := experience[e.ID]; dup {
				return &Error{Message: fmt.Sprintf("duplicate experience entry id %q found in %s", e.ID, r.layout.Rel(path))}
			}
			experience[e.ID] = e
			for _, h := range e.Highlights {
				owners[h.ID] = fmt.Sprintf("a highlight of experience entry %q", e.ID)
			}
		}
	}

	projFiles, err := registry.ListDir(r.layout.ProjectsDir())
	if err != nil {
		return &Error{Message: "failed to list project files", Cause: err}
	}
	for _, path := range projFiles {
		f, err := loader.LoadProjects(path)
		if err != nil {
			return &Error{Message: fmt.Sprintf("failed to load project file %s", r.layout.Rel(path)), Cause: err}
		}
		for i := range f.Entries {
			e := &f.Entries[i]
			if _, dup := projects[e.ID]; dup {
				return &Error{Message: fmt.Sprintf("duplicate project entry id %q found in %s", e.ID, r.layout.Rel(path))}
			}
			projects[e.ID] = e
			for _, h := range e.Highlights {
				owners[h.ID] = fmt.Sprintf("a highlight of project entry %q", e.ID)
			}
		}
	}

	r.experience, r.projects, r.owners = experience, projects, owners
	r.built = true
	r.logger.Debug("content index built",
		zap.Int("experience_files", len(expFiles)),
		zap.Int("experience_entries", len(experience)),
		zap.Int("project_files", len(projFiles)),
		zap.Int("project_entries", len(projects)),
	)
	return nil
}

// ResolveExperience returns a copy of the referenced experience entry. With a bullet subset
// only those highlights are kept, in the order the reference lists them.
func (r *Resolver) ResolveExperience(ref types.ManifestEntry) (types.ExperienceEntry, error) {
	if err := r.ensureIndex(); err != nil {
		return types.ExperienceEntry{}, err
	}
	original, ok := r.experience[ref.ID]
	if !ok {
		return types.ExperienceEntry{}, r.missingEntry(types.SectionExperience, ref.ID)
	}

	out := *original
	out.EndDate = copyDate(original.EndDate)
	highlights, err := pick(original.Highlights, ref, func(h types.Highlight) types.ResumeID { return h.ID })
	if err != nil {
		return types.ExperienceEntry{}, r.missingBullet(types.SectionExperience, ref.ID, err.(missingID), original.HighlightIDs())
	}
	for i := range highlights {
		highlights[i].Tags = append([]types.TechTag{}, highlights[i].Tags...)
	}
	out.Highlights = highlights
	return out, nil
}

// ResolveProject is ResolveExperience for project entries.
func (r *Resolver) ResolveProject(ref types.ManifestEntry) (types.ProjectEntry, error) {
	if err := r.ensureIndex(); err != nil {
		return types.ProjectEntry{}, err
	}
	original, ok := r.projects[ref.ID]
	if !ok {
		return types.ProjectEntry{}, r.missingEntry(types.SectionProjects, ref.ID)
	}

	out := *original
	out.StartDate = copyDate(original.StartDate)
	out.EndDate = copyDate(original.EndDate)
	out.Technologies = append([]types.TechTag{}, original.Technologies...)
	highlights, err := pick(original.Highlights, ref, func(h types.ProjectHighlight) types.ResumeID { return h.ID })
	if err != nil {
		return types.ProjectEntry{}, r.missingBullet(types.SectionProjects, ref.ID, err.(missingID), original.HighlightIDs())
	}
	for i := range highlights {
		highlights[i].Tags = append([]types.TechTag{}, highlights[i].Tags...)
	}
	out.Highlights = highlights
	return out, nil
}

// ResolveManifest resolves every reference in manifest order and stops at the first broken one.
func (r *Resolver) ResolveManifest(m *types.Manifest) (*Selection, error) {
	sel := &Selection{
		Experience: make([]types.ExperienceEntry, 0, len(m.IncludeExperience)),
		Projects:   make([]types.ProjectEntry, 0, len(m.IncludeProjects)),
	}
	for _, ref := range m.IncludeExperience {
		e, err := r.ResolveExperience(ref)
		if err != nil {
			return nil, err
		}
		sel.Experience = append(sel.Experience, e)
	}
	for _, ref := range m.IncludeProjects {
		p, err := r.ResolveProject(ref)
		if err != nil {
			return nil, err
		}
		sel.Projects = append(sel.Projects, p)
	}
	return sel, nil
}

type missingID types.ResumeID

func (m missingID) Error() string { return string(m) }

// pick keeps all highlights in stored order when the reference has no subset, otherwise
// the requested ones in requested order.
func pick[H any](highlights []H, ref types.ManifestEntry, id func(H) types.ResumeID) ([]H, error) {
	if !ref.HasSubset() {
		return append([]H{}, highlights...), nil
	}
	byID := make(map[types.ResumeID]H, len(highlights))
	for _, h := range highlights {
		byID[id(h)] = h
	}
	out := make([]H, 0, len(ref.Bullets))
	for _, bullet := range ref.Bullets {
		h, ok := byID[bullet]
		if !ok {
			return nil, missingID(bullet)
		}
		out = append(out, h)
	}
	return out, nil
}

func (r *Resolver) missingEntry(section string, id types.ResumeID) error {
	err := &BrokenReferenceError{Section: section, EntryID: string(id)}
	switch {
	case section == types.SectionExperience && r.projects[id] != nil:
		err.Owner = "a project entry"
	case section == types.SectionProjects && r.experience[id] != nil:
		err.Owner = "an experience entry"
	default:
		err.Owner = r.owners[id]
	}
	return err
}

func (r *Resolver) missingBullet(section string, entryID types.ResumeID, bullet missingID, available []types.ResumeID) error {
	avail := make([]string, len(available))
	for i, a := range available {
		avail[i] = string(a)
	}
	return &BrokenReferenceError{
		Section:   section,
		EntryID:   string(entryID),
		BulletID:  string(bullet),
		Owner:     r.owners[types.ResumeID(bullet)],
		Available: avail,
	}
}

func copyDate(d *types.DateValue) *types.DateValue {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
