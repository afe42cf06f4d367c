// Package validation checks the whole content corpus for schema, uniqueness and reference errors.
package validation

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-vault/internal/types"
)

// Sections an identifier can be declared in.
const (
	sectionExperience = "experience"
	sectionProjects   = "projects"
	sectionEducation  = "education"
)

// location is one declaration of an identifier.
type location struct {
	File    string
	Path    string // structural path inside the file
	Section string
	Owner   types.ResumeID // entry owning a highlight; empty for entries
}

func (l location) isEntry() bool { return l.Owner == "" }

func (l location) String() string {
	return l.File + ":" + l.Path
}

func (l location) describe() string {
	kind := map[string]string{
		sectionExperience: "experience entry",
		sectionProjects:   "project entry",
		sectionEducation:  "education entry",
	}[l.Section]
	if !l.isEntry() {
		return fmt.Sprintf("a highlight of entry %q", l.Owner)
	}
	return "a " + kind
}

// idIndex maps every identifier to all places it is declared. It lives for one
// Validate call only.
type idIndex struct {
	order []types.ResumeID
	locs  map[types.ResumeID][]location
}

func newIDIndex() *idIndex {
	return &idIndex{locs: map[types.ResumeID][]location{}}
}

func (ix *idIndex) add(id types.ResumeID, loc location) {
	if _, ok := ix.locs[id]; !ok {
		ix.order = append(ix.order, id)
	}
	ix.locs[id] = append(ix.locs[id], loc)
}

func (ix *idIndex) addDocument(file string, doc types.Document) {
	switch d := doc.(type) {
	case *types.ExperienceFile:
		for i, e := range d.Entries {
			entryPath := types.JoinPath("entries", i)
			ix.add(e.ID, location{File: file, Path: entryPath, Section: sectionExperience})
			for j, h := range e.Highlights {
				ix.add(h.ID, location{File: file, Path: types.JoinPath(entryPath, "highlights", j), Section: sectionExperience, Owner: e.ID})
			}
		}
	case *types.ProjectFile:
		for i, e := range d.Entries {
			entryPath := types.JoinPath("entries", i)
			ix.add(e.ID, location{File: file, Path: entryPath, Section: sectionProjects})
			for j, h := range e.Highlights {
				ix.add(h.ID, location{File: file, Path: types.JoinPath(entryPath, "highlights", j), Section: sectionProjects, Owner: e.ID})
			}
		}
	case *types.Education:
		for i, e := range d.Entries {
			ix.add(e.ID, location{File: file, Path: types.JoinPath("entries", i), Section: sectionEducation})
		}
	}
}

func (ix *idIndex) size() int { return len(ix.order) }

// duplicates reports each recurring identifier once, in first-seen order, listing every location.
// The violation is filed against the second occurrence.
func (ix *idIndex) duplicates() []types.Violation {
	var out []types.Violation
	for _, id := range ix.order {
		locs := ix.locs[id]
		if len(locs) < 2 {
			continue
		}
		all := make([]string, len(locs))
		for i, l := range locs {
			all[i] = l.String()
		}
		idStr := string(id)
		out = append(out, types.Violation{
			File:      locs[1].File,
			Category:  types.CategoryDuplicateID,
			Field:     locs[1].Path,
			Message:   fmt.Sprintf("duplicate id %q declared %d times: %s", id, len(locs), strings.Join(all, ", ")),
			ID:        &idStr,
			Locations: all,
		})
	}
	return out
}

func (ix *idIndex) lookup(id types.ResumeID) []location {
	return ix.locs[id]
}
