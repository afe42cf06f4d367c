// Package validation checks the whole content corpus for schema, uniqueness and reference errors.
package validation

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-vault/internal/registry"
	"github.com/jonathan/resume-vault/internal/types"
)

type loadedManifest struct {
	File     string
	Manifest *types.Manifest
}

// checkReferences verifies a manifest against the finished index. Every broken reference
// is reported; nothing stops at the first one.
func checkReferences(layout registry.Layout, ix *idIndex, lm loadedManifest) []types.Violation {
	var out []types.Violation
	broken := func(field, entryID, id, msg string) {
		v := types.Violation{
			File:     lm.File,
			Category: types.CategoryBrokenReference,
			Field:    field,
			Message:  msg,
		}
		if id != "" {
			v.ID = &id
		}
		if entryID != "" {
			v.EntryID = &entryID
		}
		out = append(out, v)
	}

	m := lm.Manifest
	if profilePath, err := layout.ProfilePath(m.Profile); err != nil {
		broken("profile", "", "", err.Error())
	} else if _, err := os.Stat(profilePath); err != nil {
		broken("profile", "", "", fmt.Sprintf("unknown profile %q (expected file: %s)", m.Profile, layout.Rel(profilePath)))
	}

	for _, section := range []struct {
		name  string
		field string
		label string
		refs  []types.ManifestEntry
	}{
		{sectionExperience, types.SectionExperience, "experience", m.IncludeExperience},
		{sectionProjects, types.SectionProjects, "project", m.IncludeProjects},
	} {
		for i, ref := range section.refs {
			refPath := types.JoinPath(section.field, i)
			if msg := entryProblem(ix, ref.ID, section.name, section.field, section.label); msg != "" {
				broken(types.JoinPath(refPath, "id"), "", string(ref.ID), msg)
			}
			for j, bullet := range ref.Bullets {
				if msg := bulletProblem(ix, bullet, ref.ID, section.name); msg != "" {
					broken(types.JoinPath(refPath, "bullets", j), string(ref.ID), string(bullet), msg)
				}
			}
		}
	}
	return out
}

func entryProblem(ix *idIndex, id types.ResumeID, section, field, label string) string {
	locs := ix.lookup(id)
	if len(locs) == 0 {
		return fmt.Sprintf("unknown %s id %q", label, id)
	}
	for _, l := range locs {
		if l.isEntry() && l.Section == section {
			return ""
		}
	}
	return fmt.Sprintf("%q cannot be listed in %s: it is %s (%s)", id, field, locs[0].describe(), locs[0])
}

// bulletProblem requires the highlight to be owned by the entry it is nested under.
func bulletProblem(ix *idIndex, bullet, entryID types.ResumeID, section string) string {
	locs := ix.lookup(bullet)
	if len(locs) == 0 {
		return fmt.Sprintf("unknown bullet id %q under entry %q", bullet, entryID)
	}
	for _, l := range locs {
		if !l.isEntry() && l.Owner == entryID && l.Section == section {
			return ""
		}
	}
	return fmt.Sprintf("bullet %q does not belong to entry %q: it is %s (%s)", bullet, entryID, locs[0].describe(), locs[0])
}
