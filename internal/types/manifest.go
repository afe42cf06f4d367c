// Package types provides type definitions for structured data used throughout the resume-vault system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// DefaultProfile is the profile key that maps to data/profile.yaml.
const DefaultProfile = "default"

// Manifest selects and orders the content of one build (config/*.yaml).
type Manifest struct {
	Template          string          `json:"template"`
	Profile           string          `json:"profile"`
	IncludeExperience []ManifestEntry `json:"include_experience"`
	IncludeProjects   []ManifestEntry `json:"include_projects"`
}

// ManifestEntry references an entry and optionally the subset of its highlights to keep.
// A nil Bullets list keeps every highlight in stored order.
type ManifestEntry struct {
	ID      ResumeID   `json:"id"`
	Bullets []ResumeID `json:"bullets"`
}

// Section names used in manifests and reference errors.
const (
	SectionExperience = "include_experience"
	SectionProjects   = "include_projects"
)

func (m *Manifest) Kind() Kind { return KindManifest }

func (m *Manifest) Normalize() {
	m.IncludeExperience = emptyIfNil(m.IncludeExperience)
	m.IncludeProjects = emptyIfNil(m.IncludeProjects)
}

func (m *Manifest) Invariants() []FieldError {
	var errs []FieldError
	for _, section := range []struct {
		name string
		refs []ManifestEntry
	}{
		{SectionExperience, m.IncludeExperience},
		{SectionProjects, m.IncludeProjects},
	} {
		ids := make([]ResumeID, len(section.refs))
		for i, ref := range section.refs {
			ids[i] = ref.ID
			if ref.Bullets != nil && len(ref.Bullets) == 0 {
				errs = append(errs, FieldError{
					Field:   JoinPath(section.name, i, "bullets"),
					Message: "bullets list cannot be empty; omit it or use null to include all highlights",
				})
			}
			errs = append(errs, duplicateErrors(JoinPath(section.name, i, "bullets"), "bullet id", idStrings(ref.Bullets))...)
		}
		errs = append(errs, duplicateErrors(section.name, "entry id", idStrings(ids))...)
	}
	return errs
}

// HasSubset reports whether the reference narrows the entry's highlights.
func (e ManifestEntry) HasSubset() bool { return e.Bullets != nil }
