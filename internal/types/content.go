// Package types provides type definitions for structured data used throughout the resume-vault system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ExperienceFile is one document under content/experience.
type ExperienceFile struct {
	Entries []ExperienceEntry `json:"entries"`
}

// ExperienceEntry represents a single position with stable ID and ordered highlights
type ExperienceEntry struct {
	ID         ResumeID    `json:"id"`
	Company    string      `json:"company"`
	Role       string      `json:"role"`
	Location   string      `json:"location"`
	StartDate  DateValue   `json:"start_date"`
	EndDate    *DateValue  `json:"end_date"`
	Highlights []Highlight `json:"highlights"`
	Team       string      `json:"team"`
	Department string      `json:"department"`
}

// Highlight is one addressable bullet owned by an experience entry
type Highlight struct {
	ID     ResumeID  `json:"id"`
	Text   string    `json:"text"`
	Tags   []TechTag `json:"tags"`
	Impact string    `json:"impact"`
}

func (f *ExperienceFile) Kind() Kind { return KindExperience }

func (f *ExperienceFile) Normalize() {
	f.Entries = emptyIfNil(f.Entries)
	for i := range f.Entries {
		f.Entries[i].Highlights = emptyIfNil(f.Entries[i].Highlights)
		for j := range f.Entries[i].Highlights {
			f.Entries[i].Highlights[j].Tags = emptyIfNil(f.Entries[i].Highlights[j].Tags)
		}
	}
}

func (f *ExperienceFile) Invariants() []FieldError {
	var errs []FieldError
	ids := make([]ResumeID, 0, len(f.Entries))
	for i := range f.Entries {
		entry := &f.Entries[i]
		path := JoinPath("entries", i)
		ids = append(ids, entry.ID)
		errs = append(errs, dateRangeError(path, &entry.StartDate, entry.EndDate)...)
		errs = append(errs, duplicateErrors(JoinPath(path, "highlights"), "highlight id", idStrings(entry.HighlightIDs()))...)
	}
	errs = append(errs, duplicateErrors("entries", "experience entry id", idStrings(ids))...)
	return errs
}

// HighlightIDs returns the entry's highlight IDs in stored order.
func (e *ExperienceEntry) HighlightIDs() []ResumeID {
	out := make([]ResumeID, len(e.Highlights))
	for i, h := range e.Highlights {
		out[i] = h.ID
	}
	return out
}

// ProjectFile is one document under content/projects.
type ProjectFile struct {
	Entries []ProjectEntry `json:"entries" validate:"dive"`
}

// ProjectEntry represents one portfolio item
type ProjectEntry struct {
	ID           ResumeID           `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	StartDate    *DateValue         `json:"start_date"`
	EndDate      *DateValue         `json:"end_date"`
	URL          string             `json:"url" validate:"omitempty,http_url"`
	Repository   string             `json:"repository" validate:"omitempty,http_url"`
	Technologies []TechTag          `json:"technologies"`
	Highlights   []ProjectHighlight `json:"highlights"`
	Role         string             `json:"role"`
	Organization string             `json:"organization"`
}

// ProjectHighlight is one addressable bullet owned by a project entry
type ProjectHighlight struct {
	ID   ResumeID  `json:"id"`
	Text string    `json:"text"`
	Tags []TechTag `json:"tags"`
}

func (f *ProjectFile) Kind() Kind { return KindProjects }

func (f *ProjectFile) Normalize() {
	f.Entries = emptyIfNil(f.Entries)
	for i := range f.Entries {
		e := &f.Entries[i]
		e.Technologies = emptyIfNil(e.Technologies)
		e.Highlights = emptyIfNil(e.Highlights)
		for j := range e.Highlights {
			e.Highlights[j].Tags = emptyIfNil(e.Highlights[j].Tags)
		}
	}
}

func (f *ProjectFile) Invariants() []FieldError {
	var errs []FieldError
	ids := make([]ResumeID, 0, len(f.Entries))
	for i := range f.Entries {
		entry := &f.Entries[i]
		path := JoinPath("entries", i)
		ids = append(ids, entry.ID)
		errs = append(errs, dateRangeError(path, entry.StartDate, entry.EndDate)...)
		errs = append(errs, duplicateErrors(JoinPath(path, "highlights"), "highlight id", idStrings(entry.HighlightIDs()))...)
	}
	errs = append(errs, duplicateErrors("entries", "project entry id", idStrings(ids))...)
	return errs
}

// HighlightIDs returns the entry's highlight IDs in stored order.
func (e *ProjectEntry) HighlightIDs() []ResumeID {
	out := make([]ResumeID, len(e.Highlights))
	for i, h := range e.Highlights {
		out[i] = h.ID
	}
	return out
}
