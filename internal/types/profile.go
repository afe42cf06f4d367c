// Package types provides type definitions for structured data used throughout the resume-vault system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Profile holds identity and contact details (data/profile.yaml).
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin" validate:"omitempty,http_url"`
	GitHub   string `json:"github" validate:"omitempty,http_url"`
	Website  string `json:"website" validate:"omitempty,http_url"`
	Links    []Link `json:"links" validate:"dive"`
}

// Link is a labelled professional link.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url" validate:"required,http_url"`
}

func (p *Profile) Kind() Kind { return KindProfile }

func (p *Profile) Normalize() {
	p.Links = emptyIfNil(p.Links)
}

// Invariants has nothing to check beyond field formats.
func (p *Profile) Invariants() []FieldError { return nil }

// Education holds academic credentials (data/education.yaml).
type Education struct {
	Entries []EducationEntry `json:"entries"`
}

// EducationEntry is one academic credential.
type EducationEntry struct {
	ID           ResumeID   `json:"id"`
	Institution  string     `json:"institution"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"field_of_study"`
	Location     string     `json:"location"`
	StartDate    DateValue  `json:"start_date"`
	EndDate      *DateValue `json:"end_date"`
	GPA          string     `json:"gpa"`
	Honors       []string   `json:"honors"`
	Coursework   []string   `json:"coursework"`
}

func (e *Education) Kind() Kind { return KindEducation }

func (e *Education) Normalize() {
	e.Entries = emptyIfNil(e.Entries)
	for i := range e.Entries {
		e.Entries[i].Honors = emptyIfNil(e.Entries[i].Honors)
		e.Entries[i].Coursework = emptyIfNil(e.Entries[i].Coursework)
	}
}

func (e *Education) Invariants() []FieldError {
	var errs []FieldError
	ids := make([]ResumeID, 0, len(e.Entries))
	for i := range e.Entries {
		entry := &e.Entries[i]
		ids = append(ids, entry.ID)
		errs = append(errs, dateRangeError(JoinPath("entries", i), &entry.StartDate, entry.EndDate)...)
	}
	errs = append(errs, duplicateErrors("entries", "education entry id", idStrings(ids))...)
	return errs
}
