// Package types provides type definitions for structured data used throughout the resume-vault system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// Skills is the categorized skill taxonomy (data/skills.yaml).
type Skills struct {
	Languages     []TechTag `json:"languages"`
	Frameworks    []TechTag `json:"frameworks"`
	Databases     []TechTag `json:"databases"`
	Tools         []TechTag `json:"tools"`
	Platforms     []TechTag `json:"platforms"`
	Methodologies []string  `json:"methodologies"`
	Other         []string  `json:"other"`
}

// SkillCategory pairs a category key with its items.
type SkillCategory struct {
	Name  string
	Items []string
}

func (s *Skills) Kind() Kind { return KindSkills }

func (s *Skills) Normalize() {
	s.Languages = emptyIfNil(s.Languages)
	s.Frameworks = emptyIfNil(s.Frameworks)
	s.Databases = emptyIfNil(s.Databases)
	s.Tools = emptyIfNil(s.Tools)
	s.Platforms = emptyIfNil(s.Platforms)
	s.Methodologies = emptyIfNil(s.Methodologies)
	s.Other = emptyIfNil(s.Other)
}

// Categories returns every category in declaration order.
func (s *Skills) Categories() []SkillCategory {
	return []SkillCategory{
		{Name: "languages", Items: tagStrings(s.Languages)},
		{Name: "frameworks", Items: tagStrings(s.Frameworks)},
		{Name: "databases", Items: tagStrings(s.Databases)},
		{Name: "tools", Items: tagStrings(s.Tools)},
		{Name: "platforms", Items: tagStrings(s.Platforms)},
		{Name: "methodologies", Items: append([]string{}, s.Methodologies...)},
		{Name: "other", Items: append([]string{}, s.Other...)},
	}
}

// All returns every skill across all categories.
func (s *Skills) All() []string {
	var out []string
	for _, c := range s.Categories() {
		out = append(out, c.Items...)
	}
	return out
}

// Invariants rejects case-insensitive duplicates inside a category.
func (s *Skills) Invariants() []FieldError {
	var errs []FieldError
	for _, c := range s.Categories() {
		seen := make(map[string]int, len(c.Items))
		for i, item := range c.Items {
			key := strings.ToLower(item)
			if first, ok := seen[key]; ok {
				errs = append(errs, FieldError{
					Field:   JoinPath(c.Name, i),
					Message: fmt.Sprintf("duplicate item %q in category %q (same as %s, case-insensitive)", item, c.Name, JoinPath(c.Name, first)),
				})
				continue
			}
			seen[key] = i
		}
	}
	return errs
}

func tagStrings(tags []TechTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}
