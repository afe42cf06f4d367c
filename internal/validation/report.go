// Package validation checks the whole content corpus for schema, uniqueness and reference errors.
package validation

import (
	"github.com/jonathan/resume-vault/internal/types"
)

// Report is the ordered outcome of one validation run.
type Report struct {
	FilesChecked int               `json:"files_checked"`
	Violations   []types.Violation `json:"errors"`
}

// Passed reports whether no content errors were found.
func (r *Report) Passed() bool {
	return len(r.Violations) == 0
}

// Status returns "PASS" or "FAIL".
func (r *Report) Status() string {
	if r.Passed() {
		return "PASS"
	}
	return "FAIL"
}

// FileGroup holds the violations reported against one file, in report order.
type FileGroup struct {
	File       string
	Violations []types.Violation
}

// ByFile groups violations by file in first-appearance order.
func (r *Report) ByFile() []FileGroup {
	var groups []FileGroup
	pos := map[string]int{}
	for _, v := range r.Violations {
		i, ok := pos[v.File]
		if !ok {
			i = len(groups)
			pos[v.File] = i
			groups = append(groups, FileGroup{File: v.File})
		}
		groups[i].Violations = append(groups[i].Violations, v)
	}
	return groups
}

// CountByCategory tallies violations per category.
func (r *Report) CountByCategory() map[string]int {
	out := map[string]int{}
	for _, v := range r.Violations {
		out[v.Category]++
	}
	return out
}

func (r *Report) add(v types.Violation) {
	r.Violations = append(r.Violations, v)
}
