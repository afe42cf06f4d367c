package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFormats_Profile(t *testing.T) {
	p := &Profile{
		Name:     "Ada",
		Email:    "not-an-email",
		LinkedIn: "linkedin.com/in/ada",
		Links: []Link{
			{Label: "Blog", URL: "https://ada.dev"},
			{Label: "Talk", URL: "ftp://files.example.com"},
		},
	}
	errs := ValidateFormats(p)
	SortFieldErrors(errs)
	require.Len(t, errs, 3)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "linkedin", errs[1].Field)
	assert.Equal(t, "links.1.url", errs[2].Field)
}

func TestValidateFormats_ValidProfile(t *testing.T) {
	p := &Profile{Name: "Ada", Email: "ada@example.com", GitHub: "https://github.com/ada"}
	assert.Empty(t, ValidateFormats(p))
}

func TestValidateFormats_ProjectURLs(t *testing.T) {
	f := &ProjectFile{Entries: []ProjectEntry{
		{ID: "ok", URL: "https://example.com"},
		{ID: "bad", Repository: "github.com/x/y"},
	}}
	errs := ValidateFormats(f)
	require.Len(t, errs, 1)
	assert.Equal(t, "entries.1.repository", errs[0].Field)
}

func TestValidateFormats_NoTags(t *testing.T) {
	assert.Empty(t, ValidateFormats(&Manifest{}))
	assert.Empty(t, ValidateFormats(&Skills{}))
}
