package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViolation_JSONOmitsUnsetFields(t *testing.T) {
	data, err := json.Marshal(Violation{File: "data/profile.yaml", Category: CategorySchema, Message: "name is required"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"file":"data/profile.yaml","category":"schema","message":"name is required"}`, string(data))
}

func TestViolation_JSONDuplicate(t *testing.T) {
	id := "acme"
	line := 4
	data, err := json.Marshal(Violation{
		File:      "content/experience/b.yaml",
		Category:  CategoryDuplicateID,
		Field:     "entries.0.id",
		Message:   `duplicate id "acme"`,
		Line:      &line,
		ID:        &id,
		Locations: []string{"content/experience/a.yaml:entries.0", "content/experience/b.yaml:entries.0"},
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "duplicate_id", got["category"])
	assert.Equal(t, "acme", got["id"])
	assert.Equal(t, float64(4), got["line"])
	assert.Len(t, got["locations"], 2)
	assert.NotContains(t, got, "entry_id")
	assert.NotContains(t, got, "column")
}
