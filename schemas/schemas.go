// Package schemas embeds the JSON Schema documents for every governed document kind.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var files embed.FS

// ContextSchema is the schema for the assembled rendering context.
const ContextSchema = "context.schema.json"

// Read returns the raw bytes of an embedded schema.
func Read(name string) ([]byte, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("schema %s not embedded: %w", name, err)
	}
	return data, nil
}

// Names lists every embedded schema file.
func Names() []string {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}
