// Package registry maps governed content paths to document kinds and discovers them on disk.
package registry

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-vault/internal/types"
)

// Governed directories, relative to the content root.
const (
	DataDir     = "data"
	ContentDir  = "content"
	ManifestDir = "config"
)

// Route maps one slash-separated path pattern to a kind.
// Patterns use path.Match syntax and never cross directory boundaries.
type Route struct {
	Pattern string
	Kind    types.Kind
}

// DefaultRoutes is the routing table for the standard layout.
var DefaultRoutes = []Route{
	{"data/profile.yaml", types.KindProfile},
	{"data/profile.yml", types.KindProfile},
	{"data/profiles/*.yaml", types.KindProfile},
	{"data/profiles/*.yml", types.KindProfile},
	{"data/education.yaml", types.KindEducation},
	{"data/education.yml", types.KindEducation},
	{"data/skills.yaml", types.KindSkills},
	{"data/skills.yml", types.KindSkills},
	{"content/experience/*.yaml", types.KindExperience},
	{"content/experience/*.yml", types.KindExperience},
	{"content/projects/*.yaml", types.KindProjects},
	{"content/projects/*.yml", types.KindProjects},
	{"config/*.yaml", types.KindManifest},
	{"config/*.yml", types.KindManifest},
}

// Router resolves relative paths to kinds.
type Router struct {
	routes []Route
}

// NewRouter returns a Router over routes, or DefaultRoutes when none are given.
func NewRouter(routes ...Route) *Router {
	if len(routes) == 0 {
		routes = DefaultRoutes
	}
	return &Router{routes: routes}
}

// Route returns the kind for rel, a path relative to the content root.
// The first matching route wins; a path matching nothing is an UnroutableError.
func (r *Router) Route(rel string) (types.Kind, error) {
	slashed := filepath.ToSlash(rel)
	for _, route := range r.routes {
		if ok, _ := path.Match(route.Pattern, slashed); ok {
			return route.Kind, nil
		}
	}
	return "", &UnroutableError{Path: slashed}
}

// IsYAML reports whether name has a YAML extension.
func IsYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// IsHidden reports whether a file or directory name is hidden.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
