// Package registry maps governed content paths to document kinds and discovers them on disk.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/jonathan/resume-vault/internal/types"
)

// Layout locates the governed directories and singleton files under one content root.
type Layout struct {
	Root         string
	TemplatesDir string
	OutDir       string
}

// NewLayout returns the standard layout rooted at root.
func NewLayout(root string) Layout {
	return Layout{
		Root:         root,
		TemplatesDir: filepath.Join(root, "templates"),
		OutDir:       filepath.Join(root, "out"),
	}
}

func (l Layout) DataDir() string       { return filepath.Join(l.Root, DataDir) }
func (l Layout) ContentDir() string    { return filepath.Join(l.Root, ContentDir) }
func (l Layout) ManifestDir() string   { return filepath.Join(l.Root, ManifestDir) }
func (l Layout) ExperienceDir() string { return filepath.Join(l.Root, ContentDir, "experience") }
func (l Layout) ProjectsDir() string   { return filepath.Join(l.Root, ContentDir, "projects") }

func (l Layout) EducationPath() string {
	return firstExisting(filepath.Join(l.Root, DataDir, "education"))
}

func (l Layout) SkillsPath() string {
	return firstExisting(filepath.Join(l.Root, DataDir, "skills"))
}

// ProfilePath maps a manifest profile key to its document: "default" is data/profile.yaml,
// any other name is data/profiles/<name>.yaml. Names must be valid identifiers so the path
// stays inside data/profiles.
func (l Layout) ProfilePath(name string) (string, error) {
	if name == "" || name == types.DefaultProfile {
		return firstExisting(filepath.Join(l.Root, DataDir, "profile")), nil
	}
	if _, err := types.ValidateID(name); err != nil {
		return "", &InvalidProfileError{Name: name, Cause: err}
	}
	return firstExisting(filepath.Join(l.Root, DataDir, "profiles", name)), nil
}

// Rel returns path relative to the root in slash form.
func (l Layout) Rel(path string) string {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// firstExisting picks stem.yaml, or stem.yml when only that exists.
func firstExisting(stem string) string {
	if _, err := os.Stat(stem + ".yaml"); err != nil {
		if _, err := os.Stat(stem + ".yml"); err == nil {
			return stem + ".yml"
		}
	}
	return stem + ".yaml"
}

// Discover lists every YAML file under the governed directories as slash-separated paths
// relative to the root, sorted lexicographically. Hidden files and directories are skipped.
// The manifest directory is only walked when includeManifests is set, and may be absent.
func (l Layout) Discover(includeManifests bool) ([]string, error) {
	dirs := []string{DataDir, ContentDir}
	if includeManifests {
		dirs = append(dirs, ManifestDir)
	}

	var found []string
	for _, dir := range dirs {
		abs := filepath.Join(l.Root, dir)
		info, err := os.Stat(abs)
		if dir == ManifestDir && errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &MissingDirError{Dir: dir, Cause: err}
		}
		if !info.IsDir() {
			return nil, &MissingDirError{Dir: dir, Cause: errors.New("not a directory")}
		}
		err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if p != abs && IsHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !IsYAML(d.Name()) {
				return nil
			}
			found = append(found, l.Rel(p))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
		}
	}
	sort.Strings(found)
	return found, nil
}

// ListDir returns the YAML files directly inside dir, sorted, skipping hidden files.
// A missing directory yields an empty list.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || IsHidden(e.Name()) || !IsYAML(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
