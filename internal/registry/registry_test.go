package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-vault/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Route(t *testing.T) {
	tests := []struct {
		path string
		want types.Kind
	}{
		{"data/profile.yaml", types.KindProfile},
		{"data/profiles/redacted.yml", types.KindProfile},
		{"data/education.yaml", types.KindEducation},
		{"data/skills.yml", types.KindSkills},
		{"content/experience/acme.yaml", types.KindExperience},
		{"content/projects/cli.yaml", types.KindProjects},
		{"config/backend.yaml", types.KindManifest},
	}
	r := NewRouter()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := r.Route(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRouter_Unroutable(t *testing.T) {
	r := NewRouter()
	for _, p := range []string{
		"data/notes.yaml",
		"content/experience/2020/acme.yaml",
		"content/acme.yaml",
		"config/nested/x.yaml",
	} {
		_, err := r.Route(p)
		var ue *UnroutableError
		require.True(t, errors.As(err, &ue), p)
		assert.Equal(t, p, ue.Path)
		assert.Contains(t, err.Error(), "unroutable")
	}
}

func TestRouter_CustomRoutes(t *testing.T) {
	r := NewRouter(Route{Pattern: "extra/*.yaml", Kind: types.KindSkills})
	got, err := r.Route("extra/a.yaml")
	require.NoError(t, err)
	assert.Equal(t, types.KindSkills, got)

	_, err = r.Route("data/profile.yaml")
	assert.Error(t, err)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func TestLayout_Discover(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"content/projects/zeta.yaml",
		"content/experience/b.yaml",
		"content/experience/a.yml",
		"content/experience/.draft.yaml",
		"content/.hidden/x.yaml",
		"data/profile.yaml",
		"data/README.md",
		"config/backend.yaml",
	} {
		writeFile(t, root, rel, "x: 1\n")
	}

	l := NewLayout(root)
	got, err := l.Discover(false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"content/experience/a.yml",
		"content/experience/b.yaml",
		"content/projects/zeta.yaml",
		"data/profile.yaml",
	}, got)

	got, err = l.Discover(true)
	require.NoError(t, err)
	assert.Equal(t, "config/backend.yaml", got[0])
}

func TestLayout_Discover_MissingDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data/profile.yaml", "x: 1\n")

	_, err := NewLayout(root).Discover(false)
	var me *MissingDirError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, ContentDir, me.Dir)

	writeFile(t, root, "content/experience/a.yaml", "x: 1\n")
	got, err := NewLayout(root).Discover(true)
	require.NoError(t, err, "the manifest directory is optional")
	assert.Equal(t, []string{"content/experience/a.yaml", "data/profile.yaml"}, got)

	writeFile(t, root, "config", "not a directory")
	_, err = NewLayout(root).Discover(true)
	require.True(t, errors.As(err, &me))
	assert.Equal(t, ManifestDir, me.Dir)
}

func TestLayout_ProfilePath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data/profiles/redacted.yml", "x: 1\n")
	l := NewLayout(root)

	for name, want := range map[string]string{
		"default":  filepath.Join(root, "data", "profile.yaml"),
		"":         filepath.Join(root, "data", "profile.yaml"),
		"redacted": filepath.Join(root, "data", "profiles", "redacted.yml"),
		"other":    filepath.Join(root, "data", "profiles", "other.yaml"),
	} {
		got, err := l.ProfilePath(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestLayout_ProfilePath_StaysInsideVault(t *testing.T) {
	l := NewLayout(t.TempDir())
	for _, name := range []string{"../../x", "../profile", "a/b", "/etc/passwd", "..", "Upper"} {
		t.Run(name, func(t *testing.T) {
			path, err := l.ProfilePath(name)
			require.Error(t, err)
			assert.Empty(t, path)
			var pe *InvalidProfileError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, name, pe.Name)
		})
	}
}

func TestListDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "content/experience/b.yaml", "x: 1\n")
	writeFile(t, root, "content/experience/a.yaml", "x: 1\n")
	writeFile(t, root, "content/experience/.tmp.yaml", "x: 1\n")
	writeFile(t, root, "content/experience/notes.txt", "x")

	l := NewLayout(root)
	got, err := ListDir(l.ExperienceDir())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(l.ExperienceDir(), "a.yaml"),
		filepath.Join(l.ExperienceDir(), "b.yaml"),
	}, got)

	got, err = ListDir(l.ProjectsDir())
	require.NoError(t, err)
	assert.Empty(t, got)
}
