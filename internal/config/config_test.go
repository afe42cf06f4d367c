package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var settingVars = []string{
	"RVS_ROOT", "RVS_OUT_DIR", "RVS_TEMPLATES_DIR", "RVS_REPRODUCIBLE", "RVS_VERBOSE",
	"RVS_COLOR", "RVS_PDF", "RVS_PDF_TIMEOUT", "RVS_SEARCH_LIMIT",
}

// isolate blanks every RVS_ variable for the test and points the root at a fresh directory.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range settingVars {
		t.Setenv(k, "")
	}
	root := t.TempDir()
	t.Setenv("RVS_ROOT", root)
	return root
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("root", ".", "")
	fs.String("out-dir", "", "")
	fs.String("color", DefaultColor, "")
	fs.Bool("reproducible", false, "")
	fs.Duration("pdf-timeout", DefaultPDFTimeout, "")
	fs.Int("limit", DefaultSearchLimit, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadSettings_Defaults(t *testing.T) {
	root := isolate(t)

	s, err := LoadSettings(nil)
	require.NoError(t, err)

	assert.Equal(t, root, s.Root)
	assert.Equal(t, DefaultColor, s.Color)
	assert.Equal(t, DefaultPDFTimeout, s.PDFTimeout)
	assert.Equal(t, DefaultSearchLimit, s.SearchLimit)
	assert.False(t, s.Reproducible)
	assert.False(t, s.PDF)
	assert.Empty(t, s.OutDir)
	assert.Empty(t, s.ConfigFile)
	assert.NoError(t, s.Validate())
}

func TestLoadSettings_UnchangedFlagsKeepDefaults(t *testing.T) {
	isolate(t)

	s, err := LoadSettings(testFlags(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultSearchLimit, s.SearchLimit)
	assert.Equal(t, DefaultColor, s.Color)
}

func TestLoadSettings_EnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("RVS_REPRODUCIBLE", "true")
	t.Setenv("RVS_PDF_TIMEOUT", "45s")
	t.Setenv("RVS_COLOR", "Never")
	t.Setenv("RVS_OUT_DIR", "build")

	s, err := LoadSettings(nil)
	require.NoError(t, err)

	assert.True(t, s.Reproducible)
	assert.Equal(t, 45*time.Second, s.PDFTimeout)
	assert.Equal(t, "never", s.Color)
	assert.Equal(t, "build", s.OutDir)
}

func TestLoadSettings_Precedence(t *testing.T) {
	root := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName),
		[]byte("color: always\nsearch_limit: 3\nout_dir: dist\n"), 0644))

	s, err := LoadSettings(nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ConfigFileName), s.ConfigFile)
	assert.Equal(t, "always", s.Color)
	assert.Equal(t, 3, s.SearchLimit)
	assert.Equal(t, "dist", s.OutDir)

	t.Setenv("RVS_SEARCH_LIMIT", "5")
	s, err = LoadSettings(nil)
	require.NoError(t, err)
	assert.Equal(t, 5, s.SearchLimit, "env beats config file")

	s, err = LoadSettings(testFlags(t, "--limit", "9", "--color", "never"))
	require.NoError(t, err)
	assert.Equal(t, 9, s.SearchLimit, "flag beats env")
	assert.Equal(t, "never", s.Color, "flag beats config file")
	assert.Equal(t, "dist", s.OutDir)
}

func TestLoadSettings_RootFromFlag(t *testing.T) {
	isolate(t)
	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, ConfigFileName), []byte("pdf: true\n"), 0644))

	s, err := LoadSettings(testFlags(t, "--root", other))
	require.NoError(t, err)
	assert.Equal(t, other, s.Root)
	assert.True(t, s.PDF)
}

func TestLoadSettings_DotEnv(t *testing.T) {
	root := isolate(t)
	// godotenv never overrides a variable that exists, even when empty.
	require.NoError(t, os.Unsetenv("RVS_SEARCH_LIMIT"))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("RVS_SEARCH_LIMIT=7\n"), 0644))

	s, err := LoadSettings(nil)
	require.NoError(t, err)
	assert.Equal(t, 7, s.SearchLimit)
}

func TestLoadSettings_InvalidConfigFile(t *testing.T) {
	root := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("color: [\n"), 0644))

	s, err := LoadSettings(nil)
	assert.Nil(t, s)
	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "failed to read")
}

func TestSettings_Validate(t *testing.T) {
	valid := func() Settings {
		return Settings{Root: ".", Color: "auto", PDFTimeout: time.Second, SearchLimit: 1}
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"bad color", func(s *Settings) { s.Color = "blue" }, `color must be one of [auto, always, never], got "blue"`},
		{"zero timeout", func(s *Settings) { s.PDFTimeout = 0 }, "pdf_timeout must be at least 1s"},
		{"zero limit", func(s *Settings) { s.SearchLimit = 0 }, "search_limit must be at least 1"},
		{"no root", func(s *Settings) { s.Root = "" }, "root is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettings_ValidateReportsEveryField(t *testing.T) {
	s := Settings{Root: ".", Color: "blue", PDFTimeout: time.Second}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "color")
	assert.Contains(t, err.Error(), "search_limit")
}

func TestSettings_Layout(t *testing.T) {
	root := t.TempDir()

	layout, err := (&Settings{Root: root}).Layout()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "out"), layout.OutDir)
	assert.Equal(t, filepath.Join(root, "templates"), layout.TemplatesDir)

	abs := t.TempDir()
	layout, err = (&Settings{Root: root, OutDir: "dist", TemplatesDir: abs}).Layout()
	require.NoError(t, err)
	assert.Equal(t, root, layout.Root)
	assert.Equal(t, filepath.Join(root, "dist"), layout.OutDir)
	assert.Equal(t, abs, layout.TemplatesDir)
}
