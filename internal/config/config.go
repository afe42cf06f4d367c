// Package config resolves CLI settings from flags, environment, an optional rvs.yaml and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/jonathan/resume-vault/internal/registry"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. RVS_OUT_DIR.
const EnvPrefix = "RVS"

// ConfigFileName is the optional settings file read from the content root.
const ConfigFileName = "rvs.yaml"

// Defaults
const (
	DefaultColor       = "auto"
	DefaultPDFTimeout  = 30 * time.Second
	DefaultSearchLimit = 10
)

// flagKeys maps CLI flag names to setting keys.
var flagKeys = map[string]string{
	"root":          "root",
	"out-dir":       "out_dir",
	"templates-dir": "templates_dir",
	"reproducible":  "reproducible",
	"verbose":       "verbose",
	"color":         "color",
	"pdf":           "pdf",
	"pdf-timeout":   "pdf_timeout",
	"limit":         "search_limit",
}

// Settings application settings
type Settings struct {
	Root         string        `mapstructure:"root" validate:"required"`
	OutDir       string        `mapstructure:"out_dir"`       // relative paths resolve against Root
	TemplatesDir string        `mapstructure:"templates_dir"` // relative paths resolve against Root
	Reproducible bool          `mapstructure:"reproducible"`
	Verbose      bool          `mapstructure:"verbose"`
	Color        string        `mapstructure:"color" validate:"oneof=auto always never"`
	PDF          bool          `mapstructure:"pdf"`
	PDFTimeout   time.Duration `mapstructure:"pdf_timeout" validate:"min=1s"`
	SearchLimit  int           `mapstructure:"search_limit" validate:"min=1"`

	// ConfigFile is the rvs.yaml that was read, empty when none exists.
	ConfigFile string `mapstructure:"-"`
}

// LoadSettings loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables (including <root>/.env) > rvs.yaml > defaults.
// If flags is nil, only env vars, the config file and defaults are used.
func LoadSettings(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	v.SetDefault("root", ".")
	v.SetDefault("out_dir", "")
	v.SetDefault("templates_dir", "")
	v.SetDefault("reproducible", false)
	v.SetDefault("verbose", false)
	v.SetDefault("color", DefaultColor)
	v.SetDefault("pdf", false)
	v.SetDefault("pdf_timeout", DefaultPDFTimeout)
	v.SetDefault("search_limit", DefaultSearchLimit)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	// The root decides where .env and rvs.yaml live, so it is resolved first.
	root := v.GetString("root")
	if err := loadDotEnv(filepath.Join(root, ".env")); err != nil {
		return nil, err
	}

	var configFile string
	path := filepath.Join(root, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, &Error{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
		}
		configFile = path
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, &Error{Message: "failed to decode settings", Cause: err}
	}
	// The root is never taken from the file found inside it.
	settings.Root = root
	settings.Color = strings.ToLower(strings.TrimSpace(settings.Color))
	settings.ConfigFile = configFile

	return &settings, nil
}

// loadDotEnv exports variables from path without overriding ones already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return &Error{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}
	return nil
}

var settingsValidator = newSettingsValidator()

func newSettingsValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("mapstructure")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the field constraints and returns every problem in one error.
func (s *Settings) Validate() error {
	err := settingsValidator.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Message: "failed to validate settings", Cause: err}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &Error{Message: "invalid settings: " + strings.Join(msgs, "; ")}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s, got %v", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// Layout derives the absolute governed directories. Empty OutDir and TemplatesDir fall back
// to <root>/out and <root>/templates.
func (s *Settings) Layout() (registry.Layout, error) {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return registry.Layout{}, &Error{Message: fmt.Sprintf("failed to resolve root %s", s.Root), Cause: err}
	}
	layout := registry.NewLayout(root)
	if s.OutDir != "" {
		layout.OutDir = underRoot(root, s.OutDir)
	}
	if s.TemplatesDir != "" {
		layout.TemplatesDir = underRoot(root, s.TemplatesDir)
	}
	return layout, nil
}

func underRoot(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
