// Package main implements the rvs CLI for validating, building and searching a resume vault.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/resume-vault/internal/config"
	"github.com/jonathan/resume-vault/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	exitOK       = 0
	exitContent  = 1 // content errors or a failed build
	exitInternal = 2 // environment problems and usage errors
)

var (
	logger   *zap.Logger
	settings *config.Settings
	printer  *observability.Printer
)

var rootCmd = &cobra.Command{
	Use:   "rvs",
	Short: "Resume Vault: validate, build and search resume content",
	Long: `rvs governs a resume content vault: YAML records under data/ and content/,
build manifests under config/ and templates under templates/.

Exit codes: 0 success, 1 content errors or failed build, 2 internal error.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("root", ".", "Content root containing data/, content/ and config/")
	pf.String("out-dir", "", "Output directory (default <root>/out)")
	pf.String("templates-dir", "", "Templates directory (default <root>/templates)")
	pf.BoolP("verbose", "v", false, "Enable debug logging on stderr")
	pf.String("color", config.DefaultColor, "Colour output: auto, always or never")
}

// exitError carries a process exit code. err is nil when the failure was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

// setup resolves settings and builds the logger and printer shared by every command.
func setup(cmd *cobra.Command, _ []string) error {
	s, err := config.LoadSettings(cmd.Flags())
	if err != nil {
		return &exitError{code: exitInternal, err: err}
	}
	if err := s.Validate(); err != nil {
		return &exitError{code: exitInternal, err: err}
	}
	settings = s

	logger, err = newLogger(s.Verbose)
	if err != nil {
		return &exitError{code: exitInternal, err: fmt.Errorf("failed to initialize logger: %w", err)}
	}
	printer = observability.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), observability.ColorMode(s.Color))

	logger.Debug("settings resolved",
		zap.String("root", s.Root),
		zap.String("config_file", s.ConfigFile),
		zap.String("color", s.Color),
		zap.Bool("reproducible", s.Reproducible),
	)
	return nil
}

// newLogger builds a production logger on stderr. Without verbose only warnings and errors
// are written so reports stay readable.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitInternal
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	var ee *exitError
	if err != nil && (!errors.As(err, &ee) || ee.err != nil) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}
