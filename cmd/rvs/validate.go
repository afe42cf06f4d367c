package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/resume-vault/internal/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every governed YAML document",
	Long: `Loads every YAML document under data/, content/ and config/ in lexicographic order,
checks it against its schema, indexes identifiers across the corpus and checks manifest
references. All errors are reported in one pass.

With --watch the full validation re-runs after every debounced batch of changes.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

var (
	validateWatch     bool
	validateManifests bool
	validateDebounce  time.Duration
)

func init() {
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "Re-validate whenever content changes")
	validateCmd.Flags().BoolVar(&validateManifests, "manifests", true, "Validate manifests under config/ and their references")
	validateCmd.Flags().DurationVar(&validateDebounce, "debounce", validation.DefaultDebounce, "Quiet period before a watch re-run")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	layout, err := settings.Layout()
	if err != nil {
		printer.PrintInternalError(err)
		return &exitError{code: exitInternal}
	}
	opts := validation.Options{Layout: layout, IncludeManifests: validateManifests, Logger: logger}

	if validateWatch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("watching content", zap.String("root", layout.Root))
		err := validation.Watch(ctx, opts, validateDebounce, func(report *validation.Report, err error) {
			_ = reportValidation(report, err)
		})
		if err != nil {
			printer.PrintInternalError(err)
			return &exitError{code: exitInternal}
		}
		return nil
	}

	report, err := validation.Validate(opts)
	return reportValidation(report, err)
}

// reportValidation prints one validation outcome and returns the error carrying its exit code.
func reportValidation(report *validation.Report, err error) error {
	if err != nil {
		printer.PrintInternalError(err)
		return &exitError{code: exitInternal}
	}
	printer.PrintReport(report)
	if !report.Passed() {
		return &exitError{code: exitContent}
	}
	return nil
}
