package main

import (
	"encoding/json"

	"github.com/jonathan/resume-vault/internal/types"
	"github.com/jonathan/resume-vault/internal/validation"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the vault and print a JSON integrity report",
	Long: `Runs the same validation as "rvs validate" and prints one JSON object on stdout:
{"status": "PASS"|"FAIL"|"ERROR", "files_checked": N, "errors": [...]}.
The exit code follows validate.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var checkManifests bool

func init() {
	checkCmd.Flags().BoolVar(&checkManifests, "manifests", true, "Validate manifests under config/ and their references")

	rootCmd.AddCommand(checkCmd)
}

// integrityReport is the machine-readable outcome of a check
type integrityReport struct {
	Status       string            `json:"status"`
	FilesChecked int               `json:"files_checked"`
	Errors       []types.Violation `json:"errors"`
	Message      string            `json:"message,omitempty"`
}

func runCheck(cmd *cobra.Command, _ []string) error {
	out := integrityReport{Errors: []types.Violation{}}
	code := exitOK

	layout, err := settings.Layout()
	var report *validation.Report
	if err == nil {
		report, err = validation.Validate(validation.Options{Layout: layout, IncludeManifests: checkManifests, Logger: logger})
	}
	switch {
	case err != nil:
		out.Status = "ERROR"
		out.Message = err.Error()
		code = exitInternal
	default:
		out.Status = report.Status()
		out.FilesChecked = report.FilesChecked
		if len(report.Violations) > 0 {
			out.Errors = report.Violations
			code = exitContent
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return &exitError{code: exitInternal, err: err}
	}
	if code != exitOK {
		return &exitError{code: code}
	}
	return nil
}
