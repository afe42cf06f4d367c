package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jonathan/resume-vault/internal/pipeline"
	"github.com/jonathan/resume-vault/internal/rendering"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build one resume from a manifest",
	Long: `Runs the build pipeline for one manifest: load the manifest and static data, resolve the
selected experience and projects, assemble the rendering context, render the manifest's
template and write out/<manifest-stem>.<ext> plus out/<manifest-stem>.context.json.

The first failure stops the build and nothing is rendered. --reproducible pins the
timestamp, revision and build ID so identical content yields byte-identical output.
--pdf additionally prints HTML output to PDF with headless Chrome.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var buildManifest string

func init() {
	buildCmd.Flags().StringVarP(&buildManifest, "manifest", "m", "", "Path to the manifest YAML file (required)")
	buildCmd.Flags().Bool("reproducible", false, "Pin build metadata for byte-identical output")
	buildCmd.Flags().Bool("pdf", false, "Also print HTML output to PDF")
	buildCmd.Flags().Duration("pdf-timeout", rendering.DefaultPDFTimeout, "Time limit for PDF printing")

	if err := buildCmd.MarkFlagRequired("manifest"); err != nil {
		panic("failed to mark manifest flag as required: " + err.Error())
	}

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	layout, err := settings.Layout()
	if err != nil {
		printer.PrintInternalError(err)
		return &exitError{code: exitInternal}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.Build(ctx, pipeline.Options{
		Layout:       layout,
		ManifestPath: manifestPath(buildManifest),
		Reproducible: settings.Reproducible,
		PDF:          settings.PDF,
		PDFTimeout:   settings.PDFTimeout,
		Logger:       logger,
		OnProgress:   printer.PrintProgress,
	})
	if err != nil {
		printer.PrintBuildFailure(err)
		return &exitError{code: exitContent}
	}

	logger.Debug("build finished", zap.String("output", res.OutputPath), zap.Duration("total", res.Total))
	printer.PrintBuildSummary(res)
	return nil
}

// manifestPath keeps a path that exists relative to the working directory; anything else is
// left for the pipeline to resolve against the content root.
func manifestPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	}
	return path
}
