// Package pipeline provides the high-level orchestration for building one resume from a manifest.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/resume-vault/internal/assembly"
	"github.com/jonathan/resume-vault/internal/loader"
	"github.com/jonathan/resume-vault/internal/pipeline/steps"
	"github.com/jonathan/resume-vault/internal/registry"
	"github.com/jonathan/resume-vault/internal/rendering"
	"github.com/jonathan/resume-vault/internal/schemas"
	"github.com/jonathan/resume-vault/internal/selection"
	"github.com/jonathan/resume-vault/internal/types"
	schemafiles "github.com/jonathan/resume-vault/schemas"
	"go.uber.org/zap"
)

// ProgressEvent represents a progress update during a build
type ProgressEvent struct {
	Step       string `json:"step"`
	Category   string `json:"category"`
	Message    string `json:"message"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	Content    any    `json:"content,omitempty"`
}

// ProgressCallback is called when build progress occurs
type ProgressCallback func(event ProgressEvent)

// PDFPrinter converts a written HTML file to PDF bytes.
type PDFPrinter func(ctx context.Context, htmlPath string, timeout time.Duration, logger *zap.Logger) ([]byte, error)

// Options holds configuration for one build
type Options struct {
	Layout       registry.Layout
	ManifestPath string
	Reproducible bool
	PDF          bool
	PDFTimeout   time.Duration
	// Assembly overrides metadata sources; Reproducible and Root are filled in by Build.
	Assembly   assembly.Options
	PrintPDF   PDFPrinter
	Logger     *zap.Logger
	OnProgress ProgressCallback
}

// StepTiming records how long one step took
type StepTiming struct {
	Step     string        `json:"step"`
	Duration time.Duration `json:"duration"`
}

// Result describes the artifacts of a successful build
type Result struct {
	Manifest    string        `json:"manifest"`
	Template    string        `json:"template"`
	Format      string        `json:"format"`
	OutputPath  string        `json:"output_path"`
	ContextPath string        `json:"context_path"`
	PDFPath     string        `json:"pdf_path,omitempty"`
	Meta        assembly.Meta `json:"meta"`
	Steps       []StepTiming  `json:"steps"`
	Total       time.Duration `json:"total"`
	Warnings    []string      `json:"warnings,omitempty"`
}

type state struct {
	manifestAbs string
	manifestRel string
	stem        string
	manifest    *types.Manifest
	static      *assembly.Static
	selection   *selection.Selection
	context     *assembly.Context
	output      *rendering.Output
}

// Build runs every step for one manifest and stops at the first failure. Nothing is written
// to the output directory unless rendering succeeded.
func Build(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ManifestPath == "" {
		return nil, &BuildError{Step: steps.LoadManifest, Message: "manifest path is required"}
	}

	st := &state{manifestAbs: opts.ManifestPath}
	if !filepath.IsAbs(st.manifestAbs) {
		st.manifestAbs = filepath.Join(opts.Layout.Root, st.manifestAbs)
	}
	st.manifestRel = opts.Layout.Rel(st.manifestAbs)
	st.stem = strings.TrimSuffix(filepath.Base(st.manifestAbs), filepath.Ext(st.manifestAbs))

	result := &Result{Manifest: st.manifestRel}
	resolver := selection.NewResolver(opts.Layout, logger)
	renderer := rendering.NewRenderer(opts.Layout.TemplatesDir)

	run := map[string]func() error{
		steps.PrepareOutput: func() error {
			return os.MkdirAll(opts.Layout.OutDir, 0755)
		},
		steps.LoadManifest: func() error {
			m, err := loader.LoadManifest(st.manifestAbs)
			st.manifest = m
			return err
		},
		steps.LoadStaticData: func() error {
			s, err := assembly.LoadStatic(opts.Layout, st.manifest.Profile)
			st.static = s
			return err
		},
		steps.ResolveContent: func() error {
			sel, err := resolver.ResolveManifest(st.manifest)
			st.selection = sel
			return err
		},
		steps.AssembleContext: func() error {
			aopts := opts.Assembly
			aopts.Reproducible = opts.Reproducible
			aopts.Root = opts.Layout.Root
			aopts.Logger = logger
			c, err := assembly.Assemble(assembly.Input{
				Static:       st.static,
				Selection:    st.selection,
				Manifest:     st.manifest,
				ManifestPath: st.manifestRel,
			}, aopts)
			st.context = c
			return err
		},
		steps.RenderTemplate: func() error {
			out, err := renderer.Render(st.manifest.Template, st.context.Map())
			st.output = out
			return err
		},
		steps.WriteOutput: func() error {
			return writeArtifacts(opts.Layout.OutDir, st, result, logger)
		},
		steps.PrintPDF: func() error {
			return printPDF(ctx, opts, st, result, logger)
		},
	}

	completed := map[string]bool{}
	start := time.Now()
	for _, name := range steps.Order(opts.PDF) {
		if err := ctx.Err(); err != nil {
			return nil, &BuildError{Step: name, Message: "build cancelled", Cause: err}
		}
		if err := steps.ValidateDependencies(completed, name); err != nil {
			return nil, &BuildError{Step: name, Message: "step cannot run", Cause: err}
		}
		def := steps.StepRegistry[name]

		stepStart := time.Now()
		err := run[name]()
		elapsed := time.Since(stepStart)
		if err != nil {
			logger.Error("build step failed", zap.String("step", name), zap.Error(err))
			emitProgress(opts.OnProgress, name, def.Category, "failed", elapsed, err.Error())
			return nil, &BuildError{Step: name, Message: describe(name), Cause: err}
		}

		completed[name] = true
		result.Steps = append(result.Steps, StepTiming{Step: name, Duration: elapsed})
		logger.Info("build step completed", zap.String("step", name), zap.Duration("duration", elapsed))
		emitProgress(opts.OnProgress, name, def.Category, "completed", elapsed, nil)
	}

	result.Template = st.manifest.Template
	result.Format = string(st.output.Format)
	result.Meta = st.context.Meta()
	result.Total = time.Since(start)
	return result, nil
}

func writeArtifacts(outDir string, st *state, result *Result, logger *zap.Logger) error {
	result.OutputPath = filepath.Join(outDir, st.stem+st.output.Ext())
	if err := rendering.WriteAtomic(result.OutputPath, []byte(st.output.Text), 0644); err != nil {
		return err
	}

	data, err := json.MarshalIndent(st.context, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode context: %w", err)
	}
	data = append(data, '\n')
	result.ContextPath = filepath.Join(outDir, st.stem+".context.json")
	if err := rendering.WriteAtomic(result.ContextPath, data, 0644); err != nil {
		return err
	}

	if err := schemas.ValidateJSONString(schemafiles.ContextSchema, string(data)); err != nil {
		var ve *schemas.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		for _, fe := range ve.Errors {
			w := fmt.Sprintf("context does not match %s: %s: %s", schemafiles.ContextSchema, fe.Field, fe.Message)
			result.Warnings = append(result.Warnings, w)
			logger.Warn("context schema mismatch", zap.String("field", fe.Field), zap.String("message", fe.Message))
		}
	}
	return nil
}

func printPDF(ctx context.Context, opts Options, st *state, result *Result, logger *zap.Logger) error {
	if st.output.Format != rendering.FormatHTML {
		w := fmt.Sprintf("PDF output skipped: template %q is not HTML", st.manifest.Template)
		result.Warnings = append(result.Warnings, w)
		logger.Warn("PDF output skipped", zap.String("format", string(st.output.Format)))
		return nil
	}
	printer := opts.PrintPDF
	if printer == nil {
		printer = rendering.PrintPDF
	}
	pdf, err := printer(ctx, result.OutputPath, opts.PDFTimeout, logger)
	if err != nil {
		return err
	}
	result.PDFPath = filepath.Join(opts.Layout.OutDir, st.stem+".pdf")
	return rendering.WriteAtomic(result.PDFPath, pdf, 0644)
}

// emitProgress calls the progress callback if configured
func emitProgress(cb ProgressCallback, step, category, message string, elapsed time.Duration, content any) {
	if cb != nil {
		cb(ProgressEvent{
			Step:       step,
			Category:   category,
			Message:    message,
			DurationMS: elapsed.Milliseconds(),
			Content:    content,
		})
	}
}

func describe(step string) string {
	switch step {
	case steps.PrepareOutput:
		return "failed to prepare output directory"
	case steps.LoadManifest:
		return "manifest validation failed"
	case steps.LoadStaticData:
		return "failed to load static data"
	case steps.ResolveContent:
		return "content resolution failed"
	case steps.AssembleContext:
		return "failed to assemble context"
	case steps.RenderTemplate:
		return "rendering failed"
	case steps.WriteOutput:
		return "failed to write output"
	case steps.PrintPDF:
		return "failed to print PDF"
	}
	return "step failed"
}
