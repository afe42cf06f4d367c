// Package validation checks the whole content corpus for schema, uniqueness and reference errors.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jonathan/resume-vault/internal/loader"
	"github.com/jonathan/resume-vault/internal/registry"
	"github.com/jonathan/resume-vault/internal/types"
	"go.uber.org/zap"
)

// Options configures one validation run
type Options struct {
	Layout           registry.Layout
	Router           *registry.Router // nil uses the default routing table
	IncludeManifests bool
	Logger           *zap.Logger
}

// Validate runs a full, stateless pass over the corpus: every governed file is loaded in
// lexicographic order, identifiers are indexed across files, and manifests are checked
// against that index. Content problems go into the Report; the returned error is only
// set for an InternalError.
func Validate(opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	router := opts.Router
	if router == nil {
		router = registry.NewRouter()
	}

	files, err := opts.Layout.Discover(opts.IncludeManifests)
	if err != nil {
		return nil, &InternalError{Message: "failed to discover content", Cause: err}
	}
	logger.Debug("discovered documents", zap.Int("count", len(files)), zap.String("root", opts.Layout.Root))

	report := &Report{}
	index := newIDIndex()
	var manifests []loadedManifest

	for _, rel := range files {
		report.FilesChecked++

		kind, err := router.Route(rel)
		if err != nil {
			report.add(types.Violation{File: rel, Category: types.CategoryRegistry, Message: err.Error()})
			continue
		}

		doc, err := loader.LoadFile(filepath.Join(opts.Layout.Root, filepath.FromSlash(rel)), kind)
		if err != nil {
			violations, internal := classify(rel, err)
			if internal != nil {
				return nil, internal
			}
			for _, v := range violations {
				report.add(v)
			}
			logger.Debug("document failed", zap.String("file", rel), zap.String("kind", string(kind)), zap.Int("errors", len(violations)))
			continue
		}
		logger.Debug("document loaded", zap.String("file", rel), zap.String("kind", string(kind)))

		if m, ok := doc.(*types.Manifest); ok {
			manifests = append(manifests, loadedManifest{File: rel, Manifest: m})
			continue
		}
		index.addDocument(rel, doc)
	}

	for _, v := range index.duplicates() {
		report.add(v)
	}
	for _, lm := range manifests {
		for _, v := range checkReferences(opts.Layout, index, lm) {
			report.add(v)
		}
	}

	logger.Info("validation finished",
		zap.Int("files", report.FilesChecked),
		zap.Int("ids", index.size()),
		zap.Int("manifests", len(manifests)),
		zap.Int("errors", len(report.Violations)),
	)
	return report, nil
}

// classify turns a loader failure into report entries, or into an InternalError when the
// failure is environmental.
func classify(rel string, err error) ([]types.Violation, error) {
	var de *loader.DecodeError
	var se *loader.SchemaError
	var re *loader.ReadError
	switch {
	case errors.As(err, &de):
		v := types.Violation{
			File:     rel,
			Category: types.CategoryDecode,
			Message:  fmt.Sprintf("%s error: %s", de.Stage, de.Message),
		}
		if de.Line > 0 {
			line := de.Line
			v.Line = &line
		}
		if de.Column > 0 {
			col := de.Column
			v.Column = &col
		}
		return []types.Violation{v}, nil
	case errors.As(err, &se):
		out := make([]types.Violation, 0, len(se.Errors))
		for _, fe := range se.Errors {
			out = append(out, types.Violation{
				File:     rel,
				Category: types.CategorySchema,
				Field:    fe.Field,
				Message:  fe.Message,
			})
		}
		return out, nil
	case errors.As(err, &re):
		return nil, &InternalError{Message: fmt.Sprintf("cannot read %s", rel), Cause: err}
	}
	return nil, &InternalError{Message: fmt.Sprintf("unexpected failure loading %s", rel), Cause: err}
}
