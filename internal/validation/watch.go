// Package validation checks the whole content corpus for schema, uniqueness and reference errors.
package validation

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonathan/resume-vault/internal/registry"
	"go.uber.org/zap"
)

// DefaultDebounce batches bursts of editor saves into one run.
const DefaultDebounce = 300 * time.Millisecond

// Watch runs Validate once, then again after every debounced batch of changes under the
// governed directories, handing each outcome to fn. Every run is a full pass. Watch blocks
// until ctx is cancelled.
func Watch(ctx context.Context, opts Options, debounce time.Duration, fn func(*Report, error)) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &InternalError{Message: "failed to start file watcher", Cause: err}
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(opts.Layout.Root); err != nil {
		return &InternalError{Message: "failed to watch content root", Cause: err}
	}
	for _, dir := range watchedDirs(opts) {
		addTree(watcher, dir, logger)
	}

	fn(Validate(opts))

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					addTree(watcher, event.Name, logger)
				}
			}
			logger.Debug("content changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			fn(Validate(opts))
		}
	}
}

func watchedDirs(opts Options) []string {
	dirs := []string{opts.Layout.DataDir(), opts.Layout.ContentDir()}
	if opts.IncludeManifests {
		dirs = append(dirs, opts.Layout.ManifestDir())
	}
	return dirs
}

// addTree watches dir and every non-hidden directory below it. fsnotify is not recursive.
func addTree(w *fsnotify.Watcher, dir string, logger *zap.Logger) {
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && registry.IsHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			logger.Warn("cannot watch directory", zap.String("dir", p), zap.Error(err))
		}
		return nil
	})
}

func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	if registry.IsHidden(name) {
		return false
	}
	if registry.IsYAML(name) {
		return true
	}
	// directories appearing or disappearing change the set of governed files
	return filepath.Ext(name) == ""
}
