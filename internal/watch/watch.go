// Package watch reruns a compilation whenever its input file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/guppyc/internal/logfields"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle before rerunning.
const DefaultDebounce = 200 * time.Millisecond

// RunFunc performs one compilation run.
type RunFunc func(ctx context.Context) error

// Watcher monitors a single file. Runs happen on the watcher's goroutine, so
// they never overlap; a failing run is logged and watching continues.
type Watcher struct {
	path     string
	run      RunFunc
	debounce time.Duration
	watcher  *fsnotify.Watcher
	runs     chan<- error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithRunResults reports the result of every run on ch.
func WithRunResults(ch chan<- error) Option {
	return func(w *Watcher) { w.runs = ch }
}

// New creates a watcher for path.
func New(path string, run RunFunc, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watched path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{path: absPath, run: run, debounce: DefaultDebounce, watcher: fw}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run performs an initial run and then one run per settled change until ctx
// is cancelled. The parent directory is watched rather than the file itself
// so editors that replace the file on save are handled.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	slog.Info("Watching for changes", logfields.Path(w.path))

	w.runOnce(ctx)

	name := filepath.Base(w.path)
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
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("Input change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.runOnce(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	err := w.run(ctx)
	if err != nil {
		slog.Error("Compilation failed; waiting for changes", logfields.Error(err))
	} else {
		slog.Info("Compilation finished; waiting for changes")
	}
	if w.runs != nil {
		select {
		case w.runs <- err:
		case <-ctx.Done():
		}
	}
}
