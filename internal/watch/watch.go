// Package watch re-applies a map document when its file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 250 * time.Millisecond

// ApplyFunc is invoked with the watched path after each settled change.
type ApplyFunc func(ctx context.Context, path string) error

// Watcher calls an ApplyFunc when a file is written, created or renamed
// into place. Bursts of events within the debounce window collapse into
// one call.
type Watcher struct {
	path     string
	apply    ApplyFunc
	debounce time.Duration
	log      zerolog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

func New(path string, apply ApplyFunc, opts ...Option) *Watcher {
	w := &Watcher{path: filepath.Clean(path), apply: apply, debounce: defaultDebounce, log: zerolog.Nop()}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Run watches until ctx is done. The parent directory is watched rather
// than the file so editors that replace the file by rename are seen.
// Apply errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.log.Info().Str("path", w.path).Msg("watching map document")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		case <-timer.C:
			w.log.Info().Str("path", w.path).Msg("map document changed, re-applying")
			if err := w.apply(ctx, w.path); err != nil {
				w.log.Error().Err(err).Str("path", w.path).Msg("re-apply failed")
			}
		}
	}
}
