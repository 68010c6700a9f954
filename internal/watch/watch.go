// Package watch reports changes to pipeline definition files.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/pipescope/internal/ctxlog"
	"github.com/vk/pipescope/internal/fsutil"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle before reporting a change.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches files and directory trees for changes to files with the
// given extensions.
type Watcher struct {
	fsw        *fsnotify.Watcher
	debounce   time.Duration
	extensions []string
	files      map[string]struct{}
	dirs       map[string]struct{}
}

// New starts watching paths. Directories are watched recursively; for a file
// its parent directory is watched and events are filtered to that file.
func New(paths []string, extensions []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		fsw:        fsw,
		debounce:   debounce,
		extensions: extensions,
		files:      make(map[string]struct{}),
		dirs:       make(map[string]struct{}),
	}
	for _, p := range paths {
		if err := w.add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("error accessing path %s: %w", path, err)
	}

	if !info.IsDir() {
		w.files[abs] = struct{}{}
		if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch directory: %w", err)
		}
		return nil
	}

	return filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		w.dirs[p] = struct{}{}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", p, err)
		}
		return nil
	})
}

// relevant reports whether an event on name should trigger a reload.
func (w *Watcher) relevant(name string) bool {
	name = filepath.Clean(name)
	if _, ok := w.files[name]; ok {
		return true
	}
	if !fsutil.HasExtension(name, w.extensions...) {
		return false
	}
	for dir := filepath.Dir(name); ; dir = filepath.Dir(dir) {
		if _, ok := w.dirs[dir]; ok {
			return true
		}
		if parent := filepath.Dir(dir); parent == dir {
			return false
		}
	}
}

// Run blocks until ctx is done, calling onChange once per settled burst of
// relevant events. onChange runs on the watcher goroutine, so calls never
// overlap.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	logger := ctxlog.FromContext(ctx)

	var debounceTimer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			// New directories inside a watched tree are watched too.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && w.underWatchedDir(event.Name) {
					if err := w.add(event.Name); err != nil {
						logger.Warn("Failed to watch new directory.", "path", event.Name, "error", err)
					}
					continue
				}
			}

			if !w.relevant(event.Name) {
				continue
			}
			logger.Debug("Pipeline file changed.", "path", event.Name, "op", event.Op.String())
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(w.debounce)
			fire = debounceTimer.C
		case <-fire:
			fire = nil
			onChange(ctx)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn("Watcher event queue overflowed, reloading.")
				onChange(ctx)
				continue
			}
			logger.Error("Watcher error.", "error", err)
		}
	}
}

func (w *Watcher) underWatchedDir(name string) bool {
	_, ok := w.dirs[filepath.Dir(filepath.Clean(name))]
	return ok
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
