package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	appLog "activitylog/internal/log"
)

// DefaultDebounce collapses the burst of events an editor produces on save.
const DefaultDebounce = 500 * time.Millisecond

// ErrNotWatchable is returned by Watch for URL sources.
var ErrNotWatchable = errors.New("catalog: only file sources can be watched")

// Watch reloads the catalog whenever the source file changes. It watches
// the parent directory so that atomic replace-by-rename saves are seen.
// Watch blocks until ctx is cancelled.
func (c *Catalog) Watch(ctx context.Context, debounce time.Duration) error {
	if c.src.Path == "" {
		return ErrNotWatchable
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	target, err := filepath.Abs(c.src.Path)
	if err != nil {
		return fmt.Errorf("catalog: resolve %s: %w", c.src.Path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("catalog: watch %s: %w", filepath.Dir(target), err)
	}
	appLog.Info("watching events file", "id", c.src.ID, "path", target)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			appLog.Debug("events watcher stopped", "id", c.src.ID)
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			appLog.Debug("events file changed", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			appLog.Error("events watcher error", err, "id", c.src.ID)

		case <-timer.C:
			_ = c.Load(ctx)
		}
	}
}
