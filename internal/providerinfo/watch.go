package providerinfo

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the overrides file whenever it changes, until ctx is
// cancelled. The parent directory is watched rather than the file itself so
// atomic-rename saves keep working. Blocks; run it in its own goroutine.
func (c *Catalog) Watch(ctx context.Context, path string, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := c.ApplyOverrides(path); err != nil {
				logger.Warn("provider info reload failed", "path", path, "err", err)
				continue
			}
			logger.Info("provider info reloaded", "path", path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("provider info watcher error", "err", err)
		}
	}
}
