package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/crossjudge/pkg/logger"
)

// Watch reloads the catalog whenever its file is written or replaced, until
// ctx is canceled. The parent directory is watched so editors that rename a
// temp file over the original are picked up.
func (c *Catalog) Watch(ctx context.Context) error {
	if c.path == "" {
		return ErrNoPath
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(c.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch catalog dir: %w", err)
	}

	go func() {
		defer w.Close()
		target := filepath.Clean(c.path)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if err := c.Reload(); err != nil {
					c.logger.Warn(ctx, "catalog reload failed", logger.String("path", c.path), logger.Error(err))
					continue
				}
				c.logger.Info(ctx, "catalog reloaded", logger.String("path", c.path), logger.Int("entries", c.Len()))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				c.logger.Warn(ctx, "catalog watcher error", logger.Error(err))
			}
		}
	}()
	return nil
}
