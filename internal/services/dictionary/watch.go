package dictionary

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces bursts of write events from editors and copy tools
const reloadDelay = 200 * time.Millisecond

// Watch reloads dir whenever one of its word lists changes, until ctx is cancelled
func (s *Service) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isListFile(filepath.Base(event.Name)) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				pending = time.After(reloadDelay)
			case <-pending:
				pending = nil
				if err := s.LoadFromDir(ctx, dir); err != nil {
					s.logger.Warn("dictionary reload failed", slog.String("dir", dir), slog.String("error", err.Error()))
					continue
				}
				s.logger.Info("dictionary reloaded", slog.String("dir", dir))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("dictionary watch error", slog.String("error", err.Error()))
			}
		}
	}()

	return nil
}
