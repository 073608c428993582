package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/streamlens/streamlens/internal/logger"
)

// debounceWindow coalesces the bursts of write events editors produce
// when saving a file.
const debounceWindow = 250 * time.Millisecond

// Watch reloads the store whenever its config file changes and calls
// onReload with the fresh configuration. It blocks until ctx is done.
//
// The parent directory is watched rather than the file itself so that
// atomic rename-into-place saves are observed.
func Watch(ctx context.Context, store *ConfigStore, onReload func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(store.Path())); err != nil {
		return fmt.Errorf("watching config directory: %w", err)
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != store.Path() {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
				continue
			}
			// A tick that fired while this event was being handled is
			// stale; drain it before rearming or it would cut the
			// debounce window short.
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounceWindow)

		case <-timerC:
			timer = nil
			timerC = nil
			if err := store.Load(); err != nil {
				logger.Warn("config reload failed: %v", err)
				continue
			}
			logger.Info("config reloaded from %s", store.Path())
			if onReload != nil {
				onReload(store.Config())
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: %v", err)
		}
	}
}
