package vault

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long Watch waits for a burst of events to settle.
var WatchDebounce = 150 * time.Millisecond

// Watch calls cb whenever the file at abs is written, created or replaced,
// until ctx is cancelled. The parent directory is watched because atomic
// writers replace the file rather than write into it.
func Watch(ctx context.Context, abs string, logger *slog.Logger, cb func()) error {
	if logger == nil {
		logger = slog.Default()
	}
	abs = filepath.Clean(abs)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("vault: watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(abs)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("vault: watch %s: %w", dir, err)
	}
	logger.Info("watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(WatchDebounce)
			fire = timer.C
		} else {
			timer.Reset(WatchDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			logger.Debug("watcher: changed", slog.String("path", abs))
			cb()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
