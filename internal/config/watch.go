package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long Watch waits after a change event before reading
// the file. Editors and os.WriteFile truncate and then write, so the first
// event often fires while the file is still half-written; reading
// immediately could yield an empty or partial document that parses as a
// spurious all-defaults config.
const settleDelay = 100 * time.Millisecond

// Watch monitors path and calls onChange with the newly loaded Config each
// time the file changes. It runs until ctx is cancelled.
//
// A change is picked up after a short settle delay, with any burst of
// events in that window coalesced into a single reload. If the reload
// fails (e.g., invalid YAML or failed validation), the error is logged and
// the previous config remains active — onChange is not called.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Writes and creates both count: atomic saves replace the file
			// rather than writing it in place.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if done := settle(ctx, watcher); done {
				return nil
			}

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed, keeping previous config",
					"path", path, "err", err)
				continue
			}

			slog.Info("config: reloaded", "path", path)
			onChange(cfg)

			// An atomic save may have replaced the inode; watch the new one.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

// settle waits out settleDelay, swallowing any further events from the
// same save burst. It reports true when the watcher or context is done
// and Watch should return.
func settle(ctx context.Context, watcher *fsnotify.Watcher) (done bool) {
	timer := time.NewTimer(settleDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return true
		case _, ok := <-watcher.Events:
			if !ok {
				return true
			}
			// Part of the same burst — keep waiting.
		case <-timer.C:
			return false
		}
	}
}
