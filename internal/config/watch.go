package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch re-loads the config file whenever it changes on disk and hands the
// new Config to apply. It blocks until ctx is cancelled.
//
// A failed reload (unreadable file, invalid YAML, failed validation) keeps
// the previous config active: the error is logged and apply is not called.
func Watch(ctx context.Context, path string, apply func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		return err
	}
	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			// Atomic saves show up as Create (rename-over), plain saves as
			// Write; everything else is noise.
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if cfg, err := Load(path); err != nil {
				slog.Error("config: reload failed, keeping previous config",
					"path", path, "err", err)
			} else {
				slog.Info("config: reloaded",
					"path", path, "broadcast_interval", cfg.Server.BroadcastInterval)
				apply(cfg)
			}
			// A rename-over replaced the inode; re-arm the watch.
			_ = w.Add(path)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
