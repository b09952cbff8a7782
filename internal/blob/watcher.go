package blob

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// MissingCallback is called when an audio file disappears from the
// repository behind the application's back. path is the absolute path of
// the removed file.
type MissingCallback func(path string)

// Watch starts an fsnotify watcher on the repository root and reports
// externally removed audio files until ctx is cancelled. It never mutates
// the association index: playback already degrades gracefully when a blob
// is gone, so the watcher only logs and notifies.
func Watch(ctx context.Context, repo *Repo, logger *slog.Logger, cb MissingCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(repo.Root()); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", repo.Root()))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Warn("watcher: audio file removed externally",
				slog.String("path", ev.Name))
			if cb != nil {
				cb(ev.Name)
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", werr.Error()))
		}
	}
}
