// Package watcher turns changes of the spaces plist into notifications.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lucax88x/wentspaces/internal/state"
)

const (
	debounceDelay = 100 * time.Millisecond
	rearmAttempts = 20
	rearmDelay    = 50 * time.Millisecond
)

type Notifier interface {
	Notify(kind state.EventKind)
}

// SpacesWatcher watches the spaces plist. The window server replaces the
// file atomically, so the watch dies with the old file and is armed again on
// the new one after every remove or rename.
type SpacesWatcher struct {
	logger   *slog.Logger
	path     string
	notifier Notifier

	debounceMu sync.Mutex
	debounce   *time.Timer
}

func NewSpacesWatcher(logger *slog.Logger, path string, notifier Notifier) *SpacesWatcher {
	return &SpacesWatcher{
		logger:   logger,
		path:     filepath.Clean(path),
		notifier: notifier,
	}
}

// Start blocks until ctx is done. A watch that cannot be opened is logged
// and skipped, the other change signals keep working.
func (w *SpacesWatcher) Start(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.ErrorContext(ctx, "watcher: recovered from panic", slog.Any("panic", r))
		}
	}()

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.ErrorContext(ctx, "watcher: could not create watcher, skipping", slog.Any("error", err))
		return
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(w.path); err != nil {
		w.logger.WarnContext(ctx, "watcher: could not watch file, skipping", slog.String("path", w.path), slog.Any("error", err))
		return
	}

	w.logger.InfoContext(ctx, "watcher: watching", slog.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			w.stopDebounce()
			return
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, fsWatcher, event)
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.WarnContext(ctx, "watcher: error", slog.Any("error", err))
		}
	}
}

func (w *SpacesWatcher) handleEvent(ctx context.Context, fsWatcher *fsnotify.Watcher, event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	w.logger.DebugContext(ctx, "watcher: fsnotify", slog.String("op", event.Op.String()))

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.changed()

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		w.rearm(ctx, fsWatcher)
	}
}

func (w *SpacesWatcher) rearm(ctx context.Context, fsWatcher *fsnotify.Watcher) {
	_ = fsWatcher.Remove(w.path)

	for range rearmAttempts {
		if err := fsWatcher.Add(w.path); err == nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(rearmDelay):
		}
	}

	w.logger.WarnContext(ctx, "watcher: could not re-arm watch", slog.String("path", w.path))
}

// changed coalesces a burst of events into one notification.
func (w *SpacesWatcher) changed() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}

	w.debounce = time.AfterFunc(debounceDelay, func() {
		w.notifier.Notify(state.SpaceChange)
	})
}

func (w *SpacesWatcher) stopDebounce() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
}
