package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// watchableStore is implemented by stores backed by a directory of files
type watchableStore interface {
	Dir() string
	NameFromPath(path string) (string, bool)
}

// Watch invalidates cached levels when their files change on disk. It blocks
// until ctx is done. Stores that are not file-backed return immediately.
func (m *Manager) Watch(ctx context.Context) error {
	ws, ok := m.store.(watchableStore)
	if !ok {
		m.logger.Debug("level store is not file-backed, skipping watch")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create level watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(ws.Dir()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", ws.Dir(), err)
	}
	m.logger.Info("watching level directory", "dir", ws.Dir())

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			m.handleWatchEvent(ws, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn("level watcher error", "error", err)
		}
	}
}

// handleWatchEvent drops the cache entry for a changed level file
func (m *Manager) handleWatchEvent(ws watchableStore, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	name, ok := ws.NameFromPath(event.Name)
	if !ok {
		return
	}

	m.Invalidate(name)
	m.logger.Debug("level changed on disk", "level", name, "op", event.Op.String())
}
