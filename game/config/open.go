package config

import (
	"fmt"
	"log/slog"

	"github.com/wricardo/mcp-training/mazegame/game/settings"
	"github.com/wricardo/mcp-training/mazegame/game/store"
)

// OpenStore returns the level record store selected in settings
func OpenStore(s *settings.Settings, logger *slog.Logger) (store.RecordStore, error) {
	switch s.Store {
	case "badger":
		st, err := store.NewBadgerStore(store.BadgerConfig{
			Dir:    s.BadgerDir,
			Logger: logger.With("component", "badger"),
		})
		if err != nil {
			return nil, err
		}
		return st, nil
	case "file", "":
		st, err := store.NewFileStore(s.LevelsDir)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("%w: unknown store %q", settings.ErrInvalidSettings, s.Store)
	}
}

// Open builds a level manager over the store selected in settings
func Open(s *settings.Settings, logger *slog.Logger) (*Manager, error) {
	st, err := OpenStore(s, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open level store: %w", err)
	}

	m, err := NewManager(st, Options{
		DefaultLevel: s.DefaultLevel,
		DefaultShape: s.DefaultGrid,
		Logger:       logger.With("component", "levels"),
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	return m, nil
}
