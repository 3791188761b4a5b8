package config

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/settings"
	"github.com/wricardo/mcp-training/mazegame/game/store"
)

func TestOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("file store", func(t *testing.T) {
		s := settings.Default()
		s.LevelsDir = filepath.Join(t.TempDir(), "levels")

		m, err := Open(s, logger)
		require.NoError(t, err)
		defer m.Close()

		_, ok := m.store.(*store.FileStore)
		assert.True(t, ok)
		assert.Equal(t, "config", m.Default())
		assert.Equal(t, s.DefaultGrid, m.DefaultShape())
	})

	t.Run("badger store", func(t *testing.T) {
		s := settings.Default()
		s.Store = "badger"
		s.BadgerDir = filepath.Join(t.TempDir(), "levels.db")

		m, err := Open(s, logger)
		require.NoError(t, err)
		defer m.Close()

		rec := &engine.Record{PB: 4, Maze: [][]engine.Cell{{0}}}
		require.NoError(t, m.SaveLevel("config", rec))
		got, err := m.GetLevel("config")
		require.NoError(t, err)
		assert.Equal(t, 4, got.PB)
	})

	t.Run("unknown store", func(t *testing.T) {
		s := settings.Default()
		s.Store = "s3"

		_, err := Open(s, logger)
		assert.True(t, errors.Is(err, settings.ErrInvalidSettings))
	})
}
