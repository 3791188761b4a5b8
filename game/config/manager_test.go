package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/service"
	"github.com/wricardo/mcp-training/mazegame/game/store"
)

var testShape = engine.DefaultShape{Rows: 3, Cols: 4}

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()

	dir, err := os.MkdirTemp("", "level-manager-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	st, err := store.NewFileStore(dir)
	require.NoError(t, err)

	m, err := NewManager(st, Options{
		DefaultLevel: "config",
		DefaultShape: testShape,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return m, dir
}

func writeLevelFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0644))
}

func TestNewManager(t *testing.T) {
	t.Run("requires a store", func(t *testing.T) {
		_, err := NewManager(nil, Options{})
		assert.Error(t, err)
	})

	t.Run("rejects invalid default level name", func(t *testing.T) {
		st, err := store.NewFileStore(t.TempDir())
		require.NoError(t, err)
		_, err = NewManager(st, Options{DefaultLevel: "../x"})
		assert.True(t, errors.Is(err, ErrInvalidLevel))
	})

	t.Run("fills defaults", func(t *testing.T) {
		st, err := store.NewFileStore(t.TempDir())
		require.NoError(t, err)
		m, err := NewManager(st, Options{})
		require.NoError(t, err)
		assert.Equal(t, "config", m.Default())
		assert.Equal(t, engine.DefaultShape{Rows: engine.DefaultGridRows, Cols: engine.DefaultGridCols}, m.DefaultShape())
	})
}

func TestLoadLevel(t *testing.T) {
	m, dir := newTestManager(t)

	writeLevelFile(t, dir, "valid", `{"PB": 12, "Maze": [[0,1],[1,0]]}`)
	writeLevelFile(t, dir, "broken", `{"PB": "slow", "Maze": [[0,0]]}`)
	writeLevelFile(t, dir, "garbage", `not json at all`)

	tests := []struct {
		name     string
		level    string
		wantPB   int
		wantMaze [][]engine.Cell
	}{
		{"valid level", "valid", 12, [][]engine.Cell{{0, 1}, {1, 0}}},
		{"missing level uses default record", "missing", 0, engine.NewWallGrid(3, 4)},
		{"empty name loads the default level", "", 0, engine.NewWallGrid(3, 4)},
		{"malformed field recovered", "broken", 0, [][]engine.Cell{{0, 0}}},
		{"unparseable file recovered", "garbage", 0, engine.NewWallGrid(3, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := m.LoadLevel(tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPB, rec.PB)
			assert.Equal(t, tt.wantMaze, rec.Maze)
		})
	}
}

func TestLoadLevelInvalidName(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.LoadLevel("../etc/passwd")
	assert.True(t, errors.Is(err, ErrInvalidLevel))
}

func TestLoadLevelReturnsCopies(t *testing.T) {
	m, dir := newTestManager(t)
	writeLevelFile(t, dir, "valid", `{"PB": 1, "Maze": [[0]]}`)

	rec, err := m.LoadLevel("valid")
	require.NoError(t, err)
	rec.Maze[0][0] = engine.Wall
	rec.PB = 99

	again, err := m.LoadLevel("valid")
	require.NoError(t, err)
	assert.Equal(t, 1, again.PB)
	assert.Equal(t, engine.Path, again.Maze[0][0])
}

func TestGetLevel(t *testing.T) {
	m, dir := newTestManager(t)
	writeLevelFile(t, dir, "valid", `{"PB": 1, "Maze": [[0]]}`)

	rec, err := m.GetLevel("valid")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.PB)

	_, err = m.GetLevel("missing")
	assert.True(t, errors.Is(err, ErrLevelNotFound))

	_, err = m.GetLevel("a/b")
	assert.True(t, errors.Is(err, ErrInvalidLevel))
}

func TestSaveLevel(t *testing.T) {
	m, dir := newTestManager(t)

	rec := &engine.Record{PB: 7, Maze: [][]engine.Cell{{1, 0}, {0, 1}}}
	require.NoError(t, m.SaveLevel("saved", rec))

	data, err := os.ReadFile(filepath.Join(dir, "saved.json"))
	require.NoError(t, err)
	decoded, err := engine.DecodeRecord(data, testShape)
	require.NoError(t, err)
	assert.Equal(t, *rec, decoded)

	loaded, err := m.LoadLevel("saved")
	require.NoError(t, err)
	assert.Equal(t, rec, loaded)
}

func TestSaveLevelValidation(t *testing.T) {
	m, _ := newTestManager(t)

	tests := []struct {
		name  string
		level string
		rec   *engine.Record
	}{
		{"nil record", "x", nil},
		{"negative PB", "x", &engine.Record{PB: -1}},
		{"bad cell", "x", &engine.Record{Maze: [][]engine.Cell{{5}}}},
		{"bad name", "", &engine.Record{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.SaveLevel(tt.level, tt.rec)
			assert.True(t, errors.Is(err, ErrInvalidLevel), "got %v", err)
		})
	}
}

func TestDeleteLevel(t *testing.T) {
	m, dir := newTestManager(t)
	writeLevelFile(t, dir, "gone", `{"PB": 4, "Maze": [[0]]}`)

	_, err := m.LoadLevel("gone")
	require.NoError(t, err)

	require.NoError(t, m.DeleteLevel("gone"))
	err = m.DeleteLevel("gone")
	assert.True(t, errors.Is(err, ErrLevelNotFound))

	rec, err := m.LoadLevel("gone")
	require.NoError(t, err)
	assert.Equal(t, 0, rec.PB, "deleted level falls back to the default record")
}

func TestListLevels(t *testing.T) {
	m, dir := newTestManager(t)
	writeLevelFile(t, dir, "alpha", `{"PB": 5, "Maze": [[0,1,1],[0]]}`)
	writeLevelFile(t, dir, "broken", `{"PB": -2, "Maze": [[0]]}`)

	levels, err := m.ListLevels()
	require.NoError(t, err)
	require.Len(t, levels, 3)

	byName := map[string]*service.LevelInfo{}
	for _, l := range levels {
		byName[l.Name] = l
	}

	def := byName["config"]
	require.NotNil(t, def)
	assert.True(t, def.IsDefault)
	assert.Equal(t, 3, def.Rows)
	assert.Equal(t, 4, def.Cols)
	assert.Equal(t, 12, def.Walls)

	alpha := byName["alpha"]
	require.NotNil(t, alpha)
	assert.Equal(t, 5, alpha.PersonalBest)
	assert.Equal(t, 2, alpha.Rows)
	assert.Equal(t, 3, alpha.Cols)
	assert.Equal(t, 2, alpha.Walls)
	assert.False(t, alpha.Recovered)

	broken := byName["broken"]
	require.NotNil(t, broken)
	assert.True(t, broken.Recovered)
	assert.Equal(t, 0, broken.PersonalBest)
}

func TestConcurrentLoads(t *testing.T) {
	m, dir := newTestManager(t)
	writeLevelFile(t, dir, "shared", `{"PB": 3, "Maze": [[0]]}`)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := m.LoadLevel("shared")
			assert.NoError(t, err)
			assert.Equal(t, 3, rec.PB)
		}()
	}
	wg.Wait()
}

func TestWatchInvalidatesCache(t *testing.T) {
	m, dir := newTestManager(t)
	writeLevelFile(t, dir, "live", `{"PB": 1, "Maze": [[0]]}`)

	rec, err := m.LoadLevel("live")
	require.NoError(t, err)
	require.Equal(t, 1, rec.PB)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()

	assert.Eventually(t, func() bool {
		if err := os.WriteFile(filepath.Join(dir, "live.json"), []byte(`{"PB": 8, "Maze": [[0]]}`), 0644); err != nil {
			return false
		}
		rec, err := m.LoadLevel("live")
		return err == nil && rec.PB == 8
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchSkipsNonFileStores(t *testing.T) {
	st, err := store.NewBadgerStore(store.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	m, err := NewManager(st, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	defer m.Close()

	assert.NoError(t, m.Watch(context.Background()))
}
