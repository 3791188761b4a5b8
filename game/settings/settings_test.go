package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())

	rules := s.Rules()
	assert.Equal(t, 50, rules.MaxSize)
	assert.Equal(t, 20, rules.CellSize)
	assert.Equal(t, engine.Position{Row: 1, Col: 1}, rules.Start)
	assert.Equal(t, engine.Position{Row: 11, Col: 18}, rules.Finish)
	assert.True(t, rules.EditorEnabled)
	assert.Equal(t, time.Second/30, s.FrameInterval())
}

func TestLoadYAML(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "settings_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "maze.yaml")
	content := `
max_maze_size: 30
cell_size: 16
default_grid:
  rows: 10
  cols: 12
finish:
  row: 20
  col: 5
move_delay: 150ms
editor_enabled: false
store: badger
badger_dir: data/levels
log_format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, s.MaxMazeSize)
	assert.Equal(t, 16, s.CellSize)
	assert.Equal(t, engine.DefaultShape{Rows: 10, Cols: 12}, s.DefaultGrid)
	assert.Equal(t, engine.Position{Row: 1, Col: 1}, s.Start)
	assert.Equal(t, engine.Position{Row: 20, Col: 5}, s.Finish)
	assert.Equal(t, 150*time.Millisecond, s.MoveDelay)
	assert.Equal(t, 100*time.Millisecond, s.ToggleDelay)
	assert.False(t, s.EditorEnabled)
	assert.Equal(t, "badger", s.Store)
	assert.Equal(t, "data/levels", s.BadgerDir)
	assert.Equal(t, "json", s.LogFormat)
}

func TestLoadErrors(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "settings_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	_, err = Load(filepath.Join(tempDir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(tempDir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("max_maze_size: [1, 2"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)

	outOfRange := filepath.Join(tempDir, "range.yaml")
	require.NoError(t, os.WriteFile(outOfRange, []byte("max_maze_size: 10\n"), 0644))
	_, err = Load(outOfRange)
	assert.True(t, errors.Is(err, ErrInvalidSettings), "finish (11,18) should not fit a 10x10 maze: %v", err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero max size", func(s *Settings) { s.MaxMazeSize = 0 }},
		{"max size too large", func(s *Settings) { s.MaxMazeSize = 500 }},
		{"zero cell size", func(s *Settings) { s.CellSize = 0 }},
		{"zero grid rows", func(s *Settings) { s.DefaultGrid.Rows = 0 }},
		{"negative move delay", func(s *Settings) { s.MoveDelay = -time.Second }},
		{"unknown store", func(s *Settings) { s.Store = "redis" }},
		{"badger without dir", func(s *Settings) { s.Store = "badger"; s.BadgerDir = "" }},
		{"unknown log level", func(s *Settings) { s.LogLevel = "trace" }},
		{"unknown log format", func(s *Settings) { s.LogFormat = "xml" }},
		{"empty levels dir", func(s *Settings) { s.LevelsDir = "" }},
		{"negative start", func(s *Settings) { s.Start = engine.Position{Row: -1, Col: 0} }},
		{"finish past edge", func(s *Settings) { s.Finish = engine.Position{Row: 0, Col: 50} }},
		{"zero tps", func(s *Settings) { s.TPS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			err := s.Validate()
			assert.True(t, errors.Is(err, ErrInvalidSettings), "got %v", err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	s := Default()
	err := s.ApplyEnv(envMap(map[string]string{
		"MAZE_LEVELS_DIR":     "/tmp/levels",
		"MAZE_STORE":          "BADGER",
		"MAZE_LOG_LEVEL":      "Debug",
		"MAZE_EDITOR_ENABLED": "false",
		"MAZE_MAX_SIZE":       "64",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/levels", s.LevelsDir)
	assert.Equal(t, "badger", s.Store)
	assert.Equal(t, "debug", s.LogLevel)
	assert.False(t, s.EditorEnabled)
	assert.Equal(t, 64, s.MaxMazeSize)

	unchanged := Default()
	require.NoError(t, unchanged.ApplyEnv(noEnv))
	assert.Equal(t, Default(), unchanged)
}

func TestApplyEnvInvalid(t *testing.T) {
	s := Default()
	err := s.ApplyEnv(envMap(map[string]string{"MAZE_EDITOR_ENABLED": "sometimes"}))
	assert.True(t, errors.Is(err, ErrInvalidSettings))

	err = s.ApplyEnv(envMap(map[string]string{"MAZE_MAX_SIZE": "big"}))
	assert.True(t, errors.Is(err, ErrInvalidSettings))
}

func TestLoadDotEnv(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "settings_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	assert.NoError(t, LoadDotEnv(filepath.Join(tempDir, "absent.env")))

	envFile := filepath.Join(tempDir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("MAZE_SETTINGS_TEST_VAR=from-dotenv\n"), 0644))
	t.Setenv("MAZE_SETTINGS_TEST_VAR", "")
	os.Unsetenv("MAZE_SETTINGS_TEST_VAR")

	require.NoError(t, LoadDotEnv(envFile))
	assert.Equal(t, "from-dotenv", os.Getenv("MAZE_SETTINGS_TEST_VAR"))
}
