// Package settings loads the server and frontend configuration from a YAML
// file, the environment and an optional .env file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/service"
)

var ErrInvalidSettings = errors.New("invalid settings")

var settingsValidate *validator.Validate

func init() {
	settingsValidate = validator.New()
}

// Settings holds every tunable of the game
type Settings struct {
	MaxMazeSize   int                 `yaml:"max_maze_size" validate:"min=1,max=200"`
	CellSize      int                 `yaml:"cell_size" validate:"min=1,max=200"`
	DefaultGrid   engine.DefaultShape `yaml:"default_grid"`
	Start         engine.Position     `yaml:"start"`
	Finish        engine.Position     `yaml:"finish"`
	MoveDelay     time.Duration       `yaml:"move_delay" validate:"min=0"`
	ToggleDelay   time.Duration       `yaml:"toggle_delay" validate:"min=0"`
	EditorEnabled bool                `yaml:"editor_enabled"`
	LevelsDir     string              `yaml:"levels_dir" validate:"required"`
	DefaultLevel  string              `yaml:"default_level" validate:"required"`
	Store         string              `yaml:"store" validate:"oneof=file badger"`
	BadgerDir     string              `yaml:"badger_dir" validate:"required_if=Store badger"`
	SessionMaxAge time.Duration       `yaml:"session_max_age" validate:"min=0"`
	TPS           int                 `yaml:"tps" validate:"min=1,max=240"`
	WinDisplay    time.Duration       `yaml:"win_display" validate:"min=0"`
	LogLevel      string              `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat     string              `yaml:"log_format" validate:"oneof=text json"`
}

// Default returns the settings of the classic desktop game
func Default() *Settings {
	return &Settings{
		MaxMazeSize:   engine.DefaultMaxMazeSize,
		CellSize:      engine.DefaultCellSize,
		DefaultGrid:   engine.DefaultShape{Rows: engine.DefaultGridRows, Cols: engine.DefaultGridCols},
		Start:         engine.Position{Row: 1, Col: 1},
		Finish:        engine.Position{Row: 11, Col: 18},
		MoveDelay:     200 * time.Millisecond,
		ToggleDelay:   100 * time.Millisecond,
		EditorEnabled: true,
		LevelsDir:     "levels",
		DefaultLevel:  "config",
		Store:         "file",
		BadgerDir:     "levels.db",
		SessionMaxAge: 24 * time.Hour,
		TPS:           30,
		WinDisplay:    2 * time.Second,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load reads settings from path on top of the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	}

	if err := s.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadDotEnv loads a .env file into the process environment when one exists.
// Variables that are already set win.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	var existing []string
	for _, name := range filenames {
		if _, err := os.Stat(name); err == nil {
			existing = append(existing, name)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides fields from MAZE_* environment variables
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("MAZE_LEVELS_DIR"); ok && v != "" {
		s.LevelsDir = v
	}
	if v, ok := lookup("MAZE_STORE"); ok && v != "" {
		s.Store = strings.ToLower(v)
	}
	if v, ok := lookup("MAZE_BADGER_DIR"); ok && v != "" {
		s.BadgerDir = v
	}
	if v, ok := lookup("MAZE_LOG_LEVEL"); ok && v != "" {
		s.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup("MAZE_LOG_FORMAT"); ok && v != "" {
		s.LogFormat = strings.ToLower(v)
	}
	if v, ok := lookup("MAZE_EDITOR_ENABLED"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: MAZE_EDITOR_ENABLED=%q is not a boolean", ErrInvalidSettings, v)
		}
		s.EditorEnabled = enabled
	}
	if v, ok := lookup("MAZE_MAX_SIZE"); ok && v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: MAZE_MAX_SIZE=%q is not an integer", ErrInvalidSettings, v)
		}
		s.MaxMazeSize = size
	}
	return nil
}

// Validate checks field ranges and that start and finish lie inside the maze
func (s *Settings) Validate() error {
	if err := settingsValidate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	for name, p := range map[string]engine.Position{"start": s.Start, "finish": s.Finish} {
		if p.Row < 0 || p.Col < 0 || p.Row >= s.MaxMazeSize || p.Col >= s.MaxMazeSize {
			return fmt.Errorf("%w: %s (%d,%d) is outside a %dx%d maze",
				ErrInvalidSettings, name, p.Row, p.Col, s.MaxMazeSize, s.MaxMazeSize)
		}
	}
	return nil
}

// Rules converts the gameplay fields for the game service
func (s *Settings) Rules() service.Rules {
	return service.Rules{
		MaxSize:       s.MaxMazeSize,
		CellSize:      s.CellSize,
		Start:         s.Start,
		Finish:        s.Finish,
		EditorEnabled: s.EditorEnabled,
	}
}

// FrameInterval is the duration of one frame at TPS
func (s *Settings) FrameInterval() time.Duration {
	return time.Second / time.Duration(s.TPS)
}
