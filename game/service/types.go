package service

import (
	"errors"
	"time"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionEnded     = errors.New("session has ended")
	ErrInvalidDirection = errors.New("invalid direction")
)

// Rules are the per-server gameplay settings applied to new sessions
type Rules struct {
	MaxSize       int             `json:"max_maze_size"`
	CellSize      int             `json:"cell_size"`
	Start         engine.Position `json:"start"`
	Finish        engine.Position `json:"finish"`
	EditorEnabled bool            `json:"editor_enabled"`
}

// DefaultRules returns the classic desktop game rules
func DefaultRules() Rules {
	return Rules{
		MaxSize:       engine.DefaultMaxMazeSize,
		CellSize:      engine.DefaultCellSize,
		Start:         engine.Position{Row: 1, Col: 1},
		Finish:        engine.Position{Row: 11, Col: 18},
		EditorEnabled: true,
	}
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string      `json:"id"`
	Level          string      `json:"level"`
	CreatedAt      time.Time   `json:"created_at"`
	LastAccessedAt time.Time   `json:"last_accessed_at"`
	State          engine.View `json:"state"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool            `json:"success"`
	Direction string          `json:"direction"`
	From      engine.Position `json:"from"`
	To        engine.Position `json:"to"`
	Won       bool            `json:"won"`
	NewBest   bool            `json:"new_best,omitempty"`
	Message   string          `json:"message"`
	State     engine.View     `json:"state"`
}

// ToggleResult contains the result of a wall toggle
type ToggleResult struct {
	Toggled bool             `json:"toggled"`
	Cell    *engine.Position `json:"cell,omitempty"`
	Value   engine.Cell      `json:"value"`
	Message string           `json:"message"`
	State   engine.View      `json:"state"`
}

// ModeResult contains the result of a mode switch
type ModeResult struct {
	Changed bool        `json:"changed"`
	Mode    engine.Mode `json:"mode"`
	Message string      `json:"message"`
	State   engine.View `json:"state"`
}

// TickInput is one frame of remote input applied in engine order
type TickInput struct {
	SwitchMode bool          `json:"switch_mode,omitempty"`
	ResetBest  bool          `json:"reset_best,omitempty"`
	Direction  string        `json:"direction,omitempty"`
	Toggle     *engine.Pixel `json:"toggle,omitempty"`
}

// LevelInfo summarizes a stored level
type LevelInfo struct {
	Name         string `json:"name"`
	Rows         int    `json:"rows"`
	Cols         int    `json:"cols"`
	PersonalBest int    `json:"personal_best"`
	Walls        int    `json:"walls"`
	Recovered    bool   `json:"recovered"`
	IsDefault    bool   `json:"is_default"`
}
