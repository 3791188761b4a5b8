package engine

import (
	"fmt"
	"time"
)

// View is a read-only snapshot of a session for presentation layers
type View struct {
	Grid           [][]Cell `json:"grid"`
	Size           int      `json:"size"`
	CellSize       int      `json:"cell_size"`
	Player         Position `json:"player"`
	Finish         Position `json:"finish"`
	Mode           Mode     `json:"mode"`
	EditorMode     bool     `json:"editor_mode"`
	EditorEnabled  bool     `json:"editor_enabled"`
	ElapsedMS      int64    `json:"elapsed_ms"`
	ElapsedSeconds int      `json:"elapsed_seconds"`
	PersonalBest   int      `json:"personal_best"`
	AheadOfBest    bool     `json:"ahead_of_best"`
	Won            bool     `json:"won"`
	WinSeconds     int      `json:"win_seconds,omitempty"`
	Finalized      bool     `json:"finalized"`
	PossibleMoves  []string `json:"possible_moves"`
}

// Elapsed returns the run time carried by the view
func (v View) Elapsed() time.Duration {
	return time.Duration(v.ElapsedMS) * time.Millisecond
}

// TimerText formats the elapsed time for the HUD
func (v View) TimerText() string {
	return fmt.Sprintf("Time: %.3fs", v.Elapsed().Seconds())
}

// BestText formats the personal best for the HUD
func (v View) BestText() string {
	if v.PersonalBest == 0 {
		return "Best: --"
	}
	return fmt.Sprintf("Best: %ds", v.PersonalBest)
}
