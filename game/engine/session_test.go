package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(grid [][]Cell, start, finish Position, editor bool) *SessionState {
	return NewSessionState(Options{
		Grid:          grid,
		MaxSize:       len(grid),
		CellSize:      20,
		Start:         start,
		Finish:        finish,
		EditorEnabled: editor,
		Now:           epoch,
	})
}

func TestScenarioSingleMoveWins(t *testing.T) {
	s := newTestSession([][]Cell{{1, 1, 1}, {1, 0, 0}, {1, 1, 1}}, Position{1, 1}, Position{1, 2}, true)
	require.Equal(t, Playing, s.Mode())

	view := s.Tick(at(3*time.Second), Input{Move: Right})

	assert.Equal(t, Position{1, 2}, view.Player)
	assert.True(t, view.Won)
	assert.Equal(t, Won, view.Mode)
	assert.Equal(t, 3, view.WinSeconds)

	run := s.Run()
	require.NotNil(t, run.WinTime)
	assert.Equal(t, at(3*time.Second), *run.WinTime)
}

func TestScenarioEditingTogglesAndIgnoresMoves(t *testing.T) {
	s := newTestSession([][]Cell{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, Position{1, 1}, Position{0, 0}, true)

	view := s.Tick(at(time.Second), Input{SwitchMode: true})
	require.Equal(t, Editing, view.Mode)

	// pixel (45,45) at cell size 20 is cell (2,2)
	view = s.Tick(at(2*time.Second), Input{Toggle: &Pixel{X: 45, Y: 45}, Move: Left})

	assert.Equal(t, Wall, view.Grid[2][2])
	assert.Equal(t, Position{1, 1}, view.Player)
	assert.Equal(t, Editing, view.Mode)
}

func TestSwitchModeRequiresEditorEnabled(t *testing.T) {
	s := newTestSession([][]Cell{{0, 0}, {0, 0}}, Position{0, 0}, Position{1, 1}, false)

	assert.False(t, s.SwitchMode())
	assert.Equal(t, Playing, s.Mode())
}

func TestSwitchModeRoundTrip(t *testing.T) {
	s := newTestSession([][]Cell{{0, 0}, {0, 0}}, Position{0, 0}, Position{1, 1}, true)

	assert.True(t, s.SwitchMode())
	assert.Equal(t, Editing, s.Mode())
	assert.True(t, s.SwitchMode())
	assert.Equal(t, Playing, s.Mode())
}

func TestTogglesIgnoredWhilePlaying(t *testing.T) {
	grid := [][]Cell{{0, 0}, {0, 0}}
	s := newTestSession(grid, Position{0, 0}, Position{1, 1}, true)

	view := s.Tick(at(time.Second), Input{Toggle: &Pixel{X: 25, Y: 5}})
	assert.Equal(t, grid, view.Grid)
}

func TestWonIsTerminal(t *testing.T) {
	s := newTestSession([][]Cell{{0, 0, 0}, {1, 1, 0}, {0, 0, 0}}, Position{0, 0}, Position{0, 1}, true)

	s.Tick(at(time.Second), Input{Move: Right})
	require.Equal(t, Won, s.Mode())

	view := s.Tick(at(2*time.Second), Input{Move: Right})
	assert.Equal(t, Position{0, 1}, view.Player, "no movement after a win")

	assert.False(t, s.SwitchMode())
	_, ok := s.ToggleCell(Position{2, 2})
	assert.False(t, ok)
	assert.Equal(t, Won, s.Mode())
	assert.Equal(t, 1, view.WinSeconds)
}

func TestResetBestKeepsGridPositionAndMode(t *testing.T) {
	grid := [][]Cell{{0, 0}, {0, 0}}
	s := NewSessionState(Options{
		Grid:          grid,
		MaxSize:       2,
		CellSize:      20,
		Start:         Position{0, 0},
		Finish:        Position{1, 1},
		EditorEnabled: true,
		PersonalBest:  30,
		Now:           epoch,
	})
	s.Tick(at(time.Second), Input{Move: Right})
	s.SwitchMode()

	view := s.Tick(at(2*time.Second), Input{ResetBest: true})

	assert.Equal(t, 0, view.PersonalBest)
	assert.Equal(t, Position{0, 1}, view.Player)
	assert.Equal(t, Editing, view.Mode)
	assert.Equal(t, grid, view.Grid)
}

func TestTickAppliesSwitchBeforeMove(t *testing.T) {
	s := newTestSession([][]Cell{{0, 0}, {0, 0}}, Position{0, 0}, Position{1, 1}, true)

	view := s.Tick(at(time.Second), Input{SwitchMode: true, Move: Right})
	assert.Equal(t, Position{0, 0}, view.Player, "switching into the editor drops the move")
	assert.Equal(t, Editing, view.Mode)
}

func TestFinishOnStartWinsImmediately(t *testing.T) {
	s := newTestSession([][]Cell{{0}}, Position{0, 0}, Position{0, 0}, true)
	assert.Equal(t, Won, s.Mode())

	best, won := s.Finalize()
	assert.True(t, won)
	assert.Equal(t, 0, best)
}

func TestFinalizeUpdatesRecord(t *testing.T) {
	s := NewSessionState(Options{
		Grid:         [][]Cell{{0, 0}},
		MaxSize:      2,
		Start:        Position{0, 0},
		Finish:       Position{0, 1},
		PersonalBest: 30,
		Now:          epoch,
	})
	s.Tick(at(25*time.Second+400*time.Millisecond), Input{Move: Right})

	best, won := s.Finalize()
	assert.True(t, won)
	assert.Equal(t, 25, best)

	rec := s.Record()
	assert.Equal(t, 25, rec.PB)
	assert.Equal(t, [][]Cell{{0, 0}, {1, 1}}, rec.Maze)
	assert.True(t, s.Finalized())

	s.ResetBest()
	assert.Equal(t, 25, s.Record().PB, "reset is ignored once finalized")
}

func TestViewTimer(t *testing.T) {
	s := NewSessionState(Options{
		Grid:         [][]Cell{{0, 0}},
		MaxSize:      2,
		Start:        Position{0, 0},
		Finish:       Position{0, 1},
		PersonalBest: 10,
		Now:          epoch,
	})

	view := s.View(at(12*time.Second + 340*time.Millisecond))
	assert.Equal(t, int64(12340), view.ElapsedMS)
	assert.Equal(t, 12, view.ElapsedSeconds)
	assert.False(t, view.AheadOfBest)
	assert.Equal(t, "Time: 12.340s", view.TimerText())
	assert.Equal(t, "Best: 10s", view.BestText())
	assert.Equal(t, []string{"right"}, view.PossibleMoves)
	assert.Equal(t, DefaultCellSize, view.CellSize)
}

func TestNewSessionStateDefaults(t *testing.T) {
	s := NewSessionState(Options{Start: Position{1, 1}, Finish: Position{11, 18}})
	view := s.View(time.Now())

	assert.Equal(t, DefaultMaxMazeSize, view.Size)
	assert.Len(t, view.Grid, DefaultMaxMazeSize)
	assert.Equal(t, DefaultCellSize, view.CellSize)
}
