package engine

import "time"

// Options configures a new SessionState
type Options struct {
	Grid          [][]Cell
	MaxSize       int
	CellSize      int
	Start         Position
	Finish        Position
	EditorEnabled bool
	PersonalBest  int
	Now           time.Time
}

// Input is everything the presentation layer observed during one frame.
// A zero Move means no movement; Toggle is nil when nothing was clicked.
type Input struct {
	SwitchMode bool
	ResetBest  bool
	Move       Delta
	Toggle     *Pixel
}

// SessionState is the state of one play session. It is not safe for
// concurrent use; callers serialize access.
type SessionState struct {
	grid          *Grid
	cellSize      int
	player        Position
	finish        Position
	editing       bool
	editorEnabled bool
	run           *RunRecord
}

// NewSessionState builds a session from opts. The grid is normalized to
// MaxSize and the win condition is checked once, so a finish placed on the
// start cell is won immediately.
func NewSessionState(opts Options) *SessionState {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxMazeSize
	}
	if opts.CellSize <= 0 {
		opts.CellSize = DefaultCellSize
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	s := &SessionState{
		grid:          NewGrid(opts.Grid, opts.MaxSize),
		cellSize:      opts.CellSize,
		player:        opts.Start,
		finish:        opts.Finish,
		editorEnabled: opts.EditorEnabled,
		run:           NewRunRecord(opts.Now, opts.PersonalBest),
	}
	s.checkWin(opts.Now)
	return s
}

// Mode returns the current state machine state
func (s *SessionState) Mode() Mode {
	switch {
	case s.run.Won():
		return Won
	case s.editing:
		return Editing
	default:
		return Playing
	}
}

// SwitchMode flips between playing and editing. It reports whether the mode
// changed; it never does when the editor is disabled or the run is won.
func (s *SessionState) SwitchMode() bool {
	if !s.editorEnabled || s.run.Won() {
		return false
	}
	s.editing = !s.editing
	return true
}

// ResetBest clears the personal best. Grid, position and mode are untouched.
func (s *SessionState) ResetBest() {
	if s.run.Finalized() {
		return
	}
	s.run.ResetBest()
}

// Move tries to step the player by d and checks for a win. It reports whether
// the player moved.
func (s *SessionState) Move(d Delta, now time.Time) bool {
	if s.Mode() != Playing {
		return false
	}

	next := TryMove(s.grid, s.player, d)
	if next == s.player {
		return false
	}
	s.player = next
	s.checkWin(now)
	return true
}

// ToggleWall flips the cell under px while editing
func (s *SessionState) ToggleWall(px Pixel) (Position, bool) {
	if s.Mode() != Editing {
		return Position{}, false
	}
	return ToggleAt(s.grid, px, s.cellSize)
}

// ToggleCell flips the cell at pos while editing
func (s *SessionState) ToggleCell(pos Position) (Position, bool) {
	if pos.Row < 0 || pos.Col < 0 {
		return Position{}, false
	}
	return s.ToggleWall(Pixel{X: pos.Col * s.cellSize, Y: pos.Row * s.cellSize})
}

// Tick applies one frame of input in a fixed order: mode switch, reset,
// movement, wall toggle, win check. It returns the resulting view.
func (s *SessionState) Tick(now time.Time, in Input) View {
	if in.SwitchMode {
		s.SwitchMode()
	}
	if in.ResetBest {
		s.ResetBest()
	}
	if !in.Move.IsZero() {
		s.Move(in.Move, now)
	}
	if in.Toggle != nil {
		s.ToggleWall(*in.Toggle)
	}
	s.checkWin(now)
	return s.View(now)
}

// checkWin records the win the first time the player stands on the finish
func (s *SessionState) checkWin(now time.Time) {
	if s.player == s.finish {
		if s.run.RecordWin(now) {
			s.editing = false
		}
	}
}

// Finalize folds the run into the personal best. Safe to call more than once.
func (s *SessionState) Finalize() (int, bool) {
	return s.run.Finalize()
}

// Finalized reports whether the session has been finalized
func (s *SessionState) Finalized() bool {
	return s.run.Finalized()
}

// Record returns the persisted form of the session
func (s *SessionState) Record() Record {
	return Record{PB: s.run.PersonalBest, Maze: s.grid.Rows()}
}

// Player returns the player position
func (s *SessionState) Player() Position {
	return s.player
}

// Finish returns the finish position
func (s *SessionState) Finish() Position {
	return s.finish
}

// Grid returns a copy of the grid contents
func (s *SessionState) Grid() [][]Cell {
	return s.grid.Rows()
}

// Run returns a copy of the run record
func (s *SessionState) Run() RunRecord {
	return *s.run
}

// View builds a read-only snapshot as of now
func (s *SessionState) View(now time.Time) View {
	elapsed := s.run.ElapsedAt(now)
	winSeconds, won := s.run.WinSeconds()

	possible := PossibleMoves(s.grid, s.player)
	if possible == nil {
		possible = []string{}
	}

	return View{
		Grid:           s.grid.Rows(),
		Size:           s.grid.Size(),
		CellSize:       s.cellSize,
		Player:         s.player,
		Finish:         s.finish,
		Mode:           s.Mode(),
		EditorMode:     s.editing,
		EditorEnabled:  s.editorEnabled,
		ElapsedMS:      elapsed.Milliseconds(),
		ElapsedSeconds: wholeSeconds(elapsed),
		PersonalBest:   s.run.PersonalBest,
		AheadOfBest:    s.run.AheadOfBest(now),
		Won:            won,
		WinSeconds:     winSeconds,
		Finalized:      s.run.Finalized(),
		PossibleMoves:  possible,
	}
}
