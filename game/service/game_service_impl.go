package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	rules    Rules
	logger   *slog.Logger
	metrics  *Metrics
	now      func() time.Time
	mu       sync.RWMutex
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *gameServiceImpl) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collectors
func WithMetrics(metrics *Metrics) Option {
	return func(s *gameServiceImpl) {
		s.metrics = metrics
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *gameServiceImpl) {
		s.now = now
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager, rules Rules, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
		rules:    rules,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(prometheus.NewRegistry())
	}
	s.metrics.trackSessions(sessions.Count)
	return s
}

// CreateSession creates a new game session on a level
func (s *gameServiceImpl) CreateSession(ctx context.Context, level string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if level == "" {
		level = s.levels.Default()
	}

	rec, err := s.levels.LoadLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to load level %s: %w", level, err)
	}

	now := s.now()
	state := engine.NewSessionState(engine.Options{
		Grid:          rec.Maze,
		MaxSize:       s.rules.MaxSize,
		CellSize:      s.rules.CellSize,
		Start:         s.rules.Start,
		Finish:        s.rules.Finish,
		EditorEnabled: s.rules.EditorEnabled,
		PersonalBest:  rec.PB,
		Now:           now,
	})

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", level, state)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.metrics.sessionsCreated.Inc()
	s.logger.Info("[CREATE]", "session", sess.ID, "level", level, "pb", rec.PB)

	// A finish placed on the start cell is won before the first move
	if sess.View(now).Won {
		s.finish(sess, engine.View{PersonalBest: rec.PB})
	}

	return s.info(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.info(sess), nil
}

// ListSessions returns all active sessions, most recently used first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.info(sess))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].LastAccessedAt.Equal(result[j].LastAccessedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].LastAccessedAt.After(result[j].LastAccessedAt)
	})
	return result, nil
}

// EndSession finalizes a session, persists its level and removes it
func (s *gameServiceImpl) EndSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.Finish(sessionID); err != nil {
		s.logger.Error("failed to persist ended session", "session", sessionID, "error", err)
	}

	info := s.info(sess)
	if err := s.sessions.Delete(sessionID); err != nil {
		return nil, fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Info("[END]", "session", sessionID, "level", sess.Level, "won", info.State.Won, "pb", info.State.PersonalBest)
	return info, nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string) (*MoveResult, error) {
	delta, ok := engine.ParseDirection(direction)
	if !ok {
		return nil, fmt.Errorf("%w: %q (use up, down, left or right)", ErrInvalidDirection, direction)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var moved bool
	res, err := s.apply(sessionID, func(state *engine.SessionState, now time.Time) {
		moved = state.Move(delta, now)
	})
	if err != nil {
		return nil, err
	}

	result := &MoveResult{
		Success:   moved,
		Direction: delta.String(),
		From:      res.before.Player,
		To:        res.after.Player,
		Won:       res.after.Won,
		NewBest:   res.newBest,
		State:     res.after,
	}

	switch {
	case res.finished:
		result.Message = fmt.Sprintf("You Win! Finished in %ds", res.after.WinSeconds)
		if res.newBest {
			result.Message += ", a new personal best"
		}
	case moved:
		result.Message = fmt.Sprintf("Moved %s", delta)
	case res.before.Mode == engine.Editing:
		result.Message = "Movement is disabled in editor mode"
	default:
		result.Message = "Blocked by a wall or the edge of the maze"
	}

	switch {
	case moved:
		s.metrics.moves.WithLabelValues("accepted").Inc()
	case res.before.Mode == engine.Editing:
		s.metrics.moves.WithLabelValues("ignored").Inc()
	default:
		s.metrics.moves.WithLabelValues("blocked").Inc()
	}

	s.logger.Info("[MOVE]", "session", sessionID, "direction", delta.String(), "success", moved,
		"row", result.To.Row, "col", result.To.Col, "won", result.Won)
	return result, nil
}

// ToggleWall flips the wall under a pixel coordinate while editing
func (s *gameServiceImpl) ToggleWall(ctx context.Context, sessionID string, px engine.Pixel) (*ToggleResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.toggle(sessionID, func(state *engine.SessionState) (engine.Position, bool) {
		return state.ToggleWall(px)
	})
}

// ToggleCell flips the wall at a grid cell while editing
func (s *gameServiceImpl) ToggleCell(ctx context.Context, sessionID string, cell engine.Position) (*ToggleResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.toggle(sessionID, func(state *engine.SessionState) (engine.Position, bool) {
		return state.ToggleCell(cell)
	})
}

func (s *gameServiceImpl) toggle(sessionID string, fn func(state *engine.SessionState) (engine.Position, bool)) (*ToggleResult, error) {
	var (
		cell    engine.Position
		toggled bool
	)
	res, err := s.apply(sessionID, func(state *engine.SessionState, now time.Time) {
		cell, toggled = fn(state)
	})
	if err != nil {
		return nil, err
	}

	result := &ToggleResult{Toggled: toggled, State: res.after}
	switch {
	case toggled:
		result.Cell = &cell
		result.Value = res.after.Grid[cell.Row][cell.Col]
		if result.Value == engine.Wall {
			result.Message = fmt.Sprintf("Placed wall at (%d,%d)", cell.Row, cell.Col)
		} else {
			result.Message = fmt.Sprintf("Cleared wall at (%d,%d)", cell.Row, cell.Col)
		}
		s.metrics.toggles.WithLabelValues("toggled").Inc()
	case res.before.Mode != engine.Editing:
		result.Message = "Wall toggles only work in editor mode"
		s.metrics.toggles.WithLabelValues("ignored").Inc()
	default:
		result.Message = "Position is outside the maze"
		s.metrics.toggles.WithLabelValues("ignored").Inc()
	}

	s.logger.Debug("[TOGGLE]", "session", sessionID, "toggled", toggled, "row", cell.Row, "col", cell.Col)
	return result, nil
}

// SwitchMode flips a session between playing and editing
func (s *gameServiceImpl) SwitchMode(ctx context.Context, sessionID string) (*ModeResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var changed bool
	res, err := s.apply(sessionID, func(state *engine.SessionState, now time.Time) {
		changed = state.SwitchMode()
	})
	if err != nil {
		return nil, err
	}

	result := &ModeResult{Changed: changed, Mode: res.after.Mode, State: res.after}
	switch {
	case !changed:
		result.Message = "Editor mode is disabled on this server"
	case res.after.Mode == engine.Editing:
		result.Message = "Editor Mode"
		s.metrics.modeSwitches.Inc()
	default:
		result.Message = "Play Mode"
		s.metrics.modeSwitches.Inc()
	}

	s.logger.Info("[MODE]", "session", sessionID, "mode", string(res.after.Mode), "changed", changed)
	return result, nil
}

// ResetBest clears the personal best of a session
func (s *gameServiceImpl) ResetBest(ctx context.Context, sessionID string) (*engine.View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, err := s.apply(sessionID, func(state *engine.SessionState, now time.Time) {
		state.ResetBest()
	})
	if err != nil {
		return nil, err
	}

	s.metrics.bestResets.Inc()
	s.logger.Info("[RESET_BEST]", "session", sessionID)
	return &res.after, nil
}

// Tick applies one frame of input in engine order
func (s *gameServiceImpl) Tick(ctx context.Context, sessionID string, input TickInput) (*engine.View, error) {
	in := engine.Input{
		SwitchMode: input.SwitchMode,
		ResetBest:  input.ResetBest,
		Toggle:     input.Toggle,
	}
	if input.Direction != "" {
		delta, ok := engine.ParseDirection(input.Direction)
		if !ok {
			return nil, fmt.Errorf("%w: %q (use up, down, left or right)", ErrInvalidDirection, input.Direction)
		}
		in.Move = delta
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	res, err := s.apply(sessionID, func(state *engine.SessionState, now time.Time) {
		state.Tick(now, in)
	})
	if err != nil {
		return nil, err
	}
	return &res.after, nil
}

// GetState returns the current view of a session
func (s *gameServiceImpl) GetState(ctx context.Context, sessionID string) (*engine.View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	view := sess.View(s.now())
	return &view, nil
}

// ListLevels returns information about all stored levels
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// GetLevel returns a stored level
func (s *gameServiceImpl) GetLevel(ctx context.Context, name string) (*engine.Record, error) {
	return s.levels.GetLevel(name)
}

// SaveLevel stores a level record
func (s *gameServiceImpl) SaveLevel(ctx context.Context, name string, rec *engine.Record) error {
	if err := s.levels.SaveLevel(name, rec); err != nil {
		return err
	}
	s.logger.Info("[LEVEL_SAVED]", "level", name, "pb", rec.PB)
	return nil
}

// applyResult captures a session before and after one mutation
type applyResult struct {
	session  *Session
	before   engine.View
	after    engine.View
	finished bool
	newBest  bool
}

// apply runs fn against a live session under its lock. A mutation that wins
// the run finishes the session before apply returns.
func (s *gameServiceImpl) apply(sessionID string, fn func(state *engine.SessionState, now time.Time)) (*applyResult, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	now := s.now()
	res := &applyResult{session: sess}
	err = sess.WithState(func(state *engine.SessionState) error {
		if state.Finalized() {
			return fmt.Errorf("%w: %s", ErrSessionEnded, sessionID)
		}
		res.before = state.View(now)
		fn(state, now)
		res.after = state.View(now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.after.Won {
		res.finished, res.newBest = s.finish(sess, res.before)
		res.after = sess.View(now)
	}
	return res, nil
}

// finish finalizes a won session and records the win. It reports whether this
// call finalized the session and whether the win set a new personal best.
func (s *gameServiceImpl) finish(sess *Session, before engine.View) (bool, bool) {
	finished, err := s.sessions.Finish(sess.ID)
	if err != nil {
		s.logger.Error("failed to persist finished session", "session", sess.ID, "level", sess.Level, "error", err)
	}
	if !finished {
		return false, false
	}

	after := sess.View(s.now())
	if !after.Won {
		return true, false
	}

	newBest := before.PersonalBest == 0 || after.PersonalBest < before.PersonalBest
	s.metrics.wins.Inc()
	s.metrics.winSeconds.Observe(float64(after.WinSeconds))
	if newBest {
		s.metrics.newBests.Inc()
	}

	s.logger.Info("[WIN]", "session", sess.ID, "level", sess.Level, "seconds", after.WinSeconds,
		"pb", after.PersonalBest, "new_best", newBest)
	return true, newBest
}

// getSession looks up a session and normalizes the not-found error
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSessionNotFound, sessionID, err)
	}
	return sess, nil
}

// info builds the public description of a session
func (s *gameServiceImpl) info(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		Level:          sess.Level,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		State:          sess.View(s.now()),
	}
}
