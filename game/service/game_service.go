package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, level string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	EndSession(ctx context.Context, sessionID string) (*SessionInfo, error)

	// Game Operations
	Move(ctx context.Context, sessionID, direction string) (*MoveResult, error)
	ToggleWall(ctx context.Context, sessionID string, px engine.Pixel) (*ToggleResult, error)
	ToggleCell(ctx context.Context, sessionID string, cell engine.Position) (*ToggleResult, error)
	SwitchMode(ctx context.Context, sessionID string) (*ModeResult, error)
	ResetBest(ctx context.Context, sessionID string) (*engine.View, error)
	Tick(ctx context.Context, sessionID string, input TickInput) (*engine.View, error)

	// Game State
	GetState(ctx context.Context, sessionID string) (*engine.View, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	GetLevel(ctx context.Context, name string) (*engine.Record, error)
	SaveLevel(ctx context.Context, name string, rec *engine.Record) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, level string, state *engine.SessionState) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Finish(id string) (bool, error)
	Count() int
}

// LevelManager handles level loading and saving
type LevelManager interface {
	LoadLevel(name string) (*engine.Record, error)
	GetLevel(name string) (*engine.Record, error)
	SaveLevel(name string, rec *engine.Record) error
	ListLevels() ([]*LevelInfo, error)
	Default() string
}

// Session represents an active game session
type Session struct {
	ID        string
	Level     string
	CreatedAt time.Time

	state          *engine.SessionState
	lastAccessedAt time.Time
	mu             sync.Mutex
}

// NewSession wraps state in a session created at now
func NewSession(id, level string, state *engine.SessionState, now time.Time) *Session {
	return &Session{
		ID:             id,
		Level:          level,
		CreatedAt:      now,
		state:          state,
		lastAccessedAt: now,
	}
}

// WithState runs fn while holding the session lock
func (s *Session) WithState(fn func(state *engine.SessionState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// View returns a snapshot of the session as of now
func (s *Session) View(now time.Time) engine.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.View(now)
}

// Touch records an access at now
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessedAt = now
}

// LastAccessed returns the time of the last access
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}
