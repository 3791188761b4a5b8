package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// LevelSaver persists the level record of a finished session
type LevelSaver interface {
	SaveLevel(name string, rec *engine.Record) error
}

// Manager handles game session lifecycle
type Manager struct {
	sessions map[string]*service.Session
	levels   LevelSaver
	logger   *slog.Logger
	now      func() time.Time
	mu       sync.RWMutex
}

var _ service.SessionManager = (*Manager)(nil)

// NewManager creates a new session manager. Finished sessions are saved
// through levels; a nil saver keeps results in memory only.
func NewManager(levels LevelSaver, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sessions: make(map[string]*service.Session),
		levels:   levels,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for creation and access times
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Create registers a new session with the given ID on a level
func (m *Manager) Create(id, level string, state *engine.SessionState) (*service.Session, error) {
	if state == nil {
		return nil, errors.New("session state cannot be nil")
	}
	if strings.ContainsAny(id, " /\\?#") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
	}

	// Check if session already exists (case-insensitive)
	if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	session := service.NewSession(id, level, state, m.now())
	m.sessions[strings.ToLower(id)] = session

	m.logger.Debug("session created", "session", id, "level", level)
	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// List returns all active sessions ordered by ID
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].ID) < strings.ToLower(result[j].ID)
	})
	return result
}

// Delete removes a session without finishing it
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, lowerID)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	session, err := m.Get(id)
	if err != nil {
		return err
	}
	session.Touch(m.now())
	return nil
}

// Finish finalizes a session and saves its level record. Only the first call
// for a session does any work; it reports whether this call finalized it.
func (m *Manager) Finish(id string) (bool, error) {
	session, err := m.Get(id)
	if err != nil {
		return false, err
	}
	return m.finish(session)
}

// FinishAll finalizes and saves every session, for server shutdown
func (m *Manager) FinishAll() error {
	var failed int
	for _, session := range m.List() {
		if _, err := m.finish(session); err != nil {
			m.logger.Warn("failed to finish session", "session", session.ID, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to finish %d sessions", failed)
	}
	return nil
}

// CleanupExpiredSessions finishes and removes sessions that haven't been
// accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := m.now().Add(-maxAge)

	m.mu.Lock()
	var expired []*service.Session
	for id, session := range m.sessions {
		if session.LastAccessed().Before(cutoff) {
			expired = append(expired, session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		if _, err := m.finish(session); err != nil {
			m.logger.Warn("failed to finish expired session", "session", session.ID, "error", err)
		}
		m.logger.Info("session expired", "session", session.ID, "level", session.Level)
	}
	return len(expired)
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// finish runs finalize once and persists the resulting record
func (m *Manager) finish(session *service.Session) (bool, error) {
	var (
		rec   engine.Record
		first bool
		won   bool
	)
	session.WithState(func(state *engine.SessionState) error {
		if state.Finalized() {
			return nil
		}
		first = true
		_, won = state.Finalize()
		rec = state.Record()
		return nil
	})
	if !first {
		return false, nil
	}

	if m.levels != nil {
		if err := m.levels.SaveLevel(session.Level, &rec); err != nil {
			return true, fmt.Errorf("failed to save level %s for session %s: %w", session.Level, session.ID, err)
		}
	}

	m.logger.Info("session finished", "session", session.ID, "level", session.Level, "won", won, "pb", rec.PB)
	return true, nil
}

// generateSessionID generates a random 4-character session ID that is not in
// use. Callers hold the write lock.
func (m *Manager) generateSessionID() string {
	for {
		// Generate 2 random bytes (4 hex characters)
		bytes := make([]byte, 2)
		// crypto/rand.Read never returns an error; it crashes on failure
		rand.Read(bytes)
		id := hex.EncodeToString(bytes)
		if !m.sessionExists(id) {
			return id
		}
	}
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
