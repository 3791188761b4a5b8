package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/service"
	"github.com/wricardo/mcp-training/mazegame/game/store"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
)

var _ service.LevelManager = (*Manager)(nil)

// Options configures a Manager
type Options struct {
	DefaultLevel string
	DefaultShape engine.DefaultShape
	Logger       *slog.Logger
}

// Manager handles level loading, saving and caching
type Manager struct {
	store        store.RecordStore
	defaultLevel string
	shape        engine.DefaultShape
	logger       *slog.Logger
	levels       map[string]*engine.Record
	mu           sync.RWMutex
}

// NewManager creates a new level manager over st
func NewManager(st store.RecordStore, opts Options) (*Manager, error) {
	if st == nil {
		return nil, errors.New("record store is required")
	}
	if opts.DefaultLevel == "" {
		opts.DefaultLevel = "config"
	}
	if err := store.ValidateName(opts.DefaultLevel); err != nil {
		return nil, fmt.Errorf("%w: default level: %v", ErrInvalidLevel, err)
	}
	if opts.DefaultShape.Rows <= 0 || opts.DefaultShape.Cols <= 0 {
		opts.DefaultShape = engine.DefaultShape{Rows: engine.DefaultGridRows, Cols: engine.DefaultGridCols}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Manager{
		store:        st,
		defaultLevel: opts.DefaultLevel,
		shape:        opts.DefaultShape,
		logger:       opts.Logger,
		levels:       make(map[string]*engine.Record),
	}, nil
}

// Default returns the name of the default level
func (m *Manager) Default() string {
	return m.defaultLevel
}

// DefaultShape returns the shape of the all-wall maze used for new levels
func (m *Manager) DefaultShape() engine.DefaultShape {
	return m.shape
}

// LoadLevel loads a level by name. A level that was never saved yields the
// default record. Malformed fields are replaced by defaults and logged.
func (m *Manager) LoadLevel(name string) (*engine.Record, error) {
	if name == "" {
		name = m.defaultLevel
	}

	m.mu.RLock()
	// Check cache first
	if rec, exists := m.levels[name]; exists {
		m.mu.RUnlock()
		clone := rec.Clone()
		return &clone, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if rec, exists := m.levels[name]; exists {
		clone := rec.Clone()
		return &clone, nil
	}

	rec, err := m.read(name)
	if err != nil {
		return nil, err
	}

	m.levels[name] = rec
	clone := rec.Clone()
	return &clone, nil
}

// GetLevel loads a level that must already exist in the store
func (m *Manager) GetLevel(name string) (*engine.Record, error) {
	if err := store.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if !m.store.Exists(name) {
		return nil, fmt.Errorf("%w: %s", ErrLevelNotFound, name)
	}
	return m.LoadLevel(name)
}

// read decodes a level from the store. Callers hold the write lock.
func (m *Manager) read(name string) (*engine.Record, error) {
	data, err := m.store.Load(name)
	if errors.Is(err, store.ErrNotFound) {
		m.logger.Debug("level not stored yet, using default record", "level", name)
		rec := engine.DefaultRecord(m.shape)
		return &rec, nil
	}
	if errors.Is(err, store.ErrInvalidName) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load level %s: %w", name, err)
	}

	rec, err := engine.DecodeRecord(data, m.shape)
	if err != nil {
		m.logger.Warn("recovered malformed level record", "level", name, "error", err)
	}
	return &rec, nil
}

// SaveLevel validates and stores a level, then refreshes the cache
func (m *Manager) SaveLevel(name string, rec *engine.Record) error {
	if rec == nil {
		return fmt.Errorf("%w: record cannot be nil", ErrInvalidLevel)
	}
	if err := store.ValidateName(name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	data, err := rec.Encode()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(name, data); err != nil {
		return fmt.Errorf("failed to save level %s: %w", name, err)
	}

	clone := rec.Clone()
	m.levels[name] = &clone
	m.logger.Debug("level saved", "level", name, "pb", rec.PB)
	return nil
}

// DeleteLevel removes a stored level
func (m *Manager) DeleteLevel(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.store.Delete(name)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrLevelNotFound, name)
	}
	if errors.Is(err, store.ErrInvalidName) {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if err != nil {
		return err
	}

	delete(m.levels, name)
	return nil
}

// ListLevels returns information about all stored levels. The default level
// is always listed, even before it has been saved.
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	names, err := m.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}

	hasDefault := false
	for _, name := range names {
		if name == m.defaultLevel {
			hasDefault = true
		}
	}
	if !hasDefault {
		names = append([]string{m.defaultLevel}, names...)
	}

	levels := make([]*service.LevelInfo, 0, len(names))
	for _, name := range names {
		rec, err := m.LoadLevel(name)
		if err != nil {
			// Skip levels that cannot be read
			m.logger.Warn("skipping unreadable level", "level", name, "error", err)
			continue
		}
		levels = append(levels, m.summarize(name, rec))
	}
	return levels, nil
}

func (m *Manager) summarize(name string, rec *engine.Record) *service.LevelInfo {
	info := &service.LevelInfo{
		Name:         name,
		Rows:         len(rec.Maze),
		PersonalBest: rec.PB,
		IsDefault:    name == m.defaultLevel,
	}
	for _, row := range rec.Maze {
		if len(row) > info.Cols {
			info.Cols = len(row)
		}
		for _, cell := range row {
			if cell == engine.Wall {
				info.Walls++
			}
		}
	}

	if data, err := m.store.Load(name); err == nil {
		if _, err := engine.DecodeRecord(data, m.shape); err != nil {
			info.Recovered = true
		}
	}
	return info
}

// Invalidate drops a single level from the cache
func (m *Manager) Invalidate(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.levels, name)
}

// RefreshCache drops every cached level
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels = make(map[string]*engine.Record)
}

// Close releases the underlying store
func (m *Manager) Close() error {
	return m.store.Close()
}
