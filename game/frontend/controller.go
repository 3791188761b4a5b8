// Package frontend drives a local session from a presentation loop.
//
// The desktop and terminal clients sample their input devices once per frame
// and hand the result to Controller.Frame. The controller debounces held keys
// and mouse buttons, runs the engine tick and returns the view to draw. When
// the window closes, Controller.Close finalizes the run and persists the
// level exactly once.
package frontend

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/pacing"
	"github.com/wricardo/mcp-training/mazegame/game/settings"
	"github.com/wricardo/mcp-training/mazegame/game/service"
)

var ErrClosed = errors.New("controller is closed")

// LevelStore loads and persists the level being played
type LevelStore interface {
	LoadLevel(name string) (*engine.Record, error)
	SaveLevel(name string, rec *engine.Record) error
}

// Keys is the input sampled during one frame. Directions and Click are held
// state; SwitchMode and ResetBest are presses that happened this frame.
type Keys struct {
	Up, Down, Left, Right bool
	SwitchMode            bool
	ResetBest             bool
	Click                 *engine.Pixel
}

// direction picks one held arrow, preferring up, down, left, right in that order
func (k Keys) direction() engine.Delta {
	switch {
	case k.Up:
		return engine.Up
	case k.Down:
		return engine.Down
	case k.Left:
		return engine.Left
	case k.Right:
		return engine.Right
	}
	return engine.Delta{}
}

// Options configures a Controller
type Options struct {
	Level       string
	Rules       service.Rules
	MoveDelay   time.Duration
	ToggleDelay time.Duration
	WinDisplay  time.Duration
	Now         time.Time
	Logger      *slog.Logger
}

// OptionsFromSettings fills Options from loaded settings
func OptionsFromSettings(s *settings.Settings, now time.Time) Options {
	return Options{
		Level:       s.DefaultLevel,
		Rules:       s.Rules(),
		MoveDelay:   s.MoveDelay,
		ToggleDelay: s.ToggleDelay,
		WinDisplay:  s.WinDisplay,
		Now:         now,
	}
}

// Controller owns one local session
type Controller struct {
	mu         sync.Mutex
	state      *engine.SessionState
	levels     LevelStore
	level      string
	moveGate   *pacing.Debouncer
	toggleGate *pacing.Debouncer
	winDisplay time.Duration
	wonAt      time.Time
	closed     bool
	logger     *slog.Logger
}

// New loads the level and starts a session at opts.Now
func New(levels LevelStore, opts Options) (*Controller, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	rec, err := levels.LoadLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to load level %q: %w", opts.Level, err)
	}

	state := engine.NewSessionState(engine.Options{
		Grid:          rec.Maze,
		MaxSize:       opts.Rules.MaxSize,
		CellSize:      opts.Rules.CellSize,
		Start:         opts.Rules.Start,
		Finish:        opts.Rules.Finish,
		EditorEnabled: opts.Rules.EditorEnabled,
		PersonalBest:  rec.PB,
		Now:           opts.Now,
	})

	c := &Controller{
		state:      state,
		levels:     levels,
		level:      opts.Level,
		moveGate:   pacing.NewDebouncer(opts.MoveDelay),
		toggleGate: pacing.NewDebouncer(opts.ToggleDelay),
		winDisplay: opts.WinDisplay,
		logger:     opts.Logger,
	}
	if state.Mode() == engine.Won {
		c.wonAt = opts.Now
	}

	c.logger.Info("local session started", "level", opts.Level, "pb", rec.PB)
	return c, nil
}

// Frame applies one frame of input and returns the view to draw
func (c *Controller) Frame(now time.Time, keys Keys) engine.View {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state.Finalized() {
		return c.state.View(now)
	}

	in := engine.Input{SwitchMode: keys.SwitchMode, ResetBest: keys.ResetBest}
	if d := keys.direction(); !d.IsZero() && c.moveGate.Allow(now) {
		in.Move = d
	}
	if keys.Click != nil && c.toggleGate.Allow(now) {
		px := *keys.Click
		in.Toggle = &px
	}

	view := c.state.Tick(now, in)
	if view.Won && c.wonAt.IsZero() {
		c.wonAt = now
		c.logger.Info("level completed", "level", c.level, "seconds", view.WinSeconds)
	}
	return view
}

// View returns the current view without applying input
func (c *Controller) View(now time.Time) engine.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.View(now)
}

// Done reports whether the win banner has been shown long enough to quit
func (c *Controller) Done(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.wonAt.IsZero() && now.Sub(c.wonAt) >= c.winDisplay
}

// Close finalizes the run and saves the level record. A failed save can be
// retried; once a save succeeds later calls return ErrClosed.
func (c *Controller) Close(now time.Time) (engine.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return engine.Record{}, ErrClosed
	}

	// Finalize is a no-op on retries, so the record saved is the same
	_, won := c.state.Finalize()
	rec := c.state.Record()
	if err := c.levels.SaveLevel(c.level, &rec); err != nil {
		return rec, fmt.Errorf("failed to save level %q: %w", c.level, err)
	}
	c.closed = true

	c.logger.Info("local session closed", "level", c.level, "won", won, "pb", rec.PB,
		"played", c.state.View(now).Elapsed().Round(time.Millisecond))
	return rec, nil
}
