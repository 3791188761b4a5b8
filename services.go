package main

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/wricardo/mcp-training/mazegame/game/config"
	"github.com/wricardo/mcp-training/mazegame/game/service"
	"github.com/wricardo/mcp-training/mazegame/game/session"
	"github.com/wricardo/mcp-training/mazegame/game/settings"
)

// services holds everything the server modes share
type services struct {
	settings *settings.Settings
	logger   *slog.Logger
	levels   *config.Manager
	sessions *session.Manager
	game     service.GameService
	registry *prometheus.Registry
}

// newServices wires the level manager, session manager and the
// game service
func newServices(s *settings.Settings, logger *slog.Logger) (*services, error) {
	levels, err := config.Open(s, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sessions := session.NewManager(levels, logger.With("component", "sessions"))
	game := service.NewGameService(sessions, levels, s.Rules(),
		service.WithLogger(logger),
		service.WithMetrics(service.NewMetrics(registry)),
	)

	return &services{
		settings: s,
		logger:   logger,
		levels:   levels,
		sessions: sessions,
		game:     game,
		registry: registry,
	}, nil
}

// Close finishes every live session, saving its level, then closes the store
func (s *services) Close() error {
	finishErr := s.sessions.FinishAll()
	if finishErr != nil {
		s.logger.Warn("some sessions could not be saved", "error", finishErr)
	}
	return errors.Join(finishErr, s.levels.Close())
}
