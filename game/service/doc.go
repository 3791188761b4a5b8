// Package service provides the business logic layer for the Maze Game server.
//
// The service package implements:
//   - Multi-session game management
//   - Move, wall toggle, mode switch and personal-best reset processing
//   - Finalizing won sessions and persisting their level records
//   - Level listing, loading and saving
//   - Prometheus metrics for gameplay activity
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, finishing and lifecycle.
// LevelManager loads and saves the persisted level records.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns an engine.SessionState guarded by its own
// mutex, so different sessions progress independently while calls on one
// session are applied one at a time.
//
// Usage:
//
//	levels, _ := config.NewManager(st, config.Options{DefaultLevel: "config"})
//	sessions := session.NewManager(levels, logger)
//	gameService := service.NewGameService(sessions, levels, service.DefaultRules(),
//		service.WithLogger(logger),
//		service.WithMetrics(service.NewMetrics(prometheus.DefaultRegisterer)),
//	)
//
//	info, err := gameService.CreateSession(ctx, "config")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "right")
//
// Session Lifecycle:
//
// A move that reaches the finish wins the run. The service finalizes the
// session straight away, folding the winning time into the personal best and
// saving the level. Any later mutation returns ErrSessionEnded; the final
// state can still be read until the session is ended or expires.
package service
