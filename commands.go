package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/mazegame/api"
	"github.com/wricardo/mcp-training/mazegame/transport/mcp"
	"github.com/wricardo/mcp-training/mazegame/transport/websocket"
	"github.com/wricardo/mcp-training/mazegame/validate"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "Run MCP stdio server, reusing a running API or starting an internal one",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   "http://localhost:8080",
				Usage:   "External API server to reuse when reachable",
				Sources: cli.EnvVars("MAZE_API_URL"),
			},
		},
		Action: runStdioMCP,
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check level files for shape, size and connectivity",
		ArgsUsage: "[levels dir]",
		Action:    runValidate,
	}
}

// externalAPIAvailable reports whether an API server answers at baseURL
func externalAPIAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// runStdioMCP runs an MCP stdio server against an external API if one is
// running, otherwise against an internal API bound to a random loopback port
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	s, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	baseURL := cmd.String("api-url")
	if externalAPIAvailable(ctx, baseURL) {
		logger.Info("external API server found, using it for MCP", "url", baseURL)
	} else {
		logger.Info("no external API server found, starting internal HTTP server")

		svc, err := newServices(s, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer svc.Close()

		internalURL, shutdown, err := startInternalAPI(ctx, svc, logger)
		if err != nil {
			return err
		}
		defer shutdown()
		baseURL = internalURL
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready", "api", baseURL)

	stdio := server.NewStdioServer(mcpClient.GetMCPServer())
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// startInternalAPI serves the REST API on 127.0.0.1 with a random port
func startInternalAPI(ctx context.Context, svc *services, logger *slog.Logger) (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hubCtx, cancel := context.WithCancel(ctx)
	hub := websocket.NewHub(logger.With("component", "websocket"))
	go hub.Run(hubCtx)

	httpServer := &http.Server{
		Handler: api.NewServer(svc.game, hub, api.WithLogger(logger.With("component", "api"))),
	}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("internal HTTP server error", "error", err)
		}
	}()

	addr := listener.Addr().String()
	logger.Info("internal HTTP server started", "addr", addr)

	shutdown := func() {
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		httpServer.Shutdown(shutdownCtx)
	}
	return "http://" + addr, shutdown, nil
}

// runValidate checks every level file in the levels directory
func runValidate(ctx context.Context, cmd *cli.Command) error {
	s, _, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	dir := s.LevelsDir
	if cmd.Args().Present() {
		dir = cmd.Args().First()
	}

	results, err := validate.Dir(dir, validate.Options{
		MaxSize: s.MaxMazeSize,
		Start:   s.Start,
		Finish:  s.Finish,
		Shape:   s.DefaultGrid,
	})
	if err != nil {
		return err
	}
	return validate.Report(cmd.Root().Writer, results)
}
