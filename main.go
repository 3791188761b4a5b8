// Command mazegame serves the grid maze game.
//
// Subcommands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, WebSocket
//     and an /mcp HTTP endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none
//     is available
//  3. "validate" checks the level files in the levels directory
//
// Settings come from an optional YAML file, MAZE_* environment variables and
// a .env file in the working directory.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/mazegame/game/logging"
	"github.com/wricardo/mcp-training/mazegame/game/settings"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Maze Game Server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the root command and its subcommands
func newApp() *cli.Command {
	serve := serveCommand()
	return &cli.Command{
		Name:    "mazegame",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "settings",
				Aliases: []string{"s"},
				Usage:   "YAML settings file",
				Sources: cli.EnvVars("MAZE_SETTINGS"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			serve,
			mcpCommand(),
			validateCommand(),
		},
		DefaultCommand: serve.Name,
	}
}

// loadSettings reads .env, the settings file and the environment, then builds
// the logger. Logs always go to stderr so stdio MCP keeps stdout clean.
func loadSettings(cmd *cli.Command) (*settings.Settings, *slog.Logger, error) {
	if err := settings.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	s, err := settings.Load(cmd.String("settings"))
	if err != nil {
		return nil, nil, err
	}
	if cmd.Bool("debug") {
		s.LogLevel = "debug"
	}

	logger := logging.New(s.LogLevel, s.LogFormat, os.Stderr)
	slog.SetDefault(logger)
	return s, logger, nil
}
