// Command mazedesktop plays a maze level in a desktop window.
//
// Arrow keys move, a right click or e toggles the editor, holding the left
// button flips walls while editing and space clears the personal best. The
// level is saved when the window closes.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/mazegame/game/config"
	"github.com/wricardo/mcp-training/mazegame/game/frontend"
	"github.com/wricardo/mcp-training/mazegame/game/logging"
	"github.com/wricardo/mcp-training/mazegame/game/settings"
)

func main() {
	cmd := &cli.Command{
		Name:  "mazedesktop",
		Usage: "Play a maze level in a desktop window",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "settings", Aliases: []string{"s"}, Usage: "YAML settings file", Sources: cli.EnvVars("MAZE_SETTINGS")},
			&cli.StringFlag{Name: "level", Aliases: []string{"l"}, Usage: "Level to play (defaults to default_level)"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if err := settings.LoadDotEnv(); err != nil {
		return err
	}
	s, err := settings.Load(cmd.String("settings"))
	if err != nil {
		return err
	}
	logger := logging.New(s.LogLevel, s.LogFormat, os.Stderr)

	levels, err := config.Open(s, logger)
	if err != nil {
		return err
	}
	defer levels.Close()

	opts := frontend.OptionsFromSettings(s, time.Now())
	opts.Logger = logger
	if level := cmd.String("level"); level != "" {
		opts.Level = level
	}

	ctrl, err := frontend.New(levels, opts)
	if err != nil {
		return err
	}
	defer func() {
		if _, err := ctrl.Close(time.Now()); err != nil {
			logger.Error("failed to save level", "error", err)
		}
	}()

	game := NewGame(ctrl, s.MaxMazeSize, s.CellSize)
	side := s.MaxMazeSize * s.CellSize

	ebiten.SetWindowSize(side, side)
	ebiten.SetWindowTitle("Maze")
	ebiten.SetTPS(s.TPS)

	return ebiten.RunGame(game)
}
