// Command mazeterm plays a maze level in the terminal.
//
// Arrow keys move, e or a right click toggles the editor, a left click flips
// walls while editing and space clears the personal best. Esc or q quits.
// The level is saved when the program exits.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/mazegame/game/config"
	"github.com/wricardo/mcp-training/mazegame/game/frontend"
	"github.com/wricardo/mcp-training/mazegame/game/logging"
	"github.com/wricardo/mcp-training/mazegame/game/settings"
)

func main() {
	cmd := &cli.Command{
		Name:  "mazeterm",
		Usage: "Play a maze level in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "settings", Aliases: []string{"s"}, Usage: "YAML settings file", Sources: cli.EnvVars("MAZE_SETTINGS")},
			&cli.StringFlag{Name: "level", Aliases: []string{"l"}, Usage: "Level to play (defaults to default_level)"},
			&cli.StringFlag{Name: "log-file", Usage: "Write logs to this file instead of discarding them"},
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

	// The screen owns stdout and stderr while the game runs
	var logOut io.Writer = io.Discard
	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.New(s.LogLevel, s.LogFormat, logOut)

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

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	ui := newTermUI(screen, ctrl, s.CellSize)
	ui.run(ctx, s.FrameInterval())
	return nil
}
