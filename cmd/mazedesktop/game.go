package main

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/frontend"
)

var (
	backgroundColor = color.RGBA{0, 0, 0, 255}
	wallColor       = color.RGBA{128, 128, 128, 255}
	playerColor     = color.RGBA{0, 0, 255, 255}
	finishColor     = color.RGBA{0, 255, 0, 255}
	aheadColor      = color.RGBA{0, 255, 0, 255}
	behindColor     = color.RGBA{255, 0, 0, 255}
	editorColor     = color.RGBA{255, 255, 0, 255}
)

// Game implements ebiten.Game over a frontend.Controller
type Game struct {
	ctrl     *frontend.Controller
	size     int
	cellSize int
	view     engine.View

	// text is drawn here first so it can be tinted
	text *ebiten.Image
}

// NewGame creates a window game for a size x size maze
func NewGame(ctrl *frontend.Controller, size, cellSize int) *Game {
	return &Game{
		ctrl:     ctrl,
		size:     size,
		cellSize: cellSize,
		view:     ctrl.View(time.Now()),
		text:     ebiten.NewImage(200, 16),
	}
}

// Update samples input once per tick and advances the session
func (g *Game) Update() error {
	now := time.Now()
	if g.ctrl.Done(now) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	keys := frontend.Keys{
		Up:    ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:  ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		SwitchMode: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) ||
			inpututil.IsKeyJustPressed(ebiten.KeyE),
		ResetBest: inpututil.IsKeyJustPressed(ebiten.KeySpace),
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		keys.Click = &engine.Pixel{X: x, Y: y}
	}

	g.view = g.ctrl.Frame(now, keys)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	for r, row := range g.view.Grid {
		for c, cell := range row {
			if cell == engine.Wall {
				g.fillCell(screen, engine.Position{Row: r, Col: c}, wallColor)
			}
		}
	}
	g.fillCell(screen, g.view.Finish, finishColor)
	g.fillCell(screen, g.view.Player, playerColor)

	timerColor := behindColor
	if g.view.AheadOfBest {
		timerColor = aheadColor
	}
	g.drawText(screen, g.view.TimerText(), 10, 10, timerColor)
	g.drawText(screen, g.view.BestText(), 10, 26, color.White)
	if g.view.EditorMode {
		g.drawText(screen, "Editor Mode", 10, 42, editorColor)
	}
	if g.view.Won {
		side := g.size * g.cellSize
		g.drawText(screen, "You Win!", side/2-24, side/2-8, aheadColor)
	}
}

func (g *Game) fillCell(screen *ebiten.Image, pos engine.Position, clr color.Color) {
	cs := float32(g.cellSize)
	vector.DrawFilledRect(screen, float32(pos.Col)*cs, float32(pos.Row)*cs, cs, cs, clr, false)
}

// drawText prints s in white on the scratch image, then draws it tinted
func (g *Game) drawText(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	g.text.Clear()
	ebitenutil.DebugPrintAt(g.text, s, 0, 0)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	screen.DrawImage(g.text, op)
}

// Layout keeps one logical pixel per maze pixel
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	side := g.size * g.cellSize
	return side, side
}
