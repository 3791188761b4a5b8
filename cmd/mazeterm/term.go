package main

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/frontend"
)

// headerRows is the number of text lines above the maze
const headerRows = 2

var (
	wallStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	playerStyle = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	finishStyle = tcell.StyleDefault.Background(tcell.ColorGreen)
	aheadStyle  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	behindStyle = tcell.StyleDefault.Foreground(tcell.ColorRed)
	editorStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	winStyle    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
)

// termUI draws a session as two terminal columns per maze cell
type termUI struct {
	screen   tcell.Screen
	ctrl     *frontend.Controller
	cellSize int

	// keys collects presses since the last frame
	keys      frontend.Keys
	leftDown  bool
	rightDown bool
	mouseX    int
	mouseY    int
	quit      bool
}

func newTermUI(screen tcell.Screen, ctrl *frontend.Controller, cellSize int) *termUI {
	return &termUI{screen: screen, ctrl: ctrl, cellSize: cellSize}
}

// run polls events and draws frames until quit or the win banner expires
func (u *termUI) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go u.screen.ChannelEvents(events, quit)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			u.handleEvent(ev)
			if u.quit {
				return
			}
		case <-ticker.C:
			now := time.Now()
			u.frame(now)
			if u.ctrl.Done(now) {
				return
			}
		}
	}
}

// handleEvent records input for the next frame. Terminals report no key
// releases, so an arrow counts as held for one frame per key repeat.
func (u *termUI) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			u.quit = true
		case tcell.KeyUp:
			u.keys.Up = true
		case tcell.KeyDown:
			u.keys.Down = true
		case tcell.KeyLeft:
			u.keys.Left = true
		case tcell.KeyRight:
			u.keys.Right = true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'e', 'E':
				u.keys.SwitchMode = true
			case ' ':
				u.keys.ResetBest = true
			case 'q':
				u.quit = true
			}
		}

	case *tcell.EventMouse:
		buttons := ev.Buttons()
		right := buttons&tcell.Button2 != 0
		if right && !u.rightDown {
			u.keys.SwitchMode = true
		}
		u.rightDown = right
		u.leftDown = buttons&tcell.Button1 != 0
		u.mouseX, u.mouseY = ev.Position()

	case *tcell.EventResize:
		u.screen.Sync()
	}
}

// pixelAt maps a terminal cell to the center pixel of the maze cell under it
func (u *termUI) pixelAt(x, y int) (engine.Pixel, bool) {
	row, col := y-headerRows, x/2
	if row < 0 || x < 0 {
		return engine.Pixel{}, false
	}
	half := u.cellSize / 2
	return engine.Pixel{X: col*u.cellSize + half, Y: row*u.cellSize + half}, true
}

// frame feeds the collected input to the controller and draws the result
func (u *termUI) frame(now time.Time) engine.View {
	keys := u.keys
	if u.leftDown {
		if px, ok := u.pixelAt(u.mouseX, u.mouseY); ok {
			keys.Click = &px
		}
	}
	u.keys = frontend.Keys{}

	view := u.ctrl.Frame(now, keys)
	u.draw(view)
	return view
}

func (u *termUI) draw(view engine.View) {
	u.screen.Clear()

	timerStyle := behindStyle
	if view.AheadOfBest {
		timerStyle = aheadStyle
	}
	x := u.print(0, 0, view.TimerText(), timerStyle)
	x = u.print(x+2, 0, view.BestText(), tcell.StyleDefault)
	if view.EditorMode {
		u.print(x+2, 0, "Editor Mode", editorStyle)
	}
	if view.Won {
		u.print(0, 1, "You Win!", winStyle)
	}

	for r, row := range view.Grid {
		for c, cell := range row {
			pos := engine.Position{Row: r, Col: c}
			x, y := c*2, r+headerRows
			switch {
			case pos == view.Player:
				u.print(x, y, "@ ", playerStyle)
			case pos == view.Finish:
				u.print(x, y, "  ", finishStyle)
			case cell == engine.Wall:
				u.print(x, y, "██", wallStyle)
			}
		}
	}

	u.screen.Show()
}

// print writes s at (x, y) and returns the column after it
func (u *termUI) print(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		u.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
