package engine

import (
	"errors"
	"strings"
)

// Cell represents the value of a single grid cell
type Cell int

const (
	Path Cell = 0
	Wall Cell = 1
)

const (
	// Defaults mirrored by the settings package
	DefaultMaxMazeSize = 50
	DefaultCellSize    = 20
	DefaultGridRows    = 35
	DefaultGridCols    = 40

	// Validation constants
	MinMazeSize = 1
	MaxMazeSize = 200
)

var (
	ErrOutOfBounds     = errors.New("cell out of bounds")
	ErrMalformedRecord = errors.New("malformed record")
)

// Position represents row,col grid coordinates
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns the position shifted by delta
func (p Position) Add(d Delta) Position {
	return Position{Row: p.Row + d.DRow, Col: p.Col + d.DCol}
}

// Delta is a movement step. Only unit steps along one axis are legal moves.
type Delta struct {
	DRow int `json:"d_row"`
	DCol int `json:"d_col"`
}

var (
	Up    = Delta{DRow: -1, DCol: 0}
	Down  = Delta{DRow: 1, DCol: 0}
	Left  = Delta{DRow: 0, DCol: -1}
	Right = Delta{DRow: 0, DCol: 1}
)

// IsZero reports whether the delta carries no movement
func (d Delta) IsZero() bool {
	return d.DRow == 0 && d.DCol == 0
}

// IsUnit reports whether the delta is a single step up, down, left or right
func (d Delta) IsUnit() bool {
	return abs(d.DRow)+abs(d.DCol) == 1
}

// String returns the direction name for unit deltas
func (d Delta) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection maps a direction name to its delta
func ParseDirection(direction string) (Delta, bool) {
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	default:
		return Delta{}, false
	}
}

// Pixel is a presentation-space coordinate
type Pixel struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Mode is the session state machine state
type Mode string

const (
	Playing Mode = "playing"
	Editing Mode = "editing"
	Won     Mode = "won"
)

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
