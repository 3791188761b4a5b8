package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellAt(t *testing.T) {
	tests := []struct {
		name     string
		px       Pixel
		cellSize int
		want     Position
		ok       bool
	}{
		{"origin", Pixel{0, 0}, 20, Position{0, 0}, true},
		{"row from y, col from x", Pixel{X: 45, Y: 5}, 20, Position{Row: 0, Col: 2}, true},
		{"last pixel of a cell", Pixel{X: 19, Y: 39}, 20, Position{Row: 1, Col: 0}, true},
		{"negative x", Pixel{X: -1, Y: 5}, 20, Position{}, false},
		{"negative y", Pixel{X: 5, Y: -19}, 20, Position{}, false},
		{"zero cell size", Pixel{X: 5, Y: 5}, 0, Position{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CellAt(tt.px, tt.cellSize)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToggleAtFlipsExactlyOneCell(t *testing.T) {
	original := [][]Cell{{0, 1, 0}, {1, 0, 1}, {0, 0, 0}}
	g := NewGrid(original, 3)

	pos, ok := ToggleAt(g, Pixel{X: 25, Y: 45}, 20)
	assert.True(t, ok)
	assert.Equal(t, Position{Row: 2, Col: 1}, pos)

	after := g.Rows()
	changed := 0
	for r := range original {
		for c := range original[r] {
			if after[r][c] != original[r][c] {
				changed++
			}
		}
	}
	assert.Equal(t, 1, changed)
	assert.Equal(t, Wall, after[2][1])
}

func TestToggleAtIsSelfInverse(t *testing.T) {
	original := [][]Cell{{0, 1}, {1, 0}}
	g := NewGrid(original, 2)

	for _, px := range []Pixel{{0, 0}, {10, 0}, {0, 10}, {15, 15}} {
		_, ok := ToggleAt(g, px, 10)
		assert.True(t, ok)
		_, ok = ToggleAt(g, px, 10)
		assert.True(t, ok)
		assert.Equal(t, original, g.Rows(), "pixel %v", px)
	}
}

func TestToggleAtOutOfBoundsIsNoop(t *testing.T) {
	original := [][]Cell{{0, 1}, {1, 0}}
	g := NewGrid(original, 2)

	for _, px := range []Pixel{{40, 0}, {0, 40}, {-5, 0}, {0, -5}} {
		pos, ok := ToggleAt(g, px, 20)
		assert.False(t, ok, "pixel %v", px)
		assert.Equal(t, Position{}, pos)
	}
	assert.Equal(t, original, g.Rows())

	_, ok := ToggleAt(nil, Pixel{}, 20)
	assert.False(t, ok)
}
