package engine

// CellAt converts a pixel coordinate into the grid cell drawn under it.
// The vertical axis selects the row and the horizontal axis the column.
func CellAt(px Pixel, cellSize int) (Position, bool) {
	if cellSize <= 0 || px.X < 0 || px.Y < 0 {
		return Position{}, false
	}
	return Position{Row: px.Y / cellSize, Col: px.X / cellSize}, true
}

// ToggleAt flips the wall state of the cell under px. It returns the cell and
// true when a cell was flipped, or false when px falls outside the grid.
func ToggleAt(g *Grid, px Pixel, cellSize int) (Position, bool) {
	if g == nil {
		return Position{}, false
	}

	pos, ok := CellAt(px, cellSize)
	if !ok {
		return Position{}, false
	}
	if _, err := g.Flip(pos.Row, pos.Col); err != nil {
		return Position{}, false
	}
	return pos, true
}
