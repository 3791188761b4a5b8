package engine

import "fmt"

// Grid owns a square wall/path matrix of a fixed size
type Grid struct {
	cells [][]Cell
	size  int
}

// Normalize returns a size x size copy of rows. Short rows are padded with
// trailing walls, missing rows are filled with walls and anything beyond size
// is truncated. Every row is padded on its own, so ragged input still yields a
// square grid. The input is never modified.
func Normalize(rows [][]Cell, size int) [][]Cell {
	if size < 0 {
		size = 0
	}

	out := make([][]Cell, size)
	for r := 0; r < size; r++ {
		row := make([]Cell, size)
		for c := range row {
			row[c] = Wall
		}
		if r < len(rows) {
			copy(row, rows[r])
		}
		out[r] = row
	}
	return out
}

// NewGrid creates a grid from rows normalized to size
func NewGrid(rows [][]Cell, size int) *Grid {
	cells := Normalize(rows, size)
	return &Grid{cells: cells, size: len(cells)}
}

// NewWallGrid returns a rows x cols matrix filled with walls
func NewWallGrid(rows, cols int) [][]Cell {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	grid := make([][]Cell, rows)
	for r := range grid {
		grid[r] = make([]Cell, cols)
		for c := range grid[r] {
			grid[r][c] = Wall
		}
	}
	return grid
}

// Size returns the side length of the grid
func (g *Grid) Size() int {
	return g.size
}

// InBounds reports whether row,col lies inside the grid
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

// Get returns the value at row,col
func (g *Grid) Get(row, col int) (Cell, error) {
	if !g.InBounds(row, col) {
		return Wall, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, row, col, g.size, g.size)
	}
	return g.cells[row][col], nil
}

// SetWall sets the value at row,col. Any value other than Path is stored as Wall.
func (g *Grid) SetWall(row, col int, value Cell) error {
	if !g.InBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, row, col, g.size, g.size)
	}
	if value != Path {
		value = Wall
	}
	g.cells[row][col] = value
	return nil
}

// Flip toggles the cell at row,col between path and wall and returns the new value
func (g *Grid) Flip(row, col int) (Cell, error) {
	current, err := g.Get(row, col)
	if err != nil {
		return current, err
	}
	next := Wall
	if current == Wall {
		next = Path
	}
	g.cells[row][col] = next
	return next, nil
}

// IsPath reports whether pos is an in-bounds path cell
func (g *Grid) IsPath(pos Position) bool {
	return g.InBounds(pos.Row, pos.Col) && g.cells[pos.Row][pos.Col] == Path
}

// Rows returns a copy of the grid contents
func (g *Grid) Rows() [][]Cell {
	out := make([][]Cell, len(g.cells))
	for r, row := range g.cells {
		out[r] = append([]Cell(nil), row...)
	}
	return out
}

// CountWalls counts the wall cells in the grid
func (g *Grid) CountWalls() int {
	count := 0
	for _, row := range g.cells {
		for _, cell := range row {
			if cell == Wall {
				count++
			}
		}
	}
	return count
}
