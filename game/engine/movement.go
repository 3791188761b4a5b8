package engine

// CanMoveTo checks if pos is inside the grid and not a wall
func CanMoveTo(g *Grid, pos Position) bool {
	if g == nil {
		return false
	}
	return g.IsPath(pos)
}

// TryMove returns pos shifted by d when the target is an in-bounds path cell.
// Any other move, including non-unit deltas, leaves pos unchanged.
func TryMove(g *Grid, pos Position, d Delta) Position {
	if !d.IsUnit() {
		return pos
	}

	candidate := pos.Add(d)
	if !CanMoveTo(g, candidate) {
		return pos
	}
	return candidate
}

// PossibleMoves returns the directions that would move the player from pos
func PossibleMoves(g *Grid, pos Position) []string {
	var possible []string
	for _, d := range []Delta{Up, Down, Left, Right} {
		if TryMove(g, pos, d) != pos {
			possible = append(possible, d.String())
		}
	}
	return possible
}
