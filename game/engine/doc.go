// Package engine provides the core game logic for the Maze Game.
//
// The engine package implements the maze state model:
//   - Grid sizing and normalization (Grid, Normalize)
//   - Movement validation against walls and bounds (TryMove)
//   - Wall toggling for the level editor (ToggleAt)
//   - Run timing, win capture and personal-best bookkeeping (RunRecord)
//   - The per-session state machine driven by the presentation loop (SessionState)
//   - The persisted level record shape (Record)
//
// Core Types:
//
// SessionState composes the other pieces and is the only type a presentation
// layer needs to hold. It is advanced one Tick at a time and read back through
// a View snapshot. Grid and RunRecord are pure data types with no I/O.
//
// Usage:
//
//	rec, err := engine.DecodeRecord(data, engine.DefaultShape{Rows: 35, Cols: 40})
//	if err != nil {
//		log.Printf("recovered level record: %v", err)
//	}
//
//	state := engine.NewSessionState(engine.Options{
//		Grid:          rec.Maze,
//		MaxSize:       50,
//		CellSize:      20,
//		Start:         engine.Position{Row: 1, Col: 1},
//		Finish:        engine.Position{Row: 11, Col: 18},
//		EditorEnabled: true,
//		PersonalBest:  rec.PB,
//		Now:           time.Now(),
//	})
//
//	view := state.Tick(time.Now(), engine.Input{Move: engine.Right})
//	if view.Won {
//		state.Finalize()
//		data, _ := state.Record().Encode()
//	}
//
// Coordinates:
//
// Positions are (Row, Col). Pixel coordinates map to cells with
// Row = Y / cellSize and Col = X / cellSize, the same convention used to draw
// the player, so movement and editing agree on every cell.
//
// Game Rules:
//
// The player walks on path cells (0) and is blocked by walls (1) and the grid
// edge. Reaching the finish cell wins the run; the winning time in whole
// seconds replaces the stored personal best when it is faster or when no best
// exists yet. In editor mode movement is ignored and clicks flip walls.
package engine
