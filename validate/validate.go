// Package validate checks stored level files before they are served. It
// checks:
//   - JSON structure and the presence of the PB and Maze fields
//   - Cell values (0 for path, 1 for wall) and a non-negative whole PB
//   - Maze dimensions against the configured maximum size
//   - Start and finish on open cells
//   - Connectivity: the finish is reachable from the start
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
)

// Options are the gameplay settings a level is checked against
type Options struct {
	MaxSize int
	Start   engine.Position
	Finish  engine.Position
	Shape   engine.DefaultShape
}

// Result captures the outcome of validating a single file. Errors make the
// file invalid; Notes are informational.
type Result struct {
	File   string
	Valid  bool
	Errors []string
	Notes  []string
}

func (r *Result) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) note(format string, args ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// File loads and validates a single level file
func File(path string, opts Options) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		result := Result{File: filepath.Base(path), Valid: true}
		result.fail("Failed to read file: %v", err)
		return result
	}
	return Level(filepath.Base(path), data, opts)
}

// Level validates the contents of a level file named name
func Level(name string, data []byte, opts Options) Result {
	result := Result{File: name, Valid: true, Errors: []string{}, Notes: []string{}}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}
	for _, key := range []string{"PB", "Maze"} {
		if _, ok := fields[key]; !ok {
			result.fail("Missing field %s", key)
		}
	}

	rec, err := engine.DecodeRecord(data, opts.Shape)
	if err != nil {
		result.fail("%v", err)
	}
	if !result.Valid {
		return result
	}

	if len(rec.Maze) == 0 {
		result.fail("Maze is empty")
		return result
	}

	rows, cols := len(rec.Maze), 0
	for _, row := range rec.Maze {
		if len(row) > cols {
			cols = len(row)
		}
		if len(row) != len(rec.Maze[0]) {
			result.note("Ragged rows are padded with walls")
			break
		}
	}
	if rows > opts.MaxSize || cols > opts.MaxSize {
		result.fail("Maze is %dx%d, larger than max_maze_size %d", rows, cols, opts.MaxSize)
		return result
	}
	if rows < opts.MaxSize || cols < opts.MaxSize {
		result.note("Maze is %dx%d and is padded with walls to %dx%d", rows, cols, opts.MaxSize, opts.MaxSize)
	}

	grid := engine.NewGrid(rec.Maze, opts.MaxSize)
	for _, p := range []struct {
		name string
		pos  engine.Position
	}{{"Start", opts.Start}, {"Finish", opts.Finish}} {
		if !grid.IsPath(p.pos) {
			result.fail("%s (%d,%d) is not an open cell", p.name, p.pos.Row, p.pos.Col)
		}
	}
	if !result.Valid {
		return result
	}

	if steps, ok := shortestPath(grid, opts.Start, opts.Finish); ok {
		result.note("✓ Connectivity: finish reachable in %d moves", steps)
	} else {
		result.fail("Connectivity failure: finish (%d,%d) is unreachable from start (%d,%d)",
			opts.Finish.Row, opts.Finish.Col, opts.Start.Row, opts.Start.Col)
	}

	if rec.PB > 0 {
		result.note("Personal best: %ds", rec.PB)
	}
	return result
}

// shortestPath runs a breadth-first search from start using the game's move rules
func shortestPath(g *engine.Grid, start, finish engine.Position) (int, bool) {
	dist := map[engine.Position]int{start: 0}
	queue := []engine.Position{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == finish {
			return dist[current], true
		}

		for _, d := range []engine.Delta{engine.Up, engine.Down, engine.Left, engine.Right} {
			next := engine.TryMove(g, current, d)
			if next == current {
				continue
			}
			if _, seen := dist[next]; !seen {
				dist[next] = dist[current] + 1
				queue = append(queue, next)
			}
		}
	}
	return 0, false
}

// Dir validates every *.json file in dir, sorted by name
func Dir(dir string, opts Options) ([]Result, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list level files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no level files in %s", dir)
	}
	sort.Strings(files)

	results := make([]Result, 0, len(files))
	for _, file := range files {
		results = append(results, File(file, opts))
	}
	return results, nil
}

var ErrInvalidLevels = errors.New("some levels have errors")

// Report prints a concise report and returns ErrInvalidLevels when any
// result is invalid
func Report(w io.Writer, results []Result) error {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, e := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+e)
			}
		}
		for _, n := range result.Notes {
			fmt.Fprintln(w, "  "+n)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		fmt.Fprintln(w, "❌ Some levels have errors")
		return ErrInvalidLevels
	}
	fmt.Fprintln(w, "✅ All levels are valid!")
	return nil
}
