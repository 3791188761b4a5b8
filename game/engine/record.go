package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Record is the persisted level file: the best time and the maze layout.
// Field names match the on-disk format.
type Record struct {
	PB   int      `json:"PB"`
	Maze [][]Cell `json:"Maze"`
}

// DefaultShape is the size of the all-wall maze used when a record has none
type DefaultShape struct {
	Rows int `yaml:"rows" json:"rows" validate:"min=1"`
	Cols int `yaml:"cols" json:"cols" validate:"min=1"`
}

// DefaultRecord returns the record used when nothing has been saved yet
func DefaultRecord(shape DefaultShape) Record {
	return Record{PB: 0, Maze: NewWallGrid(shape.Rows, shape.Cols)}
}

// Encode serializes the record with two-space indentation
func (r Record) Encode() ([]byte, error) {
	if r.Maze == nil {
		r.Maze = [][]Cell{}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}

// Validate checks that the record could be written and read back unchanged
func (r Record) Validate() error {
	if r.PB < 0 {
		return fmt.Errorf("%w: PB %d is negative", ErrMalformedRecord, r.PB)
	}
	for row, cells := range r.Maze {
		for col, v := range cells {
			if v != Path && v != Wall {
				return fmt.Errorf("%w: cell (%d,%d) has value %d, want 0 or 1", ErrMalformedRecord, row, col, v)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the record
func (r Record) Clone() Record {
	out := Record{PB: r.PB}
	if r.Maze != nil {
		out.Maze = make([][]Cell, len(r.Maze))
		for i, row := range r.Maze {
			out.Maze[i] = append([]Cell(nil), row...)
		}
	}
	return out
}

// DecodeRecord parses a persisted record. Missing or null fields take their
// defaults silently. Fields that are present but invalid are replaced by their
// defaults and reported through an error wrapping ErrMalformedRecord; the
// returned record is usable either way.
func DecodeRecord(data []byte, shape DefaultShape) (Record, error) {
	rec := DefaultRecord(shape)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	var problems []string

	if raw, ok := fields["PB"]; ok && !isNull(raw) {
		pb, err := decodePB(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("PB: %v", err))
		} else {
			rec.PB = pb
		}
	}

	if raw, ok := fields["Maze"]; ok && !isNull(raw) {
		maze, err := decodeMaze(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Maze: %v", err))
		} else {
			rec.Maze = maze
		}
	}

	if len(problems) > 0 {
		return rec, fmt.Errorf("%w: %s", ErrMalformedRecord, strings.Join(problems, "; "))
	}
	return rec, nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// decodePB accepts a non-negative integral JSON number
func decodePB(raw json.RawMessage) (int, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("expected number, got %s", strings.TrimSpace(string(raw)))
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("expected non-negative whole seconds, got %v", f)
	}
	return int(f), nil
}

// decodeMaze accepts a possibly ragged array of 0/1 rows
func decodeMaze(raw json.RawMessage) ([][]Cell, error) {
	var rows [][]int
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}

	maze := make([][]Cell, len(rows))
	for r, row := range rows {
		maze[r] = make([]Cell, len(row))
		for c, v := range row {
			if v != int(Path) && v != int(Wall) {
				return nil, fmt.Errorf("cell (%d,%d) has value %d, want 0 or 1", r, c, v)
			}
			maze[r][c] = Cell(v)
		}
	}
	return maze, nil
}
