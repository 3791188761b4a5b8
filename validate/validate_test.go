package validate

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
)

var testOptions = Options{
	MaxSize: 3,
	Start:   engine.Position{Row: 0, Col: 0},
	Finish:  engine.Position{Row: 2, Col: 2},
	Shape:   engine.DefaultShape{Rows: 3, Cols: 3},
}

func writeLevel(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write level: %v", err)
	}
	return path
}

func containsError(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestLevel_Valid(t *testing.T) {
	result := Level("config.json", []byte(`{"PB": 12, "Maze": [[0,0,0],[1,1,0],[0,0,0]]}`), testOptions)
	if !result.Valid {
		t.Fatalf("Expected valid level, got errors: %v", result.Errors)
	}
	if result.File != "config.json" {
		t.Errorf("Expected file name config.json, got %s", result.File)
	}
	if !containsError(result.Notes, "reachable in 4 moves") {
		t.Errorf("Expected connectivity note with 4 moves, got %v", result.Notes)
	}
	if !containsError(result.Notes, "Personal best: 12s") {
		t.Errorf("Expected personal best note, got %v", result.Notes)
	}
}

func TestLevel_InvalidJSON(t *testing.T) {
	result := Level("bad.json", []byte(`{"PB": 1, invalid}`), testOptions)
	if result.Valid {
		t.Error("Expected invalid JSON to fail validation")
	}
	if !containsError(result.Errors, "Invalid JSON") {
		t.Errorf("Expected JSON error, got %v", result.Errors)
	}
}

func TestLevel_MissingFields(t *testing.T) {
	result := Level("empty.json", []byte(`{}`), testOptions)
	if result.Valid {
		t.Error("Expected missing fields to fail validation")
	}
	if !containsError(result.Errors, "Missing field PB") || !containsError(result.Errors, "Missing field Maze") {
		t.Errorf("Expected both missing field errors, got %v", result.Errors)
	}
}

func TestLevel_BadCellValue(t *testing.T) {
	result := Level("cells.json", []byte(`{"PB": 0, "Maze": [[0,2,0],[0,0,0],[0,0,0]]}`), testOptions)
	if result.Valid {
		t.Error("Expected invalid cell value to fail validation")
	}
	if !containsError(result.Errors, "want 0 or 1") {
		t.Errorf("Expected cell value error, got %v", result.Errors)
	}
}

func TestLevel_NegativePB(t *testing.T) {
	result := Level("pb.json", []byte(`{"PB": -3, "Maze": [[0,0,0],[0,0,0],[0,0,0]]}`), testOptions)
	if result.Valid {
		t.Error("Expected negative PB to fail validation")
	}
}

func TestLevel_EmptyMaze(t *testing.T) {
	result := Level("empty.json", []byte(`{"PB": 0, "Maze": []}`), testOptions)
	if result.Valid {
		t.Error("Expected empty maze to fail validation")
	}
}

func TestLevel_TooLarge(t *testing.T) {
	result := Level("big.json", []byte(`{"PB": 0, "Maze": [[0,0,0,0],[0,0,0,0],[0,0,0,0]]}`), testOptions)
	if result.Valid {
		t.Error("Expected oversized maze to fail validation")
	}
	if !containsError(result.Errors, "larger than max_maze_size 3") {
		t.Errorf("Expected size error, got %v", result.Errors)
	}
}

func TestLevel_PaddedMazeIsNoted(t *testing.T) {
	opts := testOptions
	opts.Finish = engine.Position{Row: 1, Col: 1}

	result := Level("small.json", []byte(`{"PB": 0, "Maze": [[0,0],[0]]}`), opts)
	if result.Valid {
		t.Fatalf("Expected finish in padded wall to fail, got notes %v", result.Notes)
	}
	if !containsError(result.Notes, "padded with walls to 3x3") {
		t.Errorf("Expected padding note, got %v", result.Notes)
	}
	if !containsError(result.Notes, "Ragged rows") {
		t.Errorf("Expected ragged note, got %v", result.Notes)
	}
	if !containsError(result.Errors, "Finish (1,1) is not an open cell") {
		t.Errorf("Expected finish error, got %v", result.Errors)
	}
}

func TestLevel_StartOnWall(t *testing.T) {
	result := Level("start.json", []byte(`{"PB": 0, "Maze": [[1,0,0],[0,0,0],[0,0,0]]}`), testOptions)
	if result.Valid {
		t.Error("Expected start on wall to fail validation")
	}
	if !containsError(result.Errors, "Start (0,0) is not an open cell") {
		t.Errorf("Expected start error, got %v", result.Errors)
	}
}

func TestLevel_Unreachable(t *testing.T) {
	result := Level("walled.json", []byte(`{"PB": 0, "Maze": [[0,0,0],[1,1,1],[0,0,0]]}`), testOptions)
	if result.Valid {
		t.Error("Expected unreachable finish to fail validation")
	}
	if !containsError(result.Errors, "Connectivity failure") {
		t.Errorf("Expected connectivity error, got %v", result.Errors)
	}
}

func TestFile_Missing(t *testing.T) {
	result := File(filepath.Join(t.TempDir(), "nope.json"), testOptions)
	if result.Valid {
		t.Error("Expected missing file to fail validation")
	}
	if result.File != "nope.json" {
		t.Errorf("Expected file name nope.json, got %s", result.File)
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "b.json", `{"PB": 0, "Maze": [[0,0,0],[1,1,1],[0,0,0]]}`)
	writeLevel(t, dir, "a.json", `{"PB": 5, "Maze": [[0,0,0],[0,0,0],[0,0,0]]}`)
	writeLevel(t, dir, "notes.txt", "ignored")

	results, err := Dir(dir, testOptions)
	if err != nil {
		t.Fatalf("Dir returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].File != "a.json" || results[1].File != "b.json" {
		t.Errorf("Expected sorted results, got %s, %s", results[0].File, results[1].File)
	}
	if !results[0].Valid || results[1].Valid {
		t.Errorf("Expected a.json valid and b.json invalid, got %v and %v", results[0].Valid, results[1].Valid)
	}

	var buf bytes.Buffer
	err = Report(&buf, results)
	if !errors.Is(err, ErrInvalidLevels) {
		t.Errorf("Expected ErrInvalidLevels, got %v", err)
	}
	if !strings.Contains(buf.String(), "INVALID") {
		t.Errorf("Expected report to flag invalid level, got %s", buf.String())
	}
}

func TestDir_Empty(t *testing.T) {
	if _, err := Dir(t.TempDir(), testOptions); err == nil {
		t.Error("Expected error for directory without levels")
	}
}

func TestReport_AllValid(t *testing.T) {
	var buf bytes.Buffer
	err := Report(&buf, []Result{{File: "a.json", Valid: true}})
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
	if !strings.Contains(buf.String(), "All levels are valid") {
		t.Errorf("Expected success summary, got %s", buf.String())
	}
}
