package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/mazegame/game/engine"
)

// recordingSaver captures saved level records
type recordingSaver struct {
	mu    sync.Mutex
	saved map[string][]engine.Record
	err   error
}

func newRecordingSaver() *recordingSaver {
	return &recordingSaver{saved: make(map[string][]engine.Record)}
}

func (r *recordingSaver) SaveLevel(name string, rec *engine.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved[name] = append(r.saved[name], rec.Clone())
	return nil
}

func (r *recordingSaver) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved[name])
}

var testStart = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func createTestState(pb int) *engine.SessionState {
	return engine.NewSessionState(engine.Options{
		Grid:          [][]engine.Cell{{0, 0}, {1, 0}},
		MaxSize:       2,
		CellSize:      10,
		Start:         engine.Position{Row: 0, Col: 0},
		Finish:        engine.Position{Row: 1, Col: 1},
		EditorEnabled: true,
		PersonalBest:  pb,
		Now:           testStart,
	})
}

func newTestManager(saver LevelSaver) *Manager {
	return NewManager(saver, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestManager_Create(t *testing.T) {
	manager := newTestManager(nil)

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", "config", createTestState(0))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Level != "config" {
			t.Errorf("Expected level 'config', got '%s'", session.Level)
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", "config", createTestState(0))
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character session ID, got %q", session.ID)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", "config", createTestState(0))
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", "config", createTestState(0))
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists for case variant, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		_, err := manager.Create("a/b", "config", createTestState(0))
		if !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("nil state", func(t *testing.T) {
		if _, err := manager.Create("nil-state", "config", nil); err == nil {
			t.Error("Expected error for nil state")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := newTestManager(nil)
	created, _ := manager.Create("get-test", "config", createTestState(0))

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Errorf("Expected the created session back")
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		if err != nil {
			t.Fatalf("Failed to get session with different case: %v", err)
		}
		if session != created {
			t.Errorf("Expected same session regardless of case")
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		if err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := newTestManager(nil)
	manager.Create("delete-test", "config", createTestState(0))

	if err := manager.Delete("DELETE-test"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := manager.Get("delete-test"); err != ErrSessionNotFound {
		t.Error("Expected session to be deleted")
	}
	if err := manager.Delete("delete-test"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ListAndCount(t *testing.T) {
	manager := newTestManager(nil)
	for _, id := range []string{"c", "A", "b"} {
		manager.Create(id, "config", createTestState(0))
	}

	if manager.Count() != 3 {
		t.Fatalf("Expected 3 sessions, got %d", manager.Count())
	}

	var ids []string
	for _, s := range manager.List() {
		ids = append(ids, s.ID)
	}
	if strings.Join(ids, ",") != "A,b,c" {
		t.Errorf("Expected sessions ordered by ID, got %v", ids)
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := newTestManager(nil)
	clock := testStart
	manager.now = func() time.Time { return clock }

	session, _ := manager.Create("touch", "config", createTestState(0))

	clock = testStart.Add(time.Minute)
	if err := manager.UpdateLastAccessed("TOUCH"); err != nil {
		t.Fatalf("Failed to update last accessed: %v", err)
	}
	if !session.LastAccessed().Equal(clock) {
		t.Errorf("Expected last accessed %v, got %v", clock, session.LastAccessed())
	}

	if err := manager.UpdateLastAccessed("missing"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_FinishPersistsOnce(t *testing.T) {
	saver := newRecordingSaver()
	manager := newTestManager(saver)

	session, _ := manager.Create("winner", "config", createTestState(30))
	session.WithState(func(state *engine.SessionState) error {
		state.Move(engine.Right, testStart.Add(10*time.Second))
		state.Move(engine.Down, testStart.Add(12*time.Second+500*time.Millisecond))
		return nil
	})

	first, err := manager.Finish("winner")
	if err != nil {
		t.Fatalf("Failed to finish session: %v", err)
	}
	if !first {
		t.Error("Expected first finish to finalize")
	}

	again, err := manager.Finish("winner")
	if err != nil || again {
		t.Errorf("Expected second finish to be a no-op, got %v, %v", again, err)
	}

	if saver.count("config") != 1 {
		t.Fatalf("Expected one save, got %d", saver.count("config"))
	}
	saved := saver.saved["config"][0]
	if saved.PB != 12 {
		t.Errorf("Expected PB 12, got %d", saved.PB)
	}
	if len(saved.Maze) != 2 {
		t.Errorf("Expected saved maze of 2 rows, got %d", len(saved.Maze))
	}

	if _, err := manager.Finish("missing"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_FinishWithoutWinKeepsBest(t *testing.T) {
	saver := newRecordingSaver()
	manager := newTestManager(saver)
	manager.Create("quitter", "config", createTestState(17))

	if _, err := manager.Finish("quitter"); err != nil {
		t.Fatalf("Failed to finish session: %v", err)
	}
	if got := saver.saved["config"][0].PB; got != 17 {
		t.Errorf("Expected PB 17 to be kept, got %d", got)
	}
}

func TestManager_FinishReportsSaveErrors(t *testing.T) {
	saver := newRecordingSaver()
	saver.err = errors.New("disk full")
	manager := newTestManager(saver)
	manager.Create("broken", "config", createTestState(0))

	first, err := manager.Finish("broken")
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Expected save error, got %v", err)
	}
	if !first {
		t.Error("Expected the session to be finalized even when saving fails")
	}
}

func TestManager_FinishAll(t *testing.T) {
	saver := newRecordingSaver()
	manager := newTestManager(saver)
	for i := 0; i < 3; i++ {
		manager.Create(fmt.Sprintf("s%d", i), fmt.Sprintf("level%d", i), createTestState(0))
	}

	if err := manager.FinishAll(); err != nil {
		t.Fatalf("FinishAll failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if saver.count(fmt.Sprintf("level%d", i)) != 1 {
			t.Errorf("Expected level%d to be saved once", i)
		}
	}
	if manager.Count() != 3 {
		t.Errorf("FinishAll should keep sessions, got %d", manager.Count())
	}
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	saver := newRecordingSaver()
	manager := newTestManager(saver)
	clock := testStart
	manager.now = func() time.Time { return clock }

	manager.Create("old", "config", createTestState(0))
	clock = testStart.Add(50 * time.Minute)
	manager.Create("fresh", "config", createTestState(0))

	clock = testStart.Add(61 * time.Minute)
	removed := manager.CleanupExpiredSessions(time.Hour)

	if removed != 1 {
		t.Errorf("Expected 1 session removed, got %d", removed)
	}
	if _, err := manager.Get("old"); err != ErrSessionNotFound {
		t.Error("Expected expired session to be removed")
	}
	if _, err := manager.Get("fresh"); err != nil {
		t.Error("Expected fresh session to remain")
	}
	if saver.count("config") != 1 {
		t.Errorf("Expected expired session to be saved before removal, got %d saves", saver.count("config"))
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := newTestManager(newRecordingSaver())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", i)
			if _, err := manager.Create(id, "config", createTestState(0)); err != nil {
				t.Errorf("Create %s: %v", id, err)
				return
			}
			manager.UpdateLastAccessed(id)
			manager.Get(id)
			manager.Finish(id)
		}(i)
	}
	wg.Wait()

	if manager.Count() != 10 {
		t.Errorf("Expected 10 sessions, got %d", manager.Count())
	}
}
