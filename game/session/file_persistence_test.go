package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/pursuitmaze/game/engine"
	"github.com/wricardo/mcp-training/pursuitmaze/game/service"
)

func newTestSession(t *testing.T, id, levelID string, level *engine.LevelConfig) *service.Session {
	t.Helper()
	eng, err := engine.NewEngine(level)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	now := time.Now()
	return &service.Session{
		ID:             id,
		Engine:         eng,
		Level:          level,
		LevelID:        levelID,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}

func TestFilePersistence(t *testing.T) {
	levelManager := newTestLevels(t)
	tempDir := t.TempDir()

	persistence, err := NewFilePersistence(tempDir, levelManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	level, err := levelManager.LoadLevel("stage1")
	if err != nil {
		t.Fatalf("Failed to load stage1: %v", err)
	}
	session := newTestSession(t, "test1", "stage1", level)

	t.Run("Save and Load Session", func(t *testing.T) {
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
		if !persistence.Exists("test1") {
			t.Error("Session file should exist after save")
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if loaded.ID != session.ID {
			t.Errorf("Expected ID %s, got %s", session.ID, loaded.ID)
		}
		if loaded.Level.Name != level.Name {
			t.Errorf("Expected level %s, got %s", level.Name, loaded.Level.Name)
		}
		if loaded.Engine.FinishPosition() != session.Engine.FinishPosition() {
			t.Errorf("Expected finish %v, got %v", session.Engine.FinishPosition(), loaded.Engine.FinishPosition())
		}
	})

	t.Run("Save State Changes", func(t *testing.T) {
		if ok, _ := session.Engine.Apply("right"); !ok {
			t.Fatal("Expected the move to be accepted")
		}
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save updated session: %v", err)
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load updated session: %v", err)
		}
		if loaded.Engine.PlayerPosition() != session.Engine.PlayerPosition() {
			t.Errorf("Player position not persisted correctly")
		}
		if loaded.Engine.EnemyPosition() != session.Engine.EnemyPosition() {
			t.Errorf("Enemy position not persisted correctly")
		}
		if len(loaded.Engine.GetTurnHistory()) != len(session.Engine.GetTurnHistory()) {
			t.Errorf("Turn history not persisted correctly")
		}

		// The restored engine keeps playing from the saved position
		if ok, outcome := loaded.Engine.Apply("right"); !ok || outcome != engine.Victory {
			t.Errorf("Expected victory after the second move, got accepted=%v outcome=%s", ok, outcome)
		}
	})

	t.Run("No Temp Files Left", func(t *testing.T) {
		matches, err := filepath.Glob(filepath.Join(tempDir, "*.tmp"))
		if err != nil {
			t.Fatal(err)
		}
		if len(matches) != 0 {
			t.Errorf("Expected no temp files, found %v", matches)
		}
	})

	t.Run("List All Sessions", func(t *testing.T) {
		session2 := newTestSession(t, "Test2", "stage1", level)
		if err := persistence.Save(session2); err != nil {
			t.Fatalf("Failed to save second session: %v", err)
		}
		// Non-session files are ignored
		os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("x"), 0644)

		ids, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("Failed to list sessions: %v", err)
		}
		found := make(map[string]bool)
		for _, id := range ids {
			found[id] = true
		}
		if len(ids) != 2 || !found["test1"] || !found["test2"] {
			t.Errorf("Expected [test1 test2], got %v", ids)
		}
	})

	t.Run("Delete Session", func(t *testing.T) {
		if err := persistence.Delete("test2"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if persistence.Exists("test2") {
			t.Error("Session should not exist after delete")
		}
		if _, err := persistence.Load("test2"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Error Cases", func(t *testing.T) {
		if _, err := persistence.Load("nonexistent"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
		if err := persistence.Delete("nonexistent"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
		if err := persistence.Save(nil); err == nil {
			t.Error("Should get error when saving nil session")
		}
	})

	t.Run("Corrupt File", func(t *testing.T) {
		os.WriteFile(filepath.Join(tempDir, "corrupt.json"), []byte("{not json"), 0644)
		if _, err := persistence.Load("corrupt"); err == nil {
			t.Error("Expected an error for a corrupt session file")
		}
	})

	t.Run("Positions Off The Grid", func(t *testing.T) {
		tests := []struct {
			name  string
			alter func(*engine.GameState)
		}{
			{"player", func(s *engine.GameState) { s.PlayerPos = engine.Position{X: 9, Y: 9} }},
			{"enemy", func(s *engine.GameState) { s.EnemyPos = engine.Position{X: -1, Y: 0} }},
			{"spawn", func(s *engine.GameState) { s.PlayerSpawn = engine.Position{X: 0, Y: 3} }},
			{"undo step", func(s *engine.GameState) {
				s.UndoHistory = append(s.UndoHistory, engine.UndoStep{Player: engine.Position{X: 5, Y: 0}})
			}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				broken := newTestSession(t, "offgrid", "stage1", level)
				tt.alter(broken.Engine.GetState())
				if err := persistence.Save(broken); err != nil {
					t.Fatalf("Failed to save session: %v", err)
				}

				_, err := persistence.Load("offgrid")
				if !errors.Is(err, engine.ErrInvalidState) {
					t.Errorf("Expected ErrInvalidState, got %v", err)
				}
			})
		}
	})

	t.Run("Unknown Level", func(t *testing.T) {
		orphan := newTestSession(t, "orphan", "no-such-level", level)
		if err := persistence.Save(orphan); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
		if _, err := persistence.Load("orphan"); err == nil {
			t.Error("Expected an error when the level no longer exists")
		}
	})
}

func TestFilePersistenceFileStructure(t *testing.T) {
	levelManager := newTestLevels(t)
	tempDir := t.TempDir()

	persistence, err := NewFilePersistence(tempDir, levelManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	session := newTestSession(t, "File_Test", levelManager.GetDefaultID(), levelManager.GetDefault())
	if err := persistence.Save(session); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	// IDs are stored lower-cased
	expectedFile := filepath.Join(tempDir, "file_test.json")
	data, err := os.ReadFile(expectedFile)
	if err != nil {
		t.Fatalf("Failed to read session file: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Session file is not valid JSON: %v", err)
	}
	for _, field := range []string{"id", "level_id", "created_at", "last_accessed_at", "game_state"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("Session file should contain field %q", field)
		}
	}

	var state map[string]json.RawMessage
	if err := json.Unmarshal(raw["game_state"], &state); err != nil {
		t.Fatalf("game_state is not an object: %v", err)
	}
	for _, field := range []string{"grid", "player_pos", "enemy_pos", "undo_history", "status"} {
		if _, ok := state[field]; !ok {
			t.Errorf("game_state should contain field %q", field)
		}
	}
}

func TestFilePersistencePathTraversal(t *testing.T) {
	tempDir := t.TempDir()
	persistence, err := NewFilePersistence(filepath.Join(tempDir, "sessions"), newTestLevels(t))
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	got := persistence.getFilePath("../../etc/passwd")
	if filepath.Dir(got) != filepath.Join(tempDir, "sessions") {
		t.Errorf("Session path escaped the sessions directory: %s", got)
	}
}
