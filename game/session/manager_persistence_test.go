package session

import (
	"testing"
	"time"

	"github.com/wricardo/mcp-training/pursuitmaze/game/engine"
	"github.com/wricardo/mcp-training/pursuitmaze/game/levels"
)

func newTestLevels(t *testing.T) *levels.Manager {
	t.Helper()
	levelManager, err := levels.NewManager("../../levels")
	if err != nil {
		t.Fatalf("Failed to create level manager: %v", err)
	}
	return levelManager
}

func TestManagerWithPersistence(t *testing.T) {
	levelManager := newTestLevels(t)

	persistence, err := NewFilePersistence(t.TempDir(), levelManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}
	manager := NewManagerWithPersistence(persistence)
	level := levelManager.GetDefault()
	levelID := levelManager.GetDefaultID()

	t.Run("Create Session Auto-Saves", func(t *testing.T) {
		session, err := manager.Create("auto1", levelID, level)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if !persistence.Exists(session.ID) {
			t.Fatal("Session should be auto-saved on creation")
		}

		loaded, err := persistence.Load(session.ID)
		if err != nil {
			t.Fatalf("Failed to load auto-saved session: %v", err)
		}
		if loaded.ID != session.ID || loaded.LevelID != levelID {
			t.Errorf("Expected %s on %s, got %s on %s", session.ID, levelID, loaded.ID, loaded.LevelID)
		}
	})

	t.Run("Get Session Loads from Persistence", func(t *testing.T) {
		fresh := NewManagerWithPersistence(persistence)

		session, err := fresh.Get("AUTO1")
		if err != nil {
			t.Fatalf("Failed to get session from persistence: %v", err)
		}
		if session.ID != "auto1" {
			t.Errorf("Expected ID auto1, got %s", session.ID)
		}

		again, err := fresh.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to get session from memory: %v", err)
		}
		if again != session {
			t.Error("Session should be cached in memory after loading from persistence")
		}
	})

	t.Run("Save Method Persists Turns", func(t *testing.T) {
		session, err := manager.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}

		if ok, _ := session.Engine.Apply("right"); !ok {
			t.Fatal("Expected the move to be accepted")
		}
		if err := manager.Save("auto1"); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}

		loaded, err := NewManagerWithPersistence(persistence).Get("auto1")
		if err != nil {
			t.Fatalf("Failed to load session after manual save: %v", err)
		}
		if loaded.Engine.PlayerPosition() != (engine.Position{X: 1, Y: 0}) {
			t.Errorf("Player position not persisted, got %v", loaded.Engine.PlayerPosition())
		}
		if loaded.Engine.EnemyPosition() != session.Engine.EnemyPosition() {
			t.Errorf("Enemy position not persisted, got %v", loaded.Engine.EnemyPosition())
		}
		if loaded.Engine.UndoDepth() != 1 {
			t.Errorf("Expected undo depth 1, got %d", loaded.Engine.UndoDepth())
		}
		if got := loaded.Engine.GetState().TotalTurns; got != 1 {
			t.Errorf("Expected 1 recorded turn, got %d", got)
		}
	})

	t.Run("Save Unknown Session", func(t *testing.T) {
		if err := manager.Save("missing"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Delete Removes from Persistence", func(t *testing.T) {
		session, err := manager.Create("delete_test", levelID, level)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if err := manager.Delete(session.ID); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if persistence.Exists(session.ID) {
			t.Error("Session should be removed from persistence on delete")
		}
		if _, err := manager.Get(session.ID); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
		}
	})

	t.Run("Delete Persisted Only", func(t *testing.T) {
		if _, err := manager.Create("cold", levelID, level); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		// Another manager never loaded it into memory
		if err := NewManagerWithPersistence(persistence).Delete("cold"); err != nil {
			t.Fatalf("Failed to delete persisted session: %v", err)
		}
		if persistence.Exists("cold") {
			t.Error("Session file should be gone")
		}
	})

	t.Run("Load Persisted Sessions on Startup", func(t *testing.T) {
		ids := []string{"startup1", "startup2", "startup3"}
		for _, id := range ids {
			if _, err := manager.Create(id, levelID, level); err != nil {
				t.Fatalf("Failed to create session %s: %v", id, err)
			}
		}

		restarted := NewManagerWithPersistence(persistence)
		if err := restarted.LoadPersistedSessions(); err != nil {
			t.Fatalf("Failed to load persisted sessions: %v", err)
		}
		for _, id := range ids {
			session, err := restarted.Get(id)
			if err != nil {
				t.Errorf("Failed to get session %s after startup load: %v", id, err)
				continue
			}
			if session.ID != id {
				t.Errorf("Expected ID %s, got %s", id, session.ID)
			}
		}
		if restarted.Count() < len(ids) {
			t.Errorf("Expected at least %d sessions, got %d", len(ids), restarted.Count())
		}
	})

	t.Run("Last Accessed Persists With Save", func(t *testing.T) {
		session, err := manager.Get("startup1")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		originalTime := session.LastAccessedAt
		time.Sleep(10 * time.Millisecond)

		if err := manager.UpdateLastAccessed("startup1"); err != nil {
			t.Fatalf("Failed to update last accessed: %v", err)
		}
		if err := manager.SaveAllSessions(); err != nil {
			t.Fatalf("Failed to save all sessions: %v", err)
		}

		loaded, err := NewManagerWithPersistence(persistence).Get("startup1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if !loaded.LastAccessedAt.After(originalTime) {
			t.Error("Last accessed time should be updated and persisted")
		}
	})
}
