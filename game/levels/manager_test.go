package levels

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/mcp-training/pursuitmaze/game/engine"
)

func createValidLevel(name string) *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:        name,
		Description: "Test level",
		Width:       3,
		Height:      2,
		Layout: []string{
			"+---+---+---+",
			"|         E |",
			"+   +---+   +",
			"| P       F |",
			"+---+---+---+",
		},
		Messages: engine.LevelMessages{
			Welcome: "Welcome!",
			Victory: "Escaped!",
			Caught:  "Caught!",
		},
	}
}

func writeLevelFile(t *testing.T, dir, name string, level *engine.LevelConfig) {
	t.Helper()
	data, err := json.MarshalIndent(level, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal level: %v", err)
	}

	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write level file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeLevelFile(t, dir, "stage1", createValidLevel("Stage 1"))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefaultID() != "stage1" {
			t.Errorf("Expected default id 'stage1', got '%s'", manager.GetDefaultID())
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory uses built-in level", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without level files, got error: %v", err)
		}

		level := manager.GetDefault()
		if level == nil {
			t.Fatal("Expected default level to be available")
		}
		if level.Name != engine.DefaultLevel().Name {
			t.Errorf("Expected built-in level, got '%s'", level.Name)
		}

		loaded, err := manager.LoadLevel(manager.GetDefaultID())
		if err != nil {
			t.Fatalf("Built-in level should be loadable by its id: %v", err)
		}
		if loaded != level {
			t.Error("Expected the cached built-in level")
		}
	})

	t.Run("first level when stage1 is missing", func(t *testing.T) {
		dir := t.TempDir()
		writeLevelFile(t, dir, "beta", createValidLevel("Beta"))
		writeLevelFile(t, dir, "alpha", createValidLevel("Alpha"))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Alpha" {
			t.Errorf("Expected 'Alpha' as default, got '%s'", manager.GetDefault().Name)
		}
	})
}

func TestManager_LoadLevel(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, "stage1", createValidLevel("Stage 1"))
	writeLevelFile(t, dir, "easy", createValidLevel("Easy"))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing level", func(t *testing.T) {
		level, err := manager.LoadLevel("easy")
		if err != nil {
			t.Fatalf("Failed to load level: %v", err)
		}
		if level.Name != "Easy" {
			t.Errorf("Expected level name 'Easy', got '%s'", level.Name)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		level, err := manager.LoadLevel("easy.json")
		if err != nil {
			t.Fatalf("Failed to load level with extension: %v", err)
		}
		if level.Name != "Easy" {
			t.Errorf("Expected level name 'Easy', got '%s'", level.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		level1, _ := manager.LoadLevel("easy")
		level2, err := manager.LoadLevel("easy")
		if err != nil {
			t.Fatalf("Failed to load level from cache: %v", err)
		}
		if level1 != level2 {
			t.Error("Expected level to be loaded from cache")
		}
	})

	t.Run("load non-existent level", func(t *testing.T) {
		_, err := manager.LoadLevel("non-existent")
		if !errors.Is(err, ErrLevelNotFound) {
			t.Errorf("Expected ErrLevelNotFound, got %v", err)
		}
	})

	t.Run("reject path traversal", func(t *testing.T) {
		_, err := manager.LoadLevel("../stage1")
		if !errors.Is(err, ErrLevelNotFound) {
			t.Errorf("Expected ErrLevelNotFound, got %v", err)
		}
	})

	t.Run("load invalid level", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "invalid.json"), []byte(`{"name": ""}`), 0644); err != nil {
			t.Fatalf("Failed to write invalid level: %v", err)
		}

		_, err := manager.LoadLevel("invalid")
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Expected ErrInvalidLevel, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "malformed.json"), []byte(`{"name": "Malformed", invalid json}`), 0644); err != nil {
			t.Fatalf("Failed to write malformed level: %v", err)
		}

		_, err := manager.LoadLevel("malformed")
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Expected ErrInvalidLevel, got %v", err)
		}
	})

	t.Run("generated level", func(t *testing.T) {
		level, err := manager.LoadLevel("random-6x4-7")
		if err != nil {
			t.Fatalf("Failed to generate level: %v", err)
		}
		if level.Width != 6 || level.Height != 4 {
			t.Errorf("Expected 6x4 level, got %dx%d", level.Width, level.Height)
		}

		again, _ := manager.LoadLevel("random-6x4-7")
		if again == level {
			t.Error("Generated levels should be rebuilt, not shared")
		}
		if again.Name != level.Name || len(again.Layout) != len(level.Layout) {
			t.Fatalf("Expected the same maze from the same name")
		}
		for i := range level.Layout {
			if again.Layout[i] != level.Layout[i] {
				t.Errorf("Layout row %d differs between loads", i)
			}
		}
	})

	t.Run("generated levels do not grow the cache", func(t *testing.T) {
		before := manager.cachedCount()
		for seed := 0; seed < 200; seed++ {
			if _, err := manager.LoadLevel(GeneratedName(8, 8, int64(seed))); err != nil {
				t.Fatalf("Seed %d: %v", seed, err)
			}
		}
		if after := manager.cachedCount(); after != before {
			t.Errorf("Cache grew from %d to %d levels", before, after)
		}
	})

	t.Run("generated level with bad size", func(t *testing.T) {
		_, err := manager.LoadLevel("random-1x4-7")
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Expected ErrInvalidLevel, got %v", err)
		}
	})
}

func TestManager_ListLevels(t *testing.T) {
	dir := t.TempDir()

	names := []string{"stage1", "stage2", "stage3"}
	for _, name := range names {
		level := createValidLevel(name)
		writeLevelFile(t, dir, name, level)
	}
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	levels, err := manager.ListLevels()
	if err != nil {
		t.Fatalf("Failed to list levels: %v", err)
	}
	if len(levels) != len(names) {
		t.Fatalf("Expected %d levels, got %d", len(names), len(levels))
	}

	for i, info := range levels {
		if info.LevelID != names[i] {
			t.Errorf("Expected level %d to be '%s', got '%s'", i, names[i], info.LevelID)
		}
		if info.Filename != names[i]+".json" {
			t.Errorf("Unexpected filename '%s'", info.Filename)
		}
		if !info.HasFinish {
			t.Errorf("Expected level '%s' to report a finish", info.LevelID)
		}
		if info.Width != 3 || info.Height != 2 {
			t.Errorf("Unexpected size %dx%d", info.Width, info.Height)
		}
	}
}

func TestManager_SetDefaultAndRefresh(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, "stage1", createValidLevel("Stage 1"))
	writeLevelFile(t, dir, "stage2", createValidLevel("Stage 2"))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("stage2"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if manager.GetDefaultID() != "stage2" || manager.GetDefault().Name != "Stage 2" {
		t.Errorf("Expected stage2 as default, got %s", manager.GetDefaultID())
	}

	if err := manager.SetDefault("missing"); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Expected ErrLevelNotFound, got %v", err)
	}

	// Changes on disk are picked up after a refresh
	changed := createValidLevel("Stage 1 revised")
	writeLevelFile(t, dir, "stage1", changed)

	cached, _ := manager.LoadLevel("stage1")
	if cached.Name != "Stage 1" {
		t.Errorf("Expected cached level before refresh, got '%s'", cached.Name)
	}

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}
	reloaded, _ := manager.LoadLevel("stage1")
	if reloaded.Name != "Stage 1 revised" {
		t.Errorf("Expected reloaded level, got '%s'", reloaded.Name)
	}
	if manager.GetDefaultID() != "stage1" {
		t.Errorf("Expected refresh to restore stage1 as default, got '%s'", manager.GetDefaultID())
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writeLevelFile(t, dir, "stage1", createValidLevel("Stage 1"))
	writeLevelFile(t, dir, "stage2", createValidLevel("Stage 2"))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := manager.LoadLevel("stage2"); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := manager.ListLevels(); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent access failed: %v", err)
	}
}

func TestShippedLevels(t *testing.T) {
	manager, err := NewManager(filepath.Join("..", "..", "levels"))
	if err != nil {
		t.Fatalf("Failed to open shipped levels: %v", err)
	}

	levels, err := manager.ListLevels()
	if err != nil {
		t.Fatalf("Failed to list shipped levels: %v", err)
	}
	if len(levels) < 3 {
		t.Fatalf("Expected at least 3 shipped levels, got %d", len(levels))
	}
	if manager.GetDefaultID() != PreferredDefault {
		t.Errorf("Expected '%s' as default, got '%s'", PreferredDefault, manager.GetDefaultID())
	}

	// Every next_level link resolves
	for _, info := range levels {
		if info.NextLevel == "" {
			continue
		}
		if _, err := manager.LoadLevel(info.NextLevel); err != nil {
			t.Errorf("Level '%s' links to missing next level '%s': %v", info.LevelID, info.NextLevel, err)
		}
	}
}
