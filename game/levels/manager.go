package levels

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/pursuitmaze/game/engine"
	"github.com/wricardo/mcp-training/pursuitmaze/game/service"
)

var (
	ErrLevelNotFound = service.ErrLevelNotFound
	ErrInvalidLevel  = errors.New("invalid level")
)

// PreferredDefault is the level used as default when present
const PreferredDefault = "stage1"

// builtinID names the built-in level used when the directory has none
const builtinID = "default"

// Manager handles level loading and caching
type Manager struct {
	levelDir     string
	defaultLevel *engine.LevelConfig
	defaultID    string
	levels       map[string]*engine.LevelConfig
	mu           sync.RWMutex
}

// NewManager creates a new level manager
func NewManager(levelDir string) (*Manager, error) {
	if _, err := os.Stat(levelDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("level directory does not exist: %s", levelDir)
	}

	m := &Manager{
		levelDir: levelDir,
		levels:   make(map[string]*engine.LevelConfig),
	}

	if err := m.loadDefaultLevel(); err != nil {
		return nil, fmt.Errorf("failed to load default level: %w", err)
	}

	return m, nil
}

// LoadLevel loads a level by name. Names of the form random-WxH-SEED are
// generated afresh on every call and are not cached.
func (m *Manager) LoadLevel(name string) (*engine.LevelConfig, error) {
	name = strings.TrimSuffix(name, ".json")

	if width, height, seed, ok := ParseGeneratedName(name); ok {
		level, err := Generate(width, height, seed)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
		}
		return level, nil
	}

	m.mu.RLock()
	if level, exists := m.levels[name]; exists {
		m.mu.RUnlock()
		return level, nil
	}
	m.mu.RUnlock()

	level, err := m.readLevel(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another caller may have loaded it meanwhile
	if cached, exists := m.levels[name]; exists {
		return cached, nil
	}
	m.levels[name] = level
	return level, nil
}

// cachedCount reports how many levels are held in the cache
func (m *Manager) cachedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.levels)
}

func (m *Manager) readLevel(name string) (*engine.LevelConfig, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("%w: %q", ErrLevelNotFound, name)
	}
	path := filepath.Join(m.levelDir, name+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrLevelNotFound, name)
		}
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	var level engine.LevelConfig
	if err := json.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("%w: failed to parse level: %v", ErrInvalidLevel, err)
	}

	if err := engine.ValidateLevelConfig(&level); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	return &level, nil
}

// ListLevels returns information about all valid level files, sorted by
// level id. Invalid files are skipped.
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	entries, err := os.ReadDir(m.levelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read level directory: %w", err)
	}

	var levels []*service.LevelInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")

		level, err := m.LoadLevel(id)
		if err != nil {
			continue
		}

		levels = append(levels, Describe(entry.Name(), id, level))
	}

	sort.Slice(levels, func(i, j int) bool { return levels[i].LevelID < levels[j].LevelID })
	return levels, nil
}

// Describe summarises a level for listings
func Describe(filename, id string, level *engine.LevelConfig) *service.LevelInfo {
	info := &service.LevelInfo{
		Filename:    filename,
		LevelID:     id,
		Name:        level.Name,
		Description: level.Description,
		Width:       level.Width,
		Height:      level.Height,
		NextLevel:   level.NextLevel,
	}
	if grid, _, _, err := engine.ParseLayout(level.Layout, level.Width, level.Height); err == nil {
		info.HasFinish = grid.FinishCount() > 0
	}
	return info
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.LevelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// GetDefaultID returns the id the default level is loaded under
func (m *Manager) GetDefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

// SetDefault sets the default level by name
func (m *Manager) SetDefault(name string) error {
	level, err := m.LoadLevel(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = level
	m.defaultID = strings.TrimSuffix(name, ".json")
	return nil
}

// RefreshCache drops every cached level and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.levels = make(map[string]*engine.LevelConfig)
	m.mu.Unlock()

	return m.loadDefaultLevel()
}

// loadDefaultLevel picks stage1, then the first valid level file, then the
// built-in level
func (m *Manager) loadDefaultLevel() error {
	id := PreferredDefault
	level, err := m.LoadLevel(id)
	if err != nil {
		levels, listErr := m.ListLevels()
		if listErr != nil || len(levels) == 0 {
			m.useBuiltin()
			return nil
		}

		id = levels[0].LevelID
		level, err = m.LoadLevel(id)
		if err != nil {
			m.useBuiltin()
			return nil
		}
	}

	m.mu.Lock()
	m.defaultLevel = level
	m.defaultID = id
	m.mu.Unlock()
	return nil
}

func (m *Manager) useBuiltin() {
	level := engine.DefaultLevel()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = level
	m.defaultID = builtinID
	m.levels[builtinID] = level
}
