package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	level := createTestLevel()

	grid, player, enemy, err := ParseLayout(level.Layout, level.Width, level.Height)
	require.NoError(t, err)

	assert.Equal(t, Position{0, 0}, player)
	assert.Equal(t, Position{0, 2}, enemy)
	assert.Equal(t, Position{2, 0}, grid.FinishPosition())

	// The wall drawn under the top middle cell is mirrored.
	assert.True(t, grid.Cell(Position{1, 2}).BlockedDown)
	assert.True(t, grid.Cell(Position{1, 1}).BlockedUp)
	assert.Empty(t, grid.AsymmetricEdges())

	// Boundary walls are present.
	assert.True(t, grid.Cell(Position{0, 0}).BlockedLeft)
	assert.True(t, grid.Cell(Position{0, 0}).BlockedDown)
	assert.True(t, grid.Cell(Position{2, 2}).BlockedUp)
	assert.True(t, grid.Cell(Position{2, 2}).BlockedRight)
	assert.False(t, grid.Cell(Position{1, 1}).BlockedLeft)
}

func TestFormatLayoutRoundTrip(t *testing.T) {
	level := createTestLevel()
	grid, player, enemy, err := ParseLayout(level.Layout, level.Width, level.Height)
	require.NoError(t, err)

	assert.Equal(t, level.Layout, FormatLayout(grid, player, enemy, nil))
}

func TestFormatLayoutMarksPath(t *testing.T) {
	grid := NewGrid(3, 1)
	grid.SetFinish(Position{2, 0})
	path := []Position{{0, 0}, {1, 0}, {2, 0}}

	lines := FormatLayout(grid, Position{0, 0}, NotFound, path)
	require.Len(t, lines, 3)
	assert.Equal(t, "| P   .   F |", lines[1])

	// Path glyphs parse back as empty cells.
	_, _, _, err := ParseLayout([]string{
		"+---+---+---+",
		"| P   .   E |",
		"+---+---+---+",
	}, 3, 1)
	assert.NoError(t, err)
}

func TestFormatLayoutDrawsOneSidedWalls(t *testing.T) {
	grid := NewGrid(2, 1)
	grid.SetEdge(Position{1, 0}, Left, true)

	lines := FormatLayout(grid, Position{0, 0}, Position{1, 0}, nil)
	require.Len(t, lines, 3)
	assert.Equal(t, "| P | E |", lines[1])
}

func TestFormatLayoutInvalidGrid(t *testing.T) {
	assert.Nil(t, FormatLayout(&Grid{Width: 2, Height: 2}, Position{}, Position{}, nil))
}

func TestValidateLevelConfig(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(l *LevelConfig)
		wantErr string
	}{
		{"valid level", func(l *LevelConfig) {}, ""},
		{"missing name", func(l *LevelConfig) { l.Name = "" }, "name is required"},
		{"missing description", func(l *LevelConfig) { l.Description = "" }, "description is required"},
		{"width too large", func(l *LevelConfig) { l.Width = MaxGridSize + 1 }, "width must be between"},
		{"height zero", func(l *LevelConfig) { l.Height = 0 }, "height must be between"},
		{"missing welcome", func(l *LevelConfig) { l.Messages.Welcome = "" }, "messages.welcome"},
		{"missing victory", func(l *LevelConfig) { l.Messages.Victory = "" }, "messages.victory"},
		{"missing caught", func(l *LevelConfig) { l.Messages.Caught = "" }, "messages.caught"},
		{"wrong line count", func(l *LevelConfig) { l.Layout = l.Layout[:6] }, "must have 7 lines"},
		{"short line", func(l *LevelConfig) { l.Layout[3] = "|          |" }, "must have 13 characters"},
		{"bad corner", func(l *LevelConfig) { l.Layout[2] = "+   ----+   +" }, "expected '+'"},
		{"invalid glyph", func(l *LevelConfig) { l.Layout[3] = "|     X     |" }, "invalid character 'X'"},
		{"invalid wall", func(l *LevelConfig) { l.Layout[3] = "|   #       |" }, "invalid vertical wall"},
		{"two players", func(l *LevelConfig) { l.Layout[3] = "|     P     |" }, "exactly one player"},
		{"missing enemy", func(l *LevelConfig) { l.Layout[1] = "|           |" }, "exactly one enemy"},
		{"two finishes", func(l *LevelConfig) { l.Layout[3] = "|     F     |" }, "at most one finish"},
		{"open boundary", func(l *LevelConfig) { l.Layout[0] = "+   +---+---+" }, "boundary must be closed"},
		{"no finish is allowed", func(l *LevelConfig) { l.Layout[5] = "| P         |" }, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			level := createTestLevel()
			test.modify(level)

			err := ValidateLevelConfig(level)
			if test.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.wantErr)
		})
	}
}

func TestValidateLevelConfigNil(t *testing.T) {
	assert.Error(t, ValidateLevelConfig(nil))
}

func TestLoadLevelConfig(t *testing.T) {
	dir := t.TempDir()
	level := createTestLevel()

	data, err := json.Marshal(level)
	require.NoError(t, err)
	path := filepath.Join(dir, "stage1.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := LoadLevelConfig(path)
	require.NoError(t, err)
	assert.Equal(t, level.Name, loaded.Name)
	assert.Equal(t, level.Layout, loaded.Layout)
	assert.Equal(t, "stage2", loaded.NextLevel)

	byName, err := LoadLevelByName(dir, "stage1")
	require.NoError(t, err)
	assert.Equal(t, level.Name, byName.Name)

	_, err = LoadLevelByName(dir, "missing")
	assert.ErrorContains(t, err, "not found")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"name": "broken"}`), 0644))
	_, err = LoadLevelByName(dir, "broken.json")
	assert.ErrorContains(t, err, "invalid level 'broken.json'")
}

func TestLoadLevelByNameUsesEnvironment(t *testing.T) {
	dir := t.TempDir()
	data, err := json.Marshal(createTestLevel())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "env.json"), data, 0644))

	t.Setenv("LEVEL_DIR", dir)
	level, err := LoadLevelByName("", "env")
	require.NoError(t, err)
	assert.Equal(t, "Engine Test Level", level.Name)
}

func TestDefaultLevelIsValid(t *testing.T) {
	level := DefaultLevel()
	require.NoError(t, ValidateLevelConfig(level))

	e, err := NewEngine(level)
	require.NoError(t, err)
	assert.Equal(t, Position{2, 0}, e.FinishPosition())
}

func TestLevelMessagesDefaults(t *testing.T) {
	msgs := LevelMessages{Welcome: "hi", Victory: "won", Caught: "lost"}.withDefaults()

	assert.Equal(t, "hi", msgs.Welcome)
	assert.Equal(t, DefaultMessages().Undone, msgs.Undone)
	assert.Equal(t, DefaultMessages().GaveUp, msgs.GaveUp)
}
