package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Layout glyphs
const (
	GlyphPlayer = 'P'
	GlyphEnemy  = 'E'
	GlyphFinish = 'F'
	GlyphPath   = '.'
	GlyphEmpty  = ' '
)

// LevelMessages are the strings shown to the player on each event
type LevelMessages struct {
	Welcome string `json:"welcome"`
	Moved   string `json:"moved,omitempty"`
	Blocked string `json:"blocked,omitempty"`
	Waited  string `json:"waited,omitempty"`
	Undone  string `json:"undone,omitempty"`
	Victory string `json:"victory"`
	Caught  string `json:"caught"`
	GaveUp  string `json:"gave_up,omitempty"`
}

// LevelConfig is a level loaded from JSON. Layout is an ASCII drawing of the
// maze: 2*height+1 lines of 4*width+1 characters, top row first.
//
//	+---+---+---+
//	|       | F |
//	+   +---+   +
//	|           |
//	+   +   +   +
//	| P       E |
//	+---+---+---+
type LevelConfig struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	Layout      []string      `json:"layout"`
	NextLevel   string        `json:"next_level,omitempty"`
	Messages    LevelMessages `json:"messages"`
}

// DefaultMessages returns the built-in message set
func DefaultMessages() LevelMessages {
	return LevelMessages{
		Welcome: "Reach the flag before the hunter catches you. It moves twice for every step you take.",
		Moved:   "You moved %s.",
		Blocked: "A wall blocks the way %s.",
		Waited:  "You held your ground.",
		Undone:  "Turn undone.",
		Victory: "You escaped!",
		Caught:  "The hunter caught you.",
		GaveUp:  "You gave up.",
	}
}

// withDefaults fills optional messages that the level left empty
func (m LevelMessages) withDefaults() LevelMessages {
	d := DefaultMessages()
	if m.Welcome == "" {
		m.Welcome = d.Welcome
	}
	if m.Moved == "" {
		m.Moved = d.Moved
	}
	if m.Blocked == "" {
		m.Blocked = d.Blocked
	}
	if m.Waited == "" {
		m.Waited = d.Waited
	}
	if m.Undone == "" {
		m.Undone = d.Undone
	}
	if m.Victory == "" {
		m.Victory = d.Victory
	}
	if m.Caught == "" {
		m.Caught = d.Caught
	}
	if m.GaveUp == "" {
		m.GaveUp = d.GaveUp
	}
	return m
}

// ValidateLevelConfig validates a level for correctness. A level without a
// finish cell is accepted: it can be played but never won.
func ValidateLevelConfig(level *LevelConfig) error {
	if level == nil {
		return fmt.Errorf("level validation: level is nil")
	}
	if level.Name == "" {
		return fmt.Errorf("level validation: name is required")
	}
	if level.Description == "" {
		return fmt.Errorf("level validation: description is required")
	}
	if level.Width < MinGridSize || level.Width > MaxGridSize {
		return fmt.Errorf("level validation: width must be between %d and %d, got %d", MinGridSize, MaxGridSize, level.Width)
	}
	if level.Height < MinGridSize || level.Height > MaxGridSize {
		return fmt.Errorf("level validation: height must be between %d and %d, got %d", MinGridSize, MaxGridSize, level.Height)
	}
	if level.Messages.Welcome == "" {
		return fmt.Errorf("level validation: messages.welcome is required")
	}
	if level.Messages.Victory == "" {
		return fmt.Errorf("level validation: messages.victory is required")
	}
	if level.Messages.Caught == "" {
		return fmt.Errorf("level validation: messages.caught is required")
	}

	grid, _, _, err := ParseLayout(level.Layout, level.Width, level.Height)
	if err != nil {
		return fmt.Errorf("level validation: %w", err)
	}
	if grid.FinishCount() > 1 {
		return fmt.Errorf("level validation: layout must contain at most one finish (F), got %d", grid.FinishCount())
	}
	return nil
}

// ParseLayout builds a grid from an ASCII layout and returns the player and
// enemy spawn points. Walls are read from the shared characters between
// cells, so parsed walls are always mirrored.
func ParseLayout(layout []string, width, height int) (*Grid, Position, Position, error) {
	player, enemy := NotFound, NotFound
	if len(layout) != 2*height+1 {
		return nil, player, enemy, fmt.Errorf("layout must have %d lines for height %d, got %d", 2*height+1, height, len(layout))
	}
	lineLen := 4*width + 1
	for i, line := range layout {
		if len(line) != lineLen {
			return nil, player, enemy, fmt.Errorf("layout line %d must have %d characters for width %d, got %d", i+1, lineLen, width, len(line))
		}
		if i%2 == 0 {
			for x := 0; x <= width; x++ {
				if line[4*x] != '+' {
					return nil, player, enemy, fmt.Errorf("layout line %d: expected '+' at column %d", i+1, 4*x+1)
				}
			}
		}
	}

	hwall := func(line string, x int) (bool, error) {
		switch seg := line[4*x+1 : 4*x+4]; seg {
		case "---":
			return true, nil
		case "   ":
			return false, nil
		default:
			return false, fmt.Errorf("invalid horizontal wall %q", seg)
		}
	}
	vwall := func(line string, col int) (bool, error) {
		switch line[col] {
		case '|':
			return true, nil
		case ' ':
			return false, nil
		default:
			return false, fmt.Errorf("invalid vertical wall '%c'", line[col])
		}
	}

	grid := &Grid{Width: width, Height: height, Cells: make([]Cell, width*height)}
	for y := 0; y < height; y++ {
		r := height - 1 - y
		above, row, below := layout[2*r], layout[2*r+1], layout[2*r+2]
		for x := 0; x < width; x++ {
			c := &grid.Cells[y*width+x]
			var err error
			if c.BlockedUp, err = hwall(above, x); err != nil {
				return nil, player, enemy, fmt.Errorf("layout line %d: %w", 2*r+1, err)
			}
			if c.BlockedDown, err = hwall(below, x); err != nil {
				return nil, player, enemy, fmt.Errorf("layout line %d: %w", 2*r+3, err)
			}
			if c.BlockedLeft, err = vwall(row, 4*x); err != nil {
				return nil, player, enemy, fmt.Errorf("layout line %d: %w", 2*r+2, err)
			}
			if c.BlockedRight, err = vwall(row, 4*x+4); err != nil {
				return nil, player, enemy, fmt.Errorf("layout line %d: %w", 2*r+2, err)
			}

			pos := Position{X: x, Y: y}
			switch glyph := row[4*x+2]; glyph {
			case GlyphPlayer:
				if player != NotFound {
					return nil, player, enemy, fmt.Errorf("layout must contain exactly one player (P)")
				}
				player = pos
			case GlyphEnemy:
				if enemy != NotFound {
					return nil, player, enemy, fmt.Errorf("layout must contain exactly one enemy (E)")
				}
				enemy = pos
			case GlyphFinish:
				c.IsFinish = true
			case GlyphEmpty, GlyphPath:
			default:
				return nil, player, enemy, fmt.Errorf("invalid character '%c' at row %d, col %d", glyph, y, x)
			}
		}
	}

	if player == NotFound {
		return nil, player, enemy, fmt.Errorf("layout must contain exactly one player (P)")
	}
	if enemy == NotFound {
		return nil, player, enemy, fmt.Errorf("layout must contain exactly one enemy (E)")
	}
	for y := 0; y < height; y++ {
		if !grid.Cells[y*width].BlockedLeft || !grid.Cells[y*width+width-1].BlockedRight {
			return nil, player, enemy, fmt.Errorf("layout boundary must be closed at row %d", y)
		}
	}
	for x := 0; x < width; x++ {
		if !grid.Cells[x].BlockedDown || !grid.Cells[(height-1)*width+x].BlockedUp {
			return nil, player, enemy, fmt.Errorf("layout boundary must be closed at column %d", x)
		}
	}
	return grid, player, enemy, nil
}

// FormatLayout renders a grid in the layout format. Path cells are marked
// with '.', actor glyphs win over path and finish glyphs. A wall present on
// either side of an edge is drawn.
func FormatLayout(g *Grid, player, enemy Position, path []Position) []string {
	if g == nil || g.Validate() != nil {
		return nil
	}
	onPath := make(map[Position]bool, len(path))
	for _, p := range path {
		onPath[p] = true
	}

	hline := func(y int, up bool) string {
		var b strings.Builder
		b.WriteByte('+')
		for x := 0; x < g.Width; x++ {
			pos := Position{X: x, Y: y}
			wall := false
			if up {
				wall = edgeSet(g.Cell(pos), Up) || y == g.Height-1 || edgeSet(g.Cell(g.Step(pos, Up)), Down)
			} else {
				wall = edgeSet(g.Cell(pos), Down) || y == 0 || edgeSet(g.Cell(g.Step(pos, Down)), Up)
			}
			if wall {
				b.WriteString("---+")
			} else {
				b.WriteString("   +")
			}
		}
		return b.String()
	}

	lines := make([]string, 0, 2*g.Height+1)
	for y := g.Height - 1; y >= 0; y-- {
		lines = append(lines, hline(y, true))
		var b strings.Builder
		for x := 0; x < g.Width; x++ {
			pos := Position{X: x, Y: y}
			if x == 0 || g.Blocked(g.Step(pos, Left), Right) {
				b.WriteByte('|')
			} else {
				b.WriteByte(' ')
			}
			glyph := byte(GlyphEmpty)
			switch {
			case pos == player:
				glyph = GlyphPlayer
			case pos == enemy:
				glyph = GlyphEnemy
			case g.Cell(pos).IsFinish:
				glyph = GlyphFinish
			case onPath[pos]:
				glyph = GlyphPath
			}
			b.WriteByte(' ')
			b.WriteByte(glyph)
			b.WriteByte(' ')
		}
		b.WriteByte('|')
		lines = append(lines, b.String())
	}
	lines = append(lines, hline(0, false))
	return lines
}

// LoadLevelConfig loads and validates a level from a JSON file
func LoadLevelConfig(filename string) (*LevelConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var level LevelConfig
	if err := json.Unmarshal(data, &level); err != nil {
		return nil, err
	}

	if err := ValidateLevelConfig(&level); err != nil {
		return nil, err
	}

	return &level, nil
}

// LoadLevelByName loads a level by name from dir. The LEVEL_DIR environment
// variable is used when dir is empty.
func LoadLevelByName(dir, name string) (*LevelConfig, error) {
	if dir == "" {
		dir = os.Getenv("LEVEL_DIR")
	}
	if dir == "" {
		dir = "levels"
	}
	if !strings.HasSuffix(name, ".json") {
		name = name + ".json"
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("level file '%s' not found", name)
	}

	level, err := LoadLevelConfig(path)
	if err != nil {
		return nil, fmt.Errorf("invalid level '%s': %w", name, err)
	}
	return level, nil
}

// DefaultLevel returns the built-in level used when no level files exist.
func DefaultLevel() *LevelConfig {
	return &LevelConfig{
		Name:        "Default",
		Description: "A small open maze with a single wall",
		Width:       3,
		Height:      3,
		Layout: []string{
			"+---+---+---+",
			"| E         |",
			"+   +---+   +",
			"|           |",
			"+   +   +   +",
			"| P       F |",
			"+---+---+---+",
		},
		Messages: DefaultMessages(),
	}
}

// InitGameStateFromLevel creates a fresh session state for a level. The
// level must already be valid.
func InitGameStateFromLevel(level *LevelConfig) (*GameState, error) {
	grid, player, enemy, err := ParseLayout(level.Layout, level.Width, level.Height)
	if err != nil {
		return nil, err
	}
	return newGameState(grid, player, enemy, level.Name, level.NextLevel, level.Messages.withDefaults().Welcome), nil
}

func newGameState(grid *Grid, player, enemy Position, name, next, message string) *GameState {
	return &GameState{
		Grid:              grid,
		PlayerPos:         player,
		EnemyPos:          enemy,
		PlayerSpawn:       player,
		EnemySpawn:        enemy,
		FinishPos:         grid.FinishPosition(),
		UndoHistory:       []UndoStep{},
		Status:            Continue,
		Phase:             PhasePlayerTurn,
		Message:           message,
		LevelName:         name,
		NextLevel:         next,
		TurnHistory:       []TurnRecord{},
		CurrentTurns:      []TurnRecord{},
		CurrentTurnsCount: 0,
	}
}
