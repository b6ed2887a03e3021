package levels

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/pursuitmaze/game/engine"
)

const generatedPrefix = "random-"

// GeneratedName returns the level id that regenerates the same maze
func GeneratedName(width, height int, seed int64) string {
	return fmt.Sprintf("%s%dx%d-%d", generatedPrefix, width, height, seed)
}

// ParseGeneratedName parses ids of the form random-WxH-SEED
func ParseGeneratedName(name string) (width, height int, seed int64, ok bool) {
	rest, found := strings.CutPrefix(name, generatedPrefix)
	if !found {
		return 0, 0, 0, false
	}
	size, seedStr, found := strings.Cut(rest, "-")
	if !found {
		return 0, 0, 0, false
	}
	w, h, found := strings.Cut(size, "x")
	if !found {
		return 0, 0, 0, false
	}

	var err error
	if width, err = strconv.Atoi(w); err != nil {
		return 0, 0, 0, false
	}
	if height, err = strconv.Atoi(h); err != nil {
		return 0, 0, 0, false
	}
	if seed, err = strconv.ParseInt(seedStr, 10, 64); err != nil {
		return 0, 0, 0, false
	}
	return width, height, seed, true
}

// Generate builds a random perfect maze: every cell is reachable from every
// other by exactly one route. The player starts bottom-left, the enemy
// top-right and the finish is bottom-right. The same arguments always
// produce the same level.
func Generate(width, height int, seed int64) (*engine.LevelConfig, error) {
	if width < 2 || height < 2 || width > engine.MaxGridSize || height > engine.MaxGridSize {
		return nil, fmt.Errorf("generated mazes must be between 2 and %d cells wide and high, got %dx%d", engine.MaxGridSize, width, height)
	}

	grid := engine.NewGrid(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grid.SetWall(engine.Position{X: x, Y: y}, engine.Right, true)
			grid.SetWall(engine.Position{X: x, Y: y}, engine.Up, true)
		}
	}
	carve(grid, rand.New(rand.NewSource(seed)))

	player := engine.Position{X: 0, Y: 0}
	enemy := engine.Position{X: width - 1, Y: height - 1}
	grid.SetFinish(engine.Position{X: width - 1, Y: 0})

	level := &engine.LevelConfig{
		Name:        GeneratedName(width, height, seed),
		Description: fmt.Sprintf("Randomly generated %dx%d maze (seed %d)", width, height, seed),
		Width:       width,
		Height:      height,
		Layout:      engine.FormatLayout(grid, player, enemy, nil),
		Messages:    engine.DefaultMessages(),
	}
	if err := engine.ValidateLevelConfig(level); err != nil {
		return nil, err
	}
	return level, nil
}

// carve opens walls with Wilson's algorithm: loop-erased random walks from
// cells outside the maze until they hit it.
func carve(g *engine.Grid, rng *rand.Rand) {
	total := g.Width * g.Height
	inMaze := make([]bool, total)
	inMaze[rng.Intn(total)] = true
	remaining := total - 1

	position := func(i int) engine.Position {
		return engine.Position{X: i % g.Width, Y: i / g.Width}
	}

	for remaining > 0 {
		start := rng.Intn(total)
		for inMaze[start] {
			start = rng.Intn(total)
		}

		// Revisiting a cell overwrites its exit, which erases the loop.
		exits := make(map[int]engine.Direction)
		for cell := start; !inMaze[cell]; {
			pos := position(cell)
			var options []engine.Direction
			for _, dir := range engine.Directions {
				if g.InBounds(g.Step(pos, dir)) {
					options = append(options, dir)
				}
			}
			dir := options[rng.Intn(len(options))]
			exits[cell] = dir
			cell = g.Index(g.Step(pos, dir))
		}

		for cell := start; !inMaze[cell]; {
			pos := position(cell)
			dir := exits[cell]
			g.SetWall(pos, dir, false)
			inMaze[cell] = true
			remaining--
			cell = g.Index(g.Step(pos, dir))
		}
	}
}
