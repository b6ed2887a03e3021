package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/pursuitmaze/game/engine"
	"github.com/wricardo/mcp-training/pursuitmaze/game/levels"
	"github.com/wricardo/mcp-training/pursuitmaze/game/solver"
)

// ValidationResult captures the outcome of validating a single file.
// Errors make the level unusable; Notes are informational and include
// warnings prefixed with "!".
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Notes  []string
}

// validateLevel loads a level file and checks its structure, its next_level
// link, that the finish can be walked to, and whether the solver can win it.
func validateLevel(ctx context.Context, filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}
	fail := func(format string, args ...interface{}) ValidationResult {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
		return result
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fail("Failed to read file: %v", err)
	}

	var level engine.LevelConfig
	if err := json.Unmarshal(data, &level); err != nil {
		return fail("Invalid JSON: %v", err)
	}
	if err := engine.ValidateLevelConfig(&level); err != nil {
		return fail("%v", err)
	}

	if next := level.NextLevel; next != "" {
		if _, _, _, generated := levels.ParseGeneratedName(next); !generated {
			if _, err := os.Stat(filepath.Join(filepath.Dir(filePath), next+".json")); err != nil {
				fail("next_level %q has no level file", next)
			}
		}
	}

	grid, player, enemy, _ := engine.ParseLayout(level.Layout, level.Width, level.Height)
	finish := grid.FinishPosition()

	result.Notes = append(result.Notes,
		fmt.Sprintf("✓ Name: %s", level.Name),
		fmt.Sprintf("✓ Grid: %dx%d", level.Width, level.Height),
		fmt.Sprintf("✓ Player (%d,%d), enemy (%d,%d)", player.X, player.Y, enemy.X, enemy.Y),
	)

	if finish == engine.NotFound {
		result.Notes = append(result.Notes, "! No finish: the level can never be won")
		return result
	}
	if !reachable(grid, player, finish) {
		return fail("Finish (%d,%d) cannot be reached from the player spawn", finish.X, finish.Y)
	}
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Finish (%d,%d) reachable", finish.X, finish.Y))

	if edges := grid.AsymmetricEdges(); len(edges) > 0 {
		result.Notes = append(result.Notes, fmt.Sprintf("! %d one-sided walls", len(edges)))
	}

	res, err := solver.Solve(ctx, grid, player, enemy)
	switch {
	case err != nil:
		result.Notes = append(result.Notes, fmt.Sprintf("! Solver did not finish: %v", err))
	case res.Reached:
		result.Notes = append(result.Notes, fmt.Sprintf("✓ Winnable in %d moves", len(res.Moves())))
	case res.CapReached:
		result.Notes = append(result.Notes, fmt.Sprintf("! Solver budget of %d expansions spent without a win", res.Expansions))
	default:
		result.Notes = append(result.Notes, "! No safe route: the enemy always catches the player")
	}
	return result
}

// reachable flood fills from start, ignoring the enemy
func reachable(g *engine.Grid, start, target engine.Position) bool {
	visited := map[engine.Position]bool{start: true}
	queue := []engine.Position{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == target {
			return true
		}
		for _, dir := range engine.Directions {
			if g.Blocked(current, dir) {
				continue
			}
			next := g.Step(current, dir)
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// runValidate prints a report per file and fails when any level is invalid.
func runValidate(out io.Writer, files []string) error {
	invalid := 0
	for _, file := range files {
		result := validateLevel(context.Background(), file)

		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(out, "✅ VALID")
			for _, note := range result.Notes {
				fmt.Fprintln(out, "  "+note)
			}
			continue
		}

		invalid++
		fmt.Fprintln(out, "❌ INVALID")
		for _, e := range result.Errors {
			fmt.Fprintln(out, "  ❌ "+e)
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if invalid > 0 {
		fmt.Fprintln(out, "❌ Some levels have errors")
		return fmt.Errorf("%d of %d levels are invalid", invalid, len(files))
	}
	fmt.Fprintln(out, "✅ All levels are valid!")
	return nil
}
