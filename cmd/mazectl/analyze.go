package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/pursuitmaze/game/engine"
	"github.com/wricardo/mcp-training/pursuitmaze/game/levels"
	"github.com/wricardo/mcp-training/pursuitmaze/game/solver"
)

// LevelStats are the figures printed by analyze
type LevelStats struct {
	Name            string
	Width, Height   int
	Player, Enemy   engine.Position
	Finish          engine.Position
	ReachableCells  int
	FinishDistance  int
	EnemyHeadStart  int
	OneSidedWalls   int
	Solution        *solver.Result
	SolveTime       time.Duration
	SolveErr        error
	HeuristicResult *solver.Result
}

// analyzeLevel gathers statistics for a validated level. Both search orders
// are run so their expansion counts can be compared.
func analyzeLevel(ctx context.Context, level *engine.LevelConfig, maxExpansions int) (*LevelStats, error) {
	grid, player, enemy, err := engine.ParseLayout(level.Layout, level.Width, level.Height)
	if err != nil {
		return nil, err
	}

	stats := &LevelStats{
		Name:           level.Name,
		Width:          level.Width,
		Height:         level.Height,
		Player:         player,
		Enemy:          enemy,
		Finish:         grid.FinishPosition(),
		ReachableCells: engine.ReachableCells(grid, player),
		EnemyHeadStart: engine.ManhattanDistance(player, enemy),
		OneSidedWalls:  len(grid.AsymmetricEdges()),
	}
	if stats.Finish == engine.NotFound {
		return stats, nil
	}
	stats.FinishDistance = engine.ManhattanDistance(player, stats.Finish)

	start := time.Now()
	stats.Solution, stats.SolveErr = solver.Solve(ctx, grid, player, enemy, solver.WithMaxExpansions(maxExpansions))
	stats.SolveTime = time.Since(start)
	if stats.SolveErr == nil {
		stats.HeuristicResult, _ = solver.Solve(ctx, grid, player, enemy,
			solver.WithMaxExpansions(maxExpansions), solver.WithHeuristic(true))
	}
	return stats, nil
}

func printStats(out io.Writer, stats *LevelStats) {
	fmt.Fprintf(out, "Name: %s\n", stats.Name)
	fmt.Fprintf(out, "Grid: %d x %d (%d cells, %d reachable)\n",
		stats.Width, stats.Height, stats.Width*stats.Height, stats.ReachableCells)
	fmt.Fprintf(out, "Player: (%d, %d)  Enemy: (%d, %d)  Distance: %d\n",
		stats.Player.X, stats.Player.Y, stats.Enemy.X, stats.Enemy.Y, stats.EnemyHeadStart)
	if stats.OneSidedWalls > 0 {
		fmt.Fprintf(out, "One-sided walls: %d\n", stats.OneSidedWalls)
	}
	if stats.ReachableCells < stats.Width*stats.Height {
		fmt.Fprintf(out, "⚠️  %d cells are sealed off from the player\n", stats.Width*stats.Height-stats.ReachableCells)
	}

	if stats.Finish == engine.NotFound {
		fmt.Fprintln(out, "⚠️  No finish cell")
		return
	}
	fmt.Fprintf(out, "Finish: (%d, %d)  Straight-line moves: %d\n", stats.Finish.X, stats.Finish.Y, stats.FinishDistance)

	switch res := stats.Solution; {
	case stats.SolveErr != nil:
		fmt.Fprintf(out, "⚠️  Solver stopped: %v\n", stats.SolveErr)
	case res.Reached:
		fmt.Fprintf(out, "✅ Winnable in %d moves (%d expansions, %s)\n", len(res.Moves()), res.Expansions, stats.SolveTime.Round(time.Microsecond))
		if h := stats.HeuristicResult; h != nil && h.Reached {
			fmt.Fprintf(out, "   Heuristic search: %d moves, %d expansions\n", len(h.Moves()), h.Expansions)
		}
	case res.CapReached:
		fmt.Fprintf(out, "⚠️  Undecided: budget of %d expansions spent\n", res.Expansions)
	default:
		fmt.Fprintf(out, "❌ Unwinnable: every route is intercepted (%d expansions)\n", res.Expansions)
	}
}

func runAnalyze(ctx context.Context, out io.Writer, files []string, maxExpansions int) error {
	for _, file := range files {
		fmt.Fprintf(out, "\n=== Analyzing %s ===\n", filepath.Base(file))

		level, err := engine.LoadLevelConfig(file)
		if err != nil {
			fmt.Fprintf(out, "Error loading level: %v\n", err)
			continue
		}
		stats, err := analyzeLevel(ctx, level, maxExpansions)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		printStats(out, stats)
	}
	return nil
}

// runSolve loads a level by id, which may be a generated random-WxH-SEED
// name, and prints the solver's route drawn on the maze.
func runSolve(ctx context.Context, out io.Writer, levelDir, levelID string, maxExpansions int, heuristic bool) error {
	manager, err := levels.NewManager(levelDir)
	if err != nil {
		return err
	}
	level, err := manager.LoadLevel(levelID)
	if err != nil {
		return err
	}
	grid, player, enemy, err := engine.ParseLayout(level.Layout, level.Width, level.Height)
	if err != nil {
		return err
	}

	res, err := solver.New(solver.WithMaxExpansions(maxExpansions), solver.WithHeuristic(heuristic)).
		Solve(ctx, grid, player, enemy)
	if res == nil {
		return err
	}

	switch {
	case err != nil:
		fmt.Fprintf(out, "Search stopped early: %v\n", err)
	case res.Reached:
		fmt.Fprintf(out, "Safe route found for %s\n", level.Name)
	case res.CapReached:
		fmt.Fprintf(out, "Search budget spent without reaching the finish\n")
	default:
		fmt.Fprintf(out, "No safe route exists for %s\n", level.Name)
	}

	moves := make([]string, 0, len(res.PlayerPath))
	for _, m := range res.Moves() {
		moves = append(moves, string(m))
	}
	fmt.Fprintf(out, "Moves (%d): %s\n", len(moves), strings.Join(moves, " "))
	fmt.Fprintf(out, "Expansions: %d, open remaining: %d\n\n", res.Expansions, res.OpenRemaining)
	for _, line := range engine.FormatLayout(grid, player, enemy, res.PlayerPath) {
		fmt.Fprintln(out, line)
	}
	return nil
}

// runGenerate writes a generated level as indented JSON.
func runGenerate(out io.Writer, width, height int, seed int64, path string) error {
	level, err := levels.Generate(width, height, seed)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(level, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" {
		_, err = out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s (%s)\n", path, levels.GeneratedName(width, height, seed))
	return nil
}
