// Package engine provides the core rules of the maze pursuit game.
//
// The engine package implements:
//   - The maze grid with per-cell directional walls
//   - The deterministic pursuit rule used by the enemy
//   - The turn state machine (move, wait, undo, restart)
//   - Level loading and validation from JSON files
//
// Core Types:
//
// Grid holds the cells and answers edge queries (Blocked, Step,
// FinishPosition). GameEngine owns one session's GameState and resolves
// turns. LevelConfig describes a level, including its ASCII layout.
//
// Usage:
//
//	level, err := engine.LoadLevelByName("levels", "stage1")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(level)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome := gameEngine.MovePlayer(engine.Right)
//	if outcome == engine.Defeat {
//		gameEngine.Reset()
//	}
//
// Game Rules:
//
// Each turn the player moves one cell or waits. Unless the player has
// reached the finish, the enemy then moves up to two cells, closing the
// horizontal gap before the vertical one and standing still when a wall is
// in the way. The player loses if the enemy lands on them after either
// step. Victory and defeat freeze input until the level is reset.
package engine
