// Package levels provides the level catalogue for the maze pursuit game.
//
// Levels are JSON files in a single directory, addressed by file name
// without the .json extension. The manager validates and caches them, and
// picks a default: stage1 when present, otherwise the first valid file,
// otherwise a small built-in level.
//
// Ids of the form random-WxH-SEED are not read from disk. They produce a
// perfect maze generated with Wilson's algorithm, so the same id always
// yields the same level.
//
// Usage:
//
//	manager, err := levels.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := manager.LoadLevel("stage2")
//	random, err := manager.LoadLevel(levels.GeneratedName(12, 8, 7))
package levels
