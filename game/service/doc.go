// Package service provides the business logic layer for the maze pursuit game.
//
// The service package implements:
//   - Multi-session game management
//   - Turn processing (moves, waits, undo, restart) with per-turn events
//   - Level progression through each level's next_level link
//   - Paginated turn history
//   - Route solving against a snapshot of a session
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and persistence.
// LevelManager loads levels and picks the default one.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and
// the turn engine. Every session owns its own engine; the service serialises
// access to them and saves the session after each change. Solving copies the
// session's grid and positions under the lock and searches without holding
// it, so a long search never blocks play.
//
// Usage:
//
//	levelMgr, _ := levels.NewManager("levels")
//	persistence, _ := session.NewFilePersistence("sessions", levelMgr)
//	sessionMgr := session.NewManagerWithPersistence(persistence)
//	gameService := service.NewGameService(sessionMgr, levelMgr, service.WithSolveTimeout(3*time.Second))
//
//	info, err := gameService.CreateSession(ctx, "stage1")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "right", false)
//	route, err := gameService.Solve(ctx, info.ID, service.SolveOptions{})
package service
