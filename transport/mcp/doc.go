// Package mcp exposes the maze pursuit game to AI agents over the Model
// Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API (package api) and the JSON reply is rendered as plain text with
// the ASCII maze attached. The server holds no game state of its own.
//
// Tools:
//   - create_session, get_session, list_sessions
//   - game_state, describe_cell
//   - move, bulk_move, wait, undo, restart, reset, next_level
//   - solve, turn_history
//   - list_levels, game_instructions
//
// Every tool except the listing and help tools takes a session_id. API
// failures are returned as tool errors carrying the server's message.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	resp := client.GetMCPServer().HandleMessage(ctx, body)
package mcp
