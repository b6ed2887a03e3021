// Package websocket pushes live session updates to browser clients.
//
// A single Hub goroutine owns every connection. Clients attach to one session
// through GET /ws?session=<id> and receive JSON envelopes:
//
//	{"session_id": "ab12", "event": "connected", "data": {"client_id": "..."}}
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "solution", "data": {...}}
//
// state_update follows every accepted turn, undo, restart, reset and level
// change. solution carries the route found by the solver. The socket is
// push-only; anything a client sends is read and discarded.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	hub.BroadcastToSession(sessionID, state)
package websocket
