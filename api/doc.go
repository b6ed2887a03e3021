// Package api provides the HTTP REST API for the maze pursuit game.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                 create a session, body {"level_id": "stage1"}
//   - GET    /api/sessions                 list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/unified         multi-session view (?sessionIds=a,b or ?levelId=stage1)
//   - GET    /api/sessions/{id}            session info with the rendered maze
//   - DELETE /api/sessions/{id}            delete a session
//
// Turns:
//   - GET  /api/sessions/{id}/state       raw game state
//   - POST /api/sessions/{id}/move        {"direction": "up|down|left|right|wait", "reset": false}
//   - POST /api/sessions/{id}/bulk-move   {"moves": ["right", "up"], "reset": false}
//   - POST /api/sessions/{id}/wait
//   - POST /api/sessions/{id}/undo
//   - POST /api/sessions/{id}/restart     give up the current attempt
//   - POST /api/sessions/{id}/reset       reload the level
//   - POST /api/sessions/{id}/next-level  advance after a victory
//   - GET  /api/sessions/{id}/history     paginated turns (?page=1&limit=20&order=desc)
//   - POST /api/sessions/{id}/solve       {"max_expansions": 10000, "heuristic": false}
//
// Levels:
//   - GET /api/levels
//   - GET /api/levels/{name}
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id}                 live updates, see package websocket
//
// Errors are returned as {"error": "message"}. Unknown sessions and levels
// give 404, malformed input 400, and actions that need a live or won game
// give 409.
//
// Every state change is pushed to the session's WebSocket watchers and a
// one-line summary is printed to stdout, prefixed [MOVE], [BULK], [LEVEL] or
// [SOLVE].
package api
