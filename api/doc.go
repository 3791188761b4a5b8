// Package api provides the HTTP REST API for the maze game.
//
// The api package implements:
//   - Session lifecycle endpoints
//   - Game operations for moving, editing and resetting the personal best
//   - Level listing, retrieval and saving
//   - WebSocket upgrade for live views
//   - Prometheus metrics and a health check
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"level": "config"}, optional)
//   - GET /api/sessions - List sessions (?sort=accessed|created&order=desc|asc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - End a session, persisting its level
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current view
//   - POST /api/sessions/{id}/move - {"direction": "up"}
//   - POST /api/sessions/{id}/toggle - {"x": 45, "y": 25} or {"row": 1, "col": 2}
//   - POST /api/sessions/{id}/mode - Switch between playing and editing
//   - POST /api/sessions/{id}/reset-best - Clear the personal best
//   - POST /api/sessions/{id}/tick - One frame of input in engine order
//
// Levels:
//   - GET /api/levels - List stored levels
//   - GET /api/levels/{name} - Get a level record
//   - PUT /api/levels/{name} - Save a level record ({"PB": 0, "Maze": [[...]]})
//
// Other:
//   - GET /ws?session={id} - Live view updates
//   - GET /metrics - Prometheus metrics
//   - GET /healthz - Health check
//
// Error Handling:
//
// Errors are returned as {"error": "message"}. Unknown sessions and levels
// map to 404, mutations on an ended session to 409, and invalid directions,
// level names or records to 400.
package api
