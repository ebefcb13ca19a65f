// Package api provides the HTTP REST API for the text quest server.
//
// Endpoints:
//
// Session Management:
//   - POST   /api/sessions                     - Create session ({"map_id": "..."})
//   - GET    /api/sessions                     - List sessions (?sort=created|accessed&order=asc|desc&limit=N&map_id=...)
//   - GET    /api/sessions/{id}                - Get session
//   - DELETE /api/sessions/{id}                - Delete session
//
// Game Operations:
//   - GET  /api/sessions/{id}/state            - Current game state
//   - POST /api/sessions/{id}/move             - {"direction": "up|down|left|right", "reset": false}
//   - POST /api/sessions/{id}/bulk-move        - {"moves": ["up", "left"], "reset": false}
//   - POST /api/sessions/{id}/reset            - Back to the map's starting coordinate
//   - GET  /api/sessions/{id}/history          - Paginated history (?page=1&limit=20&order=desc)
//
// Terrain:
//   - GET  /api/sessions/{id}/view             - Window around the player (?width=11&height=11&full=true&format=text)
//   - POST /api/sessions/{id}/terraform        - {"x": 3, "y": 4, "terrain": "forest"}; writes past the edge grow the map
//   - GET  /api/sessions/{id}/cells/{x}/{y}    - Describe one cell
//
// Maps:
//   - GET  /api/maps                           - List the map catalogue
//   - POST /api/maps                           - Save a JSON map ({"id", "name", "layout", "metadata"})
//   - GET  /api/maps/{name}                    - Map with its rendered layout
//
// Other:
//   - GET /health
//   - GET /ws?session={id}                     - WebSocket state updates
//
// Errors are returned as JSON with an HTTP status code:
//
//	{"error": "error message"}
//
// Invalid input maps to 400, unknown sessions and maps to 404.
package api
