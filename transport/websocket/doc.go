// Package websocket pushes game updates to browser and terminal clients.
//
// A Hub tracks connections per session. After every state change the API
// calls BroadcastToSession, and each client watching that session receives
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}, "view": "..."}
//
// where view is the text window around the player. Custom events go out with
// BroadcastEvent. Clients connect with /ws?session=<id>; anything they send
// is ignored apart from keeping the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	hub.ServeWS(w, r, sessionID)
package websocket
