// Package mcp exposes the text quest REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes one or two HTTP
// requests against a running server, and the JSON response is formatted as
// text for the agent. Tool failures are returned as error results rather
// than protocol errors.
//
// Tools:
//   - create_session, get_session, list_sessions
//   - list_maps, show_map
//   - game_state, look, describe_cell
//   - move, bulk_move, reset_game, move_history
//   - terraform
//   - game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
