// Package mcp exposes the maze game to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API of a running server, and the JSON response is
// rendered as text an agent can read. The maze is drawn with P for the
// player, F for the finish, # for walls and . for open cells.
//
// MCP Tools:
//   - create_session, list_sessions, get_session, end_session
//   - game_state, move, bulk_move, describe_cell
//   - switch_mode, toggle_wall, reset_best
//   - list_levels, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
