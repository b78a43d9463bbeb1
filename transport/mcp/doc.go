// Package mcp provides a Model Context Protocol server for 2048.
//
// The mcp package implements:
//   - MCP server for AI agent integration over stdio
//   - Tool definitions for game operations
//   - Session-aware command execution against local engines
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - new_game: Start a game with an optional ruleset and seed
//   - list_sessions: List all games in this process
//   - game_state: Get the board, status and possible moves
//   - move: Slide the tiles in one direction
//   - bulk_move: Apply several moves in sequence, stopping at game over
//   - reset_game: Start a session over with the same ruleset
//   - move_history: Retrieve the moves made so far
//   - list_rulesets: List available rulesets
//   - game_instructions: Get the rules of the game
//
// Session Management:
//
// Games live in a session.Manager owned by the server and disappear when the
// process exits. Every game tool except new_game takes a session_id.
//
// Usage:
//
//	srv := mcp.NewServer(rulesets, session.NewManager(), logger)
//	if err := srv.ServeStdio(); err != nil {
//		return err
//	}
package mcp
