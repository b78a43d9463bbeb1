// Package session runs games of 2048 for a player.
//
// The session package implements:
//   - Session, one game with its engine, ruleset name and seed
//   - Manager, a thread-safe in-memory registry of sessions
//   - Game, the line-mode loop that renders the board, reads a direction
//     per line and applies it
//
// Session Identifiers:
//
// Sessions use 4-character hexadecimal IDs generated from crypto/rand. IDs are
// matched case-insensitively.
//
// Game Loop:
//
// Each turn the board is rendered and the status checked, win first. A
// terminal status prints the closing message and ends the loop. Otherwise the
// prompt is printed and one line is read. Input that does not name a
// direction is reported and consumes no turn. EOF on the input or a cancelled
// context ends the loop without error.
//
// Usage:
//
//	manager := session.NewManager()
//	sess, err := manager.Create("", rules, seed)
//	if err != nil {
//		return err
//	}
//
//	game := session.NewGame(sess, render.NewRenderer(os.Stdout), logger)
//	status, err := game.Run(ctx, os.Stdin, os.Stdout)
package session
