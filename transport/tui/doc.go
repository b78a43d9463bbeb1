// Package tui provides a full-screen terminal front end for 2048.
//
// The UI draws the same bordered board as the line-mode game on a tcell
// screen and applies a move for every direction key. Arrow keys always work;
// letter keys come from the session's ruleset key map. q, Esc and Ctrl-C
// quit.
//
// Usage:
//
//	screen, err := tcell.NewScreen()
//	if err != nil {
//		return err
//	}
//	if err := screen.Init(); err != nil {
//		return err
//	}
//	defer screen.Fini()
//
//	ui := tui.New(screen, sess, logger)
//	status, err := ui.Run(ctx)
package tui
