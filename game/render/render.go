// Package render draws the game board as fixed-width text.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/wricardo/go2048/game/engine"
)

const (
	Title         = "2048 Game!"
	WinMessage    = "You win!"
	LossMessage   = "Game over! No more moves left."
	clearSequence = "\033[H\033[2J"
	cellWidth     = 4
)

// Renderer writes the board to a text stream
type Renderer struct {
	// Clear emits a clear-screen sequence before each board
	Clear bool
}

// NewRenderer returns a renderer that clears the screen only when out is a
// terminal
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{Clear: IsTerminal(out)}
}

// IsTerminal reports whether w is a file attached to a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Render writes the title and bordered board to w
func (r *Renderer) Render(w io.Writer, grid engine.Grid) error {
	var b strings.Builder
	if r.Clear {
		b.WriteString(clearSequence)
	}
	b.WriteString(Title)
	b.WriteByte('\n')
	b.WriteString(Board(grid))

	_, err := io.WriteString(w, b.String())
	return err
}

// Board formats the grid between two dashed borders, one row per line
func Board(grid engine.Grid) string {
	border := strings.Repeat("-", (cellWidth+1)*grid.Size()+1)

	var b strings.Builder
	b.WriteString(border)
	b.WriteByte('\n')
	for _, row := range grid {
		b.WriteString("| ")
		for _, value := range row {
			fmt.Fprintf(&b, "%*d ", cellWidth, value)
		}
		b.WriteString("|\n")
	}
	b.WriteString(border)
	b.WriteByte('\n')
	return b.String()
}

// Prompt asks for a direction using the ruleset's key map
func Prompt(keys engine.KeyMap) string {
	return fmt.Sprintf("Use %s to move (%s=up, %s=down, %s=left, %s=right): ",
		strings.ToUpper(keys.Up+keys.Left+keys.Down+keys.Right),
		keys.Up, keys.Down, keys.Left, keys.Right)
}

// InvalidInput is shown when the input does not name a direction
func InvalidInput(keys engine.KeyMap) string {
	return fmt.Sprintf("Invalid input. Please use %s, %s, %s, or %s.",
		keys.Up, keys.Left, keys.Down, keys.Right)
}

// Outcome returns the closing message for a terminal status
func Outcome(status engine.Status) string {
	switch status {
	case engine.Won:
		return WinMessage
	case engine.Lost:
		return LossMessage
	}
	return ""
}
