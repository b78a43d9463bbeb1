package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/wricardo/go2048/game/engine"
	"github.com/wricardo/go2048/game/render"
	"github.com/wricardo/go2048/game/session"
)

const (
	boardTop  = 2
	cellWidth = 5
)

// UI renders a session on a tcell screen and feeds it key presses
type UI struct {
	screen  tcell.Screen
	session *session.Session
	logger  *zap.Logger
	message string
}

// New creates a UI over an initialized screen
func New(screen tcell.Screen, sess *session.Session, logger *zap.Logger) *UI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UI{
		screen:  screen,
		session: sess,
		logger:  logger.With(zap.String("session", sess.ID)),
	}
}

// Run processes events until the player quits or ctx is cancelled. Reaching
// a terminal status leaves the final board on screen until the player quits.
func (u *UI) Run(ctx context.Context) (engine.Status, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			u.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	keys := u.session.Engine.Ruleset().Keys
	for {
		u.draw()

		switch ev := u.screen.PollEvent().(type) {
		case nil:
			_, status, _ := u.session.Snapshot()
			return status, nil
		case *tcell.EventInterrupt:
			_, status, _ := u.session.Snapshot()
			return status, nil
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventKey:
			if dir, ok := keyDirection(ev, keys); ok {
				if err := u.move(dir); err != nil {
					return engine.Playing, err
				}
				continue
			}
			if isQuit(ev) {
				_, status, _ := u.session.Snapshot()
				u.logger.Info("player quit", zap.String("status", string(status)))
				return status, nil
			}
			u.message = render.InvalidInput(keys)
		}
	}
}

func (u *UI) move(dir engine.Direction) error {
	result, err := u.session.Move(dir)
	if errors.Is(err, engine.ErrGameOver) {
		u.message = render.Outcome(result.Status)
		return nil
	}
	if err != nil {
		return err
	}

	u.message = ""
	if result.Status.Terminal() {
		u.message = render.Outcome(result.Status)
		u.logger.Info("game finished", zap.String("status", string(result.Status)))
	}
	u.logger.Debug("move applied",
		zap.String("direction", string(dir)),
		zap.Bool("changed", result.Changed),
	)
	return nil
}

func (u *UI) draw() {
	grid, status, moves := u.session.Snapshot()

	u.screen.Clear()
	drawText(u.screen, 0, 0, tcell.StyleDefault.Bold(true), render.Title)

	for i, line := range strings.Split(strings.TrimSuffix(render.Board(grid), "\n"), "\n") {
		drawText(u.screen, 0, boardTop+i, tcell.StyleDefault, line)
	}
	for r, row := range grid {
		for c, value := range row {
			if value == engine.Empty {
				continue
			}
			x := 2 + c*cellWidth
			drawText(u.screen, x, boardTop+1+r, tileStyle(value), fmt.Sprintf("%4d", value))
		}
	}

	y := boardTop + grid.Size() + 3
	drawText(u.screen, 0, y, tcell.StyleDefault, fmt.Sprintf("Moves: %d  Max tile: %d", moves, engine.MaxTile(grid)))

	message := u.message
	if message == "" && status.Terminal() {
		message = render.Outcome(status)
	}
	if message != "" {
		drawText(u.screen, 0, y+1, tcell.StyleDefault.Foreground(tcell.ColorYellow), message)
	}
	keys := u.session.Engine.Ruleset().Keys
	drawText(u.screen, 0, y+3, tcell.StyleDefault.Dim(true),
		fmt.Sprintf("Arrows or %s to move, %s to quit", strings.ToUpper(keys.Up+keys.Left+keys.Down+keys.Right), quitHint(keys)))

	u.screen.Show()
}

// keyDirection maps a key event to a direction. Arrow keys are fixed; runes
// go through the ruleset key map.
func keyDirection(ev *tcell.EventKey, keys engine.KeyMap) (engine.Direction, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return engine.Up, true
	case tcell.KeyDown:
		return engine.Down, true
	case tcell.KeyLeft:
		return engine.Left, true
	case tcell.KeyRight:
		return engine.Right, true
	case tcell.KeyRune:
		return keys.Lookup(string(ev.Rune()))
	}
	return "", false
}

// isQuit is checked after the key map, so a ruleset that binds q moves
// instead of quitting.
func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

func quitHint(keys engine.KeyMap) string {
	if _, bound := keys.Lookup("q"); bound {
		return "Esc"
	}
	return "q"
}

func tileStyle(value int) tcell.Style {
	colors := []tcell.Color{
		tcell.ColorWhite,
		tcell.ColorSilver,
		tcell.ColorYellow,
		tcell.ColorOrange,
		tcell.ColorRed,
		tcell.ColorFuchsia,
		tcell.ColorAqua,
		tcell.ColorLime,
		tcell.ColorGreen,
		tcell.ColorBlue,
		tcell.ColorPurple,
	}
	idx := 0
	for v := value; v > 2 && idx < len(colors)-1; v >>= 1 {
		idx++
	}
	return tcell.StyleDefault.Foreground(colors[idx]).Bold(value >= 128)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
