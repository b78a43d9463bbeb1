package session

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/wricardo/go2048/game/engine"
	"github.com/wricardo/go2048/game/render"
)

// Game drives a session from a line-oriented input stream
type Game struct {
	session  *Session
	renderer *render.Renderer
	logger   *zap.Logger
}

// NewGame creates a game loop for sess. A nil logger disables logging.
func NewGame(sess *Session, renderer *render.Renderer, logger *zap.Logger) *Game {
	if renderer == nil {
		renderer = &render.Renderer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		session:  sess,
		renderer: renderer,
		logger:   logger.With(zap.String("session", sess.ID)),
	}
}

// Run plays until the game ends, the input is exhausted or ctx is cancelled.
// It returns the status the game was left in.
func (g *Game) Run(ctx context.Context, in io.Reader, out io.Writer) (engine.Status, error) {
	rules := g.session.Engine.Ruleset()
	g.logger.Info("game started",
		zap.String("ruleset", g.session.RulesetID),
		zap.Int64("seed", g.session.Seed),
	)

	lines, readErr, stop := readLines(in)
	defer stop()

	for {
		grid, status, moves := g.session.Snapshot()
		if err := g.renderer.Render(out, grid); err != nil {
			return status, fmt.Errorf("render board: %w", err)
		}

		if status.Terminal() {
			fmt.Fprintln(out, render.Outcome(status))
			g.logger.Info("game finished",
				zap.String("status", string(status)),
				zap.Int("moves", moves),
				zap.Int("max_tile", engine.MaxTile(grid)),
			)
			return status, nil
		}

		fmt.Fprint(out, render.Prompt(rules.Keys))

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			g.logger.Info("game interrupted", zap.Int("moves", moves))
			return status, nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				if err := <-readErr; err != nil {
					return status, fmt.Errorf("read input: %w", err)
				}
				g.logger.Info("input closed", zap.Int("moves", moves))
				return status, nil
			}
			line = l
		}

		dir, err := rules.ParseDirection(line)
		if err != nil {
			g.logger.Debug("rejected input", zap.String("input", line))
			fmt.Fprintln(out, render.InvalidInput(rules.Keys))
			continue
		}

		result, err := g.session.Move(dir)
		if err != nil {
			return status, err
		}

		fields := []zap.Field{
			zap.String("direction", string(dir)),
			zap.Bool("changed", result.Changed),
			zap.String("status", string(result.Status)),
		}
		if result.Spawned != nil {
			fields = append(fields,
				zap.Int("spawn_row", result.Spawned.Position.Row),
				zap.Int("spawn_col", result.Spawned.Position.Col),
				zap.Int("spawn_value", result.Spawned.Value),
			)
		}
		g.logger.Debug("move applied", fields...)
	}
}

// readLines scans in on a separate goroutine so a blocked read never holds up
// cancellation. The error channel receives the scanner error once lines is
// closed.
func readLines(in io.Reader) (<-chan string, <-chan error, func()) {
	lines := make(chan string)
	errc := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc, func() { close(done) }
}
