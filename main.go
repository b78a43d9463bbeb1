// Command go2048 plays 2048 in the terminal.
//
// It supports four modes:
//  1. "play" (default) – line-mode game: the board is printed and one direction is read per line
//  2. "tui" – full-screen game driven by arrow keys or the ruleset's letter keys
//  3. "mcp" – MCP stdio server so an AI agent can play local games
//  4. "rulesets" – list the available rulesets
//
// Flags and GO2048_* environment variables select the ruleset, the random seed
// and the log file. Flags win over the environment.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/go2048/game/config"
	"github.com/wricardo/go2048/game/render"
	"github.com/wricardo/go2048/game/session"
	"github.com/wricardo/go2048/logging"
	"github.com/wricardo/go2048/transport/mcp"
	"github.com/wricardo/go2048/transport/tui"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "go2048"
)

// main loads .env, wires signal handling and runs the command tree.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(os.Stdin, os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

// newCommand builds the command tree reading from in and writing to out
func newCommand(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "slide and merge tiles until one reaches 2048",
		Version: Version,
		Reader:  in,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "random seed for a reproducible game (0 picks one at random)",
			},
			&cli.StringFlag{
				Name:  "ruleset",
				Usage: "ruleset to play (see the rulesets command)",
			},
			&cli.StringFlag{
				Name:  "rules-dir",
				Usage: "directory with additional ruleset JSON files",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "write JSON logs to this file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level: debug, info, warn, error",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "shorthand for --log-level debug",
			},
		},
		Action: runPlay,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "play in line mode, one direction per line (default)",
				Action: runPlay,
			},
			{
				Name:   "tui",
				Usage:  "play full-screen with arrow keys",
				Action: runTUI,
			},
			{
				Name:   "mcp",
				Usage:  "serve games to an MCP client over stdio",
				Action: runMCP,
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "session-ttl",
						Usage: "drop sessions idle for longer than this (0 keeps them until end_game)",
					},
				},
			},
			{
				Name:   "rulesets",
				Usage:  "list available rulesets",
				Action: runRulesets,
			},
		},
	}
}

// app holds the services shared by every mode
type app struct {
	settings config.Settings
	rulesets *config.Manager
	sessions *session.Manager
	logger   *zap.Logger
}

// loadSettings reads the environment and applies any flags that were set
func loadSettings(cmd *cli.Command) (config.Settings, error) {
	settings, err := config.ParseSettings()
	if err != nil {
		return settings, err
	}

	if cmd.IsSet("seed") {
		settings.Seed = cmd.Int64("seed")
	}
	if cmd.IsSet("ruleset") {
		settings.Ruleset = cmd.String("ruleset")
	}
	if cmd.IsSet("rules-dir") {
		settings.RulesDir = cmd.String("rules-dir")
	}
	if cmd.IsSet("log-file") {
		settings.LogFile = cmd.String("log-file")
	}
	if cmd.IsSet("log-level") {
		settings.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("session-ttl") {
		settings.SessionTTL = cmd.Duration("session-ttl")
	}
	if cmd.Bool("debug") {
		settings.LogLevel = "debug"
	}

	return settings, nil
}

// initializeServices builds the ruleset manager, session manager and logger
func initializeServices(cmd *cli.Command) (*app, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(settings.LogLevel, settings.LogFile)
	if err != nil {
		return nil, err
	}

	rulesets, err := config.NewManager(settings.RulesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ruleset manager: %w", err)
	}
	if settings.Ruleset != "" {
		if err := rulesets.SetDefault(settings.Ruleset); err != nil {
			return nil, err
		}
	}

	logger.Debug("services initialized",
		zap.String("version", Version),
		zap.String("ruleset", rulesets.GetDefault().Name),
		zap.String("rules_dir", settings.RulesDir),
	)

	return &app{
		settings: settings,
		rulesets: rulesets,
		sessions: session.NewManager(),
		logger:   logger,
	}, nil
}

// newSession starts a game with the configured ruleset and seed
func (a *app) newSession() (*session.Session, error) {
	return a.sessions.Create("", a.rulesets.GetDefault(), a.settings.Seed)
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	a, err := initializeServices(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	sess, err := a.newSession()
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	game := session.NewGame(sess, render.NewRenderer(out), a.logger)
	_, err = game.Run(ctx, cmd.Root().Reader, out)
	return err
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	a, err := initializeServices(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	sess, err := a.newSession()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}

	status, err := tui.New(screen, sess, a.logger).Run(ctx)
	screen.Fini()
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	grid, _, moves := sess.Snapshot()
	fmt.Fprint(out, render.Board(grid))
	if msg := render.Outcome(status); msg != "" {
		fmt.Fprintln(out, msg)
	}
	fmt.Fprintf(out, "Moves: %d  Seed: %d\n", moves, sess.Seed)
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	a, err := initializeServices(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	server := mcp.NewServer(a.rulesets, a.sessions, a.logger)
	server.SetSessionTTL(a.settings.SessionTTL)
	return server.ServeStdio()
}

func runRulesets(ctx context.Context, cmd *cli.Command) error {
	a, err := initializeServices(cmd)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	infos, err := a.rulesets.ListRulesets()
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	def := a.rulesets.GetDefault().Name
	for _, info := range infos {
		marker := " "
		if info.RulesetID == def {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-10s %-8s win=%d four=%.2f spawn_on_noop=%t  %s\n",
			marker, info.RulesetID, info.Source, info.WinningTile, info.FourProbability, info.SpawnOnNoop, info.Description)
	}
	return nil
}
