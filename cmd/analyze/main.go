// Command analyze plays many seeded games per ruleset with a simple automatic
// player and prints a human-readable summary: win rate, average moves and the
// distribution of the largest tile reached. It is a quick way to see how a
// ruleset's spawn odds and no-op rule change the difficulty.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/go2048/game/config"
	"github.com/wricardo/go2048/game/engine"
)

// Strategy picks the next direction from the ones that change the grid
type Strategy func(possible []engine.Direction, rng engine.RandomSource) engine.Direction

// strategies available on the command line
var strategies = map[string]Strategy{
	"random": randomStrategy,
	"corner": cornerStrategy,
}

// randomStrategy picks uniformly among the possible moves
func randomStrategy(possible []engine.Direction, rng engine.RandomSource) engine.Direction {
	return possible[rng.Intn(len(possible))]
}

// cornerStrategy keeps tiles in the bottom-left corner: down, then left, then
// right, and up only when nothing else works
func cornerStrategy(possible []engine.Direction, _ engine.RandomSource) engine.Direction {
	for _, want := range []engine.Direction{engine.Down, engine.Left, engine.Right, engine.Up} {
		for _, d := range possible {
			if d == want {
				return d
			}
		}
	}
	return possible[0]
}

// AnalysisResult summarizes the games played with one ruleset
type AnalysisResult struct {
	Ruleset    string
	Games      int
	Wins       int
	Losses     int
	Unfinished int
	TotalMoves int
	MaxTiles   map[int]int
}

// WinRate is the share of games won
func (r AnalysisResult) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games)
}

// AverageMoves is the mean number of accepted moves per game
func (r AnalysisResult) AverageMoves() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.TotalMoves) / float64(r.Games)
}

// BestTile is the largest tile reached in any game
func (r AnalysisResult) BestTile() int {
	best := 0
	for tile := range r.MaxTiles {
		if tile > best {
			best = tile
		}
	}
	return best
}

// Analyze plays games with rules, seeding game i with seed+i. Games that are
// still going after maxMoves accepted moves count as unfinished.
func Analyze(rules *engine.Ruleset, games int, seed int64, maxMoves int, strategy Strategy) (AnalysisResult, error) {
	result := AnalysisResult{
		Ruleset:  rules.Name,
		MaxTiles: make(map[int]int),
	}

	for i := 0; i < games; i++ {
		eng, err := engine.NewEngineWithSeed(rules, seed+int64(i))
		if err != nil {
			return result, fmt.Errorf("game %d: %w", i, err)
		}
		player := engine.NewRand(seed + int64(i) + 1)

		for eng.TotalMoves() < maxMoves && !eng.Status().Terminal() {
			possible := eng.PossibleMoves()
			if len(possible) == 0 {
				break
			}
			if _, err := eng.Move(strategy(possible, player)); err != nil {
				return result, fmt.Errorf("game %d: %w", i, err)
			}
		}

		result.Games++
		result.TotalMoves += eng.TotalMoves()
		result.MaxTiles[engine.MaxTile(eng.Grid())]++
		switch eng.Status() {
		case engine.Won:
			result.Wins++
		case engine.Lost:
			result.Losses++
		default:
			result.Unfinished++
		}
	}

	return result, nil
}

// PrintReport writes one block per result
func PrintReport(w io.Writer, results []AnalysisResult) {
	for _, r := range results {
		fmt.Fprintf(w, "\n=== Ruleset %s ===\n", r.Ruleset)
		fmt.Fprintf(w, "Games: %d  Wins: %d  Losses: %d  Unfinished: %d\n", r.Games, r.Wins, r.Losses, r.Unfinished)
		fmt.Fprintf(w, "Win rate: %.1f%%  Average moves: %.1f  Best tile: %d\n", r.WinRate()*100, r.AverageMoves(), r.BestTile())

		tiles := make([]int, 0, len(r.MaxTiles))
		for tile := range r.MaxTiles {
			tiles = append(tiles, tile)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(tiles)))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "max tile\tgames\tshare\t")
		for _, tile := range tiles {
			count := r.MaxTiles[tile]
			fmt.Fprintf(tw, "%d\t%d\t%.1f%%\t\n", tile, count, float64(count)*100/float64(r.Games))
		}
		tw.Flush()
	}
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	strategy, ok := strategies[cmd.String("strategy")]
	if !ok {
		return fmt.Errorf("unknown strategy %q", cmd.String("strategy"))
	}
	games := int(cmd.Int64("games"))
	if games <= 0 {
		return fmt.Errorf("games must be positive, got %d", games)
	}

	manager, err := config.NewManager(cmd.String("rules-dir"))
	if err != nil {
		return err
	}

	names := cmd.StringSlice("ruleset")
	if len(names) == 0 {
		infos, err := manager.ListRulesets()
		if err != nil {
			return err
		}
		for _, info := range infos {
			names = append(names, info.RulesetID)
		}
	}

	results := make([]AnalysisResult, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		rules, err := manager.LoadRuleset(name)
		if err != nil {
			return err
		}
		result, err := Analyze(rules, games, cmd.Int64("seed"), int(cmd.Int64("max-moves")), strategy)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	PrintReport(cmd.Root().Writer, results)
	return nil
}

func newCommand(out io.Writer) *cli.Command {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	return &cli.Command{
		Name:   "analyze",
		Usage:  "simulate games per ruleset and summarize the outcomes",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "ruleset",
				Usage: "ruleset to analyze (repeatable, default all)",
			},
			&cli.StringFlag{
				Name:  "rules-dir",
				Usage: "directory with additional ruleset JSON files",
			},
			&cli.Int64Flag{
				Name:  "games",
				Value: 100,
				Usage: "games to play per ruleset",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Value: 1,
				Usage: "seed of the first game",
			},
			&cli.Int64Flag{
				Name:  "max-moves",
				Value: 5000,
				Usage: "give up on a game after this many moves",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Value: "corner",
				Usage: "automatic player: " + strings.Join(names, ", "),
			},
		},
		Action: runAnalyze,
	}
}

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
