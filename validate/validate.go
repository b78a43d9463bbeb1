// Command validate checks ruleset JSON files before they are dropped into a
// rules directory. It checks:
//   - JSON structure, rejecting unknown fields
//   - Ruleset constraints (winning tile, four probability, start tiles, keys)
//   - Playability: a game can be created and every direction accepted
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/go2048/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Messages contains informational lines; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Messages []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// validateRuleset loads and validates a single ruleset JSON file
func validateRuleset(filePath string) ValidationResult {
	result := ValidationResult{
		File:     filepath.Base(filePath),
		Valid:    true,
		Messages: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var rules engine.Ruleset
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rules); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}
	rules.Size = engine.DefaultSize

	if id := strings.TrimSuffix(result.File, ".json"); rules.Name != "" && rules.Name != id {
		result.Messages = append(result.Messages, fmt.Sprintf("⚠ name %q differs from file name %q; the file name is the ruleset ID", rules.Name, id))
	}

	if err := engine.ValidateRuleset(&rules); err != nil {
		result.fail("%v", err)
		return result
	}

	playability := validatePlayability(&rules)
	if !playability.Valid {
		result.Valid = false
	}
	result.Messages = append(result.Messages, playability.Messages...)

	if result.Valid {
		result.Messages = append(result.Messages,
			fmt.Sprintf("✓ Name: %s", rules.Name),
			fmt.Sprintf("✓ Winning tile: %d", rules.WinningTile),
			fmt.Sprintf("✓ Four probability: %.2f", rules.FourProbability),
			fmt.Sprintf("✓ Start tiles: %d", rules.StartTiles),
			fmt.Sprintf("✓ Spawn on no-op: %t", rules.SpawnOnNoop),
			fmt.Sprintf("✓ Keys: up=%s down=%s left=%s right=%s", rules.Keys.Up, rules.Keys.Down, rules.Keys.Left, rules.Keys.Right),
		)
	}

	return result
}

// validatePlayability starts a seeded game and tries each direction once
func validatePlayability(rules *engine.Ruleset) ValidationResult {
	result := ValidationResult{Valid: true}

	eng, err := engine.NewEngineWithSeed(rules, 1)
	if err != nil {
		result.fail("Failed to start a game: %v", err)
		return result
	}
	if got := engine.CountTiles(eng.Grid()); got != rules.StartTiles {
		result.fail("Expected %d starting tiles, got %d", rules.StartTiles, got)
	}
	if eng.Status().Terminal() {
		result.Messages = append(result.Messages, fmt.Sprintf("⚠ game is %s before the first move", eng.Status()))
		return result
	}

	for _, dir := range engine.Directions {
		if _, err := eng.Move(dir); err != nil && !errors.Is(err, engine.ErrGameOver) {
			result.fail("Move %s failed: %v", dir, err)
		}
	}
	return result
}

// validateDir validates every *.json file in dir and prints a report. It
// returns false if any file is invalid.
func validateDir(w io.Writer, dir string) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("finding ruleset files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no ruleset files in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateRuleset(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Messages {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, msg := range result.Messages {
				if !strings.HasPrefix(msg, "✓") {
					fmt.Fprintln(w, "  ❌ "+msg)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All rulesets are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some rulesets have errors")
	}
	return allValid, nil
}

// main validates the directory given as the first argument (default
// game/config/rulesets) and exits non-zero if any ruleset is invalid.
func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "validate ruleset JSON files",
		ArgsUsage: "[dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				dir = filepath.Join("game", "config", "rulesets")
			}
			ok, err := validateDir(os.Stdout, dir)
			if err != nil {
				return err
			}
			if !ok {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
