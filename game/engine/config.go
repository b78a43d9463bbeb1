package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRuleset   = errors.New("invalid ruleset")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidGrid      = errors.New("invalid grid")
	ErrGameOver         = errors.New("game is already over")
)

// DefaultKeys returns the WASD key map
func DefaultKeys() KeyMap {
	return KeyMap{Up: "w", Down: "s", Left: "a", Right: "d"}
}

// DefaultRuleset returns the built-in rules: a 4x4 board, 2048 to win, two
// starting tiles, 2 and 4 equally likely, and no new tile after a move that
// changed nothing.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		Name:            "standard",
		Description:     "4x4 board, 2 and 4 equally likely, no tile after a move that changes nothing",
		WinningTile:     DefaultWinningTile,
		FourProbability: 0.5,
		StartTiles:      DefaultStartTiles,
		SpawnOnNoop:     false,
		Keys:            DefaultKeys(),
		Size:            DefaultSize,
	}
}

// BoardSize returns the configured side length, defaulting to DefaultSize
func (r *Ruleset) BoardSize() int {
	if r.Size == 0 {
		return DefaultSize
	}
	return r.Size
}

// ParseDirection resolves player input using the ruleset's key map
func (r *Ruleset) ParseDirection(input string) (Direction, error) {
	dir, ok := r.Keys.Lookup(input)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, strings.TrimSpace(input))
	}
	return dir, nil
}

// ValidateRuleset validates a ruleset for correctness and playability
func ValidateRuleset(rules *Ruleset) error {
	if rules == nil {
		return fmt.Errorf("%w: ruleset is nil", ErrInvalidRuleset)
	}
	if rules.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRuleset)
	}

	size := rules.BoardSize()
	if size < MinGridSize || size > MaxGridSize {
		return fmt.Errorf("%w: size must be between %d and %d, got %d", ErrInvalidRuleset, MinGridSize, MaxGridSize, size)
	}

	if !isPowerOfTwo(rules.WinningTile) || rules.WinningTile < 8 {
		return fmt.Errorf("%w: winning_tile must be a power of two of at least 8, got %d", ErrInvalidRuleset, rules.WinningTile)
	}

	if rules.FourProbability < 0 || rules.FourProbability > 1 {
		return fmt.Errorf("%w: four_probability must be between 0 and 1, got %g", ErrInvalidRuleset, rules.FourProbability)
	}

	if rules.StartTiles < 1 || rules.StartTiles > size*size {
		return fmt.Errorf("%w: start_tiles must be between 1 and %d, got %d", ErrInvalidRuleset, size*size, rules.StartTiles)
	}

	// Every direction needs a distinct, non-empty code
	seen := make(map[string]Direction, len(Directions))
	for _, d := range Directions {
		code := strings.ToLower(strings.TrimSpace(rules.Keys.Code(d)))
		if code == "" {
			return fmt.Errorf("%w: keys.%s is required", ErrInvalidRuleset, d)
		}
		if other, dup := seen[code]; dup {
			return fmt.Errorf("%w: keys.%s and keys.%s share code %q", ErrInvalidRuleset, other, d, code)
		}
		seen[code] = d
	}

	return nil
}
