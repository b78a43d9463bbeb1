package engine

import "fmt"

// RandomSource is the entropy the engine draws from. *math/rand.Rand
// satisfies it.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// GameEngine provides the main interface for game operations
type GameEngine interface {
	// Game state
	Grid() Grid
	SetGrid(grid Grid) error
	Status() Status
	Initialize()

	// Movement operations
	Move(dir Direction) (MoveResult, error)
	CanMove(dir Direction) bool
	PossibleMoves() []Direction
	PlaceRandomTile() (Spawn, bool)

	// Configuration
	Ruleset() *Ruleset

	// History
	History() []MoveHistoryEntry
	LastMove() *MoveHistoryEntry
	TotalMoves() int
}

// Engine owns a single game: its grid, its random source, and its history
type Engine struct {
	rules   *Ruleset
	rng     RandomSource
	grid    Grid
	history []MoveHistoryEntry
}

var _ GameEngine = (*Engine)(nil)

// NewEngine validates the ruleset and starts a new game with it
func NewEngine(rules *Ruleset, rng RandomSource) (*Engine, error) {
	if err := ValidateRuleset(rules); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}

	e := &Engine{
		rules: rules,
		rng:   rng,
	}
	e.Initialize()

	return e, nil
}

// NewEngineWithSeed creates an engine whose random source is seeded with seed
func NewEngineWithSeed(rules *Ruleset, seed int64) (*Engine, error) {
	return NewEngine(rules, NewRand(seed))
}

// Initialize clears the grid and history and places the starting tiles
func (e *Engine) Initialize() {
	e.grid = NewGrid(e.rules.BoardSize())
	e.history = []MoveHistoryEntry{}
	for i := 0; i < e.rules.StartTiles; i++ {
		e.PlaceRandomTile()
	}
}

// Grid returns a copy of the current grid
func (e *Engine) Grid() Grid {
	return e.grid.Clone()
}

// SetGrid replaces the grid and clears the history
func (e *Engine) SetGrid(grid Grid) error {
	if err := grid.Validate(e.rules.BoardSize()); err != nil {
		return err
	}
	e.grid = grid.Clone()
	e.history = []MoveHistoryEntry{}
	return nil
}

// Ruleset returns the rules this engine plays by
func (e *Engine) Ruleset() *Ruleset {
	return e.rules
}

// SetRandomSource replaces the random source used for future spawns
func (e *Engine) SetRandomSource(rng RandomSource) error {
	if rng == nil {
		return fmt.Errorf("random source is required")
	}
	e.rng = rng
	return nil
}

// PlaceRandomTile puts a new tile on a uniformly chosen empty cell. The tile
// is 4 with the ruleset's FourProbability and 2 otherwise. A full grid is
// left untouched and reported with ok=false.
func (e *Engine) PlaceRandomTile() (Spawn, bool) {
	empty := e.grid.EmptyCells()
	if len(empty) == 0 {
		return Spawn{}, false
	}

	pos := empty[e.rng.Intn(len(empty))]
	value := 2
	if e.rng.Float64() < e.rules.FourProbability {
		value = 4
	}
	e.grid[pos.Row][pos.Col] = value

	return Spawn{Position: pos, Value: value}, true
}

// Status returns the game state. Win is checked before loss.
func (e *Engine) Status() Status {
	if HasWon(e.grid, e.rules.WinningTile) {
		return Won
	}
	if HasLost(e.grid) {
		return Lost
	}
	return Playing
}

// Move slides the grid in the given direction and, when the grid changed
// (or always, under SpawnOnNoop), places one random tile.
func (e *Engine) Move(dir Direction) (MoveResult, error) {
	if _, ok := orientations[dir]; !ok {
		return MoveResult{}, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}
	if status := e.Status(); status.Terminal() {
		return MoveResult{Direction: dir, Status: status}, ErrGameOver
	}

	moved, changed := Move(e.grid, dir)
	e.grid = moved

	result := MoveResult{
		Direction: dir,
		Changed:   changed,
	}
	if changed || e.rules.SpawnOnNoop {
		if spawn, ok := e.PlaceRandomTile(); ok {
			result.Spawned = &spawn
		}
	}
	result.Status = e.Status()

	e.history = append(e.history, MoveHistoryEntry{
		MoveNumber: len(e.history) + 1,
		Direction:  dir,
		Changed:    result.Changed,
		Spawned:    result.Spawned,
	})

	return result, nil
}

// CanMove reports whether sliding in dir would change the grid
func (e *Engine) CanMove(dir Direction) bool {
	if e.Status().Terminal() {
		return false
	}
	_, changed := Move(e.grid, dir)
	return changed
}

// PossibleMoves returns every direction that would change the grid
func (e *Engine) PossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// History returns the moves made since the game started
func (e *Engine) History() []MoveHistoryEntry {
	return append([]MoveHistoryEntry(nil), e.history...)
}

// LastMove returns the last move made, or nil if no moves
func (e *Engine) LastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}

// TotalMoves returns the number of accepted moves
func (e *Engine) TotalMoves() int {
	return len(e.history)
}
