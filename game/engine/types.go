package engine

import "strings"

// Direction represents one of the four slide directions
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every direction in a stable order
var Directions = []Direction{Up, Down, Left, Right}

// Status represents the lifecycle state of a game
type Status string

const (
	Playing Status = "playing"
	Won     Status = "won"
	Lost    Status = "lost"
)

// Terminal reports whether no further moves are accepted in this status
func (s Status) Terminal() bool {
	return s == Won || s == Lost
}

const (
	// Empty marks a cell that holds no tile
	Empty = 0

	DefaultSize        = 4
	DefaultWinningTile = 2048
	DefaultStartTiles  = 2

	// Validation constants
	MinGridSize = 2
	MaxGridSize = 8
)

// Position represents row,column coordinates on the grid
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// KeyMap maps each direction to the input code that selects it
type KeyMap struct {
	Up    string `json:"up"`
	Down  string `json:"down"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Code returns the input code for a direction
func (k KeyMap) Code(d Direction) string {
	switch d {
	case Up:
		return k.Up
	case Down:
		return k.Down
	case Left:
		return k.Left
	case Right:
		return k.Right
	}
	return ""
}

// Lookup resolves an input code to a direction. Matching ignores case and
// surrounding whitespace.
func (k KeyMap) Lookup(input string) (Direction, bool) {
	code := strings.ToLower(strings.TrimSpace(input))
	if code == "" {
		return "", false
	}
	for _, d := range Directions {
		if strings.ToLower(k.Code(d)) == code {
			return d, true
		}
	}
	return "", false
}

// Ruleset represents the game constants, loadable from JSON
type Ruleset struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	WinningTile     int     `json:"winning_tile"`
	FourProbability float64 `json:"four_probability"`
	StartTiles      int     `json:"start_tiles"`
	SpawnOnNoop     bool    `json:"spawn_on_noop"`
	Keys            KeyMap  `json:"keys"`

	// Size is fixed at DefaultSize for shipped rulesets; other values are
	// only reachable from code.
	Size int `json:"-"`
}

// Spawn records a tile placed by the engine
type Spawn struct {
	Position Position `json:"position"`
	Value    int      `json:"value"`
}

// MoveResult describes the outcome of a single accepted move
type MoveResult struct {
	Direction Direction `json:"direction"`
	Changed   bool      `json:"changed"`
	Spawned   *Spawn    `json:"spawned,omitempty"`
	Status    Status    `json:"status"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	MoveNumber int       `json:"move_number"`
	Direction  Direction `json:"direction"`
	Changed    bool      `json:"changed"`
	Spawned    *Spawn    `json:"spawned,omitempty"`
}
