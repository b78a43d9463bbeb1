// Package engine provides the board logic for the 2048 sliding-tile game.
//
// The engine package implements the game mechanics including:
//   - The square grid of tiles and its validation
//   - The single-line slide (compress, merge, compress)
//   - The four directional moves built from orientation adapters
//   - Random tile placement driven by an injected random source
//   - The win and loss predicates and the Playing/Won/Lost state machine
//
// Core Types:
//
// Grid is a square matrix of cell values where Empty (0) marks a free cell and
// every other value is a power of two. Ruleset holds the immutable game
// constants (winning tile, spawn weighting, key map) and Engine owns a single
// game: its grid, its random source, and its move history.
//
// Usage:
//
//	rng := rand.New(rand.NewSource(42))
//	eng, err := engine.NewEngine(engine.DefaultRuleset(), rng)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	dir, err := eng.Ruleset().ParseDirection("a")
//	if err != nil {
//		// not a direction; ask again
//	}
//	result, err := eng.Move(dir)
//
// Game Rules:
//
// Every move slides all tiles as far as possible in one direction. Two equal
// tiles that meet merge into one tile of double value, and a tile merges at
// most once per move. After a move that changed the grid a new 2 or 4 tile
// appears on a random empty cell. The game is won when a tile reaches the
// winning value and lost when the grid is full and no neighbours are equal.
package engine
