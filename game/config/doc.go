// Package config provides configuration management for the 2048 game.
//
// The config package handles:
//   - Loading rulesets from JSON files
//   - Ruleset validation through the engine
//   - Default ruleset management
//   - Ruleset discovery and listing
//   - Process settings read from the environment
//
// Ruleset Format:
//
// Rulesets are JSON documents. The shipped ones are embedded in the binary;
// a rules directory may add new rulesets or override shipped ones by name.
// Each ruleset defines:
//   - The winning tile value
//   - The chance that a new tile is a 4 instead of a 2
//   - How many tiles the board starts with
//   - Whether a move that changes nothing still places a tile
//   - The input codes for the four directions
//
// Available Rulesets:
//   - standard: 2 and 4 equally likely, no tile after a no-op move (default)
//   - classic: a new tile is a 4 one time in ten
//   - legacy: a tile is placed after every move, even a no-op
//
// Usage:
//
//	manager, err := config.NewManager("")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rules, err := manager.LoadRuleset("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// List available rulesets
//	rulesets, err := manager.ListRulesets()
//
// Environment:
//
// ParseSettings reads GO2048_SEED, GO2048_RULESET, GO2048_RULES_DIR,
// GO2048_LOG_LEVEL and GO2048_LOG_FILE.
package config
