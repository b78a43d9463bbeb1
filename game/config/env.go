package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings holds process-level options read from the environment. Command
// line flags override them.
type Settings struct {
	Seed     int64  `env:"GO2048_SEED"`
	Ruleset  string `env:"GO2048_RULESET" envDefault:"standard"`
	RulesDir string `env:"GO2048_RULES_DIR"`
	LogLevel string `env:"GO2048_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"GO2048_LOG_FILE"`

	// SessionTTL bounds how long an idle MCP session is kept
	SessionTTL time.Duration `env:"GO2048_SESSION_TTL" envDefault:"1h"`
}

// ParseSettings loads Settings from environment variables
func ParseSettings() (Settings, error) {
	var settings Settings
	if err := env.Parse(&settings); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return settings, nil
}
