// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and SCOUT_ environment variables over New().
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"github.com/okian/scout/internal/adapters/source"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// PlayerFile and TestFile are the tab-delimited combine exports.
	PlayerFile string `koanf:"player_file"`
	TestFile   string `koanf:"test_file"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// Precision is the number of decimals percentiles are rounded to.
	Precision int `koanf:"precision"`

	// TestDirections maps test names to lower_better or higher_better.
	// Empty means the standard combine catalog.
	TestDirections map[string]string `koanf:"test_directions"`

	// Schema overrides source column names. Blank entries keep the defaults.
	Schema source.Schema `koanf:"schema"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		PlayerFile:          "CombinePlayer_data.txt",
		TestFile:            "CombineTest_data.txt",
		MaxLeaderboardLimit: 100,
		Precision:           1,
		Schema:              source.DefaultSchema(),
	}
}
