package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/scout/internal/domain/catalog"
)

const (
	envPrefix = "SCOUT_"
	envConfig = envPrefix + "CONFIG"

	maxPrecision = 6

	caseSensitiveSection = "test_directions"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SCOUT_CONFIG is set
//  3. env (prefix SCOUT_)
//
// Env keys are flat (SCOUT_PLAYER_FILE -> player_file); a double underscore
// descends into a section (SCOUT_SCHEMA__NAME -> schema.name).
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	cfg.Schema = cfg.Schema.Merge()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps an env var to a koanf path. Section names are lowercased; map
// keys under test_directions keep their case because test names are
// case-sensitive (SCOUT_TEST_DIRECTIONS__Forty -> test_directions.Forty).
func envKey(s string) string {
	parts := strings.Split(strings.TrimPrefix(s, envPrefix), "__")
	for i := range parts {
		if i > 0 && parts[i-1] == caseSensitiveSection {
			continue
		}
		parts[i] = strings.ToLower(parts[i])
	}
	return strings.Join(parts, ".")
}

// Validate checks the values Load cannot type-check.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.PlayerFile == "":
		return fmt.Errorf("%w: player_file must not be empty", ErrInvalidConfig)
	case c.TestFile == "":
		return fmt.Errorf("%w: test_file must not be empty", ErrInvalidConfig)
	case c.MaxLeaderboardLimit <= 0:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	case c.Precision < 0 || c.Precision > maxPrecision:
		return fmt.Errorf("%w: precision must be between 0 and %d", ErrInvalidConfig, maxPrecision)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("%w: test_directions: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Catalog builds the test catalog from TestDirections.
func (c *Config) Catalog() (catalog.Catalog, error) {
	return catalog.FromConfig(c.TestDirections)
}
