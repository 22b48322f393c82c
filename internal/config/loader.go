package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. .env in the working directory, if present
//  3. file (YAML) if STARLINE_CONFIG is set
//  4. env (prefix STARLINE_)
func Load(_ context.Context) (*Config, error) {
	// A local .env only seeds the process environment; real env vars win.
	_ = godotenv.Load()

	base := New()

	k := koanf.New(".")

	if path := os.Getenv("STARLINE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: STARLINE_ADDR, STARLINE_TICK_INTERVAL_MS, ...
	// Map env keys like STARLINE_TOP_N -> top_n (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("STARLINE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "starline_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.TickIntervalMS <= 0 {
		return fmt.Errorf("%w: tick_interval_ms must be positive", ErrInvalidConfig)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive", ErrInvalidConfig)
	}
	if c.EventDisplayMS <= 0 {
		return fmt.Errorf("%w: event_display_ms must be positive", ErrInvalidConfig)
	}
	if c.BuildWorkers <= 0 {
		return fmt.Errorf("%w: build_workers must be positive", ErrInvalidConfig)
	}
	// A catalog without a dataset leaves the replay half-configured; a
	// dataset alone is fine, the catalog is optional.
	if c.DatasetFile == "" && c.EventsFile != "" {
		return fmt.Errorf("%w: events_file set without dataset_file", ErrInvalidConfig)
	}
	return nil
}
