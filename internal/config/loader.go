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
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if COVID_CONFIG is set
//  3. env (prefix COVID_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("COVID_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: COVID_ADDR, COVID_DATASET_URL, COVID_CACHE_TTL, ...
	// Map env keys like COVID_CACHE_TTL -> cache_ttl (flat keys, underscores
	// preserved to match the koanf tags on the struct).
	envProvider := env.Provider("COVID_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "covid_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
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
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DatasetURL == "":
		return fmt.Errorf("%w: dataset_url must not be empty", ErrInvalidConfig)
	case c.RollingWindow < 1:
		return fmt.Errorf("%w: rolling_window must be >= 1", ErrInvalidConfig)
	case c.MaxCountries < 1:
		return fmt.Errorf("%w: max_countries must be >= 1", ErrInvalidConfig)
	case c.CacheTTL < 0:
		return fmt.Errorf("%w: cache_ttl must not be negative", ErrInvalidConfig)
	}
	return nil
}
