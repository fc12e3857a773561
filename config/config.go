// Package config handles YAML client configuration loading with environment
// variable expansion.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"go.yaml.in/yaml/v3"
)

// Config is the top-level client configuration.
type Config struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	Cache     CacheConfig   `yaml:"cache"`
	TTL       TTLConfig     `yaml:"ttl"`
}

// CacheConfig holds response cache settings. MaxEntries of 0 keeps the
// unbounded store; a positive value selects the bounded store.
type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

// TTLConfig holds the per-tier cache lifetimes used by the endpoint wrappers.
type TTLConfig struct {
	Live    time.Duration `yaml:"live"`    // in-progress games
	Scores  time.Duration `yaml:"scores"`  // recently finished scores
	Catalog time.Duration `yaml:"catalog"` // leagues, teams
	Static  time.Duration `yaml:"static"`  // seasons, historical standings
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnv replaces ${VAR} patterns with environment variable values.
func expandEnv(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := string(match[2 : len(match)-1])
		if val, ok := os.LookupEnv(varName); ok {
			return []byte(val)
		}
		return match
	})
}

// Default returns the configuration used when no file overrides anything.
func Default() *Config {
	return &Config{
		BaseURL:   "https://api.courtside.example",
		UserAgent: "hoopapi",
		Timeout:   10 * time.Second,
		Cache: CacheConfig{
			DefaultTTL: time.Minute,
		},
		TTL: TTLConfig{
			Live:    30 * time.Second,
			Scores:  60 * time.Second,
			Catalog: 120 * time.Second,
			Static:  300 * time.Second,
		},
	}
}

// Load reads and parses a YAML config file, expanding environment variables.
// Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	data = expandEnv(data)

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
