/*
Package config loads suggest-engine configuration.

Settings are layered, later layers winning:

 1. built-in defaults
 2. an optional YAML file (~/.suggest-engine/config.yaml by default)
 3. environment variables prefixed SUGGEST_, with "__" separating sections,
    e.g. SUGGEST_QUOTA__MONTHLY_CAP=5 or SUGGEST_GENERATOR__API_KEY=...

Example file:

	storage:
	  driver: sqlite
	  path: ~/.suggest-engine/state.db
	quota:
	  monthly_cap: 3
	  cooldown: 0s
	generator:
	  endpoint: https://example.com/v1/suggest
	  timeout: 30s
	  max_retries: 2
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration.
type Config struct {
	Storage   StorageConfig   `koanf:"storage"`
	Quota     QuotaConfig     `koanf:"quota"`
	Generator GeneratorConfig `koanf:"generator"`
	Learning  LearningConfig  `koanf:"learning"`
	Engine    EngineConfig    `koanf:"engine"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// StorageConfig selects where engine state is mirrored.
type StorageConfig struct {
	// Driver is "sqlite", "badger" or "memory".
	Driver string `koanf:"driver"`

	// Path is the SQLite file or Badger directory. Empty uses the driver default.
	Path string `koanf:"path"`
}

// QuotaConfig controls the admission gate.
type QuotaConfig struct {
	MonthlyCap int           `koanf:"monthly_cap"`
	Cooldown   time.Duration `koanf:"cooldown"`

	// Unlimited marks the user as entitled to unlimited suggestions.
	Unlimited bool `koanf:"unlimited"`
}

// GeneratorConfig describes the remote suggestion service.
type GeneratorConfig struct {
	Endpoint          string        `koanf:"endpoint"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	MaxRetries        int           `koanf:"max_retries"`
	RetryBackoff      time.Duration `koanf:"retry_backoff"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`
	BreakerFailures   int           `koanf:"breaker_failures"`
	BreakerTimeout    time.Duration `koanf:"breaker_timeout"`
}

// LearningConfig tunes the interaction ledger and profile.
type LearningConfig struct {
	Debounce   time.Duration `koanf:"debounce"`
	LedgerCap  int           `koanf:"ledger_cap"`
	HistoryCap int           `koanf:"history_cap"`
}

// EngineConfig tunes the orchestrator.
type EngineConfig struct {
	// ErrorDisplay is how long a failure stays visible.
	ErrorDisplay time.Duration `koanf:"error_display"`
}

// LoggingConfig configures zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: "sqlite",
		},
		Quota: QuotaConfig{
			MonthlyCap: 3,
		},
		Generator: GeneratorConfig{
			Timeout:           30 * time.Second,
			MaxRetries:        2,
			RetryBackoff:      time.Second,
			RequestsPerMinute: 30,
			BreakerFailures:   5,
			BreakerTimeout:    time.Minute,
		},
		Learning: LearningConfig{
			Debounce:   3 * time.Second,
			LedgerCap:  100,
			HistoryCap: 10,
		},
		Engine: EngineConfig{
			ErrorDisplay: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Dir returns ~/.suggest-engine.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".suggest-engine"), nil
}

// GetDefaultConfigPath returns ~/.suggest-engine/config.yaml.
func GetDefaultConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ExpandPath resolves a leading "~/" against the home directory.
func ExpandPath(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
