package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/khanglvm/suggest-engine/internal/logging"
)

// Validate checks ranges and enumerations. It returns *InvalidConfigError.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateStorage,
		c.validateQuota,
		c.validateGenerator,
		c.validateLearning,
		c.validateLogging,
	}

	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return &InvalidConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (c *Config) validateStorage() error {
	switch c.Storage.Driver {
	case "sqlite", "badger", "memory":
		return nil
	default:
		return invalid("storage.driver", "must be sqlite, badger or memory, got %q", c.Storage.Driver)
	}
}

func (c *Config) validateQuota() error {
	if c.Quota.MonthlyCap < 1 {
		return invalid("quota.monthly_cap", "must be at least 1, got %d", c.Quota.MonthlyCap)
	}
	if c.Quota.Cooldown < 0 {
		return invalid("quota.cooldown", "must not be negative")
	}
	return nil
}

func (c *Config) validateGenerator() error {
	g := c.Generator

	if g.Endpoint != "" {
		u, err := url.Parse(g.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("generator.endpoint", "must be an http(s) URL, got %q", g.Endpoint)
		}
	}
	if g.Timeout <= 0 {
		return invalid("generator.timeout", "must be positive")
	}
	if g.MaxRetries < 0 {
		return invalid("generator.max_retries", "must not be negative")
	}
	if g.RetryBackoff < 0 {
		return invalid("generator.retry_backoff", "must not be negative")
	}
	if g.RequestsPerMinute < 0 {
		return invalid("generator.requests_per_minute", "must not be negative")
	}
	if g.BreakerFailures < 0 {
		return invalid("generator.breaker_failures", "must not be negative")
	}
	return nil
}

func (c *Config) validateLearning() error {
	if c.Learning.Debounce < 0 {
		return invalid("learning.debounce", "must not be negative")
	}
	if c.Learning.LedgerCap < 1 {
		return invalid("learning.ledger_cap", "must be at least 1")
	}
	if c.Learning.HistoryCap < 1 {
		return invalid("learning.history_cap", "must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		return invalid("logging.format", "must be console or json, got %q", c.Logging.Format)
	}

	if c.Logging.Level != "" && !logging.IsValidLevel(c.Logging.Level) {
		return invalid("logging.level", "unknown level %q", c.Logging.Level)
	}
	return nil
}
