package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanglvm/suggest-engine/internal/activity"
	"github.com/khanglvm/suggest-engine/internal/config"
	"github.com/khanglvm/suggest-engine/internal/engine"
	"github.com/khanglvm/suggest-engine/internal/generator"
	"github.com/khanglvm/suggest-engine/internal/logging"
	"github.com/khanglvm/suggest-engine/internal/quota"
	"github.com/khanglvm/suggest-engine/internal/storage"
	"github.com/khanglvm/suggest-engine/internal/version"
)

var errNoEndpoint = errors.New("generator endpoint is not configured\n\n💡 Set generator.endpoint in the config file or SUGGEST_GENERATOR__ENDPOINT")

// loadConfig reads --config (or the default file) and applies --log-level.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if globals.configPath != "" {
		cfg, err = config.LoadFrom(globals.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if globals.logLevel != "" {
		cfg.Logging.Level = globals.logLevel
	}
	return cfg, nil
}

// openEngine builds an Engine from configuration. Commands that generate
// pass needGenerator so a missing endpoint fails before quota is touched.
func openEngine(cmd *cobra.Command, needGenerator bool) (*engine.Engine, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})

	if needGenerator && cfg.Generator.Endpoint == "" {
		return nil, nil, errNoEndpoint
	}

	store, err := openStore(cfg.Storage)
	if err != nil {
		if store == nil {
			return nil, nil, err
		}
		logging.Warn().Err(err).Msg("storage unavailable, state will not persist")
	}

	gen, err := buildGenerator(cfg.Generator)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	e, err := engine.New(engine.Options{
		Store:       store,
		Generator:   gen,
		Entitlement: quota.StaticEntitlement(cfg.Quota.Unlimited),
		Quota: quota.Config{
			MonthlyCap: cfg.Quota.MonthlyCap,
			Cooldown:   cfg.Quota.Cooldown,
		},
		Orchestrator: engine.OrchestratorConfig{
			Timeout:      cfg.Generator.Timeout,
			MaxRetries:   retriesOrNone(cfg.Generator.MaxRetries),
			RetryBackoff: backoffOrNone(cfg.Generator.RetryBackoff),
			ErrorDisplay: cfg.Engine.ErrorDisplay,
			HistoryCap:   cfg.Learning.HistoryCap,
		},
		Debounce:  cfg.Learning.Debounce,
		LedgerCap: cfg.Learning.LedgerCap,
	})
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to start engine: %w", err)
	}

	return e, cfg, nil
}

// The config file treats 0 as "off"; the engine treats 0 as "default".
func retriesOrNone(n int) int {
	if n == 0 {
		return engine.NoRetries
	}
	return n
}

func backoffOrNone(d time.Duration) time.Duration {
	if d == 0 {
		return engine.NoBackoff
	}
	return d
}

func openStore(cfg config.StorageConfig) (storage.Store, error) {
	path := config.ExpandPath(cfg.Path)

	if path == "" && cfg.Driver == "badger" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "badger")
	}

	return storage.Open(cfg.Driver, path)
}

// buildGenerator wraps the HTTP client in a circuit breaker. Without an
// endpoint it returns a generator that always fails.
func buildGenerator(cfg config.GeneratorConfig) (generator.Generator, error) {
	if cfg.Endpoint == "" {
		return generator.Func(func(ctx context.Context, p generator.Prompt, s generator.Schema) (activity.Suggestion, error) {
			return activity.Suggestion{}, errNoEndpoint
		}), nil
	}

	client, err := generator.NewHTTPClient(generator.HTTPConfig{
		Endpoint:          cfg.Endpoint,
		APIKey:            cfg.APIKey,
		UserAgent:         version.UserAgent(),
		RequestsPerMinute: cfg.RequestsPerMinute,
	})
	if err != nil {
		return nil, err
	}

	return generator.NewBreaker(client, generator.BreakerConfig{
		ConsecutiveFailures: uint32(cfg.BreakerFailures),
		OpenTimeout:         cfg.BreakerTimeout,
	}), nil
}
