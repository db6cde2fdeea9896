package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SUGGEST_"

// Load reads configuration from the default path. A missing default file is not an error.
func Load() (*Config, error) {
	path, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return load(path, false)
}

// LoadFrom reads configuration from path, which must exist.
func LoadFrom(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, required bool) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: YAML file
	if path != "" {
		if err := checkReadable(path); err != nil {
			var nf *ConfigNotFoundError
			if !errors.As(err, &nf) || required {
				return nil, err
			}
		} else if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, &InvalidConfigError{
				Path:    path,
				Message: fmt.Sprintf("YAML parse error: %v", err),
				Hint:    "Restore from .bak file if available",
			}
		}
	}

	// Layer 3: environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: fmt.Sprintf("failed to decode: %v", err),
			Hint:    "Durations use Go syntax such as 30s or 24h",
		}
	}

	if err := cfg.Validate(); err != nil {
		var ice *InvalidConfigError
		if errors.As(err, &ice) && ice.Path == "" {
			ice.Path = path
		}
		return nil, err
	}

	return cfg, nil
}

// envKey maps SUGGEST_QUOTA__MONTHLY_CAP to quota.monthly_cap.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// checkReadable reports a missing or unreadable config file with a typed error.
func checkReadable(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &ConfigNotFoundError{
				Path: path,
				Hint: "Run 'suggest-engine init' to create configuration",
			}
		}
		return fmt.Errorf("failed to access config: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return &PermissionError{
				Path:    path,
				Op:      "read",
				Fix:     getReadPermissionFix(path),
				Details: getPermissionDetails(path),
			}
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return f.Close()
}

// getReadPermissionFix returns platform-specific fix command
func getReadPermissionFix(path string) string {
	switch runtime.GOOS {
	case "windows":
		return fmt.Sprintf("Right-click %s → Properties → Security → Edit permissions", path)
	default: // unix-like
		return fmt.Sprintf("Run: chmod 644 %s", path)
	}
}

// getPermissionDetails checks file ownership and permissions
func getPermissionDetails(path string) string {
	if runtime.GOOS == "windows" {
		return ""
	}

	info, err := os.Stat(path)
	if err != nil {
		return ""
	}

	return fmt.Sprintf("Current permissions: %04o", info.Mode().Perm())
}
