package storage

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/khanglvm/suggest-engine/internal/logging"
)

// LoadJSON decodes the blob under key into v.
//
// It reports false when the key is missing, unreadable or corrupt; v is left
// untouched so the caller keeps its empty defaults. Failures are logged.
func LoadJSON(s Store, key string, v any) bool {
	if s == nil {
		return false
	}

	data, err := s.Get(key)
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("failed to load state, using defaults")
		return false
	}
	if len(data) == 0 {
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("corrupt state, using defaults")
		return false
	}

	return true
}

// SaveJSON encodes v and writes it under key.
func SaveJSON(s Store, key string, v any) error {
	if s == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	return s.Set(key, data)
}

// Mirror writes v under key and logs, rather than returns, any failure.
// In-memory state stays authoritative when durability degrades.
func Mirror(s Store, key string, v any) {
	if err := SaveJSON(s, key, v); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("failed to persist state")
	}
}
