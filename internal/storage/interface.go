/*
Package storage implements the durable key-value mirror behind the suggestion engine.

The engine keeps its state in memory and writes a JSON blob per concern after
every mutation (interaction ledger, learning profile, quota state, saved-for-later
list, suggestion history, last-used filters). Three backends implement Store:

  - SQLiteStorage: a single-table key-value store on modernc.org/sqlite (default)
  - BadgerStorage: an embedded LSM store on dgraph-io/badger
  - MemoryStorage: process-local, for tests and ephemeral sessions

Every backend degrades gracefully: if the database cannot be opened the store
is disabled and operations become no-ops instead of failing the session.
*/
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/khanglvm/suggest-engine/internal/logging"

	_ "modernc.org/sqlite"
)

// Store is the persistence collaborator consumed by the engine.
type Store interface {
	// Get returns the value stored under key, or nil if the key is missing.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Close releases the underlying resources.
	Close() error
}

// Keys under which the engine mirrors its state.
const (
	KeyLedger      = "interaction_ledger"
	KeyProfile     = "learning_profile"
	KeyQuota       = "quota_state"
	KeySaved       = "saved_for_later"
	KeyHistory     = "suggestion_history"
	KeyLastFilters = "last_filters"
)

// SQLiteStorage implements Store using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// DefaultPath returns ~/.suggest-engine/state.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".suggest-engine", "state.db"), nil
}

// NewStorage creates a SQLite store at dbPath. An empty path selects DefaultPath.
//
// The database is opened lazily by Init. If the path cannot be resolved the
// storage is disabled but operations will not fail.
func NewStorage(dbPath string) *SQLiteStorage {
	if dbPath == "" {
		p, err := DefaultPath()
		if err != nil {
			logging.Warn().Err(err).Msg("sqlite storage disabled")
			return &SQLiteStorage{enabled: false}
		}
		dbPath = p
	}

	return &SQLiteStorage{
		dbPath:  dbPath,
		enabled: true,
	}
}

// Init opens the database and runs migrations.
//
// If initialization fails, storage is disabled and subsequent operations
// become no-ops (graceful degradation).
func (s *SQLiteStorage) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		dbDir := filepath.Dir(s.dbPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			logging.Warn().Err(initErr).Str("path", s.dbPath).Msg("sqlite storage disabled")
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			logging.Warn().Err(initErr).Str("path", s.dbPath).Msg("sqlite storage disabled")
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			logging.Warn().Err(initErr).Str("path", s.dbPath).Msg("sqlite storage disabled")
			return
		}
	})

	return initErr
}

// Enabled reports whether the database is usable.
func (s *SQLiteStorage) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled && s.db != nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}
