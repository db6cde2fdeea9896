package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/khanglvm/suggest-engine/internal/logging"
)

// badgerKeyPrefix namespaces engine keys inside a shared Badger directory.
const badgerKeyPrefix = "suggest:"

// BadgerStorage implements Store on an embedded BadgerDB.
type BadgerStorage struct {
	db      *badger.DB
	enabled bool
}

// NewBadgerStorage opens (or creates) a Badger database in dir.
// An empty dir opens an in-memory database.
//
// If the database cannot be opened the storage is disabled and every
// operation becomes a no-op.
func NewBadgerStorage(dir string) *BadgerStorage {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		logging.Warn().Err(err).Str("dir", dir).Msg("badger storage disabled")
		return &BadgerStorage{enabled: false}
	}

	return &BadgerStorage{db: db, enabled: true}
}

// Enabled reports whether the database is usable.
func (b *BadgerStorage) Enabled() bool {
	return b.enabled && b.db != nil
}

// Get returns the blob stored under key, or nil if missing.
func (b *BadgerStorage) Get(key string) ([]byte, error) {
	if !b.Enabled() {
		return nil, nil
	}

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}

	return value, nil
}

// Set stores the blob under key.
func (b *BadgerStorage) Set(key string, value []byte) error {
	if !b.Enabled() {
		return nil
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerKeyPrefix+key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}

	return nil
}

// Close closes the database.
func (b *BadgerStorage) Close() error {
	if !b.Enabled() {
		return nil
	}

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger: %w", err)
	}

	b.enabled = false
	return nil
}
