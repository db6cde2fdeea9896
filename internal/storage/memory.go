package storage

import (
	"fmt"
	"sync"
)

// MemoryStorage is a process-local Store. Values are copied on the way in and out.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

// Get returns a copy of the value under key, or nil if missing.
func (m *MemoryStorage) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (m *MemoryStorage) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op.
func (m *MemoryStorage) Close() error {
	return nil
}

// Open builds the Store selected by driver: "sqlite" (default), "badger" or "memory".
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", "sqlite":
		s := NewStorage(path)
		if err := s.Init(); err != nil {
			return s, err
		}
		return s, nil
	case "badger":
		return NewBadgerStorage(path), nil
	case "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}
