/*
Package storage provides tests for the storage layer.
*/
package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func newTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	storage := NewStorage(dbPath)
	if err := storage.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

// TestInit verifies database initialization and schema creation.
func TestInit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	storage := NewStorage(dbPath)
	if err := storage.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer storage.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file not created")
	}
	if !storage.Enabled() {
		t.Error("expected storage to be enabled")
	}
}

func TestSQLite_GetMissingKey(t *testing.T) {
	storage := newTestSQLite(t)

	value, err := storage.Get("nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != nil {
		t.Errorf("expected nil for missing key, got %q", value)
	}
}

func TestSQLite_SetOverwrites(t *testing.T) {
	storage := newTestSQLite(t)

	if err := storage.Set(KeyQuota, []byte(`{"count":1}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := storage.Set(KeyQuota, []byte(`{"count":2}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := storage.Get(KeyQuota)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != `{"count":2}` {
		t.Errorf("expected overwritten value, got %q", value)
	}
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	first := NewStorage(dbPath)
	if err := first.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := first.Set(KeySaved, []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	first.Close()

	second := NewStorage(dbPath)
	if err := second.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	defer second.Close()

	value, err := second.Get(KeySaved)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != `[]` {
		t.Errorf("expected persisted value, got %q", value)
	}
}

// TestSQLite_Disabled verifies graceful degradation when the store is unusable.
func TestSQLite_Disabled(t *testing.T) {
	storage := &SQLiteStorage{enabled: false}

	if err := storage.Init(); err != nil {
		t.Errorf("Init on disabled store should not fail: %v", err)
	}
	if err := storage.Set("k", []byte("v")); err != nil {
		t.Errorf("Set on disabled store should be a no-op: %v", err)
	}
	value, err := storage.Get("k")
	if err != nil || value != nil {
		t.Errorf("Get on disabled store = %q, %v; want nil, nil", value, err)
	}
}

func TestBadger_InMemoryRoundTrip(t *testing.T) {
	storage := NewBadgerStorage("")
	if !storage.Enabled() {
		t.Fatal("expected in-memory badger to open")
	}
	defer storage.Close()

	if err := storage.Set(KeyLedger, []byte(`[1,2]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := storage.Get(KeyLedger)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(value, []byte(`[1,2]`)) {
		t.Errorf("unexpected value %q", value)
	}

	missing, err := storage.Get("missing")
	if err != nil || missing != nil {
		t.Errorf("Get(missing) = %q, %v; want nil, nil", missing, err)
	}
}

func TestBadger_OnDisk(t *testing.T) {
	dir := t.TempDir()

	storage := NewBadgerStorage(dir)
	if !storage.Enabled() {
		t.Fatal("expected badger to open")
	}
	if err := storage.Set(KeyProfile, []byte(`{}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := storage.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := NewBadgerStorage(dir)
	defer reopened.Close()

	value, err := reopened.Get(KeyProfile)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != `{}` {
		t.Errorf("expected persisted value, got %q", value)
	}
}

func TestMemoryStorage_CopiesValues(t *testing.T) {
	storage := NewMemoryStorage()

	buf := []byte("abc")
	storage.Set("k", buf)
	buf[0] = 'z'

	value, _ := storage.Get("k")
	if string(value) != "abc" {
		t.Errorf("stored value aliased caller buffer: %q", value)
	}
}

func TestOpen(t *testing.T) {
	if _, err := Open("postgres", ""); err == nil {
		t.Error("expected error for unknown driver")
	}

	s, err := Open("memory", "")
	if err != nil {
		t.Fatalf("Open(memory) failed: %v", err)
	}
	if _, ok := s.(*MemoryStorage); !ok {
		t.Errorf("expected *MemoryStorage, got %T", s)
	}

	s, err = Open("sqlite", filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open(sqlite) failed: %v", err)
	}
	defer s.Close()
}
