package storage

import (
	"errors"
	"testing"
)

type failingStore struct{}

func (failingStore) Get(string) ([]byte, error) { return nil, errors.New("disk on fire") }
func (failingStore) Set(string, []byte) error { return errors.New("disk on fire") }
func (failingStore) Close() error { return nil }

type sample struct {
	Count int    `json:"count"`
	Name  string `json:"name"`
}

func TestSaveAndLoadJSON(t *testing.T) {
	store := NewMemoryStorage()

	if err := SaveJSON(store, "sample", sample{Count: 3, Name: "x"}); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	var got sample
	if !LoadJSON(store, "sample", &got) {
		t.Fatal("LoadJSON reported missing")
	}
	if got.Count != 3 || got.Name != "x" {
		t.Errorf("unexpected value: %+v", got)
	}
}

func TestLoadJSON_FallsBackToDefaults(t *testing.T) {
	store := NewMemoryStorage()
	store.Set("corrupt", []byte("{not json"))

	defaults := sample{Count: 7}

	got := defaults
	if LoadJSON(store, "corrupt", &got) {
		t.Error("LoadJSON should report corrupt data")
	}
	if got != defaults {
		t.Errorf("corrupt load mutated defaults: %+v", got)
	}

	got = defaults
	if LoadJSON(store, "missing", &got) {
		t.Error("LoadJSON should report missing key")
	}

	if LoadJSON(failingStore{}, "any", &got) {
		t.Error("LoadJSON should report read failure")
	}
	if LoadJSON(nil, "any", &got) {
		t.Error("LoadJSON should tolerate a nil store")
	}
}

func TestMirror_SwallowsErrors(t *testing.T) {
	// Must not panic or return anything.
	Mirror(failingStore{}, "k", sample{})

	if err := SaveJSON(failingStore{}, "k", sample{}); err == nil {
		t.Error("SaveJSON should surface store errors")
	}
}
