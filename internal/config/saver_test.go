package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Quota.Cooldown = 12 * time.Hour
	cfg.Generator.Endpoint = "https://example.com/suggest"
	cfg.Storage.Driver = "memory"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %04o, want 0600", info.Mode().Perm())
	}
}

func TestSave_BacksUpPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	first := Default()
	first.Quota.MonthlyCap = 4
	if err := Save(first, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second := Default()
	second.Quota.MonthlyCap = 9
	if err := Save(second, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	bak, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("expected a backup: %v", err)
	}
	if !strings.Contains(string(bak), "monthly_cap: 4") {
		t.Errorf("backup should hold the previous config:\n%s", bak)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away")
	}
}

func TestSave_RejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = "postgres"

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(cfg, path); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid config must not be written")
	}
}
