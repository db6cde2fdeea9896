package version

import "testing"

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"dev", "none", "unknown", "dev (development build)"},
		{"v1.2.0", "abc123", "2026-01-05", "v1.2.0 (commit: abc123, built: 2026-01-05)"},
	}

	for _, tt := range tests {
		if got := FormatVersion(tt.version, tt.commit, tt.date); got != tt.want {
			t.Errorf("FormatVersion(%q) = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	old := Version
	Version = "v0.3.1"
	defer func() { Version = old }()

	if got := UserAgent(); got != "suggest-engine/v0.3.1" {
		t.Errorf("UserAgent = %q", got)
	}
}
