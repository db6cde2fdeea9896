package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInit_JSONOutputAndLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Msg("hidden")
	With("quota").Warn().Str("key", "quota_state").Msg("failed to persist")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"component":"quota"`) {
		t.Errorf("expected component field, got: %s", out)
	}
	if !strings.Contains(out, `"key":"quota_state"`) {
		t.Errorf("expected key field, got: %s", out)
	}
}

func TestWith_FollowsLaterInit(t *testing.T) {
	var first, second bytes.Buffer
	Init(Config{Level: "info", Output: &first})
	defer Init(DefaultConfig())

	With("engine").Info().Msg("one")

	Init(Config{Level: "error", Output: &second})
	With("engine").Info().Msg("filtered")
	With("generator").Error().Str("breaker", "suggestions").Msg("circuit opened")
	Error().Msg("plain")

	if !strings.Contains(first.String(), `"component":"engine"`) {
		t.Errorf("expected first logger output, got: %s", first.String())
	}
	out := second.String()
	if strings.Contains(out, "filtered") {
		t.Errorf("info should be filtered at error level: %s", out)
	}
	if !strings.Contains(out, `"component":"generator"`) || !strings.Contains(out, `"level":"error"`) {
		t.Errorf("expected error from generator component, got: %s", out)
	}
	if !strings.Contains(out, "plain") {
		t.Errorf("expected global Error() output, got: %s", out)
	}
}

func TestIsValidLevel(t *testing.T) {
	for _, level := range []string{"debug", "WARN", "off"} {
		if !IsValidLevel(level) {
			t.Errorf("IsValidLevel(%q) = false", level)
		}
	}
	if IsValidLevel("verbose") {
		t.Error("IsValidLevel(verbose) = true")
	}
}
