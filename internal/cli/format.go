package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/khanglvm/suggest-engine/internal/activity"
)

// formatJSON pretty-prints JSON for export.
func formatJSON(data any) (string, error) {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func printJSON(w io.Writer, data any) error {
	out, err := formatJSON(data)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(w, out)
	return nil
}

func printSuggestion(w io.Writer, s activity.Suggestion) {
	fmt.Fprintf(w, "%s\n", s.Title)
	fmt.Fprintf(w, "  %s\n", s.Description)
	fmt.Fprintf(w, "  Category: %s   Cost: %s   Duration: %s\n", s.Category, s.Cost, s.Duration)
	if s.Tip != "" {
		fmt.Fprintf(w, "  Tip: %s\n", s.Tip)
	}
}

// formatCounts renders a count map as "a (3), b (1)", highest first.
func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}

	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	// Small maps; insertion sort keeps the order stable by name on ties.
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0; j-- {
			a, b := entries[j-1], entries[j]
			if a.count > b.count || (a.count == b.count && a.name < b.name) {
				break
			}
			entries[j-1], entries[j] = b, a
		}
	}

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s (%d)", e.name, e.count))
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return d.Round(time.Second).String()
}
