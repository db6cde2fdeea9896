package learning

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/goccy/go-json"

	"github.com/khanglvm/suggest-engine/internal/activity"
)

func record(s activity.Suggestion, t activity.InteractionType, ts int64) activity.InteractionRecord {
	return activity.InteractionRecord{Suggestion: s, Type: t, TimestampMs: ts}
}

func sampleLedger() []activity.InteractionRecord {
	// Newest first, as the Ledger stores them.
	return []activity.InteractionRecord{
		record(suggestion("Ramen crawl", "Foodie", activity.CostMedium, "Try a new ramen restaurant downtown"), activity.InteractionCompleted, 600),
		record(suggestion("Trail run", "Active", activity.CostFree, "Hike the trail at the park before sunrise"), activity.InteractionSkipped, 500),
		record(suggestion("Cooking night", "Foodie", activity.CostLow, "Cook a new recipe together at home"), activity.InteractionSaved, 400),
		record(suggestion("Bouldering", "Active", activity.CostMedium, "Indoor climbing gym session"), activity.InteractionNotInterested, 300),
		record(suggestion("Brunch spot", "Foodie", activity.CostMedium, "Find a cozy cafe for brunch"), activity.InteractionSaved, 200),
		record(suggestion("Museum day", "Cultural", activity.CostLow, "Wander the art museum"), activity.InteractionCompleted, 100),
	}
}

func TestDerive_Idempotent(t *testing.T) {
	ledger := sampleLedger()

	first := Derive(ledger)
	second := Derive(ledger)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("derivation is not deterministic:\n%+v\n%+v", first, second)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("serialized profiles differ:\n%s\n%s", a, b)
	}
}

func TestDerive_PartitionsAndCounts(t *testing.T) {
	p := Derive(sampleLedger())

	wantLiked := map[string]int{"Foodie": 3, "Cultural": 1}
	if !reflect.DeepEqual(p.LikedCategoryCounts, wantLiked) {
		t.Errorf("LikedCategoryCounts = %v, want %v", p.LikedCategoryCounts, wantLiked)
	}

	wantDisliked := map[string]int{"Active": 2}
	if !reflect.DeepEqual(p.DislikedCategoryCounts, wantDisliked) {
		t.Errorf("DislikedCategoryCounts = %v, want %v", p.DislikedCategoryCounts, wantDisliked)
	}

	if !p.StronglyDislikesCategory("Active") {
		t.Error("Active was rejected twice and should be strongly disliked")
	}
	if p.StronglyDislikesCategory("Foodie") {
		t.Error("Foodie was never rejected")
	}

	if p.LastUpdatedMs != 600 {
		t.Errorf("LastUpdatedMs = %d, want newest record timestamp 600", p.LastUpdatedMs)
	}
}

func TestDerive_Themes(t *testing.T) {
	p := Derive(sampleLedger())

	for _, want := range []string{"arts", "food", "relaxation"} {
		if !contains(p.LikedThemes, want) {
			t.Errorf("expected liked theme %q in %v", want, p.LikedThemes)
		}
	}
	for _, want := range []string{"fitness", "nature"} {
		if !contains(p.DislikedThemes, want) {
			t.Errorf("expected disliked theme %q in %v", want, p.DislikedThemes)
		}
	}

	// "climbing gym" and "trail run" both signal fitness.
	if !p.StronglyDislikesTheme("fitness") {
		t.Errorf("fitness should be strongly disliked, counts = %v", p.DislikedThemeCounts)
	}
	if p.StronglyDislikesTheme("nature") {
		t.Errorf("nature appeared in one rejection only, counts = %v", p.DislikedThemeCounts)
	}
}

func TestDerive_PreferredBudget(t *testing.T) {
	p := Derive(sampleLedger())
	if p.PreferredBudget != activity.CostMedium {
		t.Errorf("PreferredBudget = %q, want $$", p.PreferredBudget)
	}

	// Tie between $ and $$: the first encountered (newest) wins.
	tied := []activity.InteractionRecord{
		record(suggestion("a", "X", activity.CostLow, ""), activity.InteractionSaved, 4),
		record(suggestion("b", "X", activity.CostMedium, ""), activity.InteractionSaved, 3),
		record(suggestion("c", "X", activity.CostMedium, ""), activity.InteractionCompleted, 2),
		record(suggestion("d", "X", activity.CostLow, ""), activity.InteractionCompleted, 1),
	}
	if got := Derive(tied).PreferredBudget; got != activity.CostLow {
		t.Errorf("tie-break PreferredBudget = %q, want $", got)
	}

	// Disliked records never set a budget.
	onlyDisliked := []activity.InteractionRecord{
		record(suggestion("a", "X", activity.CostHigh, ""), activity.InteractionSkipped, 1),
	}
	if got := Derive(onlyDisliked).PreferredBudget; got != activity.CostUnset {
		t.Errorf("PreferredBudget = %q, want unset", got)
	}
}

func TestDerive_PreferredSetting(t *testing.T) {
	tests := []struct {
		name         string
		descriptions []string
		want         activity.Setting
	}{
		{"outdoor", []string{"Hike the trail at the park"}, activity.SettingOutdoor},
		{"indoor", []string{"Visit the museum", "Bake in the kitchen at home"}, activity.SettingIndoor},
		{"balanced", []string{"Visit the museum", "Walk in the park"}, activity.SettingUnset},
		{"no signal", []string{"Call an old friend"}, activity.SettingUnset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []activity.InteractionRecord
			for i, d := range tt.descriptions {
				records = append(records, record(suggestion("t", "X", activity.CostFree, d), activity.InteractionSaved, int64(i)))
			}
			if got := Derive(records).PreferredSetting; got != tt.want {
				t.Errorf("PreferredSetting = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDerive_Empty(t *testing.T) {
	p := Derive(nil)
	if !p.Empty() {
		t.Errorf("expected empty profile, got %+v", p)
	}
	if p.TopLikedCategory() != "" {
		t.Error("empty profile should have no top category")
	}
}

func TestProfile_TopLikedCategory(t *testing.T) {
	p := NewProfile()
	p.LikedCategoryCounts = map[string]int{"Foodie": 3, "Active": 3, "Cultural": 1}
	if got := p.TopLikedCategory(); got != "Active" {
		t.Errorf("tie should go to alphabetically first, got %q", got)
	}

	p.DislikedCategoryCounts = map[string]int{"Active": 3}
	if got := p.TopLikedCategory(); got != "Foodie" {
		t.Errorf("strongly disliked category should be skipped, got %q", got)
	}
}

func TestExtractThemes_WholeWords(t *testing.T) {
	// "brunch" must not match "run"; "artisan" must not match "art".
	themes := ExtractThemes("Artisan BRUNCH, then a board game!")
	want := []string{"food", "social"}
	if !reflect.DeepEqual(themes, want) {
		t.Errorf("ExtractThemes = %v, want %v", themes, want)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestDigest(t *testing.T) {
	a := activity.InteractionRecord{Suggestion: suggestion("Trivia", "Social", activity.CostFree, "pub trivia"), Type: activity.InteractionSaved, TimestampMs: 10}
	b := activity.InteractionRecord{Suggestion: suggestion("Karaoke", "Social", activity.CostLow, "karaoke"), Type: activity.InteractionSkipped, TimestampMs: 10}

	if Digest(nil) != 0 {
		t.Error("empty ledger should digest to 0")
	}
	if Digest([]activity.InteractionRecord{a}) == Digest([]activity.InteractionRecord{a, b}) {
		t.Error("adding a record with the same timestamp must change the digest")
	}
	if Digest([]activity.InteractionRecord{a, b}) != Digest([]activity.InteractionRecord{a, b}) {
		t.Error("Digest is not deterministic")
	}
	if Derive([]activity.InteractionRecord{a, b}).LedgerDigest != Digest([]activity.InteractionRecord{a, b}) {
		t.Error("Derive should stamp the ledger digest")
	}
}
