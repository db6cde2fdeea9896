package generator

import (
	"reflect"
	"strings"
	"testing"

	"github.com/khanglvm/suggest-engine/internal/activity"
	"github.com/khanglvm/suggest-engine/internal/filter"
)

func TestBuildPrompt_IncludesFiltersAndHints(t *testing.T) {
	eff := filter.Effective{
		Filters: activity.Filters{
			Category:     "Foodie",
			Budget:       activity.CostLow,
			Setting:      activity.SettingOutdoor,
			Timing:       "Saturday afternoon",
			Participants: "couple",
		},
		LikedThemes: []string{"food", "music"},
		AvoidThemes: []string{"fitness"},
	}

	p := BuildPrompt(eff, nil)

	for _, want := range []string{
		"Category: Foodie, meaning a food or drink experience",
		"Keep it inexpensive ($).",
		"outdoors",
		"Timing: Saturday afternoon.",
		"Participants: couple.",
		"enjoy: food, music",
		"involving: fitness",
	} {
		if !strings.Contains(p.Text, want) {
			t.Errorf("prompt missing %q:\n%s", want, p.Text)
		}
	}
	if p.Filters.Category != "Foodie" {
		t.Errorf("prompt should carry the effective filters, got %+v", p.Filters)
	}
}

func TestBuildPrompt_UnknownCategoryPassesThrough(t *testing.T) {
	p := BuildPrompt(filter.Effective{Filters: activity.Filters{Category: "Spooky"}}, nil)
	if !strings.Contains(p.Text, "Category: Spooky.") {
		t.Errorf("unexpected prompt: %s", p.Text)
	}
}

func TestBuildPrompt_AvoidTitlesDedupedAndBounded(t *testing.T) {
	recent := []activity.Suggestion{{Title: "Picnic"}, {Title: "picnic"}, {Title: " "}}
	for i := 0; i < 20; i++ {
		recent = append(recent, activity.Suggestion{Title: "Walk " + string(rune('A'+i))})
	}

	p := BuildPrompt(filter.Effective{}, recent)

	if len(p.AvoidTitles) != MaxAvoidTitles {
		t.Fatalf("AvoidTitles has %d entries, want %d", len(p.AvoidTitles), MaxAvoidTitles)
	}
	if p.AvoidTitles[0] != "Picnic" || p.AvoidTitles[1] != "Walk A" {
		t.Errorf("unexpected avoid list: %v", p.AvoidTitles)
	}
	if !strings.Contains(p.Text, "Do not repeat any of these: Picnic; Walk A") {
		t.Errorf("prompt missing avoid list:\n%s", p.Text)
	}
}

func TestSuggestionSchema(t *testing.T) {
	s := SuggestionSchema()
	if !reflect.DeepEqual(s.Properties["cost"].Enum, []string{"free", "$", "$$", "$$$"}) {
		t.Errorf("cost enum = %v", s.Properties["cost"].Enum)
	}
	for _, field := range s.Required {
		if _, ok := s.Properties[field]; !ok {
			t.Errorf("required field %q has no property", field)
		}
	}
}
