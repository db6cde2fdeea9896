package generator

import (
	"fmt"
	"strings"

	"github.com/khanglvm/suggest-engine/internal/activity"
	"github.com/khanglvm/suggest-engine/internal/filter"
)

// MaxAvoidTitles bounds the "don't repeat" list sent with a prompt.
const MaxAvoidTitles = 10

// Prompt is the request sent to the generator.
type Prompt struct {
	Text        string           `json:"text"`
	Filters     filter.Effective `json:"filters"`
	AvoidTitles []string         `json:"avoid_titles,omitempty"`
}

// categoryCopy describes each known category in the prompt.
var categoryCopy = map[string]string{
	"Foodie":    "a food or drink experience such as a restaurant, market, tasting or cooking together",
	"Active":    "something physical such as a hike, sport, class or workout",
	"Cultural":  "an arts or culture outing such as a museum, gallery, theatre or concert",
	"Romantic":  "an intimate, romantic date idea for two",
	"Social":    "an outing that works well with friends or a group",
	"Relaxing":  "a calm, low-key activity to unwind",
	"Adventure": "something novel and a little daring",
	"Creative":  "a hands-on creative project or workshop",
	"Learning":  "an activity where you learn a new skill or topic",
	"Outdoors":  "an activity that gets you outside in nature",
}

var budgetCopy = map[activity.CostTier]string{
	activity.CostFree:   "It must be free.",
	activity.CostLow:    "Keep it inexpensive ($).",
	activity.CostMedium: "A moderate budget ($$) is fine.",
	activity.CostHigh:   "It can be a splurge ($$$).",
}

var settingCopy = map[activity.Setting]string{
	activity.SettingIndoor:  "It should take place indoors.",
	activity.SettingOutdoor: "It should take place outdoors.",
}

// BuildPrompt renders effective filters and recent suggestions into a Prompt.
// recent is newest first; its titles become the avoid list.
func BuildPrompt(eff filter.Effective, recent []activity.Suggestion) Prompt {
	var b strings.Builder
	b.WriteString("Suggest exactly one activity.")

	if eff.Category != "" {
		if text, ok := categoryCopy[eff.Category]; ok {
			fmt.Fprintf(&b, " Category: %s, meaning %s.", eff.Category, text)
		} else {
			fmt.Fprintf(&b, " Category: %s.", eff.Category)
		}
	}
	if text, ok := budgetCopy[eff.Budget]; ok {
		b.WriteString(" " + text)
	}
	if text, ok := settingCopy[eff.Setting]; ok {
		b.WriteString(" " + text)
	}
	if eff.Timing != "" {
		fmt.Fprintf(&b, " Timing: %s.", eff.Timing)
	}
	if eff.Participants != "" {
		fmt.Fprintf(&b, " Participants: %s.", eff.Participants)
	}
	if eff.Location != "" {
		fmt.Fprintf(&b, " Near: %s.", eff.Location)
	}
	if len(eff.LikedThemes) > 0 {
		fmt.Fprintf(&b, " The user tends to enjoy: %s.", strings.Join(eff.LikedThemes, ", "))
	}
	if len(eff.AvoidThemes) > 0 {
		fmt.Fprintf(&b, " Avoid anything involving: %s.", strings.Join(eff.AvoidThemes, ", "))
	}
	if len(eff.AvoidCategories) > 0 {
		fmt.Fprintf(&b, " Avoid these categories: %s.", strings.Join(eff.AvoidCategories, ", "))
	}

	avoid := avoidTitles(recent)
	if len(avoid) > 0 {
		fmt.Fprintf(&b, " Do not repeat any of these: %s.", strings.Join(avoid, "; "))
	}

	return Prompt{
		Text:        b.String(),
		Filters:     eff,
		AvoidTitles: avoid,
	}
}

func avoidTitles(recent []activity.Suggestion) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range recent {
		title := strings.TrimSpace(s.Title)
		key := strings.ToLower(title)
		if title == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, title)
		if len(out) == MaxAvoidTitles {
			break
		}
	}
	return out
}
