/*
Package activity defines the data model shared by the suggestion engine:
suggestions produced by the generator, the filters a user states, and the
interaction records that feed the learning profile.
*/
package activity

import (
	"errors"
	"strings"
)

// CostTier is the rough price band of an activity.
type CostTier string

const (
	CostFree   CostTier = "free"
	CostLow    CostTier = "$"
	CostMedium CostTier = "$$"
	CostHigh   CostTier = "$$$"
	CostAny    CostTier = "Any"
	CostUnset  CostTier = ""
)

// CostTiers lists the concrete tiers in ascending order.
var CostTiers = []CostTier{CostFree, CostLow, CostMedium, CostHigh}

// Valid reports whether c is a concrete tier.
func (c CostTier) Valid() bool {
	for _, t := range CostTiers {
		if c == t {
			return true
		}
	}
	return false
}

// Setting is where an activity takes place.
type Setting string

const (
	SettingIndoor  Setting = "indoor"
	SettingOutdoor Setting = "outdoor"
	SettingEither  Setting = "either"
	SettingUnset   Setting = ""
)

// CategoryAny means the user did not pick a category.
const CategoryAny = "Any"

// Suggestion is one activity returned by the generator. Immutable once produced.
type Suggestion struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=2000"`
	Category    string   `json:"category" validate:"required"`
	Cost        CostTier `json:"cost" validate:"required,oneof=free $ $$ $$$"`
	Duration    string   `json:"duration" validate:"required"`
	Tip         string   `json:"tip,omitempty"`
}

// SameAs reports whether two suggestions are the same activity.
// Identity is (title, description); there is no generated id.
func (s Suggestion) SameAs(other Suggestion) bool {
	return s.Title == other.Title && s.Description == other.Description
}

// Text returns title and description joined for keyword scanning.
func (s Suggestion) Text() string {
	return s.Title + " " + s.Description
}

// Filters are the explicit choices a user makes before asking for a suggestion.
// Empty strings, "Any" and "either" mean "no preference".
type Filters struct {
	Category     string   `json:"category,omitempty"`
	Budget       CostTier `json:"budget,omitempty"`
	Setting      Setting  `json:"setting,omitempty"`
	Timing       string   `json:"timing,omitempty"`
	Participants string   `json:"participants,omitempty"`
	Location     string   `json:"location,omitempty"`
}

// CategoryUnset reports whether no category was chosen.
func (f Filters) CategoryUnset() bool {
	c := strings.TrimSpace(f.Category)
	return c == "" || strings.EqualFold(c, CategoryAny)
}

// BudgetUnset reports whether no budget was chosen.
func (f Filters) BudgetUnset() bool {
	return f.Budget == CostUnset || strings.EqualFold(string(f.Budget), string(CostAny))
}

// SettingUnset reports whether no setting was chosen.
func (f Filters) SettingUnset() bool {
	return f.Setting == SettingUnset || strings.EqualFold(string(f.Setting), string(SettingEither))
}

// InteractionType is the user's reaction to a suggestion.
type InteractionType string

const (
	InteractionSaved         InteractionType = "saved"
	InteractionCompleted     InteractionType = "completed"
	InteractionSkipped       InteractionType = "skipped"
	InteractionNotInterested InteractionType = "not_interested"
)

// ErrInvalidInteraction is returned for unknown interaction types or ratings outside 1..5.
var ErrInvalidInteraction = errors.New("invalid interaction")

// ParseInteractionType maps a user-supplied string to an InteractionType.
func ParseInteractionType(s string) (InteractionType, error) {
	t := InteractionType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case InteractionSaved, InteractionCompleted, InteractionSkipped, InteractionNotInterested:
		return t, nil
	case "not-interested":
		return InteractionNotInterested, nil
	}
	return "", ErrInvalidInteraction
}

// Liked reports whether the reaction counts as positive.
func (t InteractionType) Liked() bool {
	return t == InteractionSaved || t == InteractionCompleted
}

// Disliked reports whether the reaction counts as negative.
func (t InteractionType) Disliked() bool {
	return t == InteractionSkipped || t == InteractionNotInterested
}

// InteractionRecord is a single reaction. Created once, never mutated.
type InteractionRecord struct {
	Suggestion
	Type        InteractionType `json:"interaction_type"`
	TimestampMs int64           `json:"timestamp_ms"`

	// Rating is 1-5, or 0 if not rated.
	Rating int `json:"rating,omitempty"`
}
