/*
Package filter blends a user's explicit filters with preferences inferred by
the learning profile.

Merge only fills gaps: a field the user set is never overridden, so the
effective filter set is always at least as specific as the input.
*/
package filter

import (
	"github.com/khanglvm/suggest-engine/internal/activity"
	"github.com/khanglvm/suggest-engine/internal/learning"
)

// Effective is the filter set actually sent to the generator.
type Effective struct {
	activity.Filters

	// Inferred lists the fields filled from the profile ("category", "budget", "setting").
	Inferred []string `json:"inferred,omitempty"`

	// Hints steer the prompt without constraining it.
	LikedThemes     []string `json:"liked_themes,omitempty"`
	AvoidCategories []string `json:"avoid_categories,omitempty"`
	AvoidThemes     []string `json:"avoid_themes,omitempty"`
}

// WasInferred reports whether field came from the profile.
func (e Effective) WasInferred(field string) bool {
	for _, f := range e.Inferred {
		if f == field {
			return true
		}
	}
	return false
}

// Merge fills every unset explicit field from the profile.
//
// Category "Any"/"" takes the top liked category, budget "Any"/"" takes the
// preferred budget, setting "either"/"" takes the preferred setting. Unset
// fields with no profile signal are normalized to "" so the generator sees a
// single spelling of "no preference".
func Merge(explicit activity.Filters, profile learning.Profile) Effective {
	eff := Effective{Filters: explicit}

	if explicit.CategoryUnset() {
		eff.Category = ""
		if top := profile.TopLikedCategory(); top != "" {
			eff.Category = top
			eff.Inferred = append(eff.Inferred, "category")
		}
	}

	if explicit.BudgetUnset() {
		eff.Budget = activity.CostUnset
		if profile.PreferredBudget.Valid() {
			eff.Budget = profile.PreferredBudget
			eff.Inferred = append(eff.Inferred, "budget")
		}
	}

	if explicit.SettingUnset() {
		eff.Setting = activity.SettingUnset
		if profile.PreferredSetting == activity.SettingIndoor || profile.PreferredSetting == activity.SettingOutdoor {
			eff.Setting = profile.PreferredSetting
			eff.Inferred = append(eff.Inferred, "setting")
		}
	}

	eff.LikedThemes = append([]string(nil), profile.LikedThemes...)
	eff.AvoidThemes = profile.StronglyDislikedThemes()
	for _, c := range profile.StronglyDislikedCategories() {
		if c != eff.Category {
			eff.AvoidCategories = append(eff.AvoidCategories, c)
		}
	}

	return eff
}
