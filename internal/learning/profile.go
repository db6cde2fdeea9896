package learning

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/khanglvm/suggest-engine/internal/activity"
)

const (
	// StrongDislikeThreshold is the number of rejections after which a
	// category or theme is treated as strongly disliked. A single skip is noise.
	StrongDislikeThreshold = 2

	// settingRatio is how much one setting's keyword hits must exceed the
	// other's before it counts as a preference.
	settingRatio = 1.5
)

// Profile is the affinity summary derived from the interaction ledger.
// It is a cache: Derive rebuilds it from the ledger at any time.
type Profile struct {
	LikedCategoryCounts    map[string]int    `json:"liked_category_counts"`
	DislikedCategoryCounts map[string]int    `json:"disliked_category_counts"`
	LikedThemes            []string          `json:"liked_themes"`
	DislikedThemes         []string          `json:"disliked_themes"`
	DislikedThemeCounts    map[string]int    `json:"disliked_theme_counts"`
	PreferredBudget        activity.CostTier `json:"preferred_budget,omitempty"`
	PreferredSetting       activity.Setting  `json:"preferred_setting,omitempty"`
	LastUpdatedMs          int64             `json:"last_updated_ms"`

	// LedgerDigest identifies the ledger contents the profile was derived from.
	LedgerDigest uint64 `json:"ledger_digest"`
}

// NewProfile returns an empty profile.
func NewProfile() Profile {
	return Profile{
		LikedCategoryCounts:    map[string]int{},
		DislikedCategoryCounts: map[string]int{},
		LikedThemes:            []string{},
		DislikedThemes:         []string{},
		DislikedThemeCounts:    map[string]int{},
	}
}

// Derive folds the ledger (newest first) into a Profile.
//
// The fold is pure: the same records always produce the same profile.
// LastUpdatedMs is the newest record's timestamp, not the wall clock.
func Derive(records []activity.InteractionRecord) Profile {
	p := NewProfile()

	likedThemes := map[string]bool{}
	dislikedThemes := map[string]bool{}

	budgetCounts := map[activity.CostTier]int{}
	var budgetOrder []activity.CostTier

	indoorHits, outdoorHits := 0, 0

	for _, rec := range records {
		if rec.TimestampMs > p.LastUpdatedMs {
			p.LastUpdatedMs = rec.TimestampMs
		}

		themes := ExtractThemes(rec.Text())

		switch {
		case rec.Type.Disliked():
			if rec.Category != "" {
				p.DislikedCategoryCounts[rec.Category]++
			}
			for _, th := range themes {
				dislikedThemes[th] = true
				p.DislikedThemeCounts[th]++
			}

		case rec.Type.Liked():
			if rec.Category != "" {
				p.LikedCategoryCounts[rec.Category]++
			}
			for _, th := range themes {
				likedThemes[th] = true
			}

			if rec.Cost.Valid() {
				if budgetCounts[rec.Cost] == 0 {
					budgetOrder = append(budgetOrder, rec.Cost)
				}
				budgetCounts[rec.Cost]++
			}

			indoorHits += countHits(rec.Description, IndoorKeywords)
			outdoorHits += countHits(rec.Description, OutdoorKeywords)
		}
	}

	p.LikedThemes = sortedKeys(likedThemes)
	p.DislikedThemes = sortedKeys(dislikedThemes)

	best := 0
	for _, tier := range budgetOrder {
		if budgetCounts[tier] > best {
			best = budgetCounts[tier]
			p.PreferredBudget = tier
		}
	}

	p.PreferredSetting = inferSetting(indoorHits, outdoorHits)
	p.LedgerDigest = Digest(records)

	return p
}

// Digest hashes the identity of every record in order. Two ledgers with the
// same digest fold to the same profile. An empty ledger digests to 0.
func Digest(records []activity.InteractionRecord) uint64 {
	if len(records) == 0 {
		return 0
	}
	h := xxhash.New()
	for _, rec := range records {
		fmt.Fprintf(h, "%d\x00%s\x00%d\x00%s\x00%s\x00%s\x00%s\n",
			rec.TimestampMs, rec.Type, rec.Rating, rec.Title, rec.Category, rec.Cost, rec.Description)
	}
	return h.Sum64()
}

// inferSetting applies the 1.5x rule; anything closer is no signal.
func inferSetting(indoor, outdoor int) activity.Setting {
	switch {
	case float64(indoor) > settingRatio*float64(outdoor):
		return activity.SettingIndoor
	case float64(outdoor) > settingRatio*float64(indoor):
		return activity.SettingOutdoor
	default:
		return activity.SettingUnset
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StronglyDislikesCategory reports whether category was rejected at least twice.
func (p Profile) StronglyDislikesCategory(category string) bool {
	return p.DislikedCategoryCounts[category] >= StrongDislikeThreshold
}

// StronglyDislikesTheme reports whether theme appeared in at least two rejections.
func (p Profile) StronglyDislikesTheme(theme string) bool {
	return p.DislikedThemeCounts[theme] >= StrongDislikeThreshold
}

// StronglyDislikedCategories returns the strongly disliked categories, sorted.
func (p Profile) StronglyDislikedCategories() []string {
	var out []string
	for c := range p.DislikedCategoryCounts {
		if p.StronglyDislikesCategory(c) {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// StronglyDislikedThemes returns the strongly disliked themes, sorted.
func (p Profile) StronglyDislikedThemes() []string {
	var out []string
	for th := range p.DislikedThemeCounts {
		if p.StronglyDislikesTheme(th) {
			out = append(out, th)
		}
	}
	sort.Strings(out)
	return out
}

// TopLikedCategory returns the most liked category, or "" if there is none.
//
// Ties go to the alphabetically first category. A category the user has
// strongly disliked at least as often as liked is skipped.
func (p Profile) TopLikedCategory() string {
	top, best := "", 0
	for c, n := range p.LikedCategoryCounts {
		if n <= 0 {
			continue
		}
		if p.StronglyDislikesCategory(c) && p.DislikedCategoryCounts[c] >= n {
			continue
		}
		if n > best || (n == best && c < top) {
			top, best = c, n
		}
	}
	return top
}

// Empty reports whether the profile carries no signal at all.
func (p Profile) Empty() bool {
	return len(p.LikedCategoryCounts) == 0 && len(p.DislikedCategoryCounts) == 0 &&
		len(p.LikedThemes) == 0 && len(p.DislikedThemes) == 0 &&
		p.PreferredBudget == "" && p.PreferredSetting == ""
}
