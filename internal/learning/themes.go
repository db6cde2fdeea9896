package learning

import (
	"sort"
	"strings"
	"unicode"
)

// ThemeKeywords maps each coarse theme to the words that signal it.
// Multi-word entries match as phrases.
var ThemeKeywords = map[string][]string{
	"food":          {"food", "restaurant", "dining", "dinner", "lunch", "brunch", "breakfast", "cafe", "coffee", "bakery", "cook", "cooking", "recipe", "tasting", "foodie", "eat"},
	"nature":        {"nature", "park", "hike", "hiking", "trail", "forest", "garden", "beach", "lake", "river", "mountain", "sunset", "sunrise", "stargazing", "botanical"},
	"arts":          {"art", "museum", "gallery", "painting", "paint", "pottery", "craft", "crafts", "sculpture", "theater", "theatre", "exhibit"},
	"music":         {"music", "concert", "band", "karaoke", "dance", "dancing", "jazz", "playlist", "vinyl"},
	"fitness":       {"workout", "yoga", "run", "running", "gym", "bike", "biking", "cycling", "climbing", "swim", "swimming", "sport", "sports"},
	"learning":      {"class", "workshop", "lesson", "learn", "course", "lecture", "library", "book", "books", "reading"},
	"social":        {"party", "friends", "meetup", "game night", "board game", "board games", "trivia", "potluck", "volunteer"},
	"relaxation":    {"spa", "relax", "relaxing", "massage", "meditation", "picnic", "bath", "nap", "cozy"},
	"adventure":     {"adventure", "explore", "exploring", "road trip", "kayak", "kayaking", "zipline", "escape room", "camping"},
	"entertainment": {"movie", "movies", "film", "cinema", "comedy", "show", "arcade", "bowling", "mini golf"},
}

// Keywords scanned in liked descriptions to infer a preferred setting.
var (
	IndoorKeywords  = []string{"indoor", "indoors", "inside", "home", "museum", "gallery", "cafe", "library", "studio", "cinema", "theater", "theatre", "kitchen", "spa", "bowling", "arcade", "restaurant"}
	OutdoorKeywords = []string{"outdoor", "outdoors", "outside", "park", "hike", "hiking", "trail", "beach", "garden", "lake", "picnic", "camping", "forest", "mountain", "stargazing", "bike", "kayak"}
)

// normalize lowercases text and collapses everything that is not a letter
// or digit into single spaces, padded on both sides for whole-word lookup.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteByte(' ')

	space := true
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

// containsWord reports whether normalized text contains keyword as a whole word or phrase.
func containsWord(normalized, keyword string) bool {
	return strings.Contains(normalized, " "+keyword+" ")
}

// ExtractThemes returns the sorted set of themes mentioned in text.
func ExtractThemes(text string) []string {
	norm := normalize(text)

	var themes []string
	for theme, keywords := range ThemeKeywords {
		for _, kw := range keywords {
			if containsWord(norm, kw) {
				themes = append(themes, theme)
				break
			}
		}
	}

	sort.Strings(themes)
	return themes
}

// countHits returns how many of keywords occur in text.
func countHits(text string, keywords []string) int {
	norm := normalize(text)

	hits := 0
	for _, kw := range keywords {
		if containsWord(norm, kw) {
			hits++
		}
	}
	return hits
}
