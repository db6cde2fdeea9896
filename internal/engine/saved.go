package engine

import (
	"strings"
	"sync"

	"github.com/khanglvm/suggest-engine/internal/activity"
	"github.com/khanglvm/suggest-engine/internal/storage"
)

// SavedList is the user's saved-for-later suggestions, newest first, keyed by title.
type SavedList struct {
	mu    sync.Mutex
	items []activity.Suggestion
	store storage.Store
}

// NewSavedList loads the mirrored list from store.
func NewSavedList(store storage.Store) *SavedList {
	l := &SavedList{store: store}

	var items []activity.Suggestion
	if storage.LoadJSON(store, storage.KeySaved, &items) {
		l.items = items
	}
	return l
}

func sameTitle(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Save adds s, replacing any entry with the same title. It reports whether s was new.
func (l *SavedList) Save(s activity.Suggestion) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	added := true
	kept := make([]activity.Suggestion, 0, len(l.items)+1)
	kept = append(kept, s)
	for _, item := range l.items {
		if sameTitle(item.Title, s.Title) {
			added = false
			continue
		}
		kept = append(kept, item)
	}
	l.items = kept

	storage.Mirror(l.store, storage.KeySaved, l.items)
	return added
}

// Remove deletes the entry titled title. It reports whether one existed.
func (l *SavedList) Remove(title string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, item := range l.items {
		if sameTitle(item.Title, title) {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			storage.Mirror(l.store, storage.KeySaved, l.items)
			return true
		}
	}
	return false
}

// Contains reports whether an entry titled title exists.
func (l *SavedList) Contains(title string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, item := range l.items {
		if sameTitle(item.Title, title) {
			return true
		}
	}
	return false
}

// List returns a copy of the saved suggestions.
func (l *SavedList) List() []activity.Suggestion {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]activity.Suggestion(nil), l.items...)
}
