/*
Package learning turns a user's reactions to past suggestions into preferences.

The Ledger is the append-only, bounded log of reactions; Derive folds it into
a Profile of category, theme, budget and setting affinities; the Recomputer
re-runs that fold in the background, debounced, whenever the ledger grows.
*/
package learning

import (
	"sync"

	"github.com/khanglvm/suggest-engine/internal/activity"
	"github.com/khanglvm/suggest-engine/internal/clock"
	"github.com/khanglvm/suggest-engine/internal/storage"
)

// DefaultLedgerCap is the number of reactions kept; older ones are evicted.
const DefaultLedgerCap = 100

// Ledger is the bounded log of interaction records, newest first.
type Ledger struct {
	mu      sync.RWMutex
	records []activity.InteractionRecord
	cap     int
	store   storage.Store
	clock   clock.Clock

	// onRecord is invoked after every successful append, outside the lock.
	onRecord func()
}

// NewLedger loads the ledger mirrored in store. Missing or corrupt data yields an empty ledger.
func NewLedger(store storage.Store, clk clock.Clock, capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultLedgerCap
	}
	if clk == nil {
		clk = clock.System{}
	}

	l := &Ledger{
		cap:   capacity,
		store: store,
		clock: clk,
	}

	var records []activity.InteractionRecord
	if storage.LoadJSON(store, storage.KeyLedger, &records) {
		if len(records) > capacity {
			records = records[:capacity]
		}
		l.records = records
	}

	return l
}

// OnRecord registers a hook run after each append.
func (l *Ledger) OnRecord(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onRecord = fn
}

// Record prepends a reaction, evicts beyond capacity and persists.
//
// Only invalid input is an error. Persistence failures are logged; the
// in-memory ledger stays authoritative for the session.
func (l *Ledger) Record(s activity.Suggestion, t activity.InteractionType, rating int) (activity.InteractionRecord, error) {
	if err := activity.ValidateInteraction(t, rating); err != nil {
		return activity.InteractionRecord{}, err
	}

	rec := activity.InteractionRecord{
		Suggestion:  s,
		Type:        t,
		TimestampMs: l.clock.Now().UnixMilli(),
		Rating:      rating,
	}

	l.mu.Lock()
	next := make([]activity.InteractionRecord, 0, min(len(l.records)+1, l.cap))
	next = append(next, rec)
	for _, r := range l.records {
		if len(next) >= l.cap {
			break
		}
		next = append(next, r)
	}
	l.records = next
	snapshot := l.snapshotLocked()
	hook := l.onRecord
	l.mu.Unlock()

	storage.Mirror(l.store, storage.KeyLedger, snapshot)

	logger().Debug().
		Str("title", s.Title).
		Str("type", string(t)).
		Int("ledger_size", len(snapshot)).
		Msg("recorded interaction")

	if hook != nil {
		hook()
	}

	return rec, nil
}

// Recent returns up to n records, newest first.
func (l *Ledger) Recent(n int) []activity.InteractionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n < 0 {
		n = 0
	}
	if n > len(l.records) {
		n = len(l.records)
	}
	out := make([]activity.InteractionRecord, n)
	copy(out, l.records[:n])
	return out
}

// All returns a copy of the whole ledger, newest first.
func (l *Ledger) All() []activity.InteractionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

// Len returns the number of stored records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

func (l *Ledger) snapshotLocked() []activity.InteractionRecord {
	out := make([]activity.InteractionRecord, len(l.records))
	copy(out, l.records)
	return out
}
