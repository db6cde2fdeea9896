package learning

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/khanglvm/suggest-engine/internal/activity"
	"github.com/khanglvm/suggest-engine/internal/logging"
	"github.com/khanglvm/suggest-engine/internal/storage"
)

// DefaultDebounce is how long the Recomputer waits after the last reaction
// before rebuilding the profile, so a burst of reactions costs one fold.
const DefaultDebounce = 3 * time.Second

// Recomputer keeps the learning profile in sync with the ledger off the
// request path. Each Schedule call cancels any pending run and starts the
// debounce window again.
type Recomputer struct {
	ledger   *Ledger
	store    storage.Store
	debounce time.Duration

	mu      sync.Mutex
	profile Profile
	timer   *time.Timer
	gen     uint64
	stopped bool
	runs    int

	// snapMu orders ledger snapshots; applied is the newest snapshot whose
	// profile has been stored. Older results are dropped.
	snapMu  sync.Mutex
	snapSeq uint64
	applied uint64

	persistMu sync.Mutex
}

// NewRecomputer loads the cached profile, rebuilding it from the ledger when
// the cache is missing, corrupt or was derived from different ledger contents.
func NewRecomputer(ledger *Ledger, store storage.Store, debounce time.Duration) *Recomputer {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	r := &Recomputer{
		ledger:   ledger,
		store:    store,
		debounce: debounce,
	}

	cached := NewProfile()
	loaded := storage.LoadJSON(store, storage.KeyProfile, &cached)
	records := ledger.All()

	if loaded && cached.LedgerDigest == Digest(records) {
		r.profile = cached
	} else {
		r.profile = Derive(records)
		storage.Mirror(store, storage.KeyProfile, r.profile)
		logger().Debug().
			Bool("cache_loaded", loaded).
			Int("records", len(records)).
			Msg("learning profile rebuilt from ledger")
	}

	return r
}

// Profile returns the current profile. Callers must not mutate its maps.
func (r *Recomputer) Profile() Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profile
}

// Schedule (re)starts the debounce window. Never blocks.
func (r *Recomputer) Schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}

	if r.timer != nil {
		r.timer.Stop()
	}

	r.gen++
	gen := r.gen
	r.timer = time.AfterFunc(r.debounce, func() {
		r.fire(gen)
	})
}

// Pending reports whether a recomputation is scheduled but has not run yet.
func (r *Recomputer) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer != nil
}

// Runs returns how many recomputations have completed.
func (r *Recomputer) Runs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// Flush cancels any pending run and recomputes immediately.
func (r *Recomputer) Flush() Profile {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
	r.mu.Unlock()

	return r.recompute()
}

// Stop cancels the scheduled task. A pending recomputation is run first so
// reactions recorded just before shutdown are not lost from the cache.
func (r *Recomputer) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	pending := r.timer != nil
	if pending {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
	r.stopped = true
	r.mu.Unlock()

	if pending {
		r.recompute()
	}
}

// fire runs a scheduled recomputation unless it was superseded.
func (r *Recomputer) fire(gen uint64) {
	r.mu.Lock()
	if gen != r.gen || r.stopped {
		r.mu.Unlock()
		return
	}
	r.timer = nil
	r.mu.Unlock()

	r.recompute()
}

func (r *Recomputer) recompute() Profile {
	seq, records := r.snapshot()
	return r.apply(seq, Derive(records), len(records))
}

// snapshot copies the ledger and tags the copy with a sequence number.
func (r *Recomputer) snapshot() (uint64, []activity.InteractionRecord) {
	r.snapMu.Lock()
	defer r.snapMu.Unlock()
	r.snapSeq++
	return r.snapSeq, r.ledger.All()
}

// apply stores p unless a profile from a later snapshot is already in place,
// in which case the newer profile is returned instead.
func (r *Recomputer) apply(seq uint64, p Profile, records int) Profile {
	r.persistMu.Lock()
	defer r.persistMu.Unlock()

	r.mu.Lock()
	if seq < r.applied {
		current := r.profile
		r.mu.Unlock()
		logger().Debug().Uint64("seq", seq).Msg("dropping superseded profile")
		return current
	}
	r.applied = seq
	r.profile = p
	r.runs++
	r.mu.Unlock()

	storage.Mirror(r.store, storage.KeyProfile, p)

	logger().Debug().
		Int("records", records).
		Int("liked_categories", len(p.LikedCategoryCounts)).
		Str("preferred_budget", string(p.PreferredBudget)).
		Str("preferred_setting", string(p.PreferredSetting)).
		Msg("learning profile recomputed")

	return p
}

func logger() *zerolog.Logger {
	return logging.With("learning")
}
