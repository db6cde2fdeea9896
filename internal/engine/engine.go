/*
Package engine wires the suggestion engine together: the admission gate, the
interaction ledger and its learning profile, the filter merge and the
orchestrator that calls the generator.

An Engine is scoped to one user. It is safe for concurrent callers; at most
one generation is ever in flight.
*/
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/khanglvm/suggest-engine/internal/activity"
	"github.com/khanglvm/suggest-engine/internal/clock"
	"github.com/khanglvm/suggest-engine/internal/generator"
	"github.com/khanglvm/suggest-engine/internal/learning"
	"github.com/khanglvm/suggest-engine/internal/logging"
	"github.com/khanglvm/suggest-engine/internal/quota"
	"github.com/khanglvm/suggest-engine/internal/storage"
)

// Options are the collaborators and settings for New.
type Options struct {
	Store       storage.Store
	Generator   generator.Generator
	Entitlement quota.Entitlement
	Clock       clock.Clock

	Quota quota.Config

	// Orchestrator fields left zero take their defaults.
	Orchestrator OrchestratorConfig

	// Debounce delays profile recomputation after a reaction.
	Debounce time.Duration

	// LedgerCap bounds the interaction ledger.
	LedgerCap int
}

// Engine is the public surface of the suggestion engine.
type Engine struct {
	store      storage.Store
	gate       *quota.Gate
	ledger     *learning.Ledger
	recomputer *learning.Recomputer
	orch       *Orchestrator
	saved      *SavedList
}

// New restores persisted state and returns a ready Engine.
func New(opts Options) (*Engine, error) {
	if opts.Generator == nil {
		return nil, errors.New("engine requires a generator")
	}
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStorage()
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = learning.DefaultDebounce
	}

	ledger := learning.NewLedger(opts.Store, opts.Clock, opts.LedgerCap)
	recomputer := learning.NewRecomputer(ledger, opts.Store, opts.Debounce)
	ledger.OnRecord(recomputer.Schedule)

	gate := quota.NewGate(opts.Quota, opts.Store, opts.Clock, opts.Entitlement)

	e := &Engine{
		store:      opts.Store,
		gate:       gate,
		ledger:     ledger,
		recomputer: recomputer,
		orch:       NewOrchestrator(opts.Orchestrator, gate, recomputer, opts.Generator, opts.Store, opts.Clock),
		saved:      NewSavedList(opts.Store),
	}

	logging.With("engine").Debug().
		Int("interactions", ledger.Len()).
		Int("quota_remaining", gate.Remaining()).
		Msg("engine ready")

	return e, nil
}

// Request generates a suggestion for filters.
func (e *Engine) Request(ctx context.Context, filters activity.Filters) Result {
	return e.orch.Request(ctx, filters)
}

// Regenerate repeats the last request's filters.
func (e *Engine) Regenerate(ctx context.Context) Result {
	return e.orch.Regenerate(ctx)
}

// RecordReaction appends a reaction to the ledger. The profile catches up after the debounce delay.
func (e *Engine) RecordReaction(s activity.Suggestion, t activity.InteractionType, rating int) (activity.InteractionRecord, error) {
	return e.ledger.Record(s, t, rating)
}

// SaveForLater bookmarks s.
func (e *Engine) SaveForLater(s activity.Suggestion) bool {
	return e.saved.Save(s)
}

// UnsaveForLater removes the bookmark titled title.
func (e *Engine) UnsaveForLater(title string) bool {
	return e.saved.Remove(title)
}

// IsSavedForLater reports whether title is bookmarked.
func (e *Engine) IsSavedForLater(title string) bool {
	return e.saved.Contains(title)
}

// SavedForLater lists bookmarks, newest first.
func (e *Engine) SavedForLater() []activity.Suggestion {
	return e.saved.List()
}

// CurrentSuggestion returns the last generated suggestion.
func (e *Engine) CurrentSuggestion() (activity.Suggestion, bool) {
	return e.orch.CurrentSuggestion()
}

// IsGenerating reports whether a request is in flight.
func (e *Engine) IsGenerating() bool {
	return e.orch.IsGenerating()
}

// LastError returns the failure on display, if any.
func (e *Engine) LastError() (Failure, bool) {
	return e.orch.LastError()
}

// RemainingQuota returns admissions left this month.
func (e *Engine) RemainingQuota() int {
	return e.gate.Remaining()
}

// IsQuotaExhausted reports whether the monthly cap is reached.
func (e *Engine) IsQuotaExhausted() bool {
	return e.gate.IsExhausted()
}

// CooldownRemaining returns the wait before the next admission.
func (e *Engine) CooldownRemaining() time.Duration {
	return e.gate.CooldownRemaining()
}

// QuotaState returns the raw quota counter.
func (e *Engine) QuotaState() quota.State {
	return e.gate.State()
}

// MonthlyCap returns the configured monthly cap.
func (e *Engine) MonthlyCap() int {
	return e.gate.MonthlyCap()
}

// ClearSuggestion forgets the current suggestion.
func (e *Engine) ClearSuggestion() {
	e.orch.ClearSuggestion()
}

// Abandon discards whatever request is in flight.
func (e *Engine) Abandon() {
	e.orch.Abandon()
}

// Profile returns the learned profile.
func (e *Engine) Profile() learning.Profile {
	return e.recomputer.Profile()
}

// RefreshProfile recomputes the profile now instead of waiting for the debounce.
func (e *Engine) RefreshProfile() learning.Profile {
	return e.recomputer.Flush()
}

// RecentInteractions returns up to n reactions, newest first.
func (e *Engine) RecentInteractions(n int) []activity.InteractionRecord {
	return e.ledger.Recent(n)
}

// History returns recently generated suggestions, newest first.
func (e *Engine) History() []activity.Suggestion {
	return e.orch.History()
}

// LastFilters returns the filters a Regenerate would reuse.
func (e *Engine) LastFilters() (activity.Filters, bool) {
	return e.orch.LastFilters()
}

// Close flushes pending profile work and closes the store.
func (e *Engine) Close() error {
	e.recomputer.Stop()
	e.orch.Close()
	return e.store.Close()
}
