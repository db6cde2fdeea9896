package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	"github.com/khanglvm/suggest-engine/internal/activity"
	"github.com/khanglvm/suggest-engine/internal/clock"
	"github.com/khanglvm/suggest-engine/internal/filter"
	"github.com/khanglvm/suggest-engine/internal/generator"
	"github.com/khanglvm/suggest-engine/internal/learning"
	"github.com/khanglvm/suggest-engine/internal/logging"
	"github.com/khanglvm/suggest-engine/internal/quota"
	"github.com/khanglvm/suggest-engine/internal/storage"
)

// Defaults for OrchestratorConfig.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRetries   = 2
	DefaultRetryBackoff = time.Second
	DefaultErrorDisplay = 5 * time.Second
	DefaultHistoryCap   = 10
)

// NoRetries disables retries when set as MaxRetries; NoBackoff removes the
// delay when set as RetryBackoff. Zero values mean "use the default".
const (
	NoRetries = -1
	NoBackoff = time.Duration(-1)
)

// State is the orchestrator lifecycle state.
type State string

const (
	StateIdle       State = "IDLE"
	StateAdmitting  State = "ADMITTING"
	StateGenerating State = "GENERATING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

// OrchestratorConfig tunes generation.
type OrchestratorConfig struct {
	// Timeout bounds one generator attempt.
	Timeout time.Duration

	// MaxRetries is the number of extra attempts after a transient failure.
	// Zero means DefaultMaxRetries; use NoRetries for a single attempt.
	MaxRetries int

	// RetryBackoff is the fixed delay between attempts.
	// Zero means DefaultRetryBackoff; use NoBackoff to retry immediately.
	RetryBackoff time.Duration

	// ErrorDisplay is how long LastError stays set.
	ErrorDisplay time.Duration

	// HistoryCap bounds the recent-suggestion history.
	HistoryCap int
}

func (c *OrchestratorConfig) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	switch {
	case c.MaxRetries == 0:
		c.MaxRetries = DefaultMaxRetries
	case c.MaxRetries < 0:
		c.MaxRetries = 0
	}
	switch {
	case c.RetryBackoff == 0:
		c.RetryBackoff = DefaultRetryBackoff
	case c.RetryBackoff < 0:
		c.RetryBackoff = 0
	}
	if c.ErrorDisplay <= 0 {
		c.ErrorDisplay = DefaultErrorDisplay
	}
	if c.HistoryCap <= 0 {
		c.HistoryCap = DefaultHistoryCap
	}
}

// DefaultOrchestratorConfig returns the stock settings.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		Timeout:      DefaultTimeout,
		MaxRetries:   DefaultMaxRetries,
		RetryBackoff: DefaultRetryBackoff,
		ErrorDisplay: DefaultErrorDisplay,
		HistoryCap:   DefaultHistoryCap,
	}
}

// ProfileSource supplies the current learning profile.
type ProfileSource interface {
	Profile() learning.Profile
}

// Result is the outcome of Request or Regenerate.
type Result struct {
	Success    bool
	State      State
	Reason     Reason
	Err        error
	Suggestion activity.Suggestion
	Filters    filter.Effective
	Attempts   int

	// Remaining and CooldownRemaining describe the quota after the call.
	Remaining         int
	CooldownRemaining time.Duration
}

// Failure is the error currently shown to the user.
type Failure struct {
	Reason Reason
	Err    error
	AtMs   int64
}

func (f Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Reason, f.Err)
	}
	return string(f.Reason)
}

// Orchestrator drives one suggestion request from admission to a stored result.
// At most one generation is in flight at a time.
type Orchestrator struct {
	mu        sync.Mutex
	state     State
	outcome   State
	requestID string

	current     *activity.Suggestion
	lastFilters *activity.Filters
	history     []activity.Suggestion

	lastErr  *Failure
	errTimer clock.Timer

	gate     *quota.Gate
	profiles ProfileSource
	gen      generator.Generator
	schema   generator.Schema
	store    storage.Store
	clock    clock.Clock
	cfg      OrchestratorConfig
}

// NewOrchestrator restores history and last filters from store.
func NewOrchestrator(cfg OrchestratorConfig, gate *quota.Gate, profiles ProfileSource, gen generator.Generator, store storage.Store, clk clock.Clock) *Orchestrator {
	cfg.applyDefaults()
	if clk == nil {
		clk = clock.System{}
	}

	o := &Orchestrator{
		state:    StateIdle,
		outcome:  StateIdle,
		gate:     gate,
		profiles: profiles,
		gen:      gen,
		schema:   generator.SuggestionSchema(),
		store:    store,
		clock:    clk,
		cfg:      cfg,
	}

	var history []activity.Suggestion
	if storage.LoadJSON(store, storage.KeyHistory, &history) {
		if len(history) > cfg.HistoryCap {
			history = history[:cfg.HistoryCap]
		}
		o.history = history
	}

	var filters activity.Filters
	if storage.LoadJSON(store, storage.KeyLastFilters, &filters) {
		o.lastFilters = &filters
	}

	return o
}

// Request admits and generates one suggestion for filters.
//
// Cancelling ctx abandons the request: Request returns immediately with
// ReasonAbandoned and the eventual generator result is discarded.
func (o *Orchestrator) Request(ctx context.Context, filters activity.Filters) Result {
	o.mu.Lock()

	if o.state == StateGenerating {
		o.mu.Unlock()
		logging.With("engine").Debug().Msg("request rejected, generation already in flight")
		return Result{State: StateGenerating, Reason: ReasonAlreadyGenerating}
	}

	o.state = StateAdmitting
	d := o.gate.TryAdmit()
	if !d.Admitted() {
		reason := ReasonLimitReached
		if d.Status == quota.ClosedCooldown {
			reason = ReasonCooldownActive
		}
		o.failLocked(reason, nil)
		o.mu.Unlock()
		return Result{
			State:             StateFailed,
			Reason:            reason,
			Remaining:         d.Remaining,
			CooldownRemaining: d.CooldownRemaining,
		}
	}

	id := uuid.NewString()
	o.requestID = id
	o.state = StateGenerating
	history := append([]activity.Suggestion(nil), o.history...)
	o.mu.Unlock()

	var profile learning.Profile
	if o.profiles != nil {
		profile = o.profiles.Profile()
	}
	eff := filter.Merge(filters, profile)
	prompt := generator.BuildPrompt(eff, history)

	logging.With("engine").Info().
		Str("request_id", id).
		Str("category", eff.Category).
		Str("budget", string(eff.Budget)).
		Strs("inferred", eff.Inferred).
		Msg("generating suggestion")

	done := make(chan Result, 1)
	go func() {
		// The call outlives an abandoned caller; its result is then dropped.
		s, attempts, err := o.generate(context.WithoutCancel(ctx), id, prompt)
		done <- o.complete(id, filters, eff, s, attempts, err)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		o.abandon(id)
		return Result{State: StateIdle, Reason: ReasonAbandoned, Err: ctx.Err(), Filters: eff}
	}
}

// Regenerate repeats the last successful request's filters.
func (o *Orchestrator) Regenerate(ctx context.Context) Result {
	o.mu.Lock()
	if o.lastFilters == nil {
		if o.state != StateGenerating {
			o.failLocked(ReasonNoPriorFilters, nil)
		}
		o.mu.Unlock()
		return Result{State: StateFailed, Reason: ReasonNoPriorFilters}
	}
	filters := *o.lastFilters
	o.mu.Unlock()

	return o.Request(ctx, filters)
}

// generate runs the bounded retry loop. Only transient failures are retried.
func (o *Orchestrator) generate(ctx context.Context, id string, prompt generator.Prompt) (activity.Suggestion, int, error) {
	attempts := 0

	op := func() (activity.Suggestion, error) {
		attempts++
		s, err := o.attempt(ctx, prompt)
		if err == nil {
			if verr := activity.Validate(s); verr != nil {
				err = &generator.ValidationError{Err: verr}
			}
		}
		if err != nil && !generator.IsTransient(err) {
			return s, backoff.Permanent(err)
		}
		return s, err
	}

	s, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(o.cfg.RetryBackoff)),
		backoff.WithMaxTries(uint(o.cfg.MaxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			logging.With("engine").Warn().
				Err(err).
				Str("request_id", id).
				Int("attempt", attempts).
				Dur("retry_in", next).
				Msg("generator attempt failed, retrying")
		}),
	)

	return s, attempts, err
}

// attempt races one generator call against the per-attempt timeout.
func (o *Orchestrator) attempt(ctx context.Context, prompt generator.Prompt) (activity.Suggestion, error) {
	actx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	type outcome struct {
		s   activity.Suggestion
		err error
	}
	ch := make(chan outcome, 1)

	go func() {
		s, err := o.gen.Generate(actx, prompt, o.schema)
		ch <- outcome{s, err}
	}()

	select {
	case out := <-ch:
		return out.s, out.err
	case <-actx.Done():
		return activity.Suggestion{}, fmt.Errorf("%w: no response within %s", generator.ErrTimeout, o.cfg.Timeout)
	}
}

// complete applies a finished generation, unless it is stale.
func (o *Orchestrator) complete(id string, filters activity.Filters, eff filter.Effective, s activity.Suggestion, attempts int, err error) Result {
	o.mu.Lock()
	defer o.mu.Unlock()

	res := Result{Filters: eff, Attempts: attempts}

	if o.state != StateGenerating || o.requestID != id {
		logging.With("engine").Info().Str("request_id", id).Err(err).Msg("discarding stale generator result")
		res.State = StateIdle
		res.Reason = ReasonAbandoned
		return res
	}
	o.requestID = ""

	if err != nil {
		res.Reason = classify(err)
		res.Err = err
		res.State = StateFailed
		o.failLocked(res.Reason, err)

		logging.With("engine").Warn().
			Err(err).
			Str("request_id", id).
			Str("reason", string(res.Reason)).
			Int("attempts", attempts).
			Msg("suggestion generation failed")
		o.fillQuota(&res)
		return res
	}

	o.current = &s
	o.lastFilters = &filters
	o.history = append([]activity.Suggestion{s}, o.history...)
	if len(o.history) > o.cfg.HistoryCap {
		o.history = o.history[:o.cfg.HistoryCap]
	}
	storage.Mirror(o.store, storage.KeyLastFilters, filters)
	storage.Mirror(o.store, storage.KeyHistory, o.history)
	o.clearErrorLocked()

	o.outcome = StateSucceeded
	o.state = StateIdle

	logging.With("engine").Info().
		Str("request_id", id).
		Str("title", s.Title).
		Int("attempts", attempts).
		Msg("suggestion generated")

	res.Success = true
	res.State = StateSucceeded
	res.Suggestion = s
	o.fillQuota(&res)
	return res
}

func (o *Orchestrator) fillQuota(res *Result) {
	d := o.gate.Check()
	res.Remaining = d.Remaining
	res.CooldownRemaining = d.CooldownRemaining
}

// abandon drops the in-flight request id so its result is ignored.
func (o *Orchestrator) abandon(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateGenerating && o.requestID == id {
		o.state = StateIdle
		o.outcome = StateIdle
		o.requestID = ""
		logging.With("engine").Info().Str("request_id", id).Msg("request abandoned")
	}
}

// Abandon gives up on whatever request is in flight.
func (o *Orchestrator) Abandon() {
	o.mu.Lock()
	id := o.requestID
	o.mu.Unlock()

	if id != "" {
		o.abandon(id)
	}
}

// failLocked records a visible failure and returns to idle.
func (o *Orchestrator) failLocked(reason Reason, err error) {
	f := &Failure{Reason: reason, Err: err, AtMs: o.clock.Now().UnixMilli()}

	if o.errTimer != nil {
		o.errTimer.Stop()
	}
	o.lastErr = f
	o.errTimer = o.clock.AfterFunc(o.cfg.ErrorDisplay, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.lastErr == f {
			o.lastErr = nil
		}
	})

	o.outcome = StateFailed
	o.state = StateIdle
}

func (o *Orchestrator) clearErrorLocked() {
	if o.errTimer != nil {
		o.errTimer.Stop()
		o.errTimer = nil
	}
	o.lastErr = nil
}

// ClearSuggestion forgets the current suggestion and any shown error.
func (o *Orchestrator) ClearSuggestion() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.current = nil
	o.clearErrorLocked()
	if o.state != StateGenerating {
		o.outcome = StateIdle
	}
}

// State returns the lifecycle state. Completed requests rest in IDLE.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Outcome returns SUCCEEDED or FAILED for the last finished request, or IDLE.
func (o *Orchestrator) Outcome() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcome
}

// IsGenerating reports whether a request is in flight.
func (o *Orchestrator) IsGenerating() bool {
	return o.State() == StateGenerating
}

// CurrentSuggestion returns the last generated suggestion.
func (o *Orchestrator) CurrentSuggestion() (activity.Suggestion, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return activity.Suggestion{}, false
	}
	return *o.current, true
}

// LastError returns the failure currently on display, if any.
func (o *Orchestrator) LastError() (Failure, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastErr == nil {
		return Failure{}, false
	}
	return *o.lastErr, true
}

// LastFilters returns the filters of the last successful request.
func (o *Orchestrator) LastFilters() (activity.Filters, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastFilters == nil {
		return activity.Filters{}, false
	}
	return *o.lastFilters, true
}

// History returns recent suggestions, newest first.
func (o *Orchestrator) History() []activity.Suggestion {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]activity.Suggestion(nil), o.history...)
}

// Close stops the error display timer.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.errTimer != nil {
		o.errTimer.Stop()
	}
}
