/*
Package quota implements the admission gate in front of suggestion generation.

A free user gets a fixed number of suggestions per calendar month and,
optionally, must wait out a rolling cooldown between requests. Users with an
unlimited entitlement always pass. The month rolls over lazily: the counter
resets the first time the gate is consulted in a new period.
*/
package quota

import (
	"sync"
	"time"

	"github.com/khanglvm/suggest-engine/internal/clock"
	"github.com/khanglvm/suggest-engine/internal/logging"
	"github.com/khanglvm/suggest-engine/internal/storage"
)

// DefaultMonthlyCap is the number of free suggestions per month.
const DefaultMonthlyCap = 3

// periodLayout formats the period key (year-month, UTC).
const periodLayout = "2006-01"

// Status is the gate's verdict.
type Status string

const (
	Open           Status = "OPEN"
	ClosedQuota    Status = "CLOSED_QUOTA"
	ClosedCooldown Status = "CLOSED_COOLDOWN"
)

// State is the persisted counter.
type State struct {
	Count               int    `json:"count"`
	PeriodKey           string `json:"period_key"`
	CooldownStartedAtMs int64  `json:"cooldown_started_at_ms,omitempty"`
}

// Decision is the outcome of an admission check.
type Decision struct {
	Status            Status
	Count             int
	Remaining         int
	CooldownRemaining time.Duration
	Unlimited         bool
}

// Admitted reports whether the request may proceed.
func (d Decision) Admitted() bool {
	return d.Status == Open
}

// Entitlement reports whether the user may generate without limits.
type Entitlement interface {
	IsUnlimitedUser() bool
}

// StaticEntitlement is a fixed entitlement answer.
type StaticEntitlement bool

// IsUnlimitedUser returns the fixed answer.
func (s StaticEntitlement) IsUnlimitedUser() bool {
	return bool(s)
}

// Config tunes the gate.
type Config struct {
	// MonthlyCap is the number of admissions per period. Defaults to 3.
	MonthlyCap int

	// Cooldown is the rolling wait between admissions. Zero disables it.
	Cooldown time.Duration
}

// Gate decides whether a new generation request may proceed.
type Gate struct {
	mu          sync.Mutex
	state       State
	cfg         Config
	store       storage.Store
	clock       clock.Clock
	entitlement Entitlement
}

// NewGate loads the mirrored quota state. Missing or corrupt data starts a fresh period.
func NewGate(cfg Config, store storage.Store, clk clock.Clock, ent Entitlement) *Gate {
	if cfg.MonthlyCap <= 0 {
		cfg.MonthlyCap = DefaultMonthlyCap
	}
	if clk == nil {
		clk = clock.System{}
	}
	if ent == nil {
		ent = StaticEntitlement(false)
	}

	g := &Gate{
		cfg:         cfg,
		store:       store,
		clock:       clk,
		entitlement: ent,
	}

	var st State
	if storage.LoadJSON(store, storage.KeyQuota, &st) && st.Count >= 0 {
		g.state = st
	}

	return g
}

// PeriodKey returns the period containing t.
func PeriodKey(t time.Time) string {
	return t.UTC().Format(periodLayout)
}

// Check evaluates the gate without consuming quota. A period rollover it
// detects is applied and persisted.
func (g *Gate) Check() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	d, rolled := g.evaluateLocked(g.clock.Now())
	if rolled {
		g.persistLocked()
	}
	return d
}

// TryAdmit evaluates the gate and, if open, consumes one admission.
// Evaluation and increment happen under one lock, so two concurrent callers
// can never both take the last slot.
func (g *Gate) TryAdmit() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	d, rolled := g.evaluateLocked(now)

	if !d.Admitted() {
		if rolled {
			g.persistLocked()
		}
		logging.With("quota").Info().
			Str("status", string(d.Status)).
			Int("count", d.Count).
			Dur("cooldown_remaining", d.CooldownRemaining).
			Msg("admission denied")
		return d
	}

	if d.Unlimited {
		return d
	}

	g.state.Count++
	if g.cfg.Cooldown > 0 {
		g.state.CooldownStartedAtMs = now.UnixMilli()
	}
	g.persistLocked()

	d.Count = g.state.Count
	d.Remaining = g.remainingLocked()
	return d
}

// evaluateLocked applies the ordered admission rules.
func (g *Gate) evaluateLocked(now time.Time) (Decision, bool) {
	if g.entitlement.IsUnlimitedUser() {
		return Decision{Status: Open, Count: g.state.Count, Remaining: g.cfg.MonthlyCap, Unlimited: true}, false
	}

	rolled := false
	if period := PeriodKey(now); g.state.PeriodKey != period {
		if g.state.PeriodKey != "" {
			logging.With("quota").Info().Str("from", g.state.PeriodKey).Str("to", period).Msg("quota period rolled over")
		}
		g.state.Count = 0
		g.state.PeriodKey = period
		rolled = true
	}

	d := Decision{Count: g.state.Count, Remaining: g.remainingLocked()}

	if g.state.Count >= g.cfg.MonthlyCap {
		d.Status = ClosedQuota
		return d, rolled
	}

	if remaining := g.cooldownRemainingLocked(now); remaining > 0 {
		d.Status = ClosedCooldown
		d.CooldownRemaining = remaining
		return d, rolled
	}

	d.Status = Open
	return d, rolled
}

func (g *Gate) cooldownRemainingLocked(now time.Time) time.Duration {
	if g.cfg.Cooldown <= 0 || g.state.CooldownStartedAtMs == 0 {
		return 0
	}

	elapsed := now.UnixMilli() - g.state.CooldownStartedAtMs
	total := g.cfg.Cooldown.Milliseconds()
	if elapsed < total {
		return time.Duration(total-elapsed) * time.Millisecond
	}
	return 0
}

func (g *Gate) remainingLocked() int {
	if r := g.cfg.MonthlyCap - g.state.Count; r > 0 {
		return r
	}
	return 0
}

func (g *Gate) persistLocked() {
	storage.Mirror(g.store, storage.KeyQuota, g.state)
}

// Remaining returns how many admissions are left this period.
func (g *Gate) Remaining() int {
	return g.Check().Remaining
}

// IsExhausted reports whether the monthly cap is reached.
func (g *Gate) IsExhausted() bool {
	return g.Check().Status == ClosedQuota
}

// CooldownRemaining returns the time left before the next admission, or 0.
func (g *Gate) CooldownRemaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.entitlement.IsUnlimitedUser() {
		return 0
	}
	return g.cooldownRemainingLocked(g.clock.Now())
}

// IsCooldownActive reports whether a cooldown is currently running.
func (g *Gate) IsCooldownActive() bool {
	return g.CooldownRemaining() > 0
}

// State returns a copy of the current counter.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// MonthlyCap returns the configured cap.
func (g *Gate) MonthlyCap() int {
	return g.cfg.MonthlyCap
}
