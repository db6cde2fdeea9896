package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/khanglvm/suggest-engine/internal/activity"
	"github.com/khanglvm/suggest-engine/internal/logging"
)

// BreakerConfig tunes the circuit breaker around a Generator.
type BreakerConfig struct {
	// ConsecutiveFailures opens the circuit. Defaults to 5.
	ConsecutiveFailures uint32

	// OpenTimeout is how long the circuit stays open before probing. Defaults to 1 minute.
	OpenTimeout time.Duration
}

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("generator circuit open")

// Breaker stops calling a failing generator for a while.
// Only transient failures count against the circuit; a malformed result
// means the service is reachable.
type Breaker struct {
	next Generator
	cb   *gobreaker.CircuitBreaker[activity.Suggestion]
}

// NewBreaker wraps next with a circuit breaker.
func NewBreaker(next Generator, cfg BreakerConfig) *Breaker {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = time.Minute
	}

	threshold := cfg.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker[activity.Suggestion](gobreaker.Settings{
		Name:        "generator",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return !IsTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			event := logging.Warn()
			if to == gobreaker.StateOpen {
				event = logging.Error()
			}
			event.
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &Breaker{next: next, cb: cb}
}

// Generate calls the wrapped generator unless the circuit is open.
func (b *Breaker) Generate(ctx context.Context, prompt Prompt, schema Schema) (activity.Suggestion, error) {
	s, err := b.cb.Execute(func() (activity.Suggestion, error) {
		return b.next.Generate(ctx, prompt, schema)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return activity.Suggestion{}, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return s, err
}

// State returns the breaker state ("closed", "half-open", "open").
func (b *Breaker) State() string {
	return b.cb.State().String()
}
