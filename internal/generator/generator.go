/*
Package generator talks to the external service that turns a prompt into one
structured activity suggestion.

The service is opaque: it receives a Prompt and a Schema and either returns a
Suggestion or fails. Failures are classified so the caller can tell transient
ones (ErrNetwork, ErrTimeout) from results that will never succeed on retry
(*ValidationError).
*/
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/khanglvm/suggest-engine/internal/activity"
)

// Generator produces one suggestion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt, schema Schema) (activity.Suggestion, error)
}

// Func adapts a plain function to the Generator interface.
type Func func(ctx context.Context, prompt Prompt, schema Schema) (activity.Suggestion, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, prompt Prompt, schema Schema) (activity.Suggestion, error) {
	return f(ctx, prompt, schema)
}

var (
	// ErrNetwork marks a failure to reach the service or a retryable server error.
	ErrNetwork = errors.New("generator network failure")

	// ErrTimeout marks an attempt that ran out of time.
	ErrTimeout = errors.New("generator timed out")
)

// ValidationError reports a result that does not match the expected schema.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("generator returned an invalid suggestion: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return false
	}
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
