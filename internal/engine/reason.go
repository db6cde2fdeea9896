package engine

import (
	"errors"

	"github.com/khanglvm/suggest-engine/internal/generator"
)

// Reason is a user-facing failure code.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonLimitReached      Reason = "limit_reached"
	ReasonCooldownActive    Reason = "cooldown_active"
	ReasonNoPriorFilters    Reason = "no_prior_filters"
	ReasonAlreadyGenerating Reason = "already_generating"
	ReasonTimeout           Reason = "timeout"
	ReasonNetwork           Reason = "network"
	ReasonValidation        Reason = "validation"
	ReasonGeneric           Reason = "generic"
	ReasonAbandoned         Reason = "abandoned"
)

// Denied reports whether r is an admission denial rather than a generation failure.
func (r Reason) Denied() bool {
	switch r {
	case ReasonLimitReached, ReasonCooldownActive, ReasonNoPriorFilters, ReasonAlreadyGenerating:
		return true
	}
	return false
}

// classify maps a generation error onto a Reason.
func classify(err error) Reason {
	var ve *generator.ValidationError
	switch {
	case err == nil:
		return ReasonNone
	case errors.As(err, &ve):
		return ReasonValidation
	case generator.IsTimeout(err):
		return ReasonTimeout
	case errors.Is(err, generator.ErrNetwork):
		return ReasonNetwork
	default:
		return ReasonGeneric
	}
}
