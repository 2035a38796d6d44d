package continuation

import (
	"fmt"
	"time"

	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
)

const (
	// RetryCountParam configures the initial attempt budget.
	RetryCountParam = "retryCount"

	// SleepTimeParam configures a fixed delay in milliseconds.
	SleepTimeParam = "sleepTime"
)

// Decision is the outcome of Manager.Next.
type Decision struct {
	// Suspend is true when another suspension is allowed.
	Suspend bool

	// Delay is the wait requested from the caller.
	Delay time.Duration

	// State is the state to hand back in the continuation.
	State domain.ContinuationState
}

// Result returns the Suspended result for the decision.
func (d Decision) Result() domain.Result {
	return domain.Suspended(d.Delay, Encode(d.State))
}

// Manager owns the attempt budget and delay policy of one invoker.
// It is immutable after construction and safe for concurrent use.
type Manager struct {
	budget    int
	hasBudget bool
	delays    driven.DelayProvider
}

// NewManager reads retryCount and sleepTime from p.
// retryCount may be absent here; Begin reports it missing only for a first
// call. A configured sleepTime takes precedence over delays.
func NewManager(p driven.Parameters, delays driven.DelayProvider) (*Manager, error) {
	m := &Manager{delays: delays}

	if p.Exists(RetryCountParam) {
		n, err := p.Integer(RetryCountParam)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("%s: negative value %d: %w", RetryCountParam, n, domain.ErrInvalidParameter)
		}
		m.budget = n
		m.hasBudget = true
	}

	if p.Exists(SleepTimeParam) {
		ms, err := p.Integer(SleepTimeParam)
		if err != nil {
			return nil, err
		}
		if ms < 0 {
			return nil, fmt.Errorf("%s: negative value %d: %w", SleepTimeParam, ms, domain.ErrInvalidParameter)
		}
		m.delays = FixedDelay(time.Duration(ms) * time.Millisecond)
	}

	if m.delays == nil {
		m.delays = NewRandomDelay()
	}
	return m, nil
}

// Begin returns the state for this call. The budget comes from the prior
// continuation when present, else from retryCount.
func (m *Manager) Begin(prior *domain.Document) (domain.ContinuationState, error) {
	if prior != nil {
		return Decode(*prior)
	}
	if !m.hasBudget {
		return domain.ContinuationState{}, fmt.Errorf("%s: %w", RetryCountParam, domain.ErrMissingParameter)
	}
	return domain.ContinuationState{RemainingAttempts: m.budget}, nil
}

// Next decides whether state allows another suspension.
func (m *Manager) Next(state domain.ContinuationState) Decision {
	if state.Exhausted() {
		return Decision{State: state}
	}
	next := state
	next.RemainingAttempts = state.RemainingAttempts - 1
	return Decision{
		Suspend: true,
		Delay:   m.delays.NextDelay(),
		State:   next,
	}
}

// Suspend builds a Suspended result carrying state as-is.
func Suspend(state domain.ContinuationState, delay time.Duration) domain.Result {
	return domain.Suspended(delay, Encode(state))
}
