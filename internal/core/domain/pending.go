package domain

import "time"

// PendingInvocation is a suspended chain waiting for its delay to elapse.
// It is owned by the caller-side dispatcher, not by invokers.
type PendingInvocation struct {
	// ID identifies the invocation chain.
	ID string

	// Profile names the configured invoker instance.
	Profile string

	// Input is the original raw input, replayed on every resume.
	Input string

	// Continuation is the rendered continuation Document.
	Continuation string

	// Attempt counts calls made so far in this chain.
	Attempt int

	// DueAt is when the chain may be resumed.
	DueAt time.Time

	// CreatedAt is when the chain was submitted.
	CreatedAt time.Time
}

// Due returns true if the invocation may run at now.
func (p *PendingInvocation) Due(now time.Time) bool {
	return p.DueAt.IsZero() || !p.DueAt.After(now)
}

// InvocationOutcome records one call within a chain.
type InvocationOutcome struct {
	// ChainID identifies the invocation chain.
	ChainID string

	// Profile names the configured invoker instance.
	Profile string

	// Attempt is the 1-based call number within the chain.
	Attempt int

	// Kind is the result variant.
	Kind ResultKind

	// Category is set when Kind is KindFailed.
	Category ErrorCategory

	// Message is the failure message when Kind is KindFailed.
	Message string

	// Empty mirrors Result.Empty for completed calls.
	Empty bool

	// Body is the rendered result body for completed calls.
	Body string

	// StartedAt is when the call started.
	StartedAt time.Time

	// EndedAt is when the call returned.
	EndedAt time.Time
}

// DispatcherConfig holds caller-side scheduling configuration.
type DispatcherConfig struct {
	// Workers bounds the number of concurrent invocations.
	Workers int

	// PollInterval is how often due chains are checked.
	PollInterval time.Duration

	// HistoryLimit is the number of outcomes kept per chain.
	HistoryLimit int
}

// DefaultDispatcherConfig returns sensible defaults for the dispatcher.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		Workers:      4,
		PollInterval: time.Second,
		HistoryLimit: 100,
	}
}
