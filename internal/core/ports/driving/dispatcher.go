package driving

import (
	"context"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

// Dispatcher drives invocation chains to a terminal result on the caller side.
// It persists suspended chains and resumes them once their delay has elapsed.
type Dispatcher interface {
	// Submit runs the first call of a new chain and returns its ID.
	// A suspended chain is stored and resumed later by the running loop.
	Submit(ctx context.Context, profile, rawInput string) (string, domain.Result, error)

	// Start begins polling for due chains.
	// Blocks until context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops the loop and waits for running calls.
	Stop() error

	// Pending returns all suspended chains.
	Pending(ctx context.Context) ([]domain.PendingInvocation, error)

	// History returns recent call outcomes for a chain.
	History(ctx context.Context, chainID string) ([]domain.InvocationOutcome, error)

	// Cancel stops re-invoking a chain by removing it from the store.
	Cancel(ctx context.Context, chainID string) error
}
