package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

// PendingStore persists suspended invocation chains for the caller-side
// dispatcher. It stores pending chains and per-call outcome history.
type PendingStore interface {
	// Save creates or updates a pending chain by ID.
	Save(ctx context.Context, p *domain.PendingInvocation) error

	// Get retrieves a pending chain by ID.
	// Returns nil and no error if the chain does not exist.
	Get(ctx context.Context, id string) (*domain.PendingInvocation, error)

	// List returns all pending chains ordered by due time.
	List(ctx context.Context) ([]domain.PendingInvocation, error)

	// ListDue returns up to limit chains due at now, ordered by due time.
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.PendingInvocation, error)

	// Delete removes a pending chain. Deleting a missing chain is not an error.
	Delete(ctx context.Context, id string) error

	// RecordOutcome logs one call of a chain.
	RecordOutcome(ctx context.Context, outcome *domain.InvocationOutcome) error

	// History returns recent outcomes for a chain, most recent first.
	History(ctx context.Context, chainID string, limit int) ([]domain.InvocationOutcome, error)

	// PruneHistory keeps only the most recent 'keep' outcomes per chain.
	PruneHistory(ctx context.Context, keep int) error
}
