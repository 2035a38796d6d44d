package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
)

// Ensure PendingStore implements the interface.
var _ driven.PendingStore = (*PendingStore)(nil)

// PendingStore is an in-memory implementation of driven.PendingStore.
type PendingStore struct {
	mu       sync.RWMutex
	pending  map[string]domain.PendingInvocation
	outcomes map[string][]domain.InvocationOutcome // oldest first
}

// NewPendingStore creates a new in-memory pending store.
func NewPendingStore() *PendingStore {
	return &PendingStore{
		pending:  make(map[string]domain.PendingInvocation),
		outcomes: make(map[string][]domain.InvocationOutcome),
	}
}

// Save stores or updates a pending chain. CreatedAt of an existing chain is kept.
func (s *PendingStore) Save(_ context.Context, p *domain.PendingInvocation) error {
	if p == nil || p.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *p
	if existing, ok := s.pending[p.ID]; ok {
		saved.CreatedAt = existing.CreatedAt
	}
	s.pending[p.ID] = saved
	return nil
}

// Get retrieves a pending chain by ID.
func (s *PendingStore) Get(_ context.Context, id string) (*domain.PendingInvocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pending[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// List returns all pending chains ordered by due time.
func (s *PendingStore) List(_ context.Context) ([]domain.PendingInvocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(domain.PendingInvocation) bool { return true }, 0), nil
}

// ListDue returns up to limit chains due at now.
func (s *PendingStore) ListDue(_ context.Context, now time.Time, limit int) ([]domain.PendingInvocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(p domain.PendingInvocation) bool { return p.Due(now) }, limit), nil
}

// Delete removes a pending chain.
func (s *PendingStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	return nil
}

// RecordOutcome appends an outcome to the chain history.
func (s *PendingStore) RecordOutcome(_ context.Context, o *domain.InvocationOutcome) error {
	if o == nil {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[o.ChainID] = append(s.outcomes[o.ChainID], *o)
	return nil
}

// History returns recent outcomes for a chain, most recent first.
func (s *PendingStore) History(_ context.Context, chainID string, limit int) ([]domain.InvocationOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.outcomes[chainID]
	out := make([]domain.InvocationOutcome, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, all[i])
	}
	return out, nil
}

// PruneHistory keeps the most recent 'keep' outcomes per chain.
func (s *PendingStore) PruneHistory(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, all := range s.outcomes {
		if len(all) > keep {
			trimmed := make([]domain.InvocationOutcome, keep)
			copy(trimmed, all[len(all)-keep:])
			s.outcomes[id] = trimmed
		}
	}
	return nil
}

// sorted returns matching chains ordered by due time then ID. Caller holds the lock.
func (s *PendingStore) sorted(match func(domain.PendingInvocation) bool, limit int) []domain.PendingInvocation {
	var out []domain.PendingInvocation
	for _, p := range s.pending {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueAt.Equal(out[j].DueAt) {
			return out[i].DueAt.Before(out[j].DueAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
