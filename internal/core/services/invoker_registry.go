package services

import (
	"fmt"

	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/core/ports/driving"
)

// Ensure InvokerRegistry implements the interface.
var _ driving.InvokerRegistry = (*InvokerRegistry)(nil)

// InvokerRegistry provides information about available invoker types.
type InvokerRegistry struct {
	factory driven.InvokerFactory
}

// NewInvokerRegistry creates a registry over the factory's registered types.
func NewInvokerRegistry(factory driven.InvokerFactory) *InvokerRegistry {
	return &InvokerRegistry{factory: factory}
}

// List returns all available invoker types sorted by ID.
func (r *InvokerRegistry) List() []domain.InvokerType {
	ids := r.factory.SupportedTypes()
	types := make([]domain.InvokerType, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.factory.Describe(id); ok {
			types = append(types, t)
		}
	}
	return types
}

// Get returns a specific invoker type by ID.
func (r *InvokerRegistry) Get(id string) (*domain.InvokerType, error) {
	t, ok := r.factory.Describe(id)
	if !ok {
		return nil, fmt.Errorf("invoker type %q: %w", id, domain.ErrNotFound)
	}
	return &t, nil
}
