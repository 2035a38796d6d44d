package driving

import "github.com/custodia-labs/invokers/internal/core/domain"

// InvokerRegistry provides information about available invoker types.
type InvokerRegistry interface {
	// List returns all registered invoker types sorted by ID.
	List() []domain.InvokerType

	// Get returns a specific invoker type by ID.
	Get(id string) (*domain.InvokerType, error)
}
