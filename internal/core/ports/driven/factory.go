package driven

import (
	"github.com/custodia-labs/invokers/internal/core/domain"
)

// InvokerBuilder creates an Invoker from its parameters and transport.
// Transport is already configured for the profile's TLS settings.
type InvokerBuilder func(params Parameters, transport Transport) (Invoker, error)

// TransportBuilder creates the outbound transport for a profile.
type TransportBuilder func(profile domain.Profile) (Transport, error)

// InvokerFactory creates invokers from profile configuration.
// It maintains a registry of invoker types and their builders.
type InvokerFactory interface {
	// Create returns an Invoker for the given profile.
	// Returns ErrUnsupportedType if the profile type is unknown and a
	// MissingRequiredParameter failure if a required key is absent.
	Create(profile domain.Profile) (Invoker, error)

	// Register adds an invoker builder for the given type.
	Register(invokerType domain.InvokerType, builder InvokerBuilder)

	// SupportedTypes returns all registered invoker types in sorted order.
	SupportedTypes() []string

	// Describe returns the metadata for a registered type.
	Describe(invokerType string) (domain.InvokerType, bool)
}
