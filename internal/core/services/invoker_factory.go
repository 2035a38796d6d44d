package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
	"github.com/custodia-labs/invokers/internal/failure"
	"github.com/custodia-labs/invokers/internal/invokers/blacklist"
	"github.com/custodia-labs/invokers/internal/invokers/crm"
	"github.com/custodia-labs/invokers/internal/invokers/dummy"
	"github.com/custodia-labs/invokers/internal/invokers/fedresurs"
	"github.com/custodia-labs/invokers/internal/invokers/surelead"
	"github.com/custodia-labs/invokers/internal/params"
)

// Ensure InvokerFactory implements the interface.
var _ driven.InvokerFactory = (*InvokerFactory)(nil)

type registration struct {
	meta    domain.InvokerType
	builder driven.InvokerBuilder
}

// InvokerFactory builds invokers from profiles.
type InvokerFactory struct {
	mu         sync.RWMutex
	types      map[string]registration
	transports driven.TransportBuilder
}

// NewInvokerFactory creates an empty factory. transports builds the
// outbound transport of each profile.
func NewInvokerFactory(transports driven.TransportBuilder) *InvokerFactory {
	return &InvokerFactory{
		types:      make(map[string]registration),
		transports: transports,
	}
}

// NewBuiltinFactory creates a factory with every built-in invoker registered.
func NewBuiltinFactory(transports driven.TransportBuilder) *InvokerFactory {
	f := NewInvokerFactory(transports)
	RegisterBuiltins(f)
	return f
}

// RegisterBuiltins registers the built-in invoker types.
func RegisterBuiltins(f driven.InvokerFactory) {
	f.Register(blacklist.Metadata(), blacklist.New)
	f.Register(surelead.Metadata(), surelead.New)
	f.Register(crm.Metadata(), crm.New)
	f.Register(fedresurs.Metadata(), fedresurs.New)
	f.Register(dummy.Metadata(), dummy.New)
	f.Register(dummy.ReplyMetadata(), dummy.NewReply)
	f.Register(dummy.HTTPSMetadata(), dummy.NewHTTPS)
}

// Register adds or replaces a builder for the given type.
func (f *InvokerFactory) Register(invokerType domain.InvokerType, builder driven.InvokerBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types[invokerType.ID] = registration{meta: invokerType, builder: builder}
}

// SupportedTypes returns all registered type IDs in sorted order.
func (f *InvokerFactory) SupportedTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	ids := make([]string, 0, len(f.types))
	for id := range f.types {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Describe returns the metadata for a registered type.
func (f *InvokerFactory) Describe(invokerType string) (domain.InvokerType, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	reg, ok := f.types[invokerType]
	return reg.meta, ok
}

// Create builds the invoker for profile.
// Unknown types wrap domain.ErrUnsupportedType. Parameter problems and
// transport setup problems are returned as *domain.Failure.
func (f *InvokerFactory) Create(profile domain.Profile) (driven.Invoker, error) {
	f.mu.RLock()
	reg, ok := f.types[profile.Type]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("invoker type %q: %w", profile.Type, domain.ErrUnsupportedType)
	}

	p := params.New(profile.Params)
	if err := params.Require(p, reg.meta.RequiredKeys()...); err != nil {
		return nil, failure.FromError(fmt.Errorf("profile %s: %w", profile.Name, err)).Err()
	}

	var transport driven.Transport
	if f.transports != nil {
		t, err := f.transports(profile)
		if err != nil {
			return nil, failure.FromError(fmt.Errorf("profile %s: building transport: %w", profile.Name, err)).Err()
		}
		transport = t
	}

	inv, err := reg.builder(p, transport)
	if err != nil {
		var fail *domain.Failure
		if errors.As(err, &fail) {
			return nil, fail
		}
		return nil, failure.FromError(fmt.Errorf("profile %s: %w", profile.Name, err)).Err()
	}
	return inv, nil
}
