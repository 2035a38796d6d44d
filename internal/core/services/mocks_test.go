package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/invokers/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/invokers/internal/continuation"
	"github.com/custodia-labs/invokers/internal/core/domain"
	"github.com/custodia-labs/invokers/internal/core/ports/driven"
)

// --- Mock implementations for service testing ---

// mockInvoker returns scripted results in order and records every call.
// The last result repeats once the script runs out.
type mockInvoker struct {
	mu      sync.Mutex
	results []domain.Result
	calls   int
	priors  []*domain.Document
}

func newMockInvoker(results ...domain.Result) *mockInvoker {
	return &mockInvoker{results: results}
}

func (m *mockInvoker) Type() string {
	return "mock"
}

func (m *mockInvoker) Invoke(_ context.Context, _ string, prior *domain.Document) domain.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priors = append(m.priors, prior)
	i := m.calls
	m.calls++
	if i >= len(m.results) {
		i = len(m.results) - 1
	}
	return m.results[i]
}

func (m *mockInvoker) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockInvoker) priorAt(i int) *domain.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.priors[i]
}

func mockType() domain.InvokerType {
	return domain.InvokerType{
		ID:   "mock",
		Name: "Mock",
		ConfigKeys: []domain.ConfigKey{
			{Key: "url", Required: true},
		},
	}
}

// newTestService wires an InvocationService whose "test" profile resolves to inv.
func newTestService(inv driven.Invoker) (*InvocationService, *InvokerFactory, *memory.ConfigStore) {
	factory := NewInvokerFactory(nil)
	factory.Register(mockType(), func(driven.Parameters, driven.Transport) (driven.Invoker, error) {
		return inv, nil
	})

	config := memory.NewConfigStore()
	config.AddProfile(domain.Profile{
		Name:   "test",
		Type:   "mock",
		Params: map[string]string{"url": "http://upstream.invalid"},
	})
	return NewInvocationService(config, factory), factory, config
}

func suspended(remaining int, delay time.Duration) domain.Result {
	return continuation.Suspend(domain.ContinuationState{RemainingAttempts: remaining}, delay)
}

func completed(text string) domain.Result {
	return domain.Completed(domain.NewText("Result", text), false)
}

// mockPendingStore wraps the memory store with injectable errors.
type mockPendingStore struct {
	*memory.PendingStore

	mu         sync.Mutex
	saveErr    error
	listErr    error
	beforeSave func()
}

func newMockPendingStore() *mockPendingStore {
	return &mockPendingStore{PendingStore: memory.NewPendingStore()}
}

func (m *mockPendingStore) Save(ctx context.Context, p *domain.PendingInvocation) error {
	m.mu.Lock()
	err, hook := m.saveErr, m.beforeSave
	m.mu.Unlock()
	if err != nil {
		return err
	}
	if hook != nil {
		hook()
	}
	return m.PendingStore.Save(ctx, p)
}

func (m *mockPendingStore) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.PendingInvocation, error) {
	m.mu.Lock()
	err := m.listErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.PendingStore.ListDue(ctx, now, limit)
}

var errStoreDown = errors.New("store unavailable")

// Ensure mockPendingStore implements the interface.
var _ driven.PendingStore = (*mockPendingStore)(nil)

// newDummyConfig returns a config with a dummy profile that suspends twice
// with a 5ms delay before completing.
func newDummyConfig() *memory.ConfigStore {
	config := memory.NewConfigStore()
	config.AddProfile(domain.Profile{
		Name: "dummy",
		Type: "dummy",
		Params: map[string]string{
			"delay":      "true",
			"retryCount": "2",
			"sleepTime":  "5",
		},
	})
	return config
}
