package mcp

import (
	"context"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

// mockInvocationService is a mock implementation of driving.InvocationService.
type mockInvocationService struct {
	result   domain.Result
	err      error
	profiles []string

	gotProfile string
	gotInput   string
	gotPrior   *domain.Document
}

func (m *mockInvocationService) Invoke(
	_ context.Context,
	profile, rawInput string,
	prior *domain.Document,
) (domain.Result, error) {
	m.gotProfile = profile
	m.gotInput = rawInput
	m.gotPrior = prior
	return m.result, m.err
}

func (m *mockInvocationService) Profiles() []string {
	return m.profiles
}

// mockRegistry is a mock implementation of driving.InvokerRegistry.
type mockRegistry struct {
	types []domain.InvokerType
}

func (m *mockRegistry) List() []domain.InvokerType {
	return m.types
}

func (m *mockRegistry) Get(id string) (*domain.InvokerType, error) {
	for i := range m.types {
		if m.types[i].ID == id {
			return &m.types[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockDispatcher is a mock implementation of driving.Dispatcher.
type mockDispatcher struct {
	id      string
	result  domain.Result
	history []domain.InvocationOutcome
	err     error
}

func (m *mockDispatcher) Submit(_ context.Context, _, _ string) (string, domain.Result, error) {
	return m.id, m.result, m.err
}

func (m *mockDispatcher) Start(_ context.Context) error {
	return nil
}

func (m *mockDispatcher) Stop() error {
	return nil
}

func (m *mockDispatcher) Pending(_ context.Context) ([]domain.PendingInvocation, error) {
	return nil, m.err
}

func (m *mockDispatcher) History(_ context.Context, _ string) ([]domain.InvocationOutcome, error) {
	return m.history, m.err
}

func (m *mockDispatcher) Cancel(_ context.Context, _ string) error {
	return m.err
}
