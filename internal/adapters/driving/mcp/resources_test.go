package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

func TestExtractChainID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid chain history URI",
			uri:      "invokers://chains/chain-123/history",
			expected: "chain-123",
		},
		{
			name:     "invalid prefix",
			uri:      "file://chains/chain-123/history",
			expected: "",
		},
		{
			name:     "missing history suffix",
			uri:      "invokers://chains/chain-123",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractChainID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleTypesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil registry returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Invocation: &mockInvocationService{}})
		require.NoError(t, err)

		result, err := server.handleTypesResource(ctx, makeReadResourceRequest("invokers://types"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns types", func(t *testing.T) {
		registry := &mockRegistry{types: []domain.InvokerType{
			{
				ID:            "dummy",
				Name:          "Dummy",
				InputFormat:   domain.InputAny,
				SupportsDelay: true,
				ConfigKeys:    []domain.ConfigKey{{Key: "retryCount"}},
			},
			{
				ID:          "blacklist",
				Name:        "Blacklist",
				InputFormat: domain.InputDocument,
				ConfigKeys:  []domain.ConfigKey{{Key: "partner_key", Required: true}},
			},
		}}
		server, err := NewServer(&Ports{Invocation: &mockInvocationService{}, Registry: registry})
		require.NoError(t, err)

		result, err := server.handleTypesResource(ctx, makeReadResourceRequest("invokers://types"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"id": "dummy"`)
		assert.Contains(t, text, `"supports_delay": true`)
		assert.Contains(t, text, `"key": "partner_key"`)
		assert.Contains(t, text, `"required": true`)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil dispatcher returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Invocation: &mockInvocationService{}})
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, makeReadResourceRequest("invokers://chains/c1/history"))
		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Invocation: &mockInvocationService{}, Dispatcher: &mockDispatcher{}})
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, makeReadResourceRequest("invokers://invalid/uri"))
		require.Error(t, err)
	})

	t.Run("returns history", func(t *testing.T) {
		started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		dispatcher := &mockDispatcher{history: []domain.InvocationOutcome{
			{ChainID: "c1", Attempt: 2, Kind: domain.KindFailed, Category: domain.CategoryNetwork, StartedAt: started},
			{ChainID: "c1", Attempt: 1, Kind: domain.KindSuspended, StartedAt: started.Add(-time.Minute)},
		}}
		server, err := NewServer(&Ports{Invocation: &mockInvocationService{}, Dispatcher: dispatcher})
		require.NoError(t, err)

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("invokers://chains/c1/history"))
		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"kind": "failed"`)
		assert.Contains(t, text, `"category": "NetworkError"`)
		assert.Contains(t, text, `"started_at": "2024-03-01T12:00:00Z"`)
	})

	t.Run("returns error on store failure", func(t *testing.T) {
		dispatcher := &mockDispatcher{err: errors.New("database error")}
		server, err := NewServer(&Ports{Invocation: &mockInvocationService{}, Dispatcher: dispatcher})
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, makeReadResourceRequest("invokers://chains/c1/history"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading history")
	})
}
