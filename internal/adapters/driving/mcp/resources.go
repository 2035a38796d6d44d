package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for invoker resources.
	uriScheme = "invokers://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing invoker types.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "types",
		Name:        "types",
		Description: "Invoker types and their configuration keys",
		MIMEType:    "application/json",
	}, s.handleTypesResource)

	// Template for the outcome history of a dispatched chain.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "chains/{chainId}/history",
		Name:        "chain-history",
		Description: "Recent call outcomes of a dispatched chain",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleTypesResource returns the registered invoker types.
func (s *Server) handleTypesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Registry == nil {
		return jsonContents(req.Params.URI, "[]"), nil
	}

	type keyInfo struct {
		Key      string `json:"key"`
		Required bool   `json:"required,omitempty"`
		Default  string `json:"default,omitempty"`
	}
	type typeInfo struct {
		ID            string    `json:"id"`
		Name          string    `json:"name"`
		Description   string    `json:"description"`
		Input         string    `json:"input"`
		SupportsDelay bool      `json:"supports_delay"`
		Keys          []keyInfo `json:"keys"`
	}

	types := s.ports.Registry.List()
	infos := make([]typeInfo, len(types))
	for i, t := range types {
		keys := make([]keyInfo, len(t.ConfigKeys))
		for j, k := range t.ConfigKeys {
			keys[j] = keyInfo{Key: k.Key, Required: k.Required, Default: k.Default}
		}
		infos[i] = typeInfo{
			ID:            t.ID,
			Name:          t.Name,
			Description:   t.Description,
			Input:         string(t.InputFormat),
			SupportsDelay: t.SupportsDelay,
			Keys:          keys,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling types: %w", err)
	}
	return jsonContents(req.Params.URI, string(data)), nil
}

// handleHistoryResource returns recent outcomes for a chain.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Dispatcher == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract chainId from URI: invokers://chains/{chainId}/history
	chainID := extractChainID(req.Params.URI)
	if chainID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	history, err := s.ports.Dispatcher.History(ctx, chainID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("loading history: %w", err)
	}

	type outcomeInfo struct {
		Attempt   int    `json:"attempt"`
		Kind      string `json:"kind"`
		Category  string `json:"category,omitempty"`
		Message   string `json:"message,omitempty"`
		Empty     bool   `json:"empty,omitempty"`
		StartedAt string `json:"started_at"`
	}

	infos := make([]outcomeInfo, len(history))
	for i := range history {
		o := &history[i]
		infos[i] = outcomeInfo{
			Attempt:   o.Attempt,
			Kind:      o.Kind.String(),
			Category:  string(o.Category),
			Message:   o.Message,
			Empty:     o.Empty,
			StartedAt: o.StartedAt.UTC().Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}
	return jsonContents(req.Params.URI, string(data)), nil
}

func jsonContents(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractChainID extracts the chain ID from a URI like invokers://chains/{chainId}/history.
func extractChainID(uri string) string {
	const prefix = uriScheme + "chains/"
	const suffix = "/history"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
