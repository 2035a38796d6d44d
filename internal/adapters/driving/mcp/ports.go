package mcp

import (
	"github.com/custodia-labs/invokers/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Invocation runs single invocations.
	Invocation driving.InvocationService

	// Registry describes the available invoker types.
	Registry driving.InvokerRegistry

	// Dispatcher drives chains in the background.
	Dispatcher driving.Dispatcher
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Invocation == nil {
		return ErrMissingInvocationService
	}
	// Registry and Dispatcher are optional
	return nil
}
