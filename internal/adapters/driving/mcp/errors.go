// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants run configured invokers and resume suspended
// chains through opaque continuation tokens.
package mcp

import "errors"

// ErrMissingInvocationService is returned when the invocation service is not provided.
var ErrMissingInvocationService = errors.New("mcp: invocation service is required")
