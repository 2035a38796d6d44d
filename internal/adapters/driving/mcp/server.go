package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/invokers/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// instructions is shown to clients on initialize.
const instructions = `Call external systems through configured profiles.
Use list_profiles to see what is available. The invoke tool calls a profile once.
A "suspended" result carries delay_ms and a continuation: wait at least delay_ms,
then call invoke again with the same profile, input and continuation.
When submit is available, the server waits and resumes on its own; read the
chain through invokers://chains/{chainId}/history.`

// Server is the MCP server exposing configured invokers.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates an MCP server over the given ports.
// The submit tool and chain resources are only served when a dispatcher is set.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "invokers", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves streamable HTTP on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutdown", "error", err)
		}
	}()

	logger.Info("mcp: serving http", "addr", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
