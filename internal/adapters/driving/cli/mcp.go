package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/invokers/internal/adapters/driving/mcp"
	"github.com/custodia-labs/invokers/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can call
configured profiles. Suspended results carry a continuation token that the
assistant passes back on the next invoke call.

By default, the server communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default)
  invokers mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  invokers mcp serve --port 8080

  # Enable the submit tool backed by the durable dispatcher
  invokers mcp serve --dispatch`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("dispatch", false, "run the dispatcher and expose the submit tool")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	withDispatch, err := cmd.Flags().GetBool("dispatch")
	if err != nil {
		return fmt.Errorf("getting dispatch flag: %w", err)
	}

	ports := &mcp.Ports{
		Invocation: invocationService,
		Registry:   invokerRegistry,
	}
	if withDispatch {
		d, cleanup, err := openDispatcher()
		if err != nil {
			return err
		}
		defer cleanup()
		ports.Dispatcher = d

		go func() {
			if err := d.Start(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("dispatcher stopped", "error", err)
			}
		}()
		defer d.Stop() //nolint:errcheck
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
