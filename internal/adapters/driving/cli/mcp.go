package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/adapters/driving/mcp"
	"github.com/custodia-labs/margin/internal/core/domain"
)

var mcpHost string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so an AI assistant can read
your ideas, review the study queue and add ideas and relations.

By default, the server communicates over stdio using JSON-RPC.

Use --port to serve streamable HTTP instead, for example to poke at the
tools with MCP Inspector. The server binds to localhost unless --host says
otherwise.

Examples:
  # Stdio mode (default)
  margin mcp serve

  # HTTP mode
  margin mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "margin": {
        "command": "/path/to/margin",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", "127.0.0.1", "interface to bind in HTTP mode")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if port < 0 || port > 65535 {
		return fmt.Errorf("%w: port %d out of range", domain.ErrInvalidInput, port)
	}

	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Workspace: ws,
		Version:   version,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := net.JoinHostPort(mcpHost, strconv.Itoa(port))
		cmd.PrintErrf("MCP server listening on http://%s\n", addr)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	return server.Run(commandContext(cmd))
}
