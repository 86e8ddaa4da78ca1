// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/phr/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Tools accept an optional "user"
argument; without it they act on the --user given here.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "phr": {
        "command": "phr",
        "args": ["mcp", "--user", "alice"]
      }
    }
  }

AVAILABLE TOOLS:

  add_record           Record blood pressure, sugar and/or pulse
  list_records         List recent records
  get_recommendations  Window summary and daily highlights
  get_analytics        Mean/median/min/max and outliers
  get_thresholds       Healthy ranges in effect

AVAILABLE RESOURCES:

  phr://records/recent     Latest records
  phr://recommendations    Current recommendations`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := openService("mcp", nil); err != nil {
			return err
		}
		server, err := mcp.NewServer(svc, currentUser())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
