package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	mpmmcp "github.com/membry/mpm/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the mpm MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mpm MCP server on stdio",
	Long: `Start the mpm MCP server on stdio transport.

The server exposes the workflow engine as MCP tools that AI assistants can
call: get_project, list_tasks, phase_progress, critical_path,
recommend_assignees, advance_phase.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil || Team == nil {
			return fmt.Errorf("stores not initialized")
		}

		srv := mpmmcp.NewServer(Projects, Team, PhaseMgr, Recommender, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
