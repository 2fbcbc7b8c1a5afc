package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	tdkmcp "github.com/taskdeck/taskdeck/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the taskdeck MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the taskdeck MCP server on stdio",
	Long: `Start the taskdeck MCP server on stdio transport.

The server exposes taskdeck functionality as MCP tools that AI assistants
can call: list_projects, get_task, list_tasks, create_task,
update_task_status, add_comment, get_metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil || Tasks == nil {
			return fmt.Errorf("stores not initialized")
		}

		srv := tdkmcp.NewServer(Projects, Tasks, Metrics, appVersion)

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
