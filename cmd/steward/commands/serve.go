package commands

import (
	"log/slog"

	"github.com/davrd/steward/internal/tools"
	"github.com/davrd/steward/internal/version"
	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool provider over stdio",
		Long:  `Expose the seeded file and record store as MCP tools on stdin/stdout, for use with provider.transport "stdio" or any MCP client.`,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := tools.NewStdioServer(tools.NewSeededStore(), version.Version)
	slog.Info("tool provider serving on stdio")
	return tools.ServeStdio(srv)
}
