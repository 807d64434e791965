package commands

import (
	"github.com/davrd/steward/internal/config"
	"github.com/spf13/cobra"
)

var logLevelOverride string

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steward",
		Short: "Steward - Approval-Gated Task Executor",
		Long:  `Steward turns one-line requests into audited tool calls, pausing for human approval before anything destructive.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The stdio provider owns stdout for JSON-RPC; logs stay on stderr.
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return configureLogger(cfg, logLevelOverride)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevelOverride, "log-level", "", "Override log level (debug|info|warn|error)")

	cmd.AddCommand(
		NewChatCmd(),
		NewServeCmd(),
		NewVersionCmd(),
	)

	return cmd
}
