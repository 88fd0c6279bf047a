package cli

import (
	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X task_tracker/internal/cli.Version=...".
var Version = "dev"

// NewRootCommand creates the root command for the tasktracker CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tasktracker",
		Short:         "Task Tracker API",
		Long:          "A task-tracking record service: CRUD over tasks through an HTTP API.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewTokenCommand())
	cmd.AddCommand(NewWatchCommand())

	return cmd
}
