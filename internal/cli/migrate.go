package cli

import (
	"context"
	"fmt"
	"time"

	"task_tracker/internal/config"
	"task_tracker/internal/db"
	"task_tracker/internal/logger"

	"github.com/spf13/cobra"
)

func NewMigrateCommand() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the tasks schema without serving",
		Long: `Apply the embedded schema to the configured store and exit.

Safe to run repeatedly; tables and indexes are created only if absent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if databaseURL != "" {
				cfg.DatabaseURL = databaseURL
			}
			logger.Init(cfg.LogLevel, cfg.LogFormat)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			driver, err := migrate(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %s schema\n", driver)
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "store URL (overrides DATABASE_URL)")

	return cmd
}

func migrate(ctx context.Context, url string) (string, error) {
	store, err := db.Open(ctx, url)
	if err != nil {
		return "", err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return "", err
	}
	return store.Driver, nil
}
