package cli

import (
	"errors"
	"fmt"
	"time"

	"task_tracker/internal/config"
	"task_tracker/internal/service"

	"github.com/spf13/cobra"
)

func NewTokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
		secret  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the API",
		Long: `Sign an HS256 token with JWT_SECRET for use in the Authorization header
or the ?token= query of the live feed.

Example:
  tasktracker token --subject alice --ttl 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = config.Load().JWTSecret
			}
			if subject == "" {
				return errors.New("--subject is required")
			}

			auth, err := service.NewAuthenticator(secret)
			if err != nil {
				return fmt.Errorf("JWT_SECRET not set: %w", err)
			}
			token, err := auth.GenerateJWT(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (overrides JWT_SECRET)")

	return cmd
}
