package main

import (
	"context"
	"fmt"
	"time"

	"order-tracker/internal/domain/user"
	"order-tracker/internal/infra/db"
	"order-tracker/internal/pkg/config"
	"order-tracker/internal/pkg/errs"
	"order-tracker/internal/pkg/jwt"
	"order-tracker/migrations"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "order-tracker",
		Short: "Order tracking API server",
		Long: `order-tracker serves the order lifecycle API, shipping rate quotes,
shipment tracking and live order event streams.

Running without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve()
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newTokenCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve()
		},
	}
}

func newMigrateCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			pool, cleanup, err := db.Connect(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer cleanup()

			applied, err := db.Migrate(ctx, pool, migrations.FS)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "applied", v)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall migration timeout")
	return cmd
}

// newTokenCmd issues an access token for operators and integration tests.
// Login is handled by the storefront, not by this service.
func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			r, err := user.NewRole(role)
			if err != nil {
				return err
			}
			id := uuid.New()
			if subject != "" {
				if id, err = uuid.Parse(subject); err != nil {
					return errs.Wrap(err, "invalid --user")
				}
			}
			if ttl <= 0 {
				ttl = cfg.JWT.TokenTTL
			}
			token, err := jwt.NewService(cfg.JWT.Secret, ttl).GenerateToken(id, r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "user", "", "user id (random when empty)")
	cmd.Flags().StringVar(&role, "role", string(user.RoleAdmin), "customer or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_TOKEN_TTL)")
	return cmd
}
