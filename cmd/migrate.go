package main

import (
	"volunteer-attendance/internal/repository/postgres"

	"github.com/spf13/cobra"
)

// MigrateCmd applies pending schema migrations and exits.
func MigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := postgres.Migrate(app.ctx, app.cfg.Postgres); err != nil {
				return err
			}
			app.log.Infow("migrations applied", "dir", app.cfg.Postgres.MigrationsDir)
			return nil
		},
	}
}
