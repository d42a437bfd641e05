// Package main is the entrypoint of the membership and attendance service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"volunteer-attendance/config"
	"volunteer-attendance/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds dependencies shared by all commands.
type App struct {
	cfg *config.Config
	log *zap.SugaredLogger
	ctx context.Context
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &App{ctx: ctx}

	rootCmd := &cobra.Command{
		Use:           "attendance",
		Short:         "Volunteer membership and attendance service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Logging.Level)
			if err != nil {
				return err
			}
			app.cfg = cfg
			app.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.log != nil {
				_ = app.log.Sync()
			}
		},
	}

	rootCmd.AddCommand(
		ServeCmd(app),
		MigrateCmd(app),
		CreatePersonCmd(app),
		IssueTokenCmd(app),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
