package main

import (
	"context"

	"volunteer-attendance/internal/repository"
	"volunteer-attendance/internal/transport/http/api"
	"volunteer-attendance/internal/transport/http/middleware"
	handlers_fiber "volunteer-attendance/internal/transport/http/server/handlers-fiber"
	"volunteer-attendance/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
)

// ServeCmd runs the HTTP server until the process is signalled.
func ServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(app)
		},
	}
}

func serve(app *App) error {
	ctx, cfg, log := app.ctx, app.cfg, app.log

	repo, err := repository.New(ctx, "postgres", log, cfg)
	if err != nil {
		log.Errorw("repository initialization error", "error", err)
		return err
	}
	if err := repo.OnStart(ctx); err != nil {
		log.Errorw("repository start error", "error", err)
		return err
	}
	defer func() {
		_ = repo.OnStop(context.Background())
	}()

	dayLoc, err := cfg.Attendance.Location()
	if err != nil {
		return err
	}
	uc := usecase.New(log, ctx, repo, cfg.HTTP.RequestTimeout, dayLoc, cfg.Attendance.JoinCodeLength)

	serv := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(middleware.RequestLogger(log))

	serv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	h := handlers_fiber.NewHandler(log, uc)
	api.RegisterHandlers(serv, h, middleware.Actor([]byte(cfg.Auth.JWTSecret)))

	go func() {
		if err := serv.Listen(cfg.ServerAddr()); err != nil {
			log.Errorw("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = serv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warnw("server shutdown timeout", "timeout", cfg.Server.ShutdownTimeout)
	}
	return nil
}
