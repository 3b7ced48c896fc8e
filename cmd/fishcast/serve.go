package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/fishcast/internal/api/http"
	"github.com/i474232898/fishcast/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the cache warm-up scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		startCtx, cancelStart := startupContext(cfg)
		service, closer, err := newService(startCtx, cfg, log)
		cancelStart()
		if err != nil {
			return err
		}
		defer closer.Close()

		// Scheduler that keeps configured spots warm in the cache.
		sched := scheduler.New(cfg.Spots, cfg.WarmInterval, service, log)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		app := fiber.New(fiber.Config{
			AppName:               "fishcast",
			DisableStartupMessage: true,
			ReadTimeout:           10 * time.Second,
			WriteTimeout:          cfg.RequestTimeout + 5*time.Second,
			ErrorHandler:          httpapi.ErrorHandler,
		})

		app.Use(logger.New())
		app.Use(recover.New())

		httpapi.RegisterRoutes(app, service, newResolver(cfg), log)

		go func() {
			log.WithField("port", cfg.Port).Info("listening")
			if err := app.Listen(":" + cfg.Port); err != nil {
				log.WithError(err).Error("fiber server stopped")
			}
		}()

		// Wait for termination signal
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("error during shutdown")
		}
		return nil
	},
}
