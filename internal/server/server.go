package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"health-content-web/internal/builder"
	"health-content-web/internal/config"
)

// Run loads the configuration, builds the application and serves HTTP until a shutdown signal arrives.
func Run(ctx context.Context) error {
	cfg := config.LoadConfig()
	if err := config.ValidateEssentialConfig(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	container, err := builder.BuildContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build application container: %w", err)
	}
	defer func() {
		slog.Info("♻️ Closing application container...")
		container.Close()
	}()

	// 1. Handlers
	h, err := builder.BuildHandlers(container)
	if err != nil {
		return fmt.Errorf("failed to build handlers: %w", err)
	}

	// 2. Router
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: NewRouter(h),
	}

	// --- Start server and wait for a signal ---
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("🚀 Server starting...", "port", cfg.Port, "service_url", cfg.ServiceURL)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-shutdown:
		slog.Info("⚠️ Starting graceful shutdown...")

		timeout := cfg.ShutdownTimeout
		if timeout == 0 {
			timeout = config.DefaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed, forcing close", "error", err)

			if closeErr := srv.Close(); closeErr != nil {
				return fmt.Errorf("could not stop server: shutdown error: %v, close error: %v", err, closeErr)
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}

		slog.Info("✅ Server stopped cleanly")
	}

	return nil
}
