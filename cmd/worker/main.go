// The worker runs suggestion generation and expiry sweeps on a schedule and
// exposes a health endpoint.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cadencehq/cadence/internal/app"
	"github.com/cadencehq/cadence/internal/scheduling/application/commands"
	"github.com/cadencehq/cadence/pkg/config"
	"github.com/cadencehq/cadence/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()
	logger.Info("starting cadence worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()
	logger.Info("connected to database", "driver", container.Conn.Driver())

	if cfg.WorkerHealthAddr != "" {
		startHealthServer(ctx, cfg.WorkerHealthAddr, container, logger)
	}

	generateTicker := time.NewTicker(cfg.GenerateInterval)
	defer generateTicker.Stop()
	cleanupTicker := time.NewTicker(cfg.CleanupInterval)
	defer cleanupTicker.Stop()

	logger.Info("worker running",
		"generate_interval", cfg.GenerateInterval,
		"cleanup_interval", cfg.CleanupInterval,
	)

	generateAll(ctx, container, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker stopped")
			return
		case <-generateTicker.C:
			generateAll(ctx, container, logger)
		case <-cleanupTicker.C:
			dismissed, err := container.CleanupExpiredHandler.Handle(ctx)
			if err != nil {
				logger.Error("expiry sweep failed", "error", err)
				continue
			}
			if dismissed > 0 {
				logger.Info("expiry sweep completed", "dismissed", dismissed)
			}
		}
	}
}

// generateAll runs suggestion generation for every user with open tasks.
// A failure for one user never blocks the others.
func generateAll(ctx context.Context, container *app.Container, logger *slog.Logger) {
	userIDs, err := container.TaskRepo.UserIDsWithOpenTasks(ctx)
	if err != nil {
		logger.Error("failed to list users with open tasks", "error", err)
		return
	}

	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return
		}
		cmd := commands.GenerateSuggestionsCommand{UserID: userID}
		if _, err := container.GenerateSuggestionsHandler.Handle(ctx, cmd); err != nil {
			logger.Error("suggestion generation failed",
				"user_id", userID.String(),
				"error", err,
			)
		}
	}
}

func startHealthServer(ctx context.Context, addr string, container *app.Container, logger *slog.Logger) {
	registry := observability.NewHealthRegistry()
	registry.Register("database", observability.PingChecker(container.Conn.Ping))

	mux := http.NewServeMux()
	mux.Handle("/healthz", registry.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("health server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()
}
