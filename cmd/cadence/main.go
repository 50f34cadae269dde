package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cadencehq/cadence/adapter/cli"
	cliSettings "github.com/cadencehq/cadence/adapter/cli/settings"
	"github.com/cadencehq/cadence/adapter/cli/suggest"
	"github.com/cadencehq/cadence/internal/app"
	"github.com/cadencehq/cadence/pkg/config"
	"github.com/cadencehq/cadence/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		logger.Error("invalid CADENCE_USER_ID", "error", err)
		os.Exit(1)
	}

	cliApp := &cli.App{
		GenerateSuggestionsHandler: container.GenerateSuggestionsHandler,
		AcceptSuggestionHandler:    container.AcceptSuggestionHandler,
		RejectSuggestionHandler:    container.RejectSuggestionHandler,
		DismissSuggestionHandler:   container.DismissSuggestionHandler,
		CleanupExpiredHandler:      container.CleanupExpiredHandler,
		GetSuggestionsHandler:      container.GetSuggestionsHandler,
		SettingsRepo:               container.SettingsRepo,
	}
	cliApp.SetCurrentUserID(userID)
	cli.SetApp(cliApp)

	cli.AddCommand(suggest.Cmd)
	cli.AddCommand(cliSettings.Cmd)

	cli.Execute()
}
