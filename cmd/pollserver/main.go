package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ai-tools-poll/pollserver/internal/api"
	"github.com/ai-tools-poll/pollserver/internal/auth"
	"github.com/ai-tools-poll/pollserver/internal/config"
	"github.com/ai-tools-poll/pollserver/internal/logger"
	"github.com/ai-tools-poll/pollserver/internal/service"
	"github.com/ai-tools-poll/pollserver/internal/sheets"
)

func main() {
	logger.InitLogger()
	slog.Info("Starting AI Tools Poll server...")

	cfg := config.NewConfig()
	slog.Info("Config loaded",
		"spreadsheet_title", cfg.SpreadsheetTitle,
		"http_addr", cfg.HTTPAddr,
		"cache_ttl", cfg.CacheTTL,
		"create_if_missing", cfg.CreateIfMissing,
		"allow_header_reset", cfg.AllowHeaderReset,
	)

	ctx := context.Background()

	slog.Info("Authorizing Google service account...")
	client, err := auth.New(ctx, cfg.GoogleConfig)
	if err != nil {
		slog.Error("Failed to authorize Google service account", "error", err)
		os.Exit(1)
	}
	slog.Info("Google service account authorized")

	store := sheets.NewStore(client, cfg.PollConfig)

	for attempts := 1; attempts <= 3; attempts++ {
		slog.Info("Opening poll spreadsheet", "attempt", attempts)

		err = store.Open(ctx)
		if err == nil {
			break
		}

		slog.Error("Failed to open poll spreadsheet", "error", err, "attempt", attempts)

		if attempts < 3 {
			slog.Info("Retrying in 2 seconds...")
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		slog.Error("All attempts to open the poll spreadsheet failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Poll spreadsheet ready")

	pollService := service.NewService(store)

	httpHandler := api.NewHTTPHandler(cfg, pollService)
	httpHandler.Start()

	slog.Info("Poll server is now running. Press CTRL+C to exit.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	slog.Info("Shutting down poll server...")
	if err := httpHandler.Stop(); err != nil {
		slog.Error("Error shutting down HTTP server", "error", err)
	}
}
