package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/reelearn/shorts-api/internal/api"
	"github.com/reelearn/shorts-api/internal/config"
	"github.com/reelearn/shorts-api/internal/expander"
	"github.com/reelearn/shorts-api/internal/search"
	"github.com/reelearn/shorts-api/internal/server"
)

func main() {
	// Redirect standard log output to stderr first: in MCP mode stdout
	// carries the protocol stream.
	log.SetOutput(os.Stderr)

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	exp, err := expander.New(ctx, cfg.GeminiAPIKey, logger)
	if err != nil {
		logger.Error("failed to create query expander", "error", err)
		os.Exit(1)
	}
	if !exp.Enabled() {
		logger.Info("query expansion disabled, searches use the raw prompt")
	}

	providers := search.NewProviders(cfg, logger)
	aggregator := search.New(providers, exp, logger)

	switch cfg.Mode {
	case "mcp":
		err = server.NewServer(logger, aggregator).Run(ctx)
	default:
		err = api.NewServer(aggregator, exp.Enabled(), cfg.Port, logger).Run(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
