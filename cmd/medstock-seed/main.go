package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/medstock/medstock/internal/config"
	"github.com/medstock/medstock/internal/demo/seed"
	"github.com/medstock/medstock/internal/inventory/sqlstore"
	"github.com/medstock/medstock/internal/observability"
)

func main() {
	cfg, err := config.LoadFromEnv("medstock-seed")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg, os.Stdout)

	seedCfg, err := seed.LoadConfigFromEnv(os.LookupEnv)
	if err != nil {
		logger.Error("failed to load seed config", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, repo, err := sqlstore.OpenRepository(ctx, cfg.Store)
	if err != nil {
		logger.Error("failed to open inventory store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	seeder, err := seed.NewSeeder(repo, seedCfg, logger)
	if err != nil {
		logger.Error("failed to initialize seeder", slog.Any("error", err))
		os.Exit(1)
	}
	if _, err := seeder.Seed(ctx); err != nil {
		logger.Error("seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
}
