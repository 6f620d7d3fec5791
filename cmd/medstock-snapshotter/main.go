package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/medstock/medstock/internal/config"
	"github.com/medstock/medstock/internal/inventory/sqlstore"
	"github.com/medstock/medstock/internal/observability"
	"github.com/medstock/medstock/internal/snapshot"
	s3store "github.com/medstock/medstock/internal/storage/s3"
)

func main() {
	once := flag.Bool("once", false, "write a single snapshot and exit")
	flag.Parse()

	cfg, err := config.LoadFromEnv("medstock-snapshotter")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)
	db, repo, err := sqlstore.OpenRepository(context.Background(), cfg.Store)
	if err != nil {
		logger.Error("failed to open inventory store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	store, err := s3store.New(context.Background(), s3store.ConfigFrom(cfg.ObjectStore))
	if err != nil {
		logger.Error("failed to initialize object store", slog.Any("error", err))
		os.Exit(1)
	}

	svc := &snapshot.Service{
		Source:      repo,
		ObjectStore: store,
		Config: snapshot.Config{
			Interval:  cfg.Snapshot.Interval,
			CreatedBy: cfg.Snapshot.CreatedBy,
		},
		Logger: logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		summary, err := svc.RunOnce(ctx)
		if err != nil {
			logger.Error("stock snapshot failed", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("stock snapshot written", slog.Any("summary", summary))
		return
	}

	logger.Info("snapshot worker started", slog.Duration("interval", cfg.Snapshot.Interval))
	if err := svc.Run(ctx); err != nil {
		logger.Error("snapshot worker failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("snapshot worker stopped")
}
