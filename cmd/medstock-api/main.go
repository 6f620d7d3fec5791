package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medstock/medstock/internal/api"
	"github.com/medstock/medstock/internal/assistant"
	"github.com/medstock/medstock/internal/auth"
	"github.com/medstock/medstock/internal/config"
	"github.com/medstock/medstock/internal/inventory/sqlstore"
	"github.com/medstock/medstock/internal/observability"
	"github.com/medstock/medstock/internal/oracle"
	"github.com/medstock/medstock/internal/snapshot"
	s3store "github.com/medstock/medstock/internal/storage/s3"
	"github.com/medstock/medstock/internal/transcript"
)

func main() {
	cfg, err := config.LoadFromEnv("medstock-api")
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

	templates := oracle.DefaultTemplates()
	if cfg.Oracle.PromptsFile != "" {
		templates, err = oracle.LoadTemplates(cfg.Oracle.PromptsFile)
		if err != nil {
			logger.Error("failed to load prompt templates", slog.Any("error", err))
			os.Exit(1)
		}
	}
	generator, err := oracle.NewGenerator(oracle.Config{
		Provider:    cfg.Oracle.Provider,
		BaseURL:     cfg.Oracle.BaseURL,
		APIKey:      cfg.Oracle.APIKey,
		Model:       cfg.Oracle.Model,
		Temperature: cfg.Oracle.Temperature,
		MaxTokens:   cfg.Oracle.MaxTokens,
		Timeout:     cfg.Oracle.Timeout,
	})
	if err != nil {
		logger.Error("failed to initialize oracle", slog.Any("error", err))
		os.Exit(1)
	}
	completer, err := oracle.NewTemplateCompleter(generator, logger)
	if err != nil {
		logger.Error("failed to initialize oracle", slog.Any("error", err))
		os.Exit(1)
	}

	pipeline, err := assistant.NewPipeline(assistant.Dependencies{
		Candidates:  repo,
		Loader:      repo,
		Resolver:    assistant.NewResolver(completer, templates.Resolution),
		Synthesizer: assistant.NewSynthesizer(completer, templates.Synthesis),
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to build assistant pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	deps := api.Dependencies{
		Logger:            logger,
		Assistant:         pipeline,
		Candidates:        repo,
		Readiness:         api.CombineReadinessChecks(api.CheckStore(repo.HealthCheck)),
		DependencyTimeout: time.Second,
	}

	// Object storage backs transcripts and on-demand snapshots. The API serves
	// questions without it.
	if cfg.ObjectStore.Endpoint != "" && cfg.ObjectStore.Bucket != "" {
		objectStore, err := s3store.New(context.Background(), s3store.ConfigFrom(cfg.ObjectStore))
		if err != nil {
			logger.Error("failed to initialize object store", slog.Any("error", err))
			os.Exit(1)
		}
		deps.Snapshots = &snapshot.Service{
			Source:      repo,
			ObjectStore: objectStore,
			Config: snapshot.Config{
				Interval:  cfg.Snapshot.Interval,
				CreatedBy: cfg.Snapshot.CreatedBy,
			},
			Logger: logger,
		}
		if cfg.Transcripts.Enabled {
			recorder, err := transcript.NewObjectStoreRecorder(objectStore)
			if err != nil {
				logger.Error("failed to initialize transcript archive", slog.Any("error", err))
				os.Exit(1)
			}
			deps.Transcripts = recorder
		}
		deps.Readiness = api.CombineReadinessChecks(deps.Readiness, api.CheckObjectStoreConfig(cfg))
	} else if cfg.Transcripts.Enabled {
		logger.Warn("transcripts enabled but object store is not configured; archiving disabled")
	}

	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server",
			slog.String("addr", cfg.HTTP.Address),
			slog.String("store_driver", cfg.Store.Driver),
			slog.String("oracle_provider", generator.Provider()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
