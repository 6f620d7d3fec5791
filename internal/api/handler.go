package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medstock/medstock/internal/assistant"
	"github.com/medstock/medstock/internal/auth"
	"github.com/medstock/medstock/internal/config"
	"github.com/medstock/medstock/internal/inventory"
	"github.com/medstock/medstock/internal/observability"
	"github.com/medstock/medstock/internal/snapshot"
	"github.com/medstock/medstock/internal/transcript"
)

type ReadinessCheck func(ctx context.Context) error

type Assistant interface {
	Answer(ctx context.Context, question string) (assistant.Answer, error)
}

type SnapshotRunner interface {
	RunOnce(ctx context.Context) (snapshot.Summary, error)
}

type Dependencies struct {
	Logger            *slog.Logger
	Readiness         ReadinessCheck
	AuthMiddleware    func(http.Handler) http.Handler
	DependencyTimeout time.Duration
	Assistant         Assistant
	Candidates        inventory.CandidateLister
	Snapshots         SnapshotRunner
	Transcripts       transcript.Recorder
	Clock             func() time.Time
}

func NewHandler(cfg config.Config, deps Dependencies) http.Handler {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, "Hello, World!")
	})

	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": cfg.Service.Name})
	})

	mux.HandleFunc("GET /v1/ready", func(w http.ResponseWriter, r *http.Request) {
		if deps.Readiness == nil {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
			return
		}
		timeout := deps.DependencyTimeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		if err := deps.Readiness(ctx); err != nil {
			writeError(r.Context(), w, http.StatusServiceUnavailable, "NOT_READY", err.Error(), true, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	})

	mux.Handle("GET /v1/metrics", promhttp.Handler())

	protected := http.NewServeMux()
	protected.HandleFunc("POST /assistant", func(w http.ResponseWriter, r *http.Request) {
		handleAssistantText(deps, w, r)
	})
	protected.HandleFunc("POST /v1/assistant", func(w http.ResponseWriter, r *http.Request) {
		handleAssistantJSON(deps, w, r)
	})
	protected.HandleFunc("GET /v1/supplies", func(w http.ResponseWriter, r *http.Request) {
		handleListSupplies(deps, w, r)
	})
	protected.HandleFunc("POST /v1/snapshots/run", func(w http.ResponseWriter, r *http.Request) {
		handleSnapshotRun(deps, w, r)
	})

	var protectedHandler http.Handler = protected
	if cfg.Auth.Required {
		if deps.AuthMiddleware == nil {
			if deps.Logger != nil {
				deps.Logger.Error("auth required but auth middleware missing")
			}
			protectedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeError(r.Context(), w, http.StatusInternalServerError, "AUTH_MIDDLEWARE_MISSING", "auth middleware is required by configuration", false, nil)
			})
		} else {
			protectedHandler = deps.AuthMiddleware(protectedHandler)
		}
	}
	mux.Handle("POST /assistant", protectedHandler)
	mux.Handle("POST /v1/assistant", protectedHandler)
	mux.Handle("GET /v1/supplies", protectedHandler)
	mux.Handle("POST /v1/snapshots/run", protectedHandler)

	middlewares := []func(http.Handler) http.Handler{
		observability.TraceMiddleware,
		observability.MetricsMiddleware,
	}
	if deps.Logger != nil {
		middlewares = append(middlewares, observability.LoggingMiddleware(deps.Logger))
	}
	return chain(mux, middlewares...)
}

// CheckStore adapts a store health probe, typically Repository.HealthCheck.
func CheckStore(probe func(ctx context.Context) error) ReadinessCheck {
	if probe == nil {
		return nil
	}
	return func(ctx context.Context) error {
		if err := probe(ctx); err != nil {
			return fmt.Errorf("inventory store: %w", err)
		}
		return nil
	}
}

func CheckObjectStoreConfig(cfg config.Config) ReadinessCheck {
	return func(_ context.Context) error {
		if cfg.ObjectStore.Endpoint == "" {
			return errors.New("object store endpoint is not configured")
		}
		if cfg.ObjectStore.Bucket == "" {
			return errors.New("object store bucket is not configured")
		}
		return nil
	}
}

func CombineReadinessChecks(checks ...ReadinessCheck) ReadinessCheck {
	filtered := make([]ReadinessCheck, 0, len(checks))
	for _, check := range checks {
		if check != nil {
			filtered = append(filtered, check)
		}
	}
	return func(ctx context.Context) error {
		for _, check := range filtered {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

// requireRole passes requests without an identity, which only happens when
// auth is disabled.
func requireRole(r *http.Request, roles ...string) error {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return nil
	}
	if identity.HasAnyRole(roles...) {
		return nil
	}
	return fmt.Errorf("missing required role %q", roles[0])
}

func chain(base http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	wrapped := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, code, message string, retryable bool, extra map[string]any) {
	writeJSON(w, status, map[string]any{
		"error_code": code,
		"message":    message,
		"retryable":  retryable,
		"context":    extra,
		"trace_id":   observability.TraceIDFromContext(ctx),
	})
}
