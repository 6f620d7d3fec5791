package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/medstock/medstock/internal/observability"
)

// Failure reasons reported on medstock_auth_failures_total.
const (
	FailureMissingKey = "missing_key"
	FailureInvalidKey = "invalid_key"
)

type identityContextKey struct{}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(Identity)
	return identity, ok
}

// Middleware admits requests carrying a key the validator accepts and stores
// the resolved identity on the request context for role checks downstream.
func Middleware(logger *slog.Logger, validator APIKeyValidator) func(http.Handler) http.Handler {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			apiKey := ExtractAPIKey(r)
			if apiKey == "" {
				reject(w, r, FailureMissingKey, "missing API key")
				return
			}

			identity, ok := validator.Validate(ctx, apiKey)
			if !ok {
				logger.WarnContext(ctx, "api key rejected",
					slog.String("trace_id", observability.TraceIDFromContext(ctx)),
					slog.String("route", r.Method+" "+r.URL.Path),
				)
				reject(w, r, FailureInvalidKey, "invalid API key")
				return
			}

			logger.DebugContext(ctx, "api key accepted",
				slog.String("subject", identity.Subject),
				slog.Any("roles", identity.Roles),
			)
			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
		})
	}
}

// ExtractAPIKey reads X-API-Key, falling back to a bearer token.
func ExtractAPIKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func reject(w http.ResponseWriter, r *http.Request, reason, message string) {
	observability.ObserveAuthFailure(reason)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="medstock"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error_code": "UNAUTHORIZED",
		"message":    message,
		"retryable":  false,
		"context":    map[string]any{"reason": reason},
		"trace_id":   observability.TraceIDFromContext(r.Context()),
	})
}
