package observability

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/medstock/medstock/internal/config"
)

type ctxKey string

const traceIDKey ctxKey = "trace_id"

const redacted = "[redacted]"

// Attribute keys whose values never reach the log output. Oracle API keys,
// static auth keys and store DSNs carry credentials.
var secretAttrKeys = map[string]struct{}{
	"api_key":       {},
	"authorization": {},
	"dsn":           {},
	"password":      {},
	"static_keys":   {},
	"x-api-key":     {},
}

// NewLogger builds the process logger for cfg. Every record carries the
// service name and profile.
func NewLogger(cfg config.Config, writer io.Writer) *slog.Logger {
	if writer == nil {
		writer = io.Discard
	}
	opts := &slog.HandlerOptions{
		Level:       cfg.Observability.LogLevel,
		ReplaceAttr: redactSecrets,
	}
	var handler slog.Handler
	if cfg.Observability.LogJSON {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	return slog.New(handler).With(
		slog.String("service", cfg.Service.Name),
		slog.String("profile", string(cfg.Profile)),
	)
}

func redactSecrets(_ []string, attr slog.Attr) slog.Attr {
	if _, ok := secretAttrKeys[strings.ToLower(attr.Key)]; ok && attr.Value.Kind() != slog.KindGroup {
		return slog.String(attr.Key, redacted)
	}
	return attr
}

// NopLogger returns a logger that drops every record.
func NopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey).(string)
	return traceID
}
