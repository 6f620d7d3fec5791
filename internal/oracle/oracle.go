package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/medstock/medstock/internal/observability"
)

var ErrEmptyCompletion = errors.New("oracle: empty completion")

// Completer renders a template with the given variables and returns the
// model's raw text.
type Completer interface {
	Complete(ctx context.Context, tmpl Template, vars map[string]string) (string, error)
}

// Generator sends a fully rendered prompt to a model provider.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Provider() string
}

type Config struct {
	Provider    string
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

func NewGenerator(cfg Config) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOllama:
		return NewOllamaGenerator(cfg)
	case ProviderOpenAI:
		return NewOpenAIGenerator(cfg)
	case ProviderAnthropic:
		return NewAnthropicGenerator(cfg)
	default:
		return nil, fmt.Errorf("unsupported oracle provider %q", cfg.Provider)
	}
}

type TemplateCompleter struct {
	generator Generator
	logger    *slog.Logger
}

func NewTemplateCompleter(generator Generator, logger *slog.Logger) (*TemplateCompleter, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &TemplateCompleter{generator: generator, logger: logger}, nil
}

func (c *TemplateCompleter) Complete(ctx context.Context, tmpl Template, vars map[string]string) (string, error) {
	prompt, err := tmpl.Render(vars)
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, err := c.generator.Generate(ctx, prompt)
	elapsed := time.Since(start)
	observability.ObserveOracleRequest(c.generator.Provider(), tmpl.Name, err, elapsed)
	if err != nil {
		return "", fmt.Errorf("%s completion via %s: %w", tmpl.Name, c.generator.Provider(), err)
	}

	c.logger.DebugContext(ctx, "oracle completion",
		slog.String("template", tmpl.Name),
		slog.String("provider", c.generator.Provider()),
		slog.Duration("elapsed", elapsed),
		slog.Int("response_bytes", len(text)),
	)
	return text, nil
}
