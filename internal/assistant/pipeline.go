package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/medstock/medstock/internal/inventory"
	"github.com/medstock/medstock/internal/observability"
)

const NotFoundMessage = "Please Try Again. No Medication Found."

// Answer statuses recorded in metrics.
const (
	StatusAnswered = "answered"
	StatusNotFound = "not_found"
	StatusFailed   = "failed"
)

type IDResolver interface {
	Resolve(ctx context.Context, question string, candidates []inventory.Candidate) (int64, error)
}

type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, question string, answerCtx AnswerContext) (string, error)
}

type Answer struct {
	Text     string
	Found    bool
	SupplyID int64
}

type Dependencies struct {
	Candidates  inventory.CandidateLister
	Loader      inventory.Loader
	Resolver    IDResolver
	Synthesizer AnswerSynthesizer
	Logger      *slog.Logger
}

// Pipeline answers one question with a fixed sequence: list candidates,
// resolve, load, synthesize. It holds no per-request state.
type Pipeline struct {
	candidates  inventory.CandidateLister
	loader      inventory.Loader
	resolver    IDResolver
	synthesizer AnswerSynthesizer
	logger      *slog.Logger
}

func NewPipeline(deps Dependencies) (*Pipeline, error) {
	if deps.Candidates == nil {
		return nil, fmt.Errorf("candidate lister is required")
	}
	if deps.Loader == nil {
		return nil, fmt.Errorf("record loader is required")
	}
	if deps.Resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if deps.Synthesizer == nil {
		return nil, fmt.Errorf("synthesizer is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Pipeline{
		candidates:  deps.Candidates,
		loader:      deps.Loader,
		resolver:    deps.Resolver,
		synthesizer: deps.Synthesizer,
		logger:      logger,
	}, nil
}

func (p *Pipeline) Answer(ctx context.Context, question string) (Answer, error) {
	answer, err := p.answer(ctx, question)
	switch {
	case err != nil:
		observability.ObserveAnswer(StatusFailed)
	case answer.Found:
		observability.ObserveAnswer(StatusAnswered)
	default:
		observability.ObserveAnswer(StatusNotFound)
	}
	return answer, err
}

func (p *Pipeline) answer(ctx context.Context, question string) (Answer, error) {
	if strings.TrimSpace(question) == "" {
		return Answer{}, ErrEmptyQuestion
	}

	started := time.Now()
	candidates, err := p.candidates.ListCandidates(ctx)
	if err != nil {
		return Answer{}, fmt.Errorf("%w: list candidates: %w", ErrStoreFailed, err)
	}

	supplyID, err := p.resolver.Resolve(ctx, question, candidates)
	if err != nil {
		if errors.Is(err, ErrMalformedResolution) {
			observability.ObserveResolution(observability.ResolutionMalformed)
			p.logger.WarnContext(ctx, "resolver returned malformed id", slog.Any("error", err))
		} else {
			observability.ObserveResolution(observability.ResolutionFailed)
		}
		return Answer{}, err
	}
	p.logger.DebugContext(ctx, "question resolved",
		slog.Int64("supply_id", supplyID),
		slog.Int("candidates", len(candidates)),
		slog.Duration("elapsed", time.Since(started)),
	)

	if supplyID == NotFoundID {
		observability.ObserveResolution(observability.ResolutionNotFound)
		return Answer{Text: NotFoundMessage, Found: false}, nil
	}
	observability.ObserveResolution(observability.ResolutionMatched)

	items, err := p.loader.LoadItem(ctx, supplyID)
	if err != nil {
		return Answer{}, fmt.Errorf("%w: load item: %w", ErrStoreFailed, err)
	}
	if len(items) != 1 {
		observability.IncrementDataConsistencyErrors()
		consistencyErr := &DataConsistencyError{SupplyID: supplyID, Rows: len(items)}
		p.logger.ErrorContext(ctx, "resolved supply id does not match exactly one row",
			slog.Int64("supply_id", supplyID),
			slog.Int("rows", len(items)),
		)
		return Answer{}, consistencyErr
	}

	stock, err := p.loader.LoadStock(ctx, supplyID)
	if err != nil {
		return Answer{}, fmt.Errorf("%w: load stock: %w", ErrStoreFailed, err)
	}

	answerCtx := BuildAnswerContext(items[0], stock)
	text, err := p.synthesizer.Synthesize(ctx, question, answerCtx)
	if err != nil {
		return Answer{}, err
	}
	p.logger.InfoContext(ctx, "question answered",
		slog.Int64("supply_id", supplyID),
		slog.Int("packages", len(stock)),
		slog.Duration("elapsed", time.Since(started)),
	)
	return Answer{Text: text, Found: true, SupplyID: supplyID}, nil
}
