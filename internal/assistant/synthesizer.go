package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/medstock/medstock/internal/oracle"
)

type Synthesizer struct {
	completer oracle.Completer
	template  oracle.Template
}

func NewSynthesizer(completer oracle.Completer, template oracle.Template) *Synthesizer {
	return &Synthesizer{completer: completer, template: template}
}

// Synthesize returns the oracle's answer verbatim.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, answerCtx AnswerContext) (string, error) {
	if missing := answerCtx.Missing(); len(missing) > 0 {
		return "", &IncompleteContextError{Missing: missing}
	}
	rendered, err := answerCtx.Render()
	if err != nil {
		return "", err
	}

	text, err := s.completer.Complete(ctx, s.template, map[string]string{
		oracle.VarInput:   question,
		oracle.VarContext: rendered,
	})
	if err != nil {
		return "", fmt.Errorf("%w: synthesize: %w", ErrOracleFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyAnswer
	}
	return text, nil
}
