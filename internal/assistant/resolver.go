package assistant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/medstock/medstock/internal/inventory"
	"github.com/medstock/medstock/internal/oracle"
)

// NotFoundID is the resolver's "no match" sentinel.
const NotFoundID int64 = 0

type Resolver struct {
	completer oracle.Completer
	template  oracle.Template
}

func NewResolver(completer oracle.Completer, template oracle.Template) *Resolver {
	return &Resolver{completer: completer, template: template}
}

// Resolve asks the oracle which candidate the question refers to. The id is
// returned as parsed; membership in candidates is not checked here.
func (r *Resolver) Resolve(ctx context.Context, question string, candidates []inventory.Candidate) (int64, error) {
	if len(candidates) == 0 {
		return NotFoundID, nil
	}

	raw, err := r.completer.Complete(ctx, r.template, map[string]string{
		oracle.VarInput:   question,
		oracle.VarContext: RenderCandidates(candidates),
	})
	if errors.Is(err, oracle.ErrEmptyCompletion) {
		return 0, &MalformedResolutionError{Raw: raw}
	}
	if err != nil {
		return 0, fmt.Errorf("%w: resolve: %w", ErrOracleFailed, err)
	}
	return ParseResolution(raw)
}

// RenderCandidates formats candidates as "name:id" pairs joined by ", ".
func RenderCandidates(candidates []inventory.Candidate) string {
	var b strings.Builder
	for i, candidate := range candidates {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(candidate.Name)
		b.WriteByte(':')
		b.WriteString(strconv.FormatInt(candidate.ID, 10))
	}
	return b.String()
}

// ParseResolution accepts a base-10 integer, optionally wrapped in one pair of
// quotes and surrounding whitespace.
func ParseResolution(raw string) (int64, error) {
	text := strings.TrimSpace(raw)
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if first == last && (first == '"' || first == '\'') {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id < 0 {
		return 0, &MalformedResolutionError{Raw: raw}
	}
	return id, nil
}
