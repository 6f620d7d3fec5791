package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/medstock/medstock/internal/assistant"
	"github.com/medstock/medstock/internal/auth"
	"github.com/medstock/medstock/internal/observability"
	"github.com/medstock/medstock/internal/transcript"
)

const maxQuestionBodyBytes = 64 << 10

type assistantRequest struct {
	Question string `json:"question"`
}

type assistantResponse struct {
	Answer   string `json:"answer"`
	Found    bool   `json:"found"`
	SupplyID int64  `json:"supply_id,omitempty"`
	AnswerID string `json:"answer_id"`
	TraceID  string `json:"trace_id"`
}

// handleAssistantText keeps the plain-text contract of the first release:
// the answer body is the synthesized text and nothing else.
func handleAssistantText(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	response, ok := answerQuestion(deps, w, r, false)
	if !ok {
		return
	}
	writeText(w, http.StatusOK, response.Answer)
}

func handleAssistantJSON(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	response, ok := answerQuestion(deps, w, r, true)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func answerQuestion(deps Dependencies, w http.ResponseWriter, r *http.Request, strict bool) (assistantResponse, bool) {
	ctx := r.Context()
	if deps.Assistant == nil {
		writeError(ctx, w, http.StatusNotImplemented, "ASSISTANT_NOT_CONFIGURED", "assistant pipeline is not configured", false, nil)
		return assistantResponse{}, false
	}
	if err := requireRole(r, auth.RoleAssistantUser, auth.RoleInventoryAdmin); err != nil {
		writeError(ctx, w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return assistantResponse{}, false
	}

	var request assistantRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxQuestionBodyBytes))
	if strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(&request); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "INVALID_JSON", "invalid assistant request body", false, map[string]any{"details": err.Error()})
		return assistantResponse{}, false
	}
	// The question reaches the oracle verbatim; only blank input is refused.
	question := request.Question
	if strings.TrimSpace(question) == "" {
		writeError(ctx, w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return assistantResponse{}, false
	}

	started := deps.Clock()
	answer, err := deps.Assistant.Answer(ctx, question)
	if err != nil {
		writeAssistantError(deps, w, r, err)
		return assistantResponse{}, false
	}

	response := assistantResponse{
		Answer:   answer.Text,
		Found:    answer.Found,
		SupplyID: answer.SupplyID,
		AnswerID: transcript.NewAnswerID(started),
		TraceID:  observability.TraceIDFromContext(ctx),
	}
	archiveTranscript(deps, r, question, response, started)
	return response, true
}

func archiveTranscript(deps Dependencies, r *http.Request, question string, response assistantResponse, started time.Time) {
	if deps.Transcripts == nil {
		return
	}
	finished := deps.Clock()
	_, err := deps.Transcripts.Record(r.Context(), transcript.Transcript{
		AnswerID:   response.AnswerID,
		Question:   question,
		Found:      response.Found,
		SupplyID:   response.SupplyID,
		Answer:     response.Answer,
		TraceID:    response.TraceID,
		AnsweredAt: finished.UTC(),
		DurationMS: finished.Sub(started).Milliseconds(),
	})
	if err != nil && deps.Logger != nil {
		deps.Logger.WarnContext(r.Context(), "transcript archive failed",
			slog.String("answer_id", response.AnswerID),
			slog.Any("error", err),
		)
	}
}

func writeAssistantError(deps Dependencies, w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	details := map[string]any{"details": err.Error()}

	var consistency *assistant.DataConsistencyError
	switch {
	case errors.Is(err, assistant.ErrEmptyQuestion):
		writeError(ctx, w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
	case errors.As(err, &consistency):
		writeError(ctx, w, http.StatusInternalServerError, "DATA_INCONSISTENT", "resolved supply does not match exactly one record", false, map[string]any{
			"supply_id": consistency.SupplyID,
			"rows":      consistency.Rows,
		})
	case errors.Is(err, assistant.ErrMalformedResolution):
		writeError(ctx, w, http.StatusBadGateway, "RESOLUTION_MALFORMED", "oracle returned an unusable supply id", true, details)
	case errors.Is(err, assistant.ErrOracleFailed), errors.Is(err, assistant.ErrEmptyAnswer):
		writeError(ctx, w, http.StatusBadGateway, "ORACLE_FAILED", "language model request failed", true, details)
	case errors.Is(err, assistant.ErrStoreFailed):
		writeError(ctx, w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "inventory store request failed", true, details)
	default:
		if deps.Logger != nil {
			deps.Logger.ErrorContext(ctx, "assistant request failed", slog.Any("error", err))
		}
		writeError(ctx, w, http.StatusInternalServerError, "INTERNAL", "assistant request failed", false, nil)
	}
}
