package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/medstock/medstock/internal/observability"
	"github.com/medstock/medstock/internal/storage"
)

// Transcript is the archived record of one answered question.
type Transcript struct {
	AnswerID   string    `json:"answer_id"`
	Question   string    `json:"question"`
	Found      bool      `json:"found"`
	SupplyID   int64     `json:"supply_id,omitempty"`
	Answer     string    `json:"answer"`
	TraceID    string    `json:"trace_id,omitempty"`
	AnsweredAt time.Time `json:"answered_at"`
	DurationMS int64     `json:"duration_ms"`
}

type Recorder interface {
	Record(ctx context.Context, t Transcript) (string, error)
}

// NewAnswerID returns a lexically sortable id for an answer given at t.
func NewAnswerID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String()
}

type ObjectStoreRecorder struct {
	store storage.ObjectStore
}

func NewObjectStoreRecorder(store storage.ObjectStore) (*ObjectStoreRecorder, error) {
	if store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	return &ObjectStoreRecorder{store: store}, nil
}

// Record writes t as JSON and returns the object key. A missing answer id or
// timestamp is filled in.
func (r *ObjectStoreRecorder) Record(ctx context.Context, t Transcript) (string, error) {
	key, err := r.record(ctx, t)
	observability.ObserveTranscriptArchive(err)
	return key, err
}

func (r *ObjectStoreRecorder) record(ctx context.Context, t Transcript) (string, error) {
	if t.AnsweredAt.IsZero() {
		t.AnsweredAt = time.Now().UTC()
	}
	if t.AnswerID == "" {
		t.AnswerID = NewAnswerID(t.AnsweredAt)
	}

	key, err := storage.BuildTranscriptPath(t.AnswerID, t.AnsweredAt)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encode transcript: %w", err)
	}
	if _, err := storage.PutBytes(ctx, r.store, key, payload, storage.ContentTypeTranscript); err != nil {
		return "", fmt.Errorf("archive transcript %s: %w", t.AnswerID, err)
	}
	return key, nil
}
