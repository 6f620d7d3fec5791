package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrObjectTooLarge = errors.New("object exceeds read limit")
)

// Content types of the artifacts medstock archives.
const (
	ContentTypeTranscript = "application/json"
	ContentTypeSnapshot   = "application/vnd.apache.parquet"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

type PutOptions struct {
	ContentType string
}

// ObjectStore is the blob storage used for answer transcripts and stock
// snapshots.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, opts PutOptions) (ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

func PutBytes(ctx context.Context, store ObjectStore, key string, payload []byte, contentType string) (ObjectInfo, error) {
	return store.Put(ctx, key, bytes.NewReader(payload), int64(len(payload)), PutOptions{ContentType: contentType})
}

// GetBytes reads a whole object. Objects larger than limit bytes fail with
// ErrObjectTooLarge; a limit <= 0 disables the check.
func GetBytes(ctx context.Context, store ObjectStore, key string, limit int64) ([]byte, error) {
	reader, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	if limit <= 0 {
		return io.ReadAll(reader)
	}
	payload, err := io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(payload)) > limit {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrObjectTooLarge, key, limit)
	}
	return payload, nil
}
