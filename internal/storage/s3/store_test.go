package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/medstock/medstock/internal/config"
	"github.com/medstock/medstock/internal/storage"
)

func TestPutAppliesPrefixAndDefaultContentType(t *testing.T) {
	fake := newFakeAPI()
	store, err := newStore("medstock", "/clinic-a/", fake)
	if err != nil {
		t.Fatalf("newStore() error = %v", err)
	}

	_, err = storage.PutBytes(context.Background(), store, "/transcripts/a.json", []byte(`{"a":1}`), "")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if fake.lastKey != "clinic-a/transcripts/a.json" {
		t.Fatalf("key = %q", fake.lastKey)
	}
	if fake.lastContentType != defaultContentType {
		t.Fatalf("content type = %q", fake.lastContentType)
	}
}

func TestPutRejectsPathTraversal(t *testing.T) {
	store, err := newStore("medstock", "", newFakeAPI())
	if err != nil {
		t.Fatalf("newStore() error = %v", err)
	}
	for _, key := range []string{"../secrets.txt", "a/../../b", "   ", ".."} {
		if _, err := store.Put(context.Background(), key, bytes.NewBufferString("x"), 1, storage.PutOptions{}); err == nil {
			t.Fatalf("Put(%q) expected validation error", key)
		}
	}
}

func TestGetAndStatMapNotFound(t *testing.T) {
	fake := newFakeAPI()
	store, _ := newStore("medstock", "", fake)

	if _, err := store.Get(context.Background(), "missing.json"); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := store.Stat(context.Background(), "missing.json"); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("Stat() error = %v", err)
	}

	if _, err := storage.PutBytes(context.Background(), store, "present.json", []byte("{}"), "application/json"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	reader, err := store.Get(context.Background(), "present.json")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer func() { _ = reader.Close() }()
	body, _ := io.ReadAll(reader)
	if string(body) != "{}" {
		t.Fatalf("body = %q", body)
	}
}

func TestEnsureBucketCreatesWhenMissing(t *testing.T) {
	fake := newFakeAPI()
	store, _ := newStore("medstock", "", fake)

	if err := store.ensureBucket(context.Background(), "us-east-1"); err != nil {
		t.Fatalf("ensureBucket() error = %v", err)
	}
	if !fake.bucketCreated {
		t.Fatal("expected CreateBucket to be called")
	}
}

func TestDeleteIgnoresMissingObject(t *testing.T) {
	store, _ := newStore("medstock", "", newFakeAPI())
	if err := store.Delete(context.Background(), "snapshots/gone.parquet"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestParseEndpoint(t *testing.T) {
	endpoint, secure, err := parseEndpoint("https://minio.example.com", false)
	if err != nil {
		t.Fatalf("parseEndpoint() error = %v", err)
	}
	if endpoint != "minio.example.com" || !secure {
		t.Fatalf("endpoint/secure = %q/%v", endpoint, secure)
	}
	endpoint, secure, err = parseEndpoint("localhost:9000", false)
	if err != nil || endpoint != "localhost:9000" || secure {
		t.Fatalf("plain endpoint = %q/%v/%v", endpoint, secure, err)
	}
	if _, _, err := parseEndpoint("ftp://files", false); err == nil {
		t.Fatal("expected unsupported scheme error")
	}
}

func TestConfigFromCopiesObjectStoreSection(t *testing.T) {
	cfg := ConfigFrom(config.ObjectStoreConfig{Endpoint: "minio:9000", Bucket: "medstock", Prefix: "dev", AutoCreateBucket: true})
	if cfg.Endpoint != "minio:9000" || cfg.Bucket != "medstock" || cfg.Prefix != "dev" || !cfg.AutoCreateBucket {
		t.Fatalf("ConfigFrom() = %+v", cfg)
	}
}

type fakeAPI struct {
	objects         map[string][]byte
	lastKey         string
	lastContentType string
	bucketCreated   bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{objects: map[string][]byte{}}
}

func (f *fakeAPI) Put(_ context.Context, _, key string, reader io.Reader, _ int64, contentType string) (storage.ObjectInfo, error) {
	payload, err := io.ReadAll(reader)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	f.objects[key] = payload
	f.lastKey = key
	f.lastContentType = contentType
	return storage.ObjectInfo{Key: key, Size: int64(len(payload)), ETag: "etag-1"}, nil
}

func (f *fakeAPI) Get(_ context.Context, _, key string) (io.ReadCloser, error) {
	payload, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(strings.NewReader(string(payload))), nil
}

func (f *fakeAPI) Stat(_ context.Context, _, key string) (storage.ObjectInfo, error) {
	payload, ok := f.objects[key]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return storage.ObjectInfo{Key: key, Size: int64(len(payload)), LastModified: time.Now().UTC()}, nil
}

func (f *fakeAPI) Delete(_ context.Context, _, key string) error {
	if _, ok := f.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeAPI) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketCreated, nil
}

func (f *fakeAPI) CreateBucket(_ context.Context, _, _ string) error {
	f.bucketCreated = true
	return nil
}
