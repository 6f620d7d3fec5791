package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/medstock/medstock/internal/inventory"
	"github.com/medstock/medstock/internal/observability"
	"github.com/medstock/medstock/internal/storage"
)

type Source interface {
	ListItems(ctx context.Context) ([]inventory.Item, error)
	ListStock(ctx context.Context) ([]inventory.StockEntry, error)
}

type Config struct {
	Interval  time.Duration
	CreatedBy string
}

type Service struct {
	Source      Source
	ObjectStore storage.ObjectStore
	Config      Config
	Logger      *slog.Logger
	Clock       func() time.Time
}

type Summary struct {
	Key           string    `json:"key"`
	Items         int       `json:"items"`
	TotalQuantity int64     `json:"total_quantity"`
	Bytes         int64     `json:"bytes"`
	TakenAt       time.Time `json:"taken_at"`
}

// Run takes a snapshot every Config.Interval until ctx is cancelled. Failed
// cycles are logged and retried on the next tick.
func (s *Service) Run(ctx context.Context) error {
	s.ensureDefaults()

	ticker := time.NewTicker(s.Config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			summary, err := s.RunOnce(ctx)
			if err != nil {
				s.Logger.ErrorContext(ctx, "stock snapshot failed", slog.Any("error", err))
				continue
			}
			s.Logger.InfoContext(ctx, "stock snapshot written", slog.Any("summary", summary))
		}
	}
}

func (s *Service) RunOnce(ctx context.Context) (Summary, error) {
	s.ensureDefaults()
	summary, err := s.runOnce(ctx)
	observability.ObserveSnapshotRun(summary.Items, err)
	return summary, err
}

func (s *Service) runOnce(ctx context.Context) (Summary, error) {
	if s.Source == nil {
		return Summary{}, fmt.Errorf("snapshot source is required")
	}
	if s.ObjectStore == nil {
		return Summary{}, fmt.Errorf("object store is required")
	}

	takenAt := s.Clock().UTC()
	items, err := s.Source.ListItems(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list items: %w", err)
	}
	stock, err := s.Source.ListStock(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list stock: %w", err)
	}

	encoded, err := EncodeStock(items, stock, takenAt, s.Config.CreatedBy)
	if err != nil {
		return Summary{}, err
	}
	key, err := storage.BuildSnapshotPath(takenAt)
	if err != nil {
		return Summary{}, err
	}
	info, err := storage.PutBytes(ctx, s.ObjectStore, key, encoded.Data, storage.ContentTypeSnapshot)
	if err != nil {
		return Summary{}, fmt.Errorf("upload snapshot: %w", err)
	}

	size := info.Size
	if size == 0 {
		size = int64(len(encoded.Data))
	}
	return Summary{
		Key:           key,
		Items:         encoded.RowCount,
		TotalQuantity: encoded.TotalQuantity,
		Bytes:         size,
		TakenAt:       takenAt,
	}, nil
}

func (s *Service) ensureDefaults() {
	if s.Clock == nil {
		s.Clock = time.Now
	}
	if s.Logger == nil {
		s.Logger = observability.NopLogger()
	}
	if s.Config.Interval <= 0 {
		s.Config.Interval = time.Hour
	}
	if s.Config.CreatedBy == "" {
		s.Config.CreatedBy = "medstock-snapshotter"
	}
}
