package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medstock/medstock/internal/inventory"
	"github.com/medstock/medstock/internal/observability"
)

type Result struct {
	Items      int   `json:"items"`
	StockRows  int   `json:"stock_rows"`
	TotalUnits int64 `json:"total_units"`
}

type Seeder struct {
	writer inventory.Writer
	cfg    Config
	log    *slog.Logger
}

func NewSeeder(writer inventory.Writer, cfg Config, logger *slog.Logger) (*Seeder, error) {
	if writer == nil {
		return nil, fmt.Errorf("inventory writer is required")
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Seeder{writer: writer, cfg: cfg, log: logger}, nil
}

// Seed writes the formulary and, unless disabled, generated stock. It stops
// at the first failed insert.
func (s *Seeder) Seed(ctx context.Context) (Result, error) {
	var result Result
	generator := NewGenerator(s.cfg.Seed, s.cfg.MaxPackages)

	for _, item := range Formulary() {
		if err := s.writer.InsertItem(ctx, item); err != nil {
			return result, err
		}
		result.Items++

		if s.cfg.SkipStock {
			continue
		}
		for _, entry := range generator.StockFor(item) {
			if err := s.writer.InsertStockEntry(ctx, entry); err != nil {
				return result, err
			}
			result.StockRows++
			result.TotalUnits += entry.Quantity
		}
		s.log.DebugContext(ctx, "seeded supply", slog.Int64("supply_id", item.ID), slog.String("name", item.Name))
	}

	s.log.InfoContext(ctx, "demo inventory seeded",
		slog.Int("items", result.Items),
		slog.Int("stock_rows", result.StockRows),
		slog.Int64("total_units", result.TotalUnits),
	)
	return result, nil
}
