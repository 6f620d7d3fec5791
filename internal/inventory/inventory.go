package inventory

import (
	"context"
	"errors"
)

var ErrInvalidID = errors.New("inventory: supply id must be positive")

// Candidate is one entry of the list the resolver chooses from.
type Candidate struct {
	Name string
	ID   int64
}

// Item is a row of the supplies table.
type Item struct {
	ID                 int64
	Type               string
	Name               string
	StrengthOrVolume   string
	RouteOfUse         string
	QuantityInPack     int64
	PossibleSideEffect string
	Location           string
}

// StockEntry is a row of the inventory table. One row is one package on hand.
type StockEntry struct {
	ID       int64
	SupplyID int64
	Quantity int64
}

type CandidateLister interface {
	ListCandidates(ctx context.Context) ([]Candidate, error)
}

// Loader reads the rows for a single supply id. Missing rows yield empty
// slices, never an error.
type Loader interface {
	LoadItem(ctx context.Context, supplyID int64) ([]Item, error)
	LoadStock(ctx context.Context, supplyID int64) ([]StockEntry, error)
}

type Repository interface {
	CandidateLister
	Loader
	HealthCheck(ctx context.Context) error
	ListItems(ctx context.Context) ([]Item, error)
	ListStock(ctx context.Context) ([]StockEntry, error)
}

type Writer interface {
	InsertItem(ctx context.Context, item Item) error
	InsertStockEntry(ctx context.Context, entry StockEntry) error
}

// StockSummary is the per-request aggregate over an item's stock rows.
type StockSummary struct {
	Quantity int64
	Packages int
}

func Summarize(entries []StockEntry) StockSummary {
	summary := StockSummary{Packages: len(entries)}
	for _, entry := range entries {
		summary.Quantity += entry.Quantity
	}
	return summary
}

// SummarizeBySupply groups stock rows by supply id.
func SummarizeBySupply(entries []StockEntry) map[int64]StockSummary {
	grouped := make(map[int64][]StockEntry)
	for _, entry := range entries {
		grouped[entry.SupplyID] = append(grouped[entry.SupplyID], entry)
	}
	out := make(map[int64]StockSummary, len(grouped))
	for supplyID, rows := range grouped {
		out[supplyID] = Summarize(rows)
	}
	return out
}

func ValidateID(supplyID int64) error {
	if supplyID <= 0 {
		return ErrInvalidID
	}
	return nil
}
