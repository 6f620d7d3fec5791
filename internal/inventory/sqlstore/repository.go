package sqlstore

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/medstock/medstock/internal/inventory"
)

var (
	supplyColumns = []string{
		"id",
		"type",
		"name",
		"strength_or_volume",
		"route_of_use",
		"quantity_in_pack",
		"possible_side_effects",
		"location",
	}
	stockColumns     = []string{"id", "supply_id", "quantity"}
	candidateColumns = []string{"id", "name"}
)

type Tables struct {
	Supplies  string
	Inventory string
}

type Repository struct {
	store  *Store
	tables Tables
}

// NewRepository checks that both tables carry the columns the repository reads.
func NewRepository(store *Store, tables Tables) (*Repository, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if err := store.Schema().Require(tables.Supplies, supplyColumns...); err != nil {
		return nil, fmt.Errorf("supplies table: %w", err)
	}
	if err := store.Schema().Require(tables.Inventory, stockColumns...); err != nil {
		return nil, fmt.Errorf("inventory table: %w", err)
	}
	return &Repository{store: store, tables: tables}, nil
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *Repository) ListCandidates(ctx context.Context) ([]inventory.Candidate, error) {
	rows, err := r.store.ListAll(ctx, r.tables.Supplies, candidateColumns)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	candidates := make([]inventory.Candidate, 0, len(rows))
	for _, row := range rows {
		id, err := int64Column(row, "id")
		if err != nil {
			return nil, fmt.Errorf("list candidates: %w", err)
		}
		candidates = append(candidates, inventory.Candidate{Name: stringColumn(row, "name"), ID: id})
	}
	return candidates, nil
}

func (r *Repository) LoadItem(ctx context.Context, supplyID int64) ([]inventory.Item, error) {
	if err := inventory.ValidateID(supplyID); err != nil {
		return nil, err
	}
	rows, err := r.store.SelectWhere(ctx, r.tables.Supplies, "id", supplyID, supplyColumns)
	if err != nil {
		return nil, fmt.Errorf("load item %d: %w", supplyID, err)
	}
	return itemsFromRows(rows)
}

func (r *Repository) LoadStock(ctx context.Context, supplyID int64) ([]inventory.StockEntry, error) {
	if err := inventory.ValidateID(supplyID); err != nil {
		return nil, err
	}
	rows, err := r.store.SelectWhere(ctx, r.tables.Inventory, "supply_id", supplyID, stockColumns)
	if err != nil {
		return nil, fmt.Errorf("load stock %d: %w", supplyID, err)
	}
	return stockFromRows(rows)
}

func (r *Repository) ListItems(ctx context.Context) ([]inventory.Item, error) {
	rows, err := r.store.ListAll(ctx, r.tables.Supplies, supplyColumns)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return itemsFromRows(rows)
}

func (r *Repository) ListStock(ctx context.Context) ([]inventory.StockEntry, error) {
	rows, err := r.store.ListAll(ctx, r.tables.Inventory, stockColumns)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return stockFromRows(rows)
}

func (r *Repository) InsertItem(ctx context.Context, item inventory.Item) error {
	values := Row{
		"type":                  item.Type,
		"name":                  item.Name,
		"strength_or_volume":    item.StrengthOrVolume,
		"route_of_use":          item.RouteOfUse,
		"quantity_in_pack":      item.QuantityInPack,
		"possible_side_effects": item.PossibleSideEffect,
		"location":              item.Location,
	}
	if item.ID > 0 {
		values["id"] = item.ID
	}
	if err := r.store.Insert(ctx, r.tables.Supplies, values); err != nil {
		return fmt.Errorf("insert item %q: %w", item.Name, err)
	}
	return nil
}

func (r *Repository) InsertStockEntry(ctx context.Context, entry inventory.StockEntry) error {
	if err := inventory.ValidateID(entry.SupplyID); err != nil {
		return err
	}
	values := Row{
		"supply_id": entry.SupplyID,
		"quantity":  entry.Quantity,
	}
	if entry.ID > 0 {
		values["id"] = entry.ID
	}
	if err := r.store.Insert(ctx, r.tables.Inventory, values); err != nil {
		return fmt.Errorf("insert stock for supply %d: %w", entry.SupplyID, err)
	}
	return nil
}

func itemsFromRows(rows []Row) ([]inventory.Item, error) {
	items := make([]inventory.Item, 0, len(rows))
	for _, row := range rows {
		id, err := int64Column(row, "id")
		if err != nil {
			return nil, err
		}
		perPack, err := int64Column(row, "quantity_in_pack")
		if err != nil {
			return nil, err
		}
		items = append(items, inventory.Item{
			ID:                 id,
			Type:               stringColumn(row, "type"),
			Name:               stringColumn(row, "name"),
			StrengthOrVolume:   stringColumn(row, "strength_or_volume"),
			RouteOfUse:         stringColumn(row, "route_of_use"),
			QuantityInPack:     perPack,
			PossibleSideEffect: stringColumn(row, "possible_side_effects"),
			Location:           stringColumn(row, "location"),
		})
	}
	return items, nil
}

func stockFromRows(rows []Row) ([]inventory.StockEntry, error) {
	entries := make([]inventory.StockEntry, 0, len(rows))
	for _, row := range rows {
		var entry inventory.StockEntry
		var err error
		if entry.ID, err = int64Column(row, "id"); err != nil {
			return nil, err
		}
		if entry.SupplyID, err = int64Column(row, "supply_id"); err != nil {
			return nil, err
		}
		if entry.Quantity, err = int64Column(row, "quantity"); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// int64Column reads an integer column. NULL reads as zero.
func int64Column(row Row, column string) (int64, error) {
	switch value := row[column].(type) {
	case nil:
		return 0, nil
	case int64:
		return value, nil
	case int32:
		return int64(value), nil
	case int16:
		return int64(value), nil
	case int8:
		return int64(value), nil
	case int:
		return int64(value), nil
	case uint32:
		return int64(value), nil
	case uint16:
		return int64(value), nil
	case uint8:
		return int64(value), nil
	case uint64:
		if value > math.MaxInt64 {
			return 0, fmt.Errorf("column %s: value %d overflows int64", column, value)
		}
		return int64(value), nil
	case float64:
		if value != math.Trunc(value) {
			return 0, fmt.Errorf("column %s: value %v is not an integer", column, value)
		}
		return int64(value), nil
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", column, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("column %s: unsupported type %T", column, value)
	}
}

// stringColumn renders any scalar column as text. NULL reads as "".
func stringColumn(row Row, column string) string {
	switch value := row[column].(type) {
	case nil:
		return ""
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}
