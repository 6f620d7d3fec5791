package sqlstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/medstock/medstock/internal/inventory"
)

const (
	selectSupplyByID = `SELECT "id", "type", "name", "strength_or_volume", "route_of_use", "quantity_in_pack", "possible_side_effects", "location" FROM "supplies" WHERE "id" = $1 ORDER BY "id"`
	selectStockByID  = `SELECT "id", "supply_id", "quantity" FROM "inventory" WHERE "supply_id" = $1 ORDER BY "id"`
)

func TestNewRepositoryRequiresColumns(t *testing.T) {
	db, _ := newSQLMock(t)
	store := NewStore(db, Dialect{Driver: "pgx"}, NewSchema(map[string][]string{
		"supplies":  {"id", "name"},
		"inventory": stockColumns,
	}))
	_, err := NewRepository(store, Tables{Supplies: "supplies", Inventory: "inventory"})
	if !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("NewRepository() error = %v", err)
	}
}

func TestListCandidatesOrderedByID(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id", "name" FROM "supplies" ORDER BY "id"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "Acetaminophen (Tylenol)").
			AddRow(int64(2), "Diphenhydramine (Benadryl)"))

	candidates, err := repo.ListCandidates(context.Background())
	if err != nil {
		t.Fatalf("ListCandidates() error = %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(candidates))
	}
	if candidates[1].ID != 2 || candidates[1].Name != "Diphenhydramine (Benadryl)" {
		t.Fatalf("candidates[1] = %+v", candidates[1])
	}
	assertSQLMock(t, mock)
}

func TestLoadItemMapsColumns(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectSupplyByID)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(supplyColumns).
			AddRow(int64(2), "capsules", "Diphenhydramine (Benadryl)", "25 mg", "oral", int32(60), "drowsiness", "Shelf B2"))

	items, err := repo.LoadItem(context.Background(), 2)
	if err != nil {
		t.Fatalf("LoadItem() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	item := items[0]
	if item.QuantityInPack != 60 {
		t.Fatalf("QuantityInPack = %d", item.QuantityInPack)
	}
	if item.Location != "Shelf B2" || item.RouteOfUse != "oral" || item.PossibleSideEffect != "drowsiness" {
		t.Fatalf("item = %+v", item)
	}
	assertSQLMock(t, mock)
}

func TestLoadItemNoRowsIsEmptyNotError(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectSupplyByID)).
		WithArgs(int64(41)).
		WillReturnRows(sqlmock.NewRows(supplyColumns))

	items, err := repo.LoadItem(context.Background(), 41)
	if err != nil {
		t.Fatalf("LoadItem() error = %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %d, want 0", len(items))
	}
	assertSQLMock(t, mock)
}

func TestLoadStockReturnsEveryPackage(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectStockByID)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(stockColumns).
			AddRow(int64(10), int64(2), int64(60)).
			AddRow(int64(11), int64(2), int64(9)))

	entries, err := repo.LoadStock(context.Background(), 2)
	if err != nil {
		t.Fatalf("LoadStock() error = %v", err)
	}
	summary := inventory.Summarize(entries)
	if summary.Quantity != 69 || summary.Packages != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	assertSQLMock(t, mock)
}

func TestLoadRejectsNonPositiveIDWithoutQuery(t *testing.T) {
	repo, mock := newTestRepository(t)

	if _, err := repo.LoadItem(context.Background(), 0); !errors.Is(err, inventory.ErrInvalidID) {
		t.Fatalf("LoadItem(0) error = %v", err)
	}
	if _, err := repo.LoadStock(context.Background(), -1); !errors.Is(err, inventory.ErrInvalidID) {
		t.Fatalf("LoadStock(-1) error = %v", err)
	}
	assertSQLMock(t, mock)
}

func TestLoadStockWrapsQueryError(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectStockByID)).
		WithArgs(int64(3)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.LoadStock(context.Background(), 3)
	if err == nil {
		t.Fatal("expected error")
	}
	assertSQLMock(t, mock)
}

func TestInsertItemOmitsUnsetID(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "supplies" ("location", "name", "possible_side_effects", "quantity_in_pack", "route_of_use", "strength_or_volume", "type") VALUES ($1, $2, $3, $4, $5, $6, $7)`)).
		WithArgs("Cabinet A", "Ibuprofen (Advil)", "nausea", int64(24), "oral", "200 mg", "tablets").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.InsertItem(context.Background(), inventory.Item{
		Type:               "tablets",
		Name:               "Ibuprofen (Advil)",
		StrengthOrVolume:   "200 mg",
		RouteOfUse:         "oral",
		QuantityInPack:     24,
		PossibleSideEffect: "nausea",
		Location:           "Cabinet A",
	})
	if err != nil {
		t.Fatalf("InsertItem() error = %v", err)
	}
	assertSQLMock(t, mock)
}

func TestHealthCheckPings(t *testing.T) {
	repo, mock := newTestRepository(t)
	mock.ExpectPing()

	if err := repo.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck() error = %v", err)
	}
	assertSQLMock(t, mock)
}

func TestInt64ColumnConversions(t *testing.T) {
	row := Row{"a": int32(7), "b": float64(3), "c": " 12 ", "d": nil, "e": float64(1.5), "f": true}
	for column, want := range map[string]int64{"a": 7, "b": 3, "c": 12, "d": 0} {
		got, err := int64Column(row, column)
		if err != nil || got != want {
			t.Fatalf("int64Column(%s) = %d, %v", column, got, err)
		}
	}
	for _, column := range []string{"e", "f"} {
		if _, err := int64Column(row, column); err == nil {
			t.Fatalf("int64Column(%s) expected error", column)
		}
	}
}

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newSQLMock(t)
	store := NewStore(db, Dialect{Driver: "pgx"}, NewSchema(map[string][]string{
		"supplies":  supplyColumns,
		"inventory": stockColumns,
	}))
	repo, err := NewRepository(store, Tables{Supplies: "supplies", Inventory: "inventory"})
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	return repo, mock
}
