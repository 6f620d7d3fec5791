//go:build integration

package migrations

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/medstock/medstock/internal/inventory/sqlstore"
)

func TestRunnerAppliesAndRollsBackOnSQLite(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "inventory.db"))
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	runAndRollBack(t, db, sqlstore.Dialect{Driver: "sqlite"})
}

func TestRunnerAppliesAndRollsBackOnPostgres(t *testing.T) {
	dsn := strings.TrimSpace(os.Getenv("MEDSTOCK_TEST_STORE_DSN"))
	if dsn == "" {
		t.Skip("MEDSTOCK_TEST_STORE_DSN is not set")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	runAndRollBack(t, db, sqlstore.Dialect{Driver: "pgx"})
}

func runAndRollBack(t *testing.T, db *sql.DB, dialect sqlstore.Dialect) {
	t.Helper()

	runner := NewRunner(dialect)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	applied, err := runner.Up(ctx, db, 0)
	if err != nil {
		t.Fatalf("runner.Up() error = %v", err)
	}
	if applied < 1 {
		t.Fatalf("runner.Up() applied %d migrations, want at least 1", applied)
	}
	assertTableQueryable(t, db, "supplies", true)
	assertTableQueryable(t, db, "inventory", true)

	rolledBack, err := runner.Down(ctx, db, 1)
	if err != nil {
		t.Fatalf("runner.Down() error = %v", err)
	}
	if rolledBack != 1 {
		t.Fatalf("runner.Down() rolled back %d migrations, want 1", rolledBack)
	}
	assertTableQueryable(t, db, "supplies", false)
}

func assertTableQueryable(t *testing.T, db *sql.DB, table string, expected bool) {
	t.Helper()

	rows, err := db.Query(`SELECT * FROM ` + table + ` WHERE 1=0`)
	if err == nil {
		_ = rows.Close()
	}
	exists := err == nil
	if exists != expected {
		t.Fatalf("table %q exists = %v, want %v (err=%v)", table, exists, expected, err)
	}
}
