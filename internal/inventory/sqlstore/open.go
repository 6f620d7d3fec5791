package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medstock/medstock/internal/config"
)

func DBConfigFrom(cfg config.StoreConfig) DBConfig {
	return DBConfig{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
}

// OpenRepository opens the store, probes both tables and returns a ready
// repository. On error the handle is already closed.
func OpenRepository(ctx context.Context, cfg config.StoreConfig) (*sql.DB, *Repository, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}
	db, err := Open(ctx, DBConfigFrom(cfg))
	if err != nil {
		return nil, nil, err
	}

	schema, err := LoadSchema(ctx, db, dialect, cfg.SuppliesTable, cfg.InventoryTable)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("load store schema: %w", err)
	}
	repo, err := NewRepository(NewStore(db, dialect, schema), Tables{
		Supplies:  cfg.SuppliesTable,
		Inventory: cfg.InventoryTable,
	})
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, repo, nil
}
