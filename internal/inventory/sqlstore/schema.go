package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Schema is the column layout of the tables the store may touch. It is loaded
// once at startup; request paths only consult it.
type Schema struct {
	tables map[string][]string
}

func NewSchema(tables map[string][]string) Schema {
	copied := make(map[string][]string, len(tables))
	for name, columns := range tables {
		copied[name] = append([]string(nil), columns...)
	}
	return Schema{tables: copied}
}

// LoadSchema probes each table with an empty select and records the columns
// the driver reports.
func LoadSchema(ctx context.Context, db queryer, dialect Dialect, tables ...string) (Schema, error) {
	if len(tables) == 0 {
		return Schema{}, fmt.Errorf("at least one table is required")
	}
	loaded := make(map[string][]string, len(tables))
	for _, table := range tables {
		table = strings.TrimSpace(table)
		if table == "" {
			return Schema{}, fmt.Errorf("table name is required")
		}
		columns, err := probeColumns(ctx, db, dialect, table)
		if err != nil {
			return Schema{}, err
		}
		loaded[table] = columns
	}
	return Schema{tables: loaded}, nil
}

func probeColumns(ctx context.Context, db queryer, dialect Dialect, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s WHERE 1=0", dialect.QuoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("probe table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", table, err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("probe table %s: %w", table, err)
	}
	normalized := make([]string, 0, len(columns))
	for _, column := range columns {
		normalized = append(normalized, strings.ToLower(column))
	}
	return normalized, nil
}

func (s Schema) Columns(table string) ([]string, bool) {
	columns, ok := s.tables[table]
	if !ok {
		return nil, false
	}
	return append([]string(nil), columns...), true
}

func (s Schema) HasColumn(table, column string) bool {
	for _, candidate := range s.tables[table] {
		if candidate == column {
			return true
		}
	}
	return false
}

// Require reports the first listed column the table lacks.
func (s Schema) Require(table string, columns ...string) error {
	if _, ok := s.tables[table]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	for _, column := range columns {
		if !s.HasColumn(table, column) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
		}
	}
	return nil
}
