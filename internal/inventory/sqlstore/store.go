package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownTable  = errors.New("sqlstore: unknown table")
	ErrUnknownColumn = errors.New("sqlstore: unknown column")
)

// Row maps lower-case column names to driver values. Byte slices are
// converted to strings.
type Row map[string]any

type Store struct {
	db      *sql.DB
	dialect Dialect
	schema  Schema
}

func NewStore(db *sql.DB, dialect Dialect, schema Schema) *Store {
	return &Store{db: db, dialect: dialect, schema: schema}
}

func (s *Store) Schema() Schema {
	return s.schema
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping store db: %w", err)
	}
	return nil
}

// ListAll returns every row of table. An empty column list selects all known
// columns. Rows are ordered by id when the table has one.
func (s *Store) ListAll(ctx context.Context, table string, columns []string) ([]Row, error) {
	columns, err := s.resolveColumns(table, columns)
	if err != nil {
		return nil, err
	}
	query := s.selectClause(table, columns) + s.orderClause(table)
	return s.query(ctx, table, query)
}

// SelectWhere returns the rows of table whose column equals value.
func (s *Store) SelectWhere(ctx context.Context, table, column string, value any, columns []string) ([]Row, error) {
	columns, err := s.resolveColumns(table, columns)
	if err != nil {
		return nil, err
	}
	if !s.schema.HasColumn(table, column) {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
	}
	query := s.selectClause(table, columns) +
		fmt.Sprintf(" WHERE %s = %s", s.dialect.QuoteIdent(column), s.dialect.Placeholder(1)) +
		s.orderClause(table)
	return s.query(ctx, table, query, value)
}

// Insert writes one row. Columns are emitted in sorted order.
func (s *Store) Insert(ctx context.Context, table string, values Row) error {
	if len(values) == 0 {
		return fmt.Errorf("insert into %s: no values", table)
	}
	columns := make([]string, 0, len(values))
	for column := range values {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	if err := s.schema.Require(table, columns...); err != nil {
		return err
	}

	quoted := make([]string, 0, len(columns))
	placeholders := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for i, column := range columns {
		quoted = append(quoted, s.dialect.QuoteIdent(column))
		placeholders = append(placeholders, s.dialect.Placeholder(i+1))
		args = append(args, values[column])
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.dialect.QuoteIdent(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

func (s *Store) resolveColumns(table string, columns []string) ([]string, error) {
	if len(columns) == 0 {
		all, ok := s.schema.Columns(table)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
		}
		return all, nil
	}
	if err := s.schema.Require(table, columns...); err != nil {
		return nil, err
	}
	return columns, nil
}

func (s *Store) selectClause(table string, columns []string) string {
	quoted := make([]string, 0, len(columns))
	for _, column := range columns {
		quoted = append(quoted, s.dialect.QuoteIdent(column))
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), s.dialect.QuoteIdent(table))
}

func (s *Store) orderClause(table string) string {
	if !s.schema.HasColumn(table, "id") {
		return ""
	}
	return " ORDER BY " + s.dialect.QuoteIdent("id")
}

func (s *Store) query(ctx context.Context, table, query string, args ...any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", table, err)
	}

	out := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		row := make(Row, len(columns))
		for i, column := range columns {
			value := values[i]
			if raw, ok := value.([]byte); ok {
				value = string(raw)
			}
			row[strings.ToLower(column)] = value
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", table, err)
	}
	return out, nil
}
