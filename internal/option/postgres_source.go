package option

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSource struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresSource(db *pgxpool.Pool, timeout time.Duration) *PostgresSource {
	return &PostgresSource{db: db, timeout: timeout}
}

func (s *PostgresSource) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// distinctColumns maps enumerated text entities to the column their values
// are collected from. Years scan as integers and load through loadYears.
var distinctColumns = map[Entity]struct {
	table, column, order string
}{
	Types:           {"books", "type", "ASC"},
	Publishers:      {"books", "publisher", "ASC"},
	Languages:       {"books", "language", "ASC"},
	Eras:            {"books", "era", "ASC"},
	Formats:         {"books", "format", "ASC"},
	Audiences:       {"books", "audience", "ASC"},
	QuoteTypes:      {"quotes", "type", "ASC"},
	QuoteCategories: {"quotes", "category", "ASC"},
}

func (s *PostgresSource) LoadOptions(ctx context.Context, e Entity) ([]Entry, error) {
	if e.Creatable() {
		return s.loadNamed(ctx, e)
	}
	if e == Years {
		return s.loadYears(ctx)
	}
	col, ok := distinctColumns[e]
	if !ok {
		return nil, ErrUnknownEntity
	}
	return s.loadDistinct(ctx, col.table, col.column, col.order)
}

func (s *PostgresSource) loadNamed(ctx context.Context, e Entity) ([]Entry, error) {
	sql := fmt.Sprintf("SELECT id, name FROM %s ORDER BY name ASC", string(e))

	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.Query(timeoutCtx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		entryID := id
		out = append(out, Entry{Value: name, Label: name, ID: &entryID})
	}
	return out, rows.Err()
}

func (s *PostgresSource) loadDistinct(ctx context.Context, table, column, order string) ([]Entry, error) {
	sql := fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL ORDER BY %s %s",
		column, table, column, column, order)

	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.Query(timeoutCtx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, Entry{Value: v, Label: v})
	}
	return out, rows.Err()
}

func (s *PostgresSource) loadYears(ctx context.Context) ([]Entry, error) {
	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	rows, err := s.db.Query(timeoutCtx,
		"SELECT DISTINCT year FROM books WHERE year IS NOT NULL ORDER BY year DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		v := strconv.Itoa(y)
		out = append(out, Entry{Value: v, Label: v})
	}
	return out, rows.Err()
}

func (s *PostgresSource) CreateNamed(ctx context.Context, e Entity, name string) (int64, error) {
	if !e.Creatable() {
		return 0, ErrNotCreatable
	}
	sql := fmt.Sprintf("INSERT INTO %s (name) VALUES ($1) RETURNING id", string(e))

	timeoutCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	var id int64
	if err := s.db.QueryRow(timeoutCtx, sql, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
