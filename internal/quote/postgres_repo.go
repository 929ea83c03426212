package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const quoteColumns = "id, book_id, text, page, type, category, favorite"

func scanQuote(rows pgx.Rows) (Quote, error) {
	var q Quote
	err := rows.Scan(&q.ID, &q.BookID, &q.Text, &q.Page, &q.Type, &q.Category, &q.Favorite)
	return q, err
}

// ListByBook returns a book's quotes in insertion order.
func (r *PostgresRepo) ListByBook(ctx context.Context, bookID int64) ([]Quote, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx,
		"SELECT "+quoteColumns+" FROM quotes WHERE book_id = $1 ORDER BY id", bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// InsertBatch writes all quotes for one book in a single transaction.
func (r *PostgresRepo) InsertBatch(ctx context.Context, bookID int64, quotes []Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	for _, q := range quotes {
		if _, err := tx.Exec(timeoutCtx, `
			INSERT INTO quotes (book_id, text, page, type, category, favorite)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			bookID, q.Text, q.Page, q.Type, q.Category, q.Favorite); err != nil {
			return fmt.Errorf("insert quote: %w", err)
		}
	}
	return tx.Commit(timeoutCtx)
}
