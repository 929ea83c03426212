package field

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booklib/internal/option"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresLookup struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresLookup(db *pgxpool.Pool, timeout time.Duration) *PostgresLookup {
	return &PostgresLookup{db: db, timeout: timeout}
}

func (l *PostgresLookup) FindIDByName(ctx context.Context, e option.Entity, name string) (int64, error) {
	if !e.Creatable() {
		return 0, fmt.Errorf("entity %s has no name table", e)
	}
	sql := fmt.Sprintf("SELECT id FROM %s WHERE name = $1", string(e))

	timeoutCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	var id int64
	err := l.db.QueryRow(timeoutCtx, sql, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNoRow
		}
		return 0, err
	}
	return id, nil
}
