package book

import (
	"context"
	"errors"
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

const bookColumns = `
	b.id, b.title, b.rating, b.pages, b.year, b.type, b.publisher, b.language,
	b.era, b.format, b.audience, b.reading_difficulty, b.awards, b.favorite,
	b.start_date, b.end_date, b.image_url, b.summary, b.review,
	b.main_characters, b.favorite_character, b.orden, b.author_id, b.series_id,
	a.name, s.name`

const bookJoins = `
	FROM books b
	LEFT JOIN authors a ON a.id = b.author_id
	LEFT JOIN series s ON s.id = b.series_id`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	var authorName, seriesName *string
	err := row.Scan(
		&b.ID, &b.Title, &b.Rating, &b.Pages, &b.Year, &b.Type, &b.Publisher,
		&b.Language, &b.Era, &b.Format, &b.Audience, &b.ReadingDifficulty,
		&b.Awards, &b.Favorite, &b.StartDate, &b.EndDate, &b.ImageURL,
		&b.Summary, &b.Review, &b.MainCharacters, &b.FavoriteCharacter,
		&b.Order, &b.AuthorID, &b.SeriesID, &authorName, &seriesName,
	)
	if err != nil {
		return Book{}, err
	}
	if b.AuthorID != nil && authorName != nil {
		b.Author = &NamedRef{ID: *b.AuthorID, Name: *authorName}
	}
	if b.SeriesID != nil && seriesName != nil {
		b.Series = &NamedRef{ID: *b.SeriesID, Name: *seriesName}
	}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx,
		"SELECT"+bookColumns+bookJoins+" ORDER BY b.id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	index := make(map[int64]int)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		b.Genres = []NamedRef{}
		index[b.ID] = len(out)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	genreCtx, cancelGenres := r.withTimeout(ctx)
	defer cancelGenres()
	genreRows, err := r.db.Query(genreCtx, `
		SELECT bg.book_id, g.id, g.name
		FROM book_genre bg
		JOIN genres g ON g.id = bg.genre_id
		ORDER BY g.name`)
	if err != nil {
		return nil, err
	}
	defer genreRows.Close()

	for genreRows.Next() {
		var bookID int64
		var g NamedRef
		if err := genreRows.Scan(&bookID, &g.ID, &g.Name); err != nil {
			return nil, err
		}
		if i, ok := index[bookID]; ok {
			out[i].Genres = append(out[i].Genres, g)
		}
	}
	return out, genreRows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx,
		"SELECT"+bookColumns+bookJoins+" WHERE b.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}

	b.Genres = []NamedRef{}
	genreCtx, cancelGenres := r.withTimeout(ctx)
	defer cancelGenres()
	rows, err := r.db.Query(genreCtx, `
		SELECT g.id, g.name
		FROM book_genre bg
		JOIN genres g ON g.id = bg.genre_id
		WHERE bg.book_id = $1
		ORDER BY g.name`, id)
	if err != nil {
		return Book{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var g NamedRef
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return Book{}, err
		}
		b.Genres = append(b.Genres, g)
	}
	return b, rows.Err()
}

func (r *PostgresRepo) Insert(ctx context.Context, b *Book) (int64, error) {
	const sql = `
		INSERT INTO books (title, rating, pages, year, type, publisher, language,
		                   era, format, audience, reading_difficulty, awards,
		                   favorite, start_date, end_date, image_url, summary,
		                   review, main_characters, favorite_character,
		                   author_id, series_id, orden)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22,
		        COALESCE((SELECT MAX(orden) FROM books), 0) + 1)
		RETURNING id, orden`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql,
		b.Title, b.Rating, b.Pages, b.Year, b.Type, b.Publisher, b.Language,
		b.Era, b.Format, b.Audience, b.ReadingDifficulty, b.Awards,
		b.Favorite, b.StartDate, b.EndDate, b.ImageURL, b.Summary,
		b.Review, b.MainCharacters, b.FavoriteCharacter,
		b.AuthorID, b.SeriesID,
	).Scan(&b.ID, &b.Order)
	if err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	return b.ID, nil
}

// updatableColumns guards UpdateColumn against anything outside the field
// codec's closed column set.
var updatableColumns = map[string]bool{
	"title": true, "rating": true, "pages": true, "year": true, "type": true,
	"publisher": true, "language": true, "era": true, "format": true,
	"audience": true, "reading_difficulty": true, "awards": true,
	"favorite": true, "start_date": true, "end_date": true, "image_url": true,
	"summary": true, "review": true, "main_characters": true,
	"favorite_character": true, "author_id": true, "series_id": true,
	"orden": true,
}

func (r *PostgresRepo) UpdateColumn(ctx context.Context, id int64, column string, value any) error {
	if !updatableColumns[column] {
		return fmt.Errorf("column %q is not updatable", column)
	}
	sql := fmt.Sprintf("UPDATE books SET %s = $1 WHERE id = $2", column)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql, value, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceGenres synchronizes the book_genre join to exactly genreIDs. The
// delete and inserts run in one transaction, so a failure leaves the previous
// links intact.
func (r *PostgresRepo) ReplaceGenres(ctx context.Context, bookID int64, genreIDs []int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	if _, err := tx.Exec(timeoutCtx,
		"DELETE FROM book_genre WHERE book_id = $1", bookID); err != nil {
		return fmt.Errorf("delete genre links: %w", err)
	}
	for _, genreID := range genreIDs {
		if _, err := tx.Exec(timeoutCtx,
			"INSERT INTO book_genre (book_id, genre_id) VALUES ($1, $2)",
			bookID, genreID); err != nil {
			return fmt.Errorf("insert genre link: %w", err)
		}
	}
	return tx.Commit(timeoutCtx)
}
