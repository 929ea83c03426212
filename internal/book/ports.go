package book

import "context"

// Repository defines the contract for book storage.
type Repository interface {
	List(ctx context.Context) ([]Book, error)
	Get(ctx context.Context, id int64) (Book, error)
	Insert(ctx context.Context, b *Book) (int64, error)
	UpdateColumn(ctx context.Context, id int64, column string, value any) error
	ReplaceGenres(ctx context.Context, bookID int64, genreIDs []int64) error
}
