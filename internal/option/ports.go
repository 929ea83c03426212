package option

import "context"

// Source loads selector options and creates new name-table rows.
type Source interface {
	LoadOptions(ctx context.Context, e Entity) ([]Entry, error)
	CreateNamed(ctx context.Context, e Entity, name string) (int64, error)
}
