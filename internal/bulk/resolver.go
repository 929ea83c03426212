package bulk

import (
	"context"

	"booklib/internal/book"
	"booklib/internal/option"
)

// Resolver matches the parsed author, genre and series names against the
// option cache. Matching is case-sensitive and exact; a name with no match
// gets a new backing row, and the cache is refreshed so the id is visible to
// the rest of the request.
type Resolver struct {
	cache *option.Cache
}

func NewResolver(cache *option.Cache) *Resolver {
	return &Resolver{cache: cache}
}

// Resolve turns the relational names in f into ids, creating rows as needed.
func (r *Resolver) Resolve(ctx context.Context, f Form) (Resolved, error) {
	out := Resolved{Form: f, Genres: []book.NamedRef{}}

	if f.AuthorName != "" {
		ref, err := r.resolveName(ctx, option.Authors, f.AuthorName)
		if err != nil {
			return Resolved{}, err
		}
		out.Author = &ref
	}
	for _, name := range f.GenreNames {
		ref, err := r.resolveName(ctx, option.Genres, name)
		if err != nil {
			return Resolved{}, err
		}
		out.Genres = append(out.Genres, ref)
	}
	if f.SeriesName != "" {
		ref, err := r.resolveName(ctx, option.Series, f.SeriesName)
		if err != nil {
			return Resolved{}, err
		}
		out.Series = &ref
	}
	return out, nil
}

func (r *Resolver) resolveName(ctx context.Context, e option.Entity, name string) (book.NamedRef, error) {
	entry, found, err := r.cache.FindByValue(ctx, e, name)
	if err != nil {
		return book.NamedRef{}, err
	}
	if found && entry.ID != nil {
		return book.NamedRef{ID: *entry.ID, Name: name}, nil
	}
	id, err := r.cache.CreateNamed(ctx, e, name)
	if err != nil {
		return book.NamedRef{}, err
	}
	return book.NamedRef{ID: id, Name: name}, nil
}
