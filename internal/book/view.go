package book

import (
	"sort"
	"strings"
)

// Favorites filter membership.
const (
	FavoritesAll  = "all"
	FavoritesOnly = "favorites"
	FavoritesNone = "non-favorites"
)

// Sort keys. Default is display order descending.
const (
	SortDefault    = "default"
	SortOrderAsc   = "orden-asc"
	SortRatingDesc = "rating-desc"
	SortRatingAsc  = "rating-asc"
	SortTitle      = "title"
	SortAuthor     = "author"
	SortPagesDesc  = "pages-desc"
	SortPagesAsc   = "pages-asc"
)

// ViewParams filters and orders the in-memory collection.
type ViewParams struct {
	Search    string
	Favorites string
	Sort      string
}

// Apply runs the filter/sort pipeline over books and returns a new ordered
// slice. The sort is stable, so applying the same params twice yields the
// same order.
func Apply(books []Book, p ViewParams) []Book {
	search := strings.ToLower(p.Search)

	out := make([]Book, 0, len(books))
	for _, b := range books {
		if search != "" && !strings.Contains(strings.ToLower(b.Title), search) {
			continue
		}
		switch p.Favorites {
		case FavoritesOnly:
			if !b.Favorite {
				continue
			}
		case FavoritesNone:
			if b.Favorite {
				continue
			}
		}
		out = append(out, b)
	}

	sort.SliceStable(out, less(p.Sort, out))
	return out
}

func less(key string, books []Book) func(i, j int) bool {
	switch key {
	case SortOrderAsc:
		return func(i, j int) bool { return books[i].Order < books[j].Order }
	case SortRatingDesc:
		return func(i, j int) bool { return rating(books[i]) > rating(books[j]) }
	case SortRatingAsc:
		return func(i, j int) bool { return rating(books[i]) < rating(books[j]) }
	case SortTitle:
		return func(i, j int) bool { return books[i].Title < books[j].Title }
	case SortAuthor:
		return func(i, j int) bool { return authorName(books[i]) < authorName(books[j]) }
	case SortPagesDesc:
		return func(i, j int) bool { return pages(books[i]) > pages(books[j]) }
	case SortPagesAsc:
		return func(i, j int) bool { return pages(books[i]) < pages(books[j]) }
	default:
		return func(i, j int) bool { return books[i].Order > books[j].Order }
	}
}

func rating(b Book) float64 {
	if b.Rating == nil {
		return 0
	}
	return *b.Rating
}

func pages(b Book) int {
	if b.Pages == nil {
		return 0
	}
	return *b.Pages
}

// Books without an author sort as an empty name.
func authorName(b Book) string {
	if b.Author == nil {
		return ""
	}
	return b.Author.Name
}
