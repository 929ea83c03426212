package book

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"booklib/internal/httpx"
	"booklib/internal/logger"
	"booklib/internal/option"
	"booklib/internal/quote"
)

// QuoteStore writes the quotes attached to a newly created book.
type QuoteStore interface {
	InsertBatch(ctx context.Context, bookID int64, quotes []quote.Quote) error
}

type HTTPHandler struct {
	repo   Repository
	snap   *Snapshot
	cache  *option.Cache
	quotes QuoteStore
}

func NewHTTPHandler(repo Repository, snap *Snapshot, cache *option.Cache, quotes QuoteStore) *HTTPHandler {
	return &HTTPHandler{repo: repo, snap: snap, cache: cache, quotes: quotes}
}

// List handles GET /books. The collection is served from the in-memory
// snapshot; filter and sort run per request without touching the backend.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	params := ViewParams{
		Search:    r.URL.Query().Get("q"),
		Favorites: r.URL.Query().Get("favorites"),
		Sort:      r.URL.Query().Get("sort"),
	}
	if params.Favorites == "" {
		params.Favorites = FavoritesAll
	}
	if params.Sort == "" {
		params.Sort = SortDefault
	}

	books := Apply(h.snap.All(), params)
	httpx.JSONSuccess(w, books, map[string]int{"total": len(books)})
}

// Get handles GET /books/{id}.
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid book id", nil)
		return
	}
	b, ok := h.snap.Get(id)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return
	}
	httpx.JSONSuccess(w, b, nil)
}

type createQuote struct {
	Text     string  `json:"text" validate:"required"`
	Page     *int    `json:"page" validate:"omitempty,gt=0"`
	Type     *string `json:"type"`
	Category *string `json:"category"`
	Favorite bool    `json:"favorite"`
}

type createRequest struct {
	Title             string        `json:"title" validate:"required"`
	AuthorID          int64         `json:"author_id" validate:"required"`
	SeriesID          *int64        `json:"series_id"`
	GenreIDs          []int64       `json:"genre_ids"`
	Rating            *float64      `json:"rating" validate:"omitempty,gte=1,lte=10"`
	Pages             *int          `json:"pages" validate:"omitempty,gt=0"`
	Year              *int          `json:"year" validate:"omitempty,gt=0"`
	Type              *string       `json:"type"`
	Publisher         *string       `json:"publisher"`
	Language          *string       `json:"language"`
	Era               *string       `json:"era"`
	Format            *string       `json:"format"`
	Audience          *string       `json:"audience"`
	ReadingDifficulty *string       `json:"reading_difficulty"`
	Awards            *string       `json:"awards"`
	Favorite          bool          `json:"favorite"`
	StartDate         *time.Time    `json:"start_date"`
	EndDate           *time.Time    `json:"end_date"`
	ImageURL          *string       `json:"image_url" validate:"omitempty,url"`
	Summary           *string       `json:"summary"`
	Review            *string       `json:"review"`
	MainCharacters    *string       `json:"main_characters"`
	FavoriteCharacter *string       `json:"favorite_character"`
	Quotes            []createQuote `json:"quotes" validate:"dive"`
}

// Create handles POST /books: insert the book, its genre links and quotes,
// then prepend the new record to the snapshot.
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid book payload", details)
		return
	}

	b := Book{
		Title:             req.Title,
		Rating:            req.Rating,
		Pages:             req.Pages,
		Year:              req.Year,
		Type:              req.Type,
		Publisher:         req.Publisher,
		Language:          req.Language,
		Era:               req.Era,
		Format:            req.Format,
		Audience:          req.Audience,
		ReadingDifficulty: req.ReadingDifficulty,
		Awards:            req.Awards,
		Favorite:          req.Favorite,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		ImageURL:          req.ImageURL,
		Summary:           req.Summary,
		Review:            req.Review,
		MainCharacters:    req.MainCharacters,
		FavoriteCharacter: req.FavoriteCharacter,
		AuthorID:          &req.AuthorID,
		SeriesID:          req.SeriesID,
		Genres:            []NamedRef{},
	}

	id, err := h.repo.Insert(r.Context(), &b)
	if err != nil {
		h.writeBackendError(w, r, "insert book", err)
		return
	}

	if len(req.GenreIDs) > 0 {
		if err := h.repo.ReplaceGenres(r.Context(), id, req.GenreIDs); err != nil {
			h.writeBackendError(w, r, "link genres", err)
			return
		}
	}
	if len(req.Quotes) > 0 {
		quotes := make([]quote.Quote, 0, len(req.Quotes))
		for _, q := range req.Quotes {
			quotes = append(quotes, quote.Quote{
				BookID:   id,
				Text:     q.Text,
				Page:     q.Page,
				Type:     q.Type,
				Category: q.Category,
				Favorite: q.Favorite,
			})
		}
		if err := h.quotes.InsertBatch(r.Context(), id, quotes); err != nil {
			h.writeBackendError(w, r, "insert quotes", err)
			return
		}
	}

	h.decorate(r.Context(), &b, req.GenreIDs)
	h.snap.Add(b)
	httpx.JSONSuccessCreated(w, b)
}

// ReplaceGenres handles PUT /books/{id}/genres.
func (h *HTTPHandler) ReplaceGenres(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid book id", nil)
		return
	}
	b, ok := h.snap.Get(id)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return
	}

	var req struct {
		GenreIDs []int64 `json:"genre_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}

	if err := h.repo.ReplaceGenres(r.Context(), id, req.GenreIDs); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		h.writeBackendError(w, r, "replace genres", err)
		return
	}

	b.Genres = h.genreRefs(r.Context(), req.GenreIDs)
	h.snap.Patch(b)
	httpx.JSONSuccess(w, b, nil)
}

// decorate fills the display names for the new record from the option cache
// so the snapshot entry matches what a re-fetch would return.
func (h *HTTPHandler) decorate(ctx context.Context, b *Book, genreIDs []int64) {
	if b.AuthorID != nil {
		if name, ok := h.nameFor(ctx, option.Authors, *b.AuthorID); ok {
			b.Author = &NamedRef{ID: *b.AuthorID, Name: name}
		}
	}
	if b.SeriesID != nil {
		if name, ok := h.nameFor(ctx, option.Series, *b.SeriesID); ok {
			b.Series = &NamedRef{ID: *b.SeriesID, Name: name}
		}
	}
	b.Genres = h.genreRefs(ctx, genreIDs)
}

func (h *HTTPHandler) nameFor(ctx context.Context, e option.Entity, id int64) (string, bool) {
	entries, err := h.cache.Get(ctx, e)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.ID != nil && *entry.ID == id {
			return entry.Value, true
		}
	}
	return "", false
}

func (h *HTTPHandler) genreRefs(ctx context.Context, ids []int64) []NamedRef {
	refs := make([]NamedRef, 0, len(ids))
	for _, id := range ids {
		name, _ := h.nameFor(ctx, option.Genres, id)
		refs = append(refs, NamedRef{ID: id, Name: name})
	}
	return refs
}

func (h *HTTPHandler) writeBackendError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger.Get().Error().
		Str("request_id", httpx.RequestIDFrom(r)).
		Str("op", op).
		Err(err).
		Msg("book write failed")
	httpx.JSONError(w, http.StatusBadGateway, "BACKEND_ERROR", "Could not save the book", nil)
}
