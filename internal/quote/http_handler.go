package quote

import (
	"context"
	"net/http"
	"strconv"

	"booklib/internal/httpx"
	"booklib/internal/logger"
)

// Lister is the read side the handler serves from.
type Lister interface {
	ListByBook(ctx context.Context, bookID int64) ([]Quote, error)
}

type HTTPHandler struct {
	repo Lister
}

func NewHTTPHandler(repo Lister) *HTTPHandler {
	return &HTTPHandler{repo: repo}
}

// ListByBook handles GET /books/{id}/quotes.
func (h *HTTPHandler) ListByBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid book id", nil)
		return
	}

	quotes, err := h.repo.ListByBook(r.Context(), bookID)
	if err != nil {
		logger.Get().Error().
			Str("request_id", httpx.RequestIDFrom(r)).
			Err(err).
			Msg("list quotes failed")
		httpx.JSONError(w, http.StatusBadGateway, "BACKEND_ERROR", "Could not load quotes", nil)
		return
	}
	httpx.JSONSuccess(w, quotes, map[string]int{"total": len(quotes)})
}
