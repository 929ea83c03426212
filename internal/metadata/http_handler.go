package metadata

import (
	"context"
	"net/http"

	"booklib/internal/httpx"
	"booklib/internal/logger"
)

// Searcher is the catalog the handler proxies.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Volume, error)
}

type HTTPHandler struct {
	client Searcher
}

func NewHTTPHandler(client Searcher) *HTTPHandler {
	return &HTTPHandler{client: client}
}

// Search handles GET /metadata/search?q=.
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Query is required",
			[]httpx.ErrorDetail{{Field: "q", Message: "must not be empty"}})
		return
	}

	volumes, err := h.client.Search(r.Context(), query, 10)
	if err != nil {
		logger.Get().Error().
			Str("request_id", httpx.RequestIDFrom(r)).
			Str("query", query).
			Err(err).
			Msg("metadata search failed")
		httpx.JSONError(w, http.StatusBadGateway, "BACKEND_ERROR", "Catalog lookup failed", nil)
		return
	}
	httpx.JSONSuccess(w, volumes, map[string]int{"total": len(volumes)})
}
