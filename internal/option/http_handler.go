package option

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"booklib/internal/httpx"
)

type HTTPHandler struct {
	cache *Cache
}

func NewHTTPHandler(cache *Cache) *HTTPHandler {
	return &HTTPHandler{cache: cache}
}

// List handles GET /options/{entity}
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	e, err := ParseEntity(r.PathValue("entity"))
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, "UNKNOWN_ENTITY", "Unknown option entity", nil)
		return
	}

	entries, err := h.cache.Get(r.Context(), e)
	if err != nil {
		httpx.JSONError(w, http.StatusBadGateway, "BACKEND_ERROR", "Could not load options", nil)
		return
	}
	httpx.JSONSuccess(w, entries, nil)
}

type createRequest struct {
	Name string `json:"name"`
}

// Create handles POST /options/{entity}. Only entities backed by a name
// table (authors, genres, series) accept new rows.
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	e, err := ParseEntity(r.PathValue("entity"))
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, "UNKNOWN_ENTITY", "Unknown option entity", nil)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Name is required",
			[]httpx.ErrorDetail{{Field: "name", Message: "name is required"}})
		return
	}

	id, err := h.cache.CreateNamed(r.Context(), e, req.Name)
	if err != nil {
		if errors.Is(err, ErrNotCreatable) {
			httpx.JSONError(w, http.StatusMethodNotAllowed, "NOT_CREATABLE", "Entity values cannot be created directly", nil)
			return
		}
		httpx.JSONError(w, http.StatusBadGateway, "BACKEND_ERROR", "Could not create entry", nil)
		return
	}
	httpx.JSONSuccessCreated(w, map[string]any{"id": id, "name": req.Name})
}
