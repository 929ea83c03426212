package editor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"booklib/internal/apperr"
	"booklib/internal/book"
	"booklib/internal/field"
	"booklib/internal/httpx"
	"booklib/internal/logger"
)

type HTTPHandler struct {
	manager *Manager
}

func NewHTTPHandler(manager *Manager) *HTTPHandler {
	return &HTTPHandler{manager: manager}
}

type saveRequest struct {
	Value    string  `json:"value"`
	GenreIDs []int64 `json:"genre_ids"`
}

// SaveField handles PATCH /books/{id}/fields/{field}. The request runs a
// full edit session: begin, draft, save.
func (h *HTTPHandler) SaveField(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid book id", nil)
		return
	}
	f, err := field.Parse(r.PathValue("field"))
	if err != nil {
		httpx.JSONError(w, http.StatusNotFound, "UNKNOWN_FIELD", "Unknown field", nil)
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}

	if err := h.manager.Begin(bookID, f); err != nil {
		if errors.Is(err, ErrEditInProgress) {
			httpx.JSONError(w, http.StatusConflict, "EDIT_IN_PROGRESS", "Another edit is in progress", nil)
			return
		}
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return
	}

	if f == field.Genre {
		err = h.manager.SetGenreDraft(req.GenreIDs)
	} else {
		err = h.manager.SetDraft(req.Value)
	}
	if err != nil {
		h.manager.Cancel()
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}

	updated, err := h.manager.Save(r.Context())
	if err != nil {
		writeSaveError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, updated, nil)
}

func writeSaveError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *apperr.ValidationError
	var nferr *apperr.NotFoundError

	switch {
	case errors.As(err, &verr):
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", verr.Error(),
			[]httpx.ErrorDetail{{Field: verr.Field, Message: verr.Message}})
	case errors.As(err, &nferr):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", nferr.Error(), nil)
	case errors.Is(err, book.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	default:
		logger.Get().Error().
			Str("request_id", httpx.RequestIDFrom(r)).
			Err(err).
			Msg("field save failed")
		httpx.JSONError(w, http.StatusBadGateway, "BACKEND_ERROR", "Could not save the field", nil)
	}
}
