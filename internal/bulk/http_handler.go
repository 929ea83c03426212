package bulk

import (
	"encoding/json"
	"net/http"

	"booklib/internal/httpx"
	"booklib/internal/logger"
)

type HTTPHandler struct {
	resolver *Resolver
}

func NewHTTPHandler(resolver *Resolver) *HTTPHandler {
	return &HTTPHandler{resolver: resolver}
}

type parseRequest struct {
	Text string `json:"text"`
}

// ParseBlock handles POST /bulk/parse. The response is a prefill form, not an
// inserted book; only missing authors, genres and series rows are created.
func (h *HTTPHandler) ParseBlock(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if req.Text == "" {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Text block is required",
			[]httpx.ErrorDetail{{Field: "text", Message: "must not be empty"}})
		return
	}

	resolved, err := h.resolver.Resolve(r.Context(), Parse(req.Text))
	if err != nil {
		logger.Get().Error().
			Str("request_id", httpx.RequestIDFrom(r)).
			Err(err).
			Msg("bulk resolve failed")
		httpx.JSONError(w, http.StatusBadGateway, "BACKEND_ERROR", "Could not resolve the pasted block", nil)
		return
	}
	httpx.JSONSuccess(w, resolved, nil)
}
