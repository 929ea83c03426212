package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The server chain nests recovery inside the access log wrapper, so recovery
// receives the wrapped writer and can tell whether the header already went out.
func chained(next http.Handler) http.Handler {
	return AccessLogMiddleware(RecoveryMiddleware(next))
}

func TestRecovery_PanicBeforeWrite(t *testing.T) {
	h := chained(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}

func TestRecovery_PanicAfterWriteKeepsResponse(t *testing.T) {
	h := chained(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String(), "no error body appended after the header went out")
}

func TestRecovery_PassesThroughHealthyRequests(t *testing.T) {
	h := chained(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		JSONSuccess(w, "ok", nil)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
