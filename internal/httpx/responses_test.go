package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONSuccess(rec, map[string]string{"title": "Rayuela"}, map[string]int{"total": 1})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["data"])
	assert.NotNil(t, body["meta"])
}

func TestJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid payload",
		[]ErrorDetail{{Field: "rating", Message: "must be between 1 and 10"}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	require.Len(t, body.Error.Details, 1)
	assert.Equal(t, "rating", body.Error.Details[0].Field)
}

func TestValidateStruct(t *testing.T) {
	type payload struct {
		Title  string   `validate:"required"`
		Rating *float64 `validate:"omitempty,gte=1,lte=10"`
	}

	assert.Nil(t, ValidateStruct(payload{Title: "ok"}))

	details := ValidateStruct(payload{})
	require.Len(t, details, 1)
	assert.Equal(t, "title", details[0].Field)
	assert.Equal(t, "is required", details[0].Message)

	bad := 11.0
	details = ValidateStruct(payload{Title: "ok", Rating: &bad})
	require.Len(t, details, 1)
	assert.Equal(t, "must be at most 10", details[0].Message)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 2)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "burst exhausted")

	other := httptest.NewRequest(http.MethodGet, "/books", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code, "limits are per client")
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	handler := RequestSizeLimitMiddleware(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/bulk/parse", nil)
	req.ContentLength = 1024
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
