package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `{
	"items": [
		{
			"volumeInfo": {
				"title": "Cien años de soledad",
				"authors": ["Gabriel García Márquez"],
				"publisher": "Sudamericana",
				"publishedDate": "1967",
				"pageCount": 417,
				"language": "es",
				"imageLinks": {"thumbnail": "https://covers.example/cien.jpg"}
			}
		},
		{
			"volumeInfo": {
				"title": "El coronel no tiene quien le escriba"
			}
		}
	]
}`

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "Cien años", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("maxResults"))
		w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	volumes, err := NewClient(srv.URL).Search(context.Background(), "Cien años", 5)
	require.NoError(t, err)
	require.Len(t, volumes, 2)

	assert.Equal(t, "Cien años de soledad", volumes[0].Title)
	assert.Equal(t, []string{"Gabriel García Márquez"}, volumes[0].Authors)
	assert.Equal(t, 417, volumes[0].PageCount)
	assert.Equal(t, "https://covers.example/cien.jpg", volumes[0].Thumbnail)

	assert.Equal(t, "El coronel no tiene quien le escriba", volumes[1].Title)
	assert.Empty(t, volumes[1].Authors)
}

func TestClient_SearchEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	volumes, err := NewClient(srv.URL).Search(context.Background(), "nothing", 10)
	require.NoError(t, err)
	assert.Empty(t, volumes)
}

func TestClient_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	volumes, err := NewClient(srv.URL).Search(context.Background(), "retry", 5)
	require.NoError(t, err)
	assert.Len(t, volumes, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Search(context.Background(), "always busy", 5)
	assert.Error(t, err)
	assert.Equal(t, int32(maxAttempts), calls.Load())
}

func TestClient_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Search(context.Background(), "bad query", 5)
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
