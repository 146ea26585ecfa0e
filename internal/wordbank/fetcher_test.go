package wordbank

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_FetchJSON(t *testing.T) {
	t.Run("returns the response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/index.json", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id": "cet4_f0_i0", "word": "abandon"}]`))
		}))
		defer server.Close()

		payload, err := NewHTTPFetcher().FetchJSON(context.Background(), server.URL+"/index.json")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id": "cet4_f0_i0", "word": "abandon"}]`, string(payload))
	})

	t.Run("non 2xx status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewHTTPFetcher().FetchJSON(context.Background(), server.URL+"/missing.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status code: 404")
	})

	t.Run("cancelled context aborts the request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewHTTPFetcher().FetchJSON(ctx, server.URL)
		require.Error(t, err)
	})
}
