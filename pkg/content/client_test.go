package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/lumi/internal/identity"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return client
}

func TestClient_Lookup(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/approved-content", r.URL.Path)
		assert.Equal(t, "math", r.URL.Query().Get("subject"))
		assert.Equal(t, "north_america", r.URL.Query().Get("region"))
		assert.NotEmpty(t, r.Header.Get(identity.HeaderName))

		json.NewEncoder(w).Encode([]ApprovedContent{
			{ID: "C1", Subject: "math", Region: "north_america", Title: "Fractions intro"},
			{ID: "C2", Subject: "math", Region: "north_america", Title: "Fractions practice"},
		})
	})

	got, err := client.Lookup(context.Background(), "T1", "math", "north_america")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "C1", got.ID, "first match wins")
}

func TestClient_Lookup_NotFound(t *testing.T) {
	t.Run("404 status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		got, err := client.Lookup(context.Background(), "T1", "math", "north_america")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("empty result list", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]ApprovedContent{})
		})

		got, err := client.Lookup(context.Background(), "T1", "math", "north_america")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestClient_Lookup_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	got, err := client.Lookup(context.Background(), "T1", "math", "north_america")
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "status 502")
}
