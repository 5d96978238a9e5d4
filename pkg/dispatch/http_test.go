package dispatch

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
)

func newHTTPTestDispatcher(t *testing.T, handler http.HandlerFunc) Dispatcher {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	d, err := New(Config{
		Provider: "http",
		BaseURL:  srv.URL,
		Timeout:  2 * time.Second,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	return d
}

func TestHTTPDispatcher_Dispatch(t *testing.T) {
	d := newHTTPTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/dispatch", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req dispatchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "plan a lesson", req.Prompt)
		assert.Equal(t, "be calm", req.System)

		json.NewEncoder(w).Encode(dispatchResponse{Content: "Objective: learn fractions"})
	})

	content, err := d.Dispatch(context.Background(), "plan a lesson", "be calm")
	require.NoError(t, err)
	assert.Equal(t, "Objective: learn fractions", content)
	assert.Equal(t, "http", d.Provider())
}

func TestHTTPDispatcher_Dispatch_ErrorIncludesBody(t *testing.T) {
	d := newHTTPTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("model pool exhausted"))
	})

	_, err := d.Dispatch(context.Background(), "p", "s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.Contains(t, err.Error(), "model pool exhausted")
}

func TestHTTPDispatcher_Dispatch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	d, err := New(Config{
		Provider: "http",
		BaseURL:  srv.URL,
		Timeout:  50 * time.Millisecond,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), "p", "s")
	assert.Error(t, err)
}

func TestNew_ProviderSelection(t *testing.T) {
	t.Run("default is http", func(t *testing.T) {
		d, err := New(Config{BaseURL: "http://localhost:9"})
		require.NoError(t, err)
		assert.Equal(t, "http", d.Provider())
	})

	t.Run("http requires base URL", func(t *testing.T) {
		_, err := New(Config{Provider: "http"})
		assert.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(Config{Provider: "bedrock"})
		assert.Error(t, err)
	})
}
