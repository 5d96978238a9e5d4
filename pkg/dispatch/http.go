package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/harper/lumi/internal/observability"
)

// dispatchRequest is the wire format of the internal dispatch service.
type dispatchRequest struct {
	Prompt string `json:"prompt"`
	System string `json:"system"`
}

type dispatchResponse struct {
	Content string `json:"content"`
}

// httpDispatcher calls the internal model-dispatch service.
type httpDispatcher struct {
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger
}

func newHTTPDispatcher(cfg Config) (*httpDispatcher, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("dispatch base URL is required")
	}
	path := cfg.Path
	if path == "" {
		path = "/v1/dispatch"
	}

	return &httpDispatcher{
		endpoint:   cfg.BaseURL + path,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     cfg.Logger,
	}, nil
}

func (d *httpDispatcher) Provider() string {
	return "http"
}

// Dispatch posts {prompt, system} and expects {content}. Non-2xx responses
// include the response body in the error for diagnosability.
func (d *httpDispatcher) Dispatch(ctx context.Context, prompt, system string) (string, error) {
	start := time.Now()

	payload, err := json.Marshal(dispatchRequest{Prompt: prompt, System: system})
	if err != nil {
		return "", fmt.Errorf("failed to encode dispatch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		observability.RecordDispatch(d.Provider(), time.Since(start), false)
		return "", fmt.Errorf("dispatch request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.RecordDispatch(d.Provider(), time.Since(start), false)
		return "", fmt.Errorf("failed to read dispatch response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observability.RecordDispatch(d.Provider(), time.Since(start), false)
		return "", fmt.Errorf("dispatch returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed dispatchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		observability.RecordDispatch(d.Provider(), time.Since(start), false)
		return "", fmt.Errorf("failed to decode dispatch response: %w", err)
	}

	observability.RecordDispatch(d.Provider(), time.Since(start), true)
	d.logger.Debug().
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Int("content_len", len(parsed.Content)).
		Msg("Model dispatch completed")

	return parsed.Content, nil
}
