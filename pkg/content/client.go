package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/harper/lumi/internal/identity"
)

// ApprovedContent is a curated, reviewed lesson resource for a subject and
// region.
type ApprovedContent struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Region  string `json:"region"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}

// Client looks up approved content over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// ClientConfig holds content client configuration
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// NewClient creates a new approved-content client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("content service base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     cfg.Logger,
	}, nil
}

// Lookup returns curated content for the subject and region, or (nil, nil)
// when none exists. Transport failures are returned as errors; callers in
// the fallback chain treat them the same as not-found.
func (c *Client) Lookup(ctx context.Context, tenantID, subject, region string) (*ApprovedContent, error) {
	q := url.Values{}
	q.Set("subject", subject)
	q.Set("region", region)
	endpoint := fmt.Sprintf("%s/approved-content?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build content lookup request: %w", err)
	}
	if err := identity.Attach(req, identity.SystemActor(tenantID)); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content lookup returned status %d", resp.StatusCode)
	}

	var results []ApprovedContent
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode content lookup response: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	c.logger.Debug().
		Str("subject", subject).
		Str("region", region).
		Str("content_id", results[0].ID).
		Msg("Approved content found")

	return &results[0], nil
}
