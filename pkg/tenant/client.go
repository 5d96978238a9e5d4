package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/harper/lumi/internal/identity"
)

// Config is a tenant's curriculum configuration.
type Config struct {
	TenantID  string       `json:"tenant_id"`
	Curricula []Curriculum `json:"curricula"`
}

// Curriculum labels a subject grouping within a tenant's configuration.
type Curriculum struct {
	Label    string   `json:"label"`
	Subjects []string `json:"subjects"`
}

// UnknownCurriculumLabel is used when no tenant configuration is available.
const UnknownCurriculumLabel = "Unknown curriculum"

// CurriculumLabelFor resolves a curriculum label for a subject: the first
// curriculum whose subject list contains it, else the tenant's first
// curriculum, else the unknown label. Safe on a nil config.
func (c *Config) CurriculumLabelFor(subject string) string {
	if c == nil || len(c.Curricula) == 0 {
		return UnknownCurriculumLabel
	}
	for _, cur := range c.Curricula {
		for _, s := range cur.Subjects {
			if s == subject {
				return cur.Label
			}
		}
	}
	return c.Curricula[0].Label
}

// Client fetches tenant configuration over HTTP with a small TTL cache.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
	cacheTTL   time.Duration

	mu    sync.RWMutex
	cache map[string]cachedConfig
}

type cachedConfig struct {
	config    *Config
	fetchedAt time.Time
}

// ClientConfig holds tenant client configuration
type ClientConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
	Logger   zerolog.Logger
}

// NewClient creates a new tenant-configuration client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("tenant service base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     cfg.Logger,
		cacheTTL:   cfg.CacheTTL,
		cache:      make(map[string]cachedConfig),
	}, nil
}

// GetConfig returns the tenant's curriculum configuration, or (nil, nil)
// when the tenant has none. 404 and other non-2xx responses are treated as
// "no config", never as an error.
func (c *Client) GetConfig(ctx context.Context, tenantID string) (*Config, error) {
	c.mu.RLock()
	if entry, ok := c.cache[tenantID]; ok && time.Since(entry.fetchedAt) < c.cacheTTL {
		c.mu.RUnlock()
		return entry.config, nil
	}
	c.mu.RUnlock()

	cfg, err := c.fetch(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[tenantID] = cachedConfig{config: cfg, fetchedAt: time.Now()}
	c.mu.Unlock()

	return cfg, nil
}

func (c *Client) fetch(ctx context.Context, tenantID string) (*Config, error) {
	endpoint := fmt.Sprintf("%s/tenants/%s/config", c.baseURL, url.PathEscape(tenantID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tenant config request: %w", err)
	}
	if err := identity.Attach(req, identity.SystemActor(tenantID)); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tenant config request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug().
			Str("tenant_id", tenantID).
			Int("status", resp.StatusCode).
			Msg("No tenant configuration available")
		return nil, nil
	}

	var cfg Config
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode tenant config: %w", err)
	}
	return &cfg, nil
}

// RefreshCache re-fetches every cached tenant's configuration. Used by the
// daemon's scheduled refresh so long-lived caches do not go stale.
func (c *Client) RefreshCache(ctx context.Context) {
	c.mu.RLock()
	tenantIDs := make([]string, 0, len(c.cache))
	for id := range c.cache {
		tenantIDs = append(tenantIDs, id)
	}
	c.mu.RUnlock()

	for _, id := range tenantIDs {
		cfg, err := c.fetch(ctx, id)
		if err != nil {
			c.logger.Warn().Err(err).Str("tenant_id", id).Msg("Tenant cache refresh failed")
			continue
		}
		c.mu.Lock()
		c.cache[id] = cachedConfig{config: cfg, fetchedAt: time.Now()}
		c.mu.Unlock()
	}

	c.logger.Debug().Int("tenants", len(tenantIDs)).Msg("Tenant cache refresh complete")
}
