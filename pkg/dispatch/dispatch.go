package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher sends a prompt and system instruction to a generative model
// and returns the generated text.
type Dispatcher interface {
	// Provider returns the backend name for logs and metrics.
	Provider() string

	// Dispatch performs the generation call. Implementations bound every
	// outbound call with the configured timeout; a timed-out call returns
	// an error like any other transport failure.
	Dispatch(ctx context.Context, prompt, system string) (string, error)
}

// Config selects and configures the dispatch backend.
type Config struct {
	// Provider is "http" (the internal dispatch service), "openai", or
	// "anthropic".
	Provider string

	// BaseURL and Path locate the internal dispatch service. Used only by
	// the http provider.
	BaseURL string
	Path    string

	// APIKey and Model configure the direct vendor providers.
	APIKey string
	Model  string

	Timeout time.Duration
	Logger  zerolog.Logger
}

// New creates a dispatcher for the configured provider.
func New(cfg Config) (Dispatcher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	switch cfg.Provider {
	case "", "http":
		return newHTTPDispatcher(cfg)
	case "openai":
		return newOpenAIDispatcher(cfg)
	case "anthropic":
		return newAnthropicDispatcher(cfg)
	default:
		return nil, fmt.Errorf("unknown dispatch provider: %s", cfg.Provider)
	}
}
