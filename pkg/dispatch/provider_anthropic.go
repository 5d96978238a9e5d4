package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/harper/lumi/internal/observability"
)

// anthropicDispatcher calls Anthropic Claude directly instead of the
// internal dispatch service.
type anthropicDispatcher struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
	logger  zerolog.Logger
}

func newAnthropicDispatcher(cfg Config) (*anthropicDispatcher, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = "claude-3-5-haiku-20241022"
	}

	return &anthropicDispatcher{
		client:  anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   model,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}, nil
}

func (d *anthropicDispatcher) Provider() string {
	return "anthropic"
}

func (d *anthropicDispatcher) Dispatch(ctx context.Context, prompt, system string) (string, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(d.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	response, err := d.client.Messages.New(ctx, params)
	if err != nil {
		observability.RecordDispatch(d.Provider(), time.Since(start), false)
		return "", err
	}

	content := ""
	for _, block := range response.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			content += text.Text
		}
	}
	if content == "" {
		observability.RecordDispatch(d.Provider(), time.Since(start), false)
		return "", fmt.Errorf("no text content returned")
	}

	observability.RecordDispatch(d.Provider(), time.Since(start), true)
	return content, nil
}
