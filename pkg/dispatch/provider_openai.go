package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/harper/lumi/internal/observability"
)

// openaiDispatcher calls OpenAI directly instead of the internal dispatch
// service.
type openaiDispatcher struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  zerolog.Logger
}

func newOpenAIDispatcher(cfg Config) (*openaiDispatcher, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &openaiDispatcher{
		client:  openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   model,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}, nil
}

func (d *openaiDispatcher) Provider() string {
	return "openai"
}

func (d *openaiDispatcher) Dispatch(ctx context.Context, prompt, system string) (string, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessageParamUnion{}
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	response, err := d.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(d.model),
		Messages: messages,
	})
	if err != nil {
		observability.RecordDispatch(d.Provider(), time.Since(start), false)
		return "", err
	}

	if len(response.Choices) == 0 {
		observability.RecordDispatch(d.Provider(), time.Since(start), false)
		return "", fmt.Errorf("no response choices returned")
	}

	observability.RecordDispatch(d.Provider(), time.Since(start), true)
	return response.Choices[0].Message.Content, nil
}
