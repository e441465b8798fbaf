package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when Config.Model is empty.
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAI implements Processor using the Chat Completions API. With Config.BaseURL
// set it talks to any OpenAI-compatible server, such as a local llama.cpp instance.
type OpenAI struct {
	client *openai.Client
	model  string
	*runner
}

// NewOpenAI creates an OpenAI processor.
func NewOpenAI(cfg Config, opts ...Option) *OpenAI {
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	breakerName := ProviderOpenAI
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
		breakerName = "local"
	}

	slog.Info("initialized openai model",
		slog.String("model", model),
		slog.String("base_url", clientCfg.BaseURL),
		slog.Int("context_window", cfg.ContextWindow))

	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		runner: newRunner(ProviderOpenAI, breakerName, cfg, opts),
	}
}

// Name implements Processor.
func (o *OpenAI) Name() string { return ProviderOpenAI }

// Process implements Processor.
func (o *OpenAI) Process(ctx context.Context, action Action, input string) (string, error) {
	return o.run(ctx, action, input, o.complete)
}

// complete sends the prompt without prefill; the chat API has no assistant
// priming, so fenced answers are unwrapped by the runner instead.
func (o *OpenAI) complete(ctx context.Context, p Prompt) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
		MaxTokens:   p.MaxTokens,
		Temperature: float32(o.config.Temperature),
		TopP:        float32(o.config.TopP),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai api error: %w", statusError(apiErr.HTTPStatusCode, err))
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", fmt.Errorf("openai api error: %w", statusError(reqErr.HTTPStatusCode, err))
		}
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
