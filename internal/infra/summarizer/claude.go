package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultClaudeModel is used when Config.Model is empty.
const DefaultClaudeModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// Claude implements Processor using Anthropic's Messages API.
type Claude struct {
	client anthropic.Client
	model  string
	*runner
}

// NewClaude creates a Claude processor. Retries are handled by the runner, so
// the SDK's own retries are disabled.
func NewClaude(cfg Config, opts ...Option) *Claude {
	model := cfg.Model
	if model == "" {
		model = DefaultClaudeModel
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}

	slog.Info("initialized claude model",
		slog.String("model", model),
		slog.Int("context_window", cfg.ContextWindow))

	return &Claude{
		client: anthropic.NewClient(clientOpts...),
		model:  model,
		runner: newRunner(ProviderClaude, ProviderClaude, cfg, opts),
	}
}

// Name implements Processor.
func (c *Claude) Name() string { return ProviderClaude }

// Process implements Processor.
func (c *Claude) Process(ctx context.Context, action Action, input string) (string, error) {
	return c.run(ctx, action, input, c.complete)
}

func (c *Claude) complete(ctx context.Context, p Prompt) (string, error) {
	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(p.User)),
	}
	if p.Prefill != "" {
		messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(p.Prefill)))
	}

	// Recent Claude models reject temperature and top_p together; temperature wins.
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:         anthropic.Model(c.model),
		MaxTokens:     int64(p.MaxTokens),
		System:        []anthropic.TextBlockParam{{Text: p.System}},
		Messages:      messages,
		Temperature:   anthropic.Float(c.config.Temperature),
		StopSequences: p.Stop,
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("claude api error: %w", statusError(apiErr.StatusCode, err))
		}
		return "", fmt.Errorf("claude api error: %w", err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String(), nil
}
