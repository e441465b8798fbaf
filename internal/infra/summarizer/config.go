package summarizer

import (
	"errors"
	"fmt"
	"time"
)

// Provider names accepted by New.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderNoOp   = "noop"
)

var (
	// ErrUnknownProvider is returned by New for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown model provider")
	// ErrMissingAPIKey is returned when a hosted provider has no credentials.
	ErrMissingAPIKey = errors.New("missing api key")
)

// Config holds the model settings shared by every provider.
type Config struct {
	// Model is the provider's model identifier. Empty selects the provider default.
	Model string

	// BaseURL overrides the provider endpoint, e.g. a local OpenAI-compatible server.
	BaseURL string

	// APIKey authenticates against the provider.
	APIKey string

	// ContextWindow is the model's prompt window in tokens.
	ContextWindow int

	// ReservedTokens is kept free in the window for the generated answer.
	ReservedTokens int

	Temperature float64
	TopP        float64

	// Timeout bounds a single Process call, retries included.
	Timeout time.Duration
}

// DefaultConfig returns the generation settings used by the service.
func DefaultConfig() Config {
	return Config{
		ContextWindow:  2048,
		ReservedTokens: 500,
		Temperature:    0.7,
		TopP:           0.95,
		Timeout:        60 * time.Second,
	}
}

// PromptLimit is the number of tokens a prompt may use.
func (c Config) PromptLimit() int {
	return c.ContextWindow - c.ReservedTokens
}

// Validate checks the configuration and returns an error if it is unusable.
func (c Config) Validate() error {
	if c.ContextWindow <= 0 {
		return fmt.Errorf("context window must be positive, got %d", c.ContextWindow)
	}
	if c.ReservedTokens < 0 || c.ReservedTokens >= c.ContextWindow {
		return fmt.Errorf("reserved tokens must be in [0, %d), got %d", c.ContextWindow, c.ReservedTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %v", c.Temperature)
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return fmt.Errorf("top_p must be in (0, 1], got %v", c.TopP)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}
