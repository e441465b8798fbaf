// Package config loads the service configuration from defaults, an optional
// YAML file and environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable pointing at the YAML overlay.
const FileEnv = "CONDENSE_CONFIG_FILE"

// Config holds the whole service configuration.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Condense       CondenseConfig       `yaml:"condense"`
	Model          ModelConfig          `yaml:"model"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	CORS           CORSConfig           `yaml:"cors"`
	Observability  ObservabilityConfig  `yaml:"observability"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8000"
	Addr string `yaml:"addr"`
	// RequestTimeout bounds a whole request. It should exceed Model.Timeout. Default: 90s
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// ShutdownTimeout is the grace period for in-flight requests. Default: 5s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// MaxBodyBytes bounds request bodies. Default: 1 MiB
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
	// Version is reported by /health.
	Version string `yaml:"-"`
}

// CondenseConfig holds the reduction settings.
type CondenseConfig struct {
	// MaxTextLength is the truncate-mode budget in runes. Default: 800
	MaxTextLength int `yaml:"max_text_length"`
	// MaxChunkSize bounds each chunk in chunk mode. Default: 400
	MaxChunkSize int `yaml:"max_chunk_size"`
	// ChunkThreshold is the length above which auto mode chunks. Default: 4000
	ChunkThreshold int `yaml:"chunk_threshold"`
}

// ModelConfig selects and tunes the model provider.
type ModelConfig struct {
	// Provider is "claude", "openai" or "noop". Default: "openai"
	Provider string `yaml:"provider"`
	// Name is the model id; empty selects the provider default.
	Name string `yaml:"name"`
	// BaseURL points the OpenAI client at a compatible server, e.g. llama.cpp.
	BaseURL string `yaml:"base_url"`
	// Tokenizer is the tiktoken encoding or model used to count prompt tokens.
	// Default: "cl100k_base"
	Tokenizer string `yaml:"tokenizer"`

	AnthropicAPIKey string `yaml:"-"`
	OpenAIAPIKey    string `yaml:"-"`

	ContextWindow  int           `yaml:"context_window"`
	ReservedTokens int           `yaml:"reserved_tokens"`
	Temperature    float64       `yaml:"temperature"`
	TopP           float64       `yaml:"top_p"`
	Timeout        time.Duration `yaml:"timeout"`

	// RateLimit is the request rate to the provider per second; 0 disables it.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
	// RetryAttempts is the total number of attempts per call. Default: 3
	RetryAttempts int `yaml:"retry_attempts"`
}

// APIKey returns the credential for the configured provider.
func (m ModelConfig) APIKey() string {
	switch strings.ToLower(m.Provider) {
	case "claude":
		return m.AnthropicAPIKey
	case "openai":
		return m.OpenAIAPIKey
	default:
		return ""
	}
}

// CircuitBreakerConfig guards model calls.
type CircuitBreakerConfig struct {
	// MaxRequests in half-open state.
	MaxRequests uint32 `yaml:"max_requests"`
	// Interval for clearing failure counts.
	Interval time.Duration `yaml:"interval"`
	// Timeout before moving from open to half-open.
	Timeout time.Duration `yaml:"timeout"`
	// FailureThreshold ratio that trips the circuit (0.0 to 1.0).
	FailureThreshold float64 `yaml:"failure_threshold"`
	// MinRequests before the failure ratio is considered.
	MinRequests uint32 `yaml:"min_requests"`
}

// CORSConfig configures cross-origin access.
type CORSConfig struct {
	// AllowedOrigins is a whitelist, or ["*"]. Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds logging and tracing settings.
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	TracingEnabled bool   `yaml:"tracing_enabled"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			RequestTimeout:  90 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
			Version:         "dev",
		},
		Condense: CondenseConfig{
			MaxTextLength:  800,
			MaxChunkSize:   400,
			ChunkThreshold: 4000,
		},
		Model: ModelConfig{
			Provider:       "openai",
			Tokenizer:      "cl100k_base",
			ContextWindow:  2048,
			ReservedTokens: 500,
			Temperature:    0.7,
			TopP:           0.95,
			Timeout:        60 * time.Second,
			RateLimit:      2,
			RateBurst:      1,
			RetryAttempts:  3,
		},
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:      3,
			Interval:         30 * time.Second,
			Timeout:          60 * time.Second,
			FailureThreshold: 0.6,
			MinRequests:      5,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
	}
}

// LoadConfig builds the configuration from defaults, the YAML file named by
// CONDENSE_CONFIG_FILE if set, and the environment.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFile overlays the YAML document at path onto c. Keys absent from the
// document keep their current values.
func (c *Config) LoadFile(path string) error {
	// #nosec G304 -- path comes from the operator's environment
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides c with any environment variable that is set.
func (c *Config) applyEnv() {
	c.Server.Addr = getEnvOrDefault("SERVER_ADDR", c.Server.Addr)
	c.Server.RequestTimeout = getEnvDuration("SERVER_REQUEST_TIMEOUT", c.Server.RequestTimeout)
	c.Server.ShutdownTimeout = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.MaxBodyBytes = int64(getEnvInt("SERVER_MAX_BODY_BYTES", int(c.Server.MaxBodyBytes)))
	c.Server.Version = getEnvOrDefault("VERSION", c.Server.Version)

	c.Condense.MaxTextLength = getEnvInt("CONDENSE_MAX_TEXT_LENGTH", c.Condense.MaxTextLength)
	c.Condense.MaxChunkSize = getEnvInt("CONDENSE_MAX_CHUNK_SIZE", c.Condense.MaxChunkSize)
	c.Condense.ChunkThreshold = getEnvInt("CONDENSE_CHUNK_THRESHOLD", c.Condense.ChunkThreshold)

	c.Model.Provider = strings.ToLower(getEnvOrDefault("MODEL_PROVIDER", c.Model.Provider))
	c.Model.Name = getEnvOrDefault("MODEL_NAME", c.Model.Name)
	c.Model.BaseURL = getEnvOrDefault("MODEL_BASE_URL", c.Model.BaseURL)
	c.Model.Tokenizer = getEnvOrDefault("MODEL_TOKENIZER", c.Model.Tokenizer)
	c.Model.AnthropicAPIKey = getEnvOrDefault("ANTHROPIC_API_KEY", c.Model.AnthropicAPIKey)
	c.Model.OpenAIAPIKey = getEnvOrDefault("OPENAI_API_KEY", c.Model.OpenAIAPIKey)
	c.Model.ContextWindow = getEnvInt("MODEL_CONTEXT_WINDOW", c.Model.ContextWindow)
	c.Model.ReservedTokens = getEnvInt("MODEL_RESERVED_TOKENS", c.Model.ReservedTokens)
	c.Model.Temperature = getEnvFloat("MODEL_TEMPERATURE", c.Model.Temperature)
	c.Model.TopP = getEnvFloat("MODEL_TOP_P", c.Model.TopP)
	c.Model.Timeout = getEnvDuration("MODEL_TIMEOUT", c.Model.Timeout)
	c.Model.RateLimit = getEnvFloat("MODEL_RATE_LIMIT", c.Model.RateLimit)
	c.Model.RateBurst = getEnvInt("MODEL_RATE_BURST", c.Model.RateBurst)
	c.Model.RetryAttempts = getEnvInt("MODEL_RETRY_ATTEMPTS", c.Model.RetryAttempts)

	c.CircuitBreaker.MaxRequests = uint32(getEnvInt("MODEL_CB_MAX_REQUESTS", int(c.CircuitBreaker.MaxRequests))) // #nosec G115 -- validated below
	c.CircuitBreaker.Interval = getEnvDuration("MODEL_CB_INTERVAL", c.CircuitBreaker.Interval)
	c.CircuitBreaker.Timeout = getEnvDuration("MODEL_CB_TIMEOUT", c.CircuitBreaker.Timeout)
	c.CircuitBreaker.FailureThreshold = getEnvFloat("MODEL_CB_FAILURE_THRESHOLD", c.CircuitBreaker.FailureThreshold)
	c.CircuitBreaker.MinRequests = uint32(getEnvInt("MODEL_CB_MIN_REQUESTS", int(c.CircuitBreaker.MinRequests))) // #nosec G115 -- validated below

	c.CORS.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)

	c.Observability.LogLevel = getEnvOrDefault("LOG_LEVEL", c.Observability.LogLevel)
	c.Observability.LogFormat = getEnvOrDefault("LOG_FORMAT", c.Observability.LogFormat)
	c.Observability.TracingEnabled = getEnvBool("TRACING_ENABLED", c.Observability.TracingEnabled)
}

// Validate checks configuration correctness.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("SERVER_ADDR cannot be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("SERVER_REQUEST_TIMEOUT cannot be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("SERVER_MAX_BODY_BYTES must be positive")
	}

	if c.Condense.MaxTextLength <= 0 {
		return fmt.Errorf("CONDENSE_MAX_TEXT_LENGTH must be positive")
	}
	if c.Condense.MaxChunkSize <= 0 {
		return fmt.Errorf("CONDENSE_MAX_CHUNK_SIZE must be positive")
	}
	if c.Condense.ChunkThreshold <= 0 {
		return fmt.Errorf("CONDENSE_CHUNK_THRESHOLD must be positive")
	}

	switch c.Model.Provider {
	case "claude", "openai", "noop":
	default:
		return fmt.Errorf("MODEL_PROVIDER must be one of claude, openai, noop; got %q", c.Model.Provider)
	}
	if c.Model.ContextWindow <= 0 {
		return fmt.Errorf("MODEL_CONTEXT_WINDOW must be positive")
	}
	if c.Model.ReservedTokens < 0 || c.Model.ReservedTokens >= c.Model.ContextWindow {
		return fmt.Errorf("MODEL_RESERVED_TOKENS must be between 0 and MODEL_CONTEXT_WINDOW")
	}
	if c.Model.Timeout <= 0 {
		return fmt.Errorf("MODEL_TIMEOUT must be positive")
	}
	if c.Model.RateLimit < 0 {
		return fmt.Errorf("MODEL_RATE_LIMIT cannot be negative")
	}
	if c.Model.RetryAttempts < 1 {
		return fmt.Errorf("MODEL_RETRY_ATTEMPTS must be at least 1")
	}

	if c.CircuitBreaker.MaxRequests == 0 {
		return fmt.Errorf("MODEL_CB_MAX_REQUESTS must be positive")
	}
	if c.CircuitBreaker.Interval <= 0 {
		return fmt.Errorf("MODEL_CB_INTERVAL must be positive")
	}
	if c.CircuitBreaker.Timeout <= 0 {
		return fmt.Errorf("MODEL_CB_TIMEOUT must be positive")
	}
	if c.CircuitBreaker.FailureThreshold <= 0 || c.CircuitBreaker.FailureThreshold > 1 {
		return fmt.Errorf("MODEL_CB_FAILURE_THRESHOLD must be in (0, 1]")
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}

	switch c.Observability.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text; got %q", c.Observability.LogFormat)
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool parses boolean environment variable with default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt parses integer environment variable with default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat parses float environment variable with default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration parses duration environment variable with default.
// Supports formats like "30s", "1m", "2h".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated environment variable, dropping blanks.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
