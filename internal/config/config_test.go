package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	FileEnv,
	"SERVER_ADDR", "SERVER_REQUEST_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT", "SERVER_MAX_BODY_BYTES", "VERSION",
	"CONDENSE_MAX_TEXT_LENGTH", "CONDENSE_MAX_CHUNK_SIZE", "CONDENSE_CHUNK_THRESHOLD",
	"MODEL_PROVIDER", "MODEL_NAME", "MODEL_BASE_URL", "MODEL_TOKENIZER",
	"ANTHROPIC_API_KEY", "OPENAI_API_KEY",
	"MODEL_CONTEXT_WINDOW", "MODEL_RESERVED_TOKENS", "MODEL_TEMPERATURE", "MODEL_TOP_P", "MODEL_TIMEOUT",
	"MODEL_RATE_LIMIT", "MODEL_RATE_BURST", "MODEL_RETRY_ATTEMPTS",
	"MODEL_CB_MAX_REQUESTS", "MODEL_CB_INTERVAL", "MODEL_CB_TIMEOUT", "MODEL_CB_FAILURE_THRESHOLD", "MODEL_CB_MIN_REQUESTS",
	"CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "LOG_FORMAT", "TRACING_ENABLED",
}

// clearEnv blanks every variable the loader reads; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "condense.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

/* ───────── LoadConfig ───────── */

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, 90*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "dev", cfg.Server.Version)

	assert.Equal(t, CondenseConfig{MaxTextLength: 800, MaxChunkSize: 400, ChunkThreshold: 4000}, cfg.Condense)

	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, "cl100k_base", cfg.Model.Tokenizer)
	assert.Equal(t, 2048, cfg.Model.ContextWindow)
	assert.Equal(t, 500, cfg.Model.ReservedTokens)
	assert.Equal(t, 0.7, cfg.Model.Temperature)
	assert.Equal(t, 0.95, cfg.Model.TopP)
	assert.Equal(t, 60*time.Second, cfg.Model.Timeout)
	assert.Equal(t, 2.0, cfg.Model.RateLimit)
	assert.Equal(t, 1, cfg.Model.RateBurst)
	assert.Equal(t, 3, cfg.Model.RetryAttempts)

	assert.Equal(t, uint32(3), cfg.CircuitBreaker.MaxRequests)
	assert.Equal(t, 0.6, cfg.CircuitBreaker.FailureThreshold)
	assert.Equal(t, uint32(5), cfg.CircuitBreaker.MinRequests)

	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
	assert.False(t, cfg.Observability.TracingEnabled)
}

func TestLoadConfig_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("CONDENSE_MAX_TEXT_LENGTH", "1200")
	t.Setenv("CONDENSE_CHUNK_THRESHOLD", "6000")
	t.Setenv("MODEL_PROVIDER", "Claude")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("MODEL_TIMEOUT", "45s")
	t.Setenv("MODEL_TEMPERATURE", "0.2")
	t.Setenv("MODEL_CB_TIMEOUT", "2m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 1200, cfg.Condense.MaxTextLength)
	assert.Equal(t, 6000, cfg.Condense.ChunkThreshold)
	assert.Equal(t, "claude", cfg.Model.Provider)
	assert.Equal(t, "sk-ant-test", cfg.Model.APIKey())
	assert.Equal(t, 45*time.Second, cfg.Model.Timeout)
	assert.Equal(t, 0.2, cfg.Model.Temperature)
	assert.Equal(t, 2*time.Minute, cfg.CircuitBreaker.Timeout)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Observability.TracingEnabled)
}

func TestLoadConfig_UnparsableValuesKeepDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONDENSE_MAX_CHUNK_SIZE", "lots")
	t.Setenv("MODEL_TIMEOUT", "soon")
	t.Setenv("TRACING_ENABLED", "maybe")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 400, cfg.Condense.MaxChunkSize)
	assert.Equal(t, 60*time.Second, cfg.Model.Timeout)
	assert.False(t, cfg.Observability.TracingEnabled)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "zero budget", key: "CONDENSE_MAX_TEXT_LENGTH", value: "0", wantErr: "CONDENSE_MAX_TEXT_LENGTH"},
		{name: "negative chunk size", key: "CONDENSE_MAX_CHUNK_SIZE", value: "-1", wantErr: "CONDENSE_MAX_CHUNK_SIZE"},
		{name: "unknown provider", key: "MODEL_PROVIDER", value: "llama", wantErr: "MODEL_PROVIDER"},
		{name: "reserved exceeds window", key: "MODEL_RESERVED_TOKENS", value: "4096", wantErr: "MODEL_RESERVED_TOKENS"},
		{name: "negative rate", key: "MODEL_RATE_LIMIT", value: "-1", wantErr: "MODEL_RATE_LIMIT"},
		{name: "threshold above one", key: "MODEL_CB_FAILURE_THRESHOLD", value: "1.5", wantErr: "MODEL_CB_FAILURE_THRESHOLD"},
		{name: "bad log format", key: "LOG_FORMAT", value: "xml", wantErr: "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := LoadConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

/* ───────── YAML overlay ───────── */

func TestLoadConfig_FileOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv(FileEnv, writeFile(t, `
condense:
  max_text_length: 1500
  chunk_threshold: 8000
model:
  provider: noop
  timeout: 30s
  temperature: 0.3
cors:
  allowed_origins:
    - https://app.example.com
`))
	t.Setenv("CONDENSE_CHUNK_THRESHOLD", "9000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 1500, cfg.Condense.MaxTextLength)
	assert.Equal(t, 400, cfg.Condense.MaxChunkSize, "absent keys keep defaults")
	assert.Equal(t, 9000, cfg.Condense.ChunkThreshold, "environment wins over the file")
	assert.Equal(t, "noop", cfg.Model.Provider)
	assert.Equal(t, 30*time.Second, cfg.Model.Timeout)
	assert.Equal(t, 0.3, cfg.Model.Temperature)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfig_FileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(FileEnv, filepath.Join(t.TempDir(), "absent.yaml"))

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("malformed YAML", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(FileEnv, writeFile(t, "condense: [unclosed"))

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestLoadFile_IgnoresSecrets(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.LoadFile(writeFile(t, "model:\n  openai_api_key: sk-from-file\n")))

	assert.Empty(t, cfg.Model.OpenAIAPIKey)
}

/* ───────── ModelConfig ───────── */

func TestModelConfig_APIKey(t *testing.T) {
	m := ModelConfig{AnthropicAPIKey: "ant", OpenAIAPIKey: "oai"}

	m.Provider = "claude"
	assert.Equal(t, "ant", m.APIKey())
	m.Provider = "openai"
	assert.Equal(t, "oai", m.APIKey())
	m.Provider = "noop"
	assert.Empty(t, m.APIKey())
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
