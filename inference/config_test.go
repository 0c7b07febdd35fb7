package inference

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Configured())
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultTextModel, cfg.TextModel)
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HUGGINGFACE_API_KEY", "  secret  ")
	t.Setenv("HF_LLM_MODEL", "org/custom-llm")
	t.Setenv("AI_TEMPERATURE", "0.2")
	t.Setenv("HF_RATE_LIMIT_DELAY", "250")
	t.Setenv("HF_MAX_RETRIES", "5")

	cfg := FromEnv()
	assert.Equal(t, "secret", cfg.APIKey)
	assert.True(t, cfg.Configured())
	assert.Equal(t, "org/custom-llm", cfg.TextModel)
	assert.InDelta(t, 0.2, cfg.Temperature, 1e-9)
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimitDelay)
	assert.Equal(t, 5, cfg.MaxRetries)
}

func TestFromEnv_MalformedNumbersKeepDefaults(t *testing.T) {
	t.Setenv("AI_MAX_TOKENS", "not-a-number")
	t.Setenv("HF_MAX_RETRIES", "-1")

	cfg := FromEnv()
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopmesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_key: from-file
text_model: org/yaml-model
max_retries: 1
`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "org/yaml-model", cfg.TextModel)
	assert.Equal(t, 1, cfg.MaxRetries)
	// untouched fields keep defaults
	assert.Equal(t, DefaultEmbeddingModel, cfg.EmbeddingModel)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid defaults", func(c *Config) {}, true},
		{"empty endpoint", func(c *Config) { c.Endpoint = "" }, false},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, false},
		{"max tokens zero", func(c *Config) { c.MaxTokens = 0 }, false},
		{"max tokens too high", func(c *Config) { c.MaxTokens = 9000 }, false},
		{"top_p above one", func(c *Config) { c.TopP = 1.1 }, false},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}
