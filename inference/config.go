package inference

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default model identifiers and tuning values, mirroring the marketplace's
// production configuration.
const (
	DefaultEndpoint            = "https://api-inference.huggingface.co/models/"
	DefaultTextModel           = "mistralai/Mixtral-8x7B-Instruct-v0.1"
	DefaultChatModel           = "meta-llama/Meta-Llama-3-8B-Instruct"
	DefaultEmbeddingModel      = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultSentimentModel      = "cardiffnlp/twitter-roberta-base-sentiment-latest"
	DefaultClassificationModel = "facebook/bart-large-mnli"

	DefaultTemperature    = 0.7
	DefaultMaxTokens      = 1024
	DefaultTopP           = 0.9
	DefaultRateLimitDelay = 100 * time.Millisecond
	DefaultMaxRetries     = 3
)

// Config is the explicit configuration for an inference Client. It is
// constructed once at process start and passed by reference into NewClient;
// there is no package-level configuration state.
type Config struct {
	// APIKey is the bearer credential sent with every request. Invoke fails
	// with a ConfigurationError when it is empty.
	APIKey string `yaml:"api_key"`

	// Endpoint is the base URL of the inference service. A trailing slash is
	// appended if missing.
	Endpoint string `yaml:"endpoint"`

	TextModel           string `yaml:"text_model"`
	ChatModel           string `yaml:"chat_model"`
	EmbeddingModel      string `yaml:"embedding_model"`
	SentimentModel      string `yaml:"sentiment_model"`
	ClassificationModel string `yaml:"classification_model"`

	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TopP        float64 `yaml:"top_p"`

	// RateLimitDelay is the minimum spacing between call starts.
	RateLimitDelay time.Duration `yaml:"rate_limit_delay"`

	// MaxRetries bounds transport retries per call.
	MaxRetries int `yaml:"max_retries"`

	// RetryBaseDelay is the linear backoff base; zero selects the default.
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
}

// DefaultConfig returns the baseline configuration without a credential.
func DefaultConfig() Config {
	return Config{
		Endpoint:            DefaultEndpoint,
		TextModel:           DefaultTextModel,
		ChatModel:           DefaultChatModel,
		EmbeddingModel:      DefaultEmbeddingModel,
		SentimentModel:      DefaultSentimentModel,
		ClassificationModel: DefaultClassificationModel,
		Temperature:         DefaultTemperature,
		MaxTokens:           DefaultMaxTokens,
		TopP:                DefaultTopP,
		RateLimitDelay:      DefaultRateLimitDelay,
		MaxRetries:          DefaultMaxRetries,
		RetryBaseDelay:      DefaultRetryBaseDelay,
	}
}

// FromEnv builds a Config from the process environment, using the
// marketplace's variable names. Unset variables fall back to defaults;
// malformed numeric values are ignored in favor of the default.
func FromEnv() Config {
	cfg := DefaultConfig()

	cfg.APIKey = strings.TrimSpace(os.Getenv("HUGGINGFACE_API_KEY"))
	if v := os.Getenv("HF_INFERENCE_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("HF_LLM_MODEL"); v != "" {
		cfg.TextModel = v
	}
	if v := os.Getenv("HF_CHAT_MODEL"); v != "" {
		cfg.ChatModel = v
	}
	if v := os.Getenv("HF_EMBEDDING_MODEL"); v != "" {
		cfg.EmbeddingModel = v
	}
	if v := os.Getenv("HF_SENTIMENT_MODEL"); v != "" {
		cfg.SentimentModel = v
	}
	if v := os.Getenv("HF_CLASSIFICATION_MODEL"); v != "" {
		cfg.ClassificationModel = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("AI_TEMPERATURE"), 64); err == nil {
		cfg.Temperature = v
	}
	if v, err := strconv.Atoi(os.Getenv("AI_MAX_TOKENS")); err == nil {
		cfg.MaxTokens = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("AI_TOP_P"), 64); err == nil {
		cfg.TopP = v
	}
	if v, err := strconv.Atoi(os.Getenv("HF_RATE_LIMIT_DELAY")); err == nil && v >= 0 {
		cfg.RateLimitDelay = time.Duration(v) * time.Millisecond
	}
	if v, err := strconv.Atoi(os.Getenv("HF_MAX_RETRIES")); err == nil && v >= 0 {
		cfg.MaxRetries = v
	}

	return cfg
}

// LoadFile reads a YAML configuration file on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Configured reports whether a credential is present.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Validate checks value ranges. It does not require a credential so that
// configuration can be assembled before secrets are injected; Invoke
// enforces the credential at call time.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %v", c.Temperature)
	}
	if c.MaxTokens < 1 || c.MaxTokens > 8192 {
		return fmt.Errorf("max_tokens must be in [1, 8192], got %d", c.MaxTokens)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("top_p must be in [0, 1], got %v", c.TopP)
	}
	if c.RateLimitDelay < 0 {
		return fmt.Errorf("rate_limit_delay must not be negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	return nil
}

// baseURL returns the endpoint with a guaranteed trailing slash.
func (c Config) baseURL() string {
	if strings.HasSuffix(c.Endpoint, "/") {
		return c.Endpoint
	}
	return c.Endpoint + "/"
}
