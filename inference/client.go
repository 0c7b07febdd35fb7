package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/shopmesh/internal/util"
	"github.com/hupe1980/shopmesh/logging"
)

// DefaultCacheTTL applies when caching is requested without an explicit TTL.
const DefaultCacheTTL = 5 * time.Minute

// InvokeOptions controls caching for a single Invoke call.
type InvokeOptions struct {
	// Cache enables the response cache for this call. A hit bypasses rate
	// limiting and network I/O entirely.
	Cache bool
	// CacheTTL overrides DefaultCacheTTL when positive.
	CacheTTL time.Duration
}

// Options holds dependency overrides passed to NewClient.
type Options struct {
	// HTTPClient overrides the transport. The zero value uses
	// http.DefaultClient; supply a client with a timeout to bound calls.
	HTTPClient *http.Client
	// Logger receives structured diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
	// Registerer receives the client's Prometheus metrics. Nil leaves the
	// metrics unregistered.
	Registerer prometheus.Registerer
}

// Client composes the cache, rate limiter, retry controller and HTTP
// boundary into a single invoke operation. The cache and limiter are owned
// by the client and shared across all calls made through it.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cache      *Cache[json.RawMessage]
	limiter    *RateLimiter
	logger     logging.Logger
	metrics    *metrics
}

// NewClient constructs a Client for the given configuration.
func NewClient(cfg Config, optFns ...func(o *Options)) *Client {
	opts := Options{
		HTTPClient: http.DefaultClient,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Client{
		cfg:        cfg,
		httpClient: opts.HTTPClient,
		cache:      NewCache[json.RawMessage](),
		limiter:    NewRateLimiter(cfg.RateLimitDelay),
		logger:     opts.Logger,
		metrics:    newMetrics(opts.Registerer),
	}
}

// Config returns the client's configuration snapshot.
func (c *Client) Config() Config { return c.cfg }

// CacheKey computes the deterministic cache key for a (model, payload) pair.
// The payload is serialized canonically so identical payloads key
// identically regardless of how their fields were ordered.
func CacheKey(modelID string, payload any) (string, error) {
	serialized, err := util.CanonicalJSON(payload)
	if err != nil {
		return "", err
	}
	return modelID + ":" + serialized, nil
}

// Invoke posts payload to the model endpoint and returns the raw JSON
// response.
//
// Order of operations: credential check, cache lookup (when requested),
// rate limiter, retry controller around the transport call, JSON validity
// check, cache store (when requested). A non-2xx response yields a
// RequestError carrying the status and the raw body text; an invalid JSON
// body yields a ResponseError after retries have concluded.
func (c *Client) Invoke(ctx context.Context, modelID string, payload any, opts InvokeOptions) (json.RawMessage, error) {
	if !c.cfg.Configured() {
		return nil, NewConfigurationError("api key is required to call the inference endpoint")
	}

	cacheTTL := opts.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}

	var key string
	if opts.Cache {
		var err error
		key, err = CacheKey(modelID, payload)
		if err != nil {
			return nil, NewServiceError(fmt.Sprintf("failed to build cache key: %v", err))
		}
		if cached, ok := c.cache.Get(key); ok {
			c.metrics.cacheHits.WithLabelValues(modelID).Inc()
			c.logger.Debug("inference cache hit", "model", modelID)
			return cached, nil
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewServiceError(fmt.Sprintf("failed to encode payload: %v", err))
	}
	url := c.cfg.baseURL() + modelID

	execute := func() (json.RawMessage, error) {
		return c.post(ctx, url, body)
	}

	start := time.Now()
	raw, err := Schedule(ctx, c.limiter, func() (json.RawMessage, error) {
		return RunWithRetry(ctx, execute, c.cfg.MaxRetries, c.cfg.RetryBaseDelay)
	})
	elapsed := time.Since(start)
	c.metrics.latency.WithLabelValues(modelID).Observe(elapsed.Seconds())

	if err != nil {
		c.metrics.requests.WithLabelValues(modelID, "error").Inc()
		c.logger.Error("inference call failed", "model", modelID, "duration", elapsed, "error", err)
		return nil, err
	}

	if !json.Valid(raw) {
		c.metrics.requests.WithLabelValues(modelID, "error").Inc()
		return nil, NewResponseError("inference endpoint returned a non-JSON body")
	}

	c.metrics.requests.WithLabelValues(modelID, "success").Inc()
	c.logger.Debug("inference call completed", "model", modelID, "duration", elapsed)

	if opts.Cache {
		c.cache.Set(key, raw, cacheTTL)
	}
	return raw, nil
}

// post performs one HTTP round trip. It is the unit the retry controller
// repeats; cancellation is threaded through to the transport only.
func (c *Client) post(ctx context.Context, url string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewServiceError(fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("inference response read failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewRequestError(
			fmt.Sprintf("inference request failed (%d): %s", resp.StatusCode, string(raw)),
			resp.StatusCode,
		)
	}
	return raw, nil
}
