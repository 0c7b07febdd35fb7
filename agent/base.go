package agent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hupe1980/shopmesh/core"
	"github.com/hupe1980/shopmesh/inference"
	"github.com/hupe1980/shopmesh/internal/util"
	"github.com/hupe1980/shopmesh/logging"
)

// TextGenerator is the slice of the inference client agents depend on.
// *inference.Client satisfies it; tests supply stubs.
type TextGenerator interface {
	GenerateChatCompletion(ctx context.Context, messages []inference.ChatMessage, options *inference.RequestOptions) (*inference.TextGenerationResponse, error)
}

// ParseFunc converts raw model output into the agent's typed result. It is
// also invoked with a normalized error message on the failure path, so
// implementations must always return a usable value.
type ParseFunc[R any] func(raw string) R

// CacheKeyFunc derives the result-cache key for an input. Returning ""
// skips caching for that call.
type CacheKeyFunc func(input core.Input) string

// Options configures a BaseAgent.
type Options struct {
	// Version identifies the agent revision in activity records.
	Version string
	// CacheTTL enables the per-agent result cache when positive. The
	// default of zero disables caching entirely.
	CacheTTL time.Duration
	// CacheKey overrides the default key derivation (task + canonical
	// payload JSON).
	CacheKey CacheKeyFunc
	// Logger receives structured diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// BaseAgent implements the shared run skeleton for all agents: it builds a
// prompt from the system prompt and the serialized payload, invokes text
// generation, measures latency, parses the response and converts any
// failure into a typed fallback result. Embed it and supply a ParseFunc to
// create a concrete agent.
type BaseAgent[R any] struct {
	name         string
	version      string
	systemPrompt string
	gen          TextGenerator
	parse        ParseFunc[R]
	cacheTTL     time.Duration
	cacheKey     CacheKeyFunc
	cache        *inference.Cache[core.Result]
	logger       logging.Logger
}

// New constructs a BaseAgent. The parse function is mandatory; optFns
// override versioning, caching and logging defaults.
func New[R any](name, systemPrompt string, gen TextGenerator, parse ParseFunc[R], optFns ...func(o *Options)) *BaseAgent[R] {
	opts := Options{
		Version: "1.0.0",
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.CacheKey == nil {
		opts.CacheKey = DefaultCacheKey
	}

	return &BaseAgent[R]{
		name:         name,
		version:      opts.Version,
		systemPrompt: systemPrompt,
		gen:          gen,
		parse:        parse,
		cacheTTL:     opts.CacheTTL,
		cacheKey:     opts.CacheKey,
		cache:        inference.NewCache[core.Result](),
		logger:       opts.Logger,
	}
}

// DefaultCacheKey keys results by task plus the canonical JSON of the
// payload, so identical payloads hit regardless of field order. It returns
// "" (skip caching) when the payload cannot be serialized.
func DefaultCacheKey(input core.Input) string {
	serialized, err := util.CanonicalJSON(input.Payload)
	if err != nil {
		return ""
	}
	return input.Task + ":" + serialized
}

// Name returns the task name the agent is registered under.
func (a *BaseAgent[R]) Name() string { return a.name }

// Version identifies the agent revision.
func (a *BaseAgent[R]) Version() string { return a.version }

// SystemPrompt returns the instruction prefix sent with every invocation.
func (a *BaseAgent[R]) SystemPrompt() string { return a.systemPrompt }

// Run executes the agent. On any failure - configuration, transport,
// response or parse layer - the error is normalized and its message is fed
// through the agent's parser, yielding a best-effort typed result with
// Success=false, a latency measurement and no model identifier.
func (a *BaseAgent[R]) Run(ctx context.Context, input core.Input) core.Result {
	start := time.Now()

	var key string
	if a.cacheTTL > 0 {
		key = a.cacheKey(input)
		if key != "" {
			if cached, ok := a.cache.Get(key); ok {
				cached.Cached = true
				a.logger.Debug("agent cache hit", "agent", a.name, "task", input.Task)
				return cached
			}
		}
	}

	result := a.invoke(ctx, input, start)

	if result.Success && key != "" {
		a.cache.Set(key, result, a.cacheTTL)
	}
	return result
}

func (a *BaseAgent[R]) invoke(ctx context.Context, input core.Input, start time.Time) core.Result {
	payload, err := json.Marshal(input.Payload)
	if err == nil {
		var resp *inference.TextGenerationResponse
		resp, err = a.gen.GenerateChatCompletion(ctx, []inference.ChatMessage{
			{Role: "system", Content: a.systemPrompt},
			{Role: "user", Content: string(payload)},
		}, nil)
		if err == nil {
			latency := time.Since(start).Milliseconds()
			a.logger.Debug("agent run completed", "agent", a.name, "latency_ms", latency)
			return core.Result{
				Success:   true,
				Output:    a.parse(resp.Text),
				Model:     resp.Model,
				LatencyMs: latency,
			}
		}
	}

	normalized := inference.Normalize(err)
	latency := time.Since(start).Milliseconds()
	a.logger.Warn("agent run failed", "agent", a.name, "latency_ms", latency, "error", normalized.Message)

	return core.Result{
		Success:   false,
		Output:    a.parse(normalized.Message),
		LatencyMs: latency,
	}
}
