package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shopmesh/core"
	"github.com/hupe1980/shopmesh/inference"
)

type stubGenerator struct {
	text  string
	model string
	err   error
	calls int
	last  []inference.ChatMessage
}

func (s *stubGenerator) GenerateChatCompletion(_ context.Context, messages []inference.ChatMessage, _ *inference.RequestOptions) (*inference.TextGenerationResponse, error) {
	s.calls++
	s.last = messages
	if s.err != nil {
		return nil, s.err
	}
	return &inference.TextGenerationResponse{Text: s.text, Model: s.model}, nil
}

type echoResult struct {
	Raw string
}

func echoParse(raw string) echoResult { return echoResult{Raw: raw} }

func TestBaseAgentRun(t *testing.T) {
	gen := &stubGenerator{text: "hello there", model: "test-model"}
	a := New("echo", "You echo.", gen, echoParse)

	result := a.Run(context.Background(), core.Input{Task: "echo", Payload: map[string]string{"q": "hi"}})

	assert.True(t, result.Success)
	assert.Equal(t, "test-model", result.Model)
	assert.False(t, result.Cached)
	assert.GreaterOrEqual(t, result.LatencyMs, int64(0))

	output, ok := result.Output.(echoResult)
	require.True(t, ok)
	assert.Equal(t, "hello there", output.Raw)

	require.Len(t, gen.last, 2)
	assert.Equal(t, "system", gen.last[0].Role)
	assert.Equal(t, "You echo.", gen.last[0].Content)
	assert.Equal(t, "user", gen.last[1].Role)
	assert.JSONEq(t, `{"q":"hi"}`, gen.last[1].Content)
}

func TestBaseAgentRunFailure(t *testing.T) {
	gen := &stubGenerator{err: inference.NewRequestError("rate limited", 429)}
	a := New("echo", "You echo.", gen, echoParse)

	result := a.Run(context.Background(), core.Input{Task: "echo", Payload: map[string]string{"q": "hi"}})

	assert.False(t, result.Success)
	assert.Empty(t, result.Model)
	assert.False(t, result.Cached)

	output, ok := result.Output.(echoResult)
	require.True(t, ok)
	assert.Equal(t, "rate limited", output.Raw)
}

func TestBaseAgentCache(t *testing.T) {
	gen := &stubGenerator{text: "cached answer", model: "test-model"}
	a := New("echo", "You echo.", gen, echoParse, func(o *Options) {
		o.CacheTTL = time.Minute
	})

	input := core.Input{Task: "echo", Payload: map[string]any{"a": 1, "b": 2}}

	first := a.Run(context.Background(), input)
	assert.False(t, first.Cached)

	second := a.Run(context.Background(), input)
	assert.True(t, second.Cached)
	assert.True(t, second.Success)
	assert.Equal(t, first.Output, second.Output)
	assert.Equal(t, 1, gen.calls)
}

func TestBaseAgentCacheSkipsFailures(t *testing.T) {
	gen := &stubGenerator{err: inference.NewServiceError("boom")}
	a := New("echo", "You echo.", gen, echoParse, func(o *Options) {
		o.CacheTTL = time.Minute
	})

	input := core.Input{Task: "echo", Payload: map[string]string{"q": "hi"}}

	a.Run(context.Background(), input)
	a.Run(context.Background(), input)

	assert.Equal(t, 2, gen.calls)
}

func TestDefaultCacheKey(t *testing.T) {
	a := core.Input{Task: "echo", Payload: map[string]any{"x": 1, "y": "two"}}
	b := core.Input{Task: "echo", Payload: map[string]any{"y": "two", "x": 1}}

	assert.Equal(t, DefaultCacheKey(a), DefaultCacheKey(b))

	unserializable := core.Input{Task: "echo", Payload: make(chan int)}
	assert.Empty(t, DefaultCacheKey(unserializable))
}
