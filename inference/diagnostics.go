package inference

import (
	"context"
	"fmt"
	"time"
)

// ConnectionTestResult summarizes a connectivity probe against the endpoint.
type ConnectionTestResult struct {
	OK      bool   `json:"ok"`
	Model   string `json:"model"`
	Message string `json:"message"`
}

// TestConnection probes the endpoint with a small sentiment call. It never
// returns an error; failures are folded into the result.
func (c *Client) TestConnection(ctx context.Context) ConnectionTestResult {
	if !c.cfg.Configured() {
		return ConnectionTestResult{
			Model:   c.cfg.SentimentModel,
			Message: "api key is missing; set HUGGINGFACE_API_KEY before running diagnostics",
		}
	}

	if _, err := c.AnalyzeSentiment(ctx, "This setup test should succeed."); err != nil {
		return ConnectionTestResult{
			Model:   c.cfg.SentimentModel,
			Message: err.Error(),
		}
	}

	return ConnectionTestResult{
		OK:      true,
		Model:   c.cfg.SentimentModel,
		Message: "inference endpoint connection succeeded",
	}
}

// BenchmarkEntry records latency and outcome for one benchmarked operation.
type BenchmarkEntry struct {
	Operation string `json:"operation"`
	LatencyMs int64  `json:"latencyMs"`
	Success   bool   `json:"success"`
	Details   string `json:"details,omitempty"`
}

// RunBenchmark exercises each model operation once, recording latency and a
// short detail string. Operations run sequentially through the shared rate
// limiter, so entries reflect real call spacing.
func (c *Client) RunBenchmark(ctx context.Context) []BenchmarkEntry {
	entries := make([]BenchmarkEntry, 0, 4)

	run := func(operation string, task func() (string, error)) {
		start := time.Now()
		detail, err := task()
		entry := BenchmarkEntry{
			Operation: operation,
			LatencyMs: time.Since(start).Milliseconds(),
			Success:   err == nil,
			Details:   detail,
		}
		if err != nil {
			entry.Details = err.Error()
		}
		entries = append(entries, entry)
	}

	run("text-generation", func() (string, error) {
		resp, err := c.GenerateText(ctx, GenerateTextInput{Prompt: "Summarize smart shopping in one line."})
		if err != nil {
			return "", err
		}
		if len(resp.Text) > 80 {
			return resp.Text[:80], nil
		}
		return resp.Text, nil
	})
	run("embeddings", func() (string, error) {
		resp, err := c.GenerateEmbedding(ctx, "Noise-cancelling headphones")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d dimensions", resp.Dimensions), nil
	})
	run("sentiment", func() (string, error) {
		resp, err := c.AnalyzeSentiment(ctx, "Excellent quality and fast shipping")
		if err != nil {
			return "", err
		}
		return string(resp.Label), nil
	})
	run("classification", func() (string, error) {
		resp, err := c.ClassifyText(ctx, ClassifyInput{
			Text:            "The parcel is late and tracking has not updated.",
			CandidateLabels: []string{"delivery", "inventory", "refund"},
		})
		if err != nil {
			return "", err
		}
		return resp.TopLabel, nil
	})

	return entries
}
