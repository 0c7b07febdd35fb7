package inference

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// SentimentCacheTTL is how long sentiment responses stay cached.
const SentimentCacheTTL = 10 * time.Minute

// SentimentLabel is the normalized sentiment classification.
type SentimentLabel string

// Normalized sentiment labels.
const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// SentimentResponse is the validated result of a sentiment call.
type SentimentResponse struct {
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"`
	RawLabel   string         `json:"rawLabel"`
	Model      string         `json:"model"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AnalyzeSentiment classifies the sentiment of text. The endpoint returns
// either a flat array of {label, score} entries or a nested array (first
// row taken). The highest-score entry wins; raw labels map to the
// normalized set by case-insensitive substring ("neg" → negative, "neu" →
// neutral, anything else → positive). No entries fails with a
// ResponseError.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (*SentimentResponse, error) {
	payload := map[string]any{"inputs": text}

	raw, err := c.Invoke(ctx, c.cfg.SentimentModel, payload, InvokeOptions{
		Cache:    true,
		CacheTTL: SentimentCacheTTL,
	})
	if err != nil {
		return nil, err
	}

	entries, err := extractLabelScores(raw)
	if err != nil {
		return nil, err
	}

	best := entries[0]
	for _, entry := range entries[1:] {
		if entry.Score > best.Score {
			best = entry
		}
	}

	return &SentimentResponse{
		Label:      mapSentimentLabel(best.Label),
		Confidence: best.Score,
		RawLabel:   best.Label,
		Model:      c.cfg.SentimentModel,
	}, nil
}

func extractLabelScores(raw json.RawMessage) ([]labelScore, error) {
	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}

	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}

	return nil, NewResponseError("sentiment response is empty")
}

func mapSentimentLabel(rawLabel string) SentimentLabel {
	normalized := strings.ToLower(rawLabel)
	switch {
	case strings.Contains(normalized, "neg"):
		return SentimentNegative
	case strings.Contains(normalized, "neu"):
		return SentimentNeutral
	default:
		return SentimentPositive
	}
}
