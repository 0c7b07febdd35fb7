package inference

import (
	"context"
	"encoding/json"
	"time"
)

// EmbeddingCacheTTL is how long embedding responses stay cached. Embeddings
// for identical inputs are stable, so the TTL is generous.
const EmbeddingCacheTTL = 15 * time.Minute

// EmbeddingResponse is the validated result of an embedding call.
type EmbeddingResponse struct {
	Embedding  []float32 `json:"embedding"`
	Dimensions int       `json:"dimensions"`
	Model      string    `json:"model"`
}

// GenerateEmbedding embeds the input text with the configured embedding
// model. The endpoint returns either a flat vector or a vector of vectors
// (one row per input); the first row is taken in the latter case. An empty
// vector fails with a ResponseError.
func (c *Client) GenerateEmbedding(ctx context.Context, input string) (*EmbeddingResponse, error) {
	payload := map[string]any{"inputs": input}

	raw, err := c.Invoke(ctx, c.cfg.EmbeddingModel, payload, InvokeOptions{
		Cache:    true,
		CacheTTL: EmbeddingCacheTTL,
	})
	if err != nil {
		return nil, err
	}

	embedding, err := extractEmbedding(raw)
	if err != nil {
		return nil, err
	}

	return &EmbeddingResponse{
		Embedding:  embedding,
		Dimensions: len(embedding),
		Model:      c.cfg.EmbeddingModel,
	}, nil
}

func extractEmbedding(raw json.RawMessage) ([]float32, error) {
	var flat []float32
	if err := json.Unmarshal(raw, &flat); err == nil {
		if len(flat) == 0 {
			return nil, NewResponseError("embeddings response is empty")
		}
		return flat, nil
	}

	var nested [][]float32
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 || len(nested[0]) == 0 {
			return nil, NewResponseError("embeddings response is empty")
		}
		return nested[0], nil
	}

	return nil, NewResponseError("embeddings response has an unexpected shape")
}
