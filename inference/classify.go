package inference

import (
	"context"
	"encoding/json"
	"time"
)

// ClassificationCacheTTL is how long classification responses stay cached.
const ClassificationCacheTTL = 10 * time.Minute

// ClassifyInput names the parameters of ClassifyText.
type ClassifyInput struct {
	Text            string
	CandidateLabels []string
	MultiLabel      bool
}

// ClassificationResponse is the validated result of a zero-shot
// classification call. The endpoint returns labels pre-sorted by descending
// score; TopLabel/TopScore report the first pair without re-sorting.
type ClassificationResponse struct {
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
	TopLabel string    `json:"topLabel"`
	TopScore float64   `json:"topScore"`
	Model    string    `json:"model"`
}

// ClassifyText runs zero-shot classification against the candidate labels.
// Empty labels or scores in the response fail with a ResponseError.
func (c *Client) ClassifyText(ctx context.Context, input ClassifyInput) (*ClassificationResponse, error) {
	payload := map[string]any{
		"inputs": input.Text,
		"parameters": map[string]any{
			"candidate_labels": input.CandidateLabels,
			"multi_label":      input.MultiLabel,
		},
	}

	raw, err := c.Invoke(ctx, c.cfg.ClassificationModel, payload, InvokeOptions{
		Cache:    true,
		CacheTTL: ClassificationCacheTTL,
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, NewResponseError("classification response has an unexpected shape")
	}
	if len(parsed.Labels) == 0 || len(parsed.Scores) == 0 {
		return nil, NewResponseError("classification response is empty")
	}

	return &ClassificationResponse{
		Labels:   parsed.Labels,
		Scores:   parsed.Scores,
		TopLabel: parsed.Labels[0],
		TopScore: parsed.Scores[0],
		Model:    c.cfg.ClassificationModel,
	}, nil
}
