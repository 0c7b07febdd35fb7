package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hupe1980/shopmesh/internal/util"
)

// TaskRecommendation is the task name the recommendation agent registers
// under.
const TaskRecommendation = "recommendation"

// maxRecommendations is the stable client-visible cap on returned entries,
// enforced regardless of how many the model produced.
const maxRecommendations = 10

// maxSummaryLength bounds the summary, including the raw-text fallback.
const maxSummaryLength = 500

// ProductCandidate is one product offered to the model for selection.
type ProductCandidate struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category,omitempty"`
	Brand    string   `json:"brand,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// RecommendationConstraints narrow the candidate set the model may pick
// from.
type RecommendationConstraints struct {
	BudgetMin         *float64 `json:"budgetMin,omitempty"`
	BudgetMax         *float64 `json:"budgetMax,omitempty"`
	Categories        []string `json:"categories,omitempty"`
	Brands            []string `json:"brands,omitempty"`
	MustHaveTags      []string `json:"mustHaveTags,omitempty"`
	ExcludeProductIDs []string `json:"excludeProductIds,omitempty"`
	MaxResults        int      `json:"maxResults,omitempty"`
}

// RecommendationPayload is the structured input of the recommendation
// agent.
type RecommendationPayload struct {
	UserIntent     string                     `json:"userIntent"`
	ContextSummary string                     `json:"contextSummary,omitempty"`
	Candidates     []ProductCandidate         `json:"candidates"`
	Constraints    *RecommendationConstraints `json:"constraints,omitempty"`
}

// ProductRecommendation is one scored pick in a recommendation result.
type ProductRecommendation struct {
	ProductID string   `json:"productId,omitempty"`
	Title     string   `json:"title"`
	Reason    string   `json:"reason"`
	Score     float64  `json:"score"`
	Category  string   `json:"category,omitempty"`
	Price     *float64 `json:"price,omitempty"`
}

// RecommendationResult is the typed output of the recommendation agent.
// Recommendations are sorted by descending score and capped at ten.
type RecommendationResult struct {
	Summary         string                  `json:"summary"`
	Recommendations []ProductRecommendation `json:"recommendations"`
}

const recommendationFormat = `

Return JSON only with this structure:
{
  "summary": "string",
  "recommendations": [
    {
      "productId": "string (optional)",
      "title": "string",
      "reason": "string",
      "score": 0.0,
      "category": "string (optional)",
      "price": 0
    }
  ]
}

Rules:
- Recommend only from provided candidates.
- Respect budget/category/brand/tag constraints if provided.
- Keep reason concise and concrete.
- Sort by highest score first.
- Score must be between 0 and 1.`

// RecommendationAgent suggests products matching a user intent under
// optional constraints.
type RecommendationAgent struct {
	*BaseAgent[RecommendationResult]
}

// NewRecommendationAgent constructs the recommendation agent on top of the
// given generator.
func NewRecommendationAgent(gen TextGenerator, optFns ...func(o *Options)) *RecommendationAgent {
	return &RecommendationAgent{
		BaseAgent: New(TaskRecommendation, recommendationPrompt+recommendationFormat, gen, ParseRecommendation, optFns...),
	}
}

var fencedJSONBlock = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

// ParseRecommendation parses model output defensively. Candidates are tried
// in order: the raw text as JSON, a fenced json code block, then the
// substring between the first '{' and the last '}'. The first candidate
// passing schema validation wins; when all fail, the trimmed raw text
// (truncated to the summary cap) becomes a summary-only fallback with an
// empty recommendation list.
func ParseRecommendation(output string) RecommendationResult {
	for _, candidate := range jsonCandidates(output) {
		if result, ok := parseValidatedRecommendation(candidate); ok {
			return result
		}
	}

	fallback := strings.TrimSpace(output)
	if fallback == "" {
		fallback = "No recommendation response received."
	}
	return RecommendationResult{
		Summary:         util.Truncate(fallback, maxSummaryLength),
		Recommendations: []ProductRecommendation{},
	}
}

func jsonCandidates(output string) []string {
	candidates := []string{output}

	if m := fencedJSONBlock.FindStringSubmatch(output); m != nil && strings.TrimSpace(m[1]) != "" {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	} else {
		start := strings.Index(output, "{")
		end := strings.LastIndex(output, "}")
		if start >= 0 && end > start {
			candidates = append(candidates, strings.TrimSpace(output[start:end+1]))
		}
	}
	return candidates
}

func parseValidatedRecommendation(candidate string) (RecommendationResult, bool) {
	var parsed RecommendationResult
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return RecommendationResult{}, false
	}
	if err := validateRecommendationResult(parsed); err != nil {
		return RecommendationResult{}, false
	}

	parsed.Recommendations = normalizeRecommendations(parsed.Recommendations)
	return parsed, true
}

// validateRecommendationResult enforces the response schema: summary 1-500
// chars, at least one recommendation, bounded title and reason. Scores are
// not range-checked and the count has no upper bound here; out-of-range
// scores are clamped and the list is capped during normalization.
func validateRecommendationResult(result RecommendationResult) error {
	if l := len(result.Summary); l < 1 || l > maxSummaryLength {
		return fmt.Errorf("summary length %d outside [1, %d]", l, maxSummaryLength)
	}
	if len(result.Recommendations) < 1 {
		return fmt.Errorf("at least one recommendation is required")
	}
	for i, rec := range result.Recommendations {
		if l := len(rec.Title); l < 1 || l > 200 {
			return fmt.Errorf("recommendation %d: title length %d outside [1, 200]", i, l)
		}
		if l := len(rec.Reason); l < 1 || l > 400 {
			return fmt.Errorf("recommendation %d: reason length %d outside [1, 400]", i, l)
		}
		if rec.Price != nil && *rec.Price < 0 {
			return fmt.Errorf("recommendation %d: price must not be negative", i)
		}
	}
	return nil
}

// normalizeRecommendations clamps scores into [0, 1], sorts by descending
// score and truncates to the cap.
func normalizeRecommendations(recs []ProductRecommendation) []ProductRecommendation {
	normalized := make([]ProductRecommendation, len(recs))
	for i, rec := range recs {
		rec.Score = clamp01(rec.Score)
		normalized[i] = rec
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].Score > normalized[j].Score
	})

	if len(normalized) > maxRecommendations {
		normalized = normalized[:maxRecommendations]
	}
	return normalized
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
