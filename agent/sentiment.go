package agent

import (
	"encoding/json"
	"strings"

	"github.com/hupe1980/shopmesh/internal/util"
)

// TaskFeedbackSentiment is the task name the feedback sentiment agent
// registers under.
const TaskFeedbackSentiment = "sentiment"

// FeedbackPayload is the structured input of the feedback sentiment agent.
type FeedbackPayload struct {
	FeedbackText string `json:"feedbackText"`
	ProductID    string `json:"productId,omitempty"`
	Rating       *int   `json:"rating,omitempty"`
}

// FeedbackInsight is the typed output of the feedback sentiment agent.
type FeedbackInsight struct {
	Sentiment  string   `json:"sentiment"` // positive, neutral or negative
	Urgency    string   `json:"urgency"`   // low, medium or high
	Concerns   []string `json:"concerns"`
	Summary    string   `json:"summary"`
	Confidence float64  `json:"confidence"`
}

const sentimentFormat = `

Return JSON only with this structure:
{
  "sentiment": "positive | neutral | negative",
  "urgency": "low | medium | high",
  "concerns": ["string"],
  "summary": "string",
  "confidence": 0.0
}`

// FeedbackSentimentAgent extracts sentiment, urgency and key concerns from
// customer feedback.
type FeedbackSentimentAgent struct {
	*BaseAgent[FeedbackInsight]
}

// NewFeedbackSentimentAgent constructs the feedback sentiment agent.
func NewFeedbackSentimentAgent(gen TextGenerator, optFns ...func(o *Options)) *FeedbackSentimentAgent {
	return &FeedbackSentimentAgent{
		BaseAgent: New(TaskFeedbackSentiment, sentimentPrompt+sentimentFormat, gen, ParseFeedbackInsight, optFns...),
	}
}

// ParseFeedbackInsight parses model output into a FeedbackInsight. Unknown
// or missing enum values are normalized to neutral/medium; unparsable text
// becomes a neutral insight whose summary is the trimmed raw text.
func ParseFeedbackInsight(output string) FeedbackInsight {
	var insight FeedbackInsight
	for _, candidate := range jsonCandidates(output) {
		if err := json.Unmarshal([]byte(candidate), &insight); err == nil && insight.Summary != "" {
			insight.Sentiment = normalizeEnum(insight.Sentiment, []string{"positive", "neutral", "negative"}, "neutral")
			insight.Urgency = normalizeEnum(insight.Urgency, []string{"low", "medium", "high"}, "medium")
			insight.Confidence = clamp01(insight.Confidence)
			if insight.Concerns == nil {
				insight.Concerns = []string{}
			}
			return insight
		}
	}

	summary := strings.TrimSpace(output)
	if summary == "" {
		summary = "No sentiment response received."
	}
	return FeedbackInsight{
		Sentiment: "neutral",
		Urgency:   "medium",
		Concerns:  []string{},
		Summary:   util.Truncate(summary, maxSummaryLength),
	}
}

func normalizeEnum(value string, allowed []string, fallback string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range allowed {
		if normalized == candidate {
			return candidate
		}
	}
	return fallback
}
