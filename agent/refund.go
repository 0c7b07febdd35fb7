package agent

import (
	"encoding/json"
	"strings"

	"github.com/hupe1980/shopmesh/internal/util"
)

// TaskRefund is the task name the refund agent registers under.
const TaskRefund = "refund"

// RefundPayload is the structured input of the refund agent.
type RefundPayload struct {
	OrderID       string  `json:"orderId"`
	OrderTotal    float64 `json:"orderTotal"`
	Reason        string  `json:"reason"`
	DaysSinceSale int     `json:"daysSinceSale"`
	ItemCondition string  `json:"itemCondition,omitempty"`
	History       string  `json:"history,omitempty"`
}

// RefundAssessment is the typed output of the refund agent.
type RefundAssessment struct {
	Recommendation string  `json:"recommendation"` // approve, deny or escalate
	Rationale      string  `json:"rationale"`
	RiskLevel      string  `json:"riskLevel"` // low, medium or high
	Confidence     float64 `json:"confidence"`
}

const refundFormat = `

Return JSON only with this structure:
{
  "recommendation": "approve | deny | escalate",
  "rationale": "string",
  "riskLevel": "low | medium | high",
  "confidence": 0.0
}`

// RefundAgent assesses refund requests and recommends a resolution.
type RefundAgent struct {
	*BaseAgent[RefundAssessment]
}

// NewRefundAgent constructs the refund agent.
func NewRefundAgent(gen TextGenerator, optFns ...func(o *Options)) *RefundAgent {
	return &RefundAgent{
		BaseAgent: New(TaskRefund, refundPrompt+refundFormat, gen, ParseRefundAssessment, optFns...),
	}
}

// ParseRefundAssessment parses model output into a RefundAssessment.
// Unparsable or out-of-vocabulary responses escalate to a human reviewer.
func ParseRefundAssessment(output string) RefundAssessment {
	var assessment RefundAssessment
	for _, candidate := range jsonCandidates(output) {
		if err := json.Unmarshal([]byte(candidate), &assessment); err == nil && assessment.Rationale != "" {
			assessment.Recommendation = normalizeEnum(assessment.Recommendation, []string{"approve", "deny", "escalate"}, "escalate")
			assessment.RiskLevel = normalizeEnum(assessment.RiskLevel, []string{"low", "medium", "high"}, "medium")
			assessment.Confidence = clamp01(assessment.Confidence)
			return assessment
		}
	}

	rationale := strings.TrimSpace(output)
	if rationale == "" {
		rationale = "No refund assessment received."
	}
	return RefundAssessment{
		Recommendation: "escalate",
		Rationale:      util.Truncate(rationale, maxSummaryLength),
		RiskLevel:      "medium",
	}
}
