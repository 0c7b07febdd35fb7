package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() RecommendationPayload {
	return RecommendationPayload{
		UserIntent: "running shoes for rainy trails",
		Candidates: []ProductCandidate{
			{ID: "p1", Title: "Trail Runner X", Category: "shoes"},
			{ID: "p2", Title: "Road Flyer", Category: "shoes"},
		},
	}
}

func TestRecommendationPayloadValidate(t *testing.T) {
	assert.NoError(t, validPayload().Validate())
}

func TestRecommendationPayloadValidateIssues(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		mutate func(p *RecommendationPayload)
		field  string
	}{
		{
			name:   "short intent",
			mutate: func(p *RecommendationPayload) { p.UserIntent = "go" },
			field:  "userIntent",
		},
		{
			name:   "whitespace intent",
			mutate: func(p *RecommendationPayload) { p.UserIntent = "   a   " },
			field:  "userIntent",
		},
		{
			name:   "long context summary",
			mutate: func(p *RecommendationPayload) { p.ContextSummary = strings.Repeat("c", 501) },
			field:  "contextSummary",
		},
		{
			name:   "no candidates",
			mutate: func(p *RecommendationPayload) { p.Candidates = nil },
			field:  "candidates",
		},
		{
			name: "too many candidates",
			mutate: func(p *RecommendationPayload) {
				p.Candidates = make([]ProductCandidate, 101)
				for i := range p.Candidates {
					p.Candidates[i] = ProductCandidate{ID: "p", Title: "t"}
				}
			},
			field: "candidates",
		},
		{
			name:   "candidate without title",
			mutate: func(p *RecommendationPayload) { p.Candidates[0].Title = "" },
			field:  "candidates[0].title",
		},
		{
			name:   "negative candidate price",
			mutate: func(p *RecommendationPayload) { p.Candidates[1].Price = f(-5) },
			field:  "candidates[1].price",
		},
		{
			name: "inverted budget range",
			mutate: func(p *RecommendationPayload) {
				p.Constraints = &RecommendationConstraints{BudgetMin: f(100), BudgetMax: f(50)}
			},
			field: "constraints.budgetMin",
		},
		{
			name: "negative budget",
			mutate: func(p *RecommendationPayload) {
				p.Constraints = &RecommendationConstraints{BudgetMax: f(-1)}
			},
			field: "constraints.budgetMax",
		},
		{
			name: "max results out of range",
			mutate: func(p *RecommendationPayload) {
				p.Constraints = &RecommendationConstraints{MaxResults: 11}
			},
			field: "constraints.maxResults",
		},
		{
			name: "too many exclusions",
			mutate: func(p *RecommendationPayload) {
				p.Constraints = &RecommendationConstraints{ExcludeProductIDs: make([]string, 51)}
			},
			field: "constraints.excludeProductIds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(&payload)

			err := payload.Validate()
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)

			fields := make([]string, len(verr.Issues))
			for i, issue := range verr.Issues {
				fields[i] = issue.Field
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Issues: []ValidationIssue{
		{Field: "userIntent", Message: "too short"},
		{Field: "candidates", Message: "empty"},
	}}

	assert.Equal(t, "validation failed: userIntent: too short; candidates: empty", err.Error())
}
