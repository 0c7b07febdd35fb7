package agent

import (
	"fmt"
	"strings"
)

// ValidationIssue describes one field-level violation of the request
// contract.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every issue found in a request. It is returned
// before any agent executes.
type ValidationError struct {
	Issues []ValidationIssue `json:"issues"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = fmt.Sprintf("%s: %s", issue.Field, issue.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the recommendation request contract: intent 3-500 chars,
// context summary up to 500, 1-100 bounded candidates and internally
// consistent constraints. A nil return means the payload may be handed to
// the agent.
func (p RecommendationPayload) Validate() error {
	var issues []ValidationIssue
	add := func(field, format string, args ...any) {
		issues = append(issues, ValidationIssue{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if l := len(strings.TrimSpace(p.UserIntent)); l < 3 || l > 500 {
		add("userIntent", "must be between 3 and 500 characters, got %d", l)
	}
	if len(p.ContextSummary) > 500 {
		add("contextSummary", "must not exceed 500 characters")
	}

	if l := len(p.Candidates); l < 1 || l > 100 {
		add("candidates", "must contain between 1 and 100 entries, got %d", l)
	}
	for i, c := range p.Candidates {
		field := fmt.Sprintf("candidates[%d]", i)
		if l := len(c.ID); l < 1 || l > 100 {
			add(field+".id", "must be between 1 and 100 characters")
		}
		if l := len(c.Title); l < 1 || l > 200 {
			add(field+".title", "must be between 1 and 200 characters")
		}
		if len(c.Category) > 120 {
			add(field+".category", "must not exceed 120 characters")
		}
		if len(c.Brand) > 120 {
			add(field+".brand", "must not exceed 120 characters")
		}
		if c.Price != nil && *c.Price < 0 {
			add(field+".price", "must not be negative")
		}
		if len(c.Tags) > 20 {
			add(field+".tags", "must not exceed 20 entries")
		}
		for j, tag := range c.Tags {
			if l := len(tag); l < 1 || l > 50 {
				add(fmt.Sprintf("%s.tags[%d]", field, j), "must be between 1 and 50 characters")
			}
		}
	}

	if cons := p.Constraints; cons != nil {
		if cons.BudgetMin != nil && *cons.BudgetMin < 0 {
			add("constraints.budgetMin", "must not be negative")
		}
		if cons.BudgetMax != nil && *cons.BudgetMax < 0 {
			add("constraints.budgetMax", "must not be negative")
		}
		if cons.BudgetMin != nil && cons.BudgetMax != nil && *cons.BudgetMin > *cons.BudgetMax {
			add("constraints.budgetMin", "must be less than or equal to budgetMax")
		}
		if len(cons.Categories) > 20 {
			add("constraints.categories", "must not exceed 20 entries")
		}
		if len(cons.Brands) > 20 {
			add("constraints.brands", "must not exceed 20 entries")
		}
		if len(cons.MustHaveTags) > 20 {
			add("constraints.mustHaveTags", "must not exceed 20 entries")
		}
		if len(cons.ExcludeProductIDs) > 50 {
			add("constraints.excludeProductIds", "must not exceed 50 entries")
		}
		if cons.MaxResults != 0 && (cons.MaxResults < 1 || cons.MaxResults > 10) {
			add("constraints.maxResults", "must be between 1 and 10")
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
