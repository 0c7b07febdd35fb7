package agent

import "strings"

// TaskSupport is the task name the support agent registers under.
const TaskSupport = "support"

// SupportPayload is the structured input of the support agent.
type SupportPayload struct {
	Question       string `json:"question"`
	OrderContext   string `json:"orderContext,omitempty"`
	AccountContext string `json:"accountContext,omitempty"`
}

// SupportAnswer is the typed output of the support agent.
type SupportAnswer struct {
	Answer string `json:"answer"`
}

// SupportAgent answers customer support questions in plain text.
type SupportAgent struct {
	*BaseAgent[SupportAnswer]
}

// NewSupportAgent constructs the support agent.
func NewSupportAgent(gen TextGenerator, optFns ...func(o *Options)) *SupportAgent {
	return &SupportAgent{
		BaseAgent: New(TaskSupport, supportPrompt, gen, ParseSupportAnswer, optFns...),
	}
}

// ParseSupportAnswer wraps the trimmed model output. Support answers are
// free-form text, so there is no structure to validate.
func ParseSupportAnswer(output string) SupportAnswer {
	answer := strings.TrimSpace(output)
	if answer == "" {
		answer = "No answer received. Please try again."
	}
	return SupportAnswer{Answer: answer}
}
