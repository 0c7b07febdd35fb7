package core

import (
	"context"
	"time"
)

// Severity levels recorded on activity records, derived from Result.Success.
const (
	SeverityInfo  = "info"
	SeverityError = "error"
)

// Status values recorded on activity records.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// ActivityRecord is one durable row per agent invocation. It mirrors the
// marketplace's activity log table; persistence itself lives behind the
// ActivityLogger interface.
type ActivityRecord struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	AgentName    string         `json:"agentName"`
	AgentVersion string         `json:"agentVersion,omitempty"`
	Model        string         `json:"model,omitempty"`
	UserID       string         `json:"userId,omitempty"`
	SessionID    string         `json:"sessionId,omitempty"`
	Task         string         `json:"task"`
	InputJSON    string         `json:"inputData"`
	OutputJSON   string         `json:"outputData"`
	Confidence   *float64       `json:"confidenceScore,omitempty"`
	LatencyMs    int64          `json:"processingTimeMs,omitempty"`
	Severity     string         `json:"severity"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	Cached       bool           `json:"cached,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ActivityLogger durably records agent invocations. Implementations must be
// safe for concurrent use. A failing Log must never abort the invocation
// that produced the record; the orchestrator contains logging errors
// locally.
type ActivityLogger interface {
	Log(ctx context.Context, record ActivityRecord) error
}
