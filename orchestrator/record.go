package orchestrator

import (
	"encoding/json"
	"time"

	"github.com/hupe1980/shopmesh/core"
	"github.com/hupe1980/shopmesh/internal/util"
)

// buildRecord shapes one agent invocation into a durable activity record.
func buildRecord(agent core.Agent, input core.Input, result core.Result) core.ActivityRecord {
	record := core.ActivityRecord{
		ID:           util.NewID(),
		Timestamp:    time.Now().UTC(),
		AgentName:    agent.Name(),
		AgentVersion: agent.Version(),
		Model:        result.Model,
		Task:         input.Task,
		InputJSON:    util.MustJSON(input.Payload),
		OutputJSON:   util.MustJSON(result.Output),
		Confidence:   extractConfidence(result.Output),
		LatencyMs:    result.LatencyMs,
		Cached:       result.Cached,
		Metadata: map[string]any{
			"task":   input.Task,
			"cached": result.Cached,
		},
	}

	if result.Success {
		record.Severity = core.SeverityInfo
		record.Status = core.StatusSuccess
	} else {
		record.Severity = core.SeverityError
		record.Status = core.StatusFailure
		record.ErrorMessage = extractErrorMessage(result.Output)
	}

	if input.Context != nil {
		record.UserID = input.Context.UserID
		record.SessionID = input.Context.SessionID
		for k, v := range input.Context.Metadata {
			record.Metadata[k] = v
		}
	}

	return record
}

// extractConfidence returns the numeric "confidence" field of an output, if
// the output exposes one.
func extractConfidence(output any) *float64 {
	fields, ok := outputFields(output)
	if !ok {
		return nil
	}
	confidence, ok := fields["confidence"].(float64)
	if !ok {
		return nil
	}
	return &confidence
}

// extractErrorMessage derives a human-readable message from a failure
// output: the output itself when it is a string, its "error" field when
// that is a string, or the JSON encoding of the "error" field otherwise.
func extractErrorMessage(output any) string {
	if s, ok := output.(string); ok {
		return s
	}

	fields, ok := outputFields(output)
	if !ok {
		return ""
	}
	errValue, ok := fields["error"]
	if !ok {
		return ""
	}
	if s, ok := errValue.(string); ok {
		return s
	}
	return util.MustJSON(errValue)
}

// outputFields views an arbitrary output value as a JSON object.
func outputFields(output any) (map[string]any, bool) {
	raw, err := json.Marshal(output)
	if err != nil {
		return nil, false
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	return fields, true
}
