package core

import "context"

// Context carries optional caller identity and free-form metadata attached to
// an invocation. It is purely informational: nothing in the execution path
// branches on it, it is only threaded through to activity records.
type Context struct {
	UserID    string         `json:"userId,omitempty"`
	SessionID string         `json:"sessionId,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Input is the immutable envelope handed to an agent for a single run.
type Input struct {
	Task    string   `json:"task"`
	Payload any      `json:"payload"`
	Context *Context `json:"context,omitempty"`
}

// Result is the uniform outcome of an agent run.
//
// Output is always populated: on failure it holds a fallback value of the
// agent's declared result type shaped from the error message, so callers
// never need to special-case a missing result. Model is empty on failure.
// Cached marks results served from an agent's result cache.
type Result struct {
	Success   bool   `json:"success"`
	Output    any    `json:"result"`
	Model     string `json:"model,omitempty"`
	LatencyMs int64  `json:"latencyMs,omitempty"`
	Cached    bool   `json:"cached,omitempty"`
}

// Agent is the unit of work ShopMesh orchestrates. Implementations must not
// let errors escape Run: every failure is converted into a Result with
// Success=false and a typed fallback Output.
type Agent interface {
	// Name returns the task name the agent is registered under.
	Name() string

	// Version identifies the agent revision recorded alongside each
	// invocation.
	Version() string

	// Run executes the agent against the given input. The context is
	// forwarded to the transport layer only; see the concurrency notes in
	// package inference.
	Run(ctx context.Context, input Input) Result
}

// MapInputFunc derives the input for a pipeline step from the previous
// step's result (nil for the first step), the pipeline's initial payload and
// the shared invocation context. Implementations must be pure.
type MapInputFunc func(previous *Result, initialPayload any, agentCtx *Context) Input

// PipelineStep pairs an agent with the function that derives its input.
// Steps are immutable and evaluated left-to-right.
type PipelineStep struct {
	Agent    Agent
	MapInput MapInputFunc
}
