package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/shopmesh/core"
	"github.com/hupe1980/shopmesh/logging"
)

// runLogger is the optional richer logging surface. When the configured
// Logger implements it (logging.ShopMeshLogger does), the orchestrator
// emits one structured entry per agent run and per pipeline.
type runLogger interface {
	LogAgentRun(agent, task string, dur time.Duration, success, cached bool)
	LogPipelineRun(steps, completed int, dur time.Duration, success bool)
}

// ErrNotRegistered is returned by Dispatch when no agent is registered for
// the requested task. It is the only error Dispatch produces; every other
// failure is carried inside the returned core.Result.
var ErrNotRegistered = errors.New("no agent registered for task")

// ErrDuplicateAgent is returned by Register when an agent with the same
// name is already registered.
var ErrDuplicateAgent = errors.New("agent already registered")

// Options configures an Orchestrator.
type Options struct {
	// Activity receives one record per agent invocation. When nil,
	// invocations are not recorded.
	Activity core.ActivityLogger
	// QueueSize bounds the activity worker's backlog. Records beyond the
	// bound are dropped with a warning rather than blocking dispatch.
	QueueSize int
	// Logger receives structured diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Orchestrator routes tasks to agents and records every invocation.
type Orchestrator struct {
	mu     sync.RWMutex
	agents map[string]core.Agent
	worker *activityWorker
	logger logging.Logger
}

// New constructs an Orchestrator.
func New(optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		QueueSize: 128,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	o := &Orchestrator{
		agents: make(map[string]core.Agent),
		logger: opts.Logger,
	}
	if opts.Activity != nil {
		o.worker = newActivityWorker(opts.Activity, opts.QueueSize, opts.Logger)
	}
	return o
}

// Register adds an agent under its name. Registering a second agent with
// the same name is rejected so a misconfigured deployment cannot silently
// shadow an earlier agent.
func (o *Orchestrator) Register(agent core.Agent) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	name := agent.Name()
	if _, exists := o.agents[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAgent, name)
	}

	o.agents[name] = agent
	o.logger.Debug("agent registered", "agent", name, "version", agent.Version())

	return nil
}

// RegisterMany registers agents in order, stopping at the first failure.
func (o *Orchestrator) RegisterMany(agents ...core.Agent) error {
	for _, agent := range agents {
		if err := o.Register(agent); err != nil {
			return err
		}
	}
	return nil
}

// Tasks returns the names of all registered agents.
func (o *Orchestrator) Tasks() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	tasks := make([]string, 0, len(o.agents))
	for name := range o.agents {
		tasks = append(tasks, name)
	}
	return tasks
}

// Dispatch runs the agent registered for task against the payload. The
// returned error is non-nil only when no agent is registered for the task;
// agent-level failures are reported through Result.Success. The invocation
// is recorded regardless of outcome.
func (o *Orchestrator) Dispatch(ctx context.Context, task string, payload any, agentCtx *core.Context) (core.Result, error) {
	o.mu.RLock()
	agent, ok := o.agents[task]
	o.mu.RUnlock()

	if !ok {
		return core.Result{}, fmt.Errorf("%w: %s", ErrNotRegistered, task)
	}

	input := core.Input{Task: task, Payload: payload, Context: agentCtx}
	result := agent.Run(ctx, input)

	o.record(agent, input, result)
	if rl, ok := o.logger.(runLogger); ok {
		rl.LogAgentRun(agent.Name(), task, time.Duration(result.LatencyMs)*time.Millisecond, result.Success, result.Cached)
	} else {
		o.logger.Debug("dispatch completed", "task", task, "success", result.Success, "cached", result.Cached)
	}

	return result, nil
}

// Pipeline executes steps strictly in order. Each step's input is derived
// by its MapInput function from the previous step's result (nil for the
// first step), the initial payload and the shared context. Execution stops
// immediately after the first result with Success=false; the returned slice
// contains the results of every step that ran, including the failing one.
// Every step is recorded.
func (o *Orchestrator) Pipeline(ctx context.Context, steps []core.PipelineStep, initialPayload any, agentCtx *core.Context) []core.Result {
	results := make([]core.Result, 0, len(steps))
	start := time.Now()

	success := true
	var previous *core.Result
	for i, step := range steps {
		input := step.MapInput(previous, initialPayload, agentCtx)
		result := step.Agent.Run(ctx, input)

		o.record(step.Agent, input, result)
		results = append(results, result)

		if !result.Success {
			success = false
			o.logger.Info("pipeline stopped on failure",
				"step", i,
				"agent", step.Agent.Name(),
				"completed", len(results),
				"total", len(steps),
			)
			break
		}
		previous = &results[len(results)-1]
	}

	if rl, ok := o.logger.(runLogger); ok {
		rl.LogPipelineRun(len(steps), len(results), time.Since(start), success)
	}

	return results
}

func (o *Orchestrator) record(agent core.Agent, input core.Input, result core.Result) {
	if o.worker == nil {
		return
	}
	o.worker.Enqueue(buildRecord(agent, input, result))
}

// Close flushes the activity worker. After Close, dispatches still execute
// but are no longer recorded.
func (o *Orchestrator) Close() {
	if o.worker != nil {
		o.worker.Close()
	}
}
