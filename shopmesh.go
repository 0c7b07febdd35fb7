// Package shopmesh provides a high-level façade over the agent execution
// framework: an inference client, the marketplace's concrete agents and an
// orchestrator that records every invocation. Most applications interact
// with this package by:
//  1. Creating a ShopMesh via New() with an inference configuration
//  2. Dispatching tasks (Dispatch) or running multi-step pipelines (Pipeline)
//  3. Using the typed convenience entry points such as Recommend
//
// All defaults are safe for local development and testing; production
// deployments typically supply a durable activity store and a structured
// logger.
package shopmesh

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/shopmesh/activity"
	"github.com/hupe1980/shopmesh/agent"
	"github.com/hupe1980/shopmesh/core"
	"github.com/hupe1980/shopmesh/inference"
	"github.com/hupe1980/shopmesh/logging"
	"github.com/hupe1980/shopmesh/orchestrator"
)

// Options configures the ShopMesh instance.
type Options struct {
	// Activity receives one record per agent invocation. Defaults to an
	// in-memory store.
	Activity core.ActivityLogger

	// ActivityQueueSize bounds the background activity worker's backlog.
	ActivityQueueSize int

	// AgentCacheTTL enables the per-agent result cache for the built-in
	// agents when positive. Defaults to zero (disabled).
	AgentCacheTTL time.Duration

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// ShopMesh is the high-level façade aggregating the inference client, the
// built-in agents and the orchestrator.
type ShopMesh struct {
	client       *inference.Client
	orchestrator *orchestrator.Orchestrator
	logger       logging.Logger
}

// New creates a ShopMesh instance for the given inference configuration and
// registers the built-in agents (recommendation, sentiment, refund,
// support).
func New(cfg inference.Config, optFns ...func(o *Options)) (*ShopMesh, error) {
	opts := Options{
		Activity:          activity.NewInMemoryStore(),
		ActivityQueueSize: 128,
		Logger:            logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := inference.NewClient(cfg, func(o *inference.Options) {
		o.Logger = opts.Logger
	})

	orch := orchestrator.New(func(o *orchestrator.Options) {
		o.Activity = opts.Activity
		o.QueueSize = opts.ActivityQueueSize
		o.Logger = opts.Logger
	})

	agentOpts := func(o *agent.Options) {
		o.CacheTTL = opts.AgentCacheTTL
		o.Logger = opts.Logger
	}
	err := orch.RegisterMany(
		agent.NewRecommendationAgent(client, agentOpts),
		agent.NewFeedbackSentimentAgent(client, agentOpts),
		agent.NewRefundAgent(client, agentOpts),
		agent.NewSupportAgent(client, agentOpts),
	)
	if err != nil {
		return nil, err
	}

	return &ShopMesh{
		client:       client,
		orchestrator: orch,
		logger:       opts.Logger,
	}, nil
}

// Client exposes the underlying inference client for direct model
// operations (embeddings, diagnostics).
func (m *ShopMesh) Client() *inference.Client { return m.client }

// Register adds a custom agent to the orchestrator.
func (m *ShopMesh) Register(a core.Agent) error { return m.orchestrator.Register(a) }

// Dispatch routes a task to its registered agent.
func (m *ShopMesh) Dispatch(ctx context.Context, task string, payload any, agentCtx *core.Context) (core.Result, error) {
	return m.orchestrator.Dispatch(ctx, task, payload, agentCtx)
}

// Pipeline runs an ordered sequence of steps, stopping after the first
// failing result.
func (m *ShopMesh) Pipeline(ctx context.Context, steps []core.PipelineStep, initialPayload any, agentCtx *core.Context) []core.Result {
	return m.orchestrator.Pipeline(ctx, steps, initialPayload, agentCtx)
}

// Recommend validates the payload, dispatches the recommendation agent and
// applies the caller-side MaxResults cap to the returned list. Validation
// failures are reported before any agent runs.
func (m *ShopMesh) Recommend(ctx context.Context, payload agent.RecommendationPayload, agentCtx *core.Context) (core.Result, error) {
	if err := payload.Validate(); err != nil {
		return core.Result{}, fmt.Errorf("recommendation request rejected: %w", err)
	}

	result, err := m.Dispatch(ctx, agent.TaskRecommendation, payload, agentCtx)
	if err != nil {
		return core.Result{}, err
	}

	if payload.Constraints != nil && payload.Constraints.MaxResults > 0 {
		if rec, ok := result.Output.(agent.RecommendationResult); ok {
			if len(rec.Recommendations) > payload.Constraints.MaxResults {
				rec.Recommendations = rec.Recommendations[:payload.Constraints.MaxResults]
				result.Output = rec
			}
		}
	}

	return result, nil
}

// Close flushes the background activity worker.
func (m *ShopMesh) Close() {
	m.orchestrator.Close()
}
