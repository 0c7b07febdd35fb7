// Package agent contains the agent implementations and supporting utilities
// for turning structured marketplace payloads into structured results via
// model invocations. The package focuses on three concerns:
//
//  1. The shared run skeleton (BaseAgent): prompt assembly, generation,
//     latency measurement, per-agent result caching and failure
//     normalization
//  2. Concrete agents (Recommendation, FeedbackSentiment, Refund, Support),
//     each owning its system prompt and defensive output parser
//  3. Input validation for the externally-facing recommendation request
//
// Design principles:
//   - No agent lets an error escape Run: every failure becomes a typed
//     fallback result so callers never special-case exceptions
//   - Parsers are defensive: raw JSON first, then fenced blocks, then
//     best-effort substring extraction, then a summary-only fallback
//   - Caching is opt-in per agent and keyed by a caller-suppliable function
package agent
