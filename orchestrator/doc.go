// Package orchestrator routes tasks to registered agents.
//
// An Orchestrator holds a name-keyed agent registry and offers two entry
// points: Dispatch runs a single agent by task name, Pipeline runs an
// ordered sequence of steps and stops after the first failing result. Every
// invocation, successful or not, is turned into a core.ActivityRecord and
// handed to a background worker that writes it through the configured
// core.ActivityLogger. Logging failures and queue overflow are contained
// locally and never affect the result returned to the caller.
package orchestrator
