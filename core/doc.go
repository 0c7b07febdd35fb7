// Package core provides the foundational domain types and collaborator
// interfaces used by ShopMesh. It defines the core abstractions for:
//
//   - Agents (units that turn a structured payload into a structured result
//     via a model invocation)
//   - Inputs / Results (the uniform invocation envelope returned to callers)
//   - Pipeline steps (ordered multi-step agent execution)
//   - The activity logging collaborator that durably records invocations
//
// The package intentionally keeps implementation concerns (HTTP transport,
// concrete agents, persistence) out of scope, exposing small interfaces to
// enable custom backends and extensions.
package core
