// Package logging provides a minimal logging interface and adapters for ShopMesh.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the inference client, agents and orchestrator use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - ShopMeshLogger, a contextual logger with domain helpers for model
//     calls, agent runs and pipeline runs
//
// Usage:
//
//	logger := logging.NewDefaultSlogLogger()
//	client := inference.NewClient(cfg, func(o *inference.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
