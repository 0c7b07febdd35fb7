// Package activity provides core.ActivityLogger implementations: a volatile
// in-memory store for tests and demos, and a durable SQLite store for
// single-node deployments.
package activity
