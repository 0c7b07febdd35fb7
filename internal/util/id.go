package util

import "github.com/google/uuid"

// NewID generates a unique identifier (UUID v4) for activity records and
// invocation tracking.
func NewID() string { return uuid.NewString() }
