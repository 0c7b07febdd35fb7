package activity

import (
	"context"
	"sync"

	"github.com/hupe1980/shopmesh/core"
)

// Compile-time interface check.
var _ core.ActivityLogger = (*InMemoryStore)(nil)

// InMemoryStore is a volatile ActivityLogger keeping records in a process
// local slice. It is safe for concurrent access and best suited for tests
// or ephemeral demos.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []core.ActivityRecord
}

// NewInMemoryStore constructs an empty in-memory activity store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Log appends the record.
func (s *InMemoryStore) Log(_ context.Context, record core.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Records returns a copy of all stored records in insertion order.
func (s *InMemoryStore) Records() []core.ActivityRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.ActivityRecord(nil), s.records...)
}

// ByAgent returns the records produced by the named agent, oldest first.
func (s *InMemoryStore) ByAgent(agentName string) []core.ActivityRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []core.ActivityRecord
	for _, record := range s.records {
		if record.AgentName == agentName {
			matched = append(matched, record)
		}
	}
	return matched
}

// Len reports the number of stored records.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
