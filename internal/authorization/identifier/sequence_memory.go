package identifier

import (
	"context"
	"sync"

	"autoriza/pkg/platform/sentinel"
)

// InMemorySequence is a process-local allocator for tests and single-node
// deployments.
type InMemorySequence struct {
	mu   sync.Mutex
	next uint64
}

func NewInMemorySequence() *InMemorySequence {
	return &InMemorySequence{next: 1}
}

func (s *InMemorySequence) Next(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.next
	s.next++
	return n, nil
}

// InMemoryRegistry tracks reserved numbers in memory.
type InMemoryRegistry struct {
	mu       sync.Mutex
	reserved map[string]bool
}

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{reserved: make(map[string]bool)}
}

func (r *InMemoryRegistry) Reserve(_ context.Context, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reserved[number] {
		return sentinel.ErrConflict
	}
	r.reserved[number] = true
	return nil
}
