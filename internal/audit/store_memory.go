package audit

import (
	"context"
	"sync"

	id "autoriza/pkg/domain"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[id.CaseID][]Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[id.CaseID][]Entry)}
}

func (s *InMemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.CaseID] = append(s.entries[entry.CaseID], entry)
	return nil
}

func (s *InMemoryStore) ListByCase(_ context.Context, caseID id.CaseID) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry{}, s.entries[caseID]...), nil
}
