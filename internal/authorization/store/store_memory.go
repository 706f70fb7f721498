package store

import (
	"context"
	"sync"

	"autoriza/internal/authorization/dossier"
	"autoriza/internal/authorization/models"
	id "autoriza/pkg/domain"
	"autoriza/pkg/platform/sentinel"
)

// InMemoryCaseStore holds cases in process memory. Used by tests and
// single-node development runs.
type InMemoryCaseStore struct {
	mu    sync.RWMutex
	cases map[id.CaseID]models.AuthorizationCase
}

func NewInMemoryCaseStore() *InMemoryCaseStore {
	return &InMemoryCaseStore{cases: make(map[id.CaseID]models.AuthorizationCase)}
}

func (s *InMemoryCaseStore) Load(_ context.Context, caseID id.CaseID) (models.AuthorizationCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[caseID]
	if !ok {
		return models.AuthorizationCase{}, sentinel.ErrNotFound
	}
	return c.Clone(), nil
}

func (s *InMemoryCaseStore) Save(_ context.Context, c models.AuthorizationCase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cases[c.ID] = c.Clone()
	return nil
}

// InMemoryDossierStore keeps every compiled dossier version per case.
type InMemoryDossierStore struct {
	mu       sync.RWMutex
	dossiers map[id.CaseID][]dossier.Dossier
}

func NewInMemoryDossierStore() *InMemoryDossierStore {
	return &InMemoryDossierStore{dossiers: make(map[id.CaseID][]dossier.Dossier)}
}

func (s *InMemoryDossierStore) Save(_ context.Context, d dossier.Dossier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dossiers[d.CaseID] = append(s.dossiers[d.CaseID], d)
	return nil
}

func (s *InMemoryDossierStore) Latest(_ context.Context, caseID id.CaseID) (dossier.Dossier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions := s.dossiers[caseID]
	if len(versions) == 0 {
		return dossier.Dossier{}, sentinel.ErrNotFound
	}
	return versions[len(versions)-1], nil
}

// Versions returns how many dossier versions were compiled for the case.
func (s *InMemoryDossierStore) Versions(caseID id.CaseID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dossiers[caseID])
}
