package ports

import (
	"context"

	"autoriza/internal/authorization/dossier"
	"autoriza/internal/authorization/models"
	id "autoriza/pkg/domain"
)

// CaseStore persists authorization cases. Implementations return
// sentinel.ErrNotFound for missing cases and sentinel.ErrConflict on
// concurrent-update collisions.
type CaseStore interface {
	// Load retrieves a case by id.
	Load(ctx context.Context, caseID id.CaseID) (models.AuthorizationCase, error)

	// Save writes the case, replacing any previous version.
	Save(ctx context.Context, c models.AuthorizationCase) error
}

// DossierStore persists compiled dossiers. Dossiers are append-only:
// every compile produces a new version keyed by compile timestamp.
type DossierStore interface {
	// Save appends a compiled dossier version.
	Save(ctx context.Context, d dossier.Dossier) error

	// Latest retrieves the most recently compiled dossier for a case.
	// Returns sentinel.ErrNotFound when none was compiled yet.
	Latest(ctx context.Context, caseID id.CaseID) (dossier.Dossier, error)
}
