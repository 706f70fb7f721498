package ports

import (
	"context"
	"time"

	"autoriza/internal/authorization/models"
	id "autoriza/pkg/domain"
)

// IdentityDirectory resolves beneficiary and provider master data that a
// request snapshot may arrive without. Lookups are independent and safe to
// run in parallel.
type IdentityDirectory interface {
	// EnrollmentDate returns when the beneficiary's plan coverage started.
	EnrollmentDate(ctx context.Context, beneficiaryID id.BeneficiaryID) (time.Time, error)

	// NetworkStatus returns whether the provider is in the plan's network.
	NetworkStatus(ctx context.Context, providerID id.ProviderID) (models.NetworkStatus, error)
}
