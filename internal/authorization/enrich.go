package authorization

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"autoriza/internal/authorization/models"
	dErrors "autoriza/pkg/domain-errors"
)

// enrich resolves master data the snapshot arrived without. Enrollment date
// and network status come from the identity directory, fetched in parallel.
// Data that cannot be resolved stays missing and fails validation; the engine
// never guesses.
func (s *Service) enrich(ctx context.Context, snapshot models.AuthorizationRequest, now time.Time) (models.AuthorizationRequest, error) {
	if snapshot.EvaluationDate.IsZero() {
		snapshot.EvaluationDate = now
	}

	needEnrollment := snapshot.EnrollmentDate.IsZero()
	needNetwork := !snapshot.NetworkStatus.IsValid()
	if !needEnrollment && !needNetwork {
		return snapshot, nil
	}
	if s.directory == nil {
		// Validation reports the missing fields with field-level messages.
		return snapshot, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	var (
		enrollment time.Time
		network    models.NetworkStatus
	)
	if needEnrollment {
		g.Go(func() error {
			var err error
			enrollment, err = s.directory.EnrollmentDate(gctx, snapshot.BeneficiaryID)
			if err != nil {
				return dErrors.Wrap(dErrors.CodeInvalidRequest,
					"enrollment date unavailable for beneficiary", err)
			}
			return nil
		})
	}
	if needNetwork {
		g.Go(func() error {
			var err error
			network, err = s.directory.NetworkStatus(gctx, snapshot.ProviderID)
			if err != nil {
				return dErrors.Wrap(dErrors.CodeInvalidRequest,
					"network status unavailable for provider", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.AuthorizationRequest{}, err
	}

	if needEnrollment {
		snapshot.EnrollmentDate = enrollment
	}
	if needNetwork {
		snapshot.NetworkStatus = network
	}
	return snapshot, nil
}
