// Package policy carries the tunable parameters of the decision rules. The
// numbers live here, not in the rule code, so routing behavior can be adjusted
// per deployment without touching control flow.
package policy

import (
	"fmt"
	"time"

	"autoriza/internal/authorization/models"
	id "autoriza/pkg/domain"
)

// Day is the unit waiting periods are expressed in.
const Day = 24 * time.Hour

// Config holds the tunable decision parameters.
type Config struct {
	// AuditThreshold routes requests strictly above this value to manual
	// audit. Exactly at the threshold still auto-approves.
	AuditThreshold id.Cents

	// WaitingPeriods is the minimum enrolled duration per request type for
	// elective procedures. Emergencies bypass it by regulation.
	WaitingPeriods map[models.RequestType]time.Duration
}

// Default returns the policy shipped with the engine: 10 000 currency units
// audit threshold, 180-day waiting period for every elective type.
func Default() Config {
	return Config{
		AuditThreshold: id.CentsFromUnits(10_000),
		WaitingPeriods: map[models.RequestType]time.Duration{
			models.RequestTypeConsultation:    180 * Day,
			models.RequestTypeExam:            180 * Day,
			models.RequestTypeSurgery:         180 * Day,
			models.RequestTypeHospitalization: 180 * Day,
		},
	}
}

// WaitingPeriod returns the waiting period for the request type, falling back
// to the longest configured period for unknown types so a config gap never
// shortens a carência.
func (c Config) WaitingPeriod(t models.RequestType) time.Duration {
	if d, ok := c.WaitingPeriods[t]; ok {
		return d
	}
	var longest time.Duration
	for _, d := range c.WaitingPeriods {
		if d > longest {
			longest = d
		}
	}
	return longest
}

// Validate rejects configs that would make the rules unsound.
func (c Config) Validate() error {
	if c.AuditThreshold.IsNegative() {
		return fmt.Errorf("audit threshold must not be negative")
	}
	if len(c.WaitingPeriods) == 0 {
		return fmt.Errorf("at least one waiting period is required")
	}
	for t, d := range c.WaitingPeriods {
		if d < 0 {
			return fmt.Errorf("waiting period for %s must not be negative", t)
		}
	}
	return nil
}
