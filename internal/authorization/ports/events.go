package ports

import (
	"context"
	"time"

	"autoriza/internal/authorization/models"
	id "autoriza/pkg/domain"
)

// DecisionEvent is the durable record of a case reaching a decided state.
// Published exactly once per case, after the decided case is persisted.
type DecisionEvent struct {
	CaseID              id.CaseID             `json:"case_id"`
	CorrelationID       string                `json:"correlation_id"`
	RequestID           id.RequestID          `json:"request_id"`
	BeneficiaryID       id.BeneficiaryID      `json:"beneficiary_id"`
	State               models.State          `json:"state"`
	Outcome             models.RoutingOutcome `json:"outcome"`
	AppliedRule         string                `json:"applied_rule,omitempty"`
	AuthorizationNumber string                `json:"authorization_number,omitempty"`
	DenialReason        string                `json:"denial_reason,omitempty"`
	OccurredAt          time.Time             `json:"occurred_at"`
}

// EventPublisher emits decision events to the durable event stream.
// Defined here so the engine does not depend on any broker client.
type EventPublisher interface {
	PublishDecision(ctx context.Context, ev DecisionEvent) error
}
