// Package audit records the per-case transition trail required for
// regulatory review of authorization decisions.
package audit

import (
	"context"
	"time"

	id "autoriza/pkg/domain"
)

// Action names what happened to a case.
type Action string

const (
	ActionCaseCreated    Action = "case_created"
	ActionOutcomeApplied Action = "outcome_applied"
	ActionReviewApplied  Action = "review_applied"
	ActionCaseClosed     Action = "case_closed"
	ActionReplayDetected Action = "replay_detected"
	ActionEventPublished Action = "event_published"
)

// Entry is one line of the case's transition trail. Kept transport-agnostic
// so stores can fan out.
type Entry struct {
	CaseID        id.CaseID
	CorrelationID string
	Action        Action
	State         string
	Outcome       string
	AppliedRule   string
	ReviewerID    id.ReviewerID
	Detail        string
	Timestamp     time.Time
}

// Store persists trail entries. Append-only.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByCase(ctx context.Context, caseID id.CaseID) ([]Entry, error)
}
