// Package lifecycle owns the authorization case's state transitions. All
// state writes happen here, on copies of the case; callers persist the
// returned record in a single save so a transition is atomic with respect to
// the fields it touches.
//
// Concurrency: the orchestrator guarantees at-most-one in-flight activation
// per case, so no locking happens here. As a second line of defense every
// transition detects duplicate delivery (replay short-circuit via the last
// applied input id) and out-of-order application (typed errors, state
// unchanged).
package lifecycle

import (
	"time"

	"autoriza/internal/authorization/models"
	id "autoriza/pkg/domain"
	dErrors "autoriza/pkg/domain-errors"
)

// Transition is the outcome of applying one input to a case: the updated copy
// plus the effects the caller must carry out before the invocation returns.
type Transition struct {
	Case     models.AuthorizationCase
	Replayed bool

	// IssueNumber is set on entry to APPROVED; the caller must attach an
	// authorization number via ApplyGrant before saving.
	IssueNumber bool

	// CompileDossier is set on entry to any pending state and on entry to a
	// decided state.
	CompileDossier bool

	// Notify is set whenever the beneficiary/provider must be told about the
	// new state.
	Notify bool

	// PublishEvent is set on entry to a decided state, and again on replay if
	// the previous invocation failed before the event reached the broker.
	PublishEvent bool
}

// ApplyGrant attaches an issued authorization number and validity window to
// the transitioned case. Kept here so number fields are only written as part
// of a transition.
func (t *Transition) ApplyGrant(number string, validFrom, validUntil time.Time) {
	t.Case.AuthorizationNumber = number
	t.Case.ValidFrom = &validFrom
	t.Case.ValidUntil = &validUntil
}

// MarkEventPublished records that the decided-state event reached the broker.
func (t *Transition) MarkEventPublished(at time.Time) {
	t.Case.EventPublishedAt = &at
}

// denialReasons maps rule denials to the reason recorded on the case.
var denialReasons = map[models.RoutingOutcome]string{
	models.OutcomeDeniedMissingJustification: "clinical justification missing or blank",
	models.OutcomeDeniedWaitingPeriod:        "waiting period for the requested procedure not satisfied",
}

// NewCase builds the initial RECEIVED case for a first evaluation.
func NewCase(caseID id.CaseID, correlationID string, req models.AuthorizationRequest, now time.Time) models.AuthorizationCase {
	return models.AuthorizationCase{
		ID:            caseID,
		CorrelationID: correlationID,
		Request:       req,
		State:         models.StateReceived,
		ApprovalType:  models.ApprovalNone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ApplyOutcome consumes a routing outcome as the case's first transition out
// of RECEIVED. Duplicate delivery of the same input id replays without new
// effects; any other input against a non-RECEIVED case is rejected.
func ApplyOutcome(c models.AuthorizationCase, ev models.Evaluation, inputID string, now time.Time) (Transition, error) {
	if replay, ok := replayOf(c, inputID); ok {
		return replay, nil
	}
	if c.State != models.StateReceived {
		return Transition{}, dErrors.New(dErrors.CodeConflict,
			"routing outcome already applied to case in state "+c.State.String())
	}

	next := c.Clone()
	next.Outcome = ev.Outcome
	next.AppliedRule = ev.RuleCode
	next.LastAppliedInputID = inputID
	next.UpdatedAt = now

	switch {
	case ev.Outcome.IsPending():
		state, _ := models.PendingStateFor(ev.Outcome)
		next.State = state
		return Transition{Case: next, CompileDossier: true, Notify: true}, nil

	case ev.Outcome == models.OutcomeApprovedEmergency:
		next.State = models.StateApproved
		next.ApprovalType = models.ApprovalEmergency
		return Transition{Case: next, IssueNumber: true, CompileDossier: true, Notify: true, PublishEvent: true}, nil

	case ev.Outcome == models.OutcomeApprovedAutomatic:
		next.State = models.StateApproved
		next.ApprovalType = models.ApprovalAutomatic
		return Transition{Case: next, IssueNumber: true, CompileDossier: true, Notify: true, PublishEvent: true}, nil

	case ev.Outcome.IsDenial():
		next.State = models.StateDenied
		next.DenialReason = denialReasons[ev.Outcome]
		return Transition{Case: next, CompileDossier: true, Notify: true, PublishEvent: true}, nil

	default:
		return Transition{}, dErrors.New(dErrors.CodeInternal,
			"unmapped routing outcome "+ev.Outcome.String())
	}
}

// ApplyReview consumes an external reviewer decision for a pending case.
// Decisions for a case not in a pending state are stale: logged by the caller
// and dropped, state unchanged.
func ApplyReview(c models.AuthorizationCase, decision models.ReviewerDecision, inputID string, now time.Time) (Transition, error) {
	if err := decision.Validate(); err != nil {
		return Transition{}, err
	}
	if replay, ok := replayOf(c, inputID); ok {
		return replay, nil
	}
	if !c.State.IsPending() {
		return Transition{}, dErrors.New(dErrors.CodeStaleDecision,
			"reviewer decision for case in state "+c.State.String())
	}

	next := c.Clone()
	decision.DecidedAt = now
	next.AuditDecision = &decision
	next.LastAppliedInputID = inputID
	next.UpdatedAt = now

	if decision.Approve {
		next.State = models.StateApproved
		next.ApprovalType = models.ApprovalManual
		return Transition{Case: next, IssueNumber: true, CompileDossier: true, Notify: true, PublishEvent: true}, nil
	}

	next.State = models.StateDenied
	next.DenialReason = decision.Justification
	return Transition{Case: next, CompileDossier: true, Notify: true, PublishEvent: true}, nil
}

// Close moves a decided case to CLOSED once notification and dossier steps
// completed. Closing an undecided case is rejected.
func Close(c models.AuthorizationCase, inputID string, now time.Time) (Transition, error) {
	if replay, ok := replayOf(c, inputID); ok {
		return replay, nil
	}
	if !c.State.IsDecided() {
		return Transition{}, dErrors.New(dErrors.CodeConflict,
			"only an APPROVED or DENIED case can be closed, case is "+c.State.String())
	}

	next := c.Clone()
	next.State = models.StateClosed
	next.LastAppliedInputID = inputID
	next.UpdatedAt = now
	return Transition{Case: next}, nil
}

// replayOf short-circuits duplicate delivery. The replayed transition carries
// no effects except re-publishing a decided-state event that never reached
// the broker.
func replayOf(c models.AuthorizationCase, inputID string) (Transition, bool) {
	if inputID == "" || c.LastAppliedInputID != inputID {
		return Transition{}, false
	}
	return Transition{
		Case:         c.Clone(),
		Replayed:     true,
		PublishEvent: c.State.IsDecided() && c.EventPublishedAt == nil,
	}, true
}
