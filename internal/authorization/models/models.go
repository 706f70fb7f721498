// Package models holds the typed request/case pair for the authorization
// engine. The orchestrator used to pass these fields as a loose variable bag;
// the types here are the contract that replaces it.
package models

import (
	"strings"
	"time"

	id "autoriza/pkg/domain"
	dErrors "autoriza/pkg/domain-errors"
)

// RequestType classifies the requested procedure.
type RequestType string

const (
	RequestTypeConsultation    RequestType = "CONSULTATION"
	RequestTypeExam            RequestType = "EXAM"
	RequestTypeSurgery         RequestType = "SURGERY"
	RequestTypeHospitalization RequestType = "HOSPITALIZATION"
)

var validRequestTypes = map[RequestType]bool{
	RequestTypeConsultation:    true,
	RequestTypeExam:            true,
	RequestTypeSurgery:         true,
	RequestTypeHospitalization: true,
}

func (t RequestType) IsValid() bool { return validRequestTypes[t] }
func (t RequestType) String() string { return string(t) }

// Urgency grades the clinical urgency of the request.
type Urgency string

const (
	UrgencyRoutine   Urgency = "ROUTINE"
	UrgencyHigh      Urgency = "HIGH"
	UrgencyEmergency Urgency = "EMERGENCY"
)

var validUrgencies = map[Urgency]bool{
	UrgencyRoutine:   true,
	UrgencyHigh:      true,
	UrgencyEmergency: true,
}

func (u Urgency) IsValid() bool  { return validUrgencies[u] }
func (u Urgency) String() string { return string(u) }

// NetworkStatus reports whether the requesting provider belongs to the plan's
// contracted network. Unknown status is resolved through the identity
// directory before evaluation, never guessed.
type NetworkStatus string

const (
	NetworkStatusUnknown      NetworkStatus = ""
	NetworkStatusInNetwork    NetworkStatus = "IN_NETWORK"
	NetworkStatusOutOfNetwork NetworkStatus = "OUT_OF_NETWORK"
)

func (n NetworkStatus) IsValid() bool {
	return n == NetworkStatusInNetwork || n == NetworkStatusOutOfNetwork
}
func (n NetworkStatus) String() string { return string(n) }

// RoutingOutcome is the single decision produced per evaluation.
type RoutingOutcome string

const (
	OutcomeDeniedMissingJustification RoutingOutcome = "DENIED_MISSING_JUSTIFICATION"
	OutcomePendingCPTValidation       RoutingOutcome = "PENDING_CPT_VALIDATION"
	OutcomeApprovedEmergency          RoutingOutcome = "APPROVED_EMERGENCY"
	OutcomeDeniedWaitingPeriod        RoutingOutcome = "DENIED_WAITING_PERIOD"
	OutcomePendingNetworkApproval     RoutingOutcome = "PENDING_NETWORK_APPROVAL"
	OutcomePendingAudit               RoutingOutcome = "PENDING_AUDIT"
	OutcomeApprovedAutomatic          RoutingOutcome = "APPROVED_AUTOMATIC"
)

func (o RoutingOutcome) String() string { return string(o) }

// IsApproval reports whether the outcome auto-approves without human review.
func (o RoutingOutcome) IsApproval() bool {
	return o == OutcomeApprovedEmergency || o == OutcomeApprovedAutomatic
}

// IsDenial reports whether the outcome denies without human review.
func (o RoutingOutcome) IsDenial() bool {
	return o == OutcomeDeniedMissingJustification || o == OutcomeDeniedWaitingPeriod
}

// IsPending reports whether the outcome routes to a human reviewer.
func (o RoutingOutcome) IsPending() bool {
	return o == OutcomePendingCPTValidation ||
		o == OutcomePendingNetworkApproval ||
		o == OutcomePendingAudit
}

// ApprovalType records how an approved case was approved.
type ApprovalType string

const (
	ApprovalNone      ApprovalType = "NONE"
	ApprovalAutomatic ApprovalType = "AUTOMATIC"
	ApprovalEmergency ApprovalType = "EMERGENCY"
	ApprovalManual    ApprovalType = "MANUAL"
)

func (a ApprovalType) String() string { return string(a) }

// AuthorizationRequest is the immutable snapshot evaluated by the policy
// rules. Produced once by the upstream intake step.
type AuthorizationRequest struct {
	RequestID             id.RequestID
	BeneficiaryID         id.BeneficiaryID
	ProviderID            id.ProviderID
	RequestType           RequestType
	ProcedureCode         string
	EstimatedValue        id.Cents
	Urgency               Urgency
	ClinicalJustification string
	PreExistingCondition  bool
	EnrollmentDate        time.Time
	EvaluationDate        time.Time
	NetworkStatus         NetworkStatus
}

// HasJustification reports whether the clinical justification carries any
// non-whitespace content.
func (r AuthorizationRequest) HasJustification() bool {
	return strings.TrimSpace(r.ClinicalJustification) != ""
}

// EnrolledFor returns how long the beneficiary had been enrolled at
// evaluation time.
func (r AuthorizationRequest) EnrolledFor() time.Duration {
	return r.EvaluationDate.Sub(r.EnrollmentDate)
}

// Validate fails fast on malformed input so the evaluator never produces an
// outcome for a request it could not fully inspect.
func (r AuthorizationRequest) Validate() error {
	if strings.TrimSpace(r.RequestID.String()) == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "request id is required")
	}
	if strings.TrimSpace(r.BeneficiaryID.String()) == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "beneficiary id is required")
	}
	if strings.TrimSpace(r.ProviderID.String()) == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "provider id is required")
	}
	if !r.RequestType.IsValid() {
		return dErrors.New(dErrors.CodeInvalidRequest, "request type must be CONSULTATION, EXAM, SURGERY or HOSPITALIZATION")
	}
	if strings.TrimSpace(r.ProcedureCode) == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "procedure code is required")
	}
	if r.EstimatedValue.IsNegative() {
		return dErrors.New(dErrors.CodeInvalidRequest, "estimated value must not be negative")
	}
	if !r.Urgency.IsValid() {
		return dErrors.New(dErrors.CodeInvalidRequest, "urgency must be ROUTINE, HIGH or EMERGENCY")
	}
	if r.EnrollmentDate.IsZero() {
		return dErrors.New(dErrors.CodeInvalidRequest, "enrollment date is required")
	}
	if r.EvaluationDate.IsZero() {
		return dErrors.New(dErrors.CodeInvalidRequest, "evaluation date is required")
	}
	if r.EnrollmentDate.After(r.EvaluationDate) {
		return dErrors.New(dErrors.CodeInvalidRequest, "enrollment date must not be after evaluation date")
	}
	if !r.NetworkStatus.IsValid() {
		return dErrors.New(dErrors.CodeInvalidRequest, "provider network status is required")
	}
	return nil
}

// Evaluation is the evaluator's result: the routing outcome plus the code of
// the rule that fired, reported for audit.
type Evaluation struct {
	Outcome  RoutingOutcome
	RuleCode string
}

// ReviewerDecision is the external reviewer's verdict on a pending case.
type ReviewerDecision struct {
	Approve       bool
	Justification string
	ReviewerID    id.ReviewerID
	DecidedAt     time.Time
}

// Validate enforces the reviewer decision contract.
func (d ReviewerDecision) Validate() error {
	if strings.TrimSpace(d.ReviewerID.String()) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "reviewer id is required")
	}
	if !d.Approve && strings.TrimSpace(d.Justification) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "denial requires a justification")
	}
	return nil
}

// AuthorizationCase is the mutable case record. The engine only produces
// transitions on copies; persistence and per-case serialization are the
// orchestrator's concern.
type AuthorizationCase struct {
	ID            id.CaseID
	CorrelationID string

	// Snapshot of the evaluated request, retained for dossier compilation.
	Request AuthorizationRequest

	State        State
	Outcome      RoutingOutcome
	AppliedRule  string
	ApprovalType ApprovalType

	AuthorizationNumber string
	ValidFrom           *time.Time
	ValidUntil          *time.Time

	DenialReason  string
	AuditDecision *ReviewerDecision

	// LastAppliedInputID detects orchestrator duplicate delivery; replays
	// short-circuit without new side effects.
	LastAppliedInputID string

	// EventPublishedAt is set once the terminal event reached the broker, so
	// a replayed terminal transition can re-publish after a publish failure
	// without ever double-publishing.
	EventPublishedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so transitions never mutate the stored record
// before the save succeeds.
func (c AuthorizationCase) Clone() AuthorizationCase {
	clone := c
	if c.ValidFrom != nil {
		v := *c.ValidFrom
		clone.ValidFrom = &v
	}
	if c.ValidUntil != nil {
		v := *c.ValidUntil
		clone.ValidUntil = &v
	}
	if c.AuditDecision != nil {
		d := *c.AuditDecision
		clone.AuditDecision = &d
	}
	if c.EventPublishedAt != nil {
		t := *c.EventPublishedAt
		clone.EventPublishedAt = &t
	}
	return clone
}
