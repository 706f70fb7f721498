// Package dossier assembles the compliance-retained evidence bundle backing
// an authorization decision.
package dossier

import (
	"time"

	"autoriza/internal/authorization/models"
	id "autoriza/pkg/domain"
)

// Regulatory constants. Retention and schema are fixed by regulation, not
// configuration.
const (
	RetentionYears = 10
	SchemaVersion  = "1.0"
	PreparedBy     = "AUTHORIZATION_ENGINE"
)

// EvidenceItem is one piece of clinical evidence backing the request.
type EvidenceItem struct {
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Reference   string    `json:"reference,omitempty"`
	RecordedAt  time.Time `json:"recorded_at,omitzero"`
}

// Evidence is the caller-supplied input to a compile call: clinical items
// plus any attachment references riding along with the request.
type Evidence struct {
	Clinical    []EvidenceItem
	RiskLevel   string
	Attachments []string
}

// DecisionRecord captures the decision as known at compile time.
type DecisionRecord struct {
	State        models.State          `json:"state"`
	Outcome      models.RoutingOutcome `json:"outcome,omitempty"`
	AppliedRule  string                `json:"applied_rule,omitempty"`
	ApprovalType models.ApprovalType   `json:"approval_type"`
	DenialReason string                `json:"denial_reason,omitempty"`
	ReviewerID   id.ReviewerID         `json:"reviewer_id,omitempty"`
	DecidedAt    *time.Time            `json:"decided_at,omitempty"`
}

// Compliance is the regulatory metadata stamped on every dossier.
type Compliance struct {
	RetentionYears      int    `json:"retention_years"`
	RegulatoryCompliant bool   `json:"regulatory_compliant"`
	SchemaVersion       string `json:"schema_version"`
	PreparedBy          string `json:"prepared_by"`
}

// Dossier is the compiled bundle. Built all-or-nothing per compile call and
// versioned by compile timestamp.
type Dossier struct {
	CaseID     id.CaseID       `json:"case_id"`
	CompiledAt time.Time       `json:"compiled_at"`
	Documents  []string        `json:"documents"`
	Evidence   []EvidenceItem  `json:"evidence"`
	RiskLevel  string          `json:"risk_level"`
	Decision   *DecisionRecord `json:"decision,omitempty"`
	Complete   bool            `json:"complete"`
	Compliance Compliance      `json:"compliance"`
}
