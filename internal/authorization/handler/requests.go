package handler

import (
	"strings"
	"time"

	"autoriza/internal/authorization"
	"autoriza/internal/authorization/dossier"
	"autoriza/internal/authorization/models"
	id "autoriza/pkg/domain"
	dErrors "autoriza/pkg/domain-errors"
)

// EvidenceItemRequest is one clinical evidence entry riding along with a
// request snapshot.
type EvidenceItemRequest struct {
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Reference   string    `json:"reference,omitempty"`
	RecordedAt  time.Time `json:"recorded_at,omitzero"`
}

// EvaluateRequest is the HTTP request body for POST /authorizations/evaluate.
// CaseID is optional: omitted on first delivery, echoed back on orchestrator
// retries so the replay resolves to the same case.
type EvaluateRequest struct {
	CaseID  string `json:"case_id,omitempty"`
	InputID string `json:"input_id"`

	RequestID             string     `json:"request_id"`
	BeneficiaryID         string     `json:"beneficiary_id"`
	ProviderID            string     `json:"provider_id"`
	RequestType           string     `json:"request_type"`
	ProcedureCode         string     `json:"procedure_code"`
	EstimatedValueCents   int64      `json:"estimated_value_cents"`
	Urgency               string     `json:"urgency"`
	ClinicalJustification string     `json:"clinical_justification,omitempty"`
	PreExistingCondition  bool       `json:"pre_existing_condition,omitempty"`
	EnrollmentDate        *time.Time `json:"enrollment_date,omitempty"`
	NetworkStatus         string     `json:"network_status,omitempty"`

	Evidence    []EvidenceItemRequest `json:"evidence,omitempty"`
	RiskLevel   string                `json:"risk_level,omitempty"`
	Attachments []string              `json:"attachments,omitempty"`

	// Parsed values (populated by Validate)
	parsedCaseID id.CaseID
	parsedInput  authorization.Input
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.InputID = strings.TrimSpace(r.InputID)
	if r.InputID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "input_id is required")
	}

	r.CaseID = strings.TrimSpace(r.CaseID)
	if r.CaseID != "" {
		caseID, err := id.ParseCaseID(r.CaseID)
		if err != nil {
			return err
		}
		r.parsedCaseID = caseID
	}

	requestID, err := id.ParseRequestID(r.RequestID)
	if err != nil {
		return err
	}
	beneficiaryID, err := id.ParseBeneficiaryID(r.BeneficiaryID)
	if err != nil {
		return err
	}
	providerID, err := id.ParseProviderID(r.ProviderID)
	if err != nil {
		return err
	}
	if r.EstimatedValueCents < 0 {
		return dErrors.New(dErrors.CodeInvalidRequest, "estimated_value_cents must not be negative")
	}

	snapshot := models.AuthorizationRequest{
		RequestID:             requestID,
		BeneficiaryID:         beneficiaryID,
		ProviderID:            providerID,
		RequestType:           models.RequestType(strings.ToUpper(strings.TrimSpace(r.RequestType))),
		ProcedureCode:         strings.TrimSpace(r.ProcedureCode),
		EstimatedValue:        id.Cents(r.EstimatedValueCents),
		Urgency:               models.Urgency(strings.ToUpper(strings.TrimSpace(r.Urgency))),
		ClinicalJustification: r.ClinicalJustification,
		PreExistingCondition:  r.PreExistingCondition,
		NetworkStatus:         models.NetworkStatus(strings.ToUpper(strings.TrimSpace(r.NetworkStatus))),
	}
	if r.EnrollmentDate != nil {
		snapshot.EnrollmentDate = *r.EnrollmentDate
	}

	evidence := dossier.Evidence{
		RiskLevel:   strings.ToUpper(strings.TrimSpace(r.RiskLevel)),
		Attachments: r.Attachments,
	}
	for _, item := range r.Evidence {
		evidence.Clinical = append(evidence.Clinical, dossier.EvidenceItem{
			Kind:        strings.TrimSpace(item.Kind),
			Description: item.Description,
			Reference:   item.Reference,
			RecordedAt:  item.RecordedAt,
		})
	}

	r.parsedInput = authorization.Input{
		InputID:  r.InputID,
		Snapshot: &snapshot,
		Evidence: evidence,
	}
	return nil
}

// ParsedCaseID returns the validated case id, zero when omitted.
func (r *EvaluateRequest) ParsedCaseID() id.CaseID {
	return r.parsedCaseID
}

// ParsedInput returns the validated engine input.
func (r *EvaluateRequest) ParsedInput() authorization.Input {
	return r.parsedInput
}

// ReviewRequest is the HTTP request body for
// POST /authorizations/{caseID}/review. The reviewer identity comes from the
// authenticated token, never from the body.
type ReviewRequest struct {
	InputID       string `json:"input_id"`
	Approve       bool   `json:"approve"`
	Justification string `json:"justification,omitempty"`

	parsedInput authorization.Input
}

// Validate validates and parses the request.
func (r *ReviewRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.InputID = strings.TrimSpace(r.InputID)
	if r.InputID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "input_id is required")
	}
	if !r.Approve && strings.TrimSpace(r.Justification) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "denial requires a justification")
	}

	r.parsedInput = authorization.Input{
		InputID: r.InputID,
		Decision: &models.ReviewerDecision{
			Approve:       r.Approve,
			Justification: r.Justification,
		},
	}
	return nil
}

// ParsedInput returns the validated engine input.
func (r *ReviewRequest) ParsedInput() authorization.Input {
	return r.parsedInput
}

// CloseRequest is the HTTP request body for
// POST /authorizations/{caseID}/close.
type CloseRequest struct {
	InputID string `json:"input_id"`

	parsedInput authorization.Input
}

// Validate validates and parses the request.
func (r *CloseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.InputID = strings.TrimSpace(r.InputID)
	if r.InputID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "input_id is required")
	}

	r.parsedInput = authorization.Input{
		InputID: r.InputID,
		Close:   true,
	}
	return nil
}

// ParsedInput returns the validated engine input.
func (r *CloseRequest) ParsedInput() authorization.Input {
	return r.parsedInput
}
