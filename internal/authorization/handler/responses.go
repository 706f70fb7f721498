package handler

import (
	"time"

	"autoriza/internal/authorization"
	"autoriza/internal/authorization/models"
	"autoriza/internal/authorization/notification"
)

// TransitionResponse is the HTTP response for every transition endpoint.
type TransitionResponse struct {
	CaseID              string                `json:"case_id"`
	CorrelationID       string                `json:"correlation_id"`
	State               string                `json:"state"`
	Outcome             string                `json:"outcome,omitempty"`
	AppliedRule         string                `json:"applied_rule,omitempty"`
	AuthorizationNumber string                `json:"authorization_number,omitempty"`
	ValidFrom           *time.Time            `json:"valid_from,omitempty"`
	ValidUntil          *time.Time            `json:"valid_until,omitempty"`
	DenialReason        string                `json:"denial_reason,omitempty"`
	Replayed            bool                  `json:"replayed"`
	Notifications       []DirectiveResponse   `json:"notifications"`
}

// DirectiveResponse is one notification routing directive in the response.
type DirectiveResponse struct {
	Recipient     string `json:"recipient"`
	RecipientKind string `json:"recipient_kind"`
	Channel       string `json:"channel"`
	Priority      string `json:"priority"`
}

// FromResult converts an engine result to an HTTP response.
func FromResult(result *authorization.Result) *TransitionResponse {
	return &TransitionResponse{
		CaseID:              result.CaseID.String(),
		CorrelationID:       result.CorrelationID,
		State:               result.State.String(),
		Outcome:             result.Outcome.String(),
		AppliedRule:         result.AppliedRule,
		AuthorizationNumber: result.AuthorizationNumber,
		ValidFrom:           result.ValidFrom,
		ValidUntil:          result.ValidUntil,
		DenialReason:        result.DenialReason,
		Replayed:            result.Replayed,
		Notifications:       fromDirectives(result.Directives),
	}
}

func fromDirectives(directives []notification.Directive) []DirectiveResponse {
	out := make([]DirectiveResponse, 0, len(directives))
	for _, d := range directives {
		out = append(out, DirectiveResponse{
			Recipient:     d.Recipient,
			RecipientKind: string(d.Kind),
			Channel:       string(d.Channel),
			Priority:      string(d.Priority),
		})
	}
	return out
}

// CaseResponse is the HTTP response for GET /authorizations/{caseID}.
type CaseResponse struct {
	CaseID              string     `json:"case_id"`
	CorrelationID       string     `json:"correlation_id"`
	RequestID           string     `json:"request_id"`
	BeneficiaryID       string     `json:"beneficiary_id"`
	ProviderID          string     `json:"provider_id"`
	State               string     `json:"state"`
	Outcome             string     `json:"outcome,omitempty"`
	AppliedRule         string     `json:"applied_rule,omitempty"`
	ApprovalType        string     `json:"approval_type"`
	AuthorizationNumber string     `json:"authorization_number,omitempty"`
	ValidFrom           *time.Time `json:"valid_from,omitempty"`
	ValidUntil          *time.Time `json:"valid_until,omitempty"`
	DenialReason        string     `json:"denial_reason,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// FromCase converts a case record to an HTTP response.
func FromCase(c models.AuthorizationCase) *CaseResponse {
	return &CaseResponse{
		CaseID:              c.ID.String(),
		CorrelationID:       c.CorrelationID,
		RequestID:           c.Request.RequestID.String(),
		BeneficiaryID:       c.Request.BeneficiaryID.String(),
		ProviderID:          c.Request.ProviderID.String(),
		State:               c.State.String(),
		Outcome:             c.Outcome.String(),
		AppliedRule:         c.AppliedRule,
		ApprovalType:        c.ApprovalType.String(),
		AuthorizationNumber: c.AuthorizationNumber,
		ValidFrom:           c.ValidFrom,
		ValidUntil:          c.ValidUntil,
		DenialReason:        c.DenialReason,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}
