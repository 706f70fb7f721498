package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "autoriza/pkg/domain"
	dErrors "autoriza/pkg/domain-errors"
)

func validRequest() AuthorizationRequest {
	eval := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	return AuthorizationRequest{
		RequestID:             "GUIA-2025-000123",
		BeneficiaryID:         "BEN-998877",
		ProviderID:            "PRE-1001",
		RequestType:           RequestTypeConsultation,
		ProcedureCode:         "10101012",
		EstimatedValue:        id.CentsFromUnits(250),
		Urgency:               UrgencyRoutine,
		ClinicalJustification: "persistent chest pain on exertion",
		EnrollmentDate:        eval.AddDate(-2, 0, 0),
		EvaluationDate:        eval,
		NetworkStatus:         NetworkStatusInNetwork,
	}
}

func TestAuthorizationRequest_Validate(t *testing.T) {
	t.Run("accepts well-formed request", func(t *testing.T) {
		require.NoError(t, validRequest().Validate())
	})

	tests := []struct {
		name   string
		mutate func(*AuthorizationRequest)
	}{
		{"missing request id", func(r *AuthorizationRequest) { r.RequestID = " " }},
		{"missing beneficiary id", func(r *AuthorizationRequest) { r.BeneficiaryID = "" }},
		{"missing provider id", func(r *AuthorizationRequest) { r.ProviderID = "" }},
		{"unknown request type", func(r *AuthorizationRequest) { r.RequestType = "DENTAL" }},
		{"missing procedure code", func(r *AuthorizationRequest) { r.ProcedureCode = "" }},
		{"negative estimated value", func(r *AuthorizationRequest) { r.EstimatedValue = -1 }},
		{"unknown urgency", func(r *AuthorizationRequest) { r.Urgency = "CRITICAL" }},
		{"zero enrollment date", func(r *AuthorizationRequest) { r.EnrollmentDate = time.Time{} }},
		{"zero evaluation date", func(r *AuthorizationRequest) { r.EvaluationDate = time.Time{} }},
		{"enrollment after evaluation", func(r *AuthorizationRequest) {
			r.EnrollmentDate = r.EvaluationDate.AddDate(0, 0, 1)
		}},
		{"unknown network status", func(r *AuthorizationRequest) { r.NetworkStatus = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidRequest), "want invalid_request, got %v", err)
		})
	}
}

func TestAuthorizationRequest_HasJustification(t *testing.T) {
	req := validRequest()
	assert.True(t, req.HasJustification())

	req.ClinicalJustification = "   \t\n"
	assert.False(t, req.HasJustification())

	req.ClinicalJustification = ""
	assert.False(t, req.HasJustification())
}

func TestReviewerDecision_Validate(t *testing.T) {
	t.Run("denial without justification rejected", func(t *testing.T) {
		d := ReviewerDecision{Approve: false, ReviewerID: "REV-1"}
		err := d.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("approval without justification allowed", func(t *testing.T) {
		d := ReviewerDecision{Approve: true, ReviewerID: "REV-1"}
		require.NoError(t, d.Validate())
	})

	t.Run("missing reviewer rejected", func(t *testing.T) {
		d := ReviewerDecision{Approve: true}
		require.Error(t, d.Validate())
	})
}

func TestState_Classification(t *testing.T) {
	assert.True(t, StatePendingAudit.IsPending())
	assert.True(t, StatePendingCPTValidation.IsPending())
	assert.True(t, StatePendingNetworkApproval.IsPending())
	assert.False(t, StateApproved.IsPending())

	assert.True(t, StateClosed.IsTerminal())
	assert.False(t, StateApproved.IsTerminal())

	assert.True(t, StateApproved.IsDecided())
	assert.True(t, StateDenied.IsDecided())
	assert.False(t, StateReceived.IsDecided())

	assert.False(t, State("UNKNOWN").IsValid())
}

func TestPendingStateFor(t *testing.T) {
	s, ok := PendingStateFor(OutcomePendingAudit)
	require.True(t, ok)
	assert.Equal(t, StatePendingAudit, s)

	_, ok = PendingStateFor(OutcomeApprovedAutomatic)
	assert.False(t, ok)
}

func TestRoutingOutcome_Classification(t *testing.T) {
	assert.True(t, OutcomeApprovedEmergency.IsApproval())
	assert.True(t, OutcomeApprovedAutomatic.IsApproval())
	assert.True(t, OutcomeDeniedWaitingPeriod.IsDenial())
	assert.True(t, OutcomeDeniedMissingJustification.IsDenial())
	assert.True(t, OutcomePendingCPTValidation.IsPending())
	assert.False(t, OutcomeApprovedAutomatic.IsPending())
}

func TestAuthorizationCase_Clone(t *testing.T) {
	now := time.Now()
	until := now.AddDate(0, 0, 30)
	c := AuthorizationCase{
		ID:         id.NewCaseID(),
		State:      StateApproved,
		ValidFrom:  &now,
		ValidUntil: &until,
		AuditDecision: &ReviewerDecision{
			Approve:    true,
			ReviewerID: "REV-9",
		},
	}

	clone := c.Clone()
	*clone.ValidUntil = clone.ValidUntil.AddDate(0, 0, 10)
	clone.AuditDecision.ReviewerID = "REV-0"

	assert.Equal(t, until, *c.ValidUntil, "clone must not share validity pointers")
	assert.Equal(t, id.ReviewerID("REV-9"), c.AuditDecision.ReviewerID, "clone must not share decision pointer")
}
