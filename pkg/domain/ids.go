// Package domain holds identifier types shared across the engine. Parsing
// enforces invariants at trust boundaries so services can assume well-formed
// ids everywhere else.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "autoriza/pkg/domain-errors"
)

// CaseID identifies an authorization case. Backed by a UUID because the engine
// mints it; external ids stay opaque strings.
type CaseID struct {
	value uuid.UUID
}

// NewCaseID mints a fresh case id.
func NewCaseID() CaseID {
	return CaseID{value: uuid.New()}
}

// ParseCaseID validates a case id string. Must be a valid, non-nil UUID.
func ParseCaseID(s string) (CaseID, error) {
	if strings.TrimSpace(s) == "" {
		return CaseID{}, dErrors.New(dErrors.CodeBadRequest, "case id must not be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return CaseID{}, dErrors.New(dErrors.CodeBadRequest, "case id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return CaseID{}, dErrors.New(dErrors.CodeBadRequest, "case id must not be the nil UUID")
	}
	return CaseID{value: parsed}, nil
}

func (id CaseID) String() string { return id.value.String() }
func (id CaseID) IsZero() bool   { return id.value == uuid.Nil }

// MarshalText makes case ids serialize as plain UUID strings in JSON.
func (id CaseID) MarshalText() ([]byte, error) {
	return []byte(id.value.String()), nil
}

func (id *CaseID) UnmarshalText(text []byte) error {
	parsed, err := ParseCaseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// RequestID is the upstream intake identifier for an authorization request.
type RequestID string

// BeneficiaryID identifies the plan member the procedure is requested for.
type BeneficiaryID string

// ProviderID identifies the requesting provider.
type ProviderID string

// ReviewerID identifies the human reviewer who decided a pending case.
type ReviewerID string

// ParseRequestID rejects blank request ids. Upstream systems own the format.
func ParseRequestID(s string) (RequestID, error) {
	if strings.TrimSpace(s) == "" {
		return "", dErrors.New(dErrors.CodeInvalidRequest, "request id is required")
	}
	return RequestID(s), nil
}

func ParseBeneficiaryID(s string) (BeneficiaryID, error) {
	if strings.TrimSpace(s) == "" {
		return "", dErrors.New(dErrors.CodeInvalidRequest, "beneficiary id is required")
	}
	return BeneficiaryID(s), nil
}

func ParseProviderID(s string) (ProviderID, error) {
	if strings.TrimSpace(s) == "" {
		return "", dErrors.New(dErrors.CodeInvalidRequest, "provider id is required")
	}
	return ProviderID(s), nil
}

func ParseReviewerID(s string) (ReviewerID, error) {
	if strings.TrimSpace(s) == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "reviewer id is required")
	}
	return ReviewerID(s), nil
}

func (id RequestID) String() string     { return string(id) }
func (id BeneficiaryID) String() string { return string(id) }
func (id ProviderID) String() string    { return string(id) }
func (id ReviewerID) String() string    { return string(id) }

// NewCorrelationID mints a correlation id for a case when the caller did not
// supply one. Caller-supplied ids are propagated unchanged, whatever their
// format.
func NewCorrelationID() string {
	return uuid.NewString()
}
