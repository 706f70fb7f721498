package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"autoriza/internal/authorization/dossier"
	"autoriza/internal/authorization/models"
	id "autoriza/pkg/domain"
	"autoriza/pkg/platform/sentinel"
)

// PostgresCaseStore persists authorization cases in PostgreSQL. The request
// snapshot and reviewer decision travel as JSONB documents; the columns the
// engine queries on stay relational.
type PostgresCaseStore struct {
	pool *pgxpool.Pool
}

// NewPostgresCaseStore constructs a PostgreSQL-backed case store.
func NewPostgresCaseStore(pool *pgxpool.Pool) *PostgresCaseStore {
	return &PostgresCaseStore{pool: pool}
}

const upsertCaseSQL = `
INSERT INTO authorization_cases (
	id, correlation_id, request, state, outcome, applied_rule, approval_type,
	authorization_number, valid_from, valid_until, denial_reason,
	audit_decision, last_applied_input_id, event_published_at,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (id) DO UPDATE SET
	correlation_id = EXCLUDED.correlation_id,
	request = EXCLUDED.request,
	state = EXCLUDED.state,
	outcome = EXCLUDED.outcome,
	applied_rule = EXCLUDED.applied_rule,
	approval_type = EXCLUDED.approval_type,
	authorization_number = EXCLUDED.authorization_number,
	valid_from = EXCLUDED.valid_from,
	valid_until = EXCLUDED.valid_until,
	denial_reason = EXCLUDED.denial_reason,
	audit_decision = EXCLUDED.audit_decision,
	last_applied_input_id = EXCLUDED.last_applied_input_id,
	event_published_at = EXCLUDED.event_published_at,
	updated_at = EXCLUDED.updated_at`

const selectCaseSQL = `
SELECT id, correlation_id, request, state, outcome, applied_rule, approval_type,
	authorization_number, valid_from, valid_until, denial_reason,
	audit_decision, last_applied_input_id, event_published_at,
	created_at, updated_at
FROM authorization_cases
WHERE id = $1`

func (s *PostgresCaseStore) Save(ctx context.Context, c models.AuthorizationCase) error {
	request, err := json.Marshal(caseRequestRow(c.Request))
	if err != nil {
		return fmt.Errorf("marshal request snapshot: %w", err)
	}
	var decision []byte
	if c.AuditDecision != nil {
		decision, err = json.Marshal(reviewerDecisionRow(*c.AuditDecision))
		if err != nil {
			return fmt.Errorf("marshal audit decision: %w", err)
		}
	}

	_, err = s.pool.Exec(ctx, upsertCaseSQL,
		c.ID.String(), c.CorrelationID, request,
		string(c.State), string(c.Outcome), c.AppliedRule, string(c.ApprovalType),
		c.AuthorizationNumber, c.ValidFrom, c.ValidUntil, c.DenialReason,
		decision, c.LastAppliedInputID, c.EventPublishedAt,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save authorization case: %w", err)
	}
	return nil
}

func (s *PostgresCaseStore) Load(ctx context.Context, caseID id.CaseID) (models.AuthorizationCase, error) {
	row := s.pool.QueryRow(ctx, selectCaseSQL, caseID.String())

	var (
		rawID, state, outcome, approvalType string
		request, decision                   []byte
		c                                   models.AuthorizationCase
	)
	err := row.Scan(
		&rawID, &c.CorrelationID, &request, &state, &outcome, &c.AppliedRule,
		&approvalType, &c.AuthorizationNumber, &c.ValidFrom, &c.ValidUntil,
		&c.DenialReason, &decision, &c.LastAppliedInputID, &c.EventPublishedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AuthorizationCase{}, sentinel.ErrNotFound
		}
		return models.AuthorizationCase{}, fmt.Errorf("load authorization case: %w", err)
	}

	c.ID, err = id.ParseCaseID(rawID)
	if err != nil {
		return models.AuthorizationCase{}, fmt.Errorf("stored case id invalid: %w", err)
	}
	c.State = models.State(state)
	c.Outcome = models.RoutingOutcome(outcome)
	c.ApprovalType = models.ApprovalType(approvalType)

	var reqRow requestRow
	if err := json.Unmarshal(request, &reqRow); err != nil {
		return models.AuthorizationCase{}, fmt.Errorf("unmarshal request snapshot: %w", err)
	}
	c.Request = reqRow.toModel()

	if len(decision) > 0 {
		var decRow decisionRow
		if err := json.Unmarshal(decision, &decRow); err != nil {
			return models.AuthorizationCase{}, fmt.Errorf("unmarshal audit decision: %w", err)
		}
		c.AuditDecision = decRow.toModel()
	}
	return c, nil
}

// requestRow is the JSONB shape of the request snapshot. Kept separate from
// the domain model so the stored format does not shift when the model grows.
type requestRow struct {
	RequestID             string    `json:"request_id"`
	BeneficiaryID         string    `json:"beneficiary_id"`
	ProviderID            string    `json:"provider_id"`
	RequestType           string    `json:"request_type"`
	ProcedureCode         string    `json:"procedure_code"`
	EstimatedValueCents   int64     `json:"estimated_value_cents"`
	Urgency               string    `json:"urgency"`
	ClinicalJustification string    `json:"clinical_justification"`
	PreExistingCondition  bool      `json:"pre_existing_condition"`
	EnrollmentDate        time.Time `json:"enrollment_date"`
	EvaluationDate        time.Time `json:"evaluation_date"`
	NetworkStatus         string    `json:"network_status"`
}

func caseRequestRow(r models.AuthorizationRequest) requestRow {
	return requestRow{
		RequestID:             r.RequestID.String(),
		BeneficiaryID:         r.BeneficiaryID.String(),
		ProviderID:            r.ProviderID.String(),
		RequestType:           string(r.RequestType),
		ProcedureCode:         r.ProcedureCode,
		EstimatedValueCents:   int64(r.EstimatedValue),
		Urgency:               string(r.Urgency),
		ClinicalJustification: r.ClinicalJustification,
		PreExistingCondition:  r.PreExistingCondition,
		EnrollmentDate:        r.EnrollmentDate,
		EvaluationDate:        r.EvaluationDate,
		NetworkStatus:         string(r.NetworkStatus),
	}
}

func (r requestRow) toModel() models.AuthorizationRequest {
	return models.AuthorizationRequest{
		RequestID:             id.RequestID(r.RequestID),
		BeneficiaryID:         id.BeneficiaryID(r.BeneficiaryID),
		ProviderID:            id.ProviderID(r.ProviderID),
		RequestType:           models.RequestType(r.RequestType),
		ProcedureCode:         r.ProcedureCode,
		EstimatedValue:        id.Cents(r.EstimatedValueCents),
		Urgency:               models.Urgency(r.Urgency),
		ClinicalJustification: r.ClinicalJustification,
		PreExistingCondition:  r.PreExistingCondition,
		EnrollmentDate:        r.EnrollmentDate,
		EvaluationDate:        r.EvaluationDate,
		NetworkStatus:         models.NetworkStatus(r.NetworkStatus),
	}
}

type decisionRow struct {
	Approve       bool      `json:"approve"`
	Justification string    `json:"justification"`
	ReviewerID    string    `json:"reviewer_id"`
	DecidedAt     time.Time `json:"decided_at"`
}

func reviewerDecisionRow(d models.ReviewerDecision) decisionRow {
	return decisionRow{
		Approve:       d.Approve,
		Justification: d.Justification,
		ReviewerID:    d.ReviewerID.String(),
		DecidedAt:     d.DecidedAt,
	}
}

func (r decisionRow) toModel() *models.ReviewerDecision {
	return &models.ReviewerDecision{
		Approve:       r.Approve,
		Justification: r.Justification,
		ReviewerID:    id.ReviewerID(r.ReviewerID),
		DecidedAt:     r.DecidedAt,
	}
}

// PostgresDossierStore persists compiled dossiers, one row per compile,
// keyed by case id and compile timestamp.
type PostgresDossierStore struct {
	pool *pgxpool.Pool
}

// NewPostgresDossierStore constructs a PostgreSQL-backed dossier store.
func NewPostgresDossierStore(pool *pgxpool.Pool) *PostgresDossierStore {
	return &PostgresDossierStore{pool: pool}
}

const insertDossierSQL = `
INSERT INTO authorization_dossiers (case_id, compiled_at, complete, dossier)
VALUES ($1, $2, $3, $4)
ON CONFLICT (case_id, compiled_at) DO UPDATE SET
	complete = EXCLUDED.complete,
	dossier = EXCLUDED.dossier`

const selectLatestDossierSQL = `
SELECT dossier
FROM authorization_dossiers
WHERE case_id = $1
ORDER BY compiled_at DESC
LIMIT 1`

func (s *PostgresDossierStore) Save(ctx context.Context, d dossier.Dossier) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal dossier: %w", err)
	}
	_, err = s.pool.Exec(ctx, insertDossierSQL, d.CaseID.String(), d.CompiledAt, d.Complete, payload)
	if err != nil {
		return fmt.Errorf("save dossier: %w", err)
	}
	return nil
}

func (s *PostgresDossierStore) Latest(ctx context.Context, caseID id.CaseID) (dossier.Dossier, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, selectLatestDossierSQL, caseID.String()).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dossier.Dossier{}, sentinel.ErrNotFound
		}
		return dossier.Dossier{}, fmt.Errorf("load latest dossier: %w", err)
	}
	var d dossier.Dossier
	if err := json.Unmarshal(payload, &d); err != nil {
		return dossier.Dossier{}, fmt.Errorf("unmarshal dossier: %w", err)
	}
	return d, nil
}
