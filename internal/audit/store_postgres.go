package audit

import (
	"context"
	"database/sql"
	"fmt"

	id "autoriza/pkg/domain"
	"autoriza/pkg/platform/tx"
)

// Schema holds the DDL for the trail table. Applied by integration tests
// and deploy tooling.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_trail (
	id BIGSERIAL PRIMARY KEY,
	case_id UUID NOT NULL,
	correlation_id TEXT NOT NULL,
	action TEXT NOT NULL,
	state TEXT NOT NULL DEFAULT '',
	outcome TEXT NOT NULL DEFAULT '',
	applied_rule TEXT NOT NULL DEFAULT '',
	reviewer_id TEXT NOT NULL DEFAULT '',
	detail TEXT NOT NULL DEFAULT '',
	recorded_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_trail_case
	ON audit_trail (case_id, recorded_at);
`

// PostgresStore persists the trail in PostgreSQL over database/sql.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	const query = `
		INSERT INTO audit_trail (
			case_id, correlation_id, action, state, outcome,
			applied_rule, reviewer_id, detail, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		entry.CaseID.String(), entry.CorrelationID, string(entry.Action),
		entry.State, entry.Outcome, entry.AppliedRule,
		entry.ReviewerID.String(), entry.Detail, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execer returns the context transaction when one is running, so callers can
// append trail entries atomically with their own writes.
func (s *PostgresStore) execer(ctx context.Context) execer {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *PostgresStore) ListByCase(ctx context.Context, caseID id.CaseID) ([]Entry, error) {
	const query = `
		SELECT case_id, correlation_id, action, state, outcome,
			applied_rule, reviewer_id, detail, recorded_at
		FROM audit_trail
		WHERE case_id = $1
		ORDER BY recorded_at, id`
	rows, err := s.db.QueryContext(ctx, query, caseID.String())
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var rawCaseID, action, reviewer string
		err := rows.Scan(&rawCaseID, &entry.CorrelationID, &action, &entry.State,
			&entry.Outcome, &entry.AppliedRule, &reviewer, &entry.Detail, &entry.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.CaseID, err = id.ParseCaseID(rawCaseID)
		if err != nil {
			return nil, fmt.Errorf("stored case id invalid: %w", err)
		}
		entry.Action = Action(action)
		entry.ReviewerID = id.ReviewerID(reviewer)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
