package store

// Schema holds the DDL for the authorization tables. Applied by integration
// tests and by deploy tooling; the stores assume it is already in place.
const Schema = `
CREATE TABLE IF NOT EXISTS authorization_cases (
	id UUID PRIMARY KEY,
	correlation_id TEXT NOT NULL,
	request JSONB NOT NULL,
	state TEXT NOT NULL,
	outcome TEXT NOT NULL DEFAULT '',
	applied_rule TEXT NOT NULL DEFAULT '',
	approval_type TEXT NOT NULL DEFAULT '',
	authorization_number TEXT NOT NULL DEFAULT '',
	valid_from TIMESTAMPTZ,
	valid_until TIMESTAMPTZ,
	denial_reason TEXT NOT NULL DEFAULT '',
	audit_decision JSONB,
	last_applied_input_id TEXT NOT NULL DEFAULT '',
	event_published_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS authorization_dossiers (
	case_id UUID NOT NULL,
	compiled_at TIMESTAMPTZ NOT NULL,
	complete BOOLEAN NOT NULL,
	dossier JSONB NOT NULL,
	PRIMARY KEY (case_id, compiled_at)
);

CREATE INDEX IF NOT EXISTS idx_authorization_cases_state
	ON authorization_cases (state);
`
