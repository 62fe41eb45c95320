package database

import (
	"context"
	"fmt"
)

// Migrate applies the schema. Every statement is idempotent and uses only
// types both PostgreSQL and SQLite accept; timestamps are stored as fixed
// width UTC text so lexical order equals time order.
func Migrate(ctx context.Context, db DBTX) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL DEFAULT '',
		client_id      TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL,
		special_status TEXT NOT NULL DEFAULT 'none',
		end_date       TEXT,
		budget         TEXT NOT NULL DEFAULT '0',
		payment_term   INTEGER NOT NULL DEFAULT 30,
		issue_date     TEXT,
		updated_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS projects_status_end_date_idx ON projects (status, end_date)`,

	`CREATE TABLE IF NOT EXISTS financial_documents (
		id            TEXT PRIMARY KEY,
		project_id    TEXT,
		client_id     TEXT NOT NULL,
		document_type TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		amount        TEXT NOT NULL,
		due_date      TEXT,
		status        TEXT NOT NULL,
		paid          BOOLEAN NOT NULL DEFAULT FALSE,
		payment_date  TEXT,
		version       INTEGER NOT NULL CHECK (version >= 1),
		archived      BOOLEAN NOT NULL DEFAULT FALSE,
		created_by    TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_by    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS financial_documents_project_idx ON financial_documents (project_id)`,
	`CREATE INDEX IF NOT EXISTS financial_documents_client_idx ON financial_documents (client_id)`,

	`CREATE TABLE IF NOT EXISTS document_audit_log (
		id          TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		action      TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		old_values  TEXT,
		new_values  TEXT NOT NULL,
		reason      TEXT NOT NULL DEFAULT '',
		checksum    TEXT NOT NULL,
		ip_address  TEXT NOT NULL DEFAULT '',
		user_agent  TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS document_audit_log_document_idx ON document_audit_log (document_id, created_at, id)`,

	`CREATE TABLE IF NOT EXISTS expenses (
		id          TEXT PRIMARY KEY,
		project_id  TEXT,
		description TEXT NOT NULL DEFAULT '',
		date        TEXT NOT NULL,
		amount      TEXT NOT NULL,
		paid        BOOLEAN NOT NULL DEFAULT FALSE
	)`,

	`CREATE TABLE IF NOT EXISTS calendar_events (
		id         TEXT PRIMARY KEY,
		type       TEXT NOT NULL,
		linked_id  TEXT NOT NULL,
		title      TEXT NOT NULL,
		color      TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		all_day    BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS calendar_events_link_uq ON calendar_events (type, linked_id)`,
}
