package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/studioflow/internal/database"
	"github.com/MrJamesThe3rd/studioflow/internal/document"
)

type Store struct {
	db database.DBTX
}

func New(db database.DBTX) *Store {
	return &Store{db: db}
}

// Factory adapts New to document.StoreFactory.
func Factory(db database.DBTX) document.Store {
	return New(db)
}

const selectDocumentColumns = `
	id, project_id, client_id, document_type, description, amount, due_date, status,
	paid, payment_date, version, archived, created_by, created_at, updated_by, updated_at
`

// scanDocument reads a row in selectDocumentColumns order.
func scanDocument(s database.Scanner) (*document.FinancialDocument, error) {
	var (
		d                    document.FinancialDocument
		projectID            *uuid.UUID
		docType, status      string
		dueDate, paymentDate sql.NullString
		createdAt, updatedAt string
	)

	if err := s.Scan(
		&d.ID, &projectID, &d.ClientID, &docType, &d.Description, &d.Amount, &dueDate, &status,
		&d.Paid, &paymentDate, &d.Version, &d.Archived, &d.CreatedBy, &createdAt, &d.UpdatedBy, &updatedAt,
	); err != nil {
		return nil, err
	}

	d.ProjectID = projectID
	d.Type = document.Type(docType)
	d.Status = document.Status(status)

	var err error

	if d.DueDate, err = database.ParseNullableDate(dueDate); err != nil {
		return nil, err
	}

	if d.PaymentDate, err = database.ParseNullableDate(paymentDate); err != nil {
		return nil, err
	}

	if d.CreatedAt, err = database.ParseTimestamp(createdAt); err != nil {
		return nil, err
	}

	if d.UpdatedAt, err = database.ParseTimestamp(updatedAt); err != nil {
		return nil, err
	}

	return &d, nil
}

func (s *Store) GetDocument(ctx context.Context, id uuid.UUID) (*document.FinancialDocument, error) {
	query := `SELECT ` + selectDocumentColumns + ` FROM financial_documents WHERE id = ?`

	d, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, document.ErrNotFound
		}

		return nil, fmt.Errorf("getting financial document: %w", err)
	}

	return d, nil
}

func (s *Store) ListDocuments(ctx context.Context, filter document.ListFilter) ([]*document.FinancialDocument, error) {
	query := `SELECT ` + selectDocumentColumns + ` FROM financial_documents WHERE 1 = 1`

	var args []any

	if filter.ProjectID != nil {
		query += ` AND project_id = ?`

		args = append(args, *filter.ProjectID)
	}

	if filter.ClientID != "" {
		query += ` AND client_id = ?`

		args = append(args, filter.ClientID)
	}

	if len(filter.Statuses) > 0 {
		query += ` AND status IN (` + database.Placeholders(len(filter.Statuses)) + `)`

		for _, st := range filter.Statuses {
			args = append(args, string(st))
		}
	}

	if filter.Paid != nil {
		query += ` AND paid = ?`

		args = append(args, *filter.Paid)
	}

	if !filter.IncludeArchived {
		query += ` AND archived = ?`

		args = append(args, false)
	}

	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing financial documents: %w", err)
	}
	defer rows.Close()

	var docs []*document.FinancialDocument

	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning financial document: %w", err)
		}

		docs = append(docs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating financial documents: %w", err)
	}

	return docs, nil
}

func (s *Store) InsertDocument(ctx context.Context, d *document.FinancialDocument) error {
	query := `
		INSERT INTO financial_documents (
			id, project_id, client_id, document_type, description, amount, due_date, status,
			paid, payment_date, version, archived, created_by, created_at, updated_by, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		d.ID,
		nullableUUID(d.ProjectID),
		d.ClientID,
		string(d.Type),
		d.Description,
		d.Amount.String(),
		database.NullableDate(d.DueDate),
		string(d.Status),
		d.Paid,
		database.NullableDate(d.PaymentDate),
		d.Version,
		d.Archived,
		d.CreatedBy,
		database.FormatTimestamp(d.CreatedAt),
		d.UpdatedBy,
		database.FormatTimestamp(d.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating financial document: %w", err)
	}

	return nil
}

func (s *Store) UpdateDocument(ctx context.Context, d *document.FinancialDocument, expectedVersion int) error {
	query := `
		UPDATE financial_documents
		SET project_id = ?, client_id = ?, description = ?, amount = ?, due_date = ?, status = ?,
			paid = ?, payment_date = ?, version = ?, archived = ?, updated_by = ?, updated_at = ?
		WHERE id = ? AND version = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		nullableUUID(d.ProjectID),
		d.ClientID,
		d.Description,
		d.Amount.String(),
		database.NullableDate(d.DueDate),
		string(d.Status),
		d.Paid,
		database.NullableDate(d.PaymentDate),
		d.Version,
		d.Archived,
		d.UpdatedBy,
		database.FormatTimestamp(d.UpdatedAt),
		d.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("updating financial document: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating financial document: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("%w: version %d of document %s is no longer current", document.ErrConflict, expectedVersion, d.ID)
	}

	return nil
}

func (s *Store) InsertAuditEntry(ctx context.Context, e *document.AuditLogEntry) error {
	query := `
		INSERT INTO document_audit_log (
			id, document_id, action, user_id, old_values, new_values, reason, checksum,
			ip_address, user_agent, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var oldValues any
	if len(e.OldValues) > 0 {
		oldValues = string(e.OldValues)
	}

	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.DocumentID,
		string(e.Action),
		e.UserID,
		oldValues,
		string(e.NewValues),
		e.Reason,
		e.Checksum,
		e.IPAddress,
		e.UserAgent,
		database.FormatTimestamp(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}

	return nil
}

func (s *Store) ListAuditEntries(ctx context.Context, documentID uuid.UUID) ([]*document.AuditLogEntry, error) {
	query := `
		SELECT id, document_id, action, user_id, old_values, new_values, reason, checksum,
			ip_address, user_agent, created_at
		FROM document_audit_log
		WHERE document_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*document.AuditLogEntry

	for rows.Next() {
		var (
			e                 document.AuditLogEntry
			action, newValues string
			oldValues         sql.NullString
			createdAt         string
		)

		if err := rows.Scan(
			&e.ID, &e.DocumentID, &action, &e.UserID, &oldValues, &newValues, &e.Reason, &e.Checksum,
			&e.IPAddress, &e.UserAgent, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		e.Action = document.Action(action)
		e.NewValues = []byte(newValues)

		if oldValues.Valid {
			e.OldValues = []byte(oldValues.String)
		}

		if e.CreatedAt, err = database.ParseTimestamp(createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}

	return entries, nil
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}

	return id.String()
}
