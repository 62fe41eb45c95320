package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/studioflow/internal/database"
	"github.com/MrJamesThe3rd/studioflow/internal/project"
)

type Store struct {
	db  database.DBTX
	uow database.UnitOfWork
}

func New(db *database.DB) *Store {
	return &Store{db: db, uow: database.NewUnitOfWork(db)}
}

const selectProjectColumns = `
	id, name, client_id, status, special_status, end_date, budget, payment_term, issue_date, updated_at
`

// scanProject reads a row in selectProjectColumns order.
func scanProject(s database.Scanner) (*project.Project, error) {
	var (
		p                  project.Project
		status, special    string
		endDate, issueDate sql.NullString
		updatedAt          string
	)

	if err := s.Scan(
		&p.ID, &p.Name, &p.ClientID, &status, &special, &endDate,
		&p.Budget, &p.PaymentTerm, &issueDate, &updatedAt,
	); err != nil {
		return nil, err
	}

	p.Status = project.Status(status)
	p.SpecialStatus = project.SpecialStatus(special)

	var err error

	if p.EndDate, err = database.ParseNullableDate(endDate); err != nil {
		return nil, err
	}

	if p.IssueDate, err = database.ParseNullableDate(issueDate); err != nil {
		return nil, err
	}

	if p.UpdatedAt, err = database.ParseTimestamp(updatedAt); err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	query := `SELECT ` + selectProjectColumns + ` FROM projects WHERE id = ?`

	p, err := scanProject(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, project.ErrNotFound
		}

		return nil, fmt.Errorf("getting project: %w", err)
	}

	return p, nil
}

func (s *Store) ListProjects(ctx context.Context, filter project.ListFilter) ([]*project.Project, error) {
	query := `SELECT ` + selectProjectColumns + ` FROM projects WHERE 1 = 1`

	var args []any

	if len(filter.Statuses) > 0 {
		query += ` AND status IN (` + database.Placeholders(len(filter.Statuses)) + `)`

		for _, st := range filter.Statuses {
			args = append(args, string(st))
		}
	}

	if filter.EndBefore != nil {
		query += ` AND end_date IS NOT NULL AND end_date < ?`

		args = append(args, database.FormatDate(*filter.EndBefore))
	}

	if filter.EndOnOrAfter != nil {
		query += ` AND end_date IS NOT NULL AND end_date >= ?`

		args = append(args, database.FormatDate(*filter.EndOnOrAfter))
	}

	query += ` ORDER BY end_date ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}

		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}

	return projects, nil
}

func (s *Store) CreateProject(ctx context.Context, p *project.Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	if p.SpecialStatus == "" {
		p.SpecialStatus = project.SpecialNone
	}

	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO projects (id, name, client_id, status, special_status, end_date, budget, payment_term, issue_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.ClientID,
		string(p.Status),
		string(p.SpecialStatus),
		database.NullableDate(p.EndDate),
		p.Budget.String(),
		p.PaymentTermDays(),
		database.NullableDate(p.IssueDate),
		database.FormatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}

	return nil
}

// UpdateStatus moves the project only while it is still in from.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, from, to project.Status, at time.Time) error {
	err := s.guardedUpdate(ctx, id,
		`UPDATE projects SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(to), database.FormatTimestamp(at), id, string(from),
	)
	if err != nil {
		return fmt.Errorf("updating status of project %s: %w", id, err)
	}

	return nil
}

// UpdateSpecialStatus writes the special status only while status and
// special status are still the ones the change was validated against.
func (s *Store) UpdateSpecialStatus(ctx context.Context, id uuid.UUID, status project.Status, from, to project.SpecialStatus, at time.Time) error {
	err := s.guardedUpdate(ctx, id,
		`UPDATE projects SET special_status = ?, updated_at = ? WHERE id = ? AND status = ? AND special_status = ?`,
		string(to), database.FormatTimestamp(at), id, string(status), string(from),
	)
	if err != nil {
		return fmt.Errorf("updating special status of project %s: %w", id, err)
	}

	return nil
}

// UpdateSchedule writes the dates and payment term of p and leaves its
// statuses alone.
func (s *Store) UpdateSchedule(ctx context.Context, p *project.Project) error {
	query := `
		UPDATE projects
		SET end_date = ?, issue_date = ?, payment_term = ?, updated_at = ?
		WHERE id = ?
	`

	err := s.update(ctx, query,
		database.NullableDate(p.EndDate),
		database.NullableDate(p.IssueDate),
		p.PaymentTermDays(),
		database.FormatTimestamp(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating schedule of project %s: %w", p.ID, err)
	}

	return nil
}

func (s *Store) UpdateBudget(ctx context.Context, id uuid.UUID, budget decimal.Decimal, at time.Time) error {
	err := s.update(ctx, `UPDATE projects SET budget = ?, updated_at = ? WHERE id = ?`,
		budget.String(), database.FormatTimestamp(at), id,
	)
	if err != nil {
		return fmt.Errorf("updating budget of project %s: %w", id, err)
	}

	return nil
}

func (s *Store) update(ctx context.Context, query string, args ...any) error {
	n, err := s.exec(ctx, query, args...)
	if err != nil {
		return err
	}

	if n == 0 {
		return project.ErrNotFound
	}

	return nil
}

// guardedUpdate runs a conditional update and tells a missing project apart
// from one that no longer matches the condition.
func (s *Store) guardedUpdate(ctx context.Context, id uuid.UUID, query string, args ...any) error {
	n, err := s.exec(ctx, query, args...)
	if err != nil {
		return err
	}

	if n > 0 {
		return nil
	}

	if _, err := s.GetProject(ctx, id); err != nil {
		return err
	}

	return project.ErrConflict
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// UpdateStatuses applies the batch in one transaction. A change whose project
// has moved away from change.From in the meantime is skipped, not failed.
func (s *Store) UpdateStatuses(ctx context.Context, changes []project.StatusChange, at time.Time) ([]uuid.UUID, error) {
	if len(changes) == 0 {
		return nil, nil
	}

	var applied []uuid.UUID

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx database.DBTX) error {
		applied = applied[:0]

		for _, c := range changes {
			res, err := tx.ExecContext(ctx,
				`UPDATE projects SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
				string(c.To), database.FormatTimestamp(at), c.ID, string(c.From),
			)
			if err != nil {
				return fmt.Errorf("updating status of project %s: %w", c.ID, err)
			}

			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("updating status of project %s: %w", c.ID, err)
			}

			if n > 0 {
				applied = append(applied, c.ID)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return applied, nil
}
