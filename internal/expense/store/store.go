package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/studioflow/internal/database"
	"github.com/MrJamesThe3rd/studioflow/internal/expense"
)

type Store struct {
	db database.DBTX
}

func New(db database.DBTX) *Store {
	return &Store{db: db}
}

const selectExpenseColumns = `id, project_id, description, date, amount, paid`

func scanExpense(s database.Scanner) (*expense.Expense, error) {
	var (
		e    expense.Expense
		date string
	)

	if err := s.Scan(&e.ID, &e.ProjectID, &e.Description, &date, &e.Amount, &e.Paid); err != nil {
		return nil, err
	}

	d, err := database.ParseDate(date)
	if err != nil {
		return nil, err
	}

	e.Date = d

	return &e, nil
}

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	var projectID any
	if e.ProjectID != nil {
		projectID = e.ProjectID.String()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, project_id, description, date, amount, paid) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, projectID, e.Description, database.FormatDate(e.Date), e.Amount.String(), e.Paid,
	)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	e, err := scanExpense(s.db.QueryRowContext(ctx, `SELECT `+selectExpenseColumns+` FROM expenses WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses`

	var args []any

	if filter.Paid != nil {
		query += ` WHERE paid = ?`

		args = append(args, *filter.Paid)
	}

	query += ` ORDER BY date ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}

	return expenses, nil
}

// ExistingExpenseIDs returns which of ids still have an expense row.
func (s *Store) ExistingExpenseIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	existing := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM expenses WHERE id IN (`+database.Placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("checking expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning expense id: %w", err)
		}

		existing[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense ids: %w", err)
	}

	return existing, nil
}

func (s *Store) MarkExpensePaid(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE expenses SET paid = ? WHERE id = ?`, true, id)
	if err != nil {
		return fmt.Errorf("marking expense paid: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return expense.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return expense.ErrNotFound
	}

	return nil
}
