package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/studioflow/internal/calendar"
	"github.com/MrJamesThe3rd/studioflow/internal/database"
)

type Store struct {
	db database.DBTX
}

func New(db database.DBTX) *Store {
	return &Store{db: db}
}

const selectEventColumns = `id, type, linked_id, title, color, start_date, end_date, all_day, created_at, updated_at`

func scanEvent(s database.Scanner) (*calendar.Event, error) {
	var (
		e                    calendar.Event
		typ                  string
		start, end           string
		createdAt, updatedAt string
	)

	if err := s.Scan(&e.ID, &typ, &e.LinkedID, &e.Title, &e.Color, &start, &end, &e.AllDay, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	e.Type = calendar.EventType(typ)

	var err error

	if e.StartDate, err = database.ParseDate(start); err != nil {
		return nil, err
	}

	if e.EndDate, err = database.ParseDate(end); err != nil {
		return nil, err
	}

	if e.CreatedAt, err = database.ParseTimestamp(createdAt); err != nil {
		return nil, err
	}

	if e.UpdatedAt, err = database.ParseTimestamp(updatedAt); err != nil {
		return nil, err
	}

	return &e, nil
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]*calendar.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing calendar events: %w", err)
	}
	defer rows.Close()

	var events []*calendar.Event

	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning calendar event: %w", err)
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calendar events: %w", err)
	}

	return events, nil
}

// FindEvents returns the events linked to (typ, linkedID), oldest first.
func (s *Store) FindEvents(ctx context.Context, typ calendar.EventType, linkedID uuid.UUID) ([]*calendar.Event, error) {
	return s.queryEvents(ctx,
		`SELECT `+selectEventColumns+` FROM calendar_events WHERE type = ? AND linked_id = ? ORDER BY created_at ASC, id ASC`,
		string(typ), linkedID,
	)
}

func (s *Store) ListEvents(ctx context.Context, typ calendar.EventType) ([]*calendar.Event, error) {
	return s.queryEvents(ctx,
		`SELECT `+selectEventColumns+` FROM calendar_events WHERE type = ? ORDER BY start_date ASC, id ASC`,
		string(typ),
	)
}

func (s *Store) InsertEvent(ctx context.Context, e *calendar.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendar_events (id, type, linked_id, title, color, start_date, end_date, all_day, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Type), e.LinkedID, e.Title, e.Color,
		database.FormatDate(e.StartDate), database.FormatDate(e.EndDate), e.AllDay,
		database.FormatTimestamp(e.CreatedAt), database.FormatTimestamp(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating calendar event: %w", err)
	}

	return nil
}

func (s *Store) UpdateEvent(ctx context.Context, e *calendar.Event) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE calendar_events
		SET title = ?, color = ?, start_date = ?, end_date = ?, all_day = ?, updated_at = ?
		WHERE id = ?`,
		e.Title, e.Color, database.FormatDate(e.StartDate), database.FormatDate(e.EndDate), e.AllDay,
		database.FormatTimestamp(e.UpdatedAt), e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating calendar event: %w", err)
	}

	return nil
}

func (s *Store) DeleteEvents(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id IN (`+database.Placeholders(len(ids))+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting calendar events: %w", err)
	}

	return rowsAffected(res)
}

func (s *Store) DeleteLinkedEvents(ctx context.Context, typ calendar.EventType, linkedID uuid.UUID) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE type = ? AND linked_id = ?`, string(typ), linkedID)
	if err != nil {
		return 0, fmt.Errorf("deleting calendar events: %w", err)
	}

	return rowsAffected(res)
}

type result interface {
	RowsAffected() (int64, error)
}

func rowsAffected(res result) (int, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted calendar events: %w", err)
	}

	return int(n), nil
}
