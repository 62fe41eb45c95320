package database

import (
	"database/sql"
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	// TimestampLayout is fixed width so that stored values sort in time order.
	TimestampLayout = "2006-01-02T15:04:05.000000Z"
)

// FormatTimestamp renders t in UTC with microsecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}

	return t, nil
}

// FormatDate renders the calendar date of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}

	return t, nil
}

// NullableDate converts a *time.Time into a date column value, nil for NULL.
func NullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}

	return FormatDate(*t)
}

// NullableTimestamp converts a *time.Time into a timestamp column value.
func NullableTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}

	return FormatTimestamp(*t)
}

func ParseNullableDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}

	t, err := ParseDate(s.String)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func ParseNullableTimestamp(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}

	t, err := ParseTimestamp(s.String)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
