package calendar

import (
	"time"

	"github.com/google/uuid"
)

// EventType says what kind of record an event mirrors.
type EventType string

const (
	TypeFinancial EventType = "financial"
	TypeExpense   EventType = "expense"
)

// Fixed colors per label.
const (
	ColorReceivable = "#2e7d32"
	ColorPayable    = "#c62828"
	ColorExpense    = "#ef6c00"
)

// Event is a calendar entry derived from a financial document or an
// expense. There is at most one event per (Type, LinkedID).
type Event struct {
	ID        uuid.UUID
	Type      EventType
	LinkedID  uuid.UUID
	Title     string
	Color     string
	StartDate time.Time // date only
	EndDate   time.Time // date only
	AllDay    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// sameContent reports whether e already shows what want describes.
func (e *Event) sameContent(want *Event) bool {
	return e.Title == want.Title &&
		e.Color == want.Color &&
		e.AllDay == want.AllDay &&
		e.StartDate.Equal(want.StartDate) &&
		e.EndDate.Equal(want.EndDate)
}
