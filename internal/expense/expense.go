package expense

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("expense not found")

// Expense is a project cost. Expenses are recorded elsewhere; this service
// reads them to keep the calendar in sync.
type Expense struct {
	ID          uuid.UUID
	ProjectID   *uuid.UUID
	Description string
	Date        time.Time // date only
	Amount      decimal.Decimal
	Paid        bool
}

type ListFilter struct {
	Paid *bool
}
