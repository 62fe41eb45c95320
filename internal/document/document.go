package document

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the kind of financial document.
type Type string

const (
	TypeInvoice Type = "invoice"
	TypeExpense Type = "expense"
	TypePayment Type = "payment"
)

func (t Type) Valid() bool {
	switch t {
	case TypeInvoice, TypeExpense, TypePayment:
		return true
	}

	return false
}

// Status is the lifecycle state of a financial document.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
	StatusArchived  Status = "archived"
)

// Action is what an audit entry records.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// FinancialDocument is an invoice, expense or payment tracked with an
// optimistic concurrency version.
type FinancialDocument struct {
	ID          uuid.UUID
	ProjectID   *uuid.UUID
	ClientID    string
	Type        Type
	Description string
	Amount      decimal.Decimal
	DueDate     *time.Time // date only
	Status      Status
	Paid        bool
	PaymentDate *time.Time // date only
	Version     int
	Archived    bool
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedBy   string
	UpdatedAt   time.Time
}

// NeedsCalendarEvent reports whether the document should be visible on the
// calendar.
func (d *FinancialDocument) NeedsCalendarEvent() bool {
	return !d.Paid && !d.Archived && d.Status != StatusCancelled && d.DueDate != nil
}

// AuditLogEntry is one append-only record of a document mutation. OldValues
// is nil for creations.
type AuditLogEntry struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	Action     Action
	UserID     string
	OldValues  json.RawMessage
	NewValues  json.RawMessage
	Reason     string
	Checksum   string
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
}

// SessionInfo describes where a mutation came from. It is stored with the
// audit entry but is not covered by the checksum.
type SessionInfo struct {
	IPAddress string
	UserAgent string
}

type CreateParams struct {
	ProjectID   *uuid.UUID
	ClientID    string
	Type        Type
	Description string
	Amount      decimal.Decimal
	DueDate     *time.Time
}

// Patch lists the fields to change; nil fields are left alone.
// ExpectedVersion, when set, must match the stored version.
type Patch struct {
	ClientID        *string
	Description     *string
	Amount          *decimal.Decimal
	DueDate         *time.Time
	ClearDueDate    bool
	ExpectedVersion *int
}

// ProjectTerms are the project fields a document sync depends on.
type ProjectTerms struct {
	ClientID    string
	Budget      decimal.Decimal
	PaymentTerm int
	IssueDate   *time.Time
}

// SyncResult reports what SyncWithProject changed.
type SyncResult struct {
	Created *FinancialDocument
	Updated []*FinancialDocument
}

type ListFilter struct {
	ProjectID       *uuid.UUID
	ClientID        string
	Statuses        []Status
	Paid            *bool
	IncludeArchived bool
}
