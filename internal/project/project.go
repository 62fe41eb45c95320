package project

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("project not found")
	// ErrConflict reports that the project changed between read and write.
	ErrConflict = errors.New("project was modified concurrently")
)

// DefaultPaymentTerm is the number of days an invoice stays open when the
// project does not say otherwise.
const DefaultPaymentTerm = 30

// Status is the primary lifecycle state of a project.
type Status string

const (
	StatusProposal       Status = "proposal"
	StatusPreProduction  Status = "pre_production"
	StatusProduction     Status = "production"
	StatusPostProduction Status = "post_production"
	StatusReview         Status = "review"
	StatusOverdue        Status = "overdue"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// DevelopmentSet lists the statuses of work in progress, the ones eligible
// for overdue detection.
var DevelopmentSet = []Status{
	StatusProposal,
	StatusPreProduction,
	StatusProduction,
	StatusPostProduction,
	StatusReview,
}

// RevertStatus is where an overdue project goes once its end date is back in
// the future.
const RevertStatus = StatusProduction

func (s Status) InDevelopment() bool {
	switch s {
	case StatusProposal, StatusPreProduction, StatusProduction, StatusPostProduction, StatusReview:
		return true
	}

	return false
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// SpecialStatus is a secondary flag, orthogonal to Status.
type SpecialStatus string

const (
	SpecialNone    SpecialStatus = "none"
	SpecialDelayed SpecialStatus = "delayed"
	SpecialPaused  SpecialStatus = "paused"
	SpecialBlocked SpecialStatus = "blocked"
)

// Project is the slice of a project record this service reads and mutates.
// Everything else about a project belongs to other systems.
type Project struct {
	ID            uuid.UUID
	Name          string
	ClientID      string
	Status        Status
	SpecialStatus SpecialStatus
	EndDate       *time.Time // date only, midnight UTC
	Budget        decimal.Decimal
	PaymentTerm   int // days
	IssueDate     *time.Time
	UpdatedAt     time.Time
}

// PaymentTermDays returns the payment term, falling back to the default.
func (p *Project) PaymentTermDays() int {
	if p.PaymentTerm <= 0 {
		return DefaultPaymentTerm
	}

	return p.PaymentTerm
}

// Special returns the special status, treating the zero value as none.
func (p *Project) Special() SpecialStatus {
	if p.SpecialStatus == "" {
		return SpecialNone
	}

	return p.SpecialStatus
}
