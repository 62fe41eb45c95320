package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/studioflow/internal/clock"
	"github.com/MrJamesThe3rd/studioflow/internal/database"
	"github.com/MrJamesThe3rd/studioflow/internal/document"
	"github.com/MrJamesThe3rd/studioflow/internal/expense"
	"github.com/MrJamesThe3rd/studioflow/internal/notify"
	"github.com/MrJamesThe3rd/studioflow/internal/retry"
)

//go:generate mockgen -source=reconciler.go -destination=reconciler_mock.go -package=calendar
type EventStore interface {
	FindEvents(ctx context.Context, typ EventType, linkedID uuid.UUID) ([]*Event, error)
	ListEvents(ctx context.Context, typ EventType) ([]*Event, error)
	InsertEvent(ctx context.Context, e *Event) error
	UpdateEvent(ctx context.Context, e *Event) error
	DeleteEvents(ctx context.Context, ids []uuid.UUID) (int, error)
	DeleteLinkedEvents(ctx context.Context, typ EventType, linkedID uuid.UUID) (int, error)
}

type DocumentLister interface {
	ListDocuments(ctx context.Context, filter document.ListFilter) ([]*document.FinancialDocument, error)
}

type ExpenseStore interface {
	ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error)
	ExistingExpenseIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}

// Reconciler keeps calendar events in line with documents and expenses.
// Every operation is idempotent.
type Reconciler struct {
	events    EventStore
	documents DocumentLister
	expenses  ExpenseStore
	notifier  notify.Notifier
	clock     clock.Clock
	retry     retry.Policy
	logger    *slog.Logger
}

type Option func(*Reconciler)

func WithNotifier(n notify.Notifier) Option { return func(r *Reconciler) { r.notifier = notify.OrNop(n) } }

func WithClock(c clock.Clock) Option { return func(r *Reconciler) { r.clock = c } }

func WithRetry(p retry.Policy) Option { return func(r *Reconciler) { r.retry = p } }

func WithLogger(l *slog.Logger) Option { return func(r *Reconciler) { r.logger = l } }

func NewReconciler(events EventStore, documents DocumentLister, expenses ExpenseStore, opts ...Option) *Reconciler {
	r := &Reconciler{
		events:    events,
		documents: documents,
		expenses:  expenses,
		notifier:  notify.Nop{},
		clock:     clock.System{},
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// SetDocumentLister wires the document source after construction, since the
// document service takes the reconciler as its change hook.
func (r *Reconciler) SetDocumentLister(d DocumentLister) {
	r.documents = d
}

// SyncDocumentToCalendar creates or updates the event of an unpaid document
// with a due date. Paid documents and documents without a due date are left
// alone and nil is returned.
func (r *Reconciler) SyncDocumentToCalendar(ctx context.Context, doc *document.FinancialDocument) (*Event, error) {
	if doc.Paid || doc.DueDate == nil {
		return nil, nil
	}

	title, color := documentLabel(doc)
	due := clock.DateOnly(*doc.DueDate)

	return r.sync(ctx, &Event{
		Type:      TypeFinancial,
		LinkedID:  doc.ID,
		Title:     title,
		Color:     color,
		StartDate: due,
		EndDate:   due,
		AllDay:    true,
	})
}

// RemoveDocumentEvents deletes every event of the document. Zero is a valid
// count.
func (r *Reconciler) RemoveDocumentEvents(ctx context.Context, documentID uuid.UUID) (int, error) {
	return r.removeLinked(ctx, TypeFinancial, documentID)
}

// ReconcileDocument brings the document's event in line with its state. It
// is the change hook of the document service.
func (r *Reconciler) ReconcileDocument(ctx context.Context, doc *document.FinancialDocument) error {
	if doc.NeedsCalendarEvent() {
		_, err := r.SyncDocumentToCalendar(ctx, doc)
		return err
	}

	_, err := r.RemoveDocumentEvents(ctx, doc.ID)

	return err
}

// SyncExpenseToCalendar creates or updates the event of an unpaid expense.
func (r *Reconciler) SyncExpenseToCalendar(ctx context.Context, e *expense.Expense) (*Event, error) {
	if e.Paid {
		return nil, nil
	}

	date := clock.DateOnly(e.Date)

	return r.sync(ctx, &Event{
		Type:      TypeExpense,
		LinkedID:  e.ID,
		Title:     payableTitle(e.Amount),
		Color:     ColorExpense,
		StartDate: date,
		EndDate:   date,
		AllDay:    true,
	})
}

func (r *Reconciler) RemoveExpenseEvents(ctx context.Context, expenseID uuid.UUID) (int, error) {
	return r.removeLinked(ctx, TypeExpense, expenseID)
}

// CleanupPaidDocumentEvents removes the events of every paid document.
func (r *Reconciler) CleanupPaidDocumentEvents(ctx context.Context) (int, error) {
	paid := true

	docs, err := retry.Value(ctx, r.retry, func(ctx context.Context) ([]*document.FinancialDocument, error) {
		return r.documents.ListDocuments(ctx, document.ListFilter{Paid: &paid, IncludeArchived: true})
	})
	if err != nil {
		return 0, fmt.Errorf("listing paid documents: %w", err)
	}

	removed := 0

	for _, d := range docs {
		n, err := r.RemoveDocumentEvents(ctx, d.ID)
		if err != nil {
			return removed, err
		}

		removed += n
	}

	return removed, nil
}

// CleanupPaidExpenseEvents removes the events of every paid expense.
func (r *Reconciler) CleanupPaidExpenseEvents(ctx context.Context) (int, error) {
	paid := true

	expenses, err := retry.Value(ctx, r.retry, func(ctx context.Context) ([]*expense.Expense, error) {
		return r.expenses.ListExpenses(ctx, expense.ListFilter{Paid: &paid})
	})
	if err != nil {
		return 0, fmt.Errorf("listing paid expenses: %w", err)
	}

	removed := 0

	for _, e := range expenses {
		n, err := r.RemoveExpenseEvents(ctx, e.ID)
		if err != nil {
			return removed, err
		}

		removed += n
	}

	return removed, nil
}

// CleanupOrphanExpenseEvents removes expense events whose expense no longer
// exists and leaves every other event alone.
func (r *Reconciler) CleanupOrphanExpenseEvents(ctx context.Context) (int, error) {
	return retry.Value(ctx, r.retry, func(ctx context.Context) (int, error) {
		events, err := r.events.ListEvents(ctx, TypeExpense)
		if err != nil {
			return 0, fmt.Errorf("listing expense events: %w", err)
		}

		if len(events) == 0 {
			return 0, nil
		}

		linked := make([]uuid.UUID, 0, len(events))
		for _, e := range events {
			linked = append(linked, e.LinkedID)
		}

		existing, err := r.expenses.ExistingExpenseIDs(ctx, linked)
		if err != nil {
			return 0, fmt.Errorf("checking expenses: %w", err)
		}

		var orphans []uuid.UUID

		for _, e := range events {
			if !existing[e.LinkedID] {
				orphans = append(orphans, e.ID)
			}
		}

		if len(orphans) == 0 {
			return 0, nil
		}

		n, err := r.events.DeleteEvents(ctx, orphans)
		if err != nil {
			return 0, fmt.Errorf("deleting orphan expense events: %w", err)
		}

		r.logger.Info("removed orphan expense events", "count", n)
		r.emit(ctx, "deleted", TypeExpense, orphans...)

		return n, nil
	})
}

// sync applies want to the events linked to (want.Type, want.LinkedID): the
// first one is updated in place when it differs, any others are deleted and
// an event is inserted when none exists.
func (r *Reconciler) sync(ctx context.Context, want *Event) (*Event, error) {
	return retry.Value(ctx, r.retry, func(ctx context.Context) (*Event, error) {
		existing, err := r.events.FindEvents(ctx, want.Type, want.LinkedID)
		if err != nil {
			return nil, fmt.Errorf("finding calendar events: %w", err)
		}

		if len(existing) == 0 {
			created, err := r.insert(ctx, want)
			if err == nil {
				return created, nil
			}

			if !database.IsUniqueViolation(err) {
				return nil, err
			}

			// Someone else inserted the event first; converge on theirs.
			existing, err = r.events.FindEvents(ctx, want.Type, want.LinkedID)
			if err != nil {
				return nil, fmt.Errorf("finding calendar events: %w", err)
			}

			if len(existing) == 0 {
				return nil, errors.New("calendar event vanished after a conflicting insert")
			}
		}

		first := existing[0]

		if len(existing) > 1 {
			dupes := make([]uuid.UUID, 0, len(existing)-1)
			for _, e := range existing[1:] {
				dupes = append(dupes, e.ID)
			}

			if _, err := r.events.DeleteEvents(ctx, dupes); err != nil {
				return nil, fmt.Errorf("deleting duplicate calendar events: %w", err)
			}

			r.logger.Warn("collapsed duplicate calendar events",
				"type", want.Type, "linked_id", want.LinkedID, "removed", len(dupes))
		}

		if first.sameContent(want) {
			return first, nil
		}

		first.Title = want.Title
		first.Color = want.Color
		first.StartDate = want.StartDate
		first.EndDate = want.EndDate
		first.AllDay = want.AllDay
		first.UpdatedAt = r.now()

		if err := r.events.UpdateEvent(ctx, first); err != nil {
			return nil, fmt.Errorf("updating calendar event: %w", err)
		}

		r.emit(ctx, "updated", want.Type, want.LinkedID)

		return first, nil
	})
}

func (r *Reconciler) insert(ctx context.Context, want *Event) (*Event, error) {
	now := r.now()

	e := *want
	e.ID = uuid.New()
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := r.events.InsertEvent(ctx, &e); err != nil {
		return nil, err
	}

	r.emit(ctx, "created", e.Type, e.LinkedID)

	return &e, nil
}

func (r *Reconciler) removeLinked(ctx context.Context, typ EventType, linkedID uuid.UUID) (int, error) {
	n, err := retry.Value(ctx, r.retry, func(ctx context.Context) (int, error) {
		return r.events.DeleteLinkedEvents(ctx, typ, linkedID)
	})
	if err != nil {
		return 0, fmt.Errorf("removing %s calendar events: %w", typ, err)
	}

	if n > 0 {
		r.emit(ctx, "deleted", typ, linkedID)
	}

	return n, nil
}

func (r *Reconciler) emit(ctx context.Context, change string, typ EventType, ids ...uuid.UUID) {
	r.notifier.Emit(ctx, notify.EventCalendarChanged, map[string]any{
		"change": change,
		"type":   typ,
		"ids":    ids,
	})
}

func (r *Reconciler) now() time.Time {
	return r.clock.Now().UTC()
}

func documentLabel(doc *document.FinancialDocument) (string, string) {
	if doc.Type == document.TypeInvoice {
		return "Receivable " + doc.Amount.StringFixed(2), ColorReceivable
	}

	return payableTitle(doc.Amount), ColorPayable
}

func payableTitle(amount decimal.Decimal) string {
	return "Payable " + amount.StringFixed(2)
}
