package calendar_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/studioflow/internal/calendar"
	calendarstore "github.com/MrJamesThe3rd/studioflow/internal/calendar/store"
	"github.com/MrJamesThe3rd/studioflow/internal/database"
	"github.com/MrJamesThe3rd/studioflow/internal/document"
	documentstore "github.com/MrJamesThe3rd/studioflow/internal/document/store"
	"github.com/MrJamesThe3rd/studioflow/internal/expense"
	expensestore "github.com/MrJamesThe3rd/studioflow/internal/expense/store"
	"github.com/MrJamesThe3rd/studioflow/internal/testutil"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db         *database.DB
	events     *calendarstore.Store
	expenses   *expensestore.Store
	documents  *document.Service
	reconciler *calendar.Reconciler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	clk := testutil.NewFakeClock(testNow)

	f := &fixture{
		db:       db,
		events:   calendarstore.New(db),
		expenses: expensestore.New(db),
	}

	f.reconciler = calendar.NewReconciler(f.events, nil, f.expenses, calendar.WithClock(clk))
	f.documents = document.NewService(db, database.NewUnitOfWork(db), documentstore.Factory,
		document.WithClock(clk),
		document.WithChangeHook(f.reconciler),
	)
	f.reconciler.SetDocumentLister(f.documents)

	return f
}

func (f *fixture) createInvoice(t *testing.T, amount string, dueInDays int) *document.FinancialDocument {
	t.Helper()

	due := testNow.AddDate(0, 0, dueInDays)

	doc, err := f.documents.CreateDocument(context.Background(), document.CreateParams{
		ClientID: "client-1",
		Type:     document.TypeInvoice,
		Amount:   decimal.RequireFromString(amount),
		DueDate:  &due,
	}, "user-1", document.SessionInfo{})
	require.NoError(t, err)

	return doc
}

func (f *fixture) eventsFor(t *testing.T, typ calendar.EventType, id uuid.UUID) []*calendar.Event {
	t.Helper()

	events, err := f.events.FindEvents(context.Background(), typ, id)
	require.NoError(t, err)

	return events
}

func TestReconciler_SyncDocumentTwice_OneEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	doc := f.createInvoice(t, "1000", 10)

	for range 2 {
		ev, err := f.reconciler.SyncDocumentToCalendar(ctx, doc)
		require.NoError(t, err)
		require.NotNil(t, ev)
	}

	events := f.eventsFor(t, calendar.TypeFinancial, doc.ID)
	require.Len(t, events, 1)
	assert.Equal(t, "Receivable 1000.00", events[0].Title)
	assert.Equal(t, calendar.ColorReceivable, events[0].Color)
	assert.Equal(t, "2024-05-11", events[0].StartDate.Format(time.DateOnly))
	assert.True(t, events[0].AllDay)
}

func TestReconciler_MarkAsPaidRemovesEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	doc := f.createInvoice(t, "1000", 10)
	require.Len(t, f.eventsFor(t, calendar.TypeFinancial, doc.ID), 1)

	paid, err := f.documents.MarkAsPaid(ctx, doc.ID, "user-1", "", document.SessionInfo{})
	require.NoError(t, err)
	assert.Equal(t, 2, paid.Version)

	assert.Empty(t, f.eventsFor(t, calendar.TypeFinancial, doc.ID))
}

func TestReconciler_UpdatesEventInPlace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	doc := f.createInvoice(t, "1000", 10)
	before := f.eventsFor(t, calendar.TypeFinancial, doc.ID)
	require.Len(t, before, 1)

	amount := decimal.NewFromInt(1250)
	due := testNow.AddDate(0, 0, 20)

	_, err := f.documents.UpdateDocument(ctx, doc.ID, document.Patch{Amount: &amount, DueDate: &due}, "user-1", "", document.SessionInfo{})
	require.NoError(t, err)

	after := f.eventsFor(t, calendar.TypeFinancial, doc.ID)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, "Receivable 1250.00", after[0].Title)
	assert.Equal(t, "2024-05-21", after[0].StartDate.Format(time.DateOnly))
}

func TestReconciler_NoOpForPaidOrUndatedDocuments(t *testing.T) {
	f := newFixture(t)

	due := testNow

	tests := []struct {
		name string
		doc  *document.FinancialDocument
	}{
		{name: "Paid", doc: &document.FinancialDocument{ID: uuid.New(), Paid: true, DueDate: &due}},
		{name: "NoDueDate", doc: &document.FinancialDocument{ID: uuid.New()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := f.reconciler.SyncDocumentToCalendar(context.Background(), tt.doc)
			require.NoError(t, err)
			assert.Nil(t, ev)
			assert.Empty(t, f.eventsFor(t, calendar.TypeFinancial, tt.doc.ID))
		})
	}
}

func TestReconciler_CancelAndArchiveRemoveEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cancelled := f.createInvoice(t, "10", 3)
	archived := f.createInvoice(t, "20", 3)

	_, err := f.documents.CancelDocument(ctx, cancelled.ID, "user-1", "", document.SessionInfo{})
	require.NoError(t, err)

	_, err = f.documents.ArchiveDocument(ctx, archived.ID, "user-1", "", document.SessionInfo{})
	require.NoError(t, err)

	assert.Empty(t, f.eventsFor(t, calendar.TypeFinancial, cancelled.ID))
	assert.Empty(t, f.eventsFor(t, calendar.TypeFinancial, archived.ID))

	// Unarchiving an unpaid document brings the event back.
	_, err = f.documents.UnarchiveDocument(ctx, archived.ID, "user-1", "", document.SessionInfo{})
	require.NoError(t, err)
	assert.Len(t, f.eventsFor(t, calendar.TypeFinancial, archived.ID), 1)
}

func TestReconciler_RemoveDocumentEvents_ZeroIsValid(t *testing.T) {
	f := newFixture(t)

	n, err := f.reconciler.RemoveDocumentEvents(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReconciler_ExpenseEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	keep := &expense.Expense{Date: testutil.MustDate("2024-05-10"), Amount: decimal.NewFromInt(80)}
	gone := &expense.Expense{Date: testutil.MustDate("2024-05-12"), Amount: decimal.NewFromInt(45)}
	settled := &expense.Expense{Date: testutil.MustDate("2024-05-14"), Amount: decimal.NewFromInt(15)}

	for _, e := range []*expense.Expense{keep, gone, settled} {
		require.NoError(t, f.expenses.CreateExpense(ctx, e))

		ev, err := f.reconciler.SyncExpenseToCalendar(ctx, e)
		require.NoError(t, err)
		require.NotNil(t, ev)
		assert.Equal(t, calendar.ColorExpense, ev.Color)
	}

	doc := f.createInvoice(t, "500", 5)

	t.Run("CleanupOrphans", func(t *testing.T) {
		require.NoError(t, f.expenses.DeleteExpense(ctx, gone.ID))

		n, err := f.reconciler.CleanupOrphanExpenseEvents(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		assert.Empty(t, f.eventsFor(t, calendar.TypeExpense, gone.ID))
		assert.Len(t, f.eventsFor(t, calendar.TypeExpense, keep.ID), 1)
		assert.Len(t, f.eventsFor(t, calendar.TypeExpense, settled.ID), 1)
		assert.Len(t, f.eventsFor(t, calendar.TypeFinancial, doc.ID), 1)
	})

	t.Run("CleanupPaidExpenses", func(t *testing.T) {
		require.NoError(t, f.expenses.MarkExpensePaid(ctx, settled.ID))

		n, err := f.reconciler.CleanupPaidExpenseEvents(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Empty(t, f.eventsFor(t, calendar.TypeExpense, settled.ID))
		assert.Len(t, f.eventsFor(t, calendar.TypeExpense, keep.ID), 1)
	})

	t.Run("RemoveExpenseEvents", func(t *testing.T) {
		n, err := f.reconciler.RemoveExpenseEvents(ctx, keep.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestReconciler_CleanupPaidDocumentEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	doc := f.createInvoice(t, "700", 4)

	// Flip the row behind the service's back, as a legacy writer would.
	_, err := f.db.ExecContext(ctx, `UPDATE financial_documents SET paid = ?, status = ? WHERE id = ?`, true, string(document.StatusPaid), doc.ID)
	require.NoError(t, err)
	require.Len(t, f.eventsFor(t, calendar.TypeFinancial, doc.ID), 1)

	n, err := f.reconciler.CleanupPaidDocumentEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, f.eventsFor(t, calendar.TypeFinancial, doc.ID))
}

func TestReconciler_CollapsesDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := calendar.NewMockEventStore(ctrl)
	r := calendar.NewReconciler(events, nil, nil, calendar.WithClock(testutil.NewFakeClock(testNow)))

	due := testutil.MustDate("2024-06-01")
	doc := &document.FinancialDocument{ID: uuid.New(), Type: document.TypeExpense, Amount: decimal.NewFromInt(90), DueDate: &due}

	first := &calendar.Event{ID: uuid.New(), Type: calendar.TypeFinancial, LinkedID: doc.ID, Title: "stale", StartDate: due, EndDate: due, AllDay: true}
	dupe1 := &calendar.Event{ID: uuid.New(), Type: calendar.TypeFinancial, LinkedID: doc.ID}
	dupe2 := &calendar.Event{ID: uuid.New(), Type: calendar.TypeFinancial, LinkedID: doc.ID}

	events.EXPECT().FindEvents(gomock.Any(), calendar.TypeFinancial, doc.ID).Return([]*calendar.Event{first, dupe1, dupe2}, nil)
	events.EXPECT().DeleteEvents(gomock.Any(), []uuid.UUID{dupe1.ID, dupe2.ID}).Return(2, nil)
	events.EXPECT().
		UpdateEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *calendar.Event) error {
			assert.Equal(t, first.ID, e.ID)
			assert.Equal(t, "Payable 90.00", e.Title)
			assert.Equal(t, calendar.ColorPayable, e.Color)
			return nil
		})

	ev, err := r.SyncDocumentToCalendar(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, first.ID, ev.ID)
}

func TestReconciler_ConvergesOnConcurrentInsert(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := calendar.NewMockEventStore(ctrl)
	r := calendar.NewReconciler(events, nil, nil, calendar.WithClock(testutil.NewFakeClock(testNow)))

	due := testutil.MustDate("2024-06-01")
	doc := &document.FinancialDocument{ID: uuid.New(), Type: document.TypeInvoice, Amount: decimal.NewFromInt(40), DueDate: &due}

	theirs := &calendar.Event{
		ID: uuid.New(), Type: calendar.TypeFinancial, LinkedID: doc.ID,
		Title: "Receivable 40.00", Color: calendar.ColorReceivable, StartDate: due, EndDate: due, AllDay: true,
	}

	gomock.InOrder(
		events.EXPECT().FindEvents(gomock.Any(), calendar.TypeFinancial, doc.ID).Return(nil, nil),
		events.EXPECT().InsertEvent(gomock.Any(), gomock.Any()).Return(fmt.Errorf("creating calendar event: %w", &pgconn.PgError{Code: "23505"})),
		events.EXPECT().FindEvents(gomock.Any(), calendar.TypeFinancial, doc.ID).Return([]*calendar.Event{theirs}, nil),
	)

	ev, err := r.SyncDocumentToCalendar(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, theirs.ID, ev.ID)
}
