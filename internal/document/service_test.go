package document_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/studioflow/internal/database"
	"github.com/MrJamesThe3rd/studioflow/internal/document"
	"github.com/MrJamesThe3rd/studioflow/internal/document/store"
	"github.com/MrJamesThe3rd/studioflow/internal/notify"
	"github.com/MrJamesThe3rd/studioflow/internal/retry"
	"github.com/MrJamesThe3rd/studioflow/internal/testutil"
)

const testUser = "user-1"

var (
	testNow     = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	testSession = document.SessionInfo{IPAddress: "192.0.2.10", UserAgent: "studioctl/test"}
)

func newService(t *testing.T, opts ...document.Option) (*document.Service, *database.DB) {
	t.Helper()

	db := testutil.NewTestDB(t)
	opts = append([]document.Option{document.WithClock(testutil.NewFakeClock(testNow))}, opts...)

	return document.NewService(db, database.NewUnitOfWork(db), store.Factory, opts...), db
}

func createInvoice(t *testing.T, svc *document.Service, amount string) *document.FinancialDocument {
	t.Helper()

	due := testNow.AddDate(0, 0, 10)

	doc, err := svc.CreateDocument(context.Background(), document.CreateParams{
		ClientID: "client-1",
		Type:     document.TypeInvoice,
		Amount:   decimal.RequireFromString(amount),
		DueDate:  &due,
	}, testUser, testSession)
	require.NoError(t, err)

	return doc
}

func TestService_CreateDocument(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	doc := createInvoice(t, svc, "1000")

	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, document.StatusPending, doc.Status)
	assert.False(t, doc.Paid)
	assert.Equal(t, testUser, doc.CreatedBy)

	stored, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, doc.Amount.Equal(stored.Amount))
	assert.Equal(t, "2024-05-11", stored.DueDate.Format(time.DateOnly))

	history, err := svc.GetDocumentAuditHistory(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, document.ActionCreate, history[0].Action)
	assert.Nil(t, history[0].OldValues)
	assert.Equal(t, testSession.IPAddress, history[0].IPAddress)

	ok, err := document.VerifyEntry(history[0])
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_CreateDocument_Validation(t *testing.T) {
	svc, _ := newService(t)

	tests := []struct {
		name   string
		params document.CreateParams
		user   string
		field  string
	}{
		{name: "UnknownType", params: document.CreateParams{ClientID: "c", Type: "receipt"}, user: testUser, field: "document_type"},
		{name: "MissingClient", params: document.CreateParams{Type: document.TypeInvoice}, user: testUser, field: "client_id"},
		{name: "NegativeAmount", params: document.CreateParams{ClientID: "c", Type: document.TypeExpense, Amount: decimal.NewFromInt(-5)}, user: testUser, field: "amount"},
		{name: "MissingUser", params: document.CreateParams{ClientID: "c", Type: document.TypePayment}, field: "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateDocument(context.Background(), tt.params, tt.user, testSession)

			var ve *document.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestService_UpdateDocument_BumpsVersionAndAudits(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	doc := createInvoice(t, svc, "1000")

	amount := decimal.NewFromInt(1500)
	desc := "revised quote"

	updated, err := svc.UpdateDocument(ctx, doc.ID, document.Patch{Amount: &amount, Description: &desc}, "user-2", "client asked", testSession)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, "user-2", updated.UpdatedBy)
	assert.True(t, amount.Equal(updated.Amount))

	history, err := svc.GetDocumentAuditHistory(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, document.ActionUpdate, history[1].Action)
	assert.Equal(t, "client asked", history[1].Reason)
	assert.Contains(t, string(history[1].OldValues), `"amount":"1000.00"`)
	assert.Contains(t, string(history[1].NewValues), `"amount":"1500.00"`)

	ok, err := svc.VerifyAuditIntegrity(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_UpdateDocument_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	doc := createInvoice(t, svc, "1000")

	t.Run("NotFound", func(t *testing.T) {
		_, err := svc.UpdateDocument(ctx, uuid.New(), document.Patch{}, testUser, "", testSession)
		assert.ErrorIs(t, err, document.ErrNotFound)
	})

	t.Run("StaleExpectedVersion", func(t *testing.T) {
		stale := 7
		_, err := svc.UpdateDocument(ctx, doc.ID, document.Patch{ExpectedVersion: &stale}, testUser, "", testSession)
		assert.ErrorIs(t, err, document.ErrConflict)
	})

	t.Run("EmptyClient", func(t *testing.T) {
		empty := " "
		_, err := svc.UpdateDocument(ctx, doc.ID, document.Patch{ClientID: &empty}, testUser, "", testSession)

		var ve *document.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("Archived", func(t *testing.T) {
		_, err := svc.ArchiveDocument(ctx, doc.ID, testUser, "year end", testSession)
		require.NoError(t, err)

		desc := "late edit"
		_, err = svc.UpdateDocument(ctx, doc.ID, document.Patch{Description: &desc}, testUser, "", testSession)
		assert.ErrorIs(t, err, document.ErrInvalidState)
	})
}

func TestService_ConcurrentUpdates_OneWinner(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	doc := createInvoice(t, svc, "1000")

	const writers = 2

	var (
		wg      sync.WaitGroup
		results [writers]*document.FinancialDocument
		errs    [writers]error
	)

	for i := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			amount := decimal.NewFromInt(2000)
			expected := 1

			results[i], errs[i] = svc.UpdateDocument(ctx, doc.ID, document.Patch{Amount: &amount, ExpectedVersion: &expected}, testUser, "", testSession)
		}()
	}

	wg.Wait()

	var wins, conflicts int

	for i := range writers {
		switch {
		case errs[i] == nil:
			wins++

			assert.Equal(t, 2, results[i].Version)
		case errors.Is(errs[i], document.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", errs[i])
		}
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	stored, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Version)

	history, err := svc.GetDocumentAuditHistory(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestService_NamedTransitions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	doc := createInvoice(t, svc, "1000")

	approved, err := svc.ApproveDocument(ctx, doc.ID, testUser, "looks good", testSession)
	require.NoError(t, err)
	assert.Equal(t, document.StatusApproved, approved.Status)

	_, err = svc.ApproveDocument(ctx, doc.ID, testUser, "", testSession)
	assert.ErrorIs(t, err, document.ErrInvalidState)

	paid, err := svc.MarkAsPaid(ctx, doc.ID, testUser, "", testSession)
	require.NoError(t, err)
	assert.Equal(t, document.StatusPaid, paid.Status)
	assert.True(t, paid.Paid)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, "2024-05-01", paid.PaymentDate.Format(time.DateOnly))
	assert.Equal(t, 3, paid.Version)

	_, err = svc.CancelDocument(ctx, doc.ID, testUser, "", testSession)
	assert.ErrorIs(t, err, document.ErrInvalidState)

	archived, err := svc.ArchiveDocument(ctx, doc.ID, testUser, "closed", testSession)
	require.NoError(t, err)
	assert.True(t, archived.Archived)
	assert.Equal(t, document.StatusArchived, archived.Status)

	_, err = svc.ArchiveDocument(ctx, doc.ID, testUser, "", testSession)
	assert.ErrorIs(t, err, document.ErrInvalidState)

	restored, err := svc.UnarchiveDocument(ctx, doc.ID, testUser, "reopened", testSession)
	require.NoError(t, err)
	assert.False(t, restored.Archived)
	assert.Equal(t, document.StatusPaid, restored.Status)
	assert.Equal(t, 5, restored.Version)

	_, err = svc.UnarchiveDocument(ctx, doc.ID, testUser, "", testSession)
	assert.ErrorIs(t, err, document.ErrInvalidState)

	history, err := svc.GetDocumentAuditHistory(ctx, doc.ID)
	require.NoError(t, err)

	reasons := make([]string, 0, len(history))
	for _, e := range history {
		reasons = append(reasons, e.Reason)
	}

	assert.Equal(t, []string{"", "Approval: looks good", "Payment", "Archive: closed", "Unarchive: reopened"}, reasons)

	ok, err := svc.VerifyAuditIntegrity(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_CancelDocument(t *testing.T) {
	svc, _ := newService(t)

	doc := createInvoice(t, svc, "250")

	cancelled, err := svc.CancelDocument(context.Background(), doc.ID, testUser, "duplicate", testSession)
	require.NoError(t, err)
	assert.Equal(t, document.StatusCancelled, cancelled.Status)
	assert.False(t, cancelled.NeedsCalendarEvent())
}

func TestService_UnarchiveRestoresPreviousStatus(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(ctx context.Context, svc *document.Service, id uuid.UUID) error
		want    document.Status
	}{
		{
			name: "Cancelled",
			prepare: func(ctx context.Context, svc *document.Service, id uuid.UUID) error {
				_, err := svc.CancelDocument(ctx, id, testUser, "duplicate", testSession)
				return err
			},
			want: document.StatusCancelled,
		},
		{
			name: "Approved",
			prepare: func(ctx context.Context, svc *document.Service, id uuid.UUID) error {
				_, err := svc.ApproveDocument(ctx, id, testUser, "", testSession)
				return err
			},
			want: document.StatusApproved,
		},
		{
			name:    "Pending",
			prepare: func(context.Context, *document.Service, uuid.UUID) error { return nil },
			want:    document.StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, _ := newService(t)

			doc := createInvoice(t, svc, "400")
			require.NoError(t, tt.prepare(ctx, svc, doc.ID))

			_, err := svc.ArchiveDocument(ctx, doc.ID, testUser, "", testSession)
			require.NoError(t, err)

			restored, err := svc.UnarchiveDocument(ctx, doc.ID, testUser, "", testSession)
			require.NoError(t, err)
			assert.False(t, restored.Archived)
			assert.Equal(t, tt.want, restored.Status)
			assert.Equal(t, tt.want == document.StatusPending || tt.want == document.StatusApproved, restored.NeedsCalendarEvent())

			stored, err := svc.GetDocument(ctx, doc.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.Status)

			ok, err := svc.VerifyAuditIntegrity(ctx, doc.ID)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestService_UnarchiveAfterSecondArchive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	doc := createInvoice(t, svc, "400")

	_, err := svc.ArchiveDocument(ctx, doc.ID, testUser, "", testSession)
	require.NoError(t, err)
	_, err = svc.UnarchiveDocument(ctx, doc.ID, testUser, "", testSession)
	require.NoError(t, err)
	_, err = svc.ApproveDocument(ctx, doc.ID, testUser, "", testSession)
	require.NoError(t, err)
	_, err = svc.ArchiveDocument(ctx, doc.ID, testUser, "", testSession)
	require.NoError(t, err)

	restored, err := svc.UnarchiveDocument(ctx, doc.ID, testUser, "", testSession)
	require.NoError(t, err)
	assert.Equal(t, document.StatusApproved, restored.Status)
}

func TestService_VerifyAuditIntegrity_DetectsTampering(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)

	doc := createInvoice(t, svc, "1000")

	amount := decimal.NewFromInt(1200)
	_, err := svc.UpdateDocument(ctx, doc.ID, document.Patch{Amount: &amount}, testUser, "", testSession)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`UPDATE document_audit_log SET new_values = REPLACE(new_values, '1200.00', '9999.00') WHERE document_id = ? AND action = ?`,
		doc.ID, string(document.ActionUpdate),
	)
	require.NoError(t, err)

	ok, err := svc.VerifyAuditIntegrity(ctx, doc.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_VerifyAuditIntegrity_UnknownDocument(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.VerifyAuditIntegrity(context.Background(), uuid.New())
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestService_UpdateDocument_RollsBackWhenAuditInsertFails(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	clk := document.WithClock(testutil.NewFakeClock(testNow))

	svc := document.NewService(db, database.NewUnitOfWork(db), store.Factory, clk)
	doc := createInvoice(t, svc, "1000")

	injected := errors.New("disk full")
	failing := document.NewService(db, &testutil.FailOnNthExecUoW{
		Inner:  database.NewUnitOfWork(db),
		FailOn: 2, // document update succeeds, audit insert fails
		Err:    injected,
	}, store.Factory, clk)

	amount := decimal.NewFromInt(3000)
	_, err := failing.UpdateDocument(ctx, doc.ID, document.Patch{Amount: &amount}, testUser, "", testSession)
	require.ErrorIs(t, err, injected)

	stored, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version)
	assert.True(t, decimal.NewFromInt(1000).Equal(stored.Amount))

	history, err := svc.GetDocumentAuditHistory(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestService_ChangeHookAndNotifications(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hook := document.NewMockChangeHook(ctrl)
	notifier := notify.NewMockNotifier(ctrl)

	svc, _ := newService(t, document.WithChangeHook(hook), document.WithNotifier(notifier))

	gomock.InOrder(
		hook.EXPECT().ReconcileDocument(gomock.Any(), gomock.Any()).Return(nil),
		notifier.EXPECT().Emit(gomock.Any(), notify.EventDocumentCreated, gomock.Any()),
		hook.EXPECT().
			ReconcileDocument(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, d *document.FinancialDocument) error {
				assert.True(t, d.Paid)
				return errors.New("calendar unavailable")
			}),
		notifier.EXPECT().Emit(gomock.Any(), notify.EventDocumentUpdated, gomock.Any()),
	)

	doc := createInvoice(t, svc, "100")

	// A failing hook does not undo the payment.
	paid, err := svc.MarkAsPaid(context.Background(), doc.ID, testUser, "", testSession)
	require.NoError(t, err)
	assert.Equal(t, 2, paid.Version)
}

func TestService_SyncWithProject(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	projectID := uuid.New()
	issued := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	terms := document.ProjectTerms{
		ClientID:    "client-9",
		Budget:      decimal.NewFromInt(8000),
		PaymentTerm: 15,
		IssueDate:   &issued,
	}

	first, err := svc.SyncWithProject(ctx, projectID, terms, testUser, testSession)
	require.NoError(t, err)
	require.NotNil(t, first.Created)
	assert.Empty(t, first.Updated)
	assert.Equal(t, document.TypeInvoice, first.Created.Type)
	assert.Equal(t, "2024-04-16", first.Created.DueDate.Format(time.DateOnly))
	assert.True(t, terms.Budget.Equal(first.Created.Amount))

	// Unchanged budget is a no-op.
	again, err := svc.SyncWithProject(ctx, projectID, terms, testUser, testSession)
	require.NoError(t, err)
	assert.Nil(t, again.Created)
	assert.Empty(t, again.Updated)

	terms.Budget = decimal.NewFromInt(9500)

	changed, err := svc.SyncWithProject(ctx, projectID, terms, testUser, testSession)
	require.NoError(t, err)
	require.Len(t, changed.Updated, 1)
	assert.Equal(t, 2, changed.Updated[0].Version)
	assert.True(t, terms.Budget.Equal(changed.Updated[0].Amount))

	history, err := svc.GetDocumentAuditHistory(ctx, first.Created.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Project budget sync: 8000.00 -> 9500.00", history[1].Reason)

	// Paid documents keep their amount.
	_, err = svc.MarkAsPaid(ctx, first.Created.ID, testUser, "", testSession)
	require.NoError(t, err)

	terms.Budget = decimal.NewFromInt(10000)

	afterPaid, err := svc.SyncWithProject(ctx, projectID, terms, testUser, testSession)
	require.NoError(t, err)
	assert.Nil(t, afterPaid.Created)
	assert.Empty(t, afterPaid.Updated)
}

func TestService_SyncWithProject_ZeroBudgetCreatesNothing(t *testing.T) {
	svc, _ := newService(t)

	result, err := svc.SyncWithProject(context.Background(), uuid.New(), document.ProjectTerms{ClientID: "c"}, testUser, testSession)
	require.NoError(t, err)
	assert.Nil(t, result.Created)
}

// passthroughUoW hands the callback no transaction; the store factory below
// ignores it.
type passthroughUoW struct{ calls int }

func (u *passthroughUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx database.DBTX) error) error {
	u.calls++
	return fn(ctx, nil)
}

func TestService_RetriesTransientStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := document.NewMockStore(ctrl)
	uow := &passthroughUoW{}

	doc := &document.FinancialDocument{
		ID:       uuid.New(),
		ClientID: "c",
		Type:     document.TypeInvoice,
		Status:   document.StatusPending,
		Version:  4,
	}

	gomock.InOrder(
		st.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(nil, driver.ErrBadConn),
		st.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(doc, nil),
		st.EXPECT().UpdateDocument(gomock.Any(), gomock.Any(), 4).Return(nil),
		st.EXPECT().InsertAuditEntry(gomock.Any(), gomock.Any()).Return(nil),
	)

	svc := document.NewService(nil, uow, func(database.DBTX) document.Store { return st },
		document.WithRetry(retry.Policy{
			Attempts:  3,
			Retryable: database.IsTransient,
			Sleep:     func(context.Context, time.Duration) error { return nil },
		}),
	)

	got, err := svc.ApproveDocument(context.Background(), doc.ID, testUser, "", testSession)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Version)
	assert.Equal(t, 2, uow.calls)
}

func TestService_ConflictIsNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := document.NewMockStore(ctrl)
	uow := &passthroughUoW{}

	doc := &document.FinancialDocument{ID: uuid.New(), Status: document.StatusPending, Version: 1}

	st.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(doc, nil)
	st.EXPECT().UpdateDocument(gomock.Any(), gomock.Any(), 1).Return(document.ErrConflict)

	svc := document.NewService(nil, uow, func(database.DBTX) document.Store { return st },
		document.WithRetry(retry.Policy{Attempts: 3, Retryable: database.IsTransient}),
	)

	_, err := svc.ApproveDocument(context.Background(), doc.ID, testUser, "", testSession)
	assert.ErrorIs(t, err, document.ErrConflict)
	assert.Equal(t, 1, uow.calls)
}
