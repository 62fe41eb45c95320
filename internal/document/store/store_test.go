package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/studioflow/internal/document"
	"github.com/MrJamesThe3rd/studioflow/internal/document/store"
	"github.com/MrJamesThe3rd/studioflow/internal/testutil"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newDocument(projectID *uuid.UUID, client string, opts ...func(*document.FinancialDocument)) *document.FinancialDocument {
	due := testutil.MustDate("2024-06-01")

	d := &document.FinancialDocument{
		ID:        uuid.New(),
		ProjectID: projectID,
		ClientID:  client,
		Type:      document.TypeInvoice,
		Amount:    decimal.RequireFromString("99.90"),
		DueDate:   &due,
		Status:    document.StatusPending,
		Version:   1,
		CreatedBy: "u",
		CreatedAt: testNow,
		UpdatedBy: "u",
		UpdatedAt: testNow,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func TestStore_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := store.New(testutil.NewTestDB(t))

	projectID := uuid.New()
	d := newDocument(&projectID, "acme")
	require.NoError(t, s.InsertDocument(ctx, d))

	got, err := s.GetDocument(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "acme", got.ClientID)
	assert.True(t, d.Amount.Equal(got.Amount))
	require.NotNil(t, got.ProjectID)
	assert.Equal(t, projectID, *got.ProjectID)
	assert.Equal(t, "2024-06-01", got.DueDate.Format(time.DateOnly))
	assert.Nil(t, got.PaymentDate)
	assert.True(t, testNow.Equal(got.CreatedAt))

	_, err = s.GetDocument(ctx, uuid.New())
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestStore_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := store.New(testutil.NewTestDB(t))

	projectID := uuid.New()

	var (
		pending  = newDocument(&projectID, "acme")
		paid     = newDocument(&projectID, "acme", func(d *document.FinancialDocument) { d.Status, d.Paid = document.StatusPaid, true })
		archived = newDocument(nil, "acme", func(d *document.FinancialDocument) { d.Status, d.Archived = document.StatusArchived, true })
		other    = newDocument(nil, "globex")
	)

	for _, d := range []*document.FinancialDocument{pending, paid, archived, other} {
		require.NoError(t, s.InsertDocument(ctx, d))
	}

	yes := true

	tests := []struct {
		name   string
		filter document.ListFilter
		want   []uuid.UUID
	}{
		{name: "HidesArchived", filter: document.ListFilter{ClientID: "acme"}, want: []uuid.UUID{pending.ID, paid.ID}},
		{name: "IncludeArchived", filter: document.ListFilter{ClientID: "acme", IncludeArchived: true}, want: []uuid.UUID{pending.ID, paid.ID, archived.ID}},
		{name: "ByProject", filter: document.ListFilter{ProjectID: &projectID}, want: []uuid.UUID{pending.ID, paid.ID}},
		{name: "ByStatus", filter: document.ListFilter{Statuses: []document.Status{document.StatusPending}}, want: []uuid.UUID{pending.ID, other.ID}},
		{name: "Paid", filter: document.ListFilter{Paid: &yes}, want: []uuid.UUID{paid.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := s.ListDocuments(ctx, tt.filter)
			require.NoError(t, err)

			got := make([]uuid.UUID, len(docs))
			for i, d := range docs {
				got[i] = d.ID
			}

			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestStore_UpdateDocumentChecksVersion(t *testing.T) {
	ctx := context.Background()
	s := store.New(testutil.NewTestDB(t))

	d := newDocument(nil, "acme")
	require.NoError(t, s.InsertDocument(ctx, d))

	d.Version = 2
	d.Description = "revised"
	require.NoError(t, s.UpdateDocument(ctx, d, 1))

	d.Version = 3
	err := s.UpdateDocument(ctx, d, 1)
	assert.ErrorIs(t, err, document.ErrConflict)

	got, err := s.GetDocument(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, "revised", got.Description)
}

func TestStore_AuditEntriesInOrder(t *testing.T) {
	ctx := context.Background()
	s := store.New(testutil.NewTestDB(t))

	docID := uuid.New()

	first := &document.AuditLogEntry{
		ID:         uuid.Must(uuid.NewV7()),
		DocumentID: docID,
		Action:     document.ActionCreate,
		UserID:     "u",
		NewValues:  json.RawMessage(`{"amount":"10.00"}`),
		Checksum:   "c1",
		CreatedAt:  testNow,
	}
	second := &document.AuditLogEntry{
		ID:         uuid.Must(uuid.NewV7()),
		DocumentID: docID,
		Action:     document.ActionUpdate,
		UserID:     "u",
		OldValues:  json.RawMessage(`{"amount":"10.00"}`),
		NewValues:  json.RawMessage(`{"amount":"12.00"}`),
		Reason:     "Approval",
		Checksum:   "c2",
		IPAddress:  "192.0.2.1",
		CreatedAt:  testNow.Add(time.Second),
	}

	require.NoError(t, s.InsertAuditEntry(ctx, second))
	require.NoError(t, s.InsertAuditEntry(ctx, first))

	entries, err := s.ListAuditEntries(ctx, docID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, first.ID, entries[0].ID)
	assert.Nil(t, entries[0].OldValues)
	assert.Equal(t, second.ID, entries[1].ID)
	assert.JSONEq(t, `{"amount":"10.00"}`, string(entries[1].OldValues))
	assert.Equal(t, "Approval", entries[1].Reason)
	assert.Equal(t, "192.0.2.1", entries[1].IPAddress)
}
