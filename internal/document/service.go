package document

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/studioflow/internal/clock"
	"github.com/MrJamesThe3rd/studioflow/internal/database"
	"github.com/MrJamesThe3rd/studioflow/internal/notify"
	"github.com/MrJamesThe3rd/studioflow/internal/retry"
)

// defaultPaymentTerm applies to implicit invoices when the project has none.
const defaultPaymentTerm = 30

const (
	reasonApproval     = "Approval"
	reasonPayment      = "Payment"
	reasonArchive      = "Archive"
	reasonUnarchive    = "Unarchive"
	reasonCancellation = "Cancellation"
)

//go:generate mockgen -source=service.go -destination=store_mock.go -package=document
type Store interface {
	GetDocument(ctx context.Context, id uuid.UUID) (*FinancialDocument, error)
	ListDocuments(ctx context.Context, filter ListFilter) ([]*FinancialDocument, error)
	InsertDocument(ctx context.Context, d *FinancialDocument) error
	// UpdateDocument writes d only if the stored version still equals
	// expectedVersion, returning ErrConflict otherwise.
	UpdateDocument(ctx context.Context, d *FinancialDocument, expectedVersion int) error
	InsertAuditEntry(ctx context.Context, e *AuditLogEntry) error
	ListAuditEntries(ctx context.Context, documentID uuid.UUID) ([]*AuditLogEntry, error)
}

// ChangeHook is told about every committed document change. Its errors are
// logged and never undo the change.
type ChangeHook interface {
	ReconcileDocument(ctx context.Context, doc *FinancialDocument) error
}

// StoreFactory binds a Store to the pool or to a transaction.
type StoreFactory func(db database.DBTX) Store

type Service struct {
	db       database.DBTX
	uow      database.UnitOfWork
	newStore StoreFactory
	hook     ChangeHook
	notifier notify.Notifier
	clock    clock.Clock
	retry    retry.Policy
	logger   *slog.Logger
}

type Option func(*Service)

func WithChangeHook(h ChangeHook) Option { return func(s *Service) { s.hook = h } }

func WithNotifier(n notify.Notifier) Option { return func(s *Service) { s.notifier = notify.OrNop(n) } }

func WithClock(c clock.Clock) Option { return func(s *Service) { s.clock = c } }

func WithRetry(p retry.Policy) Option { return func(s *Service) { s.retry = p } }

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

func NewService(db database.DBTX, uow database.UnitOfWork, newStore StoreFactory, opts ...Option) *Service {
	s := &Service{
		db:       db,
		uow:      uow,
		newStore: newStore,
		notifier: notify.Nop{},
		clock:    clock.System{},
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateDocument stores a new pending document at version 1 together with
// its create audit entry.
func (s *Service) CreateDocument(ctx context.Context, params CreateParams, userID string, session SessionInfo) (*FinancialDocument, error) {
	if err := validateCreate(params, userID); err != nil {
		return nil, err
	}

	now := s.now()

	doc := &FinancialDocument{
		ID:          uuid.New(),
		ProjectID:   params.ProjectID,
		ClientID:    params.ClientID,
		Type:        params.Type,
		Description: params.Description,
		Amount:      params.Amount,
		DueDate:     dateOnly(params.DueDate),
		Status:      StatusPending,
		Version:     1,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedBy:   userID,
		UpdatedAt:   now,
	}

	err := s.inTx(ctx, func(ctx context.Context, st Store) error {
		return s.insert(ctx, st, doc, "", session)
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, notify.EventDocumentCreated, doc)

	return doc, nil
}

// UpdateDocument applies patch, bumps the version and records the before and
// after snapshots.
func (s *Service) UpdateDocument(ctx context.Context, id uuid.UUID, patch Patch, userID, reason string, session SessionInfo) (*FinancialDocument, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, userID, session, mutation{
		reason: reason,
		apply: func(d *FinancialDocument) error {
			if patch.ExpectedVersion != nil && *patch.ExpectedVersion != d.Version {
				return fmt.Errorf("%w: expected version %d, stored version %d", ErrConflict, *patch.ExpectedVersion, d.Version)
			}

			if patch.ClientID != nil {
				d.ClientID = *patch.ClientID
			}

			if patch.Description != nil {
				d.Description = *patch.Description
			}

			if patch.Amount != nil {
				d.Amount = *patch.Amount
			}

			if patch.ClearDueDate {
				d.DueDate = nil
			} else if patch.DueDate != nil {
				d.DueDate = dateOnly(patch.DueDate)
			}

			return nil
		},
	})
}

func (s *Service) ApproveDocument(ctx context.Context, id uuid.UUID, userID, reason string, session SessionInfo) (*FinancialDocument, error) {
	return s.mutate(ctx, id, userID, session, mutation{
		reason: withPrefix(reasonApproval, reason),
		apply: func(d *FinancialDocument) error {
			if d.Status != StatusPending {
				return invalidState(d, "approve")
			}

			d.Status = StatusApproved

			return nil
		},
	})
}

// MarkAsPaid settles a pending or approved document with today's date.
func (s *Service) MarkAsPaid(ctx context.Context, id uuid.UUID, userID, reason string, session SessionInfo) (*FinancialDocument, error) {
	return s.mutate(ctx, id, userID, session, mutation{
		reason: withPrefix(reasonPayment, reason),
		apply: func(d *FinancialDocument) error {
			if d.Status != StatusPending && d.Status != StatusApproved {
				return invalidState(d, "pay")
			}

			today := clock.DateOnly(s.clock.Now())

			d.Status = StatusPaid
			d.Paid = true
			d.PaymentDate = &today

			return nil
		},
	})
}

func (s *Service) ArchiveDocument(ctx context.Context, id uuid.UUID, userID, reason string, session SessionInfo) (*FinancialDocument, error) {
	return s.mutate(ctx, id, userID, session, mutation{
		reason: withPrefix(reasonArchive, reason),
		apply: func(d *FinancialDocument) error {
			d.Status = StatusArchived
			d.Archived = true

			return nil
		},
	})
}

// UnarchiveDocument is the only change allowed on an archived document. The
// status goes back to what it was when the document was archived.
func (s *Service) UnarchiveDocument(ctx context.Context, id uuid.UUID, userID, reason string, session SessionInfo) (*FinancialDocument, error) {
	return s.mutate(ctx, id, userID, session, mutation{
		reason:        withPrefix(reasonUnarchive, reason),
		allowArchived: true,
		applyTx: func(ctx context.Context, st Store, d *FinancialDocument) error {
			if !d.Archived {
				return invalidState(d, "unarchive")
			}

			status, err := statusBeforeArchive(ctx, st, d)
			if err != nil {
				return err
			}

			d.Archived = false
			d.Status = status

			return nil
		},
	})
}

// statusBeforeArchive reads the old status from the latest audit entry that
// archived d. Documents without such an entry fall back to paid or pending.
func statusBeforeArchive(ctx context.Context, st Store, d *FinancialDocument) (Status, error) {
	entries, err := st.ListAuditEntries(ctx, d.ID)
	if err != nil {
		return "", fmt.Errorf("reading audit history: %w", err)
	}

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.OldValues == nil {
			continue
		}

		var before, after archiveState
		if err := json.Unmarshal(e.OldValues, &before); err != nil {
			return "", fmt.Errorf("decoding audit entry %s: %w", e.ID, err)
		}

		if err := json.Unmarshal(e.NewValues, &after); err != nil {
			return "", fmt.Errorf("decoding audit entry %s: %w", e.ID, err)
		}

		if !before.Archived && after.Archived && before.Status != "" && before.Status != StatusArchived {
			return before.Status, nil
		}
	}

	if d.Paid {
		return StatusPaid, nil
	}

	return StatusPending, nil
}

type archiveState struct {
	Status   Status `json:"status"`
	Archived bool   `json:"archived"`
}

func (s *Service) CancelDocument(ctx context.Context, id uuid.UUID, userID, reason string, session SessionInfo) (*FinancialDocument, error) {
	return s.mutate(ctx, id, userID, session, mutation{
		reason: withPrefix(reasonCancellation, reason),
		apply: func(d *FinancialDocument) error {
			if d.Status != StatusPending && d.Status != StatusApproved {
				return invalidState(d, "cancel")
			}

			d.Status = StatusCancelled

			return nil
		},
	})
}

// SyncWithProject brings the project's documents in line with its budget.
// A project with a positive budget and no documents gets a pending invoice;
// otherwise every pending, non-archived document takes the new amount.
func (s *Service) SyncWithProject(ctx context.Context, projectID uuid.UUID, terms ProjectTerms, userID string, session SessionInfo) (*SyncResult, error) {
	if terms.Budget.IsNegative() {
		return nil, &ValidationError{Field: "budget", Reason: "must not be negative"}
	}

	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "is required"}
	}

	var result *SyncResult

	err := s.inTx(ctx, func(ctx context.Context, st Store) error {
		result = &SyncResult{}

		docs, err := st.ListDocuments(ctx, ListFilter{ProjectID: &projectID, IncludeArchived: true})
		if err != nil {
			return err
		}

		if len(docs) == 0 {
			if !terms.Budget.IsPositive() {
				return nil
			}

			if terms.ClientID == "" {
				return &ValidationError{Field: "client_id", Reason: "project has no client to invoice"}
			}

			doc := s.implicitInvoice(projectID, terms, userID)
			if err := s.insert(ctx, st, doc, "Project budget", session); err != nil {
				return err
			}

			result.Created = doc

			return nil
		}

		for _, d := range docs {
			if d.Status != StatusPending || d.Archived || d.Amount.Equal(terms.Budget) {
				continue
			}

			next, err := s.apply(ctx, st, d, userID, session, mutation{
				reason: fmt.Sprintf("Project budget sync: %s -> %s", d.Amount.StringFixed(amountPlaces), terms.Budget.StringFixed(amountPlaces)),
				apply: func(n *FinancialDocument) error {
					n.Amount = terms.Budget
					return nil
				},
			})
			if err != nil {
				return err
			}

			result.Updated = append(result.Updated, next)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("syncing documents of project %s: %w", projectID, err)
	}

	if result.Created != nil {
		s.afterCommit(ctx, notify.EventDocumentCreated, result.Created)
	}

	for _, d := range result.Updated {
		s.afterCommit(ctx, notify.EventDocumentUpdated, d)
	}

	return result, nil
}

func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*FinancialDocument, error) {
	return retry.Value(ctx, s.retry, func(ctx context.Context) (*FinancialDocument, error) {
		return s.newStore(s.db).GetDocument(ctx, id)
	})
}

func (s *Service) ListDocuments(ctx context.Context, filter ListFilter) ([]*FinancialDocument, error) {
	return retry.Value(ctx, s.retry, func(ctx context.Context) ([]*FinancialDocument, error) {
		return s.newStore(s.db).ListDocuments(ctx, filter)
	})
}

// GetDocumentAuditHistory returns the audit entries of a document, oldest
// first.
func (s *Service) GetDocumentAuditHistory(ctx context.Context, id uuid.UUID) ([]*AuditLogEntry, error) {
	if _, err := s.GetDocument(ctx, id); err != nil {
		return nil, err
	}

	return retry.Value(ctx, s.retry, func(ctx context.Context) ([]*AuditLogEntry, error) {
		return s.newStore(s.db).ListAuditEntries(ctx, id)
	})
}

// VerifyAuditIntegrity recomputes every checksum of the document's audit
// trail and reports false at the first mismatch. Nothing is repaired.
func (s *Service) VerifyAuditIntegrity(ctx context.Context, id uuid.UUID) (bool, error) {
	entries, err := s.GetDocumentAuditHistory(ctx, id)
	if err != nil {
		return false, err
	}

	for _, e := range entries {
		ok, err := VerifyEntry(e)
		if err != nil {
			s.logger.Error("audit integrity violation", "document_id", id, "entry_id", e.ID, "error", err)
			return false, nil
		}

		if !ok {
			s.logger.Error("audit integrity violation", "document_id", id, "entry_id", e.ID, "action", e.Action)
			return false, nil
		}
	}

	return true, nil
}

type mutation struct {
	reason        string
	allowArchived bool
	apply         func(d *FinancialDocument) error
	// applyTx replaces apply when the change needs to read the store.
	applyTx func(ctx context.Context, st Store, d *FinancialDocument) error
}

func (s *Service) mutate(ctx context.Context, id uuid.UUID, userID string, session SessionInfo, m mutation) (*FinancialDocument, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "is required"}
	}

	var updated *FinancialDocument

	err := s.inTx(ctx, func(ctx context.Context, st Store) error {
		cur, err := st.GetDocument(ctx, id)
		if err != nil {
			return err
		}

		updated, err = s.apply(ctx, st, cur, userID, session, m)

		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, notify.EventDocumentUpdated, updated)

	return updated, nil
}

// apply runs m against cur inside the caller's transaction.
func (s *Service) apply(ctx context.Context, st Store, cur *FinancialDocument, userID string, session SessionInfo, m mutation) (*FinancialDocument, error) {
	if cur.Archived && !m.allowArchived {
		return nil, fmt.Errorf("%w: document %s is archived", ErrInvalidState, cur.ID)
	}

	next := *cur

	var err error
	if m.applyTx != nil {
		err = m.applyTx(ctx, st, &next)
	} else {
		err = m.apply(&next)
	}

	if err != nil {
		return nil, err
	}

	now := s.now()

	next.Version = cur.Version + 1
	next.UpdatedBy = userID
	next.UpdatedAt = now

	if err := st.UpdateDocument(ctx, &next, cur.Version); err != nil {
		return nil, err
	}

	if err := s.logAction(ctx, st, ActionUpdate, userID, cur, &next, m.reason, session, now); err != nil {
		return nil, err
	}

	return &next, nil
}

func (s *Service) insert(ctx context.Context, st Store, doc *FinancialDocument, reason string, session SessionInfo) error {
	if err := st.InsertDocument(ctx, doc); err != nil {
		return err
	}

	return s.logAction(ctx, st, ActionCreate, doc.CreatedBy, nil, doc, reason, session, doc.CreatedAt)
}

// logAction appends the checksummed audit entry for a change from before to
// after. before is nil for creations.
func (s *Service) logAction(ctx context.Context, st Store, action Action, userID string, before, after *FinancialDocument, reason string, session SessionInfo, at time.Time) error {
	oldValues, err := marshalSnapshot(before)
	if err != nil {
		return err
	}

	newValues, err := marshalSnapshot(after)
	if err != nil {
		return err
	}

	sum, err := Checksum(after.ID, action, userID, oldValues, newValues)
	if err != nil {
		return err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generating audit entry id: %w", err)
	}

	return st.InsertAuditEntry(ctx, &AuditLogEntry{
		ID:         id,
		DocumentID: after.ID,
		Action:     action,
		UserID:     userID,
		OldValues:  oldValues,
		NewValues:  newValues,
		Reason:     reason,
		Checksum:   sum,
		IPAddress:  session.IPAddress,
		UserAgent:  session.UserAgent,
		CreatedAt:  at,
	})
}

// inTx runs fn in a transaction, retrying the whole transaction on
// transient failures.
func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context, st Store) error) error {
	return retry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx database.DBTX) error {
			return fn(ctx, s.newStore(tx))
		})
	})
}

func (s *Service) afterCommit(ctx context.Context, event string, doc *FinancialDocument) {
	if s.hook != nil {
		if err := s.hook.ReconcileDocument(ctx, doc); err != nil {
			s.logger.Error("failed to reconcile calendar for document", "document_id", doc.ID, "error", err)
		}
	}

	s.notifier.Emit(ctx, event, map[string]any{
		"id":      doc.ID,
		"version": doc.Version,
		"status":  doc.Status,
	})
}

func (s *Service) implicitInvoice(projectID uuid.UUID, terms ProjectTerms, userID string) *FinancialDocument {
	now := s.now()

	base := clock.DateOnly(s.clock.Now())
	if terms.IssueDate != nil {
		base = clock.DateOnly(*terms.IssueDate)
	}

	term := terms.PaymentTerm
	if term <= 0 {
		term = defaultPaymentTerm
	}

	due := base.AddDate(0, 0, term)
	pid := projectID

	return &FinancialDocument{
		ID:          uuid.New(),
		ProjectID:   &pid,
		ClientID:    terms.ClientID,
		Type:        TypeInvoice,
		Description: "Project budget",
		Amount:      terms.Budget,
		DueDate:     &due,
		Status:      StatusPending,
		Version:     1,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedBy:   userID,
		UpdatedAt:   now,
	}
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

func validateCreate(p CreateParams, userID string) error {
	switch {
	case !p.Type.Valid():
		return &ValidationError{Field: "document_type", Reason: fmt.Sprintf("unknown type %q", p.Type)}
	case strings.TrimSpace(p.ClientID) == "":
		return &ValidationError{Field: "client_id", Reason: "is required"}
	case p.Amount.IsNegative():
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	case userID == "":
		return &ValidationError{Field: "user_id", Reason: "is required"}
	}

	return nil
}

func validatePatch(p Patch) error {
	if p.ClientID != nil && strings.TrimSpace(*p.ClientID) == "" {
		return &ValidationError{Field: "client_id", Reason: "must not be empty"}
	}

	if p.Amount != nil && p.Amount.IsNegative() {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	return nil
}

func invalidState(d *FinancialDocument, op string) error {
	return fmt.Errorf("%w: cannot %s a %s document", ErrInvalidState, op, d.Status)
}

func withPrefix(prefix, reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return prefix
	}

	return prefix + ": " + reason
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	d := clock.DateOnly(*t)

	return &d
}
