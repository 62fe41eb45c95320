package project

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/studioflow/internal/clock"
	"github.com/MrJamesThe3rd/studioflow/internal/document"
	"github.com/MrJamesThe3rd/studioflow/internal/notify"
	"github.com/MrJamesThe3rd/studioflow/internal/retry"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=project
type Repository interface {
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context, filter ListFilter) ([]*Project, error)
	CreateProject(ctx context.Context, p *Project) error
	// UpdateStatus returns ErrConflict when the project is no longer in from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, at time.Time) error
	// UpdateSpecialStatus returns ErrConflict when the status or special
	// status moved since the change was validated.
	UpdateSpecialStatus(ctx context.Context, id uuid.UUID, status Status, from, to SpecialStatus, at time.Time) error
	// UpdateSchedule writes the dates and payment term only.
	UpdateSchedule(ctx context.Context, p *Project) error
	UpdateBudget(ctx context.Context, id uuid.UUID, budget decimal.Decimal, at time.Time) error
	// UpdateStatuses applies every change whose project is still in
	// change.From, atomically, and returns the ids that were updated.
	UpdateStatuses(ctx context.Context, changes []StatusChange, at time.Time) ([]uuid.UUID, error)
}

// DocumentSyncer keeps a project's financial documents in line with its budget.
type DocumentSyncer interface {
	SyncWithProject(ctx context.Context, projectID uuid.UUID, terms document.ProjectTerms, userID string, session document.SessionInfo) (*document.SyncResult, error)
}

// DeadlineRescheduler re-arms the overdue check after a schedule change.
type DeadlineRescheduler interface {
	Reschedule(ctx context.Context) error
}

// ListFilter selects projects. Date bounds skip projects without an end date.
type ListFilter struct {
	Statuses     []Status
	EndBefore    *time.Time
	EndOnOrAfter *time.Time
}

type StatusChange struct {
	ID   uuid.UUID
	From Status
	To   Status
}

type ScheduleParams struct {
	EndDate     *time.Time
	IssueDate   *time.Time
	PaymentTerm *int
}

type Service struct {
	repo      Repository
	documents DocumentSyncer
	deadlines DeadlineRescheduler
	notifier  notify.Notifier
	clock     clock.Clock
	retry     retry.Policy
	logger    *slog.Logger
}

type Option func(*Service)

func WithDocumentSyncer(d DocumentSyncer) Option { return func(s *Service) { s.documents = d } }

func WithDeadlineRescheduler(d DeadlineRescheduler) Option {
	return func(s *Service) { s.deadlines = d }
}

func WithNotifier(n notify.Notifier) Option { return func(s *Service) { s.notifier = notify.OrNop(n) } }

func WithClock(c clock.Clock) Option { return func(s *Service) { s.clock = c } }

func WithRetry(p retry.Policy) Option { return func(s *Service) { s.retry = p } }

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		notifier: notify.Nop{},
		clock:    clock.System{},
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	return retry.Value(ctx, s.retry, func(ctx context.Context) (*Project, error) {
		return s.repo.GetProject(ctx, id)
	})
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Project, error) {
	return retry.Value(ctx, s.retry, func(ctx context.Context) ([]*Project, error) {
		return s.repo.ListProjects(ctx, filter)
	})
}

// ChangeStatus moves a project to target if the transition table allows it.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, target Status) (*Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(p.Status, target, p.Special()); err != nil {
		return nil, err
	}

	from := p.Status
	p.Status = target

	if err := s.save(ctx, p, func(ctx context.Context) error {
		return s.repo.UpdateStatus(ctx, p.ID, from, target, p.UpdatedAt)
	}); err != nil {
		return nil, err
	}

	// Leaving or entering the development set changes the nearest deadline.
	s.reschedule(ctx)

	return p, nil
}

// ChangeSpecialStatus sets the secondary flag if the special transition table
// allows it.
func (s *Service) ChangeSpecialStatus(ctx context.Context, id uuid.UUID, target SpecialStatus) (*Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ValidateSpecialTransition(p.Status, p.Special(), target); err != nil {
		return nil, err
	}

	from := p.Special()
	p.SpecialStatus = target

	if err := s.save(ctx, p, func(ctx context.Context) error {
		return s.repo.UpdateSpecialStatus(ctx, p.ID, p.Status, from, target, p.UpdatedAt)
	}); err != nil {
		return nil, err
	}

	return p, nil
}

// UpdateSchedule changes dates and payment term, then re-arms the deadline
// check. Reverting an overdue project is left to the next scan.
func (s *Service) UpdateSchedule(ctx context.Context, id uuid.UUID, params ScheduleParams) (*Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.EndDate != nil {
		d := clock.DateOnly(*params.EndDate)
		p.EndDate = &d
	}

	if params.IssueDate != nil {
		d := clock.DateOnly(*params.IssueDate)
		p.IssueDate = &d
	}

	if params.PaymentTerm != nil {
		if *params.PaymentTerm <= 0 {
			return nil, &document.ValidationError{Field: "payment_term", Reason: "must be a positive number of days"}
		}

		p.PaymentTerm = *params.PaymentTerm
	}

	if err := s.save(ctx, p, func(ctx context.Context) error {
		return s.repo.UpdateSchedule(ctx, p)
	}); err != nil {
		return nil, err
	}

	s.reschedule(ctx)

	return p, nil
}

// UpdateBudget stores a new budget and brings the project's pending
// documents in line with it.
func (s *Service) UpdateBudget(ctx context.Context, id uuid.UUID, budget decimal.Decimal, userID string, session document.SessionInfo) (*Project, error) {
	if budget.IsNegative() {
		return nil, &document.ValidationError{Field: "budget", Reason: "must not be negative"}
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Budget = budget

	if err := s.save(ctx, p, func(ctx context.Context) error {
		return s.repo.UpdateBudget(ctx, p.ID, budget, p.UpdatedAt)
	}); err != nil {
		return nil, err
	}

	if s.documents == nil {
		return p, nil
	}

	terms := document.ProjectTerms{
		ClientID:    p.ClientID,
		Budget:      p.Budget,
		PaymentTerm: p.PaymentTermDays(),
		IssueDate:   p.IssueDate,
	}

	if _, err := s.documents.SyncWithProject(ctx, p.ID, terms, userID, session); err != nil {
		return p, fmt.Errorf("syncing documents with project budget: %w", err)
	}

	return p, nil
}

// save stamps p and runs write, which stores only the columns the caller
// changed.
func (s *Service) save(ctx context.Context, p *Project, write func(ctx context.Context) error) error {
	p.UpdatedAt = s.clock.Now().UTC()

	if err := retry.Do(ctx, s.retry, write); err != nil {
		return err
	}

	s.notifier.Emit(ctx, notify.EventProjectUpdated, map[string]any{
		"id":             p.ID,
		"status":         p.Status,
		"special_status": p.Special(),
	})

	return nil
}

func (s *Service) reschedule(ctx context.Context) {
	if s.deadlines == nil {
		return
	}

	if err := s.deadlines.Reschedule(ctx); err != nil {
		s.logger.Error("failed to reschedule deadline check", "error", err)
	}
}
