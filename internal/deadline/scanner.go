package deadline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/studioflow/internal/clock"
	"github.com/MrJamesThe3rd/studioflow/internal/notify"
	"github.com/MrJamesThe3rd/studioflow/internal/project"
	"github.com/MrJamesThe3rd/studioflow/internal/retry"
)

const (
	DefaultFallbackInterval = 24 * time.Hour
	DefaultErrorBackoff     = time.Hour
	defaultRunTimeout       = 2 * time.Minute
	// checkMinute is how far past midnight deadline checks run.
	checkMinute = time.Minute
)

//go:generate mockgen -source=scanner.go -destination=scanner_mock.go -package=deadline
type ProjectStore interface {
	ListProjects(ctx context.Context, filter project.ListFilter) ([]*project.Project, error)
	UpdateStatuses(ctx context.Context, changes []project.StatusChange, at time.Time) ([]uuid.UUID, error)
}

// Scanner flags projects overdue once their end date passes, reverts
// projects whose end date moved back into the future, and keeps a single
// timer armed for the next deadline.
type Scanner struct {
	store        ProjectStore
	clock        clock.Clock
	loc          *time.Location
	notifier     notify.Notifier
	retry        retry.Policy
	logger       *slog.Logger
	fallback     time.Duration
	errorBackoff time.Duration
	runTimeout   time.Duration

	mu         sync.Mutex
	timer      clock.Timer
	generation uint64
	stopped    bool
}

type Option func(*Scanner)

func WithClock(c clock.Clock) Option { return func(s *Scanner) { s.clock = c } }

func WithLocation(loc *time.Location) Option { return func(s *Scanner) { s.loc = loc } }

func WithNotifier(n notify.Notifier) Option { return func(s *Scanner) { s.notifier = notify.OrNop(n) } }

func WithRetry(p retry.Policy) Option { return func(s *Scanner) { s.retry = p } }

func WithLogger(l *slog.Logger) Option { return func(s *Scanner) { s.logger = l } }

func WithFallbackInterval(d time.Duration) Option { return func(s *Scanner) { s.fallback = d } }

func WithErrorBackoff(d time.Duration) Option { return func(s *Scanner) { s.errorBackoff = d } }

func WithRunTimeout(d time.Duration) Option { return func(s *Scanner) { s.runTimeout = d } }

func NewScanner(store ProjectStore, opts ...Option) *Scanner {
	s := &Scanner{
		store:        store,
		clock:        clock.System{},
		loc:          time.Local,
		notifier:     notify.Nop{},
		logger:       slog.Default(),
		fallback:     DefaultFallbackInterval,
		errorBackoff: DefaultErrorBackoff,
		runTimeout:   defaultRunTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CheckOverdueProjects moves every development project whose end date is
// before today to overdue, in one batch.
func (s *Scanner) CheckOverdueProjects(ctx context.Context) (*ScanResult, error) {
	today := s.today()

	projects, err := s.list(ctx, project.ListFilter{Statuses: project.DevelopmentSet, EndBefore: &today})
	if err != nil {
		return nil, fmt.Errorf("listing projects past their end date: %w", err)
	}

	result, err := s.transition(ctx, projects, func(*project.Project) project.Status { return project.StatusOverdue })
	if err != nil {
		return nil, fmt.Errorf("marking projects overdue: %w", err)
	}

	if result.UpdatedCount > 0 {
		s.logger.Info("projects marked overdue", "count", result.UpdatedCount)
		s.notifier.Emit(ctx, notify.EventProjectsOverdue, result.Projects)
	}

	return result, nil
}

// CheckProjectsWithUpdatedDates reverts overdue projects whose end date is
// today or later.
func (s *Scanner) CheckProjectsWithUpdatedDates(ctx context.Context) (*ScanResult, error) {
	today := s.today()

	projects, err := s.list(ctx, project.ListFilter{
		Statuses:     []project.Status{project.StatusOverdue},
		EndOnOrAfter: &today,
	})
	if err != nil {
		return nil, fmt.Errorf("listing overdue projects with future end dates: %w", err)
	}

	result, err := s.transition(ctx, projects, func(*project.Project) project.Status { return project.RevertStatus })
	if err != nil {
		return nil, fmt.Errorf("reverting overdue projects: %w", err)
	}

	if result.UpdatedCount > 0 {
		s.logger.Info("overdue projects reverted", "count", result.UpdatedCount)
		s.notifier.Emit(ctx, notify.EventProjectsReverted, result.Projects)
	}

	return result, nil
}

// FindNextDeadline returns the nearest end date, today included, among
// development projects, or nil when there is none. Ties go to the lowest id.
func (s *Scanner) FindNextDeadline(ctx context.Context) (*Deadline, error) {
	today := s.today()

	projects, err := s.list(ctx, project.ListFilter{Statuses: project.DevelopmentSet, EndOnOrAfter: &today})
	if err != nil {
		return nil, fmt.Errorf("listing upcoming deadlines: %w", err)
	}

	var next *project.Project

	for _, p := range projects {
		if p.EndDate == nil {
			continue
		}

		if next == nil || p.EndDate.Before(*next.EndDate) ||
			(p.EndDate.Equal(*next.EndDate) && p.ID.String() < next.ID.String()) {
			next = p
		}
	}

	if next == nil {
		return nil, nil
	}

	end := time.Date(next.EndDate.Year(), next.EndDate.Month(), next.EndDate.Day(), 0, 0, 0, 0, s.loc).Add(checkMinute)

	return &Deadline{
		ProjectID:   next.ID,
		ProjectName: next.Name,
		EndDate:     end,
		CheckAt:     end.AddDate(0, 0, 1),
	}, nil
}

// ScheduleNextDeadlineCheck replaces any pending timer with one that fires
// at the next deadline, or after the fallback interval when there is no
// deadline. When the timer fires it runs CheckOverdueProjects and re-arms.
// If the deadline cannot be computed the timer is armed with the error
// backoff and the error is returned.
func (s *Scanner) ScheduleNextDeadlineCheck(ctx context.Context) (*Schedule, error) {
	gen, err := s.claim()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	next, err := s.FindNextDeadline(ctx)
	if err != nil {
		sched := &Schedule{FiresAt: now.Add(s.errorBackoff), Delay: s.errorBackoff, Backoff: true}
		s.arm(gen, sched.Delay)
		s.logger.Error("failed to compute next deadline, retrying later", "retry_in", s.errorBackoff, "error", err)

		return sched, err
	}

	sched := &Schedule{Delay: s.fallback, Fallback: true}

	if next != nil {
		sched.Deadline = next
		sched.Delay = max(next.CheckAt.Sub(now), 0)
		sched.Fallback = false
	}

	sched.FiresAt = now.Add(sched.Delay)

	if !s.arm(gen, sched.Delay) {
		return sched, nil
	}

	args := []any{"fires_at", sched.FiresAt, "fallback", sched.Fallback}
	if next != nil {
		args = append(args, "project_id", next.ProjectID, "end_date", next.EndDate)
	}

	s.logger.Info("deadline check armed", args...)
	s.notifier.Emit(ctx, notify.EventDeadlineArmed, sched)

	return sched, nil
}

// Reschedule re-arms the timer after project dates or statuses changed.
func (s *Scanner) Reschedule(ctx context.Context) error {
	_, err := s.ScheduleNextDeadlineCheck(ctx)
	return err
}

// Stop cancels the pending timer. Later schedule calls return ErrStopped.
func (s *Scanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	s.generation++
	s.cancelLocked()
}

// claim cancels the pending timer and returns the generation the caller may
// arm. A later claim invalidates it.
func (s *Scanner) claim() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return 0, ErrStopped
	}

	s.cancelLocked()
	s.generation++

	return s.generation, nil
}

// arm installs the timer unless a newer claim or Stop happened meanwhile.
func (s *Scanner) arm(gen uint64, delay time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || gen != s.generation {
		return false
	}

	s.cancelLocked()
	s.timer = s.clock.AfterFunc(delay, func() { s.fire(gen) })

	return true
}

func (s *Scanner) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// fire runs when a timer expires. A timer whose generation is stale does
// nothing, even if Stop lost the race against it.
func (s *Scanner) fire(gen uint64) {
	s.mu.Lock()
	if s.stopped || gen != s.generation {
		s.mu.Unlock()
		return
	}

	s.timer = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	if _, err := s.CheckOverdueProjects(ctx); err != nil {
		s.logger.Error("scheduled overdue check failed", "retry_in", s.errorBackoff, "error", err)
		s.backoff()

		return
	}

	// On error ScheduleNextDeadlineCheck has already armed the backoff.
	_, _ = s.ScheduleNextDeadlineCheck(ctx)
}

func (s *Scanner) backoff() {
	gen, err := s.claim()
	if err != nil {
		return
	}

	s.arm(gen, s.errorBackoff)
}

// transition applies target to every project the table allows and reports
// the rest as skipped.
func (s *Scanner) transition(ctx context.Context, projects []*project.Project, target func(*project.Project) project.Status) (*ScanResult, error) {
	result := &ScanResult{Success: true}

	var changes []project.StatusChange

	byID := make(map[uuid.UUID]ProjectChange, len(projects))

	for _, p := range projects {
		to := target(p)

		if err := project.ValidateTransition(p.Status, to, p.Special()); err != nil {
			reason := err.Error()

			var te *project.TransitionError
			if errors.As(err, &te) {
				reason = te.Reason
			}

			result.Skipped = append(result.Skipped, Skipped{ID: p.ID, Name: p.Name, Reason: reason})

			continue
		}

		changes = append(changes, project.StatusChange{ID: p.ID, From: p.Status, To: to})

		change := ProjectChange{ID: p.ID, Name: p.Name, From: p.Status, To: to}
		if p.EndDate != nil {
			change.EndDate = *p.EndDate
		}

		byID[p.ID] = change
	}

	if len(changes) == 0 {
		return result, nil
	}

	now := s.clock.Now().UTC()

	applied, err := retry.Value(ctx, s.retry, func(ctx context.Context) ([]uuid.UUID, error) {
		return s.store.UpdateStatuses(ctx, changes, now)
	})
	if err != nil {
		return nil, err
	}

	for _, id := range applied {
		result.Projects = append(result.Projects, byID[id])
	}

	result.UpdatedCount = len(applied)

	return result, nil
}

func (s *Scanner) list(ctx context.Context, filter project.ListFilter) ([]*project.Project, error) {
	return retry.Value(ctx, s.retry, func(ctx context.Context) ([]*project.Project, error) {
		return s.store.ListProjects(ctx, filter)
	})
}

// today is the current local date as midnight UTC, the form end dates are
// stored in.
func (s *Scanner) today() time.Time {
	return clock.DateOnly(s.clock.Now().In(s.loc))
}
