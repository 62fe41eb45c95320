package automation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/studioflow/internal/clock"
	"github.com/MrJamesThe3rd/studioflow/internal/deadline"
)

const (
	StepRevertUpdatedDates = "check_projects_with_updated_dates"
	StepOverdue            = "check_overdue_projects"
	StepSchedule           = "schedule_next_deadline_check"

	StepPaidDocumentEvents  = "cleanup_paid_document_events"
	StepPaidExpenseEvents   = "cleanup_paid_expense_events"
	StepOrphanExpenseEvents = "cleanup_orphan_expense_events"
)

//go:generate mockgen -source=orchestrator.go -destination=orchestrator_mock.go -package=automation
type DeadlineScanner interface {
	CheckProjectsWithUpdatedDates(ctx context.Context) (*deadline.ScanResult, error)
	CheckOverdueProjects(ctx context.Context) (*deadline.ScanResult, error)
	ScheduleNextDeadlineCheck(ctx context.Context) (*deadline.Schedule, error)
}

type CalendarMaintainer interface {
	CleanupPaidDocumentEvents(ctx context.Context) (int, error)
	CleanupPaidExpenseEvents(ctx context.Context) (int, error)
	CleanupOrphanExpenseEvents(ctx context.Context) (int, error)
}

// StepResult reports one step of a run. Error is empty on success.
type StepResult struct {
	Name     string        `json:"name"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Result aggregates an automation run.
type Result struct {
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Success    bool                 `json:"success"`
	Steps      []StepResult         `json:"steps"`
	Reverted   *deadline.ScanResult `json:"reverted,omitempty"`
	Overdue    *deadline.ScanResult `json:"overdue,omitempty"`
	Schedule   *deadline.Schedule   `json:"schedule,omitempty"`
}

// CalendarResult aggregates a calendar maintenance run.
type CalendarResult struct {
	StartedAt           time.Time    `json:"started_at"`
	FinishedAt          time.Time    `json:"finished_at"`
	Success             bool         `json:"success"`
	Steps               []StepResult `json:"steps"`
	PaidDocumentEvents  int          `json:"paid_document_events_removed"`
	PaidExpenseEvents   int          `json:"paid_expense_events_removed"`
	OrphanExpenseEvents int          `json:"orphan_expense_events_removed"`
}

type Orchestrator struct {
	scanner  DeadlineScanner
	calendar CalendarMaintainer
	clock    clock.Clock
	logger   *slog.Logger
}

type Option func(*Orchestrator)

func WithClock(c clock.Clock) Option { return func(o *Orchestrator) { o.clock = c } }

func WithLogger(l *slog.Logger) Option { return func(o *Orchestrator) { o.logger = l } }

func NewOrchestrator(scanner DeadlineScanner, calendar CalendarMaintainer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		scanner:  scanner,
		calendar: calendar,
		clock:    clock.System{},
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// RunAutomations reverts projects whose dates moved, flags overdue projects
// and re-arms the deadline timer. A failing step does not stop the others.
func (o *Orchestrator) RunAutomations(ctx context.Context) *Result {
	res := &Result{StartedAt: o.clock.Now()}

	res.Steps = append(res.Steps,
		o.step(ctx, StepRevertUpdatedDates, func(ctx context.Context) (err error) {
			res.Reverted, err = o.scanner.CheckProjectsWithUpdatedDates(ctx)
			return err
		}),
		o.step(ctx, StepOverdue, func(ctx context.Context) (err error) {
			res.Overdue, err = o.scanner.CheckOverdueProjects(ctx)
			return err
		}),
		o.step(ctx, StepSchedule, func(ctx context.Context) (err error) {
			res.Schedule, err = o.scanner.ScheduleNextDeadlineCheck(ctx)
			return err
		}),
	)

	res.FinishedAt = o.clock.Now()
	res.Success = allSucceeded(res.Steps)

	o.logger.Info("automations finished", "success", res.Success, "duration", res.FinishedAt.Sub(res.StartedAt))

	return res
}

// ReconcileCalendar removes events of paid documents, paid expenses and
// deleted expenses, each step independently.
func (o *Orchestrator) ReconcileCalendar(ctx context.Context) *CalendarResult {
	res := &CalendarResult{StartedAt: o.clock.Now()}

	res.Steps = append(res.Steps,
		o.step(ctx, StepPaidDocumentEvents, func(ctx context.Context) (err error) {
			res.PaidDocumentEvents, err = o.calendar.CleanupPaidDocumentEvents(ctx)
			return err
		}),
		o.step(ctx, StepPaidExpenseEvents, func(ctx context.Context) (err error) {
			res.PaidExpenseEvents, err = o.calendar.CleanupPaidExpenseEvents(ctx)
			return err
		}),
		o.step(ctx, StepOrphanExpenseEvents, func(ctx context.Context) (err error) {
			res.OrphanExpenseEvents, err = o.calendar.CleanupOrphanExpenseEvents(ctx)
			return err
		}),
	)

	res.FinishedAt = o.clock.Now()
	res.Success = allSucceeded(res.Steps)

	o.logger.Info("calendar reconciliation finished",
		"success", res.Success,
		"paid_document_events", res.PaidDocumentEvents,
		"paid_expense_events", res.PaidExpenseEvents,
		"orphan_expense_events", res.OrphanExpenseEvents,
	)

	return res
}

// step runs fn and turns an error or a panic into a failed StepResult.
func (o *Orchestrator) step(ctx context.Context, name string, fn func(ctx context.Context) error) (sr StepResult) {
	start := o.clock.Now()
	sr.Name = name

	defer func() {
		if p := recover(); p != nil {
			sr.Success = false
			sr.Error = fmt.Sprintf("panic: %v", p)
			o.logger.Error("automation step panicked", "step", name, "panic", p)
		}

		sr.Duration = o.clock.Now().Sub(start)
	}()

	if err := fn(ctx); err != nil {
		sr.Error = err.Error()
		o.logger.Error("automation step failed", "step", name, "error", err)

		return sr
	}

	sr.Success = true

	return sr
}

func allSucceeded(steps []StepResult) bool {
	for _, s := range steps {
		if !s.Success {
			return false
		}
	}

	return true
}
