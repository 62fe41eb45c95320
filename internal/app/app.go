// Package app wires stores and services into one object graph shared by the
// API server and the operator CLI.
package app

import (
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/studioflow/internal/automation"
	"github.com/MrJamesThe3rd/studioflow/internal/calendar"
	calendarStore "github.com/MrJamesThe3rd/studioflow/internal/calendar/store"
	"github.com/MrJamesThe3rd/studioflow/internal/clock"
	"github.com/MrJamesThe3rd/studioflow/internal/database"
	"github.com/MrJamesThe3rd/studioflow/internal/deadline"
	"github.com/MrJamesThe3rd/studioflow/internal/document"
	documentStore "github.com/MrJamesThe3rd/studioflow/internal/document/store"
	expenseStore "github.com/MrJamesThe3rd/studioflow/internal/expense/store"
	"github.com/MrJamesThe3rd/studioflow/internal/notify"
	"github.com/MrJamesThe3rd/studioflow/internal/project"
	projectStore "github.com/MrJamesThe3rd/studioflow/internal/project/store"
	"github.com/MrJamesThe3rd/studioflow/internal/retry"
)

type Options struct {
	Clock    clock.Clock
	Location *time.Location
	Retry    retry.Policy
	Logger   *slog.Logger
	// Notifier receives change events in addition to the log sink.
	Notifier notify.Notifier

	FallbackInterval time.Duration
	ErrorBackoff     time.Duration
	RunTimeout       time.Duration
}

type App struct {
	DB *database.DB

	ProjectStore *projectStore.Store
	ExpenseStore *expenseStore.Store

	Projects    *project.Service
	Documents   *document.Service
	Calendar    *calendar.Reconciler
	Scanner     *deadline.Scanner
	Automations *automation.Orchestrator
}

func New(db *database.DB, opts Options) *App {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}

	if opts.Location == nil {
		opts.Location = time.Local
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	notifier := notify.Fanout{notify.NewLog(opts.Logger), opts.Notifier}

	var (
		projects = projectStore.New(db)
		expenses = expenseStore.New(db)
		events   = calendarStore.New(db)
	)

	scannerOpts := []deadline.Option{
		deadline.WithClock(opts.Clock),
		deadline.WithLocation(opts.Location),
		deadline.WithNotifier(notifier),
		deadline.WithRetry(opts.Retry),
		deadline.WithLogger(opts.Logger),
	}

	if opts.FallbackInterval > 0 {
		scannerOpts = append(scannerOpts, deadline.WithFallbackInterval(opts.FallbackInterval))
	}

	if opts.ErrorBackoff > 0 {
		scannerOpts = append(scannerOpts, deadline.WithErrorBackoff(opts.ErrorBackoff))
	}

	if opts.RunTimeout > 0 {
		scannerOpts = append(scannerOpts, deadline.WithRunTimeout(opts.RunTimeout))
	}

	scanner := deadline.NewScanner(projects, scannerOpts...)

	reconciler := calendar.NewReconciler(events, nil, expenses,
		calendar.WithClock(opts.Clock),
		calendar.WithNotifier(notifier),
		calendar.WithRetry(opts.Retry),
		calendar.WithLogger(opts.Logger),
	)

	documents := document.NewService(db, database.NewUnitOfWork(db), documentStore.Factory,
		document.WithChangeHook(reconciler),
		document.WithClock(opts.Clock),
		document.WithNotifier(notifier),
		document.WithRetry(opts.Retry),
		document.WithLogger(opts.Logger),
	)
	reconciler.SetDocumentLister(documents)

	return &App{
		DB:           db,
		ProjectStore: projects,
		ExpenseStore: expenses,
		Projects: project.NewService(projects,
			project.WithDocumentSyncer(documents),
			project.WithDeadlineRescheduler(scanner),
			project.WithClock(opts.Clock),
			project.WithNotifier(notifier),
			project.WithRetry(opts.Retry),
			project.WithLogger(opts.Logger),
		),
		Documents: documents,
		Calendar:  reconciler,
		Scanner:   scanner,
		Automations: automation.NewOrchestrator(scanner, reconciler,
			automation.WithClock(opts.Clock),
			automation.WithLogger(opts.Logger),
		),
	}
}

// Close stops the deadline timer. The database is owned by the caller.
func (a *App) Close() {
	a.Scanner.Stop()
}
