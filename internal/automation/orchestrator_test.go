package automation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/studioflow/internal/automation"
	"github.com/MrJamesThe3rd/studioflow/internal/deadline"
	"github.com/MrJamesThe3rd/studioflow/internal/testutil"
)

func newOrchestrator(t *testing.T) (*automation.Orchestrator, *automation.MockDeadlineScanner, *automation.MockCalendarMaintainer) {
	t.Helper()

	ctrl := gomock.NewController(t)
	scanner := automation.NewMockDeadlineScanner(ctrl)
	cal := automation.NewMockCalendarMaintainer(ctrl)

	o := automation.NewOrchestrator(scanner, cal,
		automation.WithClock(testutil.NewFakeClock(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))),
		automation.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	return o, scanner, cal
}

func stepNames(steps []automation.StepResult) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}

	return names
}

func TestRunAutomations_AllStepsSucceed(t *testing.T) {
	o, scanner, _ := newOrchestrator(t)
	ctx := context.Background()

	reverted := &deadline.ScanResult{Success: true}
	overdue := &deadline.ScanResult{Success: true, UpdatedCount: 2}
	schedule := &deadline.Schedule{Delay: time.Hour}

	gomock.InOrder(
		scanner.EXPECT().CheckProjectsWithUpdatedDates(gomock.Any()).Return(reverted, nil),
		scanner.EXPECT().CheckOverdueProjects(gomock.Any()).Return(overdue, nil),
		scanner.EXPECT().ScheduleNextDeadlineCheck(gomock.Any()).Return(schedule, nil),
	)

	res := o.RunAutomations(ctx)

	assert.True(t, res.Success)
	assert.Equal(t, []string{
		automation.StepRevertUpdatedDates,
		automation.StepOverdue,
		automation.StepSchedule,
	}, stepNames(res.Steps))
	assert.Same(t, reverted, res.Reverted)
	assert.Same(t, overdue, res.Overdue)
	assert.Same(t, schedule, res.Schedule)

	for _, s := range res.Steps {
		assert.True(t, s.Success, s.Name)
		assert.Empty(t, s.Error, s.Name)
	}
}

func TestRunAutomations_StepFailuresAreIsolated(t *testing.T) {
	type testCase struct {
		name       string
		setup      func(s *automation.MockDeadlineScanner)
		failedStep string
		wantError  string
	}

	tests := []testCase{
		{
			name: "RevertFails",
			setup: func(s *automation.MockDeadlineScanner) {
				s.EXPECT().CheckProjectsWithUpdatedDates(gomock.Any()).Return(nil, errors.New("db down"))
				s.EXPECT().CheckOverdueProjects(gomock.Any()).Return(&deadline.ScanResult{Success: true}, nil)
				s.EXPECT().ScheduleNextDeadlineCheck(gomock.Any()).Return(&deadline.Schedule{}, nil)
			},
			failedStep: automation.StepRevertUpdatedDates,
			wantError:  "db down",
		},
		{
			name: "OverduePanics",
			setup: func(s *automation.MockDeadlineScanner) {
				s.EXPECT().CheckProjectsWithUpdatedDates(gomock.Any()).Return(&deadline.ScanResult{Success: true}, nil)
				s.EXPECT().CheckOverdueProjects(gomock.Any()).DoAndReturn(func(context.Context) (*deadline.ScanResult, error) {
					panic("boom")
				})
				s.EXPECT().ScheduleNextDeadlineCheck(gomock.Any()).Return(&deadline.Schedule{}, nil)
			},
			failedStep: automation.StepOverdue,
			wantError:  "panic: boom",
		},
		{
			name: "ScheduleStopped",
			setup: func(s *automation.MockDeadlineScanner) {
				s.EXPECT().CheckProjectsWithUpdatedDates(gomock.Any()).Return(&deadline.ScanResult{Success: true}, nil)
				s.EXPECT().CheckOverdueProjects(gomock.Any()).Return(&deadline.ScanResult{Success: true}, nil)
				s.EXPECT().ScheduleNextDeadlineCheck(gomock.Any()).Return(nil, deadline.ErrStopped)
			},
			failedStep: automation.StepSchedule,
			wantError:  deadline.ErrStopped.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, scanner, _ := newOrchestrator(t)
			tt.setup(scanner)

			res := o.RunAutomations(context.Background())

			assert.False(t, res.Success)
			require.Len(t, res.Steps, 3)

			for _, s := range res.Steps {
				if s.Name == tt.failedStep {
					assert.False(t, s.Success)
					assert.Contains(t, s.Error, tt.wantError)

					continue
				}

				assert.True(t, s.Success, s.Name)
			}
		})
	}
}

func TestReconcileCalendar(t *testing.T) {
	t.Run("CountsRemovedEvents", func(t *testing.T) {
		o, _, cal := newOrchestrator(t)

		gomock.InOrder(
			cal.EXPECT().CleanupPaidDocumentEvents(gomock.Any()).Return(3, nil),
			cal.EXPECT().CleanupPaidExpenseEvents(gomock.Any()).Return(1, nil),
			cal.EXPECT().CleanupOrphanExpenseEvents(gomock.Any()).Return(2, nil),
		)

		res := o.ReconcileCalendar(context.Background())

		assert.True(t, res.Success)
		assert.Equal(t, 3, res.PaidDocumentEvents)
		assert.Equal(t, 1, res.PaidExpenseEvents)
		assert.Equal(t, 2, res.OrphanExpenseEvents)
		assert.Equal(t, []string{
			automation.StepPaidDocumentEvents,
			automation.StepPaidExpenseEvents,
			automation.StepOrphanExpenseEvents,
		}, stepNames(res.Steps))
	})

	t.Run("ContinuesAfterFailure", func(t *testing.T) {
		o, _, cal := newOrchestrator(t)

		cal.EXPECT().CleanupPaidDocumentEvents(gomock.Any()).Return(0, errors.New("listing failed"))
		cal.EXPECT().CleanupPaidExpenseEvents(gomock.Any()).Return(4, nil)
		cal.EXPECT().CleanupOrphanExpenseEvents(gomock.Any()).Return(0, nil)

		res := o.ReconcileCalendar(context.Background())

		assert.False(t, res.Success)
		assert.False(t, res.Steps[0].Success)
		assert.Equal(t, "listing failed", res.Steps[0].Error)
		assert.True(t, res.Steps[1].Success)
		assert.Equal(t, 4, res.PaidExpenseEvents)
	})
}
