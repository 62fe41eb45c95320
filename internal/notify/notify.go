// Package notify carries fire-and-forget change events out of the core.
// Delivery is best effort: emitters never learn whether anyone listened.
package notify

import (
	"context"
	"log/slog"
)

// Event names emitted by the core.
const (
	EventDocumentCreated  = "financial_document.created"
	EventDocumentUpdated  = "financial_document.updated"
	EventProjectsOverdue  = "projects.overdue"
	EventProjectsReverted = "projects.reverted"
	EventProjectUpdated   = "project.updated"
	EventCalendarChanged  = "calendar.changed"
	EventDeadlineArmed    = "deadline.armed"
)

//go:generate mockgen -source=notify.go -destination=notify_mock.go -package=notify
type Notifier interface {
	Emit(ctx context.Context, event string, payload any)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Emit(context.Context, string, any) {}

// Log writes events to a structured logger. It stands in for the realtime
// transport, which lives outside this service.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}

	return &Log{logger: logger}
}

func (l *Log) Emit(ctx context.Context, event string, payload any) {
	l.logger.InfoContext(ctx, "notification", "event", event, "payload", payload)
}

// Fanout delivers each event to every notifier in order.
type Fanout []Notifier

func (f Fanout) Emit(ctx context.Context, event string, payload any) {
	for _, n := range f {
		if n != nil {
			n.Emit(ctx, event, payload)
		}
	}
}

// OrNop returns n, or Nop when n is nil.
func OrNop(n Notifier) Notifier {
	if n == nil {
		return Nop{}
	}

	return n
}
