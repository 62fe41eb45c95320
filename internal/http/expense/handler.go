package expense

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/studioflow/internal/calendar"
	"github.com/MrJamesThe3rd/studioflow/internal/expense"
	"github.com/MrJamesThe3rd/studioflow/internal/http/respond"
)

type Expenses interface {
	GetExpense(ctx context.Context, id uuid.UUID) (*expense.Expense, error)
}

type Calendar interface {
	SyncExpenseToCalendar(ctx context.Context, e *expense.Expense) (*calendar.Event, error)
	RemoveExpenseEvents(ctx context.Context, expenseID uuid.UUID) (int, error)
}

type Handler struct {
	expenses Expenses
	calendar Calendar
}

func NewHandler(expenses Expenses, cal Calendar) *Handler {
	return &Handler{expenses: expenses, calendar: cal}
}

func (h *Handler) Routes(r chi.Router) {
	r.Put("/{id}/calendar", h.syncCalendar)
	r.Delete("/{id}/calendar", h.removeCalendar)
}

type eventResponse struct {
	ID        uuid.UUID          `json:"id"`
	Type      calendar.EventType `json:"type"`
	LinkedID  uuid.UUID          `json:"linked_id"`
	Title     string             `json:"title"`
	Color     string             `json:"color"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	AllDay    bool               `json:"all_day"`
}

type syncResponse struct {
	Event *eventResponse `json:"event"`
}

func (h *Handler) syncCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	e, err := h.expenses.GetExpense(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var resp syncResponse

	if e.Paid {
		if _, err := h.calendar.RemoveExpenseEvents(r.Context(), e.ID); err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.JSON(w, http.StatusOK, resp)

		return
	}

	ev, err := h.calendar.SyncExpenseToCalendar(r.Context(), e)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if ev != nil {
		resp.Event = &eventResponse{
			ID:        ev.ID,
			Type:      ev.Type,
			LinkedID:  ev.LinkedID,
			Title:     ev.Title,
			Color:     ev.Color,
			StartDate: ev.StartDate.Format(time.DateOnly),
			EndDate:   ev.EndDate.Format(time.DateOnly),
			AllDay:    ev.AllDay,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

type removeResponse struct {
	Removed int `json:"removed"`
}

func (h *Handler) removeCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	n, err := h.calendar.RemoveExpenseEvents(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, removeResponse{Removed: n})
}
