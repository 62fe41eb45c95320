package automation

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/studioflow/internal/automation"
	"github.com/MrJamesThe3rd/studioflow/internal/deadline"
	"github.com/MrJamesThe3rd/studioflow/internal/http/respond"
)

type Handler struct {
	orchestrator *automation.Orchestrator
	scanner      *deadline.Scanner
}

func NewHandler(orchestrator *automation.Orchestrator, scanner *deadline.Scanner) *Handler {
	return &Handler{orchestrator: orchestrator, scanner: scanner}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/run", h.run)
	r.Post("/overdue", h.checkOverdue)
	r.Post("/overdue/revert", h.revertUpdatedDates)
	r.Post("/calendar", h.reconcileCalendar)
	r.Get("/next-deadline", h.nextDeadline)
}

// run always answers 200; failed steps are reported in the body.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.orchestrator.RunAutomations(r.Context()))
}

func (h *Handler) checkOverdue(w http.ResponseWriter, r *http.Request) {
	res, err := h.scanner.CheckOverdueProjects(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.rearm(r)

	respond.JSON(w, http.StatusOK, res)
}

func (h *Handler) revertUpdatedDates(w http.ResponseWriter, r *http.Request) {
	res, err := h.scanner.CheckProjectsWithUpdatedDates(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.rearm(r)

	respond.JSON(w, http.StatusOK, res)
}

func (h *Handler) reconcileCalendar(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.orchestrator.ReconcileCalendar(r.Context()))
}

func (h *Handler) nextDeadline(w http.ResponseWriter, r *http.Request) {
	d, err := h.scanner.FindNextDeadline(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if d == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respond.JSON(w, http.StatusOK, d)
}

// rearm moves the timer after a manual scan changed the development set.
// The scan result stands even if arming fails.
func (h *Handler) rearm(r *http.Request) {
	if err := h.scanner.Reschedule(r.Context()); err != nil {
		slog.Error("failed to re-arm deadline check", "path", r.URL.Path, "error", err)
	}
}
