package project

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/studioflow/internal/document"
	"github.com/MrJamesThe3rd/studioflow/internal/http/actor"
	"github.com/MrJamesThe3rd/studioflow/internal/http/respond"
	"github.com/MrJamesThe3rd/studioflow/internal/project"
)

type Handler struct {
	svc *project.Service
}

func NewHandler(svc *project.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}/special-status", h.updateSpecialStatus)
	r.Patch("/{id}/schedule", h.updateSchedule)
	r.Patch("/{id}/budget", h.updateBudget)
}

type projectResponse struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	ClientID      string                `json:"client_id"`
	Status        project.Status        `json:"status"`
	SpecialStatus project.SpecialStatus `json:"special_status"`
	EndDate       *string               `json:"end_date,omitempty"`
	Budget        string                `json:"budget"`
	PaymentTerm   int                   `json:"payment_term"`
	IssueDate     *string               `json:"issue_date,omitempty"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func toResponse(p *project.Project) projectResponse {
	return projectResponse{
		ID:            p.ID,
		Name:          p.Name,
		ClientID:      p.ClientID,
		Status:        p.Status,
		SpecialStatus: p.Special(),
		EndDate:       formatDate(p.EndDate),
		Budget:        p.Budget.StringFixed(2),
		PaymentTerm:   p.PaymentTermDays(),
		IssueDate:     formatDate(p.IssueDate),
		UpdatedAt:     p.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var filter project.ListFilter

	if s := r.URL.Query().Get("status"); s != "" {
		for _, st := range strings.Split(s, ",") {
			filter.Statuses = append(filter.Statuses, project.Status(strings.TrimSpace(st)))
		}
	}

	projects, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]projectResponse, len(projects))
	for i, p := range projects {
		resp[i] = toResponse(p)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type updateStatusRequest struct {
	Status project.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type updateSpecialStatusRequest struct {
	SpecialStatus project.SpecialStatus `json:"special_status"`
}

func (h *Handler) updateSpecialStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateSpecialStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.ChangeSpecialStatus(r.Context(), id, req.SpecialStatus)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type updateScheduleRequest struct {
	EndDate     *string `json:"end_date,omitempty"`
	IssueDate   *string `json:"issue_date,omitempty"`
	PaymentTerm *int    `json:"payment_term,omitempty"`
}

func (h *Handler) updateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := project.ScheduleParams{PaymentTerm: req.PaymentTerm}

	if params.EndDate, err = parseDate("end_date", req.EndDate); err != nil {
		respond.Error(w, r, err)
		return
	}

	if params.IssueDate, err = parseDate("issue_date", req.IssueDate); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.UpdateSchedule(r.Context(), id, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type updateBudgetRequest struct {
	Budget decimal.Decimal `json:"budget"`
}

func (h *Handler) updateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, _ := actor.FromContext(r.Context())

	p, err := h.svc.UpdateBudget(r.Context(), id, req.Budget, a.UserID, a.Session)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func parseDate(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return nil, &document.ValidationError{Field: field, Reason: "must be a YYYY-MM-DD date"}
	}

	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := t.Format(time.DateOnly)

	return &s
}
