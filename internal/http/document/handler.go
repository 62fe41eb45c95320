package document

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/studioflow/internal/document"
	"github.com/MrJamesThe3rd/studioflow/internal/http/actor"
	"github.com/MrJamesThe3rd/studioflow/internal/http/respond"
)

type Handler struct {
	svc *document.Service
}

func NewHandler(svc *document.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Post("/{id}/approve", h.transition(h.svc.ApproveDocument))
	r.Post("/{id}/pay", h.transition(h.svc.MarkAsPaid))
	r.Post("/{id}/archive", h.transition(h.svc.ArchiveDocument))
	r.Post("/{id}/unarchive", h.transition(h.svc.UnarchiveDocument))
	r.Post("/{id}/cancel", h.transition(h.svc.CancelDocument))
	r.Get("/{id}/audit", h.auditHistory)
	r.Get("/{id}/audit/verify", h.verifyAudit)
}

type createDocumentRequest struct {
	ProjectID   *uuid.UUID      `json:"project_id,omitempty"`
	ClientID    string          `json:"client_id"`
	Type        document.Type   `json:"document_type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     *string         `json:"due_date,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	a, _ := actor.FromContext(r.Context())

	doc, err := h.svc.CreateDocument(r.Context(), document.CreateParams{
		ProjectID:   req.ProjectID,
		ClientID:    req.ClientID,
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     due,
	}, a.UserID, a.Session)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(doc))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := document.ListFilter{ClientID: q.Get("client_id")}

	if s := q.Get("project_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid project_id", http.StatusBadRequest)
			return
		}

		filter.ProjectID = &id
	}

	if s := q.Get("status"); s != "" {
		for _, st := range strings.Split(s, ",") {
			filter.Statuses = append(filter.Statuses, document.Status(strings.TrimSpace(st)))
		}
	}

	if s := q.Get("paid"); s != "" {
		paid, err := strconv.ParseBool(s)
		if err != nil {
			http.Error(w, "invalid paid", http.StatusBadRequest)
			return
		}

		filter.Paid = &paid
	}

	if s := q.Get("include_archived"); s != "" {
		filter.IncludeArchived, _ = strconv.ParseBool(s)
	}

	docs, err := h.svc.ListDocuments(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(docs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	doc, err := h.svc.GetDocument(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(doc))
}

type updateDocumentRequest struct {
	ClientID        *string          `json:"client_id,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	DueDate         *string          `json:"due_date,omitempty"`
	ClearDueDate    bool             `json:"clear_due_date,omitempty"`
	ExpectedVersion *int             `json:"expected_version,omitempty"`
	Reason          string           `json:"reason,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	a, _ := actor.FromContext(r.Context())

	doc, err := h.svc.UpdateDocument(r.Context(), id, document.Patch{
		ClientID:        req.ClientID,
		Description:     req.Description,
		Amount:          req.Amount,
		DueDate:         due,
		ClearDueDate:    req.ClearDueDate,
		ExpectedVersion: req.ExpectedVersion,
	}, a.UserID, req.Reason, a.Session)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(doc))
}

type transitionRequest struct {
	Reason string `json:"reason"`
}

type transitionFunc func(ctx context.Context, id uuid.UUID, userID, reason string, session document.SessionInfo) (*document.FinancialDocument, error)

// transition serves the named document actions. The body is optional.
func (h *Handler) transition(fn transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		a, _ := actor.FromContext(r.Context())

		doc, err := fn(r.Context(), id, a.UserID, req.Reason, a.Session)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.JSON(w, http.StatusOK, toResponse(doc))
	}
}

func (h *Handler) auditHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	entries, err := h.svc.GetDocumentAuditHistory(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toAuditResponseList(entries))
}

type verifyResponse struct {
	DocumentID uuid.UUID `json:"document_id"`
	Valid      bool      `json:"valid"`
}

func (h *Handler) verifyAudit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	ok, err := h.svc.VerifyAuditIntegrity(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, verifyResponse{DocumentID: id, Valid: ok})
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
