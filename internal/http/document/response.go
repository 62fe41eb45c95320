package document

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/studioflow/internal/document"
)

type documentResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProjectID   *uuid.UUID      `json:"project_id,omitempty"`
	ClientID    string          `json:"client_id"`
	Type        document.Type   `json:"document_type"`
	Description string          `json:"description"`
	Amount      string          `json:"amount"`
	DueDate     *string         `json:"due_date,omitempty"`
	Status      document.Status `json:"status"`
	Paid        bool            `json:"paid"`
	PaymentDate *string         `json:"payment_date,omitempty"`
	Version     int             `json:"version"`
	Archived    bool            `json:"archived"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedBy   string          `json:"updated_by"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type auditEntryResponse struct {
	ID         uuid.UUID       `json:"id"`
	DocumentID uuid.UUID       `json:"document_id"`
	Action     document.Action `json:"action"`
	UserID     string          `json:"user_id"`
	OldValues  json.RawMessage `json:"old_values,omitempty"`
	NewValues  json.RawMessage `json:"new_values"`
	Reason     string          `json:"reason,omitempty"`
	Checksum   string          `json:"checksum"`
	IPAddress  string          `json:"ip_address,omitempty"`
	UserAgent  string          `json:"user_agent,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toResponse(d *document.FinancialDocument) documentResponse {
	return documentResponse{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		ClientID:    d.ClientID,
		Type:        d.Type,
		Description: d.Description,
		Amount:      d.Amount.StringFixed(2),
		DueDate:     formatDate(d.DueDate),
		Status:      d.Status,
		Paid:        d.Paid,
		PaymentDate: formatDate(d.PaymentDate),
		Version:     d.Version,
		Archived:    d.Archived,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedBy:   d.UpdatedBy,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toResponseList(docs []*document.FinancialDocument) []documentResponse {
	resp := make([]documentResponse, len(docs))
	for i, d := range docs {
		resp[i] = toResponse(d)
	}

	return resp
}

func toAuditResponseList(entries []*document.AuditLogEntry) []auditEntryResponse {
	resp := make([]auditEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = auditEntryResponse{
			ID:         e.ID,
			DocumentID: e.DocumentID,
			Action:     e.Action,
			UserID:     e.UserID,
			OldValues:  e.OldValues,
			NewValues:  e.NewValues,
			Reason:     e.Reason,
			Checksum:   e.Checksum,
			IPAddress:  e.IPAddress,
			UserAgent:  e.UserAgent,
			CreatedAt:  e.CreatedAt,
		}
	}

	return resp
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := t.Format(time.DateOnly)

	return &s
}
