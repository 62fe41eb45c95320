package document

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const amountPlaces = 2

// snapshot renders the audited fields of d. Amounts carry two fixed decimal
// places, dates are YYYY-MM-DD and timestamps RFC3339 in UTC.
func snapshot(d *FinancialDocument) map[string]any {
	var projectID any
	if d.ProjectID != nil {
		projectID = d.ProjectID.String()
	}

	return map[string]any{
		"id":            d.ID.String(),
		"project_id":    projectID,
		"client_id":     d.ClientID,
		"document_type": string(d.Type),
		"description":   d.Description,
		"amount":        d.Amount.StringFixed(amountPlaces),
		"due_date":      formatDate(d.DueDate),
		"status":        string(d.Status),
		"paid":          d.Paid,
		"payment_date":  formatDate(d.PaymentDate),
		"version":       d.Version,
		"archived":      d.Archived,
		"created_by":    d.CreatedBy,
		"created_at":    d.CreatedAt.UTC().Format(time.RFC3339),
		"updated_by":    d.UpdatedBy,
		"updated_at":    d.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}

	return t.Format(time.DateOnly)
}

func marshalSnapshot(d *FinancialDocument) (json.RawMessage, error) {
	if d == nil {
		return nil, nil
	}

	b, err := json.Marshal(snapshot(d))
	if err != nil {
		return nil, fmt.Errorf("encoding document snapshot: %w", err)
	}

	return b, nil
}

// Checksum returns the hex SHA-256 of the canonical audit payload: a JSON
// object with the keys action, document_id, new_values, old_values and
// user_id in that order. Stored values are decoded and re-encoded first, so
// the result does not depend on how the JSON was laid out when stored.
func Checksum(documentID uuid.UUID, action Action, userID string, oldValues, newValues json.RawMessage) (string, error) {
	oldDecoded, err := decodeValues(oldValues)
	if err != nil {
		return "", fmt.Errorf("decoding old values: %w", err)
	}

	newDecoded, err := decodeValues(newValues)
	if err != nil {
		return "", fmt.Errorf("decoding new values: %w", err)
	}

	// encoding/json writes map keys in sorted order.
	canonical, err := json.Marshal(map[string]any{
		"action":      string(action),
		"document_id": documentID.String(),
		"new_values":  newDecoded,
		"old_values":  oldDecoded,
		"user_id":     userID,
	})
	if err != nil {
		return "", fmt.Errorf("encoding audit payload: %w", err)
	}

	sum := sha256.Sum256(canonical)

	return hex.EncodeToString(sum[:]), nil
}

// VerifyEntry recomputes the checksum of e from its stored fields.
func VerifyEntry(e *AuditLogEntry) (bool, error) {
	sum, err := Checksum(e.DocumentID, e.Action, e.UserID, e.OldValues, e.NewValues)
	if err != nil {
		return false, err
	}

	return sum == e.Checksum, nil
}

// decodeValues keeps numbers as json.Number so integers round-trip exactly.
func decodeValues(raw json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	return v, nil
}
