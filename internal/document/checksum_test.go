package document

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum_CanonicalPayload(t *testing.T) {
	id := uuid.MustParse("0190f5a8-0000-7000-8000-000000000001")

	got, err := Checksum(id, ActionCreate, "user-1", nil, json.RawMessage(`{"b":1,"a":"x"}`))
	require.NoError(t, err)

	canonical := `{"action":"create","document_id":"0190f5a8-0000-7000-8000-000000000001",` +
		`"new_values":{"a":"x","b":1},"old_values":null,"user_id":"user-1"}`
	sum := sha256.Sum256([]byte(canonical))

	assert.Equal(t, hex.EncodeToString(sum[:]), got)
}

func TestChecksum_IgnoresLayout(t *testing.T) {
	id := uuid.New()

	compact, err := Checksum(id, ActionUpdate, "u", json.RawMessage(`{"a":1}`), json.RawMessage(`{"a":2,"b":"c"}`))
	require.NoError(t, err)

	spaced, err := Checksum(id, ActionUpdate, "u", json.RawMessage(` { "a" : 1 } `), json.RawMessage("{\n  \"b\": \"c\",\n  \"a\": 2\n}"))
	require.NoError(t, err)

	assert.Equal(t, compact, spaced)
}

func TestChecksum_SensitiveToEveryField(t *testing.T) {
	id := uuid.New()
	oldValues := json.RawMessage(`{"amount":"10.00"}`)
	newValues := json.RawMessage(`{"amount":"20.00"}`)

	base, err := Checksum(id, ActionUpdate, "u", oldValues, newValues)
	require.NoError(t, err)

	variants := map[string]func() (string, error){
		"DocumentID": func() (string, error) { return Checksum(uuid.New(), ActionUpdate, "u", oldValues, newValues) },
		"Action":     func() (string, error) { return Checksum(id, ActionCreate, "u", oldValues, newValues) },
		"UserID":     func() (string, error) { return Checksum(id, ActionUpdate, "v", oldValues, newValues) },
		"OldValues":  func() (string, error) { return Checksum(id, ActionUpdate, "u", nil, newValues) },
		"NewValues": func() (string, error) {
			return Checksum(id, ActionUpdate, "u", oldValues, json.RawMessage(`{"amount":"20.01"}`))
		},
	}

	for name, fn := range variants {
		t.Run(name, func(t *testing.T) {
			got, err := fn()
			require.NoError(t, err)
			assert.NotEqual(t, base, got)
		})
	}
}

func TestSnapshot_Formatting(t *testing.T) {
	due := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 3, 1, 9, 30, 15, 123456000, time.FixedZone("X", 3600))

	d := &FinancialDocument{
		ID:        uuid.MustParse("0190f5a8-0000-7000-8000-000000000002"),
		ClientID:  "client-1",
		Type:      TypeInvoice,
		Amount:    decimal.RequireFromString("1000.5"),
		DueDate:   &due,
		Status:    StatusPending,
		Version:   3,
		CreatedAt: created,
		UpdatedAt: created,
	}

	raw, err := marshalSnapshot(d)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "1000.50", got["amount"])
	assert.Equal(t, "2024-03-05", got["due_date"])
	assert.Nil(t, got["payment_date"])
	assert.Nil(t, got["project_id"])
	assert.Equal(t, "2024-03-01T08:30:15Z", got["created_at"])
	assert.Contains(t, string(raw), `"version":3`)
}

func TestVerifyEntry(t *testing.T) {
	id := uuid.New()
	newValues := json.RawMessage(`{"amount":"1.00"}`)

	sum, err := Checksum(id, ActionCreate, "u", nil, newValues)
	require.NoError(t, err)

	e := &AuditLogEntry{DocumentID: id, Action: ActionCreate, UserID: "u", NewValues: newValues, Checksum: sum}

	ok, err := VerifyEntry(e)
	require.NoError(t, err)
	assert.True(t, ok)

	e.NewValues = json.RawMessage(`{"amount":"2.00"}`)

	ok, err = VerifyEntry(e)
	require.NoError(t, err)
	assert.False(t, ok)

	e.NewValues = json.RawMessage(`{broken`)

	_, err = VerifyEntry(e)
	assert.Error(t, err)
}
