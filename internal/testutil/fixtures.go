package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/studioflow/internal/project"
)

type ProjectOption func(*project.Project)

func WithStatus(s project.Status) ProjectOption {
	return func(p *project.Project) { p.Status = s }
}

func WithSpecialStatus(s project.SpecialStatus) ProjectOption {
	return func(p *project.Project) { p.SpecialStatus = s }
}

// WithEndDate sets the end date from a YYYY-MM-DD string.
func WithEndDate(date string) ProjectOption {
	return func(p *project.Project) {
		d := MustDate(date)
		p.EndDate = &d
	}
}

func WithoutEndDate() ProjectOption {
	return func(p *project.Project) { p.EndDate = nil }
}

func WithBudget(amount string) ProjectOption {
	return func(p *project.Project) { p.Budget = decimal.RequireFromString(amount) }
}

func WithPaymentTerm(days int) ProjectOption {
	return func(p *project.Project) { p.PaymentTerm = days }
}

func WithIssueDate(date string) ProjectOption {
	return func(p *project.Project) {
		d := MustDate(date)
		p.IssueDate = &d
	}
}

func NewTestProject(name string, opts ...ProjectOption) *project.Project {
	p := &project.Project{
		ID:            uuid.New(),
		Name:          name,
		ClientID:      "client-" + name,
		Status:        project.StatusProduction,
		SpecialStatus: project.SpecialNone,
		Budget:        decimal.Zero,
		PaymentTerm:   project.DefaultPaymentTerm,
		UpdatedAt:     time.Now().UTC(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ProjectCreator is satisfied by the project store.
type ProjectCreator interface {
	CreateProject(ctx context.Context, p *project.Project) error
}

// SeedProject builds a project and stores it.
func SeedProject(t *testing.T, store ProjectCreator, name string, opts ...ProjectOption) *project.Project {
	t.Helper()

	p := NewTestProject(name, opts...)
	if err := store.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("seeding project %s: %v", name, err)
	}

	return p
}

// MustDate parses YYYY-MM-DD as midnight UTC.
func MustDate(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}

	return t
}
