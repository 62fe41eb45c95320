package deadline

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/studioflow/internal/project"
)

var ErrStopped = errors.New("deadline scanner stopped")

// ProjectChange is one status change applied by a scan.
type ProjectChange struct {
	ID      uuid.UUID      `json:"id"`
	Name    string         `json:"name"`
	From    project.Status `json:"from"`
	To      project.Status `json:"to"`
	EndDate time.Time      `json:"end_date"`
}

// Skipped is a project a scan matched but the transition table rejected.
type Skipped struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Reason string    `json:"reason"`
}

// ScanResult reports one overdue or revert pass.
type ScanResult struct {
	Success      bool            `json:"success"`
	UpdatedCount int             `json:"updated_count"`
	Projects     []ProjectChange `json:"projects"`
	Skipped      []Skipped       `json:"skipped,omitempty"`
}

// Deadline is the nearest end date among projects in development. The
// search is inclusive of today: a project ending today is still upcoming,
// since it only becomes overdue at CheckAt.
type Deadline struct {
	ProjectID   uuid.UUID `json:"project_id"`
	ProjectName string    `json:"project_name"`
	// EndDate is the project's end date at 00:01 local time, never before
	// today.
	EndDate time.Time `json:"end_date"`
	// CheckAt is 00:01 local time on the day after EndDate, the first
	// moment the project counts as overdue.
	CheckAt time.Time `json:"check_at"`
}

// Schedule describes the armed timer.
type Schedule struct {
	FiresAt  time.Time     `json:"fires_at"`
	Delay    time.Duration `json:"delay"`
	Deadline *Deadline     `json:"deadline,omitempty"`
	// Fallback is set when no deadline exists and the timer only
	// re-evaluates.
	Fallback bool `json:"fallback"`
	// Backoff is set when the timer was armed after an error.
	Backoff bool `json:"backoff"`
}
