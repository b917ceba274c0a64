package application

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("application not found")

type Status string

// User-managed pipeline statuses.
const (
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
)

// Terminal outcomes written by the automation worker.
const (
	StatusSubmitted      Status = "submitted"
	StatusFailed         Status = "failed"
	StatusManualRequired Status = "manual_required"
)

// UserSettable reports whether s may be set through the status update API.
func (s Status) UserSettable() bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

func (s Status) Automated() bool {
	switch s {
	case StatusSubmitted, StatusFailed, StatusManualRequired:
		return true
	}
	return false
}

type Application struct {
	ID          uuid.UUID `json:"application_id"`
	CandidateID string    `json:"candidate_id"`
	JobTitle    string    `json:"job_title"`
	Company     string    `json:"company"`
	JobURL      string    `json:"job_url"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	LastError   *string   `json:"last_error,omitempty"`
}

// Task is the queue payload for one automated submission.
type Task struct {
	CandidateID   string    `json:"candidate_id"`
	JobURL        string    `json:"job_url"`
	ApplicationID uuid.UUID `json:"application_id"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
}

// Event is one entry of an application's history.
type Event struct {
	ID            uuid.UUID `json:"event_id"`
	ApplicationID uuid.UUID `json:"application_id"`
	CandidateID   string    `json:"candidate_id"`
	Kind          string    `json:"kind"`
	Status        Status    `json:"status"`
	Detail        *string   `json:"detail,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	EventCreated       = "created"
	EventStatusChanged = "status_changed"
	EventAutomation    = "automation_result"
)
