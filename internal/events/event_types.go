package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/shift-roster/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventModelBuilt      EventType = "model_built"
	EventEmployeeAdded   EventType = "employee_added"
	EventCoverageRebuilt EventType = "coverage_rebuilt"
	EventSolutionFound   EventType = "solution_found"
	EventSearchCompleted EventType = "search_completed"
)

// Event represents a domain event emitted by services. SessionID is empty
// for one-shot requests.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(t EventType, sessionID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// ModelBuiltPayload payload.
type ModelBuiltPayload struct {
	Version     int `json:"version"`
	Employees   int `json:"employees"`
	Variables   int `json:"variables"`
	Constraints int `json:"constraints"`
}

// EmployeeAddedPayload payload.
type EmployeeAddedPayload struct {
	EmployeeID int                    `json:"employee_id"`
	Category   domain.Category        `json:"category"`
	Policy     domain.ExtensionPolicy `json:"policy"`
	Version    int                    `json:"version"`
}

// CoverageRebuiltPayload payload.
type CoverageRebuiltPayload struct {
	Version   int `json:"version"`
	Employees int `json:"employees"`
}

// SolutionFoundPayload payload.
type SolutionFoundPayload struct {
	Ordinal int `json:"ordinal"`
	Version int `json:"version"`
}

// SearchCompletedPayload payload.
type SearchCompletedPayload struct {
	Mode      string        `json:"mode"`
	Status    string        `json:"status"`
	Solutions int           `json:"solutions"`
	Stopped   bool          `json:"stopped"`
	Conflicts int           `json:"conflicts"`
	Branches  int           `json:"branches"`
	WallTime  time.Duration `json:"wall_time_ns"`
}
