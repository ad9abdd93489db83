package domain

import "time"

// OperationKind enumerates the mutations recorded against a session.
type OperationKind string

const (
	OperationAddEmployee     OperationKind = "add_employee"
	OperationRebuildCoverage OperationKind = "rebuild_coverage"
)

// Operation is one entry of a session's extension log.
type Operation struct {
	Kind     OperationKind `json:"kind"`
	Category Category      `json:"category,omitempty"`
}

// Session is a versioned roster configuration plus its ordered extension log.
// Replaying the log against Config reproduces the current model; no schedule
// is ever stored.
type Session struct {
	ID         string       `json:"id"`
	Version    int          `json:"version"`
	Config     RosterConfig `json:"config"`
	Operations []Operation  `json:"operations"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	out := *s
	out.Config = s.Config.Clone()
	out.Operations = append([]Operation(nil), s.Operations...)
	return &out
}
