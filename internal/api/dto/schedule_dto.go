package dto

import (
	"time"

	"github.com/spec-kit/shift-roster/internal/domain"
	"github.com/spec-kit/shift-roster/internal/roster"
	"github.com/spec-kit/shift-roster/internal/solver"
)

// RosterRequest payload shared by one-shot and session endpoints.
type RosterRequest struct {
	EmployeeCount   *int                   `json:"employee_count,omitempty"`
	ShiftsPerDay    int                    `json:"shifts_per_day"`
	HorizonDays     int                    `json:"horizon_days"`
	Categories      []domain.Category      `json:"categories"`
	Rules           domain.RuleTable       `json:"rules,omitempty"`
	Fairness        domain.Fairness        `json:"fairness"`
	ExtensionPolicy domain.ExtensionPolicy `json:"extension_policy,omitempty"`
}

// Config converts the payload. An absent employee count is taken from the
// category list; an explicit one, zero included, is kept as sent.
func (r RosterRequest) Config() domain.RosterConfig {
	count := len(r.Categories)
	if r.EmployeeCount != nil {
		count = *r.EmployeeCount
	}
	return domain.RosterConfig{
		EmployeeCount:   count,
		ShiftsPerDay:    r.ShiftsPerDay,
		HorizonDays:     r.HorizonDays,
		Categories:      r.Categories,
		Rules:           r.Rules,
		Fairness:        r.Fairness,
		ExtensionPolicy: r.ExtensionPolicy,
	}
}

// AddEmployeeRequest payload.
type AddEmployeeRequest struct {
	Category domain.Category `json:"category"`
}

// StatsResponse reports search diagnostics.
type StatsResponse struct {
	Conflicts  int   `json:"conflicts"`
	Branches   int   `json:"branches"`
	WallTimeMS int64 `json:"wall_time_ms"`
}

// NewStats converts solver stats.
func NewStats(s solver.Stats) StatsResponse {
	return StatsResponse{Conflicts: s.Conflicts, Branches: s.Branches, WallTimeMS: s.WallTime.Milliseconds()}
}

// SolveResponse reports a single-mode solve.
type SolveResponse struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Snapshot *domain.Snapshot `json:"snapshot,omitempty"`
	Stats    StatsResponse    `json:"stats"`
	Model    roster.Summary   `json:"model"`
}

// SolutionItem is one delivered snapshot.
type SolutionItem struct {
	Ordinal  int             `json:"ordinal"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// EnumerateResponse reports a bounded enumeration.
type EnumerateResponse struct {
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	Limit     int            `json:"limit"`
	Delivered int            `json:"delivered"`
	Stopped   bool           `json:"stopped"`
	Solutions []SolutionItem `json:"solutions"`
	Stats     StatsResponse  `json:"stats"`
	Model     roster.Summary `json:"model"`
}

// SessionResponse describes a stored session.
type SessionResponse struct {
	ID         string              `json:"id"`
	Version    int                 `json:"version"`
	Config     domain.RosterConfig `json:"config"`
	Operations []domain.Operation  `json:"operations"`
	Model      roster.Summary      `json:"model"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// AddEmployeeResponse wraps the session after an extension.
type AddEmployeeResponse struct {
	Employee domain.Employee `json:"employee"`
	Session  SessionResponse `json:"session"`
}

// StatusMessage tells a caller what a status means for them.
func StatusMessage(s solver.Status) string {
	switch s {
	case solver.StatusFeasible:
		return "schedule found"
	case solver.StatusInfeasible:
		return "no schedule exists under the given rules"
	case solver.StatusUnknown:
		return "search ended without a verdict"
	default:
		return "model built but not solved"
	}
}
