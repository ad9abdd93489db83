package solver

import (
	"encoding/json"
	"time"
)

// Status is the outcome of a search. Infeasibility is an outcome, not an error.
type Status int

const (
	// StatusUnsolved is a built model that has not been searched yet.
	StatusUnsolved Status = iota
	// StatusInfeasible means no assignment satisfies the model.
	StatusInfeasible
	// StatusFeasible means at least one satisfying assignment was found.
	StatusFeasible
	// StatusUnknown means the search ended without a verdict.
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusUnsolved:
		return "unsolved"
	case StatusInfeasible:
		return "infeasible"
	case StatusFeasible:
		return "feasible"
	case StatusUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Stats are informational search counters. Their magnitudes carry no
// guarantee across runs or equivalent models.
type Stats struct {
	Conflicts int           `json:"conflicts"`
	Branches  int           `json:"branches"`
	WallTime  time.Duration `json:"wall_time_ns"`
	Solves    int           `json:"solves"`
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		Conflicts: s.Conflicts + o.Conflicts,
		Branches:  s.Branches + o.Branches,
		WallTime:  s.WallTime + o.WallTime,
		Solves:    s.Solves + o.Solves,
	}
}
