// Package solver drives an external constraint solver against a roster model,
// either for a single answer or as a bounded stream of solution snapshots.
package solver

import (
	"go.uber.org/zap"

	"github.com/spec-kit/shift-roster/internal/domain"
	"github.com/spec-kit/shift-roster/internal/roster"
)

// Driver runs models on a Capability. A model must not be extended while a
// Driver call against it is in flight.
type Driver struct {
	capability Capability
	logger     *zap.Logger
}

// NewDriver returns a Driver over c, defaulting to gophersat when c is nil.
func NewDriver(c Capability, logger *zap.Logger) *Driver {
	if c == nil {
		c = NewGophersat()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{capability: c, logger: logger}
}

// Result is the outcome of a single-mode solve.
type Result struct {
	Status Status
	Stats  Stats

	index    *roster.VariableIndex
	values   []bool
	snapshot domain.Snapshot
}

// Value reads the decided value of (employee, day, shift). ok is false when
// the triple is unknown or no assignment was found.
func (r *Result) Value(employee, day, shift int) (value, ok bool) {
	if r.values == nil {
		return false, false
	}
	id, found := r.index.Lookup(employee, day, shift)
	if !found {
		return false, false
	}
	return r.values[id], true
}

// Snapshot returns the projected assignment when Status is StatusFeasible.
func (r *Result) Snapshot() (domain.Snapshot, bool) {
	return r.snapshot, r.Status == StatusFeasible
}

// Solve searches for one satisfying assignment of m.
func (d *Driver) Solve(m *roster.Model) (*Result, error) {
	p, err := NewProblem(m)
	if err != nil {
		d.logger.Error("model rejected", zap.Int("version", modelVersion(m)), zap.Error(err))
		return nil, err
	}

	status, values, stats, err := d.capability.Solve(p)
	if err != nil {
		d.logger.Error("solver failed", zap.Int("version", m.Version()), zap.Error(err))
		return nil, err
	}
	res := &Result{Status: status, Stats: stats, index: m.Index()}
	if status == StatusFeasible {
		res.values = append([]bool(nil), values...)
		res.snapshot = project(m, values)
	}
	d.logger.Info("search completed",
		zap.Int("version", m.Version()),
		zap.String("status", status.String()),
		zap.Int("conflicts", stats.Conflicts),
		zap.Int("branches", stats.Branches),
		zap.Duration("wall_time", stats.WallTime),
	)
	return res, nil
}

// project turns a variable assignment into a snapshot detached from m.
func project(m *roster.Model, values []bool) domain.Snapshot {
	idx := m.Index()
	employees := m.Employees()
	worked := make([][]int, len(employees))
	for e := range employees {
		row := make([]int, m.HorizonDays())
		for d := range row {
			row[d] = domain.Off
			for s := 0; s < m.ShiftsPerDay(); s++ {
				if id, ok := idx.Lookup(e, d, s); ok && int(id) < len(values) && values[id] {
					row[d] = s
					break
				}
			}
		}
		worked[e] = row
	}
	return domain.NewSnapshot(m.ShiftsPerDay(), m.HorizonDays(), employees, m.Rules(), worked)
}

func modelVersion(m *roster.Model) int {
	if m == nil {
		return 0
	}
	return m.Version()
}
