package solver

import (
	"time"

	gs "github.com/crillab/gophersat/solver"
)

// Capability is the external constraint solver. Found is called once per
// distinct satisfying assignment, synchronously, and returns false to stop
// the search.
type Capability interface {
	Solve(p Problem) (Status, []bool, Stats, error)
	Enumerate(p Problem, found func(values []bool) bool) (Status, Stats, error)
}

// Gophersat runs problems on the gophersat pseudo-boolean CDCL solver.
// Enumeration re-solves with one blocking clause per delivered assignment.
type Gophersat struct{}

// NewGophersat returns the default Capability.
func NewGophersat() *Gophersat { return &Gophersat{} }

func (g *Gophersat) Solve(p Problem) (Status, []bool, Stats, error) {
	constrs, unsat := lower(p)
	if unsat {
		return StatusInfeasible, nil, Stats{}, nil
	}
	return solveOnce(p.NumVars, constrs)
}

func (g *Gophersat) Enumerate(p Problem, found func(values []bool) bool) (Status, Stats, error) {
	constrs, unsat := lower(p)
	if unsat {
		return StatusInfeasible, Stats{}, nil
	}

	var total Stats
	delivered := 0
	for {
		status, values, stats, err := solveOnce(p.NumVars, constrs)
		total = total.add(stats)
		if err != nil {
			return StatusUnknown, total, err
		}
		switch status {
		case StatusFeasible:
		case StatusInfeasible:
			if delivered > 0 {
				return StatusFeasible, total, nil
			}
			return StatusInfeasible, total, nil
		default:
			return status, total, nil
		}

		delivered++
		if !found(values) || p.NumVars == 0 {
			return StatusFeasible, total, nil
		}
		constrs = append(constrs, blocking(values))
	}
}

func solveOnce(numVars int, constrs []gs.PBConstr) (Status, []bool, Stats, error) {
	values := make([]bool, numVars)
	if len(constrs) == 0 {
		return StatusFeasible, values, Stats{Solves: 1}, nil
	}

	start := time.Now()
	s := gs.New(gs.ParsePBConstrs(constrs))
	result := s.Solve()
	stats := Stats{
		Conflicts: s.Stats.NbConflicts,
		Branches:  s.Stats.NbDecisions,
		WallTime:  time.Since(start),
		Solves:    1,
	}
	switch result {
	case gs.Sat:
		copy(values, s.Model())
		return StatusFeasible, values, stats, nil
	case gs.Unsat:
		return StatusInfeasible, nil, stats, nil
	default:
		return StatusUnknown, nil, stats, nil
	}
}

// lower turns bounded linear constraints into "at least" pseudo-boolean
// constraints. sum <= hi is written as sum of negated literals >= total-hi.
// Bounds that always hold are dropped; unsat reports a bound that never can.
func lower(p Problem) ([]gs.PBConstr, bool) {
	var out []gs.PBConstr
	for _, c := range p.Constraints {
		var lits, negs, weights []int
		sum := 0
		for _, t := range c.Terms {
			if t.Weight == 0 {
				continue
			}
			lit := int(t.Var) + 1
			lits = append(lits, lit)
			negs = append(negs, -lit)
			weights = append(weights, t.Weight)
			sum += t.Weight
		}

		if c.Min.Set && c.Min.Value > 0 {
			if c.Min.Value > sum {
				return nil, true
			}
			out = append(out, gs.GtEq(lits, weights, c.Min.Value))
		}
		if c.Max.Set && c.Max.Value < sum {
			if c.Max.Value < 0 {
				return nil, true
			}
			out = append(out, gs.GtEq(negs, append([]int(nil), weights...), sum-c.Max.Value))
		}
	}
	return out, false
}

// blocking excludes exactly the assignment values.
func blocking(values []bool) gs.PBConstr {
	lits := make([]int, len(values))
	weights := make([]int, len(values))
	for i, v := range values {
		lits[i] = i + 1
		if v {
			lits[i] = -lits[i]
		}
		weights[i] = 1
	}
	return gs.GtEq(lits, weights, 1)
}
