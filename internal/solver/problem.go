package solver

import (
	"github.com/spec-kit/shift-roster/internal/roster"
)

// Problem is the solver-facing view of a model: dense boolean variables
// 0..NumVars-1 and bounded linear constraints over them.
type Problem struct {
	NumVars     int
	Constraints []roster.Constraint
}

// NewProblem validates m and lowers it. It fails with domain.ErrMalformedModel
// before any solver is involved.
func NewProblem(m *roster.Model) (Problem, error) {
	if err := roster.Validate(m); err != nil {
		return Problem{}, err
	}
	return Problem{NumVars: m.NumVars(), Constraints: m.Constraints()}, nil
}

// Check reports whether values satisfies every constraint of p.
func (p Problem) Check(values []bool) bool {
	read := func(v roster.VarID) bool { return int(v) < len(values) && values[v] }
	for _, c := range p.Constraints {
		if !c.Satisfied(read) {
			return false
		}
	}
	return true
}
