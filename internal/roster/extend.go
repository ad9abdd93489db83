package roster

import (
	"fmt"

	"github.com/spec-kit/shift-roster/internal/domain"
)

// Extend appends one employee of category c to a copy of m and returns the new
// version with its index. The input model is left untouched.
//
// Under domain.ExtensionRebuild the coverage and fairness families are rebuilt
// over the enlarged employee set. Under domain.ExtensionOptional they are kept
// as built and the new employee is pinned inert by a dormancy constraint until
// RebuildCoverage is called. A dormant employee carries only exclusivity and
// the upper side of the hour budget.
func Extend(m *Model, idx *VariableIndex, c domain.Category) (*Model, *VariableIndex, error) {
	if err := checkPair(m, idx); err != nil {
		return nil, nil, err
	}
	if _, err := m.roster.Rules.Lookup(c); err != nil {
		return nil, nil, err
	}

	next := m.clone()
	next.version++
	e := domain.Employee{ID: next.roster.NextEmployeeID(), Category: c}
	next.roster.Employees = append(next.roster.Employees, e)
	if got := next.index.appendEmployee(); got != e.ID {
		return nil, nil, domain.Errorf(domain.ErrMalformedModel, "index allocated employee %d, roster expected %d", got, e.ID)
	}
	optional := next.roster.Policy == domain.ExtensionOptional
	if err := next.addEmployeeConstraints(e, optional); err != nil {
		return nil, nil, err
	}

	if optional {
		next.dormant[e.ID] = true
		next.constraints = append(next.constraints, Constraint{
			Family: FamilyDormancy,
			Label:  fmt.Sprintf("dormant_e%d", e.ID),
			Scope:  employeeScope(e.ID),
			Terms:  unitTerms(next.index.EmployeeVars(e.ID)),
			Max:    Bounded(0),
		})
	} else {
		next.rebuildShared()
	}
	return next, next.index, nil
}

// RebuildCoverage returns a new version of m whose coverage and fairness
// families range over every employee, with all dormancy constraints removed
// and the lower bounds of formerly dormant employees restored.
func RebuildCoverage(m *Model, idx *VariableIndex) (*Model, *VariableIndex, error) {
	if err := checkPair(m, idx); err != nil {
		return nil, nil, err
	}
	next := m.clone()
	next.version++
	woken := next.DormantEmployees()
	next.dropFamilies(FamilyDormancy)
	next.dormant = make(map[int]bool)
	for _, id := range woken {
		next.dropEmployeeFamilies(id, FamilyHours, FamilyShiftFloor)
		if err := next.addEmployeeBounds(next.roster.Employees[id], false); err != nil {
			return nil, nil, err
		}
	}
	next.rebuildShared()
	return next, next.index, nil
}

// rebuildShared replaces the families derived from the whole employee set.
func (m *Model) rebuildShared() {
	m.dropFamilies(FamilyCoverage, FamilyFairness)
	m.addCoverage()
	m.addFairness()
}

func checkPair(m *Model, idx *VariableIndex) error {
	if m == nil {
		return domain.Errorf(domain.ErrMalformedModel, "model is nil")
	}
	if idx == nil || idx != m.index {
		return domain.Errorf(domain.ErrMalformedModel, "variable index does not belong to model version %d", m.version)
	}
	return nil
}

// Replay rebuilds the model described by cfg followed by ops, in order.
func Replay(cfg domain.RosterConfig, ops []domain.Operation) (*Model, *VariableIndex, error) {
	m, idx, err := Build(cfg)
	if err != nil {
		return nil, nil, err
	}
	for i, op := range ops {
		switch op.Kind {
		case domain.OperationAddEmployee:
			m, idx, err = Extend(m, idx, op.Category)
		case domain.OperationRebuildCoverage:
			m, idx, err = RebuildCoverage(m, idx)
		default:
			err = domain.Errorf(domain.ErrInvalidConfiguration, "operation %d has unknown kind %q", i, op.Kind)
		}
		if err != nil {
			return nil, nil, err
		}
	}
	return m, idx, nil
}

// WithConstraints returns a new version of m carrying extra side constraints,
// such as pinning an employee's hours to an exact target. They are tagged
// FamilyCustom and are checked by Validate at solve time, not here.
func WithConstraints(m *Model, idx *VariableIndex, extra ...Constraint) (*Model, *VariableIndex, error) {
	if err := checkPair(m, idx); err != nil {
		return nil, nil, err
	}
	next := m.clone()
	next.version++
	for i, c := range extra {
		c = c.clone()
		c.Family = FamilyCustom
		if c.Label == "" {
			c.Label = fmt.Sprintf("custom_%d_%d", next.version, i)
		}
		if c.Scope == (Scope{}) {
			c.Scope = Scope{Employee: NoScope, Day: NoScope, Shift: NoScope}
		}
		next.constraints = append(next.constraints, c)
	}
	return next, next.index, nil
}

// HoursTerms returns the weighted hour terms of employee, for use in side
// constraints over worked hours.
func HoursTerms(m *Model, employee int) ([]Term, error) {
	if employee < 0 || employee >= len(m.roster.Employees) {
		return nil, malformedf("employee %d outside [0,%d)", employee, len(m.roster.Employees))
	}
	rule, err := m.roster.Rules.Lookup(m.roster.Employees[employee].Category)
	if err != nil {
		return nil, err
	}
	return weightedTerms(m.index.EmployeeVars(employee), rule.ShiftHours), nil
}
