// Package roster translates a roster configuration into the boolean decision
// variables and linear constraints consumed by the solver driver, and extends
// a built model with employees appended after construction.
package roster

import (
	"fmt"

	"github.com/spec-kit/shift-roster/internal/domain"
)

// Build validates cfg and constructs version 1 of its model.
func Build(cfg domain.RosterConfig) (*Model, *VariableIndex, error) {
	r, err := domain.NewRoster(cfg)
	if err != nil {
		return nil, nil, err
	}

	m := &Model{
		version: 1,
		roster:  r,
		index:   newVariableIndex(r.HorizonDays, r.ShiftsPerDay),
		dormant: make(map[int]bool),
	}
	for range r.Employees {
		m.index.appendEmployee()
	}

	m.addCoverage()
	for _, e := range r.Employees {
		if err := m.addEmployeeConstraints(e, false); err != nil {
			return nil, nil, err
		}
	}
	m.addFairness()
	return m, m.index, nil
}

// addCoverage adds one exactly-one constraint per (day, shift) over the
// active employees. A slot with no candidate employees keeps an empty sum
// that can never reach one.
func (m *Model) addCoverage() {
	active := m.activeEmployees()
	for _, slot := range m.roster.Slots() {
		m.constraints = append(m.constraints, Constraint{
			Family: FamilyCoverage,
			Label:  fmt.Sprintf("cover_d%d_s%d", slot.Day, slot.Shift),
			Scope:  slotScope(slot.Day, slot.Shift),
			Terms:  unitTerms(m.index.SlotVars(slot.Day, slot.Shift, active)),
			Min:    Bounded(1),
			Max:    Bounded(1),
		})
	}
}

// addEmployeeConstraints adds the exclusivity, hour-budget and shift-floor
// constraints scoped to e. A dormant employee gets no lower bounds, since the
// dormancy constraint pins them to zero slots.
func (m *Model) addEmployeeConstraints(e domain.Employee, dormant bool) error {
	if m.roster.ShiftsPerDay > 0 {
		for d := 0; d < m.roster.HorizonDays; d++ {
			m.constraints = append(m.constraints, Constraint{
				Family: FamilyExclusivity,
				Label:  fmt.Sprintf("exclusive_e%d_d%d", e.ID, d),
				Scope:  employeeDayScope(e.ID, d),
				Terms:  unitTerms(m.index.DayVars(e.ID, d)),
				Max:    Bounded(1),
			})
		}
	}
	return m.addEmployeeBounds(e, dormant)
}

// addEmployeeBounds adds the hour-budget and shift-floor constraints of e.
func (m *Model) addEmployeeBounds(e domain.Employee, dormant bool) error {
	rule, err := m.roster.Rules.Lookup(e.Category)
	if err != nil {
		return domain.Errorf(domain.ErrUnrecognizedCategory, "employee %d has category %q", e.ID, e.Category)
	}

	vars := m.index.EmployeeVars(e.ID)
	lo, hi := hourBounds(rule)
	if dormant {
		lo = Bound{}
	}
	if lo.Set || hi.Set {
		m.constraints = append(m.constraints, Constraint{
			Family: FamilyHours,
			Label:  fmt.Sprintf("hours_e%d_%s", e.ID, rule.EffectivePolicy()),
			Scope:  employeeScope(e.ID),
			Terms:  weightedTerms(vars, rule.ShiftHours),
			Min:    lo,
			Max:    hi,
		})
	}

	if rule.MinShifts > 0 && !dormant {
		m.constraints = append(m.constraints, Constraint{
			Family: FamilyShiftFloor,
			Label:  fmt.Sprintf("shift_floor_e%d", e.ID),
			Scope:  employeeScope(e.ID),
			Terms:  unitTerms(vars),
			Min:    Bounded(rule.MinShifts),
		})
	}
	return nil
}

// hourBounds lowers a category rule's policy to the bounds of one linear
// constraint.
func hourBounds(rule domain.CategoryRule) (Bound, Bound) {
	switch rule.EffectivePolicy() {
	case domain.HourPolicyMin:
		return Bounded(rule.MinHours), Bound{}
	case domain.HourPolicyExact:
		return Bounded(rule.MaxHours), Bounded(rule.MaxHours)
	case domain.HourPolicyRange:
		return Bounded(rule.MinHours), Bounded(rule.MaxHours)
	default:
		return Bound{}, Bounded(rule.MaxHours)
	}
}

// addFairness bounds each active employee's slot count around the even split
// of all slots.
func (m *Model) addFairness() {
	active := m.activeEmployees()
	if !m.roster.Fairness.Enabled || len(active) == 0 {
		return
	}
	lo, hi := m.roster.Fairness.Bounds(m.roster.TotalSlots(), len(active))
	for _, e := range active {
		m.constraints = append(m.constraints, Constraint{
			Family: FamilyFairness,
			Label:  fmt.Sprintf("fair_e%d", e),
			Scope:  employeeScope(e),
			Terms:  unitTerms(m.index.EmployeeVars(e)),
			Min:    Bounded(lo),
			Max:    Bounded(hi),
		})
	}
}
