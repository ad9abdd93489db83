package roster

import (
	"github.com/spec-kit/shift-roster/internal/domain"
)

// Validate checks that m is structurally consistent. Any failure is an
// ErrMalformedModel:
//   - the index matches the roster dimensions and holds every triple once;
//   - every term references an allocated variable, at most once per
//     constraint, with a non-negative weight;
//   - set bounds are ordered;
//   - each coverage constraint references exactly the non-dormant employees
//     for its slot, and every slot has one;
//   - no built constraint puts a positive lower bound on a dormant employee.
func Validate(m *Model) error {
	if m == nil || m.roster == nil || m.index == nil {
		return malformedf("model is missing")
	}
	r, ix := m.roster, m.index
	if ix.employees != len(r.Employees) || ix.days != r.HorizonDays || ix.shiftsPerDay != r.ShiftsPerDay {
		return malformedf("index dimensions %dx%dx%d disagree with roster %dx%dx%d",
			ix.employees, ix.days, ix.shiftsPerDay, len(r.Employees), r.HorizonDays, r.ShiftsPerDay)
	}
	if want := len(r.Employees) * r.TotalSlots(); ix.Len() != want {
		return malformedf("index holds %d variables, want %d", ix.Len(), want)
	}
	for i, k := range ix.keys {
		if id, ok := ix.Lookup(k.Employee, k.Day, k.Shift); !ok || int(id) != i {
			return malformedf("variable %d has inconsistent identity %s", i, k.Label())
		}
	}

	covered := make(map[domain.ShiftSlot]bool, r.TotalSlots())
	active := m.activeEmployees()
	for _, c := range m.constraints {
		if err := validateTerms(c, ix.Len()); err != nil {
			return err
		}
		if c.Min.Set && c.Max.Set && c.Min.Value > c.Max.Value {
			return malformedf("constraint %s has min %d above max %d", c.Label, c.Min.Value, c.Max.Value)
		}
		if c.Family != FamilyCustom && m.dormant[c.Scope.Employee] && c.Min.Set && c.Min.Value > 0 {
			return malformedf("constraint %s sets min %d on dormant employee %d", c.Label, c.Min.Value, c.Scope.Employee)
		}
		if c.Family != FamilyCoverage {
			continue
		}
		slot := domain.ShiftSlot{Day: c.Scope.Day, Shift: c.Scope.Shift}
		if covered[slot] {
			return malformedf("slot d%d s%d has more than one coverage constraint", slot.Day, slot.Shift)
		}
		covered[slot] = true
		if err := validateCoverage(c, ix, active); err != nil {
			return err
		}
	}
	if len(covered) != r.TotalSlots() {
		return malformedf("%d of %d slots have a coverage constraint", len(covered), r.TotalSlots())
	}
	return nil
}

func validateTerms(c Constraint, numVars int) error {
	seen := make(map[VarID]bool, len(c.Terms))
	for _, t := range c.Terms {
		if t.Var < 0 || int(t.Var) >= numVars {
			return malformedf("constraint %s references variable %d outside [0,%d)", c.Label, t.Var, numVars)
		}
		if seen[t.Var] {
			return malformedf("constraint %s references variable %d twice", c.Label, t.Var)
		}
		if t.Weight < 0 {
			return malformedf("constraint %s has negative weight %d", c.Label, t.Weight)
		}
		seen[t.Var] = true
	}
	return nil
}

func validateCoverage(c Constraint, ix *VariableIndex, active []int) error {
	want := ix.SlotVars(c.Scope.Day, c.Scope.Shift, active)
	if len(want) != len(c.Terms) {
		return malformedf("coverage %s spans %d employees, want %d", c.Label, len(c.Terms), len(want))
	}
	for _, v := range want {
		if !c.References(v) {
			k, _ := ix.Key(v)
			return malformedf("coverage %s is missing %s", c.Label, k.Label())
		}
	}
	return nil
}

func malformedf(format string, args ...any) error {
	return domain.Errorf(domain.ErrMalformedModel, format, args...)
}
