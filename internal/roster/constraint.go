package roster

// Family groups constraints derived by the same rule.
type Family string

const (
	// FamilyCoverage: exactly one employee per (day, shift).
	FamilyCoverage Family = "coverage"
	// FamilyExclusivity: at most one shift per (employee, day).
	FamilyExclusivity Family = "exclusivity"
	// FamilyHours: weighted hour budget per employee.
	FamilyHours Family = "hours"
	// FamilyShiftFloor: minimum slot count per employee over the horizon.
	FamilyShiftFloor Family = "shift_floor"
	// FamilyFairness: slot count per employee within the even-split bounds.
	FamilyFairness Family = "fairness"
	// FamilyDormancy: pins an inert employee's variables to false.
	FamilyDormancy Family = "dormancy"
	// FamilyCustom: caller-supplied side constraints.
	FamilyCustom Family = "custom"
)

// Families lists every family in a stable order.
var Families = []Family{
	FamilyCoverage,
	FamilyExclusivity,
	FamilyHours,
	FamilyShiftFloor,
	FamilyFairness,
	FamilyDormancy,
	FamilyCustom,
}

// NoScope marks an unset Scope field.
const NoScope = -1

// Scope records which part of the roster a constraint was derived from.
type Scope struct {
	Employee int `json:"employee"`
	Day      int `json:"day"`
	Shift    int `json:"shift"`
}

func employeeScope(e int) Scope       { return Scope{Employee: e, Day: NoScope, Shift: NoScope} }
func employeeDayScope(e, d int) Scope { return Scope{Employee: e, Day: d, Shift: NoScope} }
func slotScope(d, s int) Scope        { return Scope{Employee: NoScope, Day: d, Shift: s} }

// Bound is an optional integer bound.
type Bound struct {
	Value int  `json:"value"`
	Set   bool `json:"set"`
}

// Bounded returns a set Bound.
func Bounded(v int) Bound { return Bound{Value: v, Set: true} }

// Term is one weighted variable in a linear sum.
type Term struct {
	Var    VarID `json:"var"`
	Weight int   `json:"weight"`
}

// Constraint is Min <= sum(Terms) <= Max with either side optional.
// Cardinality constraints are the all-weights-one case.
type Constraint struct {
	Family Family `json:"family"`
	Label  string `json:"label"`
	Scope  Scope  `json:"scope"`
	Terms  []Term `json:"terms"`
	Min    Bound  `json:"min"`
	Max    Bound  `json:"max"`
}

func unitTerms(vars []VarID) []Term {
	out := make([]Term, len(vars))
	for i, v := range vars {
		out[i] = Term{Var: v, Weight: 1}
	}
	return out
}

func weightedTerms(vars []VarID, weight int) []Term {
	out := make([]Term, len(vars))
	for i, v := range vars {
		out[i] = Term{Var: v, Weight: weight}
	}
	return out
}

// Sum evaluates the linear sum under value.
func (c Constraint) Sum(value func(VarID) bool) int {
	total := 0
	for _, t := range c.Terms {
		if value(t.Var) {
			total += t.Weight
		}
	}
	return total
}

// Satisfied reports whether the assignment honors the constraint.
func (c Constraint) Satisfied(value func(VarID) bool) bool {
	sum := c.Sum(value)
	if c.Min.Set && sum < c.Min.Value {
		return false
	}
	if c.Max.Set && sum > c.Max.Value {
		return false
	}
	return true
}

// References reports whether v appears in the constraint.
func (c Constraint) References(v VarID) bool {
	for _, t := range c.Terms {
		if t.Var == v {
			return true
		}
	}
	return false
}

func (c Constraint) clone() Constraint {
	c.Terms = append([]Term(nil), c.Terms...)
	return c
}
