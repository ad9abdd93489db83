package roster

import (
	"github.com/spec-kit/shift-roster/internal/domain"
)

// Model is a versioned variable set plus constraint set over one roster.
// Build, Extend and RebuildCoverage always return a fresh Model; a Model is
// never mutated once returned.
type Model struct {
	version     int
	roster      *domain.Roster
	index       *VariableIndex
	constraints []Constraint
	dormant     map[int]bool
}

// Version increases by one with every extension or rebuild.
func (m *Model) Version() int { return m.version }

// Index returns the variable index bound to the model.
func (m *Model) Index() *VariableIndex { return m.index }

// Roster returns a copy of the roster the model encodes.
func (m *Model) Roster() *domain.Roster { return m.roster.Clone() }

// Employees returns a copy of the employee list.
func (m *Model) Employees() []domain.Employee {
	return append([]domain.Employee(nil), m.roster.Employees...)
}

// Rules returns a copy of the rule table in force.
func (m *Model) Rules() domain.RuleTable { return m.roster.Rules.Clone() }

// Policy returns the extension policy the model was built with.
func (m *Model) Policy() domain.ExtensionPolicy { return m.roster.Policy }

// ShiftsPerDay returns the per-day shift count.
func (m *Model) ShiftsPerDay() int { return m.roster.ShiftsPerDay }

// HorizonDays returns the horizon length.
func (m *Model) HorizonDays() int { return m.roster.HorizonDays }

// NumVars is the number of assignment variables.
func (m *Model) NumVars() int { return m.index.Len() }

// Constraints returns a copy of every constraint.
func (m *Model) Constraints() []Constraint {
	out := make([]Constraint, len(m.constraints))
	for i, c := range m.constraints {
		out[i] = c.clone()
	}
	return out
}

// Family returns a copy of the constraints of family f.
func (m *Model) Family(f Family) []Constraint {
	var out []Constraint
	for _, c := range m.constraints {
		if c.Family == f {
			out = append(out, c.clone())
		}
	}
	return out
}

// Dormant reports whether employee was appended under the optional policy and
// has not yet been folded into coverage.
func (m *Model) Dormant(employee int) bool { return m.dormant[employee] }

// DormantEmployees lists dormant employee ids in ascending order.
func (m *Model) DormantEmployees() []int {
	var out []int
	for _, e := range m.roster.Employees {
		if m.dormant[e.ID] {
			out = append(out, e.ID)
		}
	}
	return out
}

// activeEmployees lists the employees that coverage must range over.
func (m *Model) activeEmployees() []int {
	out := make([]int, 0, len(m.roster.Employees))
	for _, e := range m.roster.Employees {
		if !m.dormant[e.ID] {
			out = append(out, e.ID)
		}
	}
	return out
}

func (m *Model) clone() *Model {
	out := &Model{
		version:     m.version,
		roster:      m.roster.Clone(),
		index:       m.index.clone(),
		constraints: make([]Constraint, len(m.constraints)),
		dormant:     make(map[int]bool, len(m.dormant)),
	}
	for i, c := range m.constraints {
		out.constraints[i] = c.clone()
	}
	for e, v := range m.dormant {
		out.dormant[e] = v
	}
	return out
}

func (m *Model) dropFamilies(families ...Family) {
	kept := m.constraints[:0]
	for _, c := range m.constraints {
		if !hasFamily(families, c.Family) {
			kept = append(kept, c)
		}
	}
	m.constraints = kept
}

// dropEmployeeFamilies removes the constraints of the given families scoped to
// employee.
func (m *Model) dropEmployeeFamilies(employee int, families ...Family) {
	kept := m.constraints[:0]
	for _, c := range m.constraints {
		if c.Scope.Employee == employee && hasFamily(families, c.Family) {
			continue
		}
		kept = append(kept, c)
	}
	m.constraints = kept
}

func hasFamily(families []Family, f Family) bool {
	for _, g := range families {
		if g == f {
			return true
		}
	}
	return false
}

// Summary is a diagnostic overview of a model.
type Summary struct {
	Version      int                    `json:"version"`
	Employees    int                    `json:"employees"`
	Days         int                    `json:"days"`
	ShiftsPerDay int                    `json:"shifts_per_day"`
	Variables    int                    `json:"variables"`
	Constraints  map[Family]int         `json:"constraints"`
	Dormant      []int                  `json:"dormant,omitempty"`
	Policy       domain.ExtensionPolicy `json:"policy"`
}

// Describe summarizes m.
func Describe(m *Model) Summary {
	counts := make(map[Family]int)
	for _, c := range m.constraints {
		counts[c.Family]++
	}
	return Summary{
		Version:      m.version,
		Employees:    len(m.roster.Employees),
		Days:         m.roster.HorizonDays,
		ShiftsPerDay: m.roster.ShiftsPerDay,
		Variables:    m.index.Len(),
		Constraints:  counts,
		Dormant:      m.DormantEmployees(),
		Policy:       m.roster.Policy,
	}
}
