package roster

import "fmt"

// VarKey is the immutable identity of one assignment variable.
type VarKey struct {
	Employee int `json:"employee"`
	Day      int `json:"day"`
	Shift    int `json:"shift"`
}

// Label is a deterministic diagnostic name for the variable.
func (k VarKey) Label() string {
	return fmt.Sprintf("shift_e%d_d%d_s%d", k.Employee, k.Day, k.Shift)
}

// VarID is the dense solver-facing handle of an assignment variable.
type VarID int

// VariableIndex addresses assignment variables by (employee, day, shift).
// Variables are allocated employee-major, so appending an employee appends a
// contiguous id block.
type VariableIndex struct {
	employees    int
	days         int
	shiftsPerDay int
	keys         []VarKey
}

func newVariableIndex(days, shiftsPerDay int) *VariableIndex {
	return &VariableIndex{days: days, shiftsPerDay: shiftsPerDay}
}

// appendEmployee allocates the variables of the next employee id.
func (ix *VariableIndex) appendEmployee() int {
	e := ix.employees
	for d := 0; d < ix.days; d++ {
		for s := 0; s < ix.shiftsPerDay; s++ {
			ix.keys = append(ix.keys, VarKey{Employee: e, Day: d, Shift: s})
		}
	}
	ix.employees++
	return e
}

func (ix *VariableIndex) clone() *VariableIndex {
	out := *ix
	out.keys = append([]VarKey(nil), ix.keys...)
	return &out
}

// Len is the number of allocated variables.
func (ix *VariableIndex) Len() int { return len(ix.keys) }

// Employees is the number of employees with allocated variables.
func (ix *VariableIndex) Employees() int { return ix.employees }

// Days is the horizon length the index was built for.
func (ix *VariableIndex) Days() int { return ix.days }

// ShiftsPerDay is the per-day shift count the index was built for.
func (ix *VariableIndex) ShiftsPerDay() int { return ix.shiftsPerDay }

// Lookup returns the id of (employee, day, shift).
func (ix *VariableIndex) Lookup(employee, day, shift int) (VarID, bool) {
	if employee < 0 || employee >= ix.employees ||
		day < 0 || day >= ix.days ||
		shift < 0 || shift >= ix.shiftsPerDay {
		return 0, false
	}
	return VarID((employee*ix.days+day)*ix.shiftsPerDay + shift), true
}

// Key returns the identity of id.
func (ix *VariableIndex) Key(id VarID) (VarKey, bool) {
	if id < 0 || int(id) >= len(ix.keys) {
		return VarKey{}, false
	}
	return ix.keys[id], true
}

// Keys returns a copy of every variable identity in id order.
func (ix *VariableIndex) Keys() []VarKey {
	return append([]VarKey(nil), ix.keys...)
}

// DayVars lists the variables of employee on day.
func (ix *VariableIndex) DayVars(employee, day int) []VarID {
	out := make([]VarID, 0, ix.shiftsPerDay)
	for s := 0; s < ix.shiftsPerDay; s++ {
		if id, ok := ix.Lookup(employee, day, s); ok {
			out = append(out, id)
		}
	}
	return out
}

// EmployeeVars lists every variable of employee over the horizon.
func (ix *VariableIndex) EmployeeVars(employee int) []VarID {
	out := make([]VarID, 0, ix.days*ix.shiftsPerDay)
	for d := 0; d < ix.days; d++ {
		out = append(out, ix.DayVars(employee, d)...)
	}
	return out
}

// SlotVars lists the variables of (day, shift) for the given employees.
func (ix *VariableIndex) SlotVars(day, shift int, employees []int) []VarID {
	out := make([]VarID, 0, len(employees))
	for _, e := range employees {
		if id, ok := ix.Lookup(e, day, shift); ok {
			out = append(out, id)
		}
	}
	return out
}
