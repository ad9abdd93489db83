package domain

import "encoding/json"

// Off marks a day on which an employee works no shift.
const Off = -1

// EmployeeTotals summarizes one employee across a snapshot.
type EmployeeTotals struct {
	ID       int      `json:"id"`
	Category Category `json:"category"`
	Shifts   int      `json:"shifts"`
	Hours    int      `json:"hours"`
}

// Snapshot is an immutable projection of one satisfying assignment. It owns
// all of its data and stays valid after the model and solver are gone.
type Snapshot struct {
	shiftsPerDay int
	horizonDays  int
	worked       [][]int // [employee][day] -> shift or Off
	totals       []EmployeeTotals
}

// NewSnapshot copies worked ([employee][day] -> shift or Off) and derives
// per-employee totals from the rule table.
func NewSnapshot(shiftsPerDay, horizonDays int, employees []Employee, rules RuleTable, worked [][]int) Snapshot {
	s := Snapshot{
		shiftsPerDay: shiftsPerDay,
		horizonDays:  horizonDays,
		worked:       make([][]int, len(employees)),
		totals:       make([]EmployeeTotals, len(employees)),
	}
	for i, e := range employees {
		row := make([]int, horizonDays)
		for d := range row {
			row[d] = Off
			if i < len(worked) && d < len(worked[i]) {
				row[d] = worked[i][d]
			}
		}
		count := 0
		for _, sh := range row {
			if sh != Off {
				count++
			}
		}
		s.worked[i] = row
		s.totals[i] = EmployeeTotals{
			ID:       e.ID,
			Category: e.Category,
			Shifts:   count,
			Hours:    count * rules[e.Category].ShiftHours,
		}
	}
	return s
}

// ShiftsPerDay returns the number of shifts in each day of the snapshot.
func (s Snapshot) ShiftsPerDay() int { return s.shiftsPerDay }

// Days returns the horizon length.
func (s Snapshot) Days() int { return s.horizonDays }

// EmployeeCount returns the number of employees projected.
func (s Snapshot) EmployeeCount() int { return len(s.worked) }

// ShiftOn returns the shift employee works on day, or Off.
func (s Snapshot) ShiftOn(employee, day int) int {
	if employee < 0 || employee >= len(s.worked) || day < 0 || day >= s.horizonDays {
		return Off
	}
	return s.worked[employee][day]
}

// WorkersOn returns the employees assigned to (day, shift).
func (s Snapshot) WorkersOn(day, shift int) []int {
	var out []int
	for e := range s.worked {
		if s.ShiftOn(e, day) == shift {
			out = append(out, e)
		}
	}
	return out
}

// Totals returns a copy of the per-employee totals.
func (s Snapshot) Totals() []EmployeeTotals {
	return append([]EmployeeTotals(nil), s.totals...)
}

// Hours returns the weighted hours worked by employee.
func (s Snapshot) Hours(employee int) int {
	if employee < 0 || employee >= len(s.totals) {
		return 0
	}
	return s.totals[employee].Hours
}

// ShiftCount returns the number of slots worked by employee.
func (s Snapshot) ShiftCount(employee int) int {
	if employee < 0 || employee >= len(s.totals) {
		return 0
	}
	return s.totals[employee].Shifts
}

type snapshotDay struct {
	Day         int   `json:"day"`
	Assignments []int `json:"assignments"`
}

type snapshotJSON struct {
	ShiftsPerDay int              `json:"shifts_per_day"`
	HorizonDays  int              `json:"horizon_days"`
	Days         []snapshotDay    `json:"days"`
	Employees    []EmployeeTotals `json:"employees"`
}

// MarshalJSON renders the snapshot day by day; each day lists, per employee,
// the shift worked or -1 for off.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{
		ShiftsPerDay: s.shiftsPerDay,
		HorizonDays:  s.horizonDays,
		Days:         make([]snapshotDay, s.horizonDays),
		Employees:    s.Totals(),
	}
	for d := 0; d < s.horizonDays; d++ {
		row := make([]int, len(s.worked))
		for e := range s.worked {
			row[e] = s.worked[e][d]
		}
		out.Days[d] = snapshotDay{Day: d, Assignments: row}
	}
	return json.Marshal(out)
}
