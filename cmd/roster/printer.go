package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spec-kit/shift-roster/internal/domain"
	"github.com/spec-kit/shift-roster/internal/roster"
	"github.com/spec-kit/shift-roster/internal/solver"
)

// consolePrinter is a solver.Sink that writes each schedule as it arrives.
type consolePrinter struct {
	w io.Writer
}

func newConsolePrinter(w io.Writer) *consolePrinter {
	return &consolePrinter{w: w}
}

func (p *consolePrinter) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// Receive prints snap day by day followed by per-employee totals.
func (p *consolePrinter) Receive(ordinal int, snap domain.Snapshot) bool {
	totals := snap.Totals()
	p.printf("Solution %d\n", ordinal)
	for d := 0; d < snap.Days(); d++ {
		p.printf("  Day %d\n", d+1)
		for s := 0; s < snap.ShiftsPerDay(); s++ {
			p.printf("    Shift %d:", s+1)
			workers := snap.WorkersOn(d, s)
			if len(workers) == 0 {
				p.printf(" unstaffed")
			}
			for _, e := range workers {
				p.printf(" employee %d (%s)", totals[e].ID, totals[e].Category)
			}
			p.printf("\n")
		}
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  employee\tcategory\tshifts\thours")
	for _, t := range totals {
		fmt.Fprintf(tw, "  %d\t%s\t%d\t%d\n", t.ID, t.Category, t.Shifts, t.Hours)
	}
	_ = tw.Flush()
	p.printf("\n")
	return true
}

func (p *consolePrinter) status(s solver.Status) {
	switch s {
	case solver.StatusFeasible:
		p.printf("Status: feasible\n")
	case solver.StatusInfeasible:
		p.printf("Status: infeasible (no schedule exists under the given rules)\n")
	default:
		p.printf("Status: %s\n", s)
	}
}

func (p *consolePrinter) stats(st solver.Stats, found int) {
	tw := tabwriter.NewWriter(p.w, 0, 4, 1, ' ', 0)
	fmt.Fprintln(tw, "Statistics")
	fmt.Fprintf(tw, "  conflicts:\t%d\n", st.Conflicts)
	fmt.Fprintf(tw, "  branches:\t%d\n", st.Branches)
	fmt.Fprintf(tw, "  wall time:\t%s\n", st.WallTime)
	fmt.Fprintf(tw, "  solutions found:\t%d\n", found)
	_ = tw.Flush()
}

func (p *consolePrinter) summary(s roster.Summary, employees []domain.Employee) {
	p.printf("Model version %d (%s policy)\n", s.Version, s.Policy)
	p.printf("  %d employees, %d days x %d shifts, %d variables\n", s.Employees, s.Days, s.ShiftsPerDay, s.Variables)

	tw := tabwriter.NewWriter(p.w, 0, 4, 1, ' ', 0)
	fmt.Fprintln(tw, "Constraints")
	for _, f := range roster.Families {
		if n := s.Constraints[f]; n > 0 {
			fmt.Fprintf(tw, "  %s:\t%d\n", f, n)
		}
	}
	_ = tw.Flush()

	dormant := make(map[int]bool, len(s.Dormant))
	for _, e := range s.Dormant {
		dormant[e] = true
	}
	p.printf("Employees\n")
	for _, e := range employees {
		note := ""
		if dormant[e.ID] {
			note = " (dormant)"
		}
		p.printf("  %d %s%s\n", e.ID, e.Category, note)
	}
}

var _ solver.Sink = (*consolePrinter)(nil)
