package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/shift-roster/internal/config"
	"github.com/spec-kit/shift-roster/internal/domain"
	"github.com/spec-kit/shift-roster/internal/roster"
	"github.com/spec-kit/shift-roster/internal/solver"
)

// options are the roster flags shared by every subcommand.
type options struct {
	file       string
	employees  int
	hasCount   bool // --employees was given
	shifts     int
	days       int
	categories []string
	additions  []string
	policy     string
}

// rosterInput resolves o against defaults into a build configuration and the
// operations to replay on top of it.
func rosterInput(o options, defaults config.RosterConfig) (domain.RosterConfig, []domain.Operation, error) {
	var (
		cfg   domain.RosterConfig
		added []domain.Category
	)
	if o.file != "" {
		rf, err := config.LoadRosterFile(o.file, defaults.Rules())
		if err != nil {
			return domain.RosterConfig{}, nil, err
		}
		cfg = rf.RosterConfig
		added = rf.Additions
	} else {
		cats := make([]domain.Category, len(o.categories))
		for i, c := range o.categories {
			cats[i] = domain.Category(c)
		}
		count := len(cats)
		if o.hasCount {
			count = o.employees
		}
		cfg = domain.RosterConfig{
			EmployeeCount: count,
			ShiftsPerDay:  o.shifts,
			HorizonDays:   o.days,
			Categories:    cats,
			Rules:         defaults.Rules(),
		}
	}

	if o.policy != "" {
		cfg.ExtensionPolicy = domain.ExtensionPolicy(o.policy)
	}
	if cfg.ExtensionPolicy == "" {
		cfg.ExtensionPolicy = defaults.ExtensionPolicy.Effective()
	}

	ops := make([]domain.Operation, 0, len(added)+len(o.additions))
	for _, c := range added {
		ops = append(ops, domain.Operation{Kind: domain.OperationAddEmployee, Category: c})
	}
	for _, c := range o.additions {
		ops = append(ops, domain.Operation{Kind: domain.OperationAddEmployee, Category: domain.Category(c)})
	}
	return cfg, ops, nil
}

func buildModel() (*roster.Model, error) {
	env, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg, ops, err := rosterInput(opts, env.Roster)
	if err != nil {
		return nil, err
	}
	m, _, err := roster.Replay(cfg, ops)
	if err != nil {
		return nil, err
	}
	logger.Debug("model built",
		zap.Int("version", m.Version()),
		zap.Int("employees", len(m.Employees())),
		zap.Int("variables", m.NumVars()),
		zap.Int("constraints", len(m.Constraints())))
	return m, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	m, err := buildModel()
	if err != nil {
		return err
	}
	res, err := solver.NewDriver(nil, logger).Solve(m)
	if err != nil {
		return err
	}

	p := newConsolePrinter(cmd.OutOrStdout())
	p.status(res.Status)
	found := 0
	if snap, ok := res.Snapshot(); ok {
		p.Receive(1, snap)
		found = 1
	}
	p.stats(res.Stats, found)
	return nil
}

func runEnumerate(cmd *cobra.Command, args []string) error {
	if limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", limit)
	}
	m, err := buildModel()
	if err != nil {
		return err
	}

	p := newConsolePrinter(cmd.OutOrStdout())
	summary, err := solver.NewDriver(nil, logger).Enumerate(m, limit, p)
	if err != nil {
		return err
	}
	p.status(summary.Status)
	if summary.Stopped {
		p.printf("stopped at limit %d\n", summary.Limit)
	}
	p.stats(summary.Stats, summary.Delivered)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	m, err := buildModel()
	if err != nil {
		return err
	}
	newConsolePrinter(cmd.OutOrStdout()).summary(roster.Describe(m), m.Employees())
	return nil
}
