package domain

// ExtensionPolicy decides how coverage reacts to an employee appended after build.
type ExtensionPolicy string

const (
	// ExtensionOptional keeps pre-existing coverage and fairness constraints
	// untouched; the new employee stays inert until an explicit rebuild.
	ExtensionOptional ExtensionPolicy = "optional"
	// ExtensionRebuild rebuilds coverage and fairness over the enlarged
	// employee set as part of the extension.
	ExtensionRebuild ExtensionPolicy = "rebuild"
)

// Valid reports whether p is a known policy. The empty policy is valid and
// means ExtensionRebuild.
func (p ExtensionPolicy) Valid() bool {
	switch p {
	case "", ExtensionOptional, ExtensionRebuild:
		return true
	}
	return false
}

// Effective returns p with the empty value resolved.
func (p ExtensionPolicy) Effective() ExtensionPolicy {
	if p == "" {
		return ExtensionRebuild
	}
	return p
}

// Fairness configures the optional shift-count balancing family.
type Fairness struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Slack widens the per-employee maximum beyond the even split.
	Slack int `json:"slack,omitempty" yaml:"slack,omitempty"`
}

// Bounds returns the per-employee [min, max] number of slots for the given
// totals. Callers must not invoke it with employees == 0.
func (f Fairness) Bounds(totalSlots, employees int) (int, int) {
	lo := totalSlots / employees
	hi := lo
	if totalSlots%employees != 0 {
		hi++
	}
	return lo, hi + f.Slack
}

// RosterConfig is the complete input to model construction.
type RosterConfig struct {
	EmployeeCount   int             `json:"employee_count" yaml:"employees"`
	ShiftsPerDay    int             `json:"shifts_per_day" yaml:"shifts_per_day"`
	HorizonDays     int             `json:"horizon_days" yaml:"horizon_days"`
	Categories      []Category      `json:"categories" yaml:"categories"`
	Rules           RuleTable       `json:"rules,omitempty" yaml:"rules,omitempty"`
	Fairness        Fairness        `json:"fairness" yaml:"fairness"`
	ExtensionPolicy ExtensionPolicy `json:"extension_policy,omitempty" yaml:"extension_policy,omitempty"`
}

// Clone returns a deep copy of the configuration.
func (c RosterConfig) Clone() RosterConfig {
	out := c
	out.Categories = append([]Category(nil), c.Categories...)
	if c.Rules != nil {
		out.Rules = c.Rules.Clone()
	}
	return out
}

// EffectiveRules returns the configured rules or DefaultRules when none are set.
func (c RosterConfig) EffectiveRules() RuleTable {
	if len(c.Rules) == 0 {
		return DefaultRules()
	}
	return c.Rules
}

// Employee is one schedulable worker. IDs are dense and never reused.
type Employee struct {
	ID       int      `json:"id"`
	Category Category `json:"category"`
}

// ShiftSlot identifies one schedulable period.
type ShiftSlot struct {
	Day   int `json:"day"`
	Shift int `json:"shift"`
}

// Roster is a validated configuration expanded into dense id ranges.
type Roster struct {
	Employees    []Employee
	ShiftsPerDay int
	HorizonDays  int
	Rules        RuleTable
	Fairness     Fairness
	Policy       ExtensionPolicy
}

// NewRoster validates cfg and produces the dense employee, day and shift ranges.
// Zero-sized dimensions are valid.
func NewRoster(cfg RosterConfig) (*Roster, error) {
	if cfg.EmployeeCount < 0 || cfg.ShiftsPerDay < 0 || cfg.HorizonDays < 0 {
		return nil, invalidf("dimensions must be non-negative (employees=%d shifts_per_day=%d horizon_days=%d)",
			cfg.EmployeeCount, cfg.ShiftsPerDay, cfg.HorizonDays)
	}
	if len(cfg.Categories) != cfg.EmployeeCount {
		return nil, invalidf("got %d categories for %d employees", len(cfg.Categories), cfg.EmployeeCount)
	}
	if cfg.Fairness.Slack < 0 {
		return nil, invalidf("fairness slack must be non-negative")
	}
	if !cfg.ExtensionPolicy.Valid() {
		return nil, invalidf("unknown extension policy %q", cfg.ExtensionPolicy)
	}
	rules := cfg.EffectiveRules().Clone()
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	employees := make([]Employee, len(cfg.Categories))
	for i, c := range cfg.Categories {
		if _, err := rules.Lookup(c); err != nil {
			return nil, Errorf(ErrUnrecognizedCategory, "employee %d has category %q", i, c)
		}
		employees[i] = Employee{ID: i, Category: c}
	}

	return &Roster{
		Employees:    employees,
		ShiftsPerDay: cfg.ShiftsPerDay,
		HorizonDays:  cfg.HorizonDays,
		Rules:        rules,
		Fairness:     cfg.Fairness,
		Policy:       cfg.ExtensionPolicy.Effective(),
	}, nil
}

// Slots lists every (day, shift) pair in day-major order.
func (r *Roster) Slots() []ShiftSlot {
	out := make([]ShiftSlot, 0, r.TotalSlots())
	for d := 0; d < r.HorizonDays; d++ {
		for s := 0; s < r.ShiftsPerDay; s++ {
			out = append(out, ShiftSlot{Day: d, Shift: s})
		}
	}
	return out
}

// TotalSlots is HorizonDays * ShiftsPerDay.
func (r *Roster) TotalSlots() int {
	return r.HorizonDays * r.ShiftsPerDay
}

// NextEmployeeID is one past the current maximum id.
func (r *Roster) NextEmployeeID() int {
	return len(r.Employees)
}

// Clone returns an independent copy of the roster.
func (r *Roster) Clone() *Roster {
	out := *r
	out.Employees = append([]Employee(nil), r.Employees...)
	out.Rules = r.Rules.Clone()
	return &out
}

// Config converts the roster back into the configuration that produces it.
func (r *Roster) Config() RosterConfig {
	cats := make([]Category, len(r.Employees))
	for i, e := range r.Employees {
		cats[i] = e.Category
	}
	return RosterConfig{
		EmployeeCount:   len(r.Employees),
		ShiftsPerDay:    r.ShiftsPerDay,
		HorizonDays:     r.HorizonDays,
		Categories:      cats,
		Rules:           r.Rules.Clone(),
		Fairness:        r.Fairness,
		ExtensionPolicy: r.Policy,
	}
}
