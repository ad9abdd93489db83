package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoster(t *testing.T) {
	r, err := NewRoster(RosterConfig{
		EmployeeCount: 3,
		ShiftsPerDay:  2,
		HorizonDays:   3,
		Categories:    []Category{CategoryManager, CategoryPartTime, CategoryFullTime},
	})
	require.NoError(t, err)

	assert.Equal(t, []Employee{{0, CategoryManager}, {1, CategoryPartTime}, {2, CategoryFullTime}}, r.Employees)
	assert.Equal(t, 6, r.TotalSlots())
	assert.Equal(t, ShiftSlot{Day: 1, Shift: 0}, r.Slots()[2])
	assert.Equal(t, 3, r.NextEmployeeID())
	assert.Equal(t, ExtensionRebuild, r.Policy)
	assert.Equal(t, DefaultRules(), r.Rules)

	cfg := r.Config()
	assert.Equal(t, 3, cfg.EmployeeCount)
	again, err := NewRoster(cfg)
	require.NoError(t, err)
	assert.Equal(t, r, again)
}

func TestNewRosterZeroDimensions(t *testing.T) {
	r, err := NewRoster(RosterConfig{})
	require.NoError(t, err)
	assert.Empty(t, r.Employees)
	assert.Empty(t, r.Slots())
}

func TestNewRosterErrors(t *testing.T) {
	cases := map[string]RosterConfig{
		"negative days":      {HorizonDays: -1},
		"count mismatch":     {EmployeeCount: 2, Categories: []Category{CategoryManager}},
		"negative slack":     {Fairness: Fairness{Enabled: true, Slack: -1}},
		"unknown policy":     {ExtensionPolicy: "sometimes"},
		"bad range rule":     {Rules: RuleTable{CategoryManager: {ShiftHours: 8, MinHours: 30, MaxHours: 10, Policy: HourPolicyRange}}},
		"unknown hour rule":  {Rules: RuleTable{CategoryManager: {ShiftHours: 8, Policy: "around"}}},
		"negative rule hour": {Rules: RuleTable{CategoryManager: {ShiftHours: -8}}},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewRoster(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}

	_, err := NewRoster(RosterConfig{EmployeeCount: 1, Categories: []Category{"intern"}})
	assert.ErrorIs(t, err, ErrUnrecognizedCategory)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), `"intern"`)
}

func TestRuleTable(t *testing.T) {
	rules := DefaultRules()
	assert.Equal(t, []Category{CategoryFullTime, CategoryManager, CategoryPartTime}, rules.Categories())

	rule, err := rules.Lookup(CategoryPartTime)
	require.NoError(t, err)
	assert.Equal(t, 4, rule.ShiftHours)
	assert.Equal(t, HourPolicyMax, CategoryRule{}.EffectivePolicy())

	_, err = rules.Lookup("contractor")
	assert.ErrorIs(t, err, ErrUnrecognizedCategory)

	clone := rules.Clone()
	clone[CategoryPartTime] = CategoryRule{ShiftHours: 1}
	assert.Equal(t, 4, rules[CategoryPartTime].ShiftHours)

	assert.ErrorIs(t, RuleTable{}.Validate(), ErrInvalidConfiguration)
	assert.ErrorIs(t, RuleTable{"": {ShiftHours: 1}}.Validate(), ErrInvalidConfiguration)
}

func TestFairnessBounds(t *testing.T) {
	tests := []struct {
		name          string
		fairness      Fairness
		slots, people int
		lo, hi        int
	}{
		{name: "even", slots: 28, people: 4, lo: 7, hi: 7},
		{name: "uneven", slots: 28, people: 5, lo: 5, hi: 6},
		{name: "slack", fairness: Fairness{Enabled: true, Slack: 2}, slots: 28, people: 4, lo: 7, hi: 9},
		{name: "more people than slots", slots: 2, people: 3, lo: 0, hi: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := tt.fairness.Bounds(tt.slots, tt.people)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestRosterConfigClone(t *testing.T) {
	cfg := RosterConfig{
		EmployeeCount: 1,
		Categories:    []Category{CategoryManager},
		Rules:         DefaultRules(),
	}
	clone := cfg.Clone()
	clone.Categories[0] = CategoryPartTime
	clone.Rules[CategoryManager] = CategoryRule{}
	assert.Equal(t, CategoryManager, cfg.Categories[0])
	assert.Equal(t, 8, cfg.Rules[CategoryManager].ShiftHours)

	assert.Equal(t, DefaultRules(), RosterConfig{}.EffectiveRules())
	assert.Equal(t, ExtensionRebuild, ExtensionPolicy("").Effective())
	assert.False(t, ExtensionPolicy("never").Valid())
}

func TestSessionClone(t *testing.T) {
	s := &Session{
		ID:         "s1",
		Version:    2,
		Config:     RosterConfig{Categories: []Category{CategoryManager}},
		Operations: []Operation{{Kind: OperationAddEmployee, Category: CategoryPartTime}},
	}
	c := s.Clone()
	c.Operations[0].Category = CategoryManager
	c.Config.Categories[0] = CategoryFullTime
	assert.Equal(t, CategoryPartTime, s.Operations[0].Category)
	assert.Equal(t, CategoryManager, s.Config.Categories[0])
}
