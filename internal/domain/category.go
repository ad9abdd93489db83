package domain

import (
	"fmt"
	"sort"
)

// Category classifies an employee for hour-budget purposes.
type Category string

const (
	CategoryFullTime Category = "full_time"
	CategoryPartTime Category = "part_time"
	CategoryManager  Category = "manager"
)

// HourPolicy selects which side(s) of the hour budget are enforced.
type HourPolicy string

const (
	// HourPolicyMax bounds worked hours above by MaxHours.
	HourPolicyMax HourPolicy = "max"
	// HourPolicyMin bounds worked hours below by MinHours.
	HourPolicyMin HourPolicy = "min"
	// HourPolicyExact requires worked hours to equal MaxHours.
	HourPolicyExact HourPolicy = "exact"
	// HourPolicyRange requires MinHours <= worked hours <= MaxHours.
	HourPolicyRange HourPolicy = "range"
)

// CategoryRule holds the per-category staffing parameters.
type CategoryRule struct {
	ShiftHours int        `json:"shift_hours" yaml:"shift_hours"`
	MaxHours   int        `json:"max_hours" yaml:"max_hours"`
	MinHours   int        `json:"min_hours,omitempty" yaml:"min_hours,omitempty"`
	Policy     HourPolicy `json:"policy,omitempty" yaml:"policy,omitempty"`
	// MinShifts is a floor on the number of slots worked over the horizon.
	MinShifts int `json:"min_shifts,omitempty" yaml:"min_shifts,omitempty"`
}

// EffectivePolicy returns the configured policy, defaulting to HourPolicyMax.
func (r CategoryRule) EffectivePolicy() HourPolicy {
	if r.Policy == "" {
		return HourPolicyMax
	}
	return r.Policy
}

// Validate reports parameter combinations no roster can honor sensibly.
func (r CategoryRule) Validate() error {
	if r.ShiftHours < 0 || r.MaxHours < 0 || r.MinHours < 0 || r.MinShifts < 0 {
		return invalidf("rule values must be non-negative")
	}
	switch r.EffectivePolicy() {
	case HourPolicyMax, HourPolicyMin, HourPolicyExact:
	case HourPolicyRange:
		if r.MinHours > r.MaxHours {
			return invalidf("min_hours %d exceeds max_hours %d", r.MinHours, r.MaxHours)
		}
	default:
		return invalidf("unknown hour policy %q", r.Policy)
	}
	return nil
}

// RuleTable maps each recognized category to its rule. The set of keys is the
// recognized category enumeration.
type RuleTable map[Category]CategoryRule

// Lookup returns the rule for c or an ErrUnrecognizedCategory error.
func (t RuleTable) Lookup(c Category) (CategoryRule, error) {
	rule, ok := t[c]
	if !ok {
		return CategoryRule{}, Errorf(ErrUnrecognizedCategory, "%q", c)
	}
	return rule, nil
}

// Categories returns the recognized categories in sorted order.
func (t RuleTable) Categories() []Category {
	out := make([]Category, 0, len(t))
	for c := range t {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy of the table.
func (t RuleTable) Clone() RuleTable {
	out := make(RuleTable, len(t))
	for c, r := range t {
		out[c] = r
	}
	return out
}

// Validate checks every rule in the table.
func (t RuleTable) Validate() error {
	if len(t) == 0 {
		return invalidf("rule table is empty")
	}
	for _, c := range t.Categories() {
		if c == "" {
			return invalidf("rule table has an empty category name")
		}
		if err := t[c].Validate(); err != nil {
			return fmt.Errorf("category %q: %w", c, err)
		}
	}
	return nil
}

// DefaultRules returns the stock table: full-time 40h over 8h shifts with at
// least one shift, part-time 20h over 4h shifts, managers 40h over 8h shifts.
func DefaultRules() RuleTable {
	return RuleTable{
		CategoryFullTime: {ShiftHours: 8, MaxHours: 40, Policy: HourPolicyMax, MinShifts: 1},
		CategoryPartTime: {ShiftHours: 4, MaxHours: 20, Policy: HourPolicyMax},
		CategoryManager:  {ShiftHours: 8, MaxHours: 40, Policy: HourPolicyMax},
	}
}
