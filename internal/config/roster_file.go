package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/shift-roster/internal/domain"
)

// RosterFile models a roster YAML file: the build configuration plus the
// employees to append after construction, in order.
type RosterFile struct {
	domain.RosterConfig `yaml:",inline"`
	Additions           []domain.Category `yaml:"additions,omitempty"`
}

// LoadRosterFile parses path. Categories the file's rules omit fall back to
// defaults, and an absent employee count is taken from the category list.
func LoadRosterFile(path string, defaults domain.RuleTable) (*RosterFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return ParseRosterFile(data, defaults)
}

// ParseRosterFile is LoadRosterFile over raw YAML.
func ParseRosterFile(data []byte, defaults domain.RuleTable) (*RosterFile, error) {
	var parsed RosterFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, domain.Errorf(domain.ErrInvalidConfiguration, "parse roster file: %v", err)
	}
	var present struct {
		Employees *int `yaml:"employees"`
	}
	if err := yaml.Unmarshal(data, &present); err != nil {
		return nil, domain.Errorf(domain.ErrInvalidConfiguration, "parse roster file: %v", err)
	}
	parsed.applyDefaults(defaults, present.Employees != nil)
	return &parsed, nil
}

func (f *RosterFile) applyDefaults(defaults domain.RuleTable, hasCount bool) {
	if !hasCount {
		f.EmployeeCount = len(f.Categories)
	}
	merged := defaults.Clone()
	for c, r := range f.Rules {
		merged[c] = r
	}
	f.Rules = merged
}
