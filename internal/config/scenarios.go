package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"gopkg.in/yaml.v3"
)

// ScenarioParser handles parsing of batch scenario files
type ScenarioParser struct {
	// Known reports whether a calculator name is registered. Nil skips the check.
	Known func(name string) bool
}

// NewScenarioParser creates a new scenario parser
func NewScenarioParser(known func(name string) bool) *ScenarioParser {
	return &ScenarioParser{Known: known}
}

// LoadFromFile loads a scenario file from YAML
func (sp *ScenarioParser) LoadFromFile(filename string) (*domain.ScenarioFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var file domain.ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := sp.Validate(&file); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}
	return &file, nil
}

// Validate checks names and calculator references
func (sp *ScenarioParser) Validate(file *domain.ScenarioFile) error {
	if len(file.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}
	seen := make(map[string]bool, len(file.Scenarios))
	for i, s := range file.Scenarios {
		if s.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("scenario %d: duplicate name %q", i, s.Name)
		}
		seen[s.Name] = true
		if s.Calculator == "" {
			return fmt.Errorf("scenario %s: calculator is required", s.Name)
		}
		if sp.Known != nil && !sp.Known(s.Calculator) {
			return fmt.Errorf("scenario %s: unknown calculator %q", s.Name, s.Calculator)
		}
	}
	return nil
}
