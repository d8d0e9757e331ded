package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knownCalculators(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestScenarioParser_LoadFromFile(t *testing.T) {
	content := `
scenarios:
  - name: "Utilitaria"
    calculator: bollo_auto
    inputs:
      kw: 120
      euro_class: euro6
  - name: "Coche Madrid"
    calculator: ivtm
    inputs:
      vehicle_type: turismo
      measure: "11,5"
      municipality: madrid
`
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	parser := NewScenarioParser(knownCalculators("bollo_auto", "ivtm"))
	file, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	require.Len(t, file.Scenarios, 2)
	assert.Equal(t, "Utilitaria", file.Scenarios[0].Name)
	assert.Equal(t, "120", file.Scenarios[0].Inputs["kw"], "numeric YAML scalars decode into raw strings")
	assert.Equal(t, "11,5", file.Scenarios[1].Inputs["measure"])
}

func TestScenarioParser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		file    domain.ScenarioFile
		wantErr string
	}{
		{
			name:    "empty",
			file:    domain.ScenarioFile{},
			wantErr: "no scenarios provided",
		},
		{
			name:    "missing name",
			file:    domain.ScenarioFile{Scenarios: []domain.Scenario{{Calculator: "imu"}}},
			wantErr: "name is required",
		},
		{
			name: "duplicate name",
			file: domain.ScenarioFile{Scenarios: []domain.Scenario{
				{Name: "casa", Calculator: "imu"},
				{Name: "casa", Calculator: "imu"},
			}},
			wantErr: "duplicate name",
		},
		{
			name:    "missing calculator",
			file:    domain.ScenarioFile{Scenarios: []domain.Scenario{{Name: "casa"}}},
			wantErr: "calculator is required",
		},
		{
			name:    "unknown calculator",
			file:    domain.ScenarioFile{Scenarios: []domain.Scenario{{Name: "casa", Calculator: "tasi"}}},
			wantErr: `unknown calculator "tasi"`,
		},
		{
			name: "valid",
			file: domain.ScenarioFile{Scenarios: []domain.Scenario{{Name: "casa", Calculator: "imu"}}},
		},
	}

	parser := NewScenarioParser(knownCalculators("imu"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parser.Validate(&tt.file)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScenarioParser_NilKnownSkipsLookup(t *testing.T) {
	parser := NewScenarioParser(nil)
	err := parser.Validate(&domain.ScenarioFile{Scenarios: []domain.Scenario{{Name: "x", Calculator: "anything"}}})
	assert.NoError(t, err)
}
