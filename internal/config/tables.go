package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"github.com/rgehrsitz/fiscalgo/internal/rate"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultTables []byte

// TablesLoader loads and validates rate tables
type TablesLoader struct{}

// NewTablesLoader creates a new tables loader
func NewTablesLoader() *TablesLoader {
	return &TablesLoader{}
}

// LoadDefault returns the embedded rate tables
func (tl *TablesLoader) LoadDefault() (*domain.RateTables, error) {
	var tables domain.RateTables
	if err := yaml.Unmarshal(defaultTables, &tables); err != nil {
		return nil, fmt.Errorf("failed to parse embedded tables: %w", err)
	}
	if err := tl.ValidateTables(&tables); err != nil {
		return nil, fmt.Errorf("embedded tables are invalid: %w", err)
	}
	return &tables, nil
}

// LoadFromFile loads the embedded defaults and overlays the YAML file on
// top of them. Keys missing from the file keep their default value.
func (tl *TablesLoader) LoadFromFile(filename string) (*domain.RateTables, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return tl.LoadFromBytes(data)
}

// LoadFromBytes is LoadFromFile for in-memory YAML
func (tl *TablesLoader) LoadFromBytes(data []byte) (*domain.RateTables, error) {
	var tables domain.RateTables
	if err := yaml.Unmarshal(defaultTables, &tables); err != nil {
		return nil, fmt.Errorf("failed to parse embedded tables: %w", err)
	}
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := tl.ValidateTables(&tables); err != nil {
		return nil, fmt.Errorf("rate table validation failed: %w", err)
	}
	return &tables, nil
}

// Load picks the file when a path is given, the defaults otherwise
func (tl *TablesLoader) Load(filename string) (*domain.RateTables, error) {
	if filename == "" {
		return tl.LoadDefault()
	}
	return tl.LoadFromFile(filename)
}

// ValidateTables checks every table invariant so that building rules from
// validated tables can never panic.
func (tl *TablesLoader) ValidateTables(t *domain.RateTables) error {
	if err := tl.validateVehicleTables(t); err != nil {
		return err
	}
	if err := tl.validateIncomeTables(t); err != nil {
		return err
	}
	if err := tl.validatePropertyTables(t); err != nil {
		return err
	}
	return tl.validateSpanishTables(t)
}

func (tl *TablesLoader) validateVehicleTables(t *domain.RateTables) error {
	if !t.BolloAuto.ThresholdKW.IsPositive() {
		return fmt.Errorf("bollo_auto: threshold_kw must be positive")
	}
	if len(t.BolloAuto.Classes) == 0 {
		return fmt.Errorf("bollo_auto: at least one emission class is required")
	}
	for _, name := range sortedKeys(t.BolloAuto.Classes) {
		c := t.BolloAuto.Classes[name]
		if err := rate.ValidateRate(c.UpToThreshold); err != nil {
			return fmt.Errorf("bollo_auto class %s: %w", name, err)
		}
		if err := rate.ValidateRate(c.AboveThreshold); err != nil {
			return fmt.Errorf("bollo_auto class %s: %w", name, err)
		}
	}

	if t.Superbollo.ThresholdKW.IsNegative() {
		return fmt.Errorf("superbollo: threshold_kw cannot be negative")
	}
	if err := rate.ValidateRate(t.Superbollo.PerKW); err != nil {
		return fmt.Errorf("superbollo per_kw: %w", err)
	}
	if err := rate.ValidateSchedule(t.Superbollo.AgeMultipliers.Steps()); err != nil {
		return fmt.Errorf("superbollo age_multipliers: %w", err)
	}

	if t.IPT.BaseFee.IsNegative() || t.IPT.PerKW.IsNegative() || t.IPT.BaseFeeMaxKW.IsNegative() {
		return fmt.Errorf("ipt: tariff values cannot be negative")
	}
	if len(t.IPT.Provinces) == 0 {
		return fmt.Errorf("ipt: at least one province is required")
	}
	for _, name := range sortedKeys(t.IPT.Provinces) {
		if t.IPT.Provinces[name].Surcharge.IsNegative() {
			return fmt.Errorf("ipt province %s: surcharge cannot be negative", name)
		}
	}
	return nil
}

func (tl *TablesLoader) validateIncomeTables(t *domain.RateTables) error {
	if err := rate.ValidateBrackets(t.IRPEF.Brackets.Brackets()); err != nil {
		return fmt.Errorf("irpef brackets: %w", err)
	}
	if err := rate.ValidateRate(t.IRPEF.RegionalSurcharge); err != nil {
		return fmt.Errorf("irpef regional_surcharge: %w", err)
	}
	if err := rate.ValidateRate(t.IRPEF.MunicipalSurcharge); err != nil {
		return fmt.Errorf("irpef municipal_surcharge: %w", err)
	}
	ec := t.IRPEF.EmployeeCredit
	if !(ec.FullUpTo.LessThan(ec.MidUpTo) && ec.MidUpTo.LessThan(ec.ZeroAt)) {
		return fmt.Errorf("irpef employee_credit: thresholds must satisfy full_up_to < mid_up_to < zero_at")
	}

	if len(t.INPS.Gestioni) == 0 {
		return fmt.Errorf("inps: at least one gestione is required")
	}
	for _, name := range sortedKeys(t.INPS.Gestioni) {
		g := t.INPS.Gestioni[name]
		if err := rate.ValidateCapped(g.Rate, g.MinBase, g.MaxBase); err != nil {
			return fmt.Errorf("inps gestione %s: %w", name, err)
		}
	}

	if err := rate.ValidateRate(t.Enasarco.Rate); err != nil {
		return fmt.Errorf("enasarco rate: %w", err)
	}
	if t.Enasarco.AgentShare.IsNegative() || t.Enasarco.AgentShare.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("enasarco agent_share must be between 0 and 1")
	}
	if len(t.Enasarco.Mandates) == 0 {
		return fmt.Errorf("enasarco: at least one mandate type is required")
	}
	for _, name := range sortedKeys(t.Enasarco.Mandates) {
		m := t.Enasarco.Mandates[name]
		if !m.MaxBase.IsPositive() {
			return fmt.Errorf("enasarco mandate %s: max_base must be positive", name)
		}
		if m.MinContribution.IsNegative() {
			return fmt.Errorf("enasarco mandate %s: min_contribution cannot be negative", name)
		}
	}

	f := t.Forfettario
	if err := rate.ValidateRate(f.SubstituteRate); err != nil {
		return fmt.Errorf("forfettario substitute_rate: %w", err)
	}
	if err := rate.ValidateRate(f.StartupRate); err != nil {
		return fmt.Errorf("forfettario startup_rate: %w", err)
	}
	if len(f.Activities) == 0 {
		return fmt.Errorf("forfettario: at least one activity is required")
	}
	for _, name := range sortedKeys(f.Activities) {
		a := f.Activities[name]
		if a.Coefficient.IsNegative() || a.Coefficient.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("forfettario activity %s: coefficient must be between 0 and 1", name)
		}
		if _, ok := t.INPS.Gestioni[a.Gestione]; !ok {
			return fmt.Errorf("forfettario activity %s: unknown gestione %q", name, a.Gestione)
		}
	}

	p := t.Previdenza
	if err := rate.ValidateRate(p.FloorRate); err != nil {
		return fmt.Errorf("previdenza floor_rate: %w", err)
	}
	if p.FloorRate.GreaterThan(p.BaseRate) {
		return fmt.Errorf("previdenza: floor_rate cannot exceed base_rate")
	}
	if p.ReductionStartYears < 0 || p.ReductionPerYear.IsNegative() {
		return fmt.Errorf("previdenza: reduction parameters cannot be negative")
	}
	if p.ReductionSteps() > domain.MaxReductionSteps {
		return fmt.Errorf("previdenza: reduction_per_year %s needs more than %d years to reach floor_rate",
			p.ReductionPerYear, domain.MaxReductionSteps)
	}
	return nil
}

func (tl *TablesLoader) validatePropertyTables(t *domain.RateTables) error {
	if t.IMU.Revaluation.IsNegative() || t.IMU.DefaultRatePerMille.IsNegative() {
		return fmt.Errorf("imu: revaluation and rate cannot be negative")
	}
	if len(t.IMU.Categories) == 0 {
		return fmt.Errorf("imu: at least one cadastral category is required")
	}
	for _, name := range sortedKeys(t.IMU.Categories) {
		if !t.IMU.Categories[name].Coefficient.IsPositive() {
			return fmt.Errorf("imu category %s: coefficient must be positive", name)
		}
	}
	return nil
}

func (tl *TablesLoader) validateSpanishTables(t *domain.RateTables) error {
	if !t.IVTM.MaxCoefficient.IsPositive() {
		return fmt.Errorf("ivtm: max_coefficient must be positive")
	}
	if len(t.IVTM.VehicleTypes) == 0 {
		return fmt.Errorf("ivtm: at least one vehicle type is required")
	}
	for _, name := range sortedKeys(t.IVTM.VehicleTypes) {
		if err := rate.ValidateTiers(t.IVTM.VehicleTypes[name].Tiers.Tiers()); err != nil {
			return fmt.Errorf("ivtm vehicle type %s: %w", name, err)
		}
	}
	if len(t.IVTM.Municipalities) == 0 {
		return fmt.Errorf("ivtm: at least one municipality is required")
	}
	for _, name := range sortedKeys(t.IVTM.Municipalities) {
		c := t.IVTM.Municipalities[name].Coefficient
		if !c.IsPositive() || c.GreaterThan(t.IVTM.MaxCoefficient) {
			return fmt.Errorf("ivtm municipality %s: coefficient must be in (0, %s]", name, t.IVTM.MaxCoefficient)
		}
	}

	if err := rate.ValidateBrackets(t.IRPF.Brackets.Brackets()); err != nil {
		return fmt.Errorf("irpf brackets: %w", err)
	}
	if t.IRPF.PersonalMinimum.IsNegative() || t.IRPF.Over65Increase.IsNegative() || t.IRPF.Over75Increase.IsNegative() {
		return fmt.Errorf("irpf: personal minimum values cannot be negative")
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
