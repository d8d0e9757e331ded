package domain

import (
	"github.com/rgehrsitz/fiscalgo/internal/rate"
	"github.com/shopspring/decimal"
)

// RateTables contains every jurisdiction constant used by the calculators.
// It is loaded once at startup (embedded defaults, optionally overridden by a
// YAML file) and never mutated afterwards.
type RateTables struct {
	Metadata    TablesMetadata   `yaml:"metadata" json:"metadata"`
	BolloAuto   BolloAutoTable   `yaml:"bollo_auto" json:"bollo_auto"`
	Superbollo  SuperbolloTable  `yaml:"superbollo" json:"superbollo"`
	IPT         IPTTable         `yaml:"ipt" json:"ipt"`
	IRPEF       IRPEFTable       `yaml:"irpef" json:"irpef"`
	INPS        INPSTable        `yaml:"inps" json:"inps"`
	Enasarco    EnasarcoTable    `yaml:"enasarco" json:"enasarco"`
	Forfettario ForfettarioTable `yaml:"forfettario" json:"forfettario"`
	IMU         IMUTable         `yaml:"imu" json:"imu"`
	Previdenza  PrevidenzaTable  `yaml:"previdenza" json:"previdenza"`
	IVTM        IVTMTable        `yaml:"ivtm" json:"ivtm"`
	IRPF        IRPFTable        `yaml:"irpf" json:"irpf"`
}

// TablesMetadata describes where the constants come from
type TablesMetadata struct {
	DataYear    int    `yaml:"data_year" json:"data_year"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
	Description string `yaml:"description" json:"description"`
}

// BracketSpec is the YAML form of rate.Bracket; a missing up_to marks the
// final unbounded bracket.
type BracketSpec struct {
	UpTo *decimal.Decimal `yaml:"up_to,omitempty" json:"up_to,omitempty"`
	Rate decimal.Decimal  `yaml:"rate" json:"rate"`
}

// BracketTable is an ordered list of bracket specs
type BracketTable []BracketSpec

// Brackets converts the specs without validating them
func (t BracketTable) Brackets() []rate.Bracket {
	out := make([]rate.Bracket, 0, len(t))
	for _, b := range t {
		out = append(out, rate.Bracket{UpTo: b.UpTo, Rate: b.Rate})
	}
	return out
}

// Rule builds the progressive rule. It panics on an invalid table, so
// tables read from files must go through config validation first.
func (t BracketTable) Rule() rate.Bracketed {
	return rate.NewBracketed(t.Brackets()...)
}

// TierSpec is the YAML form of rate.Tier
type TierSpec struct {
	Max    *decimal.Decimal `yaml:"max,omitempty" json:"max,omitempty"`
	Amount decimal.Decimal  `yaml:"amount" json:"amount"`
}

// TierList is an ordered list of tier specs
type TierList []TierSpec

// Tiers converts the specs without validating them
func (l TierList) Tiers() []rate.Tier {
	out := make([]rate.Tier, 0, len(l))
	for _, t := range l {
		out = append(out, rate.Tier{Max: t.Max, Amount: t.Amount})
	}
	return out
}

// Table builds the tier table, panicking on an invalid list
func (l TierList) Table() rate.TierTable {
	return rate.NewTierTable(l.Tiers()...)
}

// StepSpec is the YAML form of rate.Step
type StepSpec struct {
	Years decimal.Decimal `yaml:"years" json:"years"`
	Value decimal.Decimal `yaml:"value" json:"value"`
}

// StepList is an ordered list of step specs
type StepList []StepSpec

// Steps converts the specs without validating them
func (l StepList) Steps() []rate.Step {
	out := make([]rate.Step, 0, len(l))
	for _, s := range l {
		out = append(out, rate.Step{Threshold: s.Years, Value: s.Value})
	}
	return out
}

// Schedule builds the schedule, panicking on an invalid list
func (l StepList) Schedule() rate.Schedule {
	return rate.NewSchedule(l.Steps()...)
}

// BolloAutoTable holds the regional vehicle tax tariff per kW by euro class
type BolloAutoTable struct {
	ThresholdKW decimal.Decimal       `yaml:"threshold_kw" json:"threshold_kw"`
	Classes     map[string]BolloClass `yaml:"classes" json:"classes"`
}

// BolloClass is the per-kW tariff of one emission class
type BolloClass struct {
	Label          string          `yaml:"label" json:"label"`
	UpToThreshold  decimal.Decimal `yaml:"up_to_threshold" json:"up_to_threshold"`
	AboveThreshold decimal.Decimal `yaml:"above_threshold" json:"above_threshold"`
}

// Rule expresses the class tariff as a two-bracket rule over kW
func (c BolloClass) Rule(thresholdKW decimal.Decimal) rate.Bracketed {
	return rate.NewBracketed(rate.UpTo(thresholdKW, c.UpToThreshold), rate.Above(c.AboveThreshold))
}

// SuperbolloTable holds the high-power vehicle surcharge
type SuperbolloTable struct {
	ThresholdKW    decimal.Decimal `yaml:"threshold_kw" json:"threshold_kw"`
	PerKW          decimal.Decimal `yaml:"per_kw" json:"per_kw"`
	AgeMultipliers StepList        `yaml:"age_multipliers" json:"age_multipliers"`
}

// IPTTable holds the provincial registration tax tariff
type IPTTable struct {
	BaseFee      decimal.Decimal     `yaml:"base_fee" json:"base_fee"`
	BaseFeeMaxKW decimal.Decimal     `yaml:"base_fee_max_kw" json:"base_fee_max_kw"`
	PerKW        decimal.Decimal     `yaml:"per_kw" json:"per_kw"`
	Provinces    map[string]Province `yaml:"provinces" json:"provinces"`
}

// Province carries the provincial surcharge over the national tariff
type Province struct {
	Label     string          `yaml:"label" json:"label"`
	Surcharge decimal.Decimal `yaml:"surcharge" json:"surcharge"`
}

// IRPEFTable holds the Italian personal income tax parameters
type IRPEFTable struct {
	Brackets           BracketTable        `yaml:"brackets" json:"brackets"`
	RegionalSurcharge  decimal.Decimal     `yaml:"regional_surcharge" json:"regional_surcharge"`
	MunicipalSurcharge decimal.Decimal     `yaml:"municipal_surcharge" json:"municipal_surcharge"`
	EmployeeCredit     EmployeeCreditTable `yaml:"employee_credit" json:"employee_credit"`
}

// EmployeeCreditTable is the employment income tax credit (detrazione per
// lavoro dipendente), piecewise linear in income.
type EmployeeCreditTable struct {
	FullUpTo   decimal.Decimal `yaml:"full_up_to" json:"full_up_to"`
	FullAmount decimal.Decimal `yaml:"full_amount" json:"full_amount"`
	MidUpTo    decimal.Decimal `yaml:"mid_up_to" json:"mid_up_to"`
	MidBase    decimal.Decimal `yaml:"mid_base" json:"mid_base"`
	MidExtra   decimal.Decimal `yaml:"mid_extra" json:"mid_extra"`
	ZeroAt     decimal.Decimal `yaml:"zero_at" json:"zero_at"`
}

// INPSTable holds the social-security funds
type INPSTable struct {
	Gestioni map[string]Gestione `yaml:"gestioni" json:"gestioni"`
}

// Gestione is one INPS fund with its rate, minimale and massimale
type Gestione struct {
	Label   string           `yaml:"label" json:"label"`
	Rate    decimal.Decimal  `yaml:"rate" json:"rate"`
	MinBase *decimal.Decimal `yaml:"min_base,omitempty" json:"min_base,omitempty"`
	MaxBase *decimal.Decimal `yaml:"max_base,omitempty" json:"max_base,omitempty"`
}

// Rule builds the capped contribution rule
func (g Gestione) Rule() rate.CappedProportional {
	return rate.NewCappedProportional(g.Rate, g.MinBase, g.MaxBase)
}

// EnasarcoTable holds the commercial-agent pension contribution
type EnasarcoTable struct {
	Rate       decimal.Decimal    `yaml:"rate" json:"rate"`
	AgentShare decimal.Decimal    `yaml:"agent_share" json:"agent_share"`
	Mandates   map[string]Mandate `yaml:"mandates" json:"mandates"`
}

// Mandate is the single- or multi-principal ceiling and minimum
type Mandate struct {
	Label           string          `yaml:"label" json:"label"`
	MaxBase         decimal.Decimal `yaml:"max_base" json:"max_base"`
	MinContribution decimal.Decimal `yaml:"min_contribution" json:"min_contribution"`
}

// ForfettarioTable holds the flat-rate regime parameters
type ForfettarioTable struct {
	SubstituteRate decimal.Decimal     `yaml:"substitute_rate" json:"substitute_rate"`
	StartupRate    decimal.Decimal     `yaml:"startup_rate" json:"startup_rate"`
	RevenueLimit   decimal.Decimal     `yaml:"revenue_limit" json:"revenue_limit"`
	Activities     map[string]Activity `yaml:"activities" json:"activities"`
}

// Activity is an ATECO group with its profitability coefficient
type Activity struct {
	Label       string          `yaml:"label" json:"label"`
	Coefficient decimal.Decimal `yaml:"coefficient" json:"coefficient"`
	Gestione    string          `yaml:"gestione" json:"gestione"`
}

// IMUTable holds the municipal property tax parameters
type IMUTable struct {
	Revaluation         decimal.Decimal     `yaml:"revaluation" json:"revaluation"`
	DefaultRatePerMille decimal.Decimal     `yaml:"default_rate_per_mille" json:"default_rate_per_mille"`
	Categories          map[string]Category `yaml:"categories" json:"categories"`
}

// Category is a cadastral category group with its multiplier
type Category struct {
	Label       string          `yaml:"label" json:"label"`
	Coefficient decimal.Decimal `yaml:"coefficient" json:"coefficient"`
}

// PrevidenzaTable holds the supplementary-pension benefit tax
type PrevidenzaTable struct {
	BaseRate            decimal.Decimal `yaml:"base_rate" json:"base_rate"`
	FloorRate           decimal.Decimal `yaml:"floor_rate" json:"floor_rate"`
	ReductionStartYears int             `yaml:"reduction_start_years" json:"reduction_start_years"`
	ReductionPerYear    decimal.Decimal `yaml:"reduction_per_year" json:"reduction_per_year"`
}

// MaxReductionSteps bounds the years a previdenza reduction may take to
// reach the floor rate
const MaxReductionSteps = 100

// ReductionSteps returns how many yearly reductions lead from BaseRate to
// FloorRate; zero when there is no reduction.
func (p PrevidenzaTable) ReductionSteps() int64 {
	if !p.ReductionPerYear.IsPositive() || !p.BaseRate.GreaterThan(p.FloorRate) {
		return 0
	}
	steps := p.BaseRate.Sub(p.FloorRate).Div(p.ReductionPerYear).Ceil()
	if steps.GreaterThan(decimal.NewFromInt(MaxReductionSteps)) {
		return MaxReductionSteps + 1
	}
	return steps.IntPart()
}

// Schedule expands the yearly reduction into a vintage-keyed rate schedule:
// BaseRate up to ReductionStartYears, then ReductionPerYear less per extra
// year of participation down to FloorRate.
func (p PrevidenzaTable) Schedule() rate.Schedule {
	steps := []rate.Step{{Threshold: decimal.Zero, Value: p.BaseRate}}
	if !p.ReductionPerYear.IsPositive() {
		return rate.NewSchedule(steps...)
	}
	current := p.BaseRate
	year := p.ReductionStartYears + 1
	for n := 0; current.GreaterThan(p.FloorRate); n++ {
		if n == MaxReductionSteps {
			// a reduction too small to matter ends at the floor
			current = p.FloorRate
		} else {
			current = decimal.Max(p.FloorRate, current.Sub(p.ReductionPerYear))
		}
		steps = append(steps, rate.Step{Threshold: decimal.NewFromInt(int64(year)), Value: current})
		year++
	}
	return rate.NewSchedule(steps...)
}

// IVTMTable holds the Spanish municipal vehicle tax
type IVTMTable struct {
	MaxCoefficient decimal.Decimal         `yaml:"max_coefficient" json:"max_coefficient"`
	VehicleTypes   map[string]VehicleType  `yaml:"vehicle_types" json:"vehicle_types"`
	Municipalities map[string]Municipality `yaml:"municipalities" json:"municipalities"`
}

// VehicleType is a national base tariff keyed on one measure
type VehicleType struct {
	Label   string   `yaml:"label" json:"label"`
	Measure string   `yaml:"measure" json:"measure"`
	Tiers   TierList `yaml:"tiers" json:"tiers"`
}

// Municipality carries the municipal multiplier over the base tariff
type Municipality struct {
	Label       string          `yaml:"label" json:"label"`
	Coefficient decimal.Decimal `yaml:"coefficient" json:"coefficient"`
}

// IRPFTable holds the Spanish personal income tax general scale
type IRPFTable struct {
	Brackets        BracketTable    `yaml:"brackets" json:"brackets"`
	PersonalMinimum decimal.Decimal `yaml:"personal_minimum" json:"personal_minimum"`
	Over65Increase  decimal.Decimal `yaml:"over_65_increase" json:"over_65_increase"`
	Over75Increase  decimal.Decimal `yaml:"over_75_increase" json:"over_75_increase"`
}
