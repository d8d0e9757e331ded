package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Variant is an alternative input set: the base inputs with some keys
// overridden (another municipality, the other regime, ...)
type Variant struct {
	Name   string            `json:"name" yaml:"name"`
	Inputs map[string]string `json:"inputs" yaml:"inputs"`
}

// ParseVariant parses the command-line form "name:key=value,key=value"
func ParseVariant(spec string) (Variant, error) {
	name, rest, ok := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Variant{}, fmt.Errorf("variant %q: expected name:key=value[,key=value...]", spec)
	}
	v := Variant{Name: name, Inputs: map[string]string{}}
	for _, pair := range strings.Split(rest, ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return Variant{}, fmt.Errorf("variant %s: malformed override %q", name, pair)
		}
		v.Inputs[key] = strings.TrimSpace(value)
	}
	if len(v.Inputs) == 0 {
		return Variant{}, fmt.Errorf("variant %s: no overrides given", name)
	}
	return v, nil
}

// Description renders the overrides in key order
func (v Variant) Description() string {
	keys := lo.Keys(v.Inputs)
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+v.Inputs[k])
	}
	return strings.Join(parts, ", ")
}

// ValueDelta is the change of one named intermediate value
type ValueDelta struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Base  decimal.Decimal `json:"base"`
	Value decimal.Decimal `json:"value"`
	Diff  decimal.Decimal `json:"diff"`
}

// ComparisonResult is one evaluated input set with its deltas from the base
type ComparisonResult struct {
	ScenarioName string                    `json:"scenarioName"`
	Description  string                    `json:"description"`
	Result       *domain.ComputationResult `json:"result"`

	Amount decimal.Decimal `json:"amount"`

	// Comparison to Base
	DiffFromBase decimal.Decimal `json:"diffFromBase"`
	PctFromBase  decimal.Decimal `json:"pctFromBase"`
	ValueDeltas  []ValueDelta    `json:"valueDeltas,omitempty"`
}

// ComparisonSet is a base evaluation and its alternatives
type ComparisonSet struct {
	Calculator         string             `json:"calculator"`
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
}

// Results returns the base followed by the alternatives' computation results
func (cs *ComparisonSet) Results() []*domain.ComputationResult {
	out := make([]*domain.ComputationResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil && cs.BaseResult.Result != nil {
		out = append(out, cs.BaseResult.Result)
	}
	for _, alt := range cs.AlternativeResults {
		if alt.Result != nil {
			out = append(out, alt.Result)
		}
	}
	return out
}

// MetricsCalculator derives comparison metrics from computation results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics wraps a computation result for comparison
func (mc *MetricsCalculator) CalculateMetrics(name string, result *domain.ComputationResult) ComparisonResult {
	return ComparisonResult{
		ScenarioName: name,
		Result:       result,
		Amount:       result.Amount,
	}
}

// CalculateComparison computes the deltas of a scenario against the base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.DiffFromBase = scenario.Amount.Sub(base.Amount)
	scenario.PctFromBase = decimal.Zero
	if !base.Amount.IsZero() {
		scenario.PctFromBase = scenario.DiffFromBase.
			Div(base.Amount).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	scenario.ValueDeltas = nil
	if scenario.Result != nil && base.Result != nil {
		for _, v := range scenario.Result.Values {
			b, ok := base.Result.Get(v.Key)
			if !ok || b.Equal(v.Value) {
				continue
			}
			scenario.ValueDeltas = append(scenario.ValueDeltas, ValueDelta{
				Key: v.Key, Label: v.Label, Base: b, Value: v.Value, Diff: v.Value.Sub(b),
			})
		}
	}
	return scenario
}

// GenerateRecommendations names the cheapest and the most expensive input set
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	lowest := compSet.BaseResult
	highest := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.Amount.LessThan(lowest.Amount) {
			lowest = alt
		}
		if alt.Amount.GreaterThan(highest.Amount) {
			highest = alt
		}
	}

	if lowest != compSet.BaseResult {
		saving := compSet.BaseResult.Amount.Sub(lowest.Amount)
		recommendations = append(recommendations,
			"Lowest amount: "+lowest.ScenarioName+" saves €"+saving.StringFixed(2)+" compared to "+compSet.BaseScenarioName)
	}
	if highest != compSet.BaseResult {
		extra := highest.Amount.Sub(compSet.BaseResult.Amount)
		recommendations = append(recommendations,
			"Highest amount: "+highest.ScenarioName+" costs €"+extra.StringFixed(2)+" more than "+compSet.BaseScenarioName)
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "No variant changes the amount owed")
	}

	return recommendations
}
