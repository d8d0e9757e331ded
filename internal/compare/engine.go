package compare

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/fiscalgo/internal/calculation"
)

// BaseScenarioName labels the unmodified input set
const BaseScenarioName = "base"

// ErrInvalidVariant is returned for unnamed or duplicate variants
var ErrInvalidVariant = errors.New("invalid variant")

// CompareEngine runs one calculator over a base input set and its variants
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// Compare evaluates the base inputs, then every variant as the base inputs
// with the variant's overrides applied.
func (ce *CompareEngine) Compare(
	ctx context.Context,
	calculator string,
	base map[string]string,
	variants []Variant,
) (*ComparisonSet, error) {

	seen := map[string]bool{BaseScenarioName: true}
	for _, v := range variants {
		if v.Name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidVariant)
		}
		if seen[v.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidVariant, v.Name)
		}
		seen[v.Name] = true
	}

	baseRes, err := ce.CalcEngine.Evaluate(calculator, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(BaseScenarioName, baseRes)
	baseRes.Scenario = BaseScenarioName

	alternatives := []ComparisonResult{}
	for _, v := range variants {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("comparison interrupted: %w", err)
		}

		altRes, err := ce.CalcEngine.Evaluate(calculator, mergeInputs(base, v.Inputs))
		if err != nil {
			return nil, fmt.Errorf("failed to calculate variant %s: %w", v.Name, err)
		}
		altRes.Scenario = v.Name

		altResult := ce.MetricsCalculator.CalculateMetrics(v.Name, altRes)
		altResult.Description = v.Description()
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, baseResult)
		alternatives = append(alternatives, altResult)
	}

	compSet := &ComparisonSet{
		Calculator:         calculator,
		BaseScenarioName:   BaseScenarioName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func mergeInputs(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
