package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/fiscalgo/internal/domain"
)

// CalculationEngine evaluates calculators and scenario files against one
// set of rate tables.
type CalculationEngine struct {
	Registry *Registry
	Tables   *domain.RateTables
	Logger   Logger
	Debug    bool // log every intermediate value
}

// NewCalculationEngine creates an engine with every built-in calculator
func NewCalculationEngine(tables *domain.RateTables) *CalculationEngine {
	return &CalculationEngine{
		Registry: NewRegistry(tables),
		Tables:   tables,
		Logger:   NopLogger{},
	}
}

// SetLogger replaces the logger; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// Evaluate runs one calculator over raw form values
func (ce *CalculationEngine) Evaluate(name string, raw map[string]string) (*domain.ComputationResult, error) {
	result, err := ce.Registry.Calculate(name, raw)
	if err != nil {
		ce.Logger.Warnf("%s: %v", name, err)
		return nil, err
	}
	ce.Logger.Infof("%s: %s", name, result.Amount.StringFixed(2))
	if ce.Debug {
		for _, v := range result.Values {
			ce.Logger.Debugf("  %s = %s", v.Key, v.Value.String())
		}
	}
	return result, nil
}

// RunScenarios evaluates every scenario of a file in order. Evaluation stops
// at the first failing scenario or when the context is cancelled.
func (ce *CalculationEngine) RunScenarios(ctx context.Context, file *domain.ScenarioFile) ([]*domain.ComputationResult, error) {
	if file == nil {
		return nil, fmt.Errorf("scenario file is nil")
	}
	results := make([]*domain.ComputationResult, 0, len(file.Scenarios))
	for i, sc := range file.Scenarios {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("batch interrupted before scenario %d: %w", i, err)
		}
		ce.Logger.Debugf("scenario %d/%d: %s (%s)", i+1, len(file.Scenarios), sc.Name, sc.Calculator)
		result, err := ce.Evaluate(sc.Calculator, sc.Inputs)
		if err != nil {
			return results, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		result.Scenario = sc.Name
		results = append(results, result)
	}
	return results, nil
}
