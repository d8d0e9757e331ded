package rate

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func amount(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

// shiftFrom drops the brackets below boundary and rebases the rest on it, so
// that evaluating the remainder of a base above boundary is independent.
func shiftFrom(brackets []Bracket, boundary decimal.Decimal) []Bracket {
	var out []Bracket
	for _, b := range brackets {
		if b.Bounded() && b.UpTo.LessThanOrEqual(boundary) {
			continue
		}
		if b.Bounded() {
			out = append(out, UpTo(b.UpTo.Sub(boundary), b.Rate))
		} else {
			out = append(out, Above(b.Rate))
		}
	}
	return out
}

func TestBracketed_PropertyMonotonic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	rule := irpefBrackets()

	properties.Property("more income never yields less tax", prop.ForAll(
		func(a, b float64) bool {
			lo, hi := amount(a), amount(b)
			if lo.GreaterThan(hi) {
				lo, hi = hi, lo
			}
			return rule.Evaluate(lo).LessThanOrEqual(rule.Evaluate(hi))
		},
		gen.Float64Range(-10000, 500000),
		gen.Float64Range(-10000, 500000),
	))

	properties.TestingRun(t)
}

func TestBracketed_PropertyAdditiveAtBoundaries(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	rule := irpefBrackets()

	properties.Property("splitting at a boundary sums to the whole", prop.ForAll(
		func(f float64) bool {
			base := amount(f)
			whole := rule.Evaluate(base)
			for _, b := range rule.Brackets {
				if !b.Bounded() || base.LessThan(*b.UpTo) {
					continue
				}
				lower := rule.Evaluate(*b.UpTo)
				upper := EvaluateBracketed(base.Sub(*b.UpTo), shiftFrom(rule.Brackets, *b.UpTo))
				if !lower.Add(upper).Equal(whole) {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 500000),
	))

	properties.Property("total equals the sum of the breakdown", prop.ForAll(
		func(f float64) bool {
			base := amount(f)
			sum := decimal.Zero
			for _, s := range rule.Breakdown(base) {
				sum = sum.Add(s.Tax)
			}
			return sum.Equal(rule.Evaluate(base))
		},
		gen.Float64Range(0, 500000),
	))

	properties.TestingRun(t)
}

func TestCapped_PropertyConstantOutsideBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	minBase, maxBase := decimal.NewFromInt(18415), decimal.NewFromInt(119650)
	rule := NewCappedProportional(decimal.RequireFromString("0.24"), &minBase, &maxBase)

	properties.Property("constant at or below the minimum", prop.ForAll(
		func(f float64) bool {
			return rule.Evaluate(amount(f)).Equal(rule.Evaluate(minBase))
		},
		gen.Float64Range(-50000, 18415),
	))

	properties.Property("constant at or above the maximum", prop.ForAll(
		func(f float64) bool {
			return rule.Evaluate(amount(f)).Equal(rule.Evaluate(maxBase))
		},
		gen.Float64Range(119650, 1e7),
	))

	properties.Property("linear in between", prop.ForAll(
		func(f float64) bool {
			base := amount(f)
			return rule.Evaluate(base).Equal(base.Mul(rule.Rate))
		},
		gen.Float64Range(18415, 119650),
	))

	properties.TestingRun(t)
}

func TestRules_PropertyIdempotentAndZeroFloored(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	rules := []Rule{
		NewFlat(decimal.RequireFromString("0.15")),
		irpefBrackets(),
		NewCappedProportional(decimal.RequireFromString("0.2607"), nil, Dec(decimal.NewFromInt(119650))),
	}

	properties.Property("repeated evaluation yields identical results", prop.ForAll(
		func(f float64) bool {
			base := amount(f)
			for _, r := range rules {
				if !r.Evaluate(base).Equal(r.Evaluate(base)) {
					return false
				}
			}
			return true
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.Property("gross minus deductions below zero never yields negative tax", prop.ForAll(
		func(gross, deductions float64) bool {
			base := amount(gross).Sub(amount(deductions))
			for _, r := range rules {
				if r.Evaluate(base).IsNegative() {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 50000),
		gen.Float64Range(50000, 100000),
	))

	properties.TestingRun(t)
}
