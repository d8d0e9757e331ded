// Package rate holds the progressive tax/contribution evaluator shared by every
// calculator. All functions are pure: no I/O, no hidden state, decimal
// arithmetic throughout.
package rate

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind identifies the variant of a Rule
type Kind int

const (
	KindFlat Kind = iota
	KindBracketed
	KindCappedProportional
)

func (k Kind) String() string {
	switch k {
	case KindFlat:
		return "flat"
	case KindBracketed:
		return "bracketed"
	case KindCappedProportional:
		return "capped_proportional"
	default:
		return "unknown"
	}
}

// Rule describes how a base amount is taxed. The set of implementations is
// closed: Flat, Bracketed and CappedProportional.
type Rule interface {
	Kind() Kind
	Evaluate(base decimal.Decimal) decimal.Decimal
	isRule()
}

// ZeroFloor returns amount, or zero when amount is negative.
// A loss year produces zero tax, never negative tax.
func ZeroFloor(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// Clamp bounds v into [lo, hi]. A nil bound is open.
func Clamp(v decimal.Decimal, lo, hi *decimal.Decimal) decimal.Decimal {
	if lo != nil && v.LessThan(*lo) {
		v = *lo
	}
	if hi != nil && v.GreaterThan(*hi) {
		v = *hi
	}
	return v
}

// Flat taxes the whole base at a single rate
type Flat struct {
	Rate decimal.Decimal
}

// NewFlat creates a flat rule. It panics on a negative rate.
func NewFlat(r decimal.Decimal) Flat {
	if err := validateRate(r); err != nil {
		panic(fmt.Sprintf("rate: invalid flat rule: %v", err))
	}
	return Flat{Rate: r}
}

func (Flat) Kind() Kind { return KindFlat }
func (Flat) isRule()    {}

// Evaluate applies the flat rate to the zero-floored base
func (f Flat) Evaluate(base decimal.Decimal) decimal.Decimal {
	return EvaluateFlat(base, f.Rate)
}

// EvaluateFlat returns max(0, base) * rate
func EvaluateFlat(base, r decimal.Decimal) decimal.Decimal {
	return ZeroFloor(base).Mul(r)
}

// CappedProportional applies Rate to the base after clamping it into
// [MinBase, MaxBase]. Used for contribution floors and ceilings.
type CappedProportional struct {
	Rate    decimal.Decimal
	MinBase *decimal.Decimal
	MaxBase *decimal.Decimal
}

// NewCappedProportional creates a capped rule. Either bound may be nil.
// It panics on a negative rate or bound, or when MinBase exceeds MaxBase.
func NewCappedProportional(r decimal.Decimal, minBase, maxBase *decimal.Decimal) CappedProportional {
	if err := ValidateCapped(r, minBase, maxBase); err != nil {
		panic(fmt.Sprintf("rate: invalid capped rule: %v", err))
	}
	return CappedProportional{Rate: r, MinBase: minBase, MaxBase: maxBase}
}

func (CappedProportional) Kind() Kind { return KindCappedProportional }
func (CappedProportional) isRule()    {}

// Evaluate clamps the base and applies the rate
func (c CappedProportional) Evaluate(base decimal.Decimal) decimal.Decimal {
	return EvaluateCappedProportional(base, c.Rate, c.MinBase, c.MaxBase)
}

// ClampedBase returns the base the rate is actually applied to
func (c CappedProportional) ClampedBase(base decimal.Decimal) decimal.Decimal {
	return Clamp(ZeroFloor(base), c.MinBase, c.MaxBase)
}

// EvaluateCappedProportional returns clamp(max(0, base), minBase, maxBase) * rate
func EvaluateCappedProportional(base, r decimal.Decimal, minBase, maxBase *decimal.Decimal) decimal.Decimal {
	return Clamp(ZeroFloor(base), minBase, maxBase).Mul(r)
}

// Dec returns a pointer to d, for optional bounds
func Dec(d decimal.Decimal) *decimal.Decimal {
	return &d
}
