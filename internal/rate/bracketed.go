package rate

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bracket is one marginal tier. UpTo is inclusive; nil marks the final,
// unbounded bracket.
type Bracket struct {
	UpTo *decimal.Decimal
	Rate decimal.Decimal
}

// UpTo builds a bounded bracket
func UpTo(limit, r decimal.Decimal) Bracket {
	return Bracket{UpTo: &limit, Rate: r}
}

// Above builds the final unbounded bracket
func Above(r decimal.Decimal) Bracket {
	return Bracket{Rate: r}
}

// Bounded reports whether the bracket has an upper limit
func (b Bracket) Bounded() bool { return b.UpTo != nil }

// Bracketed is a progressive marginal rule: each bracket taxes only the
// slice of the base falling within it.
type Bracketed struct {
	Brackets []Bracket
}

// NewBracketed creates a progressive rule. The bracket table must be
// non-empty, strictly increasing in UpTo, end with an unbounded bracket and
// carry non-negative rates; otherwise NewBracketed panics, since a broken
// table is a data-entry bug rather than a user input problem.
func NewBracketed(brackets ...Bracket) Bracketed {
	if err := ValidateBrackets(brackets); err != nil {
		panic(fmt.Sprintf("rate: invalid bracket table: %v", err))
	}
	cp := make([]Bracket, len(brackets))
	copy(cp, brackets)
	return Bracketed{Brackets: cp}
}

func (Bracketed) Kind() Kind { return KindBracketed }
func (Bracketed) isRule()    {}

// Evaluate applies the bracket table to the base
func (b Bracketed) Evaluate(base decimal.Decimal) decimal.Decimal {
	return EvaluateBracketed(base, b.Brackets)
}

// Breakdown returns the per-bracket slices for the base
func (b Bracketed) Breakdown(base decimal.Decimal) []Slice {
	return BracketBreakdown(base, b.Brackets)
}

// MarginalRate returns the rate of the bracket the base falls in
func (b Bracketed) MarginalRate(base decimal.Decimal) decimal.Decimal {
	base = ZeroFloor(base)
	for _, br := range b.Brackets {
		if !br.Bounded() || base.LessThanOrEqual(*br.UpTo) {
			return br.Rate
		}
	}
	return decimal.Zero
}

// Slice is the portion of a base taxed within one bracket
type Slice struct {
	From   decimal.Decimal
	To     *decimal.Decimal
	Amount decimal.Decimal
	Rate   decimal.Decimal
	Tax    decimal.Decimal
}

// EvaluateBracketed sums, over brackets in ascending order, the portion of
// the base within each bracket times its rate.
func EvaluateBracketed(base decimal.Decimal, brackets []Bracket) decimal.Decimal {
	total := decimal.Zero
	for _, s := range BracketBreakdown(base, brackets) {
		total = total.Add(s.Tax)
	}
	return total
}

// BracketBreakdown returns the non-empty slices of base per bracket
func BracketBreakdown(base decimal.Decimal, brackets []Bracket) []Slice {
	base = ZeroFloor(base)
	var slices []Slice
	prev := decimal.Zero
	for _, b := range brackets {
		if base.LessThanOrEqual(prev) {
			break
		}
		top := base
		if b.Bounded() {
			top = decimal.Min(base, *b.UpTo)
		}
		width := ZeroFloor(top.Sub(prev))
		if width.IsPositive() {
			slices = append(slices, Slice{
				From:   prev,
				To:     b.UpTo,
				Amount: width,
				Rate:   b.Rate,
				Tax:    width.Mul(b.Rate),
			})
		}
		if !b.Bounded() {
			break
		}
		prev = *b.UpTo
	}
	return slices
}
