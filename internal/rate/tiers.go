package rate

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tier maps a measure (fiscal horsepower, seats, payload...) up to and
// including Max onto a fixed Amount. A nil Max is the final catch-all tier.
type Tier struct {
	Max    *decimal.Decimal
	Amount decimal.Decimal
}

// TierTable is a fixed-fee lookup table with "less than or equal" upper
// bounds, e.g. the IVTM national tariff.
type TierTable struct {
	Tiers []Tier
}

// NewTierTable creates a tier table with the same invariants as a bracket
// table: non-empty, strictly increasing Max, unbounded last tier,
// non-negative amounts. It panics otherwise.
func NewTierTable(tiers ...Tier) TierTable {
	if err := ValidateTiers(tiers); err != nil {
		panic(fmt.Sprintf("rate: invalid tier table: %v", err))
	}
	cp := make([]Tier, len(tiers))
	copy(cp, tiers)
	return TierTable{Tiers: cp}
}

// Lookup returns the amount of the first tier with measure <= Max
func (t TierTable) Lookup(measure decimal.Decimal) decimal.Decimal {
	measure = ZeroFloor(measure)
	for _, tier := range t.Tiers {
		if tier.Max == nil || measure.LessThanOrEqual(*tier.Max) {
			return tier.Amount
		}
	}
	return decimal.Zero
}
