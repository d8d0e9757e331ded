package rate

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTable       = errors.New("table is empty")
	ErrNotIncreasing    = errors.New("limits must be strictly increasing")
	ErrMissingCatchAll  = errors.New("final entry must be unbounded")
	ErrUnboundedNotLast = errors.New("only the final entry may be unbounded")
	ErrNegativeRate     = errors.New("rate must not be negative")
	ErrNegativeBound    = errors.New("bound must not be negative")
	ErrInvertedBounds   = errors.New("minimum base exceeds maximum base")
	ErrScheduleStart    = errors.New("first threshold must be zero")
)

func validateRate(r decimal.Decimal) error {
	if r.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeRate, r)
	}
	return nil
}

// ValidateBrackets checks the bracket table invariants
func ValidateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return ErrEmptyTable
	}
	prev := decimal.Zero
	for i, b := range brackets {
		if err := validateRate(b.Rate); err != nil {
			return fmt.Errorf("bracket %d: %w", i, err)
		}
		last := i == len(brackets)-1
		if !b.Bounded() {
			if !last {
				return fmt.Errorf("bracket %d: %w", i, ErrUnboundedNotLast)
			}
			continue
		}
		if last {
			return fmt.Errorf("bracket %d: %w", i, ErrMissingCatchAll)
		}
		if !b.UpTo.GreaterThan(prev) {
			return fmt.Errorf("bracket %d (up to %s): %w", i, b.UpTo, ErrNotIncreasing)
		}
		prev = *b.UpTo
	}
	return nil
}

// ValidateTiers checks the tier table invariants
func ValidateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return ErrEmptyTable
	}
	var prev *decimal.Decimal
	for i, t := range tiers {
		if t.Amount.IsNegative() {
			return fmt.Errorf("tier %d: %w", i, ErrNegativeRate)
		}
		last := i == len(tiers)-1
		if t.Max == nil {
			if !last {
				return fmt.Errorf("tier %d: %w", i, ErrUnboundedNotLast)
			}
			continue
		}
		if last {
			return fmt.Errorf("tier %d: %w", i, ErrMissingCatchAll)
		}
		if t.Max.IsNegative() {
			return fmt.Errorf("tier %d: %w", i, ErrNegativeBound)
		}
		if prev != nil && !t.Max.GreaterThan(*prev) {
			return fmt.Errorf("tier %d (max %s): %w", i, t.Max, ErrNotIncreasing)
		}
		prev = t.Max
	}
	return nil
}

// ValidateSchedule checks the schedule invariants
func ValidateSchedule(steps []Step) error {
	if len(steps) == 0 {
		return ErrEmptyTable
	}
	if !steps[0].Threshold.IsZero() {
		return ErrScheduleStart
	}
	for i, st := range steps {
		if err := validateRate(st.Value); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if i > 0 && !st.Threshold.GreaterThan(steps[i-1].Threshold) {
			return fmt.Errorf("step %d (threshold %s): %w", i, st.Threshold, ErrNotIncreasing)
		}
	}
	return nil
}

// ValidateCapped checks a capped-proportional rule
func ValidateCapped(r decimal.Decimal, minBase, maxBase *decimal.Decimal) error {
	if err := validateRate(r); err != nil {
		return err
	}
	if minBase != nil && minBase.IsNegative() {
		return fmt.Errorf("minimum: %w", ErrNegativeBound)
	}
	if maxBase != nil && maxBase.IsNegative() {
		return fmt.Errorf("maximum: %w", ErrNegativeBound)
	}
	if minBase != nil && maxBase != nil && minBase.GreaterThan(*maxBase) {
		return ErrInvertedBounds
	}
	return nil
}

// ValidateRate checks a single flat rate
func ValidateRate(r decimal.Decimal) error {
	return validateRate(r)
}
