package rate

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Step is one entry of a duration-keyed Schedule
type Step struct {
	Threshold decimal.Decimal // elapsed years at which Value starts applying
	Value     decimal.Decimal // multiplier or rate
}

// Schedule is an ordered list of steps keyed on elapsed time. Lookup picks
// the last step whose threshold the elapsed time meets or exceeds, which
// makes it a bracket evaluator keyed on a duration instead of an amount.
type Schedule struct {
	Steps []Step
}

// NewSchedule creates a schedule. Steps must be non-empty, start at a zero
// threshold, be strictly increasing and carry non-negative values; otherwise
// NewSchedule panics.
func NewSchedule(steps ...Step) Schedule {
	if err := ValidateSchedule(steps); err != nil {
		panic(fmt.Sprintf("rate: invalid schedule: %v", err))
	}
	cp := make([]Step, len(steps))
	copy(cp, steps)
	return Schedule{Steps: cp}
}

// Lookup returns the value for the elapsed time. Negative elapsed time is
// treated as zero.
func (s Schedule) Lookup(elapsed decimal.Decimal) decimal.Decimal {
	elapsed = ZeroFloor(elapsed)
	value := decimal.Zero
	for _, st := range s.Steps {
		if elapsed.LessThan(st.Threshold) {
			break
		}
		value = st.Value
	}
	return value
}

// LookupYears is Lookup for whole years
func (s Schedule) LookupYears(years int) decimal.Decimal {
	return s.Lookup(decimal.NewFromInt(int64(years)))
}
