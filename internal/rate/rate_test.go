package rate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func irpefBrackets() Bracketed {
	return NewBracketed(
		UpTo(d("28000"), d("0.23")),
		UpTo(d("50000"), d("0.35")),
		Above(d("0.43")),
	)
}

func TestEvaluateFlat(t *testing.T) {
	tests := []struct {
		name     string
		base     decimal.Decimal
		rate     decimal.Decimal
		expected decimal.Decimal
	}{
		{"positive base", d("1000"), d("0.15"), d("150")},
		{"zero base", decimal.Zero, d("0.15"), decimal.Zero},
		{"negative base floors to zero", d("-500"), d("0.15"), decimal.Zero},
		{"zero rate", d("1000"), decimal.Zero, decimal.Zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateFlat(tt.base, tt.rate)
			assert.True(t, tt.expected.Equal(got), "EvaluateFlat() = %s, expected %s", got, tt.expected)
		})
	}
}

func TestEvaluateBracketed(t *testing.T) {
	rule := irpefBrackets()
	tests := []struct {
		name     string
		base     decimal.Decimal
		expected decimal.Decimal
	}{
		{"zero", decimal.Zero, decimal.Zero},
		{"negative", d("-10000"), decimal.Zero},
		{"inside first bracket", d("10000"), d("2300")},
		{"exactly on first boundary", d("28000"), d("6440")},
		{"one euro over first boundary", d("28001"), d("6440.35")},
		{"exactly on second boundary", d("50000"), d("14140")},
		{"top bracket", d("60000"), d("18440")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rule.Evaluate(tt.base)
			assert.True(t, tt.expected.Equal(got), "Evaluate(%s) = %s, expected %s", tt.base, got, tt.expected)
		})
	}
}

func TestBracketBreakdown(t *testing.T) {
	slices := irpefBrackets().Breakdown(d("60000"))
	require.Len(t, slices, 3)

	assert.True(t, slices[0].Amount.Equal(d("28000")))
	assert.True(t, slices[1].Amount.Equal(d("22000")))
	assert.True(t, slices[2].Amount.Equal(d("10000")))
	assert.Nil(t, slices[2].To)

	total := decimal.Zero
	for _, s := range slices {
		total = total.Add(s.Tax)
	}
	assert.True(t, total.Equal(d("18440")))

	assert.Empty(t, irpefBrackets().Breakdown(decimal.Zero))
}

func TestMarginalRate(t *testing.T) {
	rule := irpefBrackets()
	assert.True(t, rule.MarginalRate(d("28000")).Equal(d("0.23")), "boundary belongs to the lower bracket")
	assert.True(t, rule.MarginalRate(d("28000.01")).Equal(d("0.35")))
	assert.True(t, rule.MarginalRate(d("1000000")).Equal(d("0.43")))
}

func TestEvaluateCappedProportional(t *testing.T) {
	minBase := d("18415")
	maxBase := d("119650")
	tests := []struct {
		name     string
		base     decimal.Decimal
		expected decimal.Decimal
	}{
		{"below minimum", d("5000"), d("4419.6")},
		{"negative base pays minimum", d("-100"), d("4419.6")},
		{"between", d("50000"), d("12000")},
		{"above maximum", d("200000"), d("28716")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateCappedProportional(tt.base, d("0.24"), &minBase, &maxBase)
			assert.True(t, tt.expected.Equal(got), "got %s, expected %s", got, tt.expected)
		})
	}

	open := NewCappedProportional(d("0.10"), nil, nil)
	assert.True(t, open.Evaluate(d("1000")).Equal(d("100")))
	assert.True(t, open.ClampedBase(d("-1")).IsZero())
}

func TestRuleKinds(t *testing.T) {
	rules := []Rule{
		NewFlat(d("0.1")),
		irpefBrackets(),
		NewCappedProportional(d("0.1"), nil, Dec(d("100"))),
	}
	kinds := []Kind{KindFlat, KindBracketed, KindCappedProportional}
	for i, r := range rules {
		assert.Equal(t, kinds[i], r.Kind())
		assert.NotEqual(t, "unknown", r.Kind().String())
	}
}

func TestConstructorsPanicOnBrokenTables(t *testing.T) {
	assert.Panics(t, func() { NewBracketed() }, "empty table")
	assert.Panics(t, func() {
		NewBracketed(UpTo(d("100"), d("0.1")), UpTo(d("200"), d("0.2")))
	}, "missing catch-all")
	assert.Panics(t, func() {
		NewBracketed(UpTo(d("200"), d("0.1")), UpTo(d("100"), d("0.2")), Above(d("0.3")))
	}, "decreasing limits")
	assert.Panics(t, func() {
		NewBracketed(Above(d("0.1")), Above(d("0.2")))
	}, "unbounded in the middle")
	assert.Panics(t, func() { NewBracketed(Above(d("-0.1"))) }, "negative rate")
	assert.Panics(t, func() { NewFlat(d("-0.01")) })
	assert.Panics(t, func() { NewCappedProportional(d("0.1"), Dec(d("10")), Dec(d("5"))) })
	assert.Panics(t, func() { NewSchedule() })
	assert.Panics(t, func() { NewSchedule(Step{Threshold: d("1"), Value: d("1")}) })
	assert.Panics(t, func() { NewTierTable(Tier{Max: Dec(d("5")), Amount: d("1")}) })

	assert.NotPanics(t, func() { NewBracketed(Above(d("0.2"))) })
}

func TestValidateBracketsErrors(t *testing.T) {
	err := ValidateBrackets([]Bracket{UpTo(d("100"), d("0.1"))})
	assert.ErrorIs(t, err, ErrMissingCatchAll)

	err = ValidateBrackets(nil)
	assert.ErrorIs(t, err, ErrEmptyTable)

	err = ValidateBrackets([]Bracket{UpTo(d("100"), d("0.1")), UpTo(d("100"), d("0.2")), Above(d("0.3"))})
	assert.ErrorIs(t, err, ErrNotIncreasing)
}

func TestScheduleLookup(t *testing.T) {
	superbollo := NewSchedule(
		Step{Threshold: d("0"), Value: d("1")},
		Step{Threshold: d("5"), Value: d("0.6")},
		Step{Threshold: d("10"), Value: d("0.3")},
		Step{Threshold: d("15"), Value: d("0.15")},
		Step{Threshold: d("20"), Value: d("0")},
	)
	tests := []struct {
		years    int
		expected string
	}{
		{0, "1"},
		{4, "1"},
		{5, "0.6"},
		{6, "0.6"},
		{10, "0.3"},
		{19, "0.15"},
		{20, "0"},
		{40, "0"},
		{-3, "1"},
	}
	for _, tt := range tests {
		got := superbollo.LookupYears(tt.years)
		assert.True(t, d(tt.expected).Equal(got), "years=%d: got %s, expected %s", tt.years, got, tt.expected)
	}
}

func TestTierTableLookupUsesInclusiveUpperBound(t *testing.T) {
	turismo := NewTierTable(
		Tier{Max: Dec(d("7.99")), Amount: d("12.62")},
		Tier{Max: Dec(d("11.99")), Amount: d("34.08")},
		Tier{Max: Dec(d("15.99")), Amount: d("71.94")},
		Tier{Max: Dec(d("19.99")), Amount: d("89.61")},
		Tier{Amount: d("112.00")},
	)
	assert.True(t, turismo.Lookup(d("11.5")).Equal(d("34.08")))
	assert.True(t, turismo.Lookup(d("11.99")).Equal(d("34.08")), "boundary is inclusive")
	assert.True(t, turismo.Lookup(d("12")).Equal(d("71.94")))
	assert.True(t, turismo.Lookup(d("25")).Equal(d("112")))
	assert.True(t, turismo.Lookup(d("-1")).Equal(d("12.62")))
}

func TestZeroFloorAndClamp(t *testing.T) {
	assert.True(t, ZeroFloor(d("-0.01")).IsZero())
	assert.True(t, ZeroFloor(d("3")).Equal(d("3")))
	assert.True(t, Clamp(d("5"), Dec(d("10")), nil).Equal(d("10")))
	assert.True(t, Clamp(d("50"), nil, Dec(d("10"))).Equal(d("10")))
	assert.True(t, Clamp(d("7"), nil, nil).Equal(d("7")))
}
