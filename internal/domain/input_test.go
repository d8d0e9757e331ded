package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"1234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"1.234.567", "1234567"},
		{"30.000", "30000"},
		{"1.500", "1500"},
		{"120.000", "120000"},
		{"-30.000", "-30000"},
		{"1.5", "1.5"},
		{"0.500", "0.5"},
		{"1234.567", "1234.567"},
		{"30.00", "30"},
		{"1,5", "1.5"},
		{"1,500", "1.5"},
		{"1,234,567", "1234567"},
		{"€ 30.000,00", "30000"},
		{"22%", "22"},
		{"1'000", "1000"},
		{"1 000,50", "1000.5"},
		{"  42  ", "42"},
		{"-15", "-15"},
		{"", "0"},
		{"abc", "0"},
		{"12abc", "0"},
		{"1e5", "0"},
		{"1E1000000", "0"},
		{"2.5e-3", "0"},
		{"1000000000000000", "1000000000000000"},
		{"1000000000000000,01", "0"},
		{"1.000.000.000.000.000.000", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := CoerceAmount(tt.raw)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)),
				"Expected %s, got %s", tt.expected, got)
		})
	}
}

func TestCoerceFlag(t *testing.T) {
	for _, raw := range []string{"1", "true", "YES", "on", "si", "Sì", "sí", "x"} {
		assert.True(t, CoerceFlag(raw), raw)
	}
	for _, raw := range []string{"", "0", "false", "no", "maybe"} {
		assert.False(t, CoerceFlag(raw), raw)
	}
}

func TestParseInput(t *testing.T) {
	fields := []Field{
		{Key: "income", Kind: FieldNumber, Base: true},
		{Key: "deductions", Kind: FieldNumber, Default: "100"},
		{Key: "employee", Kind: FieldFlag, Default: "true"},
		{Key: "region", Kind: FieldChoice, Default: "lazio"},
	}

	t.Run("raw values", func(t *testing.T) {
		in := ParseInput(fields, map[string]string{
			"income":     "30.000",
			"deductions": "2.500,50",
			"employee":   "no",
			"region":     "  Veneto ",
			"ignored":    "1",
		})
		assert.True(t, in.Base.Equal(decimal.NewFromInt(30000)))
		assert.True(t, in.Amount("deductions").Equal(decimal.RequireFromString("2500.5")))
		assert.False(t, in.Flag("employee"))
		assert.Equal(t, "veneto", in.Choice("region"))
		assert.NotContains(t, in.Amounts, "ignored")
	})

	t.Run("defaults", func(t *testing.T) {
		in := ParseInput(fields, map[string]string{"deductions": "  "})
		assert.True(t, in.Base.IsZero())
		assert.True(t, in.Amount("deductions").Equal(decimal.NewFromInt(100)))
		assert.True(t, in.Flag("employee"))
		assert.Equal(t, "lazio", in.Choice("region"))
	})

	t.Run("negative numbers floor at zero", func(t *testing.T) {
		in := ParseInput(fields, map[string]string{"income": "-500", "deductions": "-1"})
		assert.True(t, in.Base.IsZero())
		assert.True(t, in.Amount("deductions").IsZero())
	})
}

func TestComputationInput_WithIsCopy(t *testing.T) {
	base := NewInput(decimal.NewFromInt(10))
	changed := base.WithAmount("a", decimal.NewFromInt(1)).WithFlag("f", true).WithChoice("c", "x")

	assert.Empty(t, base.Amounts)
	assert.Empty(t, base.Flags)
	assert.Empty(t, base.Choices)
	assert.True(t, changed.Amount("a").Equal(decimal.NewFromInt(1)))
	assert.True(t, changed.Flag("f"))
	assert.Equal(t, "x", changed.Choice("c"))
	assert.True(t, changed.Base.Equal(base.Base))
}

func TestComputationResult(t *testing.T) {
	r := NewResult("irpef", "IRPEF")
	r.Add("imponibile", "Imponibile", decimal.NewFromInt(100)).
		AddUnit("aliquota", "Aliquota", decimal.RequireFromString("0.23"), UnitPercent).
		Note("nota")

	assert.Len(t, r.Values, 2)
	assert.Equal(t, UnitCurrency, r.Values[0].Unit)
	assert.Equal(t, UnitPercent, r.Values[1].Unit)

	v, ok := r.Get("aliquota")
	assert.True(t, ok)
	assert.True(t, v.Equal(decimal.RequireFromString("0.23")))

	_, ok = r.Get("missing")
	assert.False(t, ok)
	assert.True(t, r.MustGet("missing").IsZero())
	assert.Equal(t, []string{"nota"}, r.Notes)
}
