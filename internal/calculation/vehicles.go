package calculation

import (
	"fmt"

	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"github.com/rgehrsitz/fiscalgo/internal/rate"
	"github.com/shopspring/decimal"
)

// BolloAutoCalculator computes the Italian annual vehicle ownership tax.
// The per-kW tariff depends on the euro emission class and switches to a
// higher rate above the kW threshold.
type BolloAutoCalculator struct {
	Table domain.BolloAutoTable
	rules map[string]rate.Bracketed
}

// NewBolloAutoCalculator creates the calculator; the per-class rules are
// built once here.
func NewBolloAutoCalculator(table domain.BolloAutoTable) *BolloAutoCalculator {
	rules := make(map[string]rate.Bracketed, len(table.Classes))
	for key, class := range table.Classes {
		rules[key] = class.Rule(table.ThresholdKW)
	}
	return &BolloAutoCalculator{Table: table, rules: rules}
}

func (c *BolloAutoCalculator) Name() string  { return "bollo_auto" }
func (c *BolloAutoCalculator) Title() string { return "Bollo auto" }

func (c *BolloAutoCalculator) Fields() []domain.Field {
	return []domain.Field{
		{Key: "kw", Label: "Potenza", Kind: domain.FieldNumber, Unit: "kW", Base: true},
		{Key: "euro_class", Label: "Classe ambientale", Kind: domain.FieldChoice, Default: "euro6",
			Options: options(c.Table.Classes, func(cl domain.BolloClass) string { return cl.Label })},
	}
}

func (c *BolloAutoCalculator) Calculate(in domain.ComputationInput) (*domain.ComputationResult, error) {
	key := choice(in, "euro_class", "euro6")
	rule, ok := c.rules[key]
	if !ok {
		return nil, fmt.Errorf("%w: euro_class %q", ErrUnknownOption, key)
	}

	kw := rate.ZeroFloor(in.Base)
	slices := rule.Breakdown(kw)
	result := domain.NewResult(c.Name(), c.Title())
	result.AddUnit("kw", "Potenza", kw, domain.UnitNumber)
	for i, s := range slices {
		label := "Quota fino alla soglia"
		if i > 0 {
			label = "Quota oltre la soglia"
		}
		result.Add(fmt.Sprintf("quota_%d", i+1), label, cents(s.Tax))
	}
	result.Amount = cents(rule.Evaluate(kw))
	result.Add("bollo", "Bollo annuo", result.Amount)
	return result, nil
}

// SuperbolloCalculator computes the surcharge on high-power vehicles:
// a flat amount per kW above the threshold, reduced by vehicle age.
type SuperbolloCalculator struct {
	Table    domain.SuperbolloTable
	schedule rate.Schedule
	perKW    rate.Flat
}

// NewSuperbolloCalculator creates the calculator
func NewSuperbolloCalculator(table domain.SuperbolloTable) *SuperbolloCalculator {
	return &SuperbolloCalculator{
		Table:    table,
		schedule: table.AgeMultipliers.Schedule(),
		perKW:    rate.NewFlat(table.PerKW),
	}
}

func (c *SuperbolloCalculator) Name() string  { return "superbollo" }
func (c *SuperbolloCalculator) Title() string { return "Superbollo" }

func (c *SuperbolloCalculator) Fields() []domain.Field {
	return []domain.Field{
		{Key: "kw", Label: "Potenza", Kind: domain.FieldNumber, Unit: "kW", Base: true},
		{Key: "age_years", Label: "Anni dalla costruzione", Kind: domain.FieldNumber, Unit: "anni", Default: "0"},
	}
}

func (c *SuperbolloCalculator) Calculate(in domain.ComputationInput) (*domain.ComputationResult, error) {
	excess := rate.ZeroFloor(in.Base.Sub(c.Table.ThresholdKW))
	full := c.perKW.Evaluate(excess)
	multiplier := c.schedule.Lookup(in.Amount("age_years"))

	result := domain.NewResult(c.Name(), c.Title())
	result.AddUnit("kw_excess", "kW oltre la soglia", excess, domain.UnitNumber)
	result.Add("full_amount", "Importo pieno", cents(full))
	result.AddUnit("multiplier", "Coefficiente per anzianità", multiplier, domain.UnitPercent)
	result.Amount = cents(full.Mul(multiplier))
	result.Add("superbollo", "Superbollo", result.Amount)
	if excess.IsZero() {
		result.Note(fmt.Sprintf("Non dovuto fino a %s kW", c.Table.ThresholdKW.String()))
	}
	return result, nil
}

// IPTCalculator computes the provincial registration tax: a fixed fee up to
// a power limit, otherwise a per-kW tariff, plus the provincial surcharge.
type IPTCalculator struct {
	Table domain.IPTTable
}

// NewIPTCalculator creates the calculator
func NewIPTCalculator(table domain.IPTTable) *IPTCalculator {
	return &IPTCalculator{Table: table}
}

func (c *IPTCalculator) Name() string  { return "ipt" }
func (c *IPTCalculator) Title() string { return "Imposta provinciale di trascrizione" }

func (c *IPTCalculator) Fields() []domain.Field {
	return []domain.Field{
		{Key: "kw", Label: "Potenza", Kind: domain.FieldNumber, Unit: "kW", Base: true},
		{Key: "province", Label: "Provincia", Kind: domain.FieldChoice, Default: "nessuna",
			Options: options(c.Table.Provinces, func(p domain.Province) string { return p.Label })},
	}
}

func (c *IPTCalculator) Calculate(in domain.ComputationInput) (*domain.ComputationResult, error) {
	province, err := lookup(c.Table.Provinces, "province", choice(in, "province", "nessuna"))
	if err != nil {
		return nil, err
	}

	kw := rate.ZeroFloor(in.Base)
	tariff := decimal.Zero
	switch {
	case kw.IsZero():
	case kw.LessThanOrEqual(c.Table.BaseFeeMaxKW):
		tariff = c.Table.BaseFee
	default:
		tariff = rate.EvaluateFlat(kw, c.Table.PerKW)
	}
	surcharge := rate.EvaluateFlat(tariff, province.Surcharge)

	result := domain.NewResult(c.Name(), c.Title())
	result.AddUnit("kw", "Potenza", kw, domain.UnitNumber)
	result.Add("tariff", "Tariffa base", cents(tariff))
	result.Add("surcharge", "Maggiorazione provinciale", cents(surcharge))
	result.Amount = cents(tariff.Add(surcharge))
	result.Add("ipt", "IPT", result.Amount)
	return result, nil
}
