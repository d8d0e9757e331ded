package calculation

import (
	"fmt"

	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"github.com/rgehrsitz/fiscalgo/internal/rate"
	"github.com/shopspring/decimal"
)

var thousand = decimal.NewFromInt(1000)

// IMUCalculator computes the Italian municipal property tax from the
// cadastral income: revaluation, category coefficient, then the municipal
// per-mille rate pro rata of ownership share and months.
type IMUCalculator struct {
	Table domain.IMUTable
}

// NewIMUCalculator creates the calculator
func NewIMUCalculator(table domain.IMUTable) *IMUCalculator {
	return &IMUCalculator{Table: table}
}

func (c *IMUCalculator) Name() string  { return "imu" }
func (c *IMUCalculator) Title() string { return "IMU" }

func (c *IMUCalculator) Fields() []domain.Field {
	return []domain.Field{
		{Key: "rendita", Label: "Rendita catastale", Kind: domain.FieldNumber, Unit: "EUR", Base: true},
		{Key: "category", Label: "Categoria catastale", Kind: domain.FieldChoice, Default: "a",
			Options: options(c.Table.Categories, func(cat domain.Category) string { return cat.Label })},
		{Key: "rate_per_mille", Label: "Aliquota comunale", Kind: domain.FieldNumber, Unit: "‰",
			Default: c.Table.DefaultRatePerMille.String()},
		{Key: "share_percent", Label: "Quota di possesso", Kind: domain.FieldNumber, Unit: "%", Default: "100"},
		{Key: "months", Label: "Mesi di possesso", Kind: domain.FieldNumber, Unit: "mesi", Default: "12"},
		{Key: "main_residence", Label: "Abitazione principale", Kind: domain.FieldFlag, Default: "false"},
	}
}

func (c *IMUCalculator) Calculate(in domain.ComputationInput) (*domain.ComputationResult, error) {
	category, err := lookup(c.Table.Categories, "category", choice(in, "category", "a"))
	if err != nil {
		return nil, err
	}

	revalued := rate.ZeroFloor(in.Base).Mul(one.Add(c.Table.Revaluation))
	base := cents(revalued.Mul(category.Coefficient))
	perMille := amountOr(in, "rate_per_mille", c.Table.DefaultRatePerMille)
	share := rate.Clamp(amountOr(in, "share_percent", hundred), rate.Dec(decimal.Zero), rate.Dec(hundred)).Div(hundred)
	months := rate.Clamp(amountOr(in, "months", twelve), rate.Dec(decimal.Zero), rate.Dec(twelve))

	annual := rate.EvaluateFlat(base, perMille.Div(thousand)).Mul(share).Mul(months).Div(twelve)
	if in.Flag("main_residence") {
		annual = decimal.Zero
	}
	annual = cents(annual)
	deposit := cents(annual.Div(decimal.NewFromInt(2)))

	result := domain.NewResult(c.Name(), c.Title())
	result.Add("rendita_rivalutata", "Rendita rivalutata", cents(revalued))
	result.AddUnit("coefficiente", "Coefficiente", category.Coefficient, domain.UnitNumber)
	result.Add("base_imponibile", "Base imponibile", base)
	result.AddUnit("aliquota", "Aliquota", perMille.Div(thousand), domain.UnitPercent)
	result.Add("acconto", "Acconto (giugno)", deposit)
	result.Add("saldo", "Saldo (dicembre)", annual.Sub(deposit))
	result.Amount = annual
	result.Add("imu", "IMU annua", annual)
	if in.Flag("main_residence") {
		result.Note("Abitazione principale non di lusso: esente")
	}
	return result, nil
}

// PrevidenzaCalculator computes the substitute tax on supplementary pension
// benefits, whose rate falls with the years of participation.
type PrevidenzaCalculator struct {
	Table    domain.PrevidenzaTable
	schedule rate.Schedule
}

// NewPrevidenzaCalculator creates the calculator
func NewPrevidenzaCalculator(table domain.PrevidenzaTable) *PrevidenzaCalculator {
	return &PrevidenzaCalculator{Table: table, schedule: table.Schedule()}
}

func (c *PrevidenzaCalculator) Name() string  { return "previdenza" }
func (c *PrevidenzaCalculator) Title() string { return "Tassazione previdenza complementare" }

func (c *PrevidenzaCalculator) Fields() []domain.Field {
	return []domain.Field{
		{Key: "benefit", Label: "Prestazione imponibile", Kind: domain.FieldNumber, Unit: "EUR", Base: true},
		{Key: "years", Label: "Anni di partecipazione", Kind: domain.FieldNumber, Unit: "anni", Default: "0"},
	}
}

func (c *PrevidenzaCalculator) Calculate(in domain.ComputationInput) (*domain.ComputationResult, error) {
	benefit := rate.ZeroFloor(in.Base)
	years := in.Amount("years").Floor()
	r := c.schedule.LookupYears(int(years.IntPart()))
	tax := cents(rate.EvaluateFlat(benefit, r))

	result := domain.NewResult(c.Name(), c.Title())
	result.AddUnit("anni", "Anni di partecipazione", years, domain.UnitNumber)
	result.AddUnit("aliquota", "Aliquota", r, domain.UnitPercent)
	result.Add("imposta", "Imposta sostitutiva", tax)
	result.Add("netto", "Prestazione netta", benefit.Sub(tax))
	result.Amount = tax
	if r.Equal(c.Table.FloorRate) {
		result.Note(fmt.Sprintf("Aliquota minima raggiunta (%s%%)", r.Mul(hundred).StringFixed(1)))
	}
	return result, nil
}
