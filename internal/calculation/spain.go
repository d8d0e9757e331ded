package calculation

import (
	"fmt"

	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"github.com/rgehrsitz/fiscalgo/internal/rate"
	"github.com/shopspring/decimal"
)

// IVTMCalculator computes the Spanish municipal vehicle tax: a base quota
// from the vehicle-type tier table times the municipal coefficient.
type IVTMCalculator struct {
	Table  domain.IVTMTable
	tables map[string]rate.TierTable
}

// NewIVTMCalculator creates the calculator
func NewIVTMCalculator(table domain.IVTMTable) *IVTMCalculator {
	tables := make(map[string]rate.TierTable, len(table.VehicleTypes))
	for key, vt := range table.VehicleTypes {
		tables[key] = vt.Tiers.Table()
	}
	return &IVTMCalculator{Table: table, tables: tables}
}

func (c *IVTMCalculator) Name() string  { return "ivtm" }
func (c *IVTMCalculator) Title() string { return "Impuesto sobre vehículos de tracción mecánica" }

func (c *IVTMCalculator) Fields() []domain.Field {
	return []domain.Field{
		{Key: "vehicle_type", Label: "Tipo de vehículo", Kind: domain.FieldChoice, Default: "turismo",
			Options: options(c.Table.VehicleTypes, func(vt domain.VehicleType) string { return vt.Label })},
		{Key: "measure", Label: "Potencia / plazas / carga / cilindrada", Kind: domain.FieldNumber, Base: true},
		{Key: "municipality", Label: "Municipio", Kind: domain.FieldChoice, Default: "general",
			Options: options(c.Table.Municipalities, func(m domain.Municipality) string { return m.Label })},
	}
}

func (c *IVTMCalculator) Calculate(in domain.ComputationInput) (*domain.ComputationResult, error) {
	key := choice(in, "vehicle_type", "turismo")
	vt, err := lookup(c.Table.VehicleTypes, "vehicle_type", key)
	if err != nil {
		return nil, err
	}
	municipality, err := lookup(c.Table.Municipalities, "municipality", choice(in, "municipality", "general"))
	if err != nil {
		return nil, err
	}

	measure := rate.ZeroFloor(in.Base)
	quota := c.tables[key].Lookup(measure)

	result := domain.NewResult(c.Name(), c.Title())
	result.AddUnit("measure", fmt.Sprintf("Medida (%s)", vt.Measure), measure, domain.UnitNumber)
	result.Add("cuota_base", "Cuota base", quota)
	result.AddUnit("coeficiente", "Coeficiente municipal", municipality.Coefficient, domain.UnitNumber)
	result.Amount = cents(quota.Mul(municipality.Coefficient))
	result.Add("cuota", "Cuota anual", result.Amount)
	return result, nil
}

// IRPFCalculator computes the Spanish personal income tax on the general
// base: the progressive scale applied to the base minus the same scale
// applied to the personal minimum.
type IRPFCalculator struct {
	Table    domain.IRPFTable
	brackets rate.Bracketed
}

// NewIRPFCalculator creates the calculator
func NewIRPFCalculator(table domain.IRPFTable) *IRPFCalculator {
	return &IRPFCalculator{Table: table, brackets: table.Brackets.Rule()}
}

func (c *IRPFCalculator) Name() string  { return "irpf" }
func (c *IRPFCalculator) Title() string { return "IRPF" }

func (c *IRPFCalculator) Fields() []domain.Field {
	return []domain.Field{
		{Key: "base", Label: "Base liquidable general", Kind: domain.FieldNumber, Unit: "EUR", Base: true},
		{Key: "age", Label: "Edad", Kind: domain.FieldNumber, Unit: "años", Default: "40"},
	}
}

// PersonalMinimum returns the personal minimum for the taxpayer's age
func (c *IRPFCalculator) PersonalMinimum(age decimal.Decimal) decimal.Decimal {
	minimum := c.Table.PersonalMinimum
	if age.GreaterThanOrEqual(decimal.NewFromInt(65)) {
		minimum = minimum.Add(c.Table.Over65Increase)
	}
	if age.GreaterThanOrEqual(decimal.NewFromInt(75)) {
		minimum = minimum.Add(c.Table.Over75Increase)
	}
	return minimum
}

func (c *IRPFCalculator) Calculate(in domain.ComputationInput) (*domain.ComputationResult, error) {
	base := rate.ZeroFloor(in.Base)
	minimum := c.PersonalMinimum(in.Amount("age"))

	gross := cents(c.brackets.Evaluate(base))
	onMinimum := cents(c.brackets.Evaluate(decimal.Min(minimum, base)))
	tax := rate.ZeroFloor(gross.Sub(onMinimum))

	result := domain.NewResult(c.Name(), c.Title())
	result.Add("base", "Base liquidable", base)
	result.Add("minimo_personal", "Mínimo personal", minimum)
	result.Add("cuota_base", "Cuota sobre la base", gross)
	result.Add("cuota_minimo", "Cuota sobre el mínimo", onMinimum)
	result.AddUnit("tipo_marginal", "Tipo marginal", c.brackets.MarginalRate(base), domain.UnitPercent)
	if base.IsPositive() {
		result.AddUnit("tipo_medio", "Tipo medio", tax.Div(base).Round(4), domain.UnitPercent)
	}
	result.Amount = tax
	result.Add("cuota_integra", "Cuota íntegra", tax)
	return result, nil
}
