package calculation

import (
	"fmt"

	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"github.com/rgehrsitz/fiscalgo/internal/rate"
	"github.com/shopspring/decimal"
)

// IRPEFCalculator computes Italian personal income tax: deductions, the
// progressive scaglioni, the employee tax credit, and the regional and
// municipal surcharges.
type IRPEFCalculator struct {
	Table    domain.IRPEFTable
	brackets rate.Bracketed
}

// NewIRPEFCalculator creates the calculator
func NewIRPEFCalculator(table domain.IRPEFTable) *IRPEFCalculator {
	return &IRPEFCalculator{Table: table, brackets: table.Brackets.Rule()}
}

func (c *IRPEFCalculator) Name() string  { return "irpef" }
func (c *IRPEFCalculator) Title() string { return "IRPEF" }

func (c *IRPEFCalculator) Fields() []domain.Field {
	return []domain.Field{
		{Key: "income", Label: "Reddito complessivo", Kind: domain.FieldNumber, Unit: "EUR", Base: true},
		{Key: "deductions", Label: "Oneri deducibili", Kind: domain.FieldNumber, Unit: "EUR", Default: "0"},
		{Key: "employee", Label: "Lavoro dipendente", Kind: domain.FieldFlag, Default: "true"},
		{Key: "surcharges", Label: "Addizionali regionale e comunale", Kind: domain.FieldFlag, Default: "true"},
	}
}

func (c *IRPEFCalculator) Calculate(in domain.ComputationInput) (*domain.ComputationResult, error) {
	income := rate.ZeroFloor(in.Base)
	taxable := rate.ZeroFloor(income.Sub(in.Amount("deductions")))
	gross := cents(c.brackets.Evaluate(taxable))

	credit := decimal.Zero
	if in.Flag("employee") {
		credit = cents(EmployeeCredit(c.Table.EmployeeCredit, taxable))
	}
	net := rate.ZeroFloor(gross.Sub(credit))

	regional, municipal := decimal.Zero, decimal.Zero
	if in.Flag("surcharges") {
		regional = cents(rate.EvaluateFlat(taxable, c.Table.RegionalSurcharge))
		municipal = cents(rate.EvaluateFlat(taxable, c.Table.MunicipalSurcharge))
	}
	total := net.Add(regional).Add(municipal)

	result := domain.NewResult(c.Name(), c.Title())
	result.Add("imponibile", "Reddito imponibile", taxable)
	result.Add("imposta_lorda", "Imposta lorda", gross)
	result.Add("detrazioni", "Detrazioni lavoro dipendente", credit)
	result.Add("imposta_netta", "Imposta netta", net)
	result.Add("addizionale_regionale", "Addizionale regionale", regional)
	result.Add("addizionale_comunale", "Addizionale comunale", municipal)
	result.AddUnit("aliquota_marginale", "Aliquota marginale", c.brackets.MarginalRate(taxable), domain.UnitPercent)
	if income.IsPositive() {
		result.AddUnit("aliquota_media", "Aliquota media", total.Div(income).Round(4), domain.UnitPercent)
	}
	result.Amount = total
	result.Add("totale", "Totale IRPEF", total)
	return result, nil
}

// EmployeeCredit is the employee tax credit: a full amount at low incomes,
// then two linear phase-outs reaching zero at ZeroAt.
func EmployeeCredit(t domain.EmployeeCreditTable, income decimal.Decimal) decimal.Decimal {
	switch {
	case !income.IsPositive():
		return decimal.Zero
	case income.LessThanOrEqual(t.FullUpTo):
		return t.FullAmount
	case income.LessThanOrEqual(t.MidUpTo):
		share := t.MidUpTo.Sub(income).Div(t.MidUpTo.Sub(t.FullUpTo))
		return t.MidBase.Add(t.MidExtra.Mul(share))
	case income.LessThanOrEqual(t.ZeroAt):
		share := t.ZeroAt.Sub(income).Div(t.ZeroAt.Sub(t.MidUpTo))
		return t.MidBase.Mul(share)
	default:
		return decimal.Zero
	}
}

// INPSCalculator computes social-security contributions for the
// self-employed gestioni: a rate on income clamped to the minimale and
// massimale.
type INPSCalculator struct {
	Table domain.INPSTable
}

// NewINPSCalculator creates the calculator
func NewINPSCalculator(table domain.INPSTable) *INPSCalculator {
	return &INPSCalculator{Table: table}
}

func (c *INPSCalculator) Name() string  { return "inps" }
func (c *INPSCalculator) Title() string { return "Contributi INPS" }

func (c *INPSCalculator) Fields() []domain.Field {
	return []domain.Field{
		{Key: "income", Label: "Reddito", Kind: domain.FieldNumber, Unit: "EUR", Base: true},
		{Key: "gestione", Label: "Gestione", Kind: domain.FieldChoice, Default: "separata",
			Options: options(c.Table.Gestioni, func(g domain.Gestione) string { return g.Label })},
	}
}

func (c *INPSCalculator) Calculate(in domain.ComputationInput) (*domain.ComputationResult, error) {
	g, err := lookup(c.Table.Gestioni, "gestione", choice(in, "gestione", "separata"))
	if err != nil {
		return nil, err
	}
	rule := g.Rule()

	result := domain.NewResult(c.Name(), c.Title())
	result.Add("base", "Base contributiva", rule.ClampedBase(in.Base))
	result.AddUnit("aliquota", "Aliquota", g.Rate, domain.UnitPercent)
	result.Amount = cents(rule.Evaluate(in.Base))
	result.Add("contributi", "Contributi dovuti", result.Amount)
	if g.MinBase != nil && in.Base.LessThan(*g.MinBase) {
		result.Note(fmt.Sprintf("Reddito sotto il minimale: contributi calcolati su %s", g.MinBase.StringFixed(2)))
	}
	if g.MaxBase != nil && in.Base.GreaterThan(*g.MaxBase) {
		result.Note(fmt.Sprintf("Reddito oltre il massimale: contributi calcolati su %s", g.MaxBase.StringFixed(2)))
	}
	return result, nil
}

// EnasarcoCalculator computes the commercial agent pension contribution,
// shared between the agent and the principal.
type EnasarcoCalculator struct {
	Table domain.EnasarcoTable
}

// NewEnasarcoCalculator creates the calculator
func NewEnasarcoCalculator(table domain.EnasarcoTable) *EnasarcoCalculator {
	return &EnasarcoCalculator{Table: table}
}

func (c *EnasarcoCalculator) Name() string  { return "enasarco" }
func (c *EnasarcoCalculator) Title() string { return "Contributi ENASARCO" }

func (c *EnasarcoCalculator) Fields() []domain.Field {
	return []domain.Field{
		{Key: "commissions", Label: "Provvigioni annue", Kind: domain.FieldNumber, Unit: "EUR", Base: true},
		{Key: "mandate", Label: "Tipo di mandato", Kind: domain.FieldChoice, Default: "mono",
			Options: options(c.Table.Mandates, func(m domain.Mandate) string { return m.Label })},
	}
}

func (c *EnasarcoCalculator) Calculate(in domain.ComputationInput) (*domain.ComputationResult, error) {
	m, err := lookup(c.Table.Mandates, "mandate", choice(in, "mandate", "mono"))
	if err != nil {
		return nil, err
	}
	rule := rate.NewCappedProportional(c.Table.Rate, nil, rate.Dec(m.MaxBase))

	commissions := rate.ZeroFloor(in.Base)
	total := rule.Evaluate(commissions)
	if commissions.IsPositive() && total.LessThan(m.MinContribution) {
		total = m.MinContribution
	}
	total = cents(total)
	agent := cents(total.Mul(c.Table.AgentShare))

	result := domain.NewResult(c.Name(), c.Title())
	result.Add("base", "Provvigioni soggette", rule.ClampedBase(commissions))
	result.Add("contributo_totale", "Contributo totale", total)
	result.Add("quota_agente", "Quota agente", agent)
	result.Add("quota_preponente", "Quota preponente", total.Sub(agent))
	result.Amount = agent
	return result, nil
}

// RegimeOutcome is the evaluation of one TaxRegime branch
type RegimeOutcome struct {
	Regime        domain.RegimeKind
	Income        decimal.Decimal
	Contributions decimal.Decimal
	Taxable       decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Net           decimal.Decimal
}

// EvaluateRegime chains income determination, INPS contributions (deducted
// from the income) and the regime's tax on what remains.
func EvaluateRegime(regime domain.TaxRegime, revenue decimal.Decimal, contributions rate.Rule) RegimeOutcome {
	revenue = rate.ZeroFloor(revenue)
	out := RegimeOutcome{Regime: regime.Kind()}

	expenses := decimal.Zero
	switch r := regime.(type) {
	case domain.Forfettario:
		out.Income = cents(revenue.Mul(r.ProfitabilityCoefficient))
	case domain.Ordinary:
		expenses = rate.ZeroFloor(r.DeductibleExpenses)
		out.Income = rate.ZeroFloor(revenue.Sub(expenses))
	}

	out.Contributions = cents(contributions.Evaluate(out.Income))
	out.Taxable = rate.ZeroFloor(out.Income.Sub(out.Contributions))

	switch r := regime.(type) {
	case domain.Forfettario:
		out.Tax = cents(rate.EvaluateFlat(out.Taxable, r.SubstituteRate))
	case domain.Ordinary:
		out.Tax = cents(r.Brackets.Evaluate(out.Taxable))
	}

	out.Total = out.Contributions.Add(out.Tax)
	out.Net = revenue.Sub(expenses).Sub(out.Total)
	return out
}

// RegimeCalculator compares the forfettario and ordinario regimes for a
// self-employed activity.
type RegimeCalculator struct {
	Forfettario domain.ForfettarioTable
	INPS        domain.INPSTable
	brackets    rate.Bracketed
}

// NewRegimeCalculator creates the calculator
func NewRegimeCalculator(forfettario domain.ForfettarioTable, inps domain.INPSTable, irpef domain.IRPEFTable) *RegimeCalculator {
	return &RegimeCalculator{Forfettario: forfettario, INPS: inps, brackets: irpef.Brackets.Rule()}
}

func (c *RegimeCalculator) Name() string  { return "regime" }
func (c *RegimeCalculator) Title() string { return "Regime forfettario o ordinario" }

func (c *RegimeCalculator) Fields() []domain.Field {
	return []domain.Field{
		{Key: "revenue", Label: "Ricavi o compensi", Kind: domain.FieldNumber, Unit: "EUR", Base: true},
		{Key: "activity", Label: "Attività", Kind: domain.FieldChoice, Default: "professionisti",
			Options: options(c.Forfettario.Activities, func(a domain.Activity) string { return a.Label })},
		{Key: "regime", Label: "Regime", Kind: domain.FieldChoice, Default: string(domain.RegimeForfettario),
			Options: []domain.Option{
				{Value: string(domain.RegimeForfettario), Label: "Forfettario"},
				{Value: string(domain.RegimeOrdinary), Label: "Ordinario"},
			}},
		{Key: "expenses", Label: "Spese deducibili (ordinario)", Kind: domain.FieldNumber, Unit: "EUR", Default: "0"},
		{Key: "startup", Label: "Nuova attività (aliquota ridotta)", Kind: domain.FieldFlag, Default: "false"},
	}
}

// Regime builds the TaxRegime branch selected by the input
func (c *RegimeCalculator) Regime(in domain.ComputationInput, activity domain.Activity) (domain.TaxRegime, error) {
	switch kind := domain.RegimeKind(choice(in, "regime", string(domain.RegimeForfettario))); kind {
	case domain.RegimeForfettario:
		substitute := c.Forfettario.SubstituteRate
		if in.Flag("startup") {
			substitute = c.Forfettario.StartupRate
		}
		return domain.Forfettario{SubstituteRate: substitute, ProfitabilityCoefficient: activity.Coefficient}, nil
	case domain.RegimeOrdinary:
		return domain.Ordinary{Brackets: c.brackets, DeductibleExpenses: in.Amount("expenses")}, nil
	default:
		return nil, fmt.Errorf("%w: regime %q", ErrUnknownOption, kind)
	}
}

func (c *RegimeCalculator) Calculate(in domain.ComputationInput) (*domain.ComputationResult, error) {
	activity, err := lookup(c.Forfettario.Activities, "activity", choice(in, "activity", "professionisti"))
	if err != nil {
		return nil, err
	}
	gestione, err := lookup(c.INPS.Gestioni, "gestione", activity.Gestione)
	if err != nil {
		return nil, err
	}
	regime, err := c.Regime(in, activity)
	if err != nil {
		return nil, err
	}

	out := EvaluateRegime(regime, in.Base, gestione.Rule())

	result := domain.NewResult(c.Name(), c.Title())
	result.Add("reddito", "Reddito imponibile lordo", out.Income)
	result.Add("contributi", fmt.Sprintf("Contributi INPS (%s)", gestione.Label), out.Contributions)
	result.Add("imponibile", "Imponibile fiscale", out.Taxable)
	label := "IRPEF"
	if out.Regime == domain.RegimeForfettario {
		label = "Imposta sostitutiva"
	}
	result.Add("imposta", label, out.Tax)
	result.Add("totale", "Totale tasse e contributi", out.Total)
	result.Add("netto", "Netto", out.Net)
	result.Amount = out.Total

	if out.Regime == domain.RegimeForfettario && in.Base.GreaterThan(c.Forfettario.RevenueLimit) {
		result.Note(fmt.Sprintf("Ricavi oltre il limite di %s: il regime forfettario non è applicabile",
			c.Forfettario.RevenueLimit.StringFixed(0)))
	}
	return result, nil
}
