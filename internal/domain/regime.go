package domain

import (
	"github.com/rgehrsitz/fiscalgo/internal/rate"
	"github.com/shopspring/decimal"
)

// RegimeKind identifies the Italian self-employment tax regime
type RegimeKind string

const (
	RegimeForfettario RegimeKind = "forfettario"
	RegimeOrdinary    RegimeKind = "ordinario"
)

// TaxRegime is the branch selected by the forfettario/ordinario choice.
// Implementations: Forfettario and Ordinary.
type TaxRegime interface {
	Kind() RegimeKind
	isRegime()
}

// Forfettario taxes revenue times a fixed profitability coefficient at a
// substitute flat rate, instead of itemized deductions.
type Forfettario struct {
	SubstituteRate           decimal.Decimal
	ProfitabilityCoefficient decimal.Decimal
}

func (Forfettario) Kind() RegimeKind { return RegimeForfettario }
func (Forfettario) isRegime()        {}

// Ordinary taxes revenue minus itemized expenses through the IRPEF brackets
type Ordinary struct {
	Brackets           rate.Bracketed
	DeductibleExpenses decimal.Decimal
}

func (Ordinary) Kind() RegimeKind { return RegimeOrdinary }
func (Ordinary) isRegime()        {}
