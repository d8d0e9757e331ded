package output

import (
	"strings"

	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is used when a report does not name one
const DefaultLocale = "it"

// NumberFormatter renders amounts with the grouping and decimal separators
// of a locale.
type NumberFormatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewNumberFormatter creates a formatter for a BCP 47 locale such as "it",
// "es" or "en". Unparseable locales fall back to DefaultLocale.
func NewNumberFormatter(locale string) *NumberFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return &NumberFormatter{tag: tag, printer: message.NewPrinter(tag)}
}

// Locale returns the locale in use
func (nf *NumberFormatter) Locale() string {
	return nf.tag.String()
}

// symbolFirst reports whether the currency symbol precedes the amount
func (nf *NumberFormatter) symbolFirst() bool {
	base, _ := nf.tag.Base()
	return base.String() == "en"
}

// Number formats a decimal with two fraction digits, or none for integers
func (nf *NumberFormatter) Number(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return nf.printer.Sprintf("%d", d.IntPart())
	}
	return nf.printer.Sprintf("%.2f", d.InexactFloat64())
}

// Currency formats a euro amount
func (nf *NumberFormatter) Currency(d decimal.Decimal) string {
	s := nf.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
	if nf.symbolFirst() {
		if strings.HasPrefix(s, "-") {
			return "-€" + s[1:]
		}
		return "€" + s
	}
	return s + " €"
}

// Percent formats a fraction (0.23) as a percentage (23%)
func (nf *NumberFormatter) Percent(d decimal.Decimal) string {
	p := d.Mul(decimal.NewFromInt(100))
	if p.Equal(p.Truncate(0)) {
		return nf.printer.Sprintf("%d%%", p.IntPart())
	}
	return nf.printer.Sprintf("%.2f%%", p.InexactFloat64())
}

// Value formats a named value according to its unit
func (nf *NumberFormatter) Value(v domain.NamedValue) string {
	switch v.Unit {
	case domain.UnitCurrency:
		return nf.Currency(v.Value)
	case domain.UnitPercent:
		return nf.Percent(v.Value)
	default:
		return nf.Number(v.Value)
	}
}

var defaultNumbers = NewNumberFormatter(DefaultLocale)

// FormatCurrency formats a decimal as currency in the default locale
func FormatCurrency(amount decimal.Decimal) string {
	return defaultNumbers.Currency(amount)
}

// FormatPercentage formats a fraction as a percentage in the default locale
func FormatPercentage(amount decimal.Decimal) string {
	return defaultNumbers.Percent(amount)
}
