package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldKind is the widget type of a calculator input
type FieldKind string

const (
	FieldNumber FieldKind = "number"
	FieldFlag   FieldKind = "flag"
	FieldChoice FieldKind = "choice"
)

// Option is one selectable value of a choice field
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Field describes one calculator input so forms can be built generically
type Field struct {
	Key     string    `yaml:"key" json:"key"`
	Label   string    `yaml:"label" json:"label"`
	Kind    FieldKind `yaml:"kind" json:"kind"`
	Unit    string    `yaml:"unit,omitempty" json:"unit,omitempty"`
	Base    bool      `yaml:"base,omitempty" json:"base,omitempty"` // the taxable/contributable quantity
	Default string    `yaml:"default,omitempty" json:"default,omitempty"`
	Options []Option  `yaml:"options,omitempty" json:"options,omitempty"`
}

// ComputationInput is the sanitized input of a single evaluation: the base
// amount plus named adjustment terms.
type ComputationInput struct {
	Base    decimal.Decimal            `yaml:"base" json:"base"`
	Amounts map[string]decimal.Decimal `yaml:"amounts,omitempty" json:"amounts,omitempty"`
	Flags   map[string]bool            `yaml:"flags,omitempty" json:"flags,omitempty"`
	Choices map[string]string          `yaml:"choices,omitempty" json:"choices,omitempty"`
}

// NewInput creates an input with the given base and empty adjustments
func NewInput(base decimal.Decimal) ComputationInput {
	return ComputationInput{
		Base:    base,
		Amounts: map[string]decimal.Decimal{},
		Flags:   map[string]bool{},
		Choices: map[string]string{},
	}
}

// WithAmount returns a copy of the input with an adjustment amount set
func (in ComputationInput) WithAmount(key string, v decimal.Decimal) ComputationInput {
	out := in.clone()
	out.Amounts[key] = v
	return out
}

// WithFlag returns a copy of the input with a flag set
func (in ComputationInput) WithFlag(key string, v bool) ComputationInput {
	out := in.clone()
	out.Flags[key] = v
	return out
}

// WithChoice returns a copy of the input with a choice set
func (in ComputationInput) WithChoice(key, v string) ComputationInput {
	out := in.clone()
	out.Choices[key] = v
	return out
}

// Amount returns a named adjustment, zero when absent
func (in ComputationInput) Amount(key string) decimal.Decimal {
	return in.Amounts[key]
}

// Flag returns a named flag, false when absent
func (in ComputationInput) Flag(key string) bool {
	return in.Flags[key]
}

// Choice returns a named choice, empty when absent
func (in ComputationInput) Choice(key string) string {
	return in.Choices[key]
}

func (in ComputationInput) clone() ComputationInput {
	out := NewInput(in.Base)
	for k, v := range in.Amounts {
		out.Amounts[k] = v
	}
	for k, v := range in.Flags {
		out.Flags[k] = v
	}
	for k, v := range in.Choices {
		out.Choices[k] = v
	}
	return out
}

// MaxAmount bounds user-typed numbers; anything larger in magnitude is
// treated as malformed.
var MaxAmount = decimal.New(1, 15)

// dotThousands matches an integer grouped with dots: 30.000, 1.234.567
var dotThousands = regexp.MustCompile(`^-?[1-9]\d{0,2}(\.\d{3})+$`)

// CoerceAmount parses a user-typed number. Malformed or empty input becomes
// zero. Both "1234.56" and the Italian/Spanish "1.234,56" notations are
// accepted, as are currency and percent signs. A lone dot followed by three
// digits ("30.000") groups thousands; a lone comma is always the decimal
// separator ("1,500" is 1.5). Exponents and values beyond MaxAmount are
// malformed.
func CoerceAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer("€", "", "%", "", " ", "", "\u00a0", "", "'", "").Replace(s)
	if s == "" || strings.ContainsAny(s, "eE") {
		return decimal.Zero
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case dotThousands.MatchString(s):
		// 30.000, 1.234.567
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := decimal.NewFromString(s)
	if err != nil || v.Abs().GreaterThan(MaxAmount) {
		return decimal.Zero
	}
	return v
}

// CoerceFlag interprets a user-typed boolean
func CoerceFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on", "si", "sì", "sí", "x":
		return true
	default:
		return false
	}
}

// ParseInput turns raw form values into a ComputationInput using the field
// descriptors. Missing values fall back to the field default; numbers are
// floored at zero; choices are normalised to lower case.
func ParseInput(fields []Field, raw map[string]string) ComputationInput {
	in := NewInput(decimal.Zero)
	for _, f := range fields {
		v, ok := raw[f.Key]
		if !ok || strings.TrimSpace(v) == "" {
			v = f.Default
		}
		switch f.Kind {
		case FieldNumber:
			amount := CoerceAmount(v)
			if amount.IsNegative() {
				amount = decimal.Zero
			}
			if f.Base {
				in.Base = amount
			} else {
				in.Amounts[f.Key] = amount
			}
		case FieldFlag:
			in.Flags[f.Key] = CoerceFlag(v)
		case FieldChoice:
			in.Choices[f.Key] = strings.ToLower(strings.TrimSpace(v))
		}
	}
	return in
}
