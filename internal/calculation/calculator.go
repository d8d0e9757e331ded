package calculation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownCalculator is returned when a calculator name is not registered
	ErrUnknownCalculator = errors.New("unknown calculator")
	// ErrUnknownOption is returned when a choice input holds a value the
	// rate tables do not know (euro class, municipality, gestione, ...)
	ErrUnknownOption = errors.New("unknown option")
)

// Calculator is a single-purpose tax or contribution calculator
type Calculator interface {
	Name() string
	Title() string
	Fields() []domain.Field
	Calculate(in domain.ComputationInput) (*domain.ComputationResult, error)
}

// Descriptor is the serialisable description of a calculator
type Descriptor struct {
	Name   string         `json:"name" yaml:"name"`
	Title  string         `json:"title" yaml:"title"`
	Fields []domain.Field `json:"fields" yaml:"fields"`
}

// Describe returns the descriptor of a calculator
func Describe(c Calculator) Descriptor {
	return Descriptor{Name: c.Name(), Title: c.Title(), Fields: c.Fields()}
}

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	one     = decimal.NewFromInt(1)
)

// cents rounds a money amount to two decimals
func cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// options turns a keyed table into sorted choice options
func options[V any](m map[string]V, label func(V) string) []domain.Option {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return lo.Map(keys, func(k string, _ int) domain.Option {
		return domain.Option{Value: k, Label: label(m[k])}
	})
}

// lookup resolves a choice value against a keyed table
func lookup[V any](m map[string]V, field, key string) (V, error) {
	v, ok := m[key]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %s %q", ErrUnknownOption, field, key)
	}
	return v, nil
}

// choice returns the selected value or the fallback when none was given
func choice(in domain.ComputationInput, key, fallback string) string {
	if v := in.Choice(key); v != "" {
		return v
	}
	return fallback
}

// amountOr returns a named amount or the fallback when it was never set
func amountOr(in domain.ComputationInput, key string, fallback decimal.Decimal) decimal.Decimal {
	if v, ok := in.Amounts[key]; ok {
		return v
	}
	return fallback
}
