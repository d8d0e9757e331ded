package domain

import (
	"github.com/shopspring/decimal"
)

// Unit tells formatters how to render a value
type Unit string

const (
	UnitCurrency Unit = "currency"
	UnitPercent  Unit = "percent"
	UnitNumber   Unit = "number"
)

// NamedValue is one intermediate or final value of a computation
type NamedValue struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
	Unit  Unit            `json:"unit"`
}

// ComputationResult is the owed amount plus the intermediate values needed
// for display, in display order. It is derived data, never persisted.
type ComputationResult struct {
	Calculator string          `json:"calculator"`
	Title      string          `json:"title"`
	Scenario   string          `json:"scenario,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Values     []NamedValue    `json:"values"`
	Notes      []string        `json:"notes,omitempty"`
}

// NewResult creates an empty result for a calculator
func NewResult(calculator, title string) *ComputationResult {
	return &ComputationResult{Calculator: calculator, Title: title}
}

// Add appends a currency value
func (r *ComputationResult) Add(key, label string, v decimal.Decimal) *ComputationResult {
	return r.AddUnit(key, label, v, UnitCurrency)
}

// AddUnit appends a value with an explicit unit
func (r *ComputationResult) AddUnit(key, label string, v decimal.Decimal, unit Unit) *ComputationResult {
	r.Values = append(r.Values, NamedValue{Key: key, Label: label, Value: v, Unit: unit})
	return r
}

// Note appends an explanatory note
func (r *ComputationResult) Note(note string) *ComputationResult {
	r.Notes = append(r.Notes, note)
	return r
}

// Get returns a named value
func (r *ComputationResult) Get(key string) (decimal.Decimal, bool) {
	for _, v := range r.Values {
		if v.Key == key {
			return v.Value, true
		}
	}
	return decimal.Zero, false
}

// MustGet returns a named value or zero
func (r *ComputationResult) MustGet(key string) decimal.Decimal {
	v, _ := r.Get(key)
	return v
}
