package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/fiscalgo/internal/calculation"
	"github.com/rgehrsitz/fiscalgo/internal/domain"
)

// FormModel is the input form of one calculator: a text input per field
type FormModel struct {
	descriptor calculation.Descriptor
	inputs     []textinput.Model
	focus      int

	// seq increases with every edit; only the result computed from the
	// latest seq is shown
	seq    int
	result *domain.ComputationResult
	err    error

	// change of the amount against the previous successful result
	change *decimal.Decimal
}

// NewFormModel creates a form with every field at its default value
func NewFormModel(d calculation.Descriptor) *FormModel {
	f := &FormModel{descriptor: d}
	for _, field := range d.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 32
		ti.Width = 24
		ti.Placeholder = placeholder(field)
		ti.SetValue(field.Default)
		f.inputs = append(f.inputs, ti)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func placeholder(field domain.Field) string {
	switch field.Kind {
	case domain.FieldFlag:
		return "sì / no"
	case domain.FieldChoice:
		return strings.Join(lo.Map(field.Options, func(o domain.Option, _ int) string { return o.Value }), " | ")
	default:
		if field.Unit != "" {
			return "0 " + field.Unit
		}
		return "0"
	}
}

// Name returns the calculator name
func (f *FormModel) Name() string { return f.descriptor.Name }

// Values returns the raw form values keyed by field
func (f *FormModel) Values() map[string]string {
	values := make(map[string]string, len(f.inputs))
	for i, field := range f.descriptor.Fields {
		values[field.Key] = f.inputs[i].Value()
	}
	return values
}

// SetValue replaces a field value; unknown keys are ignored
func (f *FormModel) SetValue(key, value string) bool {
	for i, field := range f.descriptor.Fields {
		if field.Key == key {
			f.inputs[i].SetValue(value)
			f.seq++
			return true
		}
	}
	return false
}

// Focused returns the key of the focused field
func (f *FormModel) Focused() string {
	if len(f.descriptor.Fields) == 0 {
		return ""
	}
	return f.descriptor.Fields[f.focus].Key
}

func (f *FormModel) moveFocus(delta int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

// Update routes a key to the focused input. It reports whether a value
// changed so the caller can schedule a recompute.
func (f *FormModel) Update(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "tab", "down", "enter":
		return false, f.moveFocus(1)
	case "shift+tab", "up":
		return false, f.moveFocus(-1)
	}
	if len(f.inputs) == 0 {
		return false, nil
	}

	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if f.inputs[f.focus].Value() == before {
		return false, cmd
	}
	f.seq++
	return true, cmd
}

// apply stores a computed result unless a newer edit superseded it
func (f *FormModel) apply(msg CalculationCompleteMsg) bool {
	if msg.Calculator != f.descriptor.Name || msg.Seq != f.seq {
		return false
	}
	f.change = nil
	if f.result != nil && msg.Result != nil && !msg.Result.Amount.Equal(f.result.Amount) {
		change := msg.Result.Amount.Sub(f.result.Amount)
		f.change = &change
	}
	if msg.Result != nil || msg.Err == nil {
		f.result = msg.Result
	}
	f.err = msg.Err
	return true
}

// calculateCmd evaluates a calculator off the update loop
func calculateCmd(engine *calculation.CalculationEngine, name string, values map[string]string, seq int) tea.Cmd {
	return func() tea.Msg {
		result, err := engine.Evaluate(name, values)
		return CalculationCompleteMsg{Calculator: name, Seq: seq, Result: result, Err: err}
	}
}
