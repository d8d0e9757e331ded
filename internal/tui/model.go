package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/fiscalgo/internal/calculation"
	"github.com/rgehrsitz/fiscalgo/internal/output"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	engine      *calculation.CalculationEngine
	calculators []calculation.Descriptor
	selected    int

	form    *FormModel
	numbers *output.NumberFormatter
}

// NewModel creates a new application model. The engine's logger must not
// write to the terminal the program draws on.
func NewModel(engine *calculation.CalculationEngine, locale string) Model {
	return Model{
		currentScene: ScenePicker,
		engine:       engine,
		calculators:  engine.Registry.Describe(),
		numbers:      output.NewNumberFormatter(locale),
		width:        80,
		height:       24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("fiscalgo")
}

// Form returns the open calculator form, nil on the picker
func (m Model) Form() *FormModel { return m.form }

// Scene returns the current scene
func (m Model) Scene() Scene { return m.currentScene }

// open shows the form of the selected calculator and computes its defaults
func (m Model) open() (Model, tea.Cmd) {
	if len(m.calculators) == 0 {
		return m, nil
	}
	m.form = NewFormModel(m.calculators[m.selected])
	m.previousScene = m.currentScene
	m.currentScene = SceneForm
	return m, m.recalculate()
}

func (m Model) recalculate() tea.Cmd {
	if m.form == nil {
		return nil
	}
	return calculateCmd(m.engine, m.form.Name(), m.form.Values(), m.form.seq)
}
