package tui

import (
	"github.com/rgehrsitz/fiscalgo/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	ScenePicker Scene = iota
	SceneForm
	SceneHelp
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case ScenePicker:
		return "Calculators"
	case SceneForm:
		return "Calculator"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// CalculationCompleteMsg carries the outcome of one recompute. Seq
// identifies the form state it was computed from.
type CalculationCompleteMsg struct {
	Calculator string
	Seq        int
	Result     *domain.ComputationResult
	Err        error
}
