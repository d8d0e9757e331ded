package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case CalculationCompleteMsg:
		// results of superseded edits are dropped
		if m.form != nil {
			m.form.apply(msg)
		}
		return m, nil
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.currentScene {
	case ScenePicker:
		return m.updatePicker(msg)
	case SceneForm:
		return m.updateForm(msg)
	case SceneHelp:
		if msg.String() == "esc" || msg.String() == "?" || msg.String() == "q" {
			m.currentScene = m.previousScene
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "?":
		m.previousScene = m.currentScene
		m.currentScene = SceneHelp
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.calculators)-1 {
			m.selected++
		}
	case "home", "g":
		m.selected = 0
	case "end", "G":
		m.selected = len(m.calculators) - 1
	case "enter":
		return m.open()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = nil
		m.currentScene = ScenePicker
		return m, nil
	case "f1":
		m.previousScene = m.currentScene
		m.currentScene = SceneHelp
		return m, nil
	}

	changed, cmd := m.form.Update(msg)
	if !changed {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.recalculate())
}
