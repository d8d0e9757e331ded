package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/fiscalgo/internal/tui/components"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch m.currentScene {
	case ScenePicker:
		content = m.renderPicker()
	case SceneForm:
		content = m.renderForm()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		content,
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("fiscalgo")
	crumb := m.currentScene.String()
	if m.form != nil && m.currentScene == SceneForm {
		crumb = fmt.Sprintf("%s / %s", crumb, m.form.descriptor.Title)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(crumb))
}

func (m Model) renderStatusBar() string {
	var keys [][2]string
	switch m.currentScene {
	case ScenePicker:
		keys = [][2]string{{"↑/↓", "select"}, {"enter", "open"}, {"?", "help"}, {"q", "quit"}}
	case SceneForm:
		keys = [][2]string{{"tab/↓", "next"}, {"shift+tab/↑", "previous"}, {"esc", "back"}, {"f1", "help"}}
	default:
		keys = [][2]string{{"esc", "back"}}
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, StatusKeyStyle.Render(k[0])+" "+k[1])
	}
	return StatusBarStyle.Render(strings.Join(parts, "  "))
}

func (m Model) renderPicker() string {
	var b strings.Builder
	for i, d := range m.calculators {
		line := fmt.Sprintf("%-12s %s", d.Name, d.Title)
		if i == m.selected {
			b.WriteString(SelectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString(UnselectedItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderForm() string {
	f := m.form
	var fields strings.Builder
	for i, field := range f.descriptor.Fields {
		label := field.Label
		if field.Unit != "" {
			label = fmt.Sprintf("%s (%s)", label, field.Unit)
		}
		style := ParameterLabelStyle
		if i == f.focus {
			style = ActiveParameterLabelStyle
		}
		fields.WriteString(style.Render(label) + " " + f.inputs[i].View() + "\n")
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		BorderStyle.Render(strings.TrimRight(fields.String(), "\n")),
		"  ",
		m.renderResult(),
	)
}

func (m Model) renderResult() string {
	f := m.form
	if f.err != nil {
		return ErrorStyle.Render("Error: " + f.err.Error())
	}
	if f.result == nil {
		return InfoStyle.Render("Calculating...")
	}

	card := components.NewMetricCard(f.result.Title, m.numbers.Currency(f.result.Amount)).
		WithDescription(f.descriptor.Name).
		WithWidth(36)
	if f.change != nil {
		sign := "+"
		if f.change.IsNegative() {
			sign = ""
		}
		// a lower amount owed is the favourable direction
		card.WithTrend(f.change.IsNegative(), sign+m.numbers.Currency(*f.change))
	}
	lines := []string{card.Render()}
	for _, v := range f.result.Values {
		metric := components.NewMetricCard(v.Label, m.numbers.Value(v))
		lines = append(lines, metric.RenderCompact())
	}
	for _, note := range f.result.Notes {
		lines = append(lines, InfoStyle.Render("• "+note))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderHelp() string {
	return strings.Join([]string{
		"Pick a calculator and press enter to open its form.",
		"Every edit recomputes the result; the newest input always wins.",
		"Numbers accept both 1234.56 and 1.234,56; flags accept sì/no, true/false.",
		"Choice fields list their accepted values as a placeholder.",
	}, "\n")
}
