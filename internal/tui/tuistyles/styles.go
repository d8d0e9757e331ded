// Package tuistyles holds the lipgloss palette shared by the TUI and its
// components.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	ColorPrimary   = lipgloss.Color("#2E86AB")
	ColorSecondary = lipgloss.Color("#A23B72")
	ColorAccent    = lipgloss.Color("#F18F01")
	ColorSuccess   = lipgloss.Color("#3BB273")
	ColorDanger    = lipgloss.Color("#E15554")

	ColorForeground = lipgloss.Color("#EEEEEE")
	ColorMuted      = lipgloss.Color("#888888")
	ColorBorder     = lipgloss.Color("#444444")
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	StatusKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)

	UnselectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorForeground)

	ParameterLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Width(34)

	ActiveParameterLabelStyle = ParameterLabelStyle.
					Foreground(ColorAccent)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Foreground(ColorForeground).
				Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Italic(true)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// MetricTrendStyle colours a change: green for a lower amount owed
func MetricTrendStyle(isPositive bool) lipgloss.Style {
	if isPositive {
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	}
	return lipgloss.NewStyle().Foreground(ColorDanger)
}

// TrendIndicator returns an arrow for a change direction
func TrendIndicator(isPositive bool) string {
	if isPositive {
		return "↓"
	}
	return "↑"
}
