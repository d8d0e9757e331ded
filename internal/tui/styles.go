package tui

import "github.com/rgehrsitz/fiscalgo/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles
var (
	TitleStyle                = tuistyles.TitleStyle
	SubtitleStyle             = tuistyles.SubtitleStyle
	StatusBarStyle            = tuistyles.StatusBarStyle
	StatusKeyStyle            = tuistyles.StatusKeyStyle
	SelectedItemStyle         = tuistyles.SelectedItemStyle
	UnselectedItemStyle       = tuistyles.UnselectedItemStyle
	ParameterLabelStyle       = tuistyles.ParameterLabelStyle
	ActiveParameterLabelStyle = tuistyles.ActiveParameterLabelStyle
	ErrorStyle                = tuistyles.ErrorStyle
	InfoStyle                 = tuistyles.InfoStyle
	BorderStyle               = tuistyles.BorderStyle
)
