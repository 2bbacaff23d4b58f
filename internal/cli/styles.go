// Package cli provides styled terminal output for the subtrackr commands.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/subtrackr/subtrackr/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#7D56F4")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates warnings or budget alerts.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warnings and budget alerts.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)
)

// StatusStyle returns the style used to render a subscription status.
func StatusStyle(status model.SubscriptionStatus) lipgloss.Style {
	switch status {
	case model.StatusActive:
		return SuccessStyle
	case model.StatusTrial:
		return InfoStyle
	case model.StatusInactive:
		return SubtleStyle
	case model.StatusCancelled:
		return ErrorStyle
	default:
		return SubtleStyle
	}
}
