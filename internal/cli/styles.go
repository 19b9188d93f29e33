// Package cli renders ledger reports, plans and tax estimates for the
// terminal and holds the small interactive helpers the commands share.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. Green is the brand colour; red and teal carry variance meaning.
var (
	PrimaryColor = lipgloss.Color("#1F9D55")
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	InfoColor    = lipgloss.Color("#95E1D3")
	SubtleColor  = lipgloss.Color("#666666")
	RuleColor    = lipgloss.Color("#333333")
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).MarginBottom(1)
	SubtitleStyle = lipgloss.NewStyle().Foreground(SubtleColor).MarginBottom(1)
	SubtleStyle   = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle     = lipgloss.NewStyle().Bold(true)
	PromptStyle   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)

	// FavorableStyle marks money on the right side of the plan: spending
	// below budget or income above it.
	FavorableStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	// UnfavorableStyle marks overspending and income shortfalls.
	UnfavorableStyle = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	// IncomeStyle colours inflows in transaction lists.
	IncomeStyle = lipgloss.NewStyle().Foreground(PrimaryColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(RuleColor).
			Padding(1, 2)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(RuleColor)
)

const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	NairaIcon   = "₦"
	ReportIcon  = "📊"
	LockIcon    = "🔒"
	UnlockIcon  = "🔓"
)

// Tone picks the variance style for a figure.
func Tone(favorable bool) lipgloss.Style {
	if favorable {
		return FavorableStyle
	}
	return UnfavorableStyle
}

func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle renders a report heading.
func FormatTitle(title string) string {
	return TitleStyle.Render(ReportIcon + " " + title)
}

// FormatPrompt renders a question ending in an arrow for inline answers.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox draws content under a title inside a rounded border.
func RenderBox(title, content string) string {
	heading := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}
