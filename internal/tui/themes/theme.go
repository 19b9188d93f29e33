// Package themes holds the dashboard color schemes.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Bold       lipgloss.Style
	Selected   lipgloss.Style
	StatusBar  lipgloss.Style
	Error      lipgloss.Style
	Box        lipgloss.Style
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Success    lipgloss.Color
	Danger     lipgloss.Color
	Foreground lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary:    lipgloss.Color("#1F9D55"),
	Muted:      lipgloss.Color("#737373"),
	Border:     lipgloss.Color("#404040"),
	Success:    lipgloss.Color("#10b981"),
	Danger:     lipgloss.Color("#ef4444"),
	Foreground: lipgloss.Color("#fafafa"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#1F9D55")).
		Padding(0, 1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Selected: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1F9D55")),
	StatusBar: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(lipgloss.Color("#404040")),
	Error: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ef4444")),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
}

// Mono renders without color for plain terminals and recordings.
var Mono = Theme{
	Title:     lipgloss.NewStyle().Bold(true),
	Subtitle:  lipgloss.NewStyle(),
	Normal:    lipgloss.NewStyle(),
	Bold:      lipgloss.NewStyle().Bold(true),
	Selected:  lipgloss.NewStyle().Underline(true),
	StatusBar: lipgloss.NewStyle(),
	Error:     lipgloss.NewStyle().Bold(true),
	Box:       lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
}

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	if name == "mono" {
		return Mono
	}
	return Default
}
