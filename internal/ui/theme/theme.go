package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	ID = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// Evidence
var (
	Gain = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Loss = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Unchanged = lipgloss.NewStyle().
		Foreground(TextDim)
)

// Containers
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Rule = lipgloss.NewStyle().
		Foreground(Border)
)

// Delta picks Gain, Loss or Unchanged for a before/after pair.
func Delta(before, after float64) lipgloss.Style {
	switch {
	case after > before:
		return Gain
	case after < before:
		return Loss
	default:
		return Unchanged
	}
}
