package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, muted so reports stay readable on light and dark terminals
var (
	Primary   = lipgloss.Color("#F59E0B") // Amber
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Warning   = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Label = lipgloss.NewStyle().Foreground(TextDim)
	Value = lipgloss.NewStyle().Foreground(Text).Bold(true)
	Hint  = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
)

// Layout
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// States
var (
	Saved = lipgloss.NewStyle().Foreground(Success)
	Warn  = lipgloss.NewStyle().Foreground(Warning).Bold(true)
)

// Components
var (
	BarFilled = lipgloss.NewStyle().Foreground(Secondary)
	BarEmpty  = lipgloss.NewStyle().Foreground(Border)
)
