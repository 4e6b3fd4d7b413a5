package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/luxscan/internal/ui/theme"
)

// ShareBar draws a labelled horizontal bar for a part of a whole.
type ShareBar struct {
	Label      string
	LabelWidth int
	Part       int
	Whole      int
	Width      int
}

// NewShareBar creates a bar for part out of whole.
func NewShareBar(label string, labelWidth, part, whole, width int) ShareBar {
	return ShareBar{
		Label:      label,
		LabelWidth: labelWidth,
		Part:       part,
		Whole:      whole,
		Width:      width,
	}
}

// Percent returns the share in [0, 1]. An empty whole is zero.
func (b ShareBar) Percent() float64 {
	if b.Whole <= 0 || b.Part <= 0 {
		return 0
	}
	p := float64(b.Part) / float64(b.Whole)
	if p > 1 {
		return 1
	}
	return p
}

// View renders the bar.
func (b ShareBar) View() string {
	label := b.Label
	if pad := b.LabelWidth - lipgloss.Width(label); pad > 0 {
		label += strings.Repeat(" ", pad)
	}
	result := theme.Label.Render(label) + "  "

	barWidth := b.Width
	if barWidth < 4 {
		barWidth = 4
	}
	filled := int(float64(barWidth) * b.Percent())
	empty := barWidth - filled

	result += theme.BarFilled.Render(strings.Repeat("█", filled))
	result += theme.BarEmpty.Render(strings.Repeat("░", empty))
	result += theme.Hint.Render(fmt.Sprintf("  %3d%%", int(b.Percent()*100)))
	return result
}
