package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/competency/internal/ui/theme"
)

// MasteryBar renders a mastery value in [0,1] as a horizontal bar with
// level boundaries marked.
type MasteryBar struct {
	Value  float64
	Levels int
	Width  int
}

// NewMasteryBar creates a new mastery bar.
func NewMasteryBar(value float64, levels, width int) MasteryBar {
	return MasteryBar{
		Value:  value,
		Levels: levels,
		Width:  width,
	}
}

// Cells returns the number of filled cells.
func (b MasteryBar) Cells() int {
	width := max(b.Width, 4)
	filled := int(float64(width) * b.Value)
	return max(0, min(filled, width))
}

// View renders the bar followed by the value.
func (b MasteryBar) View() string {
	width := max(b.Width, 4)
	filled := b.Cells()

	var bar strings.Builder
	for i := 0; i < width; i++ {
		ch := "─"
		if b.Levels > 1 && i > 0 && i*b.Levels%width < b.Levels {
			ch = "┼"
		}
		if i < filled {
			bar.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render("█"))
		} else {
			bar.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(ch))
		}
	}

	return bar.String() + lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf(" %.3f", b.Value))
}
