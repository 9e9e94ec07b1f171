package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/competency/internal/assessment"
	"github.com/abhisek/competency/internal/ui/theme"
)

// MasteryRow is one competence line of the mastery table.
type MasteryRow struct {
	ID     string
	Values assessment.Values
	Levels assessment.Levels
}

// MasteryTable renders learning and assessment bars for each row.
func MasteryTable(rows []MasteryRow, levels, barWidth int) string {
	idWidth := len("Competence")
	for _, r := range rows {
		idWidth = max(idWidth, lipgloss.Width(r.ID))
	}
	col := barWidth + 6 + 5 // bar, " 0.000", "  L0 "

	var b strings.Builder
	b.WriteString(theme.Heading.Render(fmt.Sprintf("%-*s  %-*s  %-*s",
		idWidth, "Competence", col, "Learning", col, "Assessment")))
	b.WriteString("\n")
	b.WriteString(theme.Rule.Render(strings.Repeat("─", idWidth+2*col+4)))
	b.WriteString("\n")

	for _, r := range rows {
		id := theme.ID.Render(r.ID) + strings.Repeat(" ", idWidth-lipgloss.Width(r.ID))
		learn := NewMasteryBar(r.Values.Learning, levels, barWidth).View()
		assess := NewMasteryBar(r.Values.Assessment, levels, barWidth).View()
		fmt.Fprintf(&b, "%s  %s %s  %s %s\n",
			id,
			learn, theme.Hint.Render(fmt.Sprintf("L%d", r.Levels.Learning)),
			assess, theme.Hint.Render(fmt.Sprintf("L%d", r.Levels.Assessment)))
	}

	fmt.Fprintf(&b, "\n%d competences\n", len(rows))
	return b.String()
}
