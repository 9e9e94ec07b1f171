package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/competency/internal/assessment"
	"github.com/abhisek/competency/internal/ui/theme"
)

// Report renders a game situation update as a card, one block per
// competence, gains and losses colored.
func Report(r *assessment.Report) string {
	var b strings.Builder

	outcome := theme.Loss.Render("failed")
	if r.Success {
		outcome = theme.Gain.Render("succeeded")
	}
	fmt.Fprintf(&b, "%s %s\n", theme.Title.Render(r.GameSituationID), outcome)

	for _, c := range r.Changes {
		b.WriteString("\n" + theme.ID.Render(c.CompetenceID) + "\n")
		b.WriteString(valueLine("LV", c.Before.Learning, c.After.Learning))
		b.WriteString(levelLine("LL", c.LevelsBefore.Learning, c.LevelsAfter.Learning))
		b.WriteString(valueLine("AV", c.Before.Assessment, c.After.Assessment))
		b.WriteString(levelLine("AL", c.LevelsBefore.Assessment, c.LevelsAfter.Assessment))
	}

	return theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}

func valueLine(label string, before, after float64) string {
	return fmt.Sprintf("   %s %s\n",
		theme.Heading.Render(label+":"),
		theme.Delta(before, after).Render(fmt.Sprintf("%.4f->%.4f", before, after)))
}

func levelLine(label string, before, after int) string {
	return fmt.Sprintf("   %s %s\n",
		theme.Heading.Render(label+":"),
		theme.Delta(float64(before), float64(after)).Render(fmt.Sprintf("%d->%d", before, after)))
}
