package cmd

import (
	"fmt"

	"github.com/abhisek/competency/internal/ui/components"
	"github.com/abhisek/competency/internal/ui/theme"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the learner's mastery of every competence",
	RunE: withLearner(func(cmd *cobra.Command, args []string, s *session) error {
		ctx := cmd.Context()
		values, err := s.engine.CompetenceValues(ctx)
		if err != nil {
			return err
		}
		levels, err := s.engine.CompetenceLevels(ctx)
		if err != nil {
			return err
		}

		// Model order, not map order.
		comps := s.engine.Model().Competences()
		rows := make([]components.MasteryRow, 0, len(comps))
		for _, c := range comps {
			rows = append(rows, components.MasteryRow{
				ID:     c.ID,
				Values: values[c.ID],
				Levels: levels[c.ID],
			})
		}

		width, _ := cmd.Flags().GetInt("width")
		fmt.Println(theme.Title.Render("Learner " + s.learner))
		fmt.Print(components.MasteryTable(rows, s.engine.Settings().NumberOfLevels, width))
		return nil
	}),
}

func init() {
	statsCmd.Flags().Int("width", 20, "Width of each mastery bar")
}
