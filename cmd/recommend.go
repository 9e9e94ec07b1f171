package cmd

import (
	"fmt"

	"github.com/abhisek/competency/internal/assessment"
	"github.com/abhisek/competency/internal/ui/theme"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest what to present next",
}

var recommendCompetenceCmd = &cobra.Command{
	Use:   "competence",
	Short: "Suggest the competence to practise or assess next",
	RunE: withLearner(func(cmd *cobra.Command, args []string, s *session) error {
		typeName, _ := cmd.Flags().GetString("type")
		typ, err := assessment.ParseUpdateType(typeName)
		if err != nil {
			return err
		}
		id, ok, err := s.engine.CompetenceRecommendation(cmd.Context(), typ)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(theme.Hint.Render("Nothing to recommend: the model has no competences."))
			return nil
		}
		fmt.Println(theme.ID.Render(id))
		return nil
	}),
}

var recommendGamesituationCmd = &cobra.Command{
	Use:     "gamesituation",
	Aliases: []string{"gs"},
	Short:   "Suggest the best game situations to play next",
	RunE: withLearner(func(cmd *cobra.Command, args []string, s *session) error {
		ctx := cmd.Context()
		k, _ := cmd.Flags().GetInt("count")

		if scores, _ := cmd.Flags().GetBool("scores"); scores {
			ranked, assessing, err := s.engine.RankedGamesituations(ctx)
			if err != nil {
				return err
			}
			mode := "learning"
			if assessing {
				mode = "assessment"
			}
			fmt.Println(theme.Heading.Render("mode: " + mode))
			for i, sc := range ranked {
				if i == k {
					break
				}
				fmt.Printf("%s %s\n", theme.ID.Render(sc.ID), theme.Hint.Render(fmt.Sprintf("%.4f", sc.Value)))
			}
			return nil
		}

		ids, err := s.engine.GamesituationRecommendation(ctx, k)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println(theme.Hint.Render("No game situation fits the current mode."))
			return nil
		}
		for _, id := range ids {
			fmt.Println(theme.ID.Render(id))
		}
		return nil
	}),
}

func init() {
	recommendCompetenceCmd.Flags().String("type", string(assessment.UpdateLearning), "Update type: LEARNING or ASSESSMENT")
	recommendGamesituationCmd.Flags().IntP("count", "k", 1, "Number of game situations to return")
	recommendGamesituationCmd.Flags().Bool("scores", false, "Show ranking scores and the selection mode")

	recommendCmd.AddCommand(recommendCompetenceCmd)
	recommendCmd.AddCommand(recommendGamesituationCmd)
}
