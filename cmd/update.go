package cmd

import (
	"fmt"

	"github.com/abhisek/competency/internal/assessment"
	"github.com/abhisek/competency/internal/ui/components"
	"github.com/abhisek/competency/internal/ui/theme"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Record evidence of success or failure",
}

var updateCompetenceCmd = &cobra.Command{
	Use:   "competence <id>",
	Short: "Record evidence for a single competence",
	Args:  cobra.ExactArgs(1),
	RunE: withLearner(func(cmd *cobra.Command, args []string, s *session) error {
		typeName, _ := cmd.Flags().GetString("type")
		typ, err := assessment.ParseUpdateType(typeName)
		if err != nil {
			return err
		}
		success, quality := evidenceFlags(cmd)

		ctx := cmd.Context()
		before, err := s.engine.CompetenceValues(ctx)
		if err != nil {
			return err
		}
		if err := s.engine.UpdateCompetence(ctx, args[0], success, typ, quality); err != nil {
			return err
		}
		after, err := s.engine.CompetenceValues(ctx)
		if err != nil {
			return err
		}

		b, a := before[args[0]], after[args[0]]
		fmt.Printf("%s %s\n", theme.ID.Render(args[0]), theme.Hint.Render(string(typ)))
		fmt.Printf("   learning   %s\n", theme.Delta(b.Learning, a.Learning).Render(fmt.Sprintf("%.4f->%.4f", b.Learning, a.Learning)))
		fmt.Printf("   assessment %s\n", theme.Delta(b.Assessment, a.Assessment).Render(fmt.Sprintf("%.4f->%.4f", b.Assessment, a.Assessment)))
		return nil
	}),
}

var updateGamesituationCmd = &cobra.Command{
	Use:     "gamesituation <id>",
	Aliases: []string{"gs"},
	Short:   "Record the outcome of a played game situation",
	Args:    cobra.ExactArgs(1),
	RunE: withLearner(func(cmd *cobra.Command, args []string, s *session) error {
		success, quality := evidenceFlags(cmd)
		report, err := s.engine.UpdateGamesituation(cmd.Context(), args[0], success, quality)
		if report != nil {
			if plain, _ := cmd.Flags().GetBool("plain"); plain {
				fmt.Print(report.String())
			} else {
				fmt.Println(components.Report(report))
			}
		}
		return err
	}),
}

func evidenceFlags(cmd *cobra.Command) (success bool, quality float64) {
	failed, _ := cmd.Flags().GetBool("fail")
	quality, _ = cmd.Flags().GetFloat64("quality")
	return !failed, quality
}

func init() {
	for _, c := range []*cobra.Command{updateCompetenceCmd, updateGamesituationCmd} {
		c.Flags().Bool("fail", false, "Record a failure instead of a success")
		c.Flags().Float64("quality", 1, "Quality of the evidence in [0, 1]")
	}
	updateCompetenceCmd.Flags().String("type", string(assessment.UpdateLearning), "Update type: LEARNING or ASSESSMENT")
	updateGamesituationCmd.Flags().Bool("plain", false, "Print the unstyled report")

	updateCmd.AddCommand(updateCompetenceCmd)
	updateCmd.AddCommand(updateGamesituationCmd)
}
