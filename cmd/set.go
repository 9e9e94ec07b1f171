package cmd

import (
	"fmt"
	"strconv"

	"github.com/abhisek/competency/internal/ui/theme"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <competence> <learning> <assessment>",
	Short: "Overwrite a competence's mastery values",
	Args:  cobra.ExactArgs(3),
	RunE: withLearner(func(cmd *cobra.Command, args []string, s *session) error {
		learning, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("learning value: %w", err)
		}
		assessmentValue, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("assessment value: %w", err)
		}
		if err := s.engine.SetCompetenceValues(cmd.Context(), args[0], learning, assessmentValue); err != nil {
			return err
		}
		fmt.Printf("%s learning=%g assessment=%g\n", theme.ID.Render(args[0]), learning, assessmentValue)
		return nil
	}),
}
