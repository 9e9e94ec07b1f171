package cmd

import (
	"fmt"

	"github.com/abhisek/competency/internal/ui/theme"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	RunE: withLearner(func(cmd *cobra.Command, args []string, s *session) error {
		if err := s.engine.ResetState(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Reset mastery of learner %s\n", theme.ID.Render(s.learner))
		return nil
	}),
}
