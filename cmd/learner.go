package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/competency/internal/config"
	"github.com/abhisek/competency/internal/store"
	"github.com/abhisek/competency/internal/ui/theme"
	"github.com/spf13/cobra"
)

var learnerCmd = &cobra.Command{
	Use:   "learner",
	Short: "Show, list or switch learners",
}

var learnerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the learner commands act on",
	RunE: withLearner(func(cmd *cobra.Command, args []string, s *session) error {
		fmt.Println(theme.ID.Render(s.learner))
		return nil
	}),
}

var learnerNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a learner and make it active",
	RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
		id, err := newLearner(cmd.Context(), s.docs)
		if err != nil {
			return err
		}
		fmt.Printf("Active learner is now %s\n", theme.ID.Render(id))
		return nil
	}),
}

var learnerUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make an existing learner id active",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
		if err := s.docs.Save(cmd.Context(), activeLearnerKey, args[0]); err != nil {
			return fmt.Errorf("save active learner: %w", err)
		}
		fmt.Printf("Active learner is now %s\n", theme.ID.Render(args[0]))
		return nil
	}),
}

var learnerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learners with stored state",
	RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
		ctx := cmd.Context()
		ids, err := listLearners(ctx, s.docs)
		if err != nil {
			return err
		}
		active, err := activeLearner(ctx, s.docs)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if id == active {
				fmt.Printf("%s %s\n", theme.ID.Render(id), theme.Hint.Render("(active)"))
				continue
			}
			fmt.Println(id)
		}
		fmt.Printf("\n%d learners\n", len(ids))
		return nil
	}),
}

var learnerDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a learner's stored state",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
		if err := deleteLearner(cmd.Context(), s.docs, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted learner %s\n", theme.ID.Render(args[0]))
		return nil
	}),
}

// listLearners returns the ids of every learner with a stored state
// document, in key order.
func listLearners(ctx context.Context, docs store.DocumentRepo) ([]string, error) {
	keys, err := docs.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	var ids []string
	for _, k := range keys {
		if id, ok := config.LearnerOfStateKey(k); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// deleteLearner removes a learner's state document. Deleting the active
// learner also clears the active marker, so the next command starts a new
// learner.
func deleteLearner(ctx context.Context, docs store.DocumentRepo, id string) error {
	settings := config.Settings{CompetenceValueStoragePrefix: id}
	if err := docs.Delete(ctx, settings.StateKey()); err != nil {
		return fmt.Errorf("delete learner %q: %w", id, err)
	}
	active, err := activeLearner(ctx, docs)
	if err != nil {
		return err
	}
	if active == id {
		if err := docs.Delete(ctx, activeLearnerKey); err != nil {
			return fmt.Errorf("clear active learner: %w", err)
		}
	}
	return nil
}

func init() {
	learnerCmd.AddCommand(learnerShowCmd)
	learnerCmd.AddCommand(learnerNewCmd)
	learnerCmd.AddCommand(learnerUseCmd)
	learnerCmd.AddCommand(learnerListCmd)
	learnerCmd.AddCommand(learnerDeleteCmd)
}
