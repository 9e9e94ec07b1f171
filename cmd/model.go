package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/abhisek/competency/internal/competence"
	"github.com/abhisek/competency/internal/store"
	"github.com/abhisek/competency/internal/ui/theme"
	"github.com/spf13/cobra"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect and manage the competence model",
}

var modelShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the competence model",
	RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
		key := s.engine.Settings().SourceFile
		m, err := s.engine.LoadDataModel(cmd.Context(), key)
		if err != nil {
			return err
		}
		fmt.Println(theme.Title.Render(key))
		fmt.Print(m.Describe())
		return nil
	}),
}

var modelImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate a model document and store it in the database",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
		m, err := readModelFile(cmd.Context(), args[0], s)
		if err != nil {
			return err
		}
		key := targetKey(cmd, s)
		if err := s.engine.StoreDataModel(cmd.Context(), m, key); err != nil {
			return err
		}
		fmt.Printf("Imported %s as %s (%d competences, %d game situations)\n",
			args[0], theme.ID.Render(key), len(m.Competences()), len(m.GameSituations()))
		return nil
	}),
}

var modelExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the stored model to a file (format follows the extension)",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
		m, err := s.engine.LoadDataModel(cmd.Context(), s.engine.Settings().SourceFile)
		if err != nil {
			return err
		}
		text, err := competence.Encode(args[0], m)
		if err != nil {
			return err
		}
		out := store.Dir{Root: filepath.Dir(args[0])}
		if err := out.Save(cmd.Context(), filepath.Base(args[0]), text); err != nil {
			return err
		}
		fmt.Printf("Exported %d competences to %s\n", len(m.Competences()), args[0])
		return nil
	}),
}

var modelValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a model document without storing it",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
		m, err := readModelFile(cmd.Context(), args[0], s)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s: %d competences, %d difficulties, %d game situations\n",
			theme.Gain.Render("ok"), args[0],
			len(m.Competences()), len(m.Difficulties()), len(m.GameSituations()))
		return nil
	}),
}

var modelDummyCmd = &cobra.Command{
	Use:   "dummy <n>",
	Short: "Store a model of n unrelated competences C1..Cn",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(cmd *cobra.Command, args []string, s *session) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("n must be a positive integer, got %q", args[0])
		}
		key := targetKey(cmd, s)
		if err := s.engine.StoreDataModel(cmd.Context(), competence.Dummy(n, s.log), key); err != nil {
			return err
		}
		fmt.Printf("Stored dummy model with %d competences as %s\n", n, theme.ID.Render(key))
		return nil
	}),
}

// readModelFile decodes and validates a model document from disk.
func readModelFile(ctx context.Context, path string, s *session) (*competence.Model, error) {
	dir := store.Dir{Root: filepath.Dir(path)}
	text, err := dir.Load(ctx, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	m, err := competence.DecodeStrict(path, text, s.log)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func targetKey(cmd *cobra.Command, s *session) string {
	if key, _ := cmd.Flags().GetString("as"); key != "" {
		return key
	}
	return s.engine.Settings().SourceFile
}

func init() {
	modelImportCmd.Flags().String("as", "", "Key to store the model under (defaults to source_file)")
	modelDummyCmd.Flags().String("as", "", "Key to store the model under (defaults to source_file)")

	modelCmd.AddCommand(modelShowCmd)
	modelCmd.AddCommand(modelImportCmd)
	modelCmd.AddCommand(modelExportCmd)
	modelCmd.AddCommand(modelValidateCmd)
	modelCmd.AddCommand(modelDummyCmd)
}
