package cmd

import (
	"github.com/abhisek/competency/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "competency",
	Short: "Adaptive competence assessment and recommendation",
	Long: "competency tracks a learner's mastery of a competence graph, decays it over time, " +
		"and recommends what to practise or assess next.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides COMPETENCY_DB env var)")
	flags.String("config", "", "Path to a YAML settings file")
	flags.String("learner", "", "Learner id (defaults to the configured storage prefix, then the active learner)")
	flags.String("log", "", "Log mode: dev, prod or nop (overrides log_mode)")
	flags.String("models", ".", "Directory searched for model documents not yet imported")

	rootCmd.AddCommand(modelCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(learnerCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured db_path (which COMPETENCY_DB overrides), then the
// default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
