package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mll-dev/litassess/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "litassess",
	Short: "Literacy assessment generator",
	Long: "Litassess generates multi-level literacy assessments from course material:\n" +
		"7 multiple-choice and 3 open-ended questions per level, grounded in a\n" +
		"knowledge base and calibrated to the learner's background.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite event database (overrides LITASSESS_DB env var)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LITASSESS_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the event database for a command.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	return store.Open(dbPath)
}
