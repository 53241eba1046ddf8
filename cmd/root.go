package cmd

import (
	"os"

	"github.com/abhisek/practiz/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "practiz",
	Short: "AI exercise generator and grader",
	Long: `Practiz generates practice exercises with LLM backends, grades answers
and serves both over HTTP or in an interactive terminal session.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PRACTIZ_DB env var)")
	rootCmd.PersistentFlags().String("log-mode", os.Getenv("PRACTIZ_LOG_MODE"), "Log mode: prod, dev or quiet")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PRACTIZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
