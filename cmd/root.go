package cmd

import (
	"context"

	"github.com/quizziebot/quizzie/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quizzie",
	Short: "Terminal quiz game",
	Long:  "Quizzie: play timed multiple-choice quizzes from the Quizzie backend in your terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
	SilenceUsage: true,
}

// Execute runs the CLI. Cancelling ctx stops the TUI and any request in
// flight.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides QUIZZIE_CONFIG env var)")
	rootCmd.PersistentFlags().String("api-url", "", "Backend base URL (overrides config and QUIZZIE_API_URL)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZZIE_DB env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(quizzesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file or QUIZZIE_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
