package cmd

import (
	"fmt"
	"strings"

	"github.com/quizziebot/quizzie/internal/api"
	"github.com/spf13/cobra"
)

var quizzesCmd = &cobra.Command{
	Use:   "quizzes",
	Short: "List the quizzes available on the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		quizzes, err := e.client.ListQuizzes(cmd.Context())
		if err != nil {
			return fmt.Errorf("list quizzes: %w", err)
		}
		if len(quizzes) == 0 {
			fmt.Println("No quizzes found.")
			return nil
		}

		fmt.Printf("%-26s  %-40s  %s\n", "ID", "Topic", "Questions")
		fmt.Println(strings.Repeat("─", 80))
		for _, q := range quizzes {
			fmt.Printf("%-26s  %-40s  %d\n", q.ID, truncate(q.Topic, 40), q.QuestionCount)
		}
		return nil
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top players",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		entries, err := e.client.Leaderboard(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("load leaderboard: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No scores yet.")
			return nil
		}

		me, _ := e.auth.CurrentUserID()
		fmt.Printf("%-5s  %-24s  %8s\n", "Rank", "Player", "Score")
		fmt.Println(strings.Repeat("─", 42))
		for i, en := range entries {
			marker := ""
			if me != "" && en.ID == me {
				marker = "  ← you"
			}
			fmt.Printf("%-5d  %-24s  %8d%s\n", i+1, truncate(en.Username, 24), en.Score, marker)
		}
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().IntP("limit", "n", api.DefaultLeaderboardLimit, "Number of players to show")
}
