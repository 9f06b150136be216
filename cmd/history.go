package cmd

import (
	"fmt"
	"strings"

	"github.com/quizziebot/quizzie/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List quizzes played on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		records, err := e.store.Results().List(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No quizzes played yet.")
			return nil
		}

		fmt.Printf("%-16s  %-30s  %7s  %6s  %6s  %s\n",
			"Played", "Topic", "Correct", "Score", "Time", "Mode")
		fmt.Println(strings.Repeat("─", 86))
		for _, r := range records {
			mode := "online"
			if r.Local {
				mode = "practice"
			}
			fmt.Printf("%-16s  %-30s  %3d/%-3d  %6d  %5.0fs  %s\n",
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(r.Topic, 30),
				r.CorrectAnswers, r.TotalQuestions,
				r.TotalScore,
				r.TotalTime,
				mode,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
}
