package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quizziebot/quizzie/internal/quiz"
	"github.com/quizziebot/quizzie/internal/quizgen"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a practice quiz locally with the configured LLM",
	Long: `Generate a practice quiz on this machine and print it.

Requires an LLM provider (set QUIZZIE_GEMINI_API_KEY, QUIZZIE_OPENAI_API_KEY,
QUIZZIE_ANTHROPIC_API_KEY or QUIZZIE_OPENROUTER_API_KEY). Nothing is sent to
the Quizzie backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		level, _ := cmd.Flags().GetString("level")
		count, _ := cmd.Flags().GetInt("count")
		answers, _ := cmd.Flags().GetBool("answers")

		cfg, err := quiz.Preset(quiz.Level(level))
		if err != nil {
			return err
		}
		if count > 0 {
			cfg.MultipleChoiceCount = count
		}

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		if e.generator == nil {
			return errors.New("no LLM provider configured")
		}

		fmt.Printf("Generating %s quiz on %q with %s...\n\n", level, topic, e.generator.ModelID())
		q, err := e.generator.Generate(cmd.Context(), quizgen.Input{
			Topic:    topic,
			Level:    quiz.Level(level),
			Config:   cfg,
			Language: e.prefs.Language(),
		})
		if err != nil {
			return fmt.Errorf("generate quiz: %w", err)
		}
		printQuiz(q, answers)
		return nil
	},
}

func printQuiz(q quiz.Quiz, answers bool) {
	fmt.Println(q.Topic)
	fmt.Println(strings.Repeat("─", 60))
	for i, qq := range q.Questions {
		fmt.Printf("%d. %s\n", i+1, qq.Text)
		for j, a := range qq.Answers {
			mark := " "
			if answers && a.IsCorrect {
				mark = "✓"
			}
			fmt.Printf("   %s %c) %s\n", mark, 'A'+j, a.Text)
		}
		fmt.Println()
	}
}

func init() {
	generateCmd.Flags().StringP("topic", "t", "", "Quiz topic (required)")
	generateCmd.Flags().StringP("level", "l", string(quiz.LevelBasic), "Level preset: basic, intermediate or advanced")
	generateCmd.Flags().IntP("count", "n", 0, "Number of questions (defaults to the level preset)")
	generateCmd.Flags().Bool("answers", false, "Mark the correct answers")
	_ = generateCmd.MarkFlagRequired("topic")
}
