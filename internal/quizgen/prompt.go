package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write multiple-choice quizzes for a trivia game.

Rules:
- Every question has between 2 and 6 answers and exactly one of them is correct.
- Distractors are plausible; avoid "all of the above" and "none of the above".
- Questions are self-contained and unambiguous, and each can be read in under 15 seconds.
- Spread the questions across the requested difficulty mix.
- Do not repeat any question from the "already asked" list.
- Answer in the language requested.`

const topicsPrompt = `You suggest quiz topics. Return short topic names (one to four words) closely related to the given topic, most relevant first.`

// buildUserMessage describes the quiz to generate.
func buildUserMessage(in Input, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	fmt.Fprintf(&b, "Level: %s\n", in.Level)
	fmt.Fprintf(&b, "Number of questions: %d\n", in.questionCount())
	d := in.Config.DifficultyDistribution
	fmt.Fprintf(&b, "Difficulty mix: basic %.0f%%, intermediate %.0f%%, advanced %.0f%%\n",
		d.Basic*100, d.Intermediate*100, d.Advanced*100)
	if in.Config.IncludeHints {
		b.WriteString("Explanations: detailed\n")
	} else {
		b.WriteString("Explanations: one sentence\n")
	}
	fmt.Fprintf(&b, "Language: %s\n", in.language())

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildDedup(in.Prior, cfg.MaxPriorQuestions))
	return b.String()
}

// buildDedup lists the most recent max prior questions, or "None".
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}
	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
