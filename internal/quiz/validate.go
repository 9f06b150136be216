package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrNoQuestions        = errors.New("no questions found")
	ErrNoAnswers          = errors.New("question has no answers")
	ErrAmbiguousAnswerKey = errors.New("question must have exactly one correct answer")
	ErrDuplicateChoice    = errors.New("duplicate answer id")
)

// Validate checks that a quiz can be played: at least one question, and
// every question has answers with unique IDs and exactly one correct choice.
// Call Normalize first so positional IDs are assigned.
func Validate(q Quiz) error {
	if len(q.Questions) == 0 {
		return ErrNoQuestions
	}
	for i, qq := range q.Questions {
		if len(qq.Answers) == 0 {
			return fmt.Errorf("question %d (%s): %w", i+1, qq.ID, ErrNoAnswers)
		}
		seen := make(map[string]bool, len(qq.Answers))
		correct := 0
		for _, a := range qq.Answers {
			if seen[a.ID] {
				return fmt.Errorf("question %d (%s): %w %q", i+1, qq.ID, ErrDuplicateChoice, a.ID)
			}
			seen[a.ID] = true
			if a.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("question %d (%s) has %d correct answers: %w", i+1, qq.ID, correct, ErrAmbiguousAnswerKey)
		}
	}
	return nil
}
