package quizgen

import (
	"fmt"
	"strings"

	"github.com/quizziebot/quizzie/internal/quiz"
)

// Validator checks a generated quiz. Implementations are stateless.
type Validator interface {
	// Name is a short identifier for error messages, e.g. "structural".
	Name() string

	Validate(q quiz.Quiz, in Input) *ValidationError
}

// ValidationError describes why a quiz was rejected.
type ValidationError struct {
	Validator string
	Message   string

	// Retryable reports whether regenerating is likely to help.
	Retryable bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

const (
	maxQuestionLen = 500
	maxAnswerLen   = 200
	minAnswers     = 2
	maxAnswers     = 6
)

// StructuralValidator checks counts and lengths.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q quiz.Quiz, in Input) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}
	if len(q.Questions) == 0 {
		return fail("no questions")
	}
	if want := in.questionCount(); len(q.Questions) > want {
		return fail("%d questions, asked for %d", len(q.Questions), want)
	}
	for i, qq := range q.Questions {
		if strings.TrimSpace(qq.Text) == "" {
			return fail("question %d is empty", i+1)
		}
		if len(qq.Text) > maxQuestionLen {
			return fail("question %d exceeds %d characters", i+1, maxQuestionLen)
		}
		if n := len(qq.Answers); n < minAnswers || n > maxAnswers {
			return fail("question %d has %d answers, want %d-%d", i+1, n, minAnswers, maxAnswers)
		}
		for j, a := range qq.Answers {
			if strings.TrimSpace(a.Text) == "" {
				return fail("question %d answer %d is empty", i+1, j+1)
			}
			if len(a.Text) > maxAnswerLen {
				return fail("question %d answer %d exceeds %d characters", i+1, j+1, maxAnswerLen)
			}
		}
	}
	return nil
}

// AnswerKeyValidator requires exactly one correct answer per question.
type AnswerKeyValidator struct{}

func (v *AnswerKeyValidator) Name() string { return "answer-key" }

func (v *AnswerKeyValidator) Validate(q quiz.Quiz, _ Input) *ValidationError {
	if err := quiz.Validate(q); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error(), Retryable: true}
	}
	return nil
}

// DuplicateValidator rejects repeated questions, both within the quiz and
// against the prior questions in the input, and repeated choices within a
// question.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(q quiz.Quiz, in Input) *ValidationError {
	seen := make(map[string]bool, len(q.Questions)+len(in.Prior))
	for _, p := range in.Prior {
		seen[normalizeText(p)] = true
	}
	for i, qq := range q.Questions {
		key := normalizeText(qq.Text)
		if seen[key] {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("question %d repeats an earlier question", i+1), Retryable: true}
		}
		seen[key] = true

		choices := make(map[string]bool, len(qq.Answers))
		for _, a := range qq.Answers {
			ck := normalizeText(a.Text)
			if choices[ck] {
				return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("question %d has duplicate choice %q", i+1, a.Text), Retryable: true}
			}
			choices[ck] = true
		}
	}
	return nil
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
