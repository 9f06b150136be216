package quizgen

// Config controls the Generator.
type Config struct {
	// Validators run in order on every generated quiz; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for one response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions caps how many earlier questions are listed in the
	// prompt so the model avoids repeating them.
	MaxPriorQuestions int

	// MaxAttempts is how many times a quiz that fails a retryable
	// validator is regenerated.
	MaxAttempts int

	// DefaultQuestions is used when the quiz config asks for none.
	DefaultQuestions int
}

// DefaultConfig returns the standard validator chain and limits.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&AnswerKeyValidator{},
			&DuplicateValidator{},
		},
		MaxTokens:         4096,
		Temperature:       0.7,
		MaxPriorQuestions: 20,
		MaxAttempts:       2,
		DefaultQuestions:  5,
	}
}
