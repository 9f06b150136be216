package quiz

// Submission is the payload posted when a session finishes.
// IdempotencyKey travels as a request header, not in the body.
type Submission struct {
	IdempotencyKey string            `json:"-"`
	QuizID         string            `json:"quizId"`
	UserID         string            `json:"userId"`
	Answers        []SubmittedAnswer `json:"answers"`
	TotalTime      float64           `json:"totalTime"`
}

// Result is the scored outcome of a submission.
type Result struct {
	NewTotalScore   int      `json:"newTotalScore"`
	CoinsEarned     int      `json:"coinsEarned"`
	XPEarned        int      `json:"xpEarned"`
	CorrectAnswers  int      `json:"correctAnswers"`
	TotalQuestions  int      `json:"totalQuestions"`
	SuggestedTopics []string `json:"suggestedTopics"`
	RelatedQuizzes  []Quiz   `json:"relatedQuizzes"`

	// Local is set when the result was computed on-device without the backend.
	Local bool `json:"-"`
}

// Tally counts correct answers.
func Tally(answers []SubmittedAnswer) int {
	n := 0
	for _, a := range answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// AverageTime returns the mean seconds spent per answer.
func AverageTime(answers []SubmittedAnswer) float64 {
	if len(answers) == 0 {
		return 0
	}
	var total float64
	for _, a := range answers {
		total += a.TimeTaken
	}
	return total / float64(len(answers))
}
