package quiz

import (
	"encoding/json"
	"strconv"
)

// Answer is one selectable choice of a question.
type Answer struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// UnmarshalJSON accepts both "isCorrect" and the older "correct" flag.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        json.RawMessage `json:"id"`
		Text      string          `json:"text"`
		IsCorrect *bool           `json:"isCorrect"`
		Correct   *bool           `json:"correct"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.ID = flexibleID(raw.ID)
	a.Text = raw.Text
	switch {
	case raw.IsCorrect != nil:
		a.IsCorrect = *raw.IsCorrect
	case raw.Correct != nil:
		a.IsCorrect = *raw.Correct
	}
	return nil
}

// Question is immutable once fetched.
type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Answers     []Answer `json:"answers"`
	Explanation string   `json:"explanation,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
}

// UnmarshalJSON accepts numeric IDs and "question" as an alias for "text".
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          json.RawMessage `json:"id"`
		Text        string          `json:"text"`
		Question    string          `json:"question"`
		Answers     []Answer        `json:"answers"`
		Explanation string          `json:"explanation"`
		Difficulty  string          `json:"difficulty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	q.ID = flexibleID(raw.ID)
	q.Text = raw.Text
	if q.Text == "" {
		q.Text = raw.Question
	}
	q.Answers = raw.Answers
	q.Explanation = raw.Explanation
	q.Difficulty = raw.Difficulty
	return nil
}

// Choice looks up an answer by ID.
func (q Question) Choice(id string) (Answer, bool) {
	for _, a := range q.Answers {
		if a.ID == id {
			return a, true
		}
	}
	return Answer{}, false
}

// CorrectAnswer returns the first answer flagged correct.
func (q Question) CorrectAnswer() (Answer, bool) {
	for _, a := range q.Answers {
		if a.IsCorrect {
			return a, true
		}
	}
	return Answer{}, false
}

// Quiz is a topic plus its questions. Listing endpoints return the
// metadata fields without questions.
type Quiz struct {
	ID            string     `json:"id"`
	Topic         string     `json:"topic"`
	Questions     []Question `json:"questions,omitempty"`
	QuestionCount int        `json:"questionCount,omitempty"`
	CreatedAt     string     `json:"createdAt,omitempty"`
	UpdatedAt     string     `json:"updatedAt,omitempty"`
	Score         float64    `json:"score,omitempty"`
}

// Normalize fills in missing IDs with positional ones so choices and
// questions can always be addressed.
func (q *Quiz) Normalize() {
	for i := range q.Questions {
		qq := &q.Questions[i]
		if qq.ID == "" {
			qq.ID = strconv.Itoa(i + 1)
		}
		for j := range qq.Answers {
			if qq.Answers[j].ID == "" {
				qq.Answers[j].ID = strconv.Itoa(j)
			}
		}
	}
	if q.QuestionCount == 0 {
		q.QuestionCount = len(q.Questions)
	}
}

// SubmittedAnswer is appended once per resolved question.
// ChosenAnswerID is nil when the question timed out.
type SubmittedAnswer struct {
	QuestionID     string  `json:"questionId"`
	ChosenAnswerID *string `json:"chosenAnswerId"`
	TimeTaken      float64 `json:"timeTaken"`
	Difficulty     string  `json:"difficulty,omitempty"`
	IsCorrect      bool    `json:"isCorrect"`
}

// TimedOut reports whether no choice was made.
func (s SubmittedAnswer) TimedOut() bool {
	return s.ChosenAnswerID == nil
}

func flexibleID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}
