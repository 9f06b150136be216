package session

import "github.com/quizziebot/quizzie/internal/quiz"

// Progress is a read-only view of where a session stands, for rendering.
type Progress struct {
	Phase     Phase
	Index     int
	Total     int
	Score     int
	Remaining int
	Ticks     int
	Answered  int
	Question  quiz.Question
}

// Fraction returns the share of questions resolved, in [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Answered) / float64(p.Total)
}

// TimeFraction returns the share of the countdown still left, in [0, 1].
func (p Progress) TimeFraction() float64 {
	if p.Ticks == 0 {
		return 0
	}
	return float64(p.Remaining) / float64(p.Ticks)
}

// Progress snapshots the session under a single lock.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress{
		Phase:     s.phase,
		Index:     s.index,
		Total:     len(s.quiz.Questions),
		Score:     s.score,
		Remaining: s.remaining,
		Ticks:     s.opts.QuestionTicks,
		Answered:  len(s.answers),
		Question:  s.quiz.Questions[s.index],
	}
}
