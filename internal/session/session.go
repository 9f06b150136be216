package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/quizziebot/quizzie/internal/quiz"
)

// Outcome describes how a question was resolved.
type Outcome struct {
	Index    int
	Question quiz.Question
	Answer   quiz.SubmittedAnswer
	Score    int
	Last     bool
}

// Correct reports whether the recorded answer was right.
func (o Outcome) Correct() bool { return o.Answer.IsCorrect }

// TickResult is returned by Tick for the current question.
type TickResult struct {
	Remaining  int
	Expired    bool
	Outcome    Outcome
	Transition Transition
}

// Session is a single play-through of a quiz. All methods are safe for
// concurrent use.
type Session struct {
	mu   sync.Mutex
	id   string
	quiz quiz.Quiz
	opts Options

	phase         Phase
	index         int
	score         int
	answers       []quiz.SubmittedAnswer
	remaining     int
	startTime     time.Time
	questionStart time.Time

	token   uint64
	pending *Transition

	lastOutcome    *Outcome
	submitInFlight bool
	result         *quiz.Result
}

// New starts a session at the first unanswered question. Quizzes without
// questions or with an ambiguous answer key are rejected.
func New(id string, q quiz.Quiz, opts Options) (*Session, error) {
	q.Normalize()
	if err := quiz.Validate(q); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if len(opts.Answers) > 0 && len(opts.Answers) >= len(q.Questions) {
		return nil, ErrResumeOutOfRange
	}
	if opts.Score < 0 || opts.Score > len(opts.Answers) {
		return nil, ErrResumeOutOfRange
	}

	now := opts.Now()
	s := &Session{
		id:            id,
		quiz:          q,
		opts:          opts,
		phase:         PhaseAnswering,
		index:         len(opts.Answers),
		score:         opts.Score,
		answers:       append([]quiz.SubmittedAnswer(nil), opts.Answers...),
		remaining:     opts.QuestionTicks,
		startTime:     now,
		questionStart: now,
	}
	return s, nil
}

// ID returns the opaque session identifier.
func (s *Session) ID() string { return s.id }

// Quiz returns the quiz being played.
func (s *Session) Quiz() quiz.Quiz { return s.quiz }

// Options returns the effective options.
func (s *Session) Options() Options { return s.opts }

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Index returns the current question index.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Total returns the number of questions.
func (s *Session) Total() int { return len(s.quiz.Questions) }

// Score returns the running score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Remaining returns the ticks left on the current question.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Question returns the current question.
func (s *Session) Question() quiz.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz.Questions[s.index]
}

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() []quiz.SubmittedAnswer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]quiz.SubmittedAnswer(nil), s.answers...)
}

// LastOutcome returns the most recently resolved question, if any.
func (s *Session) LastOutcome() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastOutcome == nil {
		return Outcome{}, false
	}
	return *s.lastOutcome, true
}

// Result returns the accepted result once the session is done.
func (s *Session) Result() (quiz.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return quiz.Result{}, false
	}
	return *s.result, true
}

// Elapsed returns wall time since the session started.
func (s *Session) Elapsed() time.Duration {
	return s.opts.Now().Sub(s.startTime)
}

// Select records choiceID for the current question, locks input, and
// schedules the move to the outcome screen after the lock delay.
func (s *Session) Select(choiceID string) (Outcome, Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseAnswering {
		return Outcome{}, Transition{}, ErrLocked
	}
	q := s.quiz.Questions[s.index]
	choice, ok := q.Choice(choiceID)
	if !ok {
		return Outcome{}, Transition{}, fmt.Errorf("%w: %q", ErrUnknownChoice, choiceID)
	}

	id := choice.ID
	out := s.resolve(quiz.SubmittedAnswer{
		QuestionID:     q.ID,
		ChosenAnswerID: &id,
		TimeTaken:      s.opts.Now().Sub(s.questionStart).Seconds(),
		Difficulty:     q.Difficulty,
		IsCorrect:      choice.IsCorrect,
	})
	t := s.schedule(s.opts.LockDelay, PhaseTransitioning)
	return out, t, nil
}

// Tick decrements the countdown for question index. It returns false for
// stale ticks (another question, or input already locked). When the
// countdown reaches zero the question is recorded as unanswered and a
// zero-delay transition is scheduled.
func (s *Session) Tick(index int) (TickResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseAnswering || index != s.index {
		return TickResult{}, false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		return TickResult{Remaining: s.remaining}, true
	}

	q := s.quiz.Questions[s.index]
	out := s.resolve(quiz.SubmittedAnswer{
		QuestionID: q.ID,
		TimeTaken:  (time.Duration(s.opts.QuestionTicks) * s.opts.TickInterval).Seconds(),
		Difficulty: q.Difficulty,
	})
	t := s.schedule(0, PhaseTransitioning)
	return TickResult{Expired: true, Outcome: out, Transition: t}, true
}

// resolve appends the answer and moves to Locked. Caller holds mu.
func (s *Session) resolve(a quiz.SubmittedAnswer) Outcome {
	s.answers = append(s.answers, a)
	if a.IsCorrect {
		s.score++
	}
	s.phase = PhaseLocked
	out := Outcome{
		Index:    s.index,
		Question: s.quiz.Questions[s.index],
		Answer:   a,
		Score:    s.score,
		Last:     s.index == len(s.quiz.Questions)-1,
	}
	s.lastOutcome = &out
	return out
}

// ScheduleTransition registers a pending move to phase to after delay and
// supersedes anything scheduled earlier.
func (s *Session) ScheduleTransition(delay time.Duration, to Phase) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule(delay, to)
}

func (s *Session) schedule(delay time.Duration, to Phase) Transition {
	s.token++
	t := Transition{SessionID: s.id, Token: s.token, To: to, Delay: delay}
	s.pending = &t
	return t
}

// ScheduleAdvance schedules the move off the outcome screen: to the next
// question, or to submission after the last one.
func (s *Session) ScheduleAdvance() (Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseTransitioning {
		return Transition{}, fmt.Errorf("%w: advance from %s", ErrInvalidTransition, s.phase)
	}
	to := PhaseAnswering
	if s.index >= len(s.quiz.Questions)-1 {
		to = PhaseSubmitting
	}
	return s.schedule(s.opts.OutcomeDelay, to), nil
}

// Fire applies the transition identified by token. Tokens that were
// cancelled or superseded return ErrStaleTransition and change nothing.
func (s *Session) Fire(token uint64) (Phase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil || s.pending.Token != token {
		return s.phase, ErrStaleTransition
	}
	t := *s.pending

	switch {
	case s.phase == PhaseLocked && t.To == PhaseTransitioning:
		s.phase = PhaseTransitioning
	case s.phase == PhaseTransitioning && t.To == PhaseAnswering && s.index < len(s.quiz.Questions)-1:
		s.index++
		s.remaining = s.opts.QuestionTicks
		s.questionStart = s.opts.Now()
		s.phase = PhaseAnswering
	case s.phase == PhaseTransitioning && t.To == PhaseSubmitting && s.index == len(s.quiz.Questions)-1:
		s.phase = PhaseSubmitting
	default:
		return s.phase, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.phase, t.To)
	}
	s.pending = nil
	return s.phase, nil
}

// Cancel invalidates any pending transition.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token++
	s.pending = nil
}

// BeginSubmit marks a submission in flight and returns its payload. It is
// rejected while another submission is in flight or after one succeeded.
func (s *Session) BeginSubmit(userID string) (quiz.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.phase == PhaseDone:
		return quiz.Submission{}, ErrAlreadySubmitted
	case s.phase != PhaseSubmitting:
		return quiz.Submission{}, ErrNotSubmitting
	case s.submitInFlight:
		return quiz.Submission{}, ErrSubmitInFlight
	}
	s.submitInFlight = true
	return quiz.Submission{
		IdempotencyKey: s.id,
		QuizID:         s.quiz.ID,
		UserID:         userID,
		Answers:        append([]quiz.SubmittedAnswer(nil), s.answers...),
		TotalTime:      s.opts.Now().Sub(s.startTime).Seconds(),
	}, nil
}

// CompleteSubmit records the accepted result and finishes the session.
func (s *Session) CompleteSubmit(r quiz.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitInFlight = false
	s.phase = PhaseDone
	s.result = &r
}

// FailSubmit clears the in-flight flag so the user can retry manually.
func (s *Session) FailSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitInFlight = false
}

// Submitting reports whether a submission is in flight.
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitInFlight
}

// LocalResult scores the session on-device, for quizzes the backend does
// not know about.
func (s *Session) LocalResult() quiz.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	correct := quiz.Tally(s.answers)
	return quiz.Result{
		NewTotalScore:  correct,
		CorrectAnswers: correct,
		TotalQuestions: len(s.quiz.Questions),
		Local:          true,
	}
}
