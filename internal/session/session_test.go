package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/quizziebot/quizzie/internal/quiz"
)

// fakeClock is a manually advanced wall clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func twoPlusTwo() quiz.Quiz {
	return quiz.Quiz{
		ID: "q1",
		Questions: []quiz.Question{{
			ID:   "1",
			Text: "2+2?",
			Answers: []quiz.Answer{
				{ID: "a", Text: "3"},
				{ID: "b", Text: "4", IsCorrect: true},
			},
		}},
	}
}

func threeQuestions() quiz.Quiz {
	q := quiz.Quiz{ID: "q3"}
	for _, id := range []string{"1", "2", "3"} {
		q.Questions = append(q.Questions, quiz.Question{
			ID:   id,
			Text: "Question " + id,
			Answers: []quiz.Answer{
				{ID: "1", Text: "wrong"},
				{ID: "2", Text: "right", IsCorrect: true},
			},
		})
	}
	return q
}

func testOptions(clock *fakeClock) Options {
	opts := DefaultOptions()
	opts.Now = clock.Now
	return opts
}

func newTestSession(t *testing.T, q quiz.Quiz) (*Session, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	s, err := New("sess-1", q, testOptions(clock))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, clock
}

// fire applies t and fails the test on error.
func fire(t *testing.T, s *Session, tr Transition) Phase {
	t.Helper()
	p, err := s.Fire(tr.Token)
	if err != nil {
		t.Fatalf("fire %v: %v", tr.To, err)
	}
	return p
}

func TestNewRejectsEmptyQuiz(t *testing.T) {
	_, err := New("x", quiz.Quiz{ID: "empty"}, DefaultOptions())
	if !errors.Is(err, quiz.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestNewRejectsAmbiguousAnswerKey(t *testing.T) {
	q := twoPlusTwo()
	q.Questions[0].Answers[0].IsCorrect = true
	_, err := New("x", q, DefaultOptions())
	if !errors.Is(err, quiz.ErrAmbiguousAnswerKey) {
		t.Fatalf("expected ErrAmbiguousAnswerKey, got %v", err)
	}
}

func TestSelectCorrectIncrementsScore(t *testing.T) {
	s, clock := newTestSession(t, twoPlusTwo())
	clock.Advance(3 * time.Second)

	out, tr, err := s.Select("b")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if !out.Correct() {
		t.Error("expected correct outcome")
	}
	if out.Score != 1 || s.Score() != 1 {
		t.Errorf("score = %d, want 1", s.Score())
	}
	if out.Answer.TimeTaken != 3 {
		t.Errorf("timeTaken = %v, want 3", out.Answer.TimeTaken)
	}
	if tr.Delay != DefaultLockDelay {
		t.Errorf("lock delay = %v, want %v", tr.Delay, DefaultLockDelay)
	}
	if tr.To != PhaseTransitioning {
		t.Errorf("transition to %v, want transitioning", tr.To)
	}
	if s.Phase() != PhaseLocked {
		t.Errorf("phase = %v, want locked", s.Phase())
	}
}

func TestSelectIncorrectKeepsScore(t *testing.T) {
	s, _ := newTestSession(t, twoPlusTwo())

	out, _, err := s.Select("a")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if out.Correct() {
		t.Error("expected incorrect outcome")
	}
	if s.Score() != 0 {
		t.Errorf("score = %d, want 0", s.Score())
	}
	if got := *out.Answer.ChosenAnswerID; got != "a" {
		t.Errorf("chosen = %q, want a", got)
	}
}

func TestSelectUnknownChoice(t *testing.T) {
	s, _ := newTestSession(t, twoPlusTwo())
	_, _, err := s.Select("zzz")
	if !errors.Is(err, ErrUnknownChoice) {
		t.Fatalf("expected ErrUnknownChoice, got %v", err)
	}
	if s.Phase() != PhaseAnswering {
		t.Errorf("phase = %v, want answering", s.Phase())
	}
}

func TestSelectWhenLockedIsNoop(t *testing.T) {
	s, _ := newTestSession(t, twoPlusTwo())
	if _, _, err := s.Select("a"); err != nil {
		t.Fatalf("select: %v", err)
	}
	_, _, err := s.Select("b")
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if s.Score() != 0 {
		t.Errorf("score changed to %d", s.Score())
	}
	if n := len(s.Answers()); n != 1 {
		t.Errorf("answers = %d, want 1", n)
	}
}

func TestSelectAfterTimeoutIsNoop(t *testing.T) {
	s, _ := newTestSession(t, twoPlusTwo())
	for i := 0; i < DefaultQuestionTicks; i++ {
		s.Tick(0)
	}
	if s.Phase() != PhaseLocked {
		t.Fatalf("phase = %v, want locked after expiry", s.Phase())
	}
	_, _, err := s.Select("b")
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if s.Score() != 0 {
		t.Errorf("score = %d, want 0", s.Score())
	}
}

func TestTickCountsDownAndExpires(t *testing.T) {
	s, _ := newTestSession(t, twoPlusTwo())

	for i := 1; i < DefaultQuestionTicks; i++ {
		res, ok := s.Tick(0)
		if !ok {
			t.Fatalf("tick %d ignored", i)
		}
		if res.Expired {
			t.Fatalf("expired early at tick %d", i)
		}
		if res.Remaining != DefaultQuestionTicks-i {
			t.Errorf("remaining = %d, want %d", res.Remaining, DefaultQuestionTicks-i)
		}
	}

	res, ok := s.Tick(0)
	if !ok || !res.Expired {
		t.Fatal("expected final tick to expire the question")
	}
	if res.Transition.Delay != 0 {
		t.Errorf("timeout transition delay = %v, want 0", res.Transition.Delay)
	}
	a := res.Outcome.Answer
	if !a.TimedOut() {
		t.Error("expected null chosen answer")
	}
	if a.TimeTaken != 10 {
		t.Errorf("timeTaken = %v, want full window 10", a.TimeTaken)
	}
	if a.IsCorrect {
		t.Error("timeout must be incorrect")
	}
}

func TestStaleTickIgnored(t *testing.T) {
	s, _ := newTestSession(t, threeQuestions())
	if _, ok := s.Tick(1); ok {
		t.Error("tick for another question should be ignored")
	}
	if s.Remaining() != DefaultQuestionTicks {
		t.Errorf("remaining = %d, want untouched", s.Remaining())
	}
}

func TestFireRejectsSupersededToken(t *testing.T) {
	s, _ := newTestSession(t, twoPlusTwo())
	_, first, _ := s.Select("b")
	second := s.ScheduleTransition(0, PhaseTransitioning)

	if _, err := s.Fire(first.Token); !errors.Is(err, ErrStaleTransition) {
		t.Fatalf("expected ErrStaleTransition, got %v", err)
	}
	if p := fire(t, s, second); p != PhaseTransitioning {
		t.Errorf("phase = %v, want transitioning", p)
	}
	// Firing twice is stale.
	if _, err := s.Fire(second.Token); !errors.Is(err, ErrStaleTransition) {
		t.Fatalf("expected stale on refire, got %v", err)
	}
}

func TestCancelInvalidatesPending(t *testing.T) {
	s, _ := newTestSession(t, twoPlusTwo())
	_, tr, _ := s.Select("b")
	s.Cancel()

	if _, err := s.Fire(tr.Token); !errors.Is(err, ErrStaleTransition) {
		t.Fatalf("expected ErrStaleTransition after cancel, got %v", err)
	}
	if s.Phase() != PhaseLocked {
		t.Errorf("phase = %v, want locked", s.Phase())
	}
}

func TestIndexAdvancesByOne(t *testing.T) {
	s, _ := newTestSession(t, threeQuestions())

	for i := 0; i < 3; i++ {
		if s.Index() != i {
			t.Fatalf("index = %d, want %d", s.Index(), i)
		}
		if n := len(s.Answers()); n != i {
			t.Fatalf("answers = %d at question %d", n, i)
		}
		_, tr, err := s.Select("2")
		if err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
		if n := len(s.Answers()); n != i+1 {
			t.Fatalf("answers = %d after resolving %d, want %d", n, i, i+1)
		}
		fire(t, s, tr)

		adv, err := s.ScheduleAdvance()
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		if adv.Delay != DefaultOutcomeDelay {
			t.Errorf("outcome delay = %v", adv.Delay)
		}
		p := fire(t, s, adv)
		if i < 2 && p != PhaseAnswering {
			t.Fatalf("phase after %d = %v, want answering", i, p)
		}
		if i == 2 && p != PhaseSubmitting {
			t.Fatalf("phase after last = %v, want submitting", p)
		}
		if s.Index() > s.Total()-1 {
			t.Fatalf("index %d exceeds bound", s.Index())
		}
	}
}

func TestTimeoutOnLastQuestionSubmits(t *testing.T) {
	s, _ := newTestSession(t, twoPlusTwo())

	var res TickResult
	for i := 0; i < DefaultQuestionTicks; i++ {
		res, _ = s.Tick(0)
	}
	fire(t, s, res.Transition)
	adv, err := s.ScheduleAdvance()
	if err != nil {
		t.Fatal(err)
	}
	if p := fire(t, s, adv); p != PhaseSubmitting {
		t.Fatalf("phase = %v, want submitting", p)
	}

	sub, err := s.BeginSubmit("user-1")
	if err != nil {
		t.Fatalf("begin submit: %v", err)
	}
	if len(sub.Answers) != s.Total() {
		t.Errorf("answers = %d, want %d", len(sub.Answers), s.Total())
	}
	if sub.Answers[0].ChosenAnswerID != nil {
		t.Error("expected null chosenAnswerId for timeout")
	}
}

func TestAllCorrectRoundTrip(t *testing.T) {
	s, _ := newTestSession(t, threeQuestions())
	for i := 0; i < s.Total(); i++ {
		_, tr, err := s.Select("2")
		if err != nil {
			t.Fatal(err)
		}
		fire(t, s, tr)
		adv, _ := s.ScheduleAdvance()
		fire(t, s, adv)
	}

	sub, err := s.BeginSubmit("u")
	if err != nil {
		t.Fatal(err)
	}
	if len(sub.Answers) != 3 {
		t.Fatalf("answers = %d, want 3", len(sub.Answers))
	}
	for i, a := range sub.Answers {
		if !a.IsCorrect {
			t.Errorf("answer %d not correct", i)
		}
	}
	r := s.LocalResult()
	if r.CorrectAnswers != 3 || r.TotalQuestions != 3 {
		t.Errorf("result = %d/%d, want 3/3", r.CorrectAnswers, r.TotalQuestions)
	}
	if s.Score() != 3 {
		t.Errorf("score = %d, want 3", s.Score())
	}
}

func TestSubmitGuards(t *testing.T) {
	s, clock := newTestSession(t, twoPlusTwo())

	if _, err := s.BeginSubmit("u"); !errors.Is(err, ErrNotSubmitting) {
		t.Fatalf("expected ErrNotSubmitting, got %v", err)
	}

	_, tr, _ := s.Select("b")
	fire(t, s, tr)
	adv, _ := s.ScheduleAdvance()
	fire(t, s, adv)
	clock.Advance(5 * time.Second)

	sub, err := s.BeginSubmit("u")
	if err != nil {
		t.Fatal(err)
	}
	if sub.IdempotencyKey != "sess-1" || sub.QuizID != "q1" || sub.UserID != "u" {
		t.Errorf("unexpected submission %+v", sub)
	}
	if sub.TotalTime != 5 {
		t.Errorf("totalTime = %v, want 5", sub.TotalTime)
	}

	if _, err := s.BeginSubmit("u"); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	s.FailSubmit()
	if _, err := s.BeginSubmit("u"); err != nil {
		t.Fatalf("manual retry after failure: %v", err)
	}

	s.CompleteSubmit(quiz.Result{CorrectAnswers: 1, TotalQuestions: 1})
	if _, err := s.BeginSubmit("u"); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
	r, ok := s.Result()
	if !ok || r.CorrectAnswers != 1 {
		t.Errorf("result = %+v", r)
	}
	if s.Phase() != PhaseDone {
		t.Errorf("phase = %v, want done", s.Phase())
	}
}

func TestResumeFromAnswers(t *testing.T) {
	chosen := "2"
	opts := DefaultOptions()
	opts.Score = 1
	opts.Answers = []quiz.SubmittedAnswer{{QuestionID: "1", ChosenAnswerID: &chosen, IsCorrect: true}}

	s, err := New("r", threeQuestions(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if s.Index() != 1 || s.Score() != 1 {
		t.Errorf("index=%d score=%d, want 1/1", s.Index(), s.Score())
	}

	opts.Answers = make([]quiz.SubmittedAnswer, 3)
	if _, err := New("r", threeQuestions(), opts); !errors.Is(err, ErrResumeOutOfRange) {
		t.Errorf("expected ErrResumeOutOfRange, got %v", err)
	}
}

func TestResumeRejectsScoreAboveAnswers(t *testing.T) {
	for _, score := range []int{5, -1} {
		opts := DefaultOptions()
		opts.Score = score
		if _, err := New("r", threeQuestions(), opts); !errors.Is(err, ErrResumeOutOfRange) {
			t.Errorf("score %d: expected ErrResumeOutOfRange, got %v", score, err)
		}
	}
}

func TestAdvanceOnlyFromTransitioning(t *testing.T) {
	s, _ := newTestSession(t, twoPlusTwo())
	if _, err := s.ScheduleAdvance(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestProgress(t *testing.T) {
	s, _ := newTestSession(t, threeQuestions())
	s.Tick(0)
	p := s.Progress()
	if p.Total != 3 || p.Remaining != DefaultQuestionTicks-1 || p.Question.ID != "1" {
		t.Errorf("unexpected progress %+v", p)
	}
	if p.TimeFraction() != 0.9 {
		t.Errorf("time fraction = %v, want 0.9", p.TimeFraction())
	}
}
