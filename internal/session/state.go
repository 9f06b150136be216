package session

import (
	"errors"
	"time"

	"github.com/quizziebot/quizzie/internal/quiz"
)

// Phase is the current phase of a quiz session.
type Phase int

const (
	PhaseAnswering     Phase = iota // Countdown running, input enabled
	PhaseLocked                     // Answer recorded, waiting to show the outcome
	PhaseTransitioning              // Outcome on screen, waiting to advance
	PhaseSubmitting                 // All questions resolved, result not yet accepted
	PhaseDone                       // Result accepted
)

func (p Phase) String() string {
	switch p {
	case PhaseAnswering:
		return "answering"
	case PhaseLocked:
		return "locked"
	case PhaseTransitioning:
		return "transitioning"
	case PhaseSubmitting:
		return "submitting"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

const (
	DefaultQuestionTicks = 10
	DefaultLockDelay     = 1200 * time.Millisecond
	DefaultOutcomeDelay  = 3 * time.Second
)

var (
	ErrLocked            = errors.New("question is locked")
	ErrUnknownChoice     = errors.New("unknown answer choice")
	ErrStaleTransition   = errors.New("transition was cancelled or superseded")
	ErrInvalidTransition = errors.New("invalid phase transition")
	ErrNotSubmitting     = errors.New("session is not ready to submit")
	ErrSubmitInFlight    = errors.New("submission already in flight")
	ErrAlreadySubmitted  = errors.New("session already submitted")
	ErrResumeOutOfRange  = errors.New("resumed progress does not fit the quiz")
	ErrSessionNotFound   = errors.New("session not found")
)

// Options tunes timing and allows resuming from prior progress.
// Zero delays are honoured as immediate; negative ones fall back to defaults.
type Options struct {
	QuestionTicks int
	TickInterval  time.Duration
	LockDelay     time.Duration
	OutcomeDelay  time.Duration

	// Score and Answers resume a session part-way through.
	Score   int
	Answers []quiz.SubmittedAnswer

	// Now is the wall clock used for timeTaken; defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the standard timings.
func DefaultOptions() Options {
	return Options{
		QuestionTicks: DefaultQuestionTicks,
		TickInterval:  time.Second,
		LockDelay:     DefaultLockDelay,
		OutcomeDelay:  DefaultOutcomeDelay,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.QuestionTicks <= 0 {
		o.QuestionTicks = d.QuestionTicks
	}
	if o.TickInterval <= 0 {
		o.TickInterval = d.TickInterval
	}
	if o.LockDelay < 0 {
		o.LockDelay = d.LockDelay
	}
	if o.OutcomeDelay < 0 {
		o.OutcomeDelay = d.OutcomeDelay
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Transition is a scheduled phase change. Only the most recently
// scheduled, uncancelled token can fire.
type Transition struct {
	SessionID string
	Token     uint64
	To        Phase
	Delay     time.Duration
}
