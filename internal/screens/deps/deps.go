// Package deps carries the services every screen is built from, so screens
// can construct each other without reaching for globals.
package deps

import (
	"context"
	"errors"
	"log/slog"

	"github.com/quizziebot/quizzie/internal/api"
	"github.com/quizziebot/quizzie/internal/auth"
	"github.com/quizziebot/quizzie/internal/prefs"
	"github.com/quizziebot/quizzie/internal/quiz"
	"github.com/quizziebot/quizzie/internal/quizgen"
	"github.com/quizziebot/quizzie/internal/session"
	"github.com/quizziebot/quizzie/internal/store"
)

// Backend is the part of the API client the screens call.
type Backend interface {
	ListQuizzes(ctx context.Context) ([]quiz.Quiz, error)
	GetQuiz(ctx context.Context, quizID string) (quiz.Quiz, error)
	CreateQuiz(ctx context.Context, topic string, cfg quiz.Config, level quiz.Level) (string, error)
	AnalyzeContext(ctx context.Context, topic string) (api.ContextAnalysis, error)
	SubmitResult(ctx context.Context, sub quiz.Submission) (*quiz.Result, error)
	FetchRecommendedQuizzes(ctx context.Context, userID string) ([]quiz.Quiz, error)
	Leaderboard(ctx context.Context, limit int) ([]api.LeaderboardEntry, error)
	GetUserStatistics(ctx context.Context, id string) (*api.UserStatistics, error)
	UpdateUser(ctx context.Context, id string, upd api.UserUpdate) (*api.User, error)
	UpdateAvatar(ctx context.Context, id, avatar string) (*api.User, error)
	UpdateFavoriteTopics(ctx context.Context, id string, topics []string) error
}

var _ Backend = (*api.Client)(nil)

// Deps is shared by every screen. Generator and Results may be nil.
type Deps struct {
	Base      context.Context
	Backend   Backend
	Auth      *auth.Service
	Prefs     *prefs.Service
	Sessions  *session.Registry
	Results   store.ResultRepo
	Generator *quizgen.Generator
	Logger    *slog.Logger
}

// Context returns the program context that in-flight requests are bound to.
func (d *Deps) Context() context.Context {
	if d.Base == nil {
		return context.Background()
	}
	return d.Base
}

// Log returns the logger, discarding output when none was configured.
func (d *Deps) Log() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

// SignedInMsg is sent to the screen below the sign-in form once the user
// has signed in or signed up.
type SignedInMsg struct {
	User api.User
}

// ErrorText renders err for an alert banner, preferring the backend's own
// message when there is one.
func ErrorText(action string, err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return action + ": " + apiErr.Message
	}
	return action + ": " + err.Error()
}
