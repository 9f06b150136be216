package screentest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/quizziebot/quizzie/internal/api"
	"github.com/quizziebot/quizzie/internal/auth"
	"github.com/quizziebot/quizzie/internal/prefs"
	"github.com/quizziebot/quizzie/internal/quiz"
	"github.com/quizziebot/quizzie/internal/screens/deps"
	"github.com/quizziebot/quizzie/internal/session"
	"github.com/quizziebot/quizzie/internal/store"
)

// Backend is an in-memory stand-in for the API client. Set the Err fields
// to make the matching call fail.
type Backend struct {
	mu sync.Mutex

	Quizzes     map[string]quiz.Quiz
	Recommended []quiz.Quiz
	Users       map[string]api.User
	Passwords   map[string]string
	Stats       map[string]*api.UserStatistics
	Board       []api.LeaderboardEntry
	Analysis    api.ContextAnalysis
	Favorites   map[string][]string

	// Result is returned by SubmitResult; nil scores the submission.
	Result *quiz.Result

	ListErr, GetErr, CreateErr, SubmitErr, LoginErr, LeaderboardErr, StatsErr, UpdateErr error

	Submissions []quiz.Submission
	Created     []quiz.Config
	nextID      int
}

var (
	_ deps.Backend = (*Backend)(nil)
	_ auth.Backend = (*Backend)(nil)
)

// NewBackend returns a backend holding qs.
func NewBackend(qs ...quiz.Quiz) *Backend {
	b := &Backend{
		Quizzes:   make(map[string]quiz.Quiz),
		Users:     make(map[string]api.User),
		Passwords: make(map[string]string),
		Stats:     make(map[string]*api.UserStatistics),
		Favorites: make(map[string][]string),
	}
	for _, q := range qs {
		b.Quizzes[q.ID] = q
	}
	return b
}

// AddUser registers an account that can sign in with password.
func (b *Backend) AddUser(u api.User, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Users[u.ID] = u
	b.Passwords[u.Email] = password
}

// Submitted returns a copy of the received submissions.
func (b *Backend) Submitted() []quiz.Submission {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]quiz.Submission(nil), b.Submissions...)
}

func (b *Backend) ListQuizzes(context.Context) ([]quiz.Quiz, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ListErr != nil {
		return nil, b.ListErr
	}
	var out []quiz.Quiz
	for _, q := range b.Quizzes {
		meta := q
		meta.QuestionCount = len(q.Questions)
		meta.Questions = nil
		out = append(out, meta)
	}
	return out, nil
}

func (b *Backend) GetQuiz(_ context.Context, id string) (quiz.Quiz, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.GetErr != nil {
		return quiz.Quiz{}, b.GetErr
	}
	q, ok := b.Quizzes[id]
	if !ok {
		return quiz.Quiz{}, &api.Error{StatusCode: http.StatusNotFound, Message: "quiz not found"}
	}
	return q, nil
}

func (b *Backend) CreateQuiz(_ context.Context, topic string, cfg quiz.Config, _ quiz.Level) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.CreateErr != nil {
		return "", b.CreateErr
	}
	b.nextID++
	id := fmt.Sprintf("created-%d", b.nextID)
	q := quiz.Quiz{ID: id, Topic: topic}
	for i := range cfg.MultipleChoiceCount {
		q.Questions = append(q.Questions, quiz.Question{
			Text: fmt.Sprintf("%s question %d", topic, i+1),
			Answers: []quiz.Answer{
				{Text: "yes", IsCorrect: true},
				{Text: "no"},
			},
		})
	}
	b.Quizzes[id] = q
	b.Created = append(b.Created, cfg)
	return id, nil
}

func (b *Backend) AnalyzeContext(context.Context, string) (api.ContextAnalysis, error) {
	return b.Analysis, nil
}

func (b *Backend) SubmitResult(_ context.Context, sub quiz.Submission) (*quiz.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Submissions = append(b.Submissions, sub)
	if b.SubmitErr != nil {
		return nil, b.SubmitErr
	}
	if b.Result != nil {
		r := *b.Result
		return &r, nil
	}
	correct := quiz.Tally(sub.Answers)
	return &quiz.Result{
		NewTotalScore:  correct * 10,
		CorrectAnswers: correct,
		TotalQuestions: len(sub.Answers),
	}, nil
}

func (b *Backend) FetchRecommendedQuizzes(context.Context, string) ([]quiz.Quiz, error) {
	return b.Recommended, nil
}

func (b *Backend) Leaderboard(_ context.Context, limit int) ([]api.LeaderboardEntry, error) {
	if b.LeaderboardErr != nil {
		return nil, b.LeaderboardErr
	}
	return b.Board[:min(limit, len(b.Board))], nil
}

func (b *Backend) GetUserStatistics(_ context.Context, id string) (*api.UserStatistics, error) {
	if b.StatsErr != nil {
		return nil, b.StatsErr
	}
	if st, ok := b.Stats[id]; ok {
		return st, nil
	}
	return &api.UserStatistics{}, nil
}

func (b *Backend) UpdateUser(_ context.Context, id string, upd api.UserUpdate) (*api.User, error) {
	return b.editUser(id, func(u *api.User) {
		if upd.Username != "" {
			u.Username = upd.Username
		}
		if upd.Email != "" {
			u.Email = upd.Email
		}
	})
}

func (b *Backend) UpdateAvatar(_ context.Context, id, avatar string) (*api.User, error) {
	return b.editUser(id, func(u *api.User) { u.Avatar = avatar })
}

func (b *Backend) editUser(id string, edit func(*api.User)) (*api.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.UpdateErr != nil {
		return nil, b.UpdateErr
	}
	u, ok := b.Users[id]
	if !ok {
		return nil, &api.Error{StatusCode: http.StatusNotFound, Message: "user not found"}
	}
	edit(&u)
	b.Users[id] = u
	return &u, nil
}

func (b *Backend) UpdateFavoriteTopics(_ context.Context, id string, topics []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Favorites[id] = topics
	return nil
}

func (b *Backend) Login(_ context.Context, email, password string) (*api.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.LoginErr != nil {
		return nil, b.LoginErr
	}
	if b.Passwords[email] != password || password == "" {
		return nil, &api.Error{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password"}
	}
	for _, u := range b.Users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, &api.Error{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password"}
}

func (b *Backend) Register(_ context.Context, req api.RegisterRequest) (*api.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, taken := b.Passwords[req.Email]; taken {
		return nil, &api.Error{StatusCode: http.StatusConflict, Message: "Email already registered"}
	}
	u := api.User{ID: "u-" + req.Username, Username: req.Username, Email: req.Email}
	b.Users[u.ID] = u
	b.Passwords[req.Email] = req.Password
	return &u, nil
}

func (b *Backend) GetUser(_ context.Context, id string) (*api.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.Users[id]
	if !ok {
		return nil, &api.Error{StatusCode: http.StatusNotFound, Message: "user not found"}
	}
	return &u, nil
}

// Options returns session timings suited to tests: one-millisecond ticks
// and immediate transitions.
func Options(ticks int) session.Options {
	return session.Options{
		QuestionTicks: ticks,
		TickInterval:  time.Millisecond,
	}
}

// NewDeps wires b into in-memory services. Its countdown never runs out
// during a test; use Options for sessions whose ticks the test drives.
func NewDeps(t testing.TB, b *Backend) *deps.Deps {
	t.Helper()
	return &deps.Deps{
		Base:     context.Background(),
		Backend:  b,
		Auth:     auth.New(b, nil, nil),
		Prefs:    prefs.New(nil),
		Sessions: session.NewRegistry(session.Options{QuestionTicks: 5, TickInterval: time.Hour}),
		Results:  &Results{},
	}
}

// Results is an in-memory result history.
type Results struct {
	mu   sync.Mutex
	Recs []store.ResultRecord
}

func (r *Results) Append(_ context.Context, rec store.ResultRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Recs {
		if existing.SessionID == rec.SessionID {
			return nil
		}
	}
	r.Recs = append([]store.ResultRecord{rec}, r.Recs...)
	return nil
}

func (r *Results) List(_ context.Context, opts store.QueryOpts) ([]store.ResultRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]store.ResultRecord(nil), r.Recs...)
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Records returns a copy of the stored records.
func (r *Results) Records() []store.ResultRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]store.ResultRecord(nil), r.Recs...)
}
