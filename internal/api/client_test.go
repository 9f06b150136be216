package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizziebot/quizzie/internal/cache"
	"github.com/quizziebot/quizzie/internal/quiz"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", opts...)
}

func TestListQuizzesCached(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/api/quizzes", r.URL.Path)
		assert.Equal(t, "vi", r.Header.Get("Accept-Language"))
		w.Write([]byte(`[{"id":"q1","topic":"Go","questionCount":10,"score":0.5}]`))
	},
		WithCache(cache.NewLoader(cache.NewMemory(), time.Minute)),
		WithLanguage(func() string { return "vi" }),
	)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		got, err := c.ListQuizzes(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Go", got[0].Topic)
		assert.Equal(t, 10, got[0].QuestionCount)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestCreateQuizReadsNestedID(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		err  error
	}{
		{"top level", `{"id":"abc"}`, "abc", nil},
		{"nested", `{"quiz":{"id":"xyz"}}`, "xyz", nil},
		{"missing", `{}`, "", ErrMissingQuizID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/create", r.URL.Path)
				var in map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
				assert.Equal(t, "Go", in["topic"])
				assert.Equal(t, "advanced", in["level"])
				cfg := in["config"].(map[string]any)
				assert.EqualValues(t, 10, cfg["multipleChoiceCount"])
				w.Write([]byte(tt.body))
			})
			cfg, err := quiz.Preset(quiz.LevelAdvanced)
			require.NoError(t, err)
			id, err := c.CreateQuiz(context.Background(), "Go", cfg, quiz.LevelAdvanced)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestGetQuizShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrapped", `{"quiz":{"id":"q1","topic":"Math","questions":[{"id":"1","text":"2+2?","answers":[{"id":"a","text":"4","isCorrect":true},{"id":"b","text":"3","isCorrect":false}]}]}}`},
		{"flat", `{"id":"q1","topic":"Math","questions":[{"id":"1","text":"2+2?","answers":[{"id":"a","text":"4","isCorrect":true},{"id":"b","text":"3","isCorrect":false}]}]}`},
		{"legacy flags", `{"quiz":{"id":"q1","topic":"Math"},"questions":[{"question":"2+2?","answers":[{"text":"4","correct":true},{"text":"3","correct":false}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/quizzes/q1", r.URL.Path)
				w.Write([]byte(tt.body))
			})
			q, err := c.GetQuiz(context.Background(), "q1")
			require.NoError(t, err)
			assert.Equal(t, "q1", q.ID)
			require.Len(t, q.Questions, 1)
			assert.Equal(t, "2+2?", q.Questions[0].Text)
			right, ok := q.Questions[0].CorrectAnswer()
			require.True(t, ok)
			assert.Equal(t, "4", right.Text)
			assert.NotEmpty(t, right.ID)
			assert.NoError(t, quiz.Validate(q))
		})
	}
}

func TestSubmitResultSendsIdempotencyKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quizzes/submit-result", r.URL.Path)
		assert.Equal(t, "sess-1", r.Header.Get("Idempotency-Key"))

		var body struct {
			QuizID  string `json:"quizId"`
			UserID  string `json:"userId"`
			Answers []struct {
				QuestionID     string  `json:"questionId"`
				ChosenAnswerID *string `json:"chosenAnswerId"`
			} `json:"answers"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "q1", body.QuizID)
		assert.Equal(t, "u1", body.UserID)
		require.Len(t, body.Answers, 1)
		assert.Nil(t, body.Answers[0].ChosenAnswerID)

		w.Write([]byte(`{"newTotalScore":12,"coinsEarned":5,"xpEarned":20,"correctAnswers":1,"totalQuestions":1,"suggestedTopics":["Algebra"]}`))
	})

	res, err := c.SubmitResult(context.Background(), quiz.Submission{
		IdempotencyKey: "sess-1",
		QuizID:         "q1",
		UserID:         "u1",
		Answers:        []quiz.SubmittedAnswer{{QuestionID: "1", TimeTaken: 10}},
		TotalTime:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, res.NewTotalScore)
	assert.Equal(t, 1, res.CorrectAnswers)
	assert.Equal(t, []string{"Algebra"}, res.SuggestedTopics)
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message field", http.StatusUnauthorized, `{"message":"bad credentials"}`, "bad credentials"},
		{"error field", http.StatusConflict, `{"error":"email taken"}`, "email taken"},
		{"plain text", http.StatusBadGateway, "upstream down", "upstream down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := c.Login(context.Background(), "a@b.c", "pw")
			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.True(t, IsStatus(err, tt.status))
		})
	}
}

func TestTransportErrorWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).ListQuizzes(context.Background())
	require.Error(t, err)
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
}

func TestLoginAcceptsWrappedUser(t *testing.T) {
	for _, body := range []string{
		`{"user":{"id":"u1","username":"ann","email":"a@b.c","score":7}}`,
		`{"id":"u1","username":"ann","email":"a@b.c","score":7}`,
	} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/login", r.URL.Path)
			w.Write([]byte(body))
		})
		u, err := c.Login(context.Background(), "a@b.c", "pw")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		assert.Equal(t, 7, u.Score)
	}
}

func TestRegisterSendsEmptyTopics(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users", r.URL.Path)
		var in map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, []any{}, in["favoriteTopics"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"u2","username":"bob","email":"b@c.d"}`))
	})
	u, err := c.Register(context.Background(), RegisterRequest{Username: "bob", Email: "b@c.d"})
	require.NoError(t, err)
	assert.Equal(t, "u2", u.ID)
}

func TestProfileEndpoints(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /api/users/u1":
			w.Write([]byte(`{"id":"u1","username":"ann","score":3}`))
		case "PUT /api/users/u1":
			w.Write([]byte(`{"id":"u1","username":"anna","score":3}`))
		case "GET /api/users/u1/statistics":
			w.Write([]byte(`{"quizzesTaken":4,"correctAnswers":9,"totalQuestions":12,"accuracy":0.75}`))
		case "PUT /api/users/u1/avatar":
			w.Write([]byte(`{"id":"u1","avatar":"https://x/y.png"}`))
		case "PUT /api/users/u1/favorite-topics":
			var in struct {
				Topics []string `json:"topics"`
				Action string   `json:"action"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, []string{"Go", "Rust"}, in.Topics)
			assert.Equal(t, "replace", in.Action)
			w.WriteHeader(http.StatusNoContent)
		case "GET /api/recommended/u1":
			w.Write([]byte(`{"quizzes":[{"id":"r1","topic":"Go"}]}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	u, err := c.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ann", u.Username)

	u, err = c.UpdateUser(ctx, "u1", UserUpdate{Username: "anna"})
	require.NoError(t, err)
	assert.Equal(t, "anna", u.Username)

	st, err := c.GetUserStatistics(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, st.QuizzesTaken)
	assert.InDelta(t, 0.75, st.Accuracy, 1e-9)

	u, err = c.UpdateAvatar(ctx, "u1", "https://x/y.png")
	require.NoError(t, err)
	assert.Equal(t, "https://x/y.png", u.Avatar)

	require.NoError(t, c.UpdateFavoriteTopics(ctx, "u1", []string{"Go", "Rust"}))

	rec, err := c.FetchRecommendedQuizzes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rec, 1)
	assert.Equal(t, "r1", rec[0].ID)
}

func TestLeaderboardAndAnalysis(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/leaderboard":
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			w.Write([]byte(`[{"id":"1","username":"a","score":30},{"id":"2","username":"b","score":20}]`))
		case "/api/context-analysis":
			w.Write([]byte(`{"suggestedTopics":["Goroutines"],"keyConcepts":["channels"]}`))
		}
	})
	ctx := context.Background()

	lb, err := c.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, lb, 2)
	assert.Equal(t, 30, lb[0].Score)

	an, err := c.AnalyzeContext(ctx, "Go")
	require.NoError(t, err)
	assert.Equal(t, []string{"Goroutines"}, an.SuggestedTopics)
	assert.Equal(t, []string{"channels"}, an.KeyConcepts)
}
