package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/quizziebot/quizzie/internal/cache"
	"github.com/quizziebot/quizzie/internal/quiz"
)

const quizzesCacheKey = "quizzes"

// ErrMissingQuizID is returned when the create endpoint answers without an ID.
var ErrMissingQuizID = errors.New("create quiz: response has no quiz id")

// ContextAnalysis is the backend's take on a free-form topic.
type ContextAnalysis struct {
	SuggestedTopics []string `json:"suggestedTopics"`
	KeyConcepts     []string `json:"keyConcepts"`
}

// ListQuizzes returns quiz metadata (no questions).
func (c *Client) ListQuizzes(ctx context.Context) ([]quiz.Quiz, error) {
	return cache.Fetch(ctx, c.cache, quizzesCacheKey, func(ctx context.Context) ([]quiz.Quiz, error) {
		var out []quiz.Quiz
		if err := c.do(ctx, http.MethodGet, "/api/quizzes", nil, &out, nil); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// CreateQuiz asks the backend to generate a quiz and returns its ID.
func (c *Client) CreateQuiz(ctx context.Context, topic string, cfg quiz.Config, level quiz.Level) (string, error) {
	in := struct {
		Topic  string      `json:"topic"`
		Config quiz.Config `json:"config"`
		Level  quiz.Level  `json:"level"`
	}{topic, cfg, level}

	var out struct {
		ID   string `json:"id"`
		Quiz *struct {
			ID string `json:"id"`
		} `json:"quiz"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/create", in, &out, nil); err != nil {
		return "", err
	}
	_ = c.cache.Invalidate(ctx, quizzesCacheKey)

	id := out.ID
	if id == "" && out.Quiz != nil {
		id = out.Quiz.ID
	}
	if id == "" {
		return "", ErrMissingQuizID
	}
	return id, nil
}

// GetQuiz fetches a quiz with its questions. The backend wraps the quiz
// in {"quiz": ...} on some versions.
func (c *Client) GetQuiz(ctx context.Context, quizID string) (quiz.Quiz, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/quizzes/"+url.PathEscape(quizID), nil, &raw, nil); err != nil {
		return quiz.Quiz{}, err
	}

	var wrapped struct {
		Quiz json.RawMessage `json:"quiz"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return quiz.Quiz{}, fmt.Errorf("decode quiz: %w", err)
	}
	body := raw
	if len(wrapped.Quiz) > 0 && string(wrapped.Quiz) != "null" {
		body = wrapped.Quiz
	}

	var q quiz.Quiz
	if err := json.Unmarshal(body, &q); err != nil {
		return quiz.Quiz{}, fmt.Errorf("decode quiz: %w", err)
	}
	// Older backends put questions next to the wrapper.
	if len(q.Questions) == 0 && len(wrapped.Quiz) > 0 {
		var outer struct {
			Questions []quiz.Question `json:"questions"`
		}
		if json.Unmarshal(raw, &outer) == nil {
			q.Questions = outer.Questions
		}
	}
	if q.ID == "" {
		q.ID = quizID
	}
	q.Normalize()
	return q, nil
}

// GetQuestions returns only the questions of a quiz.
func (c *Client) GetQuestions(ctx context.Context, quizID string) ([]quiz.Question, error) {
	q, err := c.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return q.Questions, nil
}

// AnalyzeContext returns related topics for a free-form topic.
func (c *Client) AnalyzeContext(ctx context.Context, topic string) (ContextAnalysis, error) {
	in := struct {
		Topic string `json:"topic"`
	}{topic}
	var out ContextAnalysis
	if err := c.do(ctx, http.MethodPost, "/api/context-analysis", in, &out, nil); err != nil {
		return ContextAnalysis{}, err
	}
	return out, nil
}

// SubmitResult posts a finished session for scoring. The submission's
// idempotency key is sent as a header so retries are safe server-side.
func (c *Client) SubmitResult(ctx context.Context, sub quiz.Submission) (*quiz.Result, error) {
	var header http.Header
	if sub.IdempotencyKey != "" {
		header = http.Header{"Idempotency-Key": []string{sub.IdempotencyKey}}
	}
	var out quiz.Result
	if err := c.do(ctx, http.MethodPost, "/api/quizzes/submit-result", sub, &out, header); err != nil {
		return nil, err
	}
	_ = c.cache.Invalidate(ctx, leaderboardKeys()...)
	return &out, nil
}

// FetchRecommendedQuizzes returns quizzes recommended for userID.
func (c *Client) FetchRecommendedQuizzes(ctx context.Context, userID string) ([]quiz.Quiz, error) {
	var out struct {
		Quizzes []quiz.Quiz `json:"quizzes"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/recommended/"+url.PathEscape(userID), nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Quizzes, nil
}
