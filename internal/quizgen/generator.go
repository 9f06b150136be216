// Package quizgen builds quizzes on-device with a language model, for
// offline practice when the backend is out of reach.
package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/quizziebot/quizzie/internal/llm"
	"github.com/quizziebot/quizzie/internal/quiz"
)

// LocalPrefix marks IDs of quizzes generated on-device.
const LocalPrefix = "local-"

// IsLocal reports whether quizID was generated on-device.
func IsLocal(quizID string) bool { return strings.HasPrefix(quizID, LocalPrefix) }

// Input describes the quiz to generate.
type Input struct {
	Topic  string
	Level  quiz.Level
	Config quiz.Config

	// Language is a preference code such as "en" or "vi".
	Language string

	// Prior lists question texts the player has already seen.
	Prior []string
}

func (in Input) questionCount() int {
	if in.Config.MultipleChoiceCount > 0 {
		return in.Config.MultipleChoiceCount
	}
	return DefaultConfig().DefaultQuestions
}

var languageNames = map[string]string{"en": "English", "vi": "Vietnamese"}

func (in Input) language() string {
	if name, ok := languageNames[in.Language]; ok {
		return name
	}
	return "English"
}

// Generator produces quizzes with an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// New creates a Generator. logger may be nil.
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{provider: provider, config: cfg, logger: logger}
}

// ModelID is the model behind the generator.
func (g *Generator) ModelID() string { return g.provider.ModelID() }

type quizOutput struct {
	Topic     string `json:"topic"`
	Questions []struct {
		Text    string `json:"text"`
		Answers []struct {
			Text      string `json:"text"`
			IsCorrect bool   `json:"isCorrect"`
		} `json:"answers"`
		Explanation string `json:"explanation"`
		Difficulty  string `json:"difficulty"`
	} `json:"questions"`
}

// Generate produces a validated, playable quiz. A quiz failing a
// retryable validator is regenerated up to MaxAttempts times.
func (g *Generator) Generate(ctx context.Context, in Input) (quiz.Quiz, error) {
	if strings.TrimSpace(in.Topic) == "" {
		return quiz.Quiz{}, errors.New("topic is required")
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGen)

	attempts := max(g.config.MaxAttempts, 1)
	var lastErr error
	for attempt := range attempts {
		q, err := g.generateOnce(ctx, in)
		if err == nil {
			return q, nil
		}
		lastErr = err

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			return quiz.Quiz{}, err
		}
		g.logger.Info("regenerating quiz", "topic", in.Topic, "attempt", attempt+1, "reason", verr.Message)
	}
	return quiz.Quiz{}, lastErr
}

func (g *Generator) generateOnce(ctx context.Context, in Input) (quiz.Quiz, error) {
	req := llm.UserPrompt(systemPrompt, buildUserMessage(in, g.config))
	req.Schema = QuizSchema
	req.MaxTokens = g.config.MaxTokens
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("generate quiz: %w", err)
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return quiz.Quiz{}, fmt.Errorf("parse quiz: %w", err)
	}

	q := quiz.Quiz{ID: LocalPrefix + uuid.NewString(), Topic: raw.Topic}
	if strings.TrimSpace(q.Topic) == "" {
		q.Topic = in.Topic
	}
	for _, rq := range raw.Questions {
		qq := quiz.Question{
			Text:        strings.TrimSpace(rq.Text),
			Explanation: rq.Explanation,
			Difficulty:  rq.Difficulty,
		}
		for _, ra := range rq.Answers {
			qq.Answers = append(qq.Answers, quiz.Answer{Text: strings.TrimSpace(ra.Text), IsCorrect: ra.IsCorrect})
		}
		q.Questions = append(q.Questions, qq)
	}
	q.Normalize()

	for _, v := range g.config.Validators {
		if verr := v.Validate(q, in); verr != nil {
			return quiz.Quiz{}, verr
		}
	}
	return q, nil
}

// RelatedTopics suggests topics near topic.
func (g *Generator) RelatedTopics(ctx context.Context, topic string) ([]string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeTopics)
	req := llm.UserPrompt(topicsPrompt, "Topic: "+topic)
	req.Schema = TopicsSchema
	req.MaxTokens = 256

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("suggest topics: %w", err)
	}
	var out struct {
		Topics []string `json:"topics"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse topics: %w", err)
	}

	topics := make([]string, 0, len(out.Topics))
	seen := map[string]bool{normalizeText(topic): true}
	for _, t := range out.Topics {
		t = strings.TrimSpace(t)
		if t == "" || seen[normalizeText(t)] {
			continue
		}
		seen[normalizeText(t)] = true
		topics = append(topics, t)
	}
	return topics, nil
}
