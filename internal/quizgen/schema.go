package quizgen

import "github.com/quizziebot/quizzie/internal/llm"

// QuizSchema is the reply shape for quiz generation.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A multiple-choice quiz on one topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"description": "Short title for the quiz topic",
			},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 20,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{
							"type":        "string",
							"description": "The question shown to the player",
						},
						"answers": map[string]any{
							"type":     "array",
							"minItems": 2,
							"maxItems": 6,
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"text":      map[string]any{"type": "string"},
									"isCorrect": map[string]any{"type": "boolean"},
								},
								"required":             []any{"text", "isCorrect"},
								"additionalProperties": false,
							},
							"description": "The choices; exactly one has isCorrect true",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One or two sentences on why the correct answer is right",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"basic", "intermediate", "advanced"},
						},
					},
					"required":             []any{"text", "answers", "explanation", "difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"topic", "questions"},
		"additionalProperties": false,
	},
}

// TopicsSchema is the reply shape for related-topic suggestions.
var TopicsSchema = &llm.Schema{
	Name:        "related-topics",
	Description: "Topics related to a quiz topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topics": map[string]any{
				"type":     "array",
				"maxItems": 8,
				"items":    map[string]any{"type": "string"},
			},
		},
		"required":             []any{"topics"},
		"additionalProperties": false,
	},
}
