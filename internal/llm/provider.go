// Package llm generates structured JSON from hosted language models. It
// backs the offline quiz generator.
package llm

import (
	"context"
	"encoding/json"
)

// Purposes label requests in the event log.
const (
	PurposeQuizGen = "quiz-gen"
	PurposeTopics  = "topics"
)

// Provider turns a prompt into (optionally schema-constrained) JSON.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider sends requests to.
	ModelID() string
}

// Request is a single-turn or short multi-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks the provider for JSON matching it and the
	// reply is validated before it is returned.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one conversational turn.
type Message struct {
	Role    Role
	Content string
}

// Role is who sent a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt builds a request with one user message.
func UserPrompt(system, prompt string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// Schema is a named JSON Schema.
type Schema struct {
	// Name is kebab-case, e.g. "quiz-questions". Compiled schemas are
	// cached by name.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a provider reply. Content is JSON; without a Schema it is
// whatever text the model produced.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
