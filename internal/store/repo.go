package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a keyed lookup has no row.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

// KVRepo stores small JSON documents by key.
type KVRepo interface {
	// Get decodes the value stored at key into v. It returns ErrNotFound
	// when the key is absent.
	Get(ctx context.Context, key string, v any) error
	Put(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

// ResultRecord is one finished quiz kept in local history.
type ResultRecord struct {
	ID             int
	Sequence       int64
	Timestamp      time.Time
	SessionID      string
	QuizID         string
	Topic          string
	UserID         string
	CorrectAnswers int
	TotalQuestions int
	TotalScore     int
	CoinsEarned    int
	XPEarned       int
	TotalTime      float64
	Local          bool
}

// ResultRepo keeps the local history of finished quizzes.
type ResultRepo interface {
	// Append records a result. Appending the same session twice is a no-op.
	Append(ctx context.Context, rec ResultRecord) error

	// List returns records newest first.
	List(ctx context.Context, opts QueryOpts) ([]ResultRecord, error)
}
