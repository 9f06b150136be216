package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableKV          = "kv_entries"
	tableResults     = "quiz_results"
	tableLLMRequests = "llm_request_events"
)

var (
	kvColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString, Size: 255},
		{Name: "value", Type: field.TypeString, Size: 1 << 20},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	kvTable = &schema.Table{
		Name:       tableKV,
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
	}

	resultColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "session_id", Type: field.TypeString, Unique: true},
		{Name: "quiz_id", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString, Default: ""},
		{Name: "user_id", Type: field.TypeString, Default: ""},
		{Name: "correct_answers", Type: field.TypeInt},
		{Name: "total_questions", Type: field.TypeInt},
		{Name: "total_score", Type: field.TypeInt, Default: 0},
		{Name: "coins_earned", Type: field.TypeInt, Default: 0},
		{Name: "xp_earned", Type: field.TypeInt, Default: 0},
		{Name: "total_time", Type: field.TypeFloat64, Default: 0},
		{Name: "local", Type: field.TypeBool, Default: false},
	}
	resultTable = &schema.Table{
		Name:       tableResults,
		Columns:    resultColumns,
		PrimaryKey: []*schema.Column{resultColumns[0]},
		Indexes: []*schema.Index{
			{Name: "quizresult_created_at", Columns: []*schema.Column{resultColumns[2]}},
			{Name: "quizresult_quiz_id", Columns: []*schema.Column{resultColumns[4]}},
		},
	}

	llmColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
	}
	llmTable = &schema.Table{
		Name:       tableLLMRequests,
		Columns:    llmColumns,
		PrimaryKey: []*schema.Column{llmColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmColumns[5]}},
		},
	}

	// Tables lists every table managed by auto-migration.
	Tables = []*schema.Table{kvTable, resultTable, llmTable}
)
