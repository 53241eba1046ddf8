package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table layouts. Timestamps are stored as unix milliseconds (UTC).
var (
	exercisesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "topic", Type: field.TypeString, Default: ""},
		{Name: "difficulty", Type: field.TypeString},
		{Name: "type", Type: field.TypeString},
		{Name: "content_rating", Type: field.TypeString},
		{Name: "generated_by", Type: field.TypeString},
		{Name: "fallback", Type: field.TypeBool, Default: false},
		{Name: "payload", Type: field.TypeString, Size: 2147483647},
		{Name: "created_at", Type: field.TypeInt64},
	}
	exercisesTable = &schema.Table{
		Name:       "exercises",
		Columns:    exercisesColumns,
		PrimaryKey: []*schema.Column{exercisesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "exercise_subject_created_at", Columns: []*schema.Column{exercisesColumns[1], exercisesColumns[10]}},
		},
	}

	submissionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "exercise_id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString, Default: ""},
		{Name: "answer", Type: field.TypeString, Size: 2147483647},
		{Name: "hints_used", Type: field.TypeInt, Default: 0},
		{Name: "time_taken", Type: field.TypeInt, Default: 0},
		{Name: "score", Type: field.TypeInt},
		{Name: "points_earned", Type: field.TypeInt},
		{Name: "passed", Type: field.TypeBool},
	}
	submissionsTable = &schema.Table{
		Name:       "submissions",
		Columns:    submissionsColumns,
		PrimaryKey: []*schema.Column{submissionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "submission_exercise_id", Columns: []*schema.Column{submissionsColumns[3]}},
			{Name: "submission_user_id", Columns: []*schema.Column{submissionsColumns[4]}},
		},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmEventsColumns[2]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventsColumns[5]}},
			{Name: "llmrequestevent_model", Columns: []*schema.Column{llmEventsColumns[4]}},
		},
	}

	tables = []*schema.Table{
		exercisesTable,
		submissionsTable,
		llmEventsTable,
	}
)
