package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/abhisek/practiz/internal/exercise"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact match when set
	Model   string    // exact match when set
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

// LLMPurposeUsage aggregates LLM usage for one purpose label.
type LLMPurposeUsage struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM usage for one model.
type LLMModelUsage struct {
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

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}

// ExerciseQuery filters ListExercises.
type ExerciseQuery struct {
	Subject exercise.Subject
	Limit   int
}

// ExerciseRepo persists generated exercises.
type ExerciseRepo interface {
	// Save stores ex, replacing any exercise with the same ID.
	Save(ctx context.Context, ex *exercise.Exercise, topic string) error

	// Get returns the exercise, or nil if it does not exist.
	Get(ctx context.Context, id string) (*exercise.Exercise, error)

	// List returns exercises newest first.
	List(ctx context.Context, q ExerciseQuery) ([]*exercise.Exercise, error)
}

// Submission is a graded answer.
type Submission struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	ExerciseID   string
	UserID       string
	Answer       json.RawMessage
	HintsUsed    int
	TimeTaken    int
	Score        int
	PointsEarned int
	Passed       bool
}

// SubmissionRepo records graded submissions.
type SubmissionRepo interface {
	// Append stores sub and fills in its ID, Sequence and Timestamp.
	Append(ctx context.Context, sub *Submission) error

	// ListByExercise returns the exercise's submissions newest first.
	ListByExercise(ctx context.Context, exerciseID string, limit int) ([]Submission, error)
}
