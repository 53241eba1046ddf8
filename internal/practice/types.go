package practice

import (
	"encoding/json"
	"time"

	"github.com/abhisek/practiz/internal/exercise"
)

// GenerateRequest is the wire shape of a generation request.
type GenerateRequest struct {
	Subject        exercise.Subject        `json:"subject"`
	Category       string                  `json:"category,omitempty"`
	Topic          string                  `json:"topic"`
	Difficulty     exercise.Difficulty     `json:"difficulty,omitempty"`
	Types          []exercise.Type         `json:"types,omitempty"`
	Count          int                     `json:"count,omitempty"`
	LessonContext  *exercise.LessonContext `json:"lessonContext,omitempty"`
	Language       string                  `json:"language,omitempty"`
	TargetLanguage string                  `json:"targetLanguage,omitempty"`
	Options        exercise.Options        `json:"options,omitempty"`
}

// GenerationRequest converts r for the generator.
func (r GenerateRequest) GenerationRequest() exercise.GenerationRequest {
	return exercise.GenerationRequest{
		Subject:        r.Subject,
		Category:       r.Category,
		Topic:          r.Topic,
		Difficulty:     r.Difficulty,
		Types:          r.Types,
		Count:          r.Count,
		Lesson:         r.LessonContext,
		Options:        r.Options,
		Language:       r.Language,
		TargetLanguage: r.TargetLanguage,
	}
}

// GenerateResponse is the wire shape of a generation result.
type GenerateResponse struct {
	Exercises []*exercise.Exercise `json:"exercises"`
	Meta      GenerateMeta         `json:"meta"`
}

// GenerateMeta describes how a GenerateResponse was produced.
type GenerateMeta struct {
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generatedAt"`
	Cached      bool      `json:"cached"`
	TokensUsed  int       `json:"tokensUsed,omitempty"`
	Warning     string    `json:"warning,omitempty"`
}

// SubmitRequest is the wire shape of an answer submission.
type SubmitRequest struct {
	ExerciseID string          `json:"exerciseId"`
	Answer     json.RawMessage `json:"answer"`
	TimeTaken  int             `json:"timeTaken"`
	HintsUsed  int             `json:"hintsUsed"`
	UserID     string          `json:"userId,omitempty"`
}

// SubmitResponse is the graded result. Solution is only included when
// RevealSolution is set.
type SubmitResponse struct {
	Passed         bool               `json:"passed"`
	Score          int                `json:"score"`
	PointsEarned   int                `json:"pointsEarned"`
	Feedback       string             `json:"feedback"`
	RevealSolution bool               `json:"revealSolution"`
	Solution       *exercise.Solution `json:"solution,omitempty"`
}
