package exercisegen

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/practiz/internal/catalog"
	"github.com/abhisek/practiz/internal/exercise"
)

// FallbackModel is the generatedBy value of static fallback exercises.
const FallbackModel = "static-fallback"

// Fallback builds the placeholder exercise served when no backend could
// generate one. The result depends only on its arguments.
func Fallback(req exercise.GenerationRequest, entry *catalog.Entry, id string, now time.Time) *exercise.Exercise {
	content, _ := json.Marshal(exercise.MultipleChoiceContent{
		Question: fmt.Sprintf("[Placeholder] A practice exercise on %q could not be generated right now. What should you do?", req.Topic),
		Options: []exercise.Option{
			{ID: "a", Text: "Try again in a few minutes"},
			{ID: "b", Text: "Skip this topic"},
			{ID: "c", Text: "Change the difficulty"},
			{ID: "d", Text: "None of the above"},
		},
	})

	category := req.Category
	if category == "" {
		category = "general"
	}

	var validation exercise.ValidationRules
	if entry != nil {
		validation = entry.Validation
	}

	return &exercise.Exercise{
		ID:         id,
		Subject:    req.Subject,
		Category:   category,
		Difficulty: req.Difficulty,
		Type:       exercise.TypeMultipleChoice,
		Problem: exercise.Problem{
			Instruction: "[Placeholder] Exercise generation is temporarily unavailable. Choose the best option.",
			Content:     content,
			MaxPoints:   req.Difficulty.MaxPoints(),
		},
		Solution: exercise.Solution{
			CorrectAnswer: json.RawMessage(`"a"`),
			Explanation:   "This is a placeholder exercise. A real exercise will be available when generation recovers.",
		},
		Hints: []string{
			"Exercise generation is temporarily unavailable.",
			"Please try again later for a real exercise on this topic.",
		},
		Validation: validation,
		Metadata: exercise.Metadata{
			CreatedAt:     now.UTC(),
			GeneratedBy:   FallbackModel,
			ContentRating: exercise.RatingAllAges,
			Tags:          []string{string(req.Subject), "fallback"},
			EstimatedTime: req.Difficulty.EstimatedTime(),
			Language:      req.Language,
			Version:       exercise.SchemaVersion,
			Fallback:      true,
		},
	}
}
