package exercisegen

import (
	"fmt"

	"github.com/abhisek/practiz/internal/exercise"
)

const (
	maxInstructionLen = 2000
	maxExplanationLen = 4000
)

// StructuralValidator checks that required fields are present, within
// length limits, and have valid enum values.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(ex *exercise.Exercise, req exercise.GenerationRequest) *ValidationError {
	if ex.Problem.Instruction == "" {
		return &ValidationError{Validator: v.Name(), Message: "instruction is empty"}
	}
	if len(ex.Problem.Instruction) > maxInstructionLen {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("instruction exceeds %d characters", maxInstructionLen)}
	}
	if len(ex.Solution.Explanation) > maxExplanationLen {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("explanation exceeds %d characters", maxExplanationLen)}
	}
	if _, ok := exercise.ParseType(string(ex.Type)); !ok {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("unknown type %q", ex.Type)}
	}
	if ex.Difficulty.Rank() == 0 {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("unknown difficulty %q", ex.Difficulty)}
	}
	if ex.Problem.MaxPoints != ex.Difficulty.MaxPoints() {
		return &ValidationError{Validator: v.Name(), Message: "maxPoints does not match difficulty"}
	}
	if ex.Problem.TimeLimit < 0 {
		return &ValidationError{Validator: v.Name(), Message: "timeLimit is negative"}
	}
	if len(ex.Solution.CorrectAnswer) == 0 || string(ex.Solution.CorrectAnswer) == "null" {
		return &ValidationError{Validator: v.Name(), Message: "solution.correctAnswer is missing"}
	}
	if req.Options.HintCount > 0 && len(ex.Hints) > req.Options.HintCount {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("more than %d hints", req.Options.HintCount)}
	}
	for i, h := range ex.Hints {
		if h == "" {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("hint %d is empty", i+1)}
		}
	}
	return nil
}
