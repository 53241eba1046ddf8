package exercisegen

import (
	"fmt"

	"github.com/abhisek/practiz/internal/exercise"
)

// Validator checks a parsed exercise before it is accepted.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g. "structural".
	Name() string

	// Validate returns nil if ex passes. req is the normalized request the
	// exercise was generated for.
	Validate(ex *exercise.Exercise, req exercise.GenerationRequest) *ValidationError
}

// ValidationError describes why an exercise failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
