package exercisegen

import (
	"fmt"
	"strings"

	"github.com/abhisek/practiz/internal/exercise"
)

// ContentValidator checks that the content payload decodes for the
// exercise type and that the correct answer is consistent with it.
type ContentValidator struct{}

func (v *ContentValidator) Name() string { return "content" }

func (v *ContentValidator) Validate(ex *exercise.Exercise, _ exercise.GenerationRequest) *ValidationError {
	content, err := ex.DecodeContent()
	if err != nil {
		return v.fail("%v", err)
	}
	answer := ex.Solution.CorrectAnswer

	switch c := content.(type) {
	case exercise.MultipleChoiceContent:
		return v.checkMultipleChoice(c, ex)
	case exercise.FillBlankContent:
		if strings.TrimSpace(c.Template) == "" {
			return v.fail("template is empty")
		}
		blanks, err := exercise.DecodeStringList(answer)
		if err != nil {
			return v.fail("correctAnswer: %v", err)
		}
		if len(blanks) == 0 {
			return v.fail("correctAnswer has no blanks")
		}
		if c.BlankCount > 0 && len(blanks) != c.BlankCount {
			return v.fail("%d answers for %d blanks", len(blanks), c.BlankCount)
		}
	case exercise.MatchingContent:
		if len(c.LeftColumn) == 0 || len(c.RightColumn) == 0 {
			return v.fail("matching columns are empty")
		}
		pairs, err := exercise.DecodeMapping(answer)
		if err != nil {
			return v.fail("correctAnswer: %v", err)
		}
		left, right := optionIDs(c.LeftColumn), optionIDs(c.RightColumn)
		for l, r := range pairs {
			if !left[l] {
				return v.fail("correctAnswer references unknown left id %q", l)
			}
			if !right[r] {
				return v.fail("correctAnswer references unknown right id %q", r)
			}
		}
		if len(pairs) != len(c.LeftColumn) {
			return v.fail("correctAnswer pairs %d of %d left items", len(pairs), len(c.LeftColumn))
		}
	case exercise.TrueFalseContent:
		if len(c.Statements) == 0 {
			return v.fail("no statements")
		}
		values, err := exercise.DecodeBoolList(answer)
		if err != nil {
			return v.fail("correctAnswer: %v", err)
		}
		if len(values) != len(c.Statements) {
			return v.fail("%d answers for %d statements", len(values), len(c.Statements))
		}
	case exercise.CalculationContent:
		if strings.TrimSpace(c.Problem) == "" && strings.TrimSpace(ex.Problem.Instruction) == "" {
			return v.fail("calculation has no problem text")
		}
		if _, err := exercise.DecodeNumeric(answer); err != nil {
			return v.fail("correctAnswer: %v", err)
		}
	case exercise.FreeformContent:
		if exercise.AnswerText(answer) == "" {
			return v.fail("correctAnswer is empty")
		}
	}
	return nil
}

func (v *ContentValidator) checkMultipleChoice(c exercise.MultipleChoiceContent, ex *exercise.Exercise) *ValidationError {
	if len(c.Options) < 2 {
		return v.fail("multiple choice needs at least 2 options, got %d", len(c.Options))
	}
	ids := optionIDs(c.Options)
	if len(ids) != len(c.Options) {
		return v.fail("option ids are not unique")
	}

	var chosen []string
	if c.MultiSelect {
		list, err := exercise.DecodeStringList(ex.Solution.CorrectAnswer)
		if err != nil {
			id, idErr := exercise.DecodeOptionID(ex.Solution.CorrectAnswer)
			if idErr != nil {
				return v.fail("correctAnswer: %v", err)
			}
			list = []string{id}
		}
		chosen = list
	} else {
		id, err := exercise.DecodeOptionID(ex.Solution.CorrectAnswer)
		if err != nil {
			return v.fail("correctAnswer: %v", err)
		}
		chosen = []string{id}
	}

	if len(chosen) == 0 {
		return v.fail("correctAnswer selects no option")
	}
	for _, id := range chosen {
		if !ids[id] {
			return v.fail("correctAnswer %q is not an option id", id)
		}
	}
	return nil
}

func (v *ContentValidator) fail(format string, args ...any) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
}

func optionIDs(opts []exercise.Option) map[string]bool {
	ids := make(map[string]bool, len(opts))
	for _, o := range opts {
		ids[strings.TrimSpace(o.ID)] = true
	}
	return ids
}
