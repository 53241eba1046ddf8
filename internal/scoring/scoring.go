// Package scoring grades submitted answers against a stored exercise.
package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/practiz/internal/exercise"
)

// DefaultTolerance is the relative tolerance for bare numeric answers.
const DefaultTolerance = 0.01

// Submission is a learner's answer to one exercise.
type Submission struct {
	// Answer must have the exercise type's answer shape.
	Answer    json.RawMessage
	HintsUsed int

	// TimeTaken in seconds.
	TimeTaken int
}

// Result is the graded outcome of a Submission.
type Result struct {
	Passed         bool   `json:"passed"`
	Score          int    `json:"score"`
	PointsEarned   int    `json:"pointsEarned"`
	Feedback       string `json:"feedback"`
	RevealSolution bool   `json:"revealSolution"`
}

// outcome is the type-specific result before penalties.
type outcome struct {
	correct, total int
	err            error
}

func (o outcome) score() float64 {
	if o.err != nil || o.total <= 0 {
		return 0
	}
	return 100 * float64(o.correct) / float64(o.total)
}

// Grade scores sub against ex. It has no side effects: the same inputs
// always give the same Result.
func Grade(ex *exercise.Exercise, sub Submission) Result {
	rules := ex.Validation

	var o outcome
	switch ex.Type.AnswerShape() {
	case exercise.ShapeOptionID:
		o = gradeOptions(ex.Solution.CorrectAnswer, sub.Answer)
	case exercise.ShapeStringList:
		o = gradeStringList(ex.Solution.CorrectAnswer, sub.Answer, rules)
	case exercise.ShapeBoolList:
		o = gradeBoolList(ex.Solution.CorrectAnswer, sub.Answer)
	case exercise.ShapeNumeric:
		o = gradeNumeric(ex.Solution.CorrectAnswer, sub.Answer, rules)
	case exercise.ShapeMapping:
		o = gradeMapping(ex.Solution.CorrectAnswer, sub.Answer)
	case exercise.ShapeText:
		o = gradeText(ex.Solution.CorrectAnswer, sub.Answer, rules)
	}

	raw := o.score()
	score := raw

	hints := max(sub.HintsUsed, 0)
	hintDeduction := float64(hints * rules.HintPenalty)
	score -= hintDeduction

	var timeDeduction float64
	if limit := ex.Problem.TimeLimit; limit > 0 && sub.TimeTaken > limit && rules.TimePenalty > 0 {
		timeDeduction = float64(sub.TimeTaken-limit) * rules.TimePenalty
		score -= timeDeduction
	}

	final := int(math.Round(clamp(score, 0, 100)))
	passed := final >= rules.PassingScore

	maxPoints := max(ex.Problem.MaxPoints, 0)
	points := int(math.Round(float64(final) / 100 * float64(maxPoints)))

	return Result{
		Passed:         passed,
		Score:          final,
		PointsEarned:   min(max(points, 0), maxPoints),
		Feedback:       feedback(o, raw, hintDeduction, timeDeduction, passed),
		RevealSolution: passed,
	}
}

func feedback(o outcome, raw, hintDeduction, timeDeduction float64, passed bool) string {
	if o.err != nil {
		return fmt.Sprintf("Your answer could not be graded: %v.", o.err)
	}

	var b strings.Builder
	switch {
	case o.correct == o.total:
		b.WriteString("Correct!")
	case o.correct == 0:
		b.WriteString("Not quite.")
	default:
		fmt.Fprintf(&b, "Partially correct: %d of %d right.", o.correct, o.total)
	}

	if hintDeduction > 0 {
		fmt.Fprintf(&b, " %.0f points deducted for hints.", hintDeduction)
	}
	if timeDeduction > 0 {
		fmt.Fprintf(&b, " %.0f points deducted for going over the time limit.", timeDeduction)
	}

	if passed {
		b.WriteString(" You passed.")
	} else if raw > 0 {
		b.WriteString(" Not enough to pass yet, try again.")
	} else {
		b.WriteString(" Review the hints and try again.")
	}
	return b.String()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
