package exercise

import "strings"

// Subject identifies a teaching subject. The set of supported subjects is
// owned by the catalog; the constants below are the ones the engine has
// special policy for.
type Subject string

const (
	SubjectMath        Subject = "math"
	SubjectPhysics     Subject = "physics"
	SubjectChemistry   Subject = "chemistry"
	SubjectBiology     Subject = "biology"
	SubjectLanguage    Subject = "language"
	SubjectHistory     Subject = "history"
	SubjectProgramming Subject = "programming"
)

// Difficulty is one of five ordered levels.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyElementary   Difficulty = "elementary"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// Difficulties returns all levels in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{
		DifficultyBeginner,
		DifficultyElementary,
		DifficultyIntermediate,
		DifficultyAdvanced,
		DifficultyExpert,
	}
}

// ParseDifficulty normalizes s and reports whether it names a known level.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Rank() > 0
}

// Rank returns 1 (beginner) through 5 (expert), or 0 for an unknown level.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyBeginner:
		return 1
	case DifficultyElementary:
		return 2
	case DifficultyIntermediate:
		return 3
	case DifficultyAdvanced:
		return 4
	case DifficultyExpert:
		return 5
	}
	return 0
}

// MaxPoints is the point value of an exercise at this level: beginner=10
// through expert=50.
func (d Difficulty) MaxPoints() int {
	r := d.Rank()
	if r == 0 {
		r = 1
	}
	return r * 10
}

// estimatedSeconds is the default completion estimate per level.
var estimatedSeconds = map[Difficulty]int{
	DifficultyBeginner:     60,
	DifficultyElementary:   120,
	DifficultyIntermediate: 180,
	DifficultyAdvanced:     300,
	DifficultyExpert:       420,
}

// EstimatedTime returns the default completion estimate in seconds.
func (d Difficulty) EstimatedTime() int {
	if s, ok := estimatedSeconds[d]; ok {
		return s
	}
	return estimatedSeconds[DifficultyIntermediate]
}

// Type is the exercise type. The set is closed; every switch over Type
// must list all members.
type Type string

const (
	TypeMultipleChoice Type = "multiple-choice"
	TypeFillBlank      Type = "fill-blank"
	TypeMatching       Type = "matching"
	TypeOrdering       Type = "ordering"
	TypeTrueFalse      Type = "true-false"
	TypeShortAnswer    Type = "short-answer"
	TypeLongAnswer     Type = "long-answer"
	TypeProof          Type = "proof"
	TypeCalculation    Type = "calculation"
	TypeTranslation    Type = "translation"
	TypeConjugation    Type = "conjugation"
	TypeDiagram        Type = "diagram"
	TypeCoding         Type = "coding"
	TypeDerivation     Type = "derivation"
)

// AllTypes returns every exercise type.
func AllTypes() []Type {
	return []Type{
		TypeMultipleChoice,
		TypeFillBlank,
		TypeMatching,
		TypeOrdering,
		TypeTrueFalse,
		TypeShortAnswer,
		TypeLongAnswer,
		TypeProof,
		TypeCalculation,
		TypeTranslation,
		TypeConjugation,
		TypeDiagram,
		TypeCoding,
		TypeDerivation,
	}
}

// ParseType normalizes s ("Multiple_Choice" → "multiple-choice") and
// reports whether it is a member of the closed set.
func ParseType(s string) (Type, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "_", "-")
	norm = strings.ReplaceAll(norm, " ", "-")
	for _, t := range AllTypes() {
		if Type(norm) == t {
			return t, true
		}
	}
	return "", false
}

// AnswerShape describes the JSON shape of solution.correctAnswer.
type AnswerShape int

const (
	ShapeText       AnswerShape = iota // free or structured text
	ShapeOptionID                      // "b"
	ShapeStringList                    // ["3/4", "x"]
	ShapeBoolList                      // [true, false]
	ShapeMapping                       // {"l1": "r2"}
	ShapeNumeric                       // 60 or {"value": 60, "tolerance": 0.5}
)

func (s AnswerShape) String() string {
	switch s {
	case ShapeOptionID:
		return "option-id"
	case ShapeStringList:
		return "string-list"
	case ShapeBoolList:
		return "bool-list"
	case ShapeMapping:
		return "mapping"
	case ShapeNumeric:
		return "numeric"
	default:
		return "text"
	}
}

// AnswerShape returns the answer shape for t.
func (t Type) AnswerShape() AnswerShape {
	switch t {
	case TypeMultipleChoice:
		return ShapeOptionID
	case TypeFillBlank:
		return ShapeStringList
	case TypeMatching:
		return ShapeMapping
	case TypeTrueFalse:
		return ShapeBoolList
	case TypeCalculation:
		return ShapeNumeric
	case TypeOrdering, TypeShortAnswer, TypeLongAnswer, TypeProof, TypeTranslation,
		TypeConjugation, TypeDiagram, TypeCoding, TypeDerivation:
		return ShapeText
	}
	return ShapeText
}

// ContentRating is an age-appropriateness tag. Ratings are ordered from
// least to most restrictive.
type ContentRating string

const (
	RatingAllAges ContentRating = "all-ages"
	RatingAge8    ContentRating = "age-8-plus"
	RatingAge12   ContentRating = "age-12-plus"
	RatingAge16   ContentRating = "age-16-plus"
	RatingAdult   ContentRating = "adult"
)

// Level returns 0 (all-ages) through 4 (adult), or -1 if unknown.
func (r ContentRating) Level() int {
	switch r {
	case RatingAllAges:
		return 0
	case RatingAge8:
		return 1
	case RatingAge12:
		return 2
	case RatingAge16:
		return 3
	case RatingAdult:
		return 4
	}
	return -1
}
