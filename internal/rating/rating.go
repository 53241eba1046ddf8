// Package rating assigns age-appropriateness ratings to exercises from
// their subject, category and topic. Ratings are never taken from
// generated text.
package rating

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abhisek/practiz/internal/exercise"
)

// Rule maps any of its keywords to a rating. Keywords match whole words
// or phrases; a trailing "*" also matches longer words with that stem
// ("terroris*" matches "terrorism" and "terrorist").
type Rule struct {
	Rating   exercise.ContentRating
	Keywords []string
}

// DefaultRules are checked from the most to the least restrictive rating.
var DefaultRules = []Rule{
	{exercise.RatingAdult, []string{
		"sexual*", "pornograph*", "drug synthesis", "narcotic*", "explicit content",
		"explicit sex*", "gambling strateg*",
	}},
	{exercise.RatingAge16, []string{
		"genocide*", "holocaust", "tortur*", "terroris*", "suicide*", "reproductive",
		"contracepti*", "alcohol*", "addiction*", "explosive*", "firearm*",
	}},
	{exercise.RatingAge12, []string{
		"war", "wars", "warfare", "weapon*", "slavery", "slave trade", "revolution*",
		"disease*", "violence", "violent", "death*", "crime*", "nuclear",
		"evolution of man", "puberty",
	}},
	{exercise.RatingAge8, []string{
		"algebra*", "chemical reaction*", "acid", "acids", "acidic", "electricity",
		"ancient", "empire*", "predator*", "volcano*", "earthquake*",
	}},
}

// DefaultSubjectRatings apply when no rule matches.
var DefaultSubjectRatings = map[exercise.Subject]exercise.ContentRating{
	exercise.SubjectMath:        exercise.RatingAllAges,
	exercise.SubjectLanguage:    exercise.RatingAllAges,
	exercise.SubjectBiology:     exercise.RatingAge8,
	exercise.SubjectChemistry:   exercise.RatingAge8,
	exercise.SubjectPhysics:     exercise.RatingAge8,
	exercise.SubjectProgramming: exercise.RatingAge8,
	exercise.SubjectHistory:     exercise.RatingAge12,
}

// Classifier is a pure rule-based rating function.
type Classifier struct {
	Rules    []Rule
	Subjects map[exercise.Subject]exercise.ContentRating

	// Fallback is used for subjects with no configured default.
	Fallback exercise.ContentRating
}

// New returns a classifier with the default rule table.
func New() *Classifier {
	return &Classifier{
		Rules:    DefaultRules,
		Subjects: DefaultSubjectRatings,
		Fallback: exercise.RatingAllAges,
	}
}

// Classify rates an exercise on (subject, category, topic). The first rule
// with a keyword found in the category or topic wins.
func (c *Classifier) Classify(subject exercise.Subject, category, topic string) exercise.ContentRating {
	text := strings.ToLower(category + " " + topic)
	for _, r := range c.Rules {
		for _, kw := range r.Keywords {
			if matchKeyword(text, kw) {
				return r.Rating
			}
		}
	}
	if r, ok := c.Subjects[subject]; ok {
		return r
	}
	return c.Fallback
}

// matchKeyword reports whether kw occurs in text on word boundaries. A
// trailing "*" lifts the boundary at the end.
func matchKeyword(text, kw string) bool {
	stem := strings.HasSuffix(kw, "*")
	kw = strings.ToLower(strings.TrimSuffix(kw, "*"))
	if kw == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(text[from:], kw)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(kw)
		if !wordRuneBefore(text, start) && (stem || !wordRuneAt(text, end)) {
			return true
		}
		from = start + 1
	}
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

func wordRuneAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
