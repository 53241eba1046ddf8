package exercise

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the current version of the Exercise record.
const SchemaVersion = 1

// Exercise is a generated exercise. It is immutable once produced; use
// the With* helpers to derive a modified copy.
type Exercise struct {
	ID         string          `json:"id"`
	Subject    Subject         `json:"subject"`
	Category   string          `json:"category"`
	Difficulty Difficulty      `json:"difficulty"`
	Type       Type            `json:"type"`
	Problem    Problem         `json:"problem"`
	Solution   Solution        `json:"solution"`
	Hints      []string        `json:"hints"`
	Validation ValidationRules `json:"validation"`
	Metadata   Metadata        `json:"metadata"`
}

// Problem is what the learner sees.
type Problem struct {
	Instruction string `json:"instruction"`

	// Content is the type-tagged payload; see DecodeContent.
	Content json.RawMessage `json:"content"`

	MaxPoints int `json:"maxPoints"`

	// TimeLimit in seconds. Zero means no limit.
	TimeLimit int `json:"timeLimit,omitempty"`
}

// Solution holds the correct answer and its explanation.
type Solution struct {
	// CorrectAnswer's shape depends on the exercise type; see AnswerShape.
	CorrectAnswer  json.RawMessage `json:"correctAnswer"`
	Explanation    string          `json:"explanation"`
	Steps          []string        `json:"steps,omitempty"`
	CommonMistakes []string        `json:"commonMistakes,omitempty"`
}

// ValidationRules configure how submissions are graded.
type ValidationRules struct {
	PassingScore  int      `json:"passingScore" yaml:"passing_score"`
	PartialCredit bool     `json:"partialCredit" yaml:"partial_credit"`
	CaseSensitive bool     `json:"caseSensitive" yaml:"case_sensitive"`
	Alternatives  []string `json:"alternatives,omitempty" yaml:"alternatives"`

	// Tolerance overrides the default relative tolerance (0.01) for bare
	// numeric answers. Zero means use the default.
	Tolerance float64 `json:"tolerance,omitempty" yaml:"tolerance"`

	// HintPenalty is subtracted from the score per hint used.
	HintPenalty int `json:"hintPenalty" yaml:"hint_penalty"`

	// TimePenalty is subtracted per second over the time limit.
	TimePenalty float64 `json:"timePenalty,omitempty" yaml:"time_penalty"`
}

// Metadata describes how and when the exercise was produced.
type Metadata struct {
	CreatedAt     time.Time     `json:"createdAt"`
	GeneratedBy   string        `json:"generatedBy"`
	ContentRating ContentRating `json:"contentRating"`
	Tags          []string      `json:"tags"`

	// EstimatedTime is the expected completion time in seconds.
	EstimatedTime int    `json:"estimatedTime"`
	Language      string `json:"language"`
	Version       int    `json:"version"`

	// Fallback marks an exercise produced without a generation backend.
	Fallback bool `json:"fallback,omitempty"`

	// Cached marks an exercise served from the exercise cache.
	Cached bool `json:"cached,omitempty"`
}

// RevealHints returns the first n hints. Hints are only ever revealed as
// a prefix; the full list is returned only when all is set or n covers it.
func (e *Exercise) RevealHints(n int, all bool) []string {
	if all || n >= len(e.Hints) {
		return append([]string(nil), e.Hints...)
	}
	if n <= 0 {
		return []string{}
	}
	return append([]string(nil), e.Hints[:n]...)
}

// WithCached returns a copy of e marked as served from cache.
func (e *Exercise) WithCached() *Exercise {
	cp := *e
	cp.Metadata.Cached = true
	return &cp
}

// DecodeContent decodes the problem content for the exercise type.
func (e *Exercise) DecodeContent() (Content, error) {
	return DecodeContent(e.Type, e.Problem.Content)
}

var idSanitizer = regexp.MustCompile(`[^a-z0-9]+`)

// NewID returns an identifier derived from subject and category plus a
// time and random suffix. Uniqueness is probabilistic.
func NewID(subject Subject, category string, now time.Time) string {
	prefix := slug(string(subject))
	if c := slug(category); c != "" {
		prefix += "-" + c
	}
	if prefix == "" {
		prefix = "exercise"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%s", prefix, strconv.FormatInt(now.UnixMilli(), 36), suffix)
}

func slug(s string) string {
	s = idSanitizer.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if len(s) > 24 {
		s = strings.TrimRight(s[:24], "-")
	}
	return s
}
