package exercisegen

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/practiz/internal/catalog"
	"github.com/abhisek/practiz/internal/exercise"
	"github.com/abhisek/practiz/internal/llm"
	"github.com/abhisek/practiz/internal/rating"
)

// ParseError reports generated text that could not be turned into an
// exercise.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse exercise: %s: %v", e.Reason, e.Err)
	}
	return "parse exercise: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser turns raw generated text into a validated Exercise.
type Parser struct {
	Validators []Validator
	Classifier *rating.Classifier
}

// exerciseOutput is the generated JSON before assembly. Unknown fields,
// including any self-declared rating, are ignored.
type exerciseOutput struct {
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	Instruction   string          `json:"instruction"`
	Content       json.RawMessage `json:"content"`
	Solution      solutionOutput  `json:"solution"`
	Hints         []string        `json:"hints"`
	Tags          []string        `json:"tags"`
	EstimatedTime int             `json:"estimatedTime"`
	TimeLimit     int             `json:"timeLimit"`
}

type solutionOutput struct {
	CorrectAnswer  json.RawMessage `json:"correctAnswer"`
	Explanation    string          `json:"explanation"`
	Steps          []string        `json:"steps"`
	CommonMistakes []string        `json:"commonMistakes"`
}

// Build describes the exercise being assembled.
type Build struct {
	Request exercise.GenerationRequest
	Entry   *catalog.Entry
	Model   string
	ID      string
	Now     time.Time
}

// Parse turns text into an Exercise for b. Any failure is returned as a
// *ParseError.
func (p *Parser) Parse(text string, b Build) (*exercise.Exercise, error) {
	raw := []byte(StripFences(text))
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, &ParseError{Reason: "empty response"}
	}
	if !json.Valid(raw) {
		return nil, &ParseError{Reason: "response is not JSON"}
	}
	if err := llm.ValidateJSON(ExerciseSchema, raw); err != nil {
		return nil, &ParseError{Reason: "schema mismatch", Err: err}
	}

	var out exerciseOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ParseError{Reason: "decode", Err: err}
	}

	ex := p.assemble(out, b)

	for _, v := range p.Validators {
		if verr := v.Validate(ex, b.Request); verr != nil {
			return nil, &ParseError{Reason: "validation", Err: verr}
		}
	}
	return ex, nil
}

func (p *Parser) assemble(out exerciseOutput, b Build) *exercise.Exercise {
	req := b.Request

	category := req.Category
	if category == "" {
		category = strings.ToLower(strings.TrimSpace(out.Category))
	}
	if category == "" {
		category = "general"
	}

	hints := nonEmpty(out.Hints)
	if len(hints) == 0 {
		hints = defaultHints(req)
	}
	if n := req.Options.HintCount; n > 0 && len(hints) > n {
		hints = hints[:n]
	}

	tags := nonEmpty(out.Tags)
	if len(tags) == 0 {
		tags = defaultTags(req, category)
	}

	estimated := out.EstimatedTime
	if estimated <= 0 {
		estimated = req.Difficulty.EstimatedTime()
	}
	timeLimit := out.TimeLimit
	if timeLimit < 0 {
		timeLimit = 0
	}

	// Grading rules come from the catalog only; nothing in the backend
	// output can widen what counts as correct.
	validation := b.Entry.Validation
	validation.Alternatives = slices.Clone(validation.Alternatives)

	classifier := p.Classifier
	if classifier == nil {
		classifier = rating.New()
	}

	return &exercise.Exercise{
		ID:         b.ID,
		Subject:    req.Subject,
		Category:   category,
		Difficulty: req.Difficulty,
		Type:       resolveType(out),
		Problem: exercise.Problem{
			Instruction: strings.TrimSpace(out.Instruction),
			Content:     out.Content,
			MaxPoints:   req.Difficulty.MaxPoints(),
			TimeLimit:   timeLimit,
		},
		Solution: exercise.Solution{
			CorrectAnswer:  out.Solution.CorrectAnswer,
			Explanation:    strings.TrimSpace(out.Solution.Explanation),
			Steps:          nonEmpty(out.Solution.Steps),
			CommonMistakes: nonEmpty(out.Solution.CommonMistakes),
		},
		Hints:      hints,
		Validation: validation,
		Metadata: exercise.Metadata{
			CreatedAt:     b.Now.UTC(),
			GeneratedBy:   b.Model,
			ContentRating: classifier.Classify(req.Subject, category, req.Topic),
			Tags:          tags,
			EstimatedTime: estimated,
			Language:      req.Language,
			Version:       exercise.SchemaVersion,
		},
	}
}

// resolveType reads the type tag from "type" or "content.type". Missing or
// unknown tags become short-answer.
func resolveType(out exerciseOutput) exercise.Type {
	tag := out.Type
	if tag == "" {
		var inner struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(out.Content, &inner); err == nil {
			tag = inner.Type
		}
	}
	if t, ok := exercise.ParseType(tag); ok {
		return t
	}
	return exercise.TypeShortAnswer
}

// StripFences removes a leading ```lang line and a trailing ``` line.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func defaultHints(req exercise.GenerationRequest) []string {
	return []string{
		fmt.Sprintf("Recall the key ideas of %s.", req.Topic),
		"Re-read the instruction and note exactly what is being asked.",
	}
}

func defaultTags(req exercise.GenerationRequest, category string) []string {
	tags := []string{string(req.Subject)}
	if category != "general" {
		tags = append(tags, category)
	}
	return append(tags, strings.ToLower(req.Topic))
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// isParseError reports whether err came from Parse.
func isParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
