package exercisegen

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/practiz/internal/catalog"
	"github.com/abhisek/practiz/internal/exercise"
)

// Prompts is the rendered prompt pair for one exercise.
type Prompts struct {
	System string
	User   string
}

const rules = `Rules:
- Produce exactly one exercise as a single JSON object. No prose before or after it.
- Use one of the exercise types listed in the request and set "type" to it.
- The exercise must be self-contained, unambiguous and appropriate for the difficulty.
- solution.correctAnswer must follow the shape listed for the chosen type.
- Hints go from gentle to specific and must never state the answer outright.
- Do not include any content rating or age rating field.
- Do not repeat an exercise from the "already generated" list.`

// BuildPrompts renders the prompts for one exercise of req. prior holds
// the instructions of exercises already generated for the same request;
// at most maxPrior of the most recent are listed. now only affects the
// lesson context block.
func BuildPrompts(req exercise.GenerationRequest, entry *catalog.Entry, prior []string, maxPrior int, now time.Time) Prompts {
	return Prompts{
		System: buildSystemPrompt(req, entry),
		User:   buildUserMessage(req, entry, prior, maxPrior, now),
	}
}

func buildSystemPrompt(req exercise.GenerationRequest, entry *catalog.Entry) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(entry.Instructions))
	b.WriteString("\n\n")
	b.WriteString(rules)
	b.WriteString("\n\nOutput format:\n")
	b.WriteString(`{
  "type": "<exercise type>",
  "instruction": "<what the learner must do>",
  "content": { <type-specific fields> },
  "solution": {
    "correctAnswer": <type-specific answer>,
    "explanation": "<why the answer is correct>",
    "steps": ["<solution step>", ...],
    "commonMistakes": ["<typical error>", ...]
  },
  "hints": ["<hint>", ...],
  "tags": ["<tag>", ...],
  "estimatedTime": <seconds>,
  "timeLimit": <seconds, optional>
}`)
	b.WriteString("\n\nContent and correctAnswer by type:\n")
	for _, t := range effectiveTypes(req, entry) {
		fmt.Fprintf(&b, "- %s: %s\n", t, shapeDescription(t))
	}

	return strings.TrimRight(b.String(), "\n")
}

// shapeDescription documents the content fields and answer shape of t.
func shapeDescription(t exercise.Type) string {
	switch t {
	case exercise.TypeMultipleChoice:
		return `content {"question": string, "options": [{"id": "a", "text": string}, ...], "multiSelect": false}; correctAnswer is the correct option id, e.g. "b"`
	case exercise.TypeFillBlank:
		return `content {"template": string with one "___" per blank, "blankCount": number, "wordBank": [string] optional}; correctAnswer is a list of strings, one per blank`
	case exercise.TypeMatching:
		return `content {"leftColumn": [{"id": "l1", "text": string}, ...], "rightColumn": [{"id": "r1", "text": string}, ...]}; correctAnswer maps every left id to a right id, e.g. {"l1": "r2"}`
	case exercise.TypeTrueFalse:
		return `content {"statements": [{"id": "s1", "text": string}, ...]}; correctAnswer is a list of booleans aligned with the statements`
	case exercise.TypeCalculation:
		return `content {"problem": string, "variables": {name: value} optional, "units": string optional, "sigFigs": number optional}; correctAnswer is a number, or {"value": number, "tolerance": number} for an absolute tolerance`
	case exercise.TypeOrdering:
		return `content {"items": [string, ...]} listed out of order; correctAnswer is the items in the correct order joined with ", "`
	case exercise.TypeShortAnswer:
		return `content {"question": string}; correctAnswer is a short text answer`
	case exercise.TypeLongAnswer:
		return `content {"question": string, "wordLimit": number optional}; correctAnswer is a model answer text`
	case exercise.TypeProof:
		return `content {"statement": string, "givens": [string] optional}; correctAnswer is the complete proof as text`
	case exercise.TypeDerivation:
		return `content {"startingPoint": string, "target": string}; correctAnswer is the derived result as text`
	case exercise.TypeTranslation:
		return `content {"sourceText": string, "sourceLanguage": string, "targetLanguage": string}; correctAnswer is the translation text`
	case exercise.TypeConjugation:
		return `content {"verb": string, "tense": string, "subject": string}; correctAnswer is the conjugated form`
	case exercise.TypeDiagram:
		return `content {"description": string, "labels": [string] optional}; correctAnswer is text naming the requested part or relation`
	case exercise.TypeCoding:
		return `content {"language": string, "prompt": string, "starterCode": string optional}; correctAnswer is a reference solution as text`
	}
	return `content with the fields the exercise needs; correctAnswer is text`
}

func buildUserMessage(req exercise.GenerationRequest, entry *catalog.Entry, prior []string, maxPrior int, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s (%s)\n", entry.Name, entry.Subject)
	category := req.Category
	if category == "" {
		category = "any"
	}
	fmt.Fprintf(&b, "Category: %s\n", category)
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Exercise types: %s\n", joinTypes(effectiveTypes(req, entry)))
	fmt.Fprintf(&b, "Difficulty: %s (worth %d points)\n", req.Difficulty, req.Difficulty.MaxPoints())
	fmt.Fprintf(&b, "Language: %s\n", req.Language)
	if req.TargetLanguage != "" {
		fmt.Fprintf(&b, "Target language: %s\n", req.TargetLanguage)
	}
	fmt.Fprintf(&b, "Hints: %d\n", req.Options.HintCount)

	if req.Lesson != nil {
		b.WriteString("\n")
		b.WriteString(buildLessonContext(req.Lesson, now))
	}

	b.WriteString("\nAlready generated in this request:\n")
	b.WriteString(buildDedup(prior, maxPrior))

	if ci := strings.TrimSpace(req.Options.CustomInstructions); ci != "" {
		b.WriteString("\n\nAdditional instructions:\n")
		b.WriteString(ci)
	}

	return b.String()
}

func buildLessonContext(l *exercise.LessonContext, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lesson context (as of %s):\n", now.UTC().Format("2006-01-02"))
	if l.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", l.Title)
	}
	if len(l.Concepts) > 0 {
		fmt.Fprintf(&b, "Concepts: %s\n", strings.Join(l.Concepts, ", "))
	}
	if len(l.Vocabulary) > 0 {
		fmt.Fprintf(&b, "Vocabulary: %s\n", strings.Join(l.Vocabulary, ", "))
	}
	if len(l.PriorExerciseIDs) > 0 {
		fmt.Fprintf(&b, "Exercises already completed: %s\n", strings.Join(l.PriorExerciseIDs, ", "))
	}
	b.WriteString("Build on the lesson's concepts and vocabulary.\n")
	return b.String()
}

// buildDedup formats prior instructions for the prompt, respecting the max
// limit. Returns "None" if there are none.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}

	// Keep only the most recent N.
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, p := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}

func joinTypes(types []exercise.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
