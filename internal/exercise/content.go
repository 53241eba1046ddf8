package exercise

import (
	"encoding/json"
	"fmt"
)

// Option is an identified choice, statement or column entry.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Content is the type-specific problem payload. It is a closed sum type:
// only the variants in this file implement it.
type Content interface {
	isContent()
}

// MultipleChoiceContent is the payload of a multiple-choice exercise.
type MultipleChoiceContent struct {
	Question    string   `json:"question"`
	Options     []Option `json:"options"`
	MultiSelect bool     `json:"multiSelect"`
}

// FillBlankContent is the payload of a fill-blank exercise. Template
// contains one blank marker ("___") per blank.
type FillBlankContent struct {
	Template   string   `json:"template"`
	BlankCount int      `json:"blankCount"`
	WordBank   []string `json:"wordBank,omitempty"`
}

// MatchingContent is the payload of a matching exercise.
type MatchingContent struct {
	LeftColumn  []Option `json:"leftColumn"`
	RightColumn []Option `json:"rightColumn"`
}

// TrueFalseContent is the payload of a true-false exercise.
type TrueFalseContent struct {
	Statements []Option `json:"statements"`
}

// CalculationContent is the payload of a calculation exercise.
type CalculationContent struct {
	Problem   string         `json:"problem"`
	Variables map[string]any `json:"variables,omitempty"`
	Units     string         `json:"units,omitempty"`
	SigFigs   int            `json:"sigFigs,omitempty"`
}

// FreeformContent carries the type-specific fields of every other type
// (proof, translation, conjugation, coding, ...).
type FreeformContent struct {
	Kind   Type
	Fields map[string]any
}

func (MultipleChoiceContent) isContent() {}
func (FillBlankContent) isContent()      {}
func (MatchingContent) isContent()       {}
func (TrueFalseContent) isContent()      {}
func (CalculationContent) isContent()    {}
func (FreeformContent) isContent()       {}

// DecodeContent decodes a raw content payload into the variant for t.
func DecodeContent(t Type, raw json.RawMessage) (Content, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty content")
	}

	switch t {
	case TypeMultipleChoice:
		var c MultipleChoiceContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode %s content: %w", t, err)
		}
		return c, nil
	case TypeFillBlank:
		var c FillBlankContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode %s content: %w", t, err)
		}
		return c, nil
	case TypeMatching:
		var c MatchingContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode %s content: %w", t, err)
		}
		return c, nil
	case TypeTrueFalse:
		var c TrueFalseContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode %s content: %w", t, err)
		}
		return c, nil
	case TypeCalculation:
		var c CalculationContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode %s content: %w", t, err)
		}
		return c, nil
	case TypeOrdering, TypeShortAnswer, TypeLongAnswer, TypeProof, TypeTranslation,
		TypeConjugation, TypeDiagram, TypeCoding, TypeDerivation:
		fields := map[string]any{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode %s content: %w", t, err)
		}
		return FreeformContent{Kind: t, Fields: fields}, nil
	}
	return nil, fmt.Errorf("unknown exercise type %q", t)
}
