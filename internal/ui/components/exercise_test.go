package components

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/abhisek/practiz/internal/exercise"
)

func TestExerciseBody(t *testing.T) {
	tests := []struct {
		name    string
		typ     exercise.Type
		content string
		want    []string
	}{
		{
			"multiple choice",
			exercise.TypeMultipleChoice,
			`{"question":"Which is prime?","options":[{"id":"a","text":"4"},{"id":"b","text":"7"}]}`,
			[]string{"Which is prime?", "a) 4", "b) 7"},
		},
		{
			"fill blank",
			exercise.TypeFillBlank,
			`{"template":"1/2 + 1/4 = ___","blankCount":1,"wordBank":["3/4","2/6"]}`,
			[]string{"1/2 + 1/4 = ___", "Word bank: 3/4, 2/6"},
		},
		{
			"true false",
			exercise.TypeTrueFalse,
			`{"statements":[{"id":"s1","text":"Water boils at 100C at sea level"}]}`,
			[]string{"1. Water boils at 100C"},
		},
		{
			"calculation",
			exercise.TypeCalculation,
			`{"problem":"Find the speed","variables":{"d":120,"t":2},"units":"km/h"}`,
			[]string{"Find the speed", "d = 120, t = 2", "Answer in km/h"},
		},
		{
			"freeform",
			exercise.TypeTranslation,
			`{"sourceText":"Bonjour","sourceLanguage":"fr"}`,
			[]string{"sourceLanguage: fr", "sourceText: Bonjour"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &exercise.Exercise{
				Type:    tt.typ,
				Problem: exercise.Problem{Instruction: "Do it", Content: json.RawMessage(tt.content)},
			}
			got := ExerciseBody(ex)
			if !strings.HasPrefix(got, "Do it") {
				t.Errorf("expected instruction first, got %q", got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("body missing %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestAnswerFormat_AllTypes(t *testing.T) {
	for _, typ := range exercise.AllTypes() {
		if AnswerFormat(typ) == "" {
			t.Errorf("no answer format for %s", typ)
		}
	}
}
