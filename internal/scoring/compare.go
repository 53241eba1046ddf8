package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/abhisek/practiz/internal/exercise"
)

// gradeOptions compares option ids. Multi-select answers are lists and
// are compared as sets.
func gradeOptions(correct, submitted json.RawMessage) outcome {
	want, err := optionSet(correct)
	if err != nil {
		return outcome{total: 1, err: fmt.Errorf("stored answer: %w", err)}
	}
	got, err := optionSet(submitted)
	if err != nil {
		return outcome{total: 1, err: fmt.Errorf("expected an option id: %w", err)}
	}
	if strings.Join(want, ",") == strings.Join(got, ",") {
		return outcome{correct: 1, total: 1}
	}
	return outcome{total: 1}
}

func optionSet(raw json.RawMessage) ([]string, error) {
	var ids []string
	if id, err := exercise.DecodeOptionID(raw); err == nil {
		ids = []string{id}
	} else {
		list, listErr := exercise.DecodeStringList(raw)
		if listErr != nil {
			return nil, err
		}
		ids = list
	}

	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no option selected")
	}
	sort.Strings(out)
	return out, nil
}

// gradeStringList compares blanks position by position. Each blank also
// accepts any of the alternatives.
func gradeStringList(correct, submitted json.RawMessage, rules exercise.ValidationRules) outcome {
	want, err := exercise.DecodeStringList(correct)
	if err != nil || len(want) == 0 {
		return outcome{total: 1, err: fmt.Errorf("stored answer is not a list")}
	}
	got, err := exercise.DecodeStringList(submitted)
	if err != nil {
		return outcome{total: len(want), err: fmt.Errorf("expected a list of %d answers", len(want))}
	}

	o := outcome{total: len(want)}
	for i, w := range want {
		if i < len(got) && textMatches(got[i], w, rules) {
			o.correct++
		}
	}
	return o
}

func gradeBoolList(correct, submitted json.RawMessage) outcome {
	want, err := exercise.DecodeBoolList(correct)
	if err != nil || len(want) == 0 {
		return outcome{total: 1, err: fmt.Errorf("stored answer is not a true/false list")}
	}
	got, err := exercise.DecodeBoolList(submitted)
	if err != nil {
		return outcome{total: len(want), err: fmt.Errorf("expected %d true/false values", len(want))}
	}

	o := outcome{total: len(want)}
	for i, w := range want {
		if i < len(got) && got[i] == w {
			o.correct++
		}
	}
	return o
}

// gradeNumeric accepts a value within tolerance. A bare stored value uses
// a relative tolerance; {value, tolerance} uses an absolute one.
func gradeNumeric(correct, submitted json.RawMessage, rules exercise.ValidationRules) outcome {
	want, err := exercise.DecodeNumeric(correct)
	if err != nil {
		return outcome{total: 1, err: fmt.Errorf("stored answer: %w", err)}
	}
	got, err := exercise.DecodeNumeric(submitted)
	if err != nil {
		return outcome{total: 1, err: fmt.Errorf("expected a number")}
	}

	var allowed float64
	if want.Tolerance != nil {
		allowed = *want.Tolerance
	} else {
		rel := rules.Tolerance
		if rel <= 0 {
			rel = DefaultTolerance
		}
		allowed = rel * math.Abs(want.Value)
		if want.Value == 0 {
			allowed = rel
		}
	}

	if math.Abs(got.Value-want.Value) <= allowed+1e-9 {
		return outcome{correct: 1, total: 1}
	}
	return outcome{total: 1}
}

func gradeMapping(correct, submitted json.RawMessage) outcome {
	want, err := exercise.DecodeMapping(correct)
	if err != nil || len(want) == 0 {
		return outcome{total: 1, err: fmt.Errorf("stored answer is not a mapping")}
	}
	got, err := exercise.DecodeMapping(submitted)
	if err != nil {
		return outcome{total: len(want), err: fmt.Errorf("expected pairs like {\"l1\": \"r2\"}")}
	}

	o := outcome{total: len(want)}
	for k, v := range want {
		if g, ok := got[k]; ok && strings.EqualFold(strings.TrimSpace(g), strings.TrimSpace(v)) {
			o.correct++
		}
	}
	return o
}

// gradeText compares canonical text against the answer and alternatives.
func gradeText(correct, submitted json.RawMessage, rules exercise.ValidationRules) outcome {
	got := exercise.AnswerText(submitted)
	if got == "" {
		return outcome{total: 1, err: fmt.Errorf("empty answer")}
	}
	if textMatches(got, exercise.AnswerText(correct), rules) {
		return outcome{correct: 1, total: 1}
	}
	return outcome{total: 1}
}

func textMatches(got, want string, rules exercise.ValidationRules) bool {
	g := normalizeText(got, rules.CaseSensitive)
	if g == normalizeText(want, rules.CaseSensitive) {
		return true
	}
	for _, alt := range rules.Alternatives {
		if g == normalizeText(alt, rules.CaseSensitive) {
			return true
		}
	}
	return false
}

func normalizeText(s string, caseSensitive bool) string {
	s = strings.Join(strings.Fields(s), " ")
	if !caseSensitive {
		s = strings.ToLower(s)
	}
	return s
}
