package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/practiz/internal/exercise"
)

// ExerciseBody renders the learner-facing content of ex as plain text.
// Solutions are never included.
func ExerciseBody(ex *exercise.Exercise) string {
	var b strings.Builder
	b.WriteString(ex.Problem.Instruction)
	b.WriteString("\n\n")

	content, err := ex.DecodeContent()
	if err != nil {
		b.WriteString(string(ex.Problem.Content))
		return strings.TrimRight(b.String(), "\n")
	}

	switch c := content.(type) {
	case exercise.MultipleChoiceContent:
		b.WriteString(c.Question + "\n")
		for _, opt := range c.Options {
			fmt.Fprintf(&b, "  %s) %s\n", opt.ID, opt.Text)
		}
		if c.MultiSelect {
			b.WriteString("(select all that apply)\n")
		}
	case exercise.FillBlankContent:
		b.WriteString(c.Template + "\n")
		if len(c.WordBank) > 0 {
			fmt.Fprintf(&b, "Word bank: %s\n", strings.Join(c.WordBank, ", "))
		}
	case exercise.MatchingContent:
		rows := max(len(c.LeftColumn), len(c.RightColumn))
		for i := 0; i < rows; i++ {
			var left, right string
			if i < len(c.LeftColumn) {
				left = c.LeftColumn[i].ID + ") " + c.LeftColumn[i].Text
			}
			if i < len(c.RightColumn) {
				right = c.RightColumn[i].ID + ") " + c.RightColumn[i].Text
			}
			fmt.Fprintf(&b, "  %-32s %s\n", left, right)
		}
	case exercise.TrueFalseContent:
		for i, st := range c.Statements {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, st.Text)
		}
	case exercise.CalculationContent:
		b.WriteString(c.Problem + "\n")
		if len(c.Variables) > 0 {
			b.WriteString("Given: " + formatFields(c.Variables) + "\n")
		}
		if c.Units != "" {
			fmt.Fprintf(&b, "Answer in %s\n", c.Units)
		}
	case exercise.FreeformContent:
		for _, k := range sortedKeys(c.Fields) {
			fmt.Fprintf(&b, "%s: %s\n", k, formatValue(c.Fields[k]))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// AnswerFormat describes how to type an answer for t at a prompt.
func AnswerFormat(t exercise.Type) string {
	switch t.AnswerShape() {
	case exercise.ShapeOptionID:
		return "option id, e.g. b (comma-separate several for multi-select)"
	case exercise.ShapeStringList:
		return "one answer per blank, comma separated (use | if answers contain commas)"
	case exercise.ShapeBoolList:
		return "true/false per statement, e.g. t, f, t"
	case exercise.ShapeMapping:
		return "pairs, e.g. l1=r2, l2=r1"
	case exercise.ShapeNumeric:
		return "a number, e.g. 9.8 or 3/4"
	default:
		return "free text"
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatFields(m map[string]any) string {
	parts := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		parts = append(parts, fmt.Sprintf("%s = %s", k, formatValue(m[k])))
	}
	return strings.Join(parts, ", ")
}

func formatValue(v any) string {
	switch t := v.(type) {
	case []any:
		parts := make([]string, len(t))
		for i, it := range t {
			parts[i] = formatValue(it)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return formatFields(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
