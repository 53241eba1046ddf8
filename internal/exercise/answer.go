package exercise

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// NumericAnswer is a decoded numeric answer. Tolerance is nil for a bare
// number and set for the {value, tolerance} form.
type NumericAnswer struct {
	Value     float64
	Tolerance *float64
}

// DecodeOptionID decodes an option id. A single-element list is accepted.
func DecodeOptionID(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	list, err := DecodeStringList(raw)
	if err == nil && len(list) == 1 {
		return list[0], nil
	}
	return "", fmt.Errorf("expected option id, got %s", compact(raw))
}

// DecodeStringList decodes a list of strings. Numbers and booleans in the
// list are rendered as text.
func DecodeStringList(raw json.RawMessage) ([]string, error) {
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("expected list, got %s", compact(raw))
	}
	out := make([]string, len(items))
	for i, it := range items {
		s, ok := scalarText(it)
		if !ok {
			return nil, fmt.Errorf("item %d is not a scalar", i)
		}
		out[i] = s
	}
	return out, nil
}

// DecodeBoolList decodes a list of booleans. "true"/"false" strings are
// accepted.
func DecodeBoolList(raw json.RawMessage) ([]bool, error) {
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("expected list, got %s", compact(raw))
	}
	out := make([]bool, len(items))
	for i, it := range items {
		switch v := it.(type) {
		case bool:
			out[i] = v
		case string:
			b, ok := parseBoolWord(v)
			if !ok {
				return nil, fmt.Errorf("item %d: %q is not a boolean", i, v)
			}
			out[i] = b
		default:
			return nil, fmt.Errorf("item %d is not a boolean", i)
		}
	}
	return out, nil
}

// DecodeMapping decodes a left-id → right-id mapping.
func DecodeMapping(raw json.RawMessage) (map[string]string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("expected mapping, got %s", compact(raw))
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := scalarText(v)
		if !ok {
			return nil, fmt.Errorf("value for %q is not a scalar", k)
		}
		out[strings.TrimSpace(k)] = s
	}
	return out, nil
}

// DecodeNumeric decodes a number, a numeric string ("60", "3/4",
// "9.8 m/s^2") or a {value, tolerance} object.
func DecodeNumeric(raw json.RawMessage) (NumericAnswer, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return NumericAnswer{}, fmt.Errorf("invalid JSON: %w", err)
	}

	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return NumericAnswer{}, err
		}
		return NumericAnswer{Value: f}, nil
	case string:
		f, err := ParseNumber(t)
		if err != nil {
			return NumericAnswer{}, err
		}
		return NumericAnswer{Value: f}, nil
	case map[string]any:
		val, ok := t["value"]
		if !ok {
			return NumericAnswer{}, fmt.Errorf("numeric object has no value")
		}
		f, err := numberOf(val)
		if err != nil {
			return NumericAnswer{}, fmt.Errorf("value: %w", err)
		}
		out := NumericAnswer{Value: f}
		if tol, ok := t["tolerance"]; ok && tol != nil {
			tf, err := numberOf(tol)
			if err != nil {
				return NumericAnswer{}, fmt.Errorf("tolerance: %w", err)
			}
			if tf < 0 {
				tf = -tf
			}
			out.Tolerance = &tf
		}
		return out, nil
	}
	return NumericAnswer{}, fmt.Errorf("expected number, got %s", compact(raw))
}

// AnswerText renders any answer as canonical text: strings as-is, lists
// joined with ", ", mappings as sorted "k=v" pairs, everything else as
// compact JSON.
func AnswerText(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return strings.TrimSpace(string(raw))
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			if s, ok := scalarText(it); ok {
				parts = append(parts, s)
				continue
			}
			b, _ := json.Marshal(it)
			parts = append(parts, string(b))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			s, ok := scalarText(t[k])
			if !ok {
				b, _ := json.Marshal(t[k])
				s = string(b)
			}
			parts = append(parts, k+"="+s)
		}
		return strings.Join(parts, ", ")
	}
	if s, ok := scalarText(v); ok {
		return s
	}
	return compact(raw)
}

// ParseTextAnswer converts a typed answer (from a terminal prompt or a
// command-line flag) into the JSON shape expected for t.
//
//	option-id:   "b"
//	string-list: "3/4, 1/2" (use "|" as separator when blanks contain commas)
//	bool-list:   "t, f, true"
//	mapping:     "a=2, b=1"
//	numeric/text: taken as-is
func ParseTextAnswer(t Type, input string) (json.RawMessage, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty answer")
	}

	switch t.AnswerShape() {
	case ShapeOptionID:
		if strings.Contains(input, ",") {
			return json.Marshal(splitList(input))
		}
		return json.Marshal(input)
	case ShapeStringList:
		return json.Marshal(splitList(input))
	case ShapeBoolList:
		parts := splitList(input)
		out := make([]bool, len(parts))
		for i, p := range parts {
			b, ok := parseBoolWord(p)
			if !ok {
				return nil, fmt.Errorf("%q is not true/false", p)
			}
			out[i] = b
		}
		return json.Marshal(out)
	case ShapeMapping:
		out := map[string]string{}
		for _, p := range splitList(input) {
			k, v, ok := cutPair(p)
			if !ok {
				return nil, fmt.Errorf("%q is not a pair like a=1", p)
			}
			out[k] = v
		}
		return json.Marshal(out)
	default:
		return json.Marshal(input)
	}
}

var leadingNumber = regexp.MustCompile(`^-?(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?(?:[eE][-+]?\d+)?`)

// ParseNumber parses a decimal, a fraction "a/b", or a number followed by
// units ("9.8 m/s^2"). Thousands separators are accepted only in groups of
// three ("1,000"); anything else after a comma is rejected.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	if num, den, err := parseFraction(s); err == nil {
		if den == 0 {
			return 0, fmt.Errorf("zero denominator")
		}
		return float64(num) / float64(den), nil
	}
	if m := leadingNumber.FindString(s); m != "" {
		rest := strings.TrimSpace(s[len(m):])
		if rest == "" || !continuesNumber(rest) {
			return strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		}
	}
	return 0, fmt.Errorf("invalid number %q", s)
}

// parseFraction parses "a/b" into numerator and denominator.
func parseFraction(s string) (int64, int64, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid fraction format: %q", s)
	}
	num, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid numerator: %w", err)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid denominator: %w", err)
	}
	return num, den, nil
}

// continuesNumber reports whether s looks like the malformed tail of a
// number rather than a unit.
func continuesNumber(s string) bool {
	return strings.ContainsRune("/,.", rune(s[0])) || (s[0] >= '0' && s[0] <= '9')
}

func numberOf(v any) (float64, error) {
	switch t := v.(type) {
	case json.Number:
		return t.Float64()
	case float64:
		return t, nil
	case string:
		return ParseNumber(t)
	}
	return 0, fmt.Errorf("not a number")
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func parseBoolWord(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "yes", "y", "1":
		return true, true
	case "f", "false", "no", "n", "0":
		return false, true
	}
	return false, false
}

func splitList(s string) []string {
	sep := ","
	if strings.Contains(s, "|") {
		sep = "|"
	}
	raw := strings.Split(s, sep)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func cutPair(s string) (string, string, bool) {
	for _, sep := range []string{"->", "=", ":"} {
		if k, v, ok := strings.Cut(s, sep); ok {
			k, v = strings.TrimSpace(k), strings.TrimSpace(v)
			return k, v, k != "" && v != ""
		}
	}
	return "", "", false
}

func compact(raw json.RawMessage) string {
	var b bytes.Buffer
	if err := json.Compact(&b, raw); err != nil {
		return string(raw)
	}
	s := b.String()
	if len(s) > 80 {
		s = s[:80] + "..."
	}
	return s
}
