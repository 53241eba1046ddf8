package llm

import (
	"errors"
	"testing"
)

func exerciseSchema() *Schema {
	return &Schema{
		Name:        "test-exercise",
		Description: "A minimal exercise",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"instruction": map[string]any{"type": "string", "minLength": 1},
				"content":     map[string]any{"type": "object"},
				"difficulty": map[string]any{
					"type": "string",
					"enum": []any{"beginner", "intermediate", "expert"},
				},
				"solution": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"correctAnswer": map[string]any{"not": map[string]any{"type": "null"}},
					},
					"required": []any{"correctAnswer"},
				},
			},
			"required": []any{"instruction", "content", "solution"},
		},
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"instruction":"Solve","content":{},"solution":{"correctAnswer":"b"}}`, false},
		{"valid with enum", `{"instruction":"Solve","content":{},"difficulty":"expert","solution":{"correctAnswer":[1,2]}}`, false},
		{"missing required", `{"instruction":"Solve","content":{}}`, true},
		{"empty instruction", `{"instruction":"","content":{},"solution":{"correctAnswer":"b"}}`, true},
		{"content wrong type", `{"instruction":"Solve","content":"text","solution":{"correctAnswer":"b"}}`, true},
		{"null answer", `{"instruction":"Solve","content":{},"solution":{"correctAnswer":null}}`, true},
		{"invalid enum", `{"instruction":"Solve","content":{},"difficulty":"hard","solution":{"correctAnswer":"b"}}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(exerciseSchema(), []byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
				if invErr.Content != tt.raw {
					t.Errorf("expected offending content to be kept, got %q", invErr.Content)
				}
			}
		})
	}
}

func TestValidateJSON_NilSchema(t *testing.T) {
	if err := ValidateJSON(nil, []byte(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateJSON_CachesCompiledSchema(t *testing.T) {
	s := exerciseSchema()
	s.Name = "test-exercise-cache"
	if err := ValidateJSON(s, []byte(`{"instruction":"a","content":{},"solution":{"correctAnswer":1}}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := schemaCache.Load(s.Name); !ok {
		t.Fatal("expected compiled schema to be cached")
	}
}
