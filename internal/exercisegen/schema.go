package exercisegen

import "github.com/abhisek/practiz/internal/llm"

// ExerciseSchema is the minimal structure every generated exercise must
// have. Type-specific checks are left to the validator chain.
var ExerciseSchema = &llm.Schema{
	Name:        "exercise",
	Description: "A single generated exercise with its solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type": map[string]any{
				"type":        "string",
				"description": "The exercise type",
			},
			"instruction": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "What the learner must do",
			},
			"content": map[string]any{
				"type":        "object",
				"description": "Type-specific problem payload",
			},
			"solution": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"correctAnswer": map[string]any{
						"not":         map[string]any{"type": "null"},
						"description": "The answer, shaped by the exercise type",
					},
					"explanation": map[string]any{"type": "string"},
					"steps": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"commonMistakes": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required": []any{"correctAnswer"},
			},
			"hints": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"instruction", "content", "solution"},
	},
}
