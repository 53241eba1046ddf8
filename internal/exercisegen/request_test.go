package exercisegen

import (
	"errors"
	"reflect"
	"testing"

	"github.com/abhisek/practiz/internal/catalog"
	"github.com/abhisek/practiz/internal/exercise"
)

func TestNormalize_Defaults(t *testing.T) {
	req, entry, err := Normalize(exercise.GenerationRequest{
		Subject: "  Math ",
		Topic:   "linear equations",
	}, catalog.Default(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Subject != exercise.SubjectMath || entry.Subject != exercise.SubjectMath {
		t.Errorf("subject = %q", req.Subject)
	}
	if req.Difficulty != exercise.DifficultyIntermediate {
		t.Errorf("difficulty = %q", req.Difficulty)
	}
	if req.Count != 1 {
		t.Errorf("count = %d", req.Count)
	}
	if req.Language != "en" {
		t.Errorf("language = %q", req.Language)
	}
	if req.Options.HintCount != DefaultHintCount {
		t.Errorf("hint count = %d", req.Options.HintCount)
	}
	if req.Types != nil {
		t.Errorf("expected any type, got %v", req.Types)
	}
}

func TestNormalize_Clamps(t *testing.T) {
	req, _, err := Normalize(exercise.GenerationRequest{
		Subject: "math",
		Topic:   "t",
		Count:   50,
		Options: exercise.Options{HintCount: 9, Quality: "Quality"},
	}, catalog.Default(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Count != 10 {
		t.Errorf("count = %d, want 10", req.Count)
	}
	if req.Options.HintCount != MaxHintCount {
		t.Errorf("hint count = %d, want %d", req.Options.HintCount, MaxHintCount)
	}
	if req.Options.Quality != exercise.QualityHigh {
		t.Errorf("quality = %q", req.Options.Quality)
	}

	req, _, _ = Normalize(exercise.GenerationRequest{Subject: "math", Topic: "t", Count: -3, Options: exercise.Options{Quality: "turbo"}}, catalog.Default(), 10)
	if req.Count != 1 {
		t.Errorf("count = %d, want 1", req.Count)
	}
	if req.Options.Quality != "" {
		t.Errorf("unknown quality should be dropped, got %q", req.Options.Quality)
	}
}

func TestNormalize_Types(t *testing.T) {
	tests := []struct {
		name  string
		types []exercise.Type
		want  []exercise.Type
	}{
		{"normalized and deduped", []exercise.Type{"Multiple_Choice", "multiple-choice", "PROOF"}, []exercise.Type{exercise.TypeMultipleChoice, exercise.TypeProof}},
		{"unsupported dropped", []exercise.Type{"coding", "calculation"}, []exercise.Type{exercise.TypeCalculation}},
		{"none supported means any", []exercise.Type{"coding", "translation"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _, err := Normalize(exercise.GenerationRequest{Subject: "math", Topic: "t", Types: tt.types}, catalog.Default(), 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(req.Types, tt.want) {
				t.Errorf("types = %v, want %v", req.Types, tt.want)
			}
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name  string
		req   exercise.GenerationRequest
		field string
	}{
		{"missing subject", exercise.GenerationRequest{Topic: "t"}, "subject"},
		{"unknown subject", exercise.GenerationRequest{Subject: "astrology", Topic: "t"}, "subject"},
		{"missing topic", exercise.GenerationRequest{Subject: "math", Topic: "   "}, "topic"},
		{"unknown difficulty", exercise.GenerationRequest{Subject: "math", Topic: "t", Difficulty: "hard"}, "difficulty"},
		{"unknown type", exercise.GenerationRequest{Subject: "math", Topic: "t", Types: []exercise.Type{"essay"}}, "types"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Normalize(tt.req, catalog.Default(), 10)
			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("expected RequestError, got %T (%v)", err, err)
			}
			if reqErr.Field != tt.field {
				t.Errorf("field = %q, want %q", reqErr.Field, tt.field)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	base := exercise.GenerationRequest{
		Subject:    exercise.SubjectMath,
		Category:   "fractions",
		Topic:      "Adding Fractions!",
		Difficulty: exercise.DifficultyBeginner,
		Types:      []exercise.Type{exercise.TypeFillBlank, exercise.TypeCalculation},
	}

	got := Fingerprint(base)
	want := "exercise:math:fractions:adding-fractions:beginner:calculation,fillblank"
	if got != want {
		t.Fatalf("Fingerprint() = %q, want %q", got, want)
	}

	reordered := base
	reordered.Types = []exercise.Type{exercise.TypeCalculation, exercise.TypeFillBlank}
	reordered.Topic = "adding  fractions"
	if Fingerprint(reordered) != got {
		t.Error("type order, case and symbols must not change the fingerprint")
	}

	anyReq := base
	anyReq.Category = ""
	anyReq.Types = nil
	if got := Fingerprint(anyReq); got != "exercise:math:any:adding-fractions:beginner:any" {
		t.Errorf("Fingerprint(any) = %q", got)
	}

	harder := base
	harder.Difficulty = exercise.DifficultyExpert
	if Fingerprint(harder) == got {
		t.Error("difficulty must change the fingerprint")
	}
}

func TestFallback(t *testing.T) {
	req, entry, err := Normalize(exercise.GenerationRequest{Subject: "history", Topic: "the printing press"}, catalog.Default(), 10)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	a := Fallback(req, entry, "history-1", testNow)
	b := Fallback(req, entry, "history-1", testNow)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("fallback must be deterministic")
	}

	if a.Type != exercise.TypeMultipleChoice || string(a.Solution.CorrectAnswer) != `"a"` {
		t.Errorf("unexpected fallback shape: %s %s", a.Type, a.Solution.CorrectAnswer)
	}
	if !a.Metadata.Fallback || a.Metadata.GeneratedBy != FallbackModel {
		t.Errorf("unexpected metadata: %+v", a.Metadata)
	}
	if len(a.Hints) == 0 {
		t.Error("expected retry hints")
	}
	if a.Problem.MaxPoints != req.Difficulty.MaxPoints() {
		t.Errorf("max points = %d", a.Problem.MaxPoints)
	}

	for _, v := range DefaultConfig().Validators {
		if verr := v.Validate(a, req); verr != nil {
			t.Errorf("fallback fails %s validation: %v", v.Name(), verr)
		}
	}
}
