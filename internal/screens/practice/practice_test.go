package practice

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/practiz/internal/exercise"
	svc "github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screens/history"
	"github.com/abhisek/practiz/internal/screens/summary"
	"github.com/abhisek/practiz/internal/store"
)

type fakeService struct {
	exercises []*exercise.Exercise
	genErr    error
	submitted []svc.SubmitRequest
}

func (f *fakeService) Generate(_ context.Context, _ svc.GenerateRequest) (*svc.GenerateResponse, error) {
	if f.genErr != nil {
		return nil, f.genErr
	}
	return &svc.GenerateResponse{Exercises: f.exercises}, nil
}

func (f *fakeService) Submit(_ context.Context, req svc.SubmitRequest) (*svc.SubmitResponse, error) {
	f.submitted = append(f.submitted, req)
	return &svc.SubmitResponse{
		Passed:         true,
		Score:          100,
		PointsEarned:   10,
		Feedback:       "Correct!",
		RevealSolution: true,
		Solution:       &exercise.Solution{CorrectAnswer: json.RawMessage(`"b"`)},
	}, nil
}

func (f *fakeService) List(_ context.Context, _ exercise.Subject, _ int) ([]*exercise.Exercise, error) {
	return f.exercises, nil
}

func (f *fakeService) History(_ context.Context, id string, _ int) ([]store.Submission, error) {
	var out []store.Submission
	for _, req := range f.submitted {
		if req.ExerciseID == id {
			out = append(out, store.Submission{ExerciseID: id, Score: 100, Passed: true})
		}
	}
	return out, nil
}

func testExercises() []*exercise.Exercise {
	return []*exercise.Exercise{
		{
			ID:   "math-1",
			Type: exercise.TypeMultipleChoice,
			Problem: exercise.Problem{
				Instruction: "Pick one half",
				Content:     json.RawMessage(`{"question":"Which equals 1/2?","options":[{"id":"a","text":"1/3"},{"id":"b","text":"2/4"}]}`),
				MaxPoints:   10,
			},
			Hints: []string{"Reduce.", "Look at b."},
		},
		{
			ID:   "math-2",
			Type: exercise.TypeFillBlank,
			Problem: exercise.Problem{
				Instruction: "Fill the blank",
				Content:     json.RawMessage(`{"template":"1/2 + 1/4 = ___","blankCount":1}`),
				MaxPoints:   10,
			},
		},
	}
}

func newTestScreen(t *testing.T, f *fakeService) *PracticeScreen {
	t.Helper()
	s := New(f, svc.GenerateRequest{Subject: "math", Topic: "fractions"}, "learner")
	clock := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(5 * time.Second)
		return clock
	}

	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a generate command from Init")
	}
	s.Update(cmd())
	return s
}

func press(s *PracticeScreen, code rune) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func TestPracticeScreen_MultipleChoiceFlow(t *testing.T) {
	f := &fakeService{exercises: testExercises()}
	s := newTestScreen(t, f)

	if s.phase != phaseAnswering || s.mc == nil {
		t.Fatalf("expected multiple-choice answering phase, got phase %d", s.phase)
	}
	if s.Title() != "Exercise 1 of 2" {
		t.Errorf("Title = %q", s.Title())
	}

	press(s, tea.KeyTab)
	if s.hintsShown != 1 {
		t.Fatalf("hintsShown = %d, want 1", s.hintsShown)
	}

	press(s, tea.KeyDown)
	cmd := press(s, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	s.Update(cmd())

	if len(f.submitted) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(f.submitted))
	}
	sub := f.submitted[0]
	if string(sub.Answer) != `"b"` || sub.HintsUsed != 1 || sub.UserID != "learner" {
		t.Errorf("unexpected submission: %+v", sub)
	}
	if sub.TimeTaken <= 0 {
		t.Errorf("expected positive time taken, got %d", sub.TimeTaken)
	}
	if s.phase != phaseFeedback {
		t.Fatalf("expected feedback phase, got %d", s.phase)
	}
	if s.View(100, 30) == "" {
		t.Error("expected feedback view")
	}

	press(s, 'x')
	if s.index != 1 || s.mc != nil {
		t.Fatalf("expected second exercise with text input, index %d", s.index)
	}
}

func TestPracticeScreen_TextAnswer(t *testing.T) {
	f := &fakeService{exercises: testExercises()[1:]}
	s := newTestScreen(t, f)

	s.input.Model.SetValue("3/4")
	cmd := press(s, tea.KeyEnter)
	s.Update(cmd())

	if len(f.submitted) != 1 || string(f.submitted[0].Answer) != `["3/4"]` {
		t.Fatalf("unexpected submissions: %+v", f.submitted)
	}

	cmd = press(s, 'x')
	if cmd == nil {
		t.Fatal("expected the summary to be pushed after the last exercise")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	sum, ok := push.Screen.(*summary.SummaryScreen)
	if !ok {
		t.Fatalf("expected summary screen, got %T", push.Screen)
	}

	// Practice again, then History.
	sum.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd = sum.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected the history screen to be pushed")
	}
	push, ok = cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg for history")
	}
	hist, ok := push.Screen.(*history.HistoryScreen)
	if !ok {
		t.Fatalf("expected history screen, got %T", push.Screen)
	}
	hist.Update(hist.Init()())
	if view := hist.View(120, 30); !strings.Contains(view, "Fill the blank") || !strings.Contains(view, "best 100/100, 1 try") {
		t.Errorf("history view missing the submitted exercise:\n%s", view)
	}
}

func TestPracticeScreen_EmptyAnswerNotSubmitted(t *testing.T) {
	f := &fakeService{exercises: testExercises()[1:]}
	s := newTestScreen(t, f)

	if cmd := press(s, tea.KeyEnter); cmd != nil {
		t.Fatal("expected no submit for an empty answer")
	}
	if s.inputErr == "" {
		t.Error("expected an input error")
	}
	if len(f.submitted) != 0 {
		t.Errorf("expected no submissions, got %d", len(f.submitted))
	}
}

func TestPracticeScreen_Skip(t *testing.T) {
	f := &fakeService{exercises: testExercises()}
	s := newTestScreen(t, f)

	_, _ = s.Update(tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	if s.index != 1 {
		t.Fatalf("expected skip to advance, index %d", s.index)
	}
	if len(s.items) != 1 || !s.items[0].Skipped {
		t.Fatalf("expected a skipped item, got %+v", s.items)
	}
	if len(f.submitted) != 0 {
		t.Error("skipping must not submit")
	}
}

func TestPracticeScreen_GenerateError(t *testing.T) {
	f := &fakeService{genErr: errors.New("invalid request: topic: is required")}
	s := newTestScreen(t, f)

	if s.errMsg == "" {
		t.Fatal("expected an error message")
	}
	if cmd := press(s, 'q'); cmd == nil {
		t.Error("expected quit on any key after an error")
	}
}

func TestPracticeScreen_ResumeRestarts(t *testing.T) {
	f := &fakeService{exercises: testExercises()}
	s := newTestScreen(t, f)
	s.record(nil, true)

	_, cmd := s.Update(router.ResumeMsg{})
	if cmd == nil {
		t.Fatal("expected a new generate command")
	}
	if s.phase != phaseLoading || len(s.items) != 0 {
		t.Fatalf("expected a fresh batch, phase %d items %d", s.phase, len(s.items))
	}
}
