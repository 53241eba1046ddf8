// Package practice is the interactive practice screen: it generates a
// batch of exercises, collects answers and shows graded feedback.
package practice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/practiz/internal/exercise"
	svc "github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screen"
	"github.com/abhisek/practiz/internal/screens/history"
	"github.com/abhisek/practiz/internal/screens/summary"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/abhisek/practiz/internal/ui/layout"
)

// Service is what the screen needs from the practice service.
type Service interface {
	Generate(ctx context.Context, req svc.GenerateRequest) (*svc.GenerateResponse, error)
	Submit(ctx context.Context, req svc.SubmitRequest) (*svc.SubmitResponse, error)
	history.Source
}

type phase int

const (
	phaseLoading phase = iota
	phaseAnswering
	phaseGrading
	phaseFeedback
)

// PracticeScreen implements screen.Screen for a practice batch.
type PracticeScreen struct {
	service Service
	request svc.GenerateRequest
	userID  string
	now     func() time.Time

	phase     phase
	exercises []*exercise.Exercise
	warning   string
	index     int
	started   time.Time
	batchFrom time.Time

	hintsShown int
	mc         *components.MultiChoice
	input      components.TextInput
	inputErr   string

	result *svc.SubmitResponse
	items  []summary.Item
	errMsg string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)

// New creates a practice screen for req. userID is recorded with every
// submission and may be empty.
func New(service Service, req svc.GenerateRequest, userID string) *PracticeScreen {
	return &PracticeScreen{
		service: service,
		request: req,
		userID:  userID,
		now:     time.Now,
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	s.phase = phaseLoading
	s.batchFrom = s.now()
	return s.generate()
}

func (s *PracticeScreen) Title() string {
	if s.phase == phaseLoading || len(s.exercises) == 0 {
		return "Practice"
	}
	return fmt.Sprintf("Exercise %d of %d", s.index+1, len(s.exercises))
}

// Status shows the points earned so far in the batch.
func (s *PracticeScreen) Status() string {
	points := 0
	for _, it := range s.items {
		points += it.Points
	}
	return fmt.Sprintf("★ %d pts", points)
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Quit"}}
	case s.phase == phaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case s.phase == phaseAnswering:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Submit"}}
		if s.mc != nil {
			hints = append([]layout.KeyHint{{Key: "↑↓", Description: "Choose"}}, hints...)
			if s.mc.MultiSelect {
				hints = append(hints, layout.KeyHint{Key: "Space", Description: "Mark"})
			}
		}
		return append(hints,
			layout.KeyHint{Key: "Tab", Description: "Hint"},
			layout.KeyHint{Key: "Ctrl+N", Description: "Skip"},
			layout.KeyHint{Key: "Esc", Description: "Finish"})
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		return s.handleGenerated(msg)
	case gradedMsg:
		return s.handleGraded(msg)
	case router.ResumeMsg:
		// The summary was closed with "Practice again".
		s.items = nil
		s.errMsg = ""
		return s, s.Init()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseAnswering && s.mc == nil {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) generate() tea.Cmd {
	service, req := s.service, s.request
	return func() tea.Msg {
		resp, err := service.Generate(context.Background(), req)
		return generatedMsg{Response: resp, Err: err}
	}
}

func (s *PracticeScreen) handleGenerated(msg generatedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	if msg.Response == nil || len(msg.Response.Exercises) == 0 {
		s.errMsg = "no exercises were generated"
		return s, nil
	}
	s.exercises = msg.Response.Exercises
	s.warning = msg.Response.Meta.Warning
	s.index = 0
	return s, s.showExercise()
}

// showExercise prepares input for the current exercise.
func (s *PracticeScreen) showExercise() tea.Cmd {
	ex := s.current()
	s.phase = phaseAnswering
	s.started = s.now()
	s.hintsShown = 0
	s.inputErr = ""
	s.result = nil
	s.mc = nil

	if ex.Type == exercise.TypeMultipleChoice {
		if content, err := ex.DecodeContent(); err == nil {
			mc := components.NewMultiChoice(content.(exercise.MultipleChoiceContent))
			s.mc = &mc
			return nil
		}
	}
	s.input = components.NewTextInput(components.AnswerFormat(ex.Type), ex.Type == exercise.TypeCalculation, 200)
	return s.input.Init()
}

func (s *PracticeScreen) current() *exercise.Exercise {
	return s.exercises[s.index]
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, tea.Quit
	}

	switch s.phase {
	case phaseFeedback:
		return s, s.advance()
	case phaseAnswering:
	default:
		return s, nil
	}

	switch key {
	case "esc":
		return s, s.finish()
	case "tab":
		if s.hintsShown < len(s.current().Hints) {
			s.hintsShown++
		}
		return s, nil
	case "ctrl+n":
		s.record(nil, true)
		return s, s.advance()
	case "enter":
		if s.mc != nil && s.mc.MultiSelect && len(s.mc.ChosenIDs()) == 0 {
			return s, nil
		}
		return s.submit()
	}

	if s.mc != nil {
		updated, cmd := s.mc.Update(msg)
		s.mc = &updated
		return s, cmd
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// answer converts the current input into the exercise's answer shape.
func (s *PracticeScreen) answer() (json.RawMessage, error) {
	if s.mc != nil {
		ids := s.mc.ChosenIDs()
		if s.mc.MultiSelect {
			return json.Marshal(ids)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("no option selected")
		}
		return json.Marshal(ids[0])
	}
	return exercise.ParseTextAnswer(s.current().Type, s.input.Value())
}

func (s *PracticeScreen) submit() (screen.Screen, tea.Cmd) {
	answer, err := s.answer()
	if err != nil {
		s.inputErr = err.Error()
		return s, nil
	}
	s.inputErr = ""
	if s.mc != nil {
		s.mc.Submitted = true
	}
	s.phase = phaseGrading

	req := svc.SubmitRequest{
		ExerciseID: s.current().ID,
		Answer:     answer,
		TimeTaken:  int(s.now().Sub(s.started).Seconds()),
		HintsUsed:  s.hintsShown,
		UserID:     s.userID,
	}
	service := s.service
	return s, func() tea.Msg {
		resp, err := service.Submit(context.Background(), req)
		return gradedMsg{Response: resp, Err: err}
	}
}

func (s *PracticeScreen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.result = msg.Response
	s.phase = phaseFeedback
	if s.mc != nil && msg.Response.Solution != nil {
		s.mc.Reveal(correctIDs(msg.Response.Solution.CorrectAnswer))
	}
	s.record(msg.Response, false)
	return s, nil
}

func (s *PracticeScreen) record(res *svc.SubmitResponse, skipped bool) {
	ex := s.current()
	item := summary.Item{
		Instruction: ex.Problem.Instruction,
		Type:        ex.Type,
		MaxPoints:   ex.Problem.MaxPoints,
		HintsUsed:   s.hintsShown,
		Skipped:     skipped,
	}
	if res != nil {
		item.Score = res.Score
		item.Passed = res.Passed
		item.Points = res.PointsEarned
	}
	s.items = append(s.items, item)
}

// advance moves to the next exercise or to the summary.
func (s *PracticeScreen) advance() tea.Cmd {
	if s.index+1 < len(s.exercises) {
		s.index++
		return s.showExercise()
	}
	return s.finish()
}

func (s *PracticeScreen) finish() tea.Cmd {
	sum := summary.Summary{
		Topic:    s.request.Topic,
		Items:    append([]summary.Item(nil), s.items...),
		Duration: s.now().Sub(s.batchFrom),
		Warning:  s.warning,
	}
	again := func() tea.Cmd {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	service, subject := s.service, s.request.Subject
	past := func() tea.Cmd {
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: history.New(service, subject)}
		}
	}
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: summary.New(sum, again, past)}
	}
}

func correctIDs(raw json.RawMessage) []string {
	if id, err := exercise.DecodeOptionID(raw); err == nil {
		return []string{id}
	}
	ids, _ := exercise.DecodeStringList(raw)
	return ids
}
