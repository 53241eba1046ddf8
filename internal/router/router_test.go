package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/practiz/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPush(t *testing.T) {
	r := New(&stubScreen{title: "practice"})

	summary := &stubScreen{title: "summary"}
	r.Update(PushScreenMsg{Screen: summary})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "summary" {
		t.Errorf("expected active 'summary', got %q", r.Active().Title())
	}
	if !summary.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPopResumesScreenBelow(t *testing.T) {
	practice := &stubScreen{title: "practice"}
	r := New(practice)
	r.Push(&stubScreen{title: "summary"})

	cmd := r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active().Title() != "practice" {
		t.Fatalf("expected practice on top, got %q (depth %d)", r.Active().Title(), r.Depth())
	}
	if cmd == nil {
		t.Fatal("expected a resume command")
	}

	r.Update(cmd())
	if len(practice.got) != 1 {
		t.Fatalf("expected practice to receive one message, got %d", len(practice.got))
	}
	if _, ok := practice.got[0].(ResumeMsg); !ok {
		t.Errorf("expected ResumeMsg, got %T", practice.got[0])
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	r := New(&stubScreen{title: "practice"})

	if cmd := r.Pop(); cmd != nil {
		t.Error("expected no command when popping the bottom screen")
	}
	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	bottom := &stubScreen{title: "practice"}
	top := &stubScreen{title: "summary"}
	r := New(bottom)
	r.Push(top)

	r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if len(top.got) != 1 || len(bottom.got) != 0 {
		t.Errorf("expected only the active screen to get the key, got top=%d bottom=%d", len(top.got), len(bottom.got))
	}
	if r.View(80, 24) != "summary" {
		t.Errorf("View = %q", r.View(80, 24))
	}
}
