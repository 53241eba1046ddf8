// Package history lists recently generated exercises and the submissions
// graded against them.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/exercise"
	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screen"
	"github.com/abhisek/practiz/internal/store"
	"github.com/abhisek/practiz/internal/ui/layout"
	"github.com/abhisek/practiz/internal/ui/theme"
)

const (
	exerciseLimit   = 30
	submissionLimit = 10
)

// Source is what the screen reads from the practice service.
type Source interface {
	List(ctx context.Context, subject exercise.Subject, limit int) ([]*exercise.Exercise, error)
	History(ctx context.Context, exerciseID string, limit int) ([]store.Submission, error)
}

type historyLoadedMsg struct {
	Exercises   []*exercise.Exercise
	Submissions map[string][]store.Submission // exercise ID → submissions, newest first
	Err         error
}

// HistoryScreen displays recent exercises and their submissions.
type HistoryScreen struct {
	source      Source
	subject     exercise.Subject
	exercises   []*exercise.Exercise
	submissions map[string][]store.Submission
	selected    int
	expanded    map[int]bool
	loaded      bool
	errMsg      string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen. An empty subject lists every subject.
func New(source Source, subject exercise.Subject) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		subject:  subject,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	source, subject := s.source, s.subject
	return func() tea.Msg {
		ctx := context.Background()

		exercises, err := source.List(ctx, subject, exerciseLimit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		subs := make(map[string][]store.Submission, len(exercises))
		for _, ex := range exercises {
			list, err := source.History(ctx, ex.ID, submissionLimit)
			if err != nil {
				return historyLoadedMsg{Err: err}
			}
			subs[ex.ID] = list
		}
		return historyLoadedMsg{Exercises: exercises, Submissions: subs}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submissions"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.exercises = msg.Exercises
			s.submissions = msg.Submissions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.exercises)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.exercises) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No exercises yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, ex := range s.exercises {
		subs := s.submissions[ex.ID]

		best := "not attempted"
		if len(subs) > 0 {
			top := subs[0]
			for _, sub := range subs[1:] {
				if sub.Score > top.Score {
					top = sub
				}
			}
			tries := "tries"
			if len(subs) == 1 {
				tries = "try"
			}
			best = fmt.Sprintf("best %d/100, %d %s", top.Score, len(subs), tries)
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-16s  %-40s  %s",
			prefix, ex.Metadata.CreatedAt.Local().Format("Jan 02"), ex.Type,
			truncate(ex.Problem.Instruction, 40), best)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if !s.expanded[i] {
			continue
		}
		if len(subs) == 0 {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
					Render("    No submissions yet")))
			b.WriteString("\n")
			continue
		}
		for _, sub := range subs {
			mark, color := "✗", theme.Error
			if sub.Passed {
				mark, color = "✓", theme.Success
			}
			subLine := fmt.Sprintf("    %s %s  score %d  %d pts  %d hints  %ds",
				mark, sub.Timestamp.Local().Format("Jan 02 15:04"),
				sub.Score, sub.PointsEarned, sub.HintsUsed, sub.TimeTaken)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(color).Render(subLine)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
