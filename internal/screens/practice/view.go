package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/exercise"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/abhisek/practiz/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	switch s.phase {
	case phaseLoading:
		return renderLoading(width, s.request.Topic)
	case phaseFeedback:
		return s.renderFeedback(width)
	default:
		return s.renderExercise(width)
	}
}

func (s *PracticeScreen) renderExercise(width int) string {
	ex := s.current()
	cw := min(width-8, 76)

	var b strings.Builder

	info := fmt.Sprintf("  %s · %s · %s",
		ex.Subject, ex.Type,
		theme.Difficulty(ex.Difficulty.Rank()).Render(string(ex.Difficulty)))
	points := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d pts", ex.Problem.MaxPoints))
	pad := width - lipgloss.Width(info) - lipgloss.Width(points) - 4
	b.WriteString(info)
	if pad > 0 {
		b.WriteString(strings.Repeat(" ", pad) + points)
	}
	b.WriteString("\n")
	b.WriteString(theme.Divider.Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	if s.warning != "" && ex.Metadata.Fallback {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Warning.Render(s.warning)))
		b.WriteString("\n\n")
	}

	var body string
	if s.mc != nil {
		body = ex.Problem.Instruction + "\n\n" + s.mc.View()
	} else {
		body = components.ExerciseBody(ex)
	}
	card := theme.Card.Width(cw).Render(lipgloss.NewStyle().Foreground(theme.Text).Render(body))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")

	if s.hintsShown > 0 {
		for i, h := range ex.RevealHints(s.hintsShown, false) {
			line := theme.Hint.Width(cw).Render(fmt.Sprintf("Hint %d: %s", i+1, h))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if s.mc == nil {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "Answer: "+s.input.View()))
		b.WriteString("\n")
	}
	if s.inputErr != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Incorrect.Render(s.inputErr)))
		b.WriteString("\n")
	}
	if s.phase == phaseGrading {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("Checking...")))
	}

	return b.String()
}

func (s *PracticeScreen) renderFeedback(width int) string {
	res := s.result
	ex := s.current()
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString("\n")

	if res.Passed {
		b.WriteString(center(theme.Correct, fmt.Sprintf("Passed · %d/100", res.Score)))
	} else {
		b.WriteString(center(theme.Incorrect, fmt.Sprintf("Not passed · %d/100", res.Score)))
	}
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent),
		fmt.Sprintf("+%d of %d points", res.PointsEarned, ex.Problem.MaxPoints)))
	b.WriteString("\n\n")

	cw := min(width-8, 76)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Body.Width(cw).Render(res.Feedback)))
	b.WriteString("\n\n")

	if s.mc != nil {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.mc.View()))
		b.WriteString("\n")
	}

	if res.Solution != nil {
		var sol strings.Builder
		sol.WriteString(theme.Label.Render("Answer: ") + exercise.AnswerText(res.Solution.CorrectAnswer))
		if res.Solution.Explanation != "" {
			sol.WriteString("\n\n" + res.Solution.Explanation)
		}
		for i, step := range res.Solution.Steps {
			sol.WriteString(fmt.Sprintf("\n%d. %s", i+1, step))
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Width(cw).Render(sol.String())))
		b.WriteString("\n\n")
	}

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Press any key to continue..."))
	return b.String()
}

func renderLoading(width int, topic string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("\n\n\n  Generating exercises on %q...", topic))
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to quit.", errMsg))
}
