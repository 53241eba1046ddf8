package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/exercise"
	"github.com/abhisek/practiz/internal/screen"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/abhisek/practiz/internal/ui/layout"
	"github.com/abhisek/practiz/internal/ui/theme"
)

// Item is the outcome of one exercise in a batch.
type Item struct {
	Instruction string
	Type        exercise.Type
	Score       int
	Passed      bool
	Points      int
	MaxPoints   int
	HintsUsed   int
	Skipped     bool
}

// Summary describes a finished practice batch.
type Summary struct {
	Topic    string
	Items    []Item
	Duration time.Duration
	Warning  string
}

// Totals returns the number of passed items and the points earned out of
// the points available.
func (s Summary) Totals() (passed, points, maxPoints int) {
	for _, it := range s.Items {
		if it.Passed {
			passed++
		}
		points += it.Points
		maxPoints += it.MaxPoints
	}
	return passed, points, maxPoints
}

// SummaryScreen displays the batch summary.
type SummaryScreen struct {
	summary Summary
	menu    components.Menu
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. again is run when the learner asks for
// another batch, history when they open past exercises. A nil action
// disables its menu item.
func New(summary Summary, again, history func() tea.Cmd) *SummaryScreen {
	return &SummaryScreen{
		summary: summary,
		menu: components.NewMenu([]components.MenuItem{
			{Label: "Practice again", Action: again, Disabled: again == nil},
			{Label: "History", Action: history, Disabled: history == nil},
			{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
		}),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "esc" {
		return s, tea.Quit
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Practice complete!"))
	b.WriteString("\n")
	if sum.Topic != "" {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), sum.Topic))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	passed, points, maxPoints := sum.Totals()
	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	stats := fmt.Sprintf("Exercises: %d        Passed: %d        Time: %d:%02d",
		len(sum.Items), passed, mins, secs)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), stats))
	b.WriteString("\n\n")

	barWidth := min(width-8, 60)
	var pct float64
	if maxPoints > 0 {
		pct = float64(points) / float64(maxPoints)
	}
	bar := components.NewProgressBar(fmt.Sprintf("Points %d/%d", points, maxPoints), pct, true, barWidth)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	divider := theme.Divider.Render(strings.Repeat("─", barWidth))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n")

	for i, it := range sum.Items {
		line := fmt.Sprintf("%2d. %-40s %s", i+1, truncate(it.Instruction, 40), itemResult(it))
		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case it.Skipped:
			style = style.Foreground(theme.TextDim)
		case it.Passed:
			style = style.Foreground(theme.Success)
		default:
			style = style.Foreground(theme.Error)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if sum.Warning != "" {
		b.WriteString("\n")
		b.WriteString(center(theme.Warning, sum.Warning))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	return b.String()
}

func itemResult(it Item) string {
	if it.Skipped {
		return "skipped"
	}
	s := fmt.Sprintf("%3d/100  %d/%d pts", it.Score, it.Points, it.MaxPoints)
	if it.HintsUsed > 0 {
		s += fmt.Sprintf("  (%d hints)", it.HintsUsed)
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
