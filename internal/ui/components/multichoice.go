package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/exercise"
	"github.com/abhisek/practiz/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector over identified options. With
// MultiSelect, space toggles options and enter submits the marked set.
type MultiChoice struct {
	Question    string
	Options     []exercise.Option
	MultiSelect bool
	Selected    int
	Submitted   bool

	marked  map[int]bool
	correct map[string]bool
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(content exercise.MultipleChoiceContent) MultiChoice {
	return MultiChoice{
		Question:    content.Question,
		Options:     content.Options,
		MultiSelect: content.MultiSelect,
		marked:      map[int]bool{},
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "space", " ":
		if m.MultiSelect {
			m.marked[m.Selected] = !m.marked[m.Selected]
		}
	case "enter":
		if m.MultiSelect && len(m.ChosenIDs()) == 0 {
			return m, nil
		}
		m.Submitted = true
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Selected = i
			}
		}
	}

	return m, nil
}

// ChosenIDs returns the chosen option ids: the marked set for multi-select,
// otherwise the highlighted option.
func (m MultiChoice) ChosenIDs() []string {
	if !m.MultiSelect {
		if m.Selected < len(m.Options) {
			return []string{m.Options[m.Selected].ID}
		}
		return nil
	}
	var ids []string
	for i, opt := range m.Options {
		if m.marked[i] {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// Reveal marks the correct option ids for the submitted view.
func (m *MultiChoice) Reveal(ids []string) {
	m.correct = map[string]bool{}
	for _, id := range ids {
		m.correct[id] = true
	}
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	chosen := map[string]bool{}
	for _, id := range m.ChosenIDs() {
		chosen[id] = true
	}

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		box := ""
		if m.MultiSelect {
			box = "[ ] "
			if m.marked[i] {
				box = "[x] "
			}
		}

		line := fmt.Sprintf("%s%s%d) %s", prefix, box, i+1, opt.Text)

		switch {
		case m.Submitted && m.correct[opt.ID]:
			s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line) + "\n"
		case m.Submitted && chosen[opt.ID]:
			s += lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(line) + "\n"
		case m.Submitted:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == m.Selected:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}

	return s
}
