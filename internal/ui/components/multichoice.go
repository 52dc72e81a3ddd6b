package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/ui/theme"
)

var choiceLabels = []string{"A", "B", "C", "D"}

// MultiChoice is a multiple-choice selector. After Submit or Reveal it
// highlights the correct option and, if one was picked, the chosen one.
type MultiChoice struct {
	Question string
	Options  []string
	Correct  string
	Selected int

	submitted bool
	chosen    int
}

// NewMultiChoice creates a selector; correct is the text of the right option.
func NewMultiChoice(question string, options []string, correct string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
		Correct:  correct,
		chosen:   -1,
	}
}

// Update handles arrow/vi navigation, Enter, and the 1-4 / a-d shortcuts.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.submitted {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.submit(m.Selected)
	default:
		if i, ok := shortcutIndex(key); ok && i < len(m.Options) {
			m.Selected = i
			m.submit(i)
		}
	}
	return m, nil
}

func shortcutIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	switch c := key[0]; {
	case c >= '1' && c <= '4':
		return int(c - '1'), true
	case c >= 'a' && c <= 'd':
		return int(c - 'a'), true
	}
	return 0, false
}

func (m *MultiChoice) submit(i int) {
	m.submitted = true
	m.chosen = i
}

// Reveal locks the selector without a choice, e.g. when time runs out.
func (m *MultiChoice) Reveal() {
	m.submitted = true
	m.chosen = -1
}

// Submitted reports whether the selector is locked.
func (m MultiChoice) Submitted() bool { return m.submitted }

// Choice returns the chosen option text, or "" when nothing was chosen.
func (m MultiChoice) Choice() string {
	if m.chosen < 0 || m.chosen >= len(m.Options) {
		return ""
	}
	return m.Options[m.chosen]
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		label := fmt.Sprint(i + 1)
		if i < len(choiceLabels) {
			label = choiceLabels[i]
		}
		prefix := "  "
		if i == m.Selected && !m.submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.submitted && opt == m.Correct:
			style = theme.Correct
		case m.submitted && i == m.chosen:
			style = theme.Incorrect
		case m.submitted:
			style = style.Foreground(theme.Muted)
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
