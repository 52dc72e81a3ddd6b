package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Disabled items are shown dimmed and
// cannot be selected.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions driven by the arrow keys.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// SetLabel renames item i; out-of-range indexes are ignored.
func (m *Menu) SetLabel(i int, label string) {
	if i >= 0 && i < len(m.Items) {
		m.Items[i].Label = label
	}
}

// move steps the selection by dir, skipping disabled items. It stays put
// when no enabled item lies in that direction.
func (m *Menu) move(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

// Update moves the selection on up/down (or k/j) and runs the selected
// item's action on Enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		if m.Selected < 0 || m.Selected >= len(m.Items) {
			break
		}
		if it := m.Items[m.Selected]; !it.Disabled && it.Action != nil {
			return m, it.Action()
		}
	}
	return m, nil
}

var (
	menuIdle     = theme.Fg(theme.Text)
	menuDisabled = theme.Fg(theme.Muted)
	menuCursor   = lipgloss.NewStyle().Foreground(theme.Backdrop).Background(theme.Gold).Bold(true)
)

// View draws one line per item, centred in width.
func (m Menu) View(width int) string {
	var b strings.Builder
	for i, it := range m.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch {
		case it.Disabled:
			b.WriteString(menuDisabled.Render("   " + it.Label))
		case i == m.Selected:
			b.WriteString(menuCursor.Render(" ▸ " + it.Label + " "))
		default:
			b.WriteString(menuIdle.Render("   " + it.Label))
		}
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(b.String())
}
