package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnquest/internal/challenge"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/screens/home"
	"github.com/abhisek/learnquest/internal/screens/play"
	"github.com/abhisek/learnquest/internal/ui/layout"
)

// Options configures the terminal app.
type Options struct {
	Services *screen.Services

	// Subject, when set, starts a game right away instead of waiting on
	// the home menu.
	Subject challenge.Type
	Timed   bool
}

// AppModel owns the screen stack and draws the header and footer chrome
// around whatever screen is on top.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
	stars  int
	streak int
}

func newAppModel(opts Options) AppModel {
	return AppModel{
		opts:   opts,
		router: router.New(home.New(opts.Services, opts.Timed)),
	}
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init()}
	if m.opts.Subject != "" {
		game := play.New(m.opts.Services, m.opts.Subject, m.opts.Timed)
		cmds = append(cmds, func() tea.Msg { return router.PushScreenMsg{Screen: game} })
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case screen.ProgressMsg:
		m.stars = msg.Progress.TotalStars
		m.streak = msg.Progress.Streak

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m AppModel) render() string {
	if !layout.Fits(m.width, m.height) {
		return layout.TooSmall(m.width, m.height)
	}

	hdr := layout.Header{Stars: m.stars, Streak: m.streak}
	if active := m.router.Active(); active != nil {
		hdr.Title = active.Title()
	}
	header := hdr.Render(m.width)
	footer := layout.Footer(m.footerHints(), m.width)

	body := m.router.View(m.width, layout.BodyHeight(m.height, header, footer))
	return layout.Frame(header, body, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	if _, err := tea.NewProgram(newAppModel(opts)).Run(); err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}
