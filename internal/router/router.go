// Package router keeps the stack of screens the app navigates through.
// Screens ask for navigation by returning one of the Msg types below from
// a command; the router applies it on the next Update.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnquest/internal/screen"
)

type (
	// PushScreenMsg opens Screen on top of the current one.
	PushScreenMsg struct{ Screen screen.Screen }
	// ReplaceScreenMsg swaps the top screen for Screen.
	ReplaceScreenMsg struct{ Screen screen.Screen }
	// PopScreenMsg goes back one screen. The root stays.
	PopScreenMsg struct{}
	// PopToRootMsg returns to the root and re-runs its Init so it reloads.
	PopToRootMsg struct{}
)

// Router is a screen stack whose bottom element is never removed.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) top() int { return len(r.stack) - 1 }

// Active is the screen currently shown.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[r.top()]
}

func (r *Router) Depth() int { return len(r.stack) }

// Update applies navigation messages and hands anything else to the
// active screen. Entering a screen runs its Init.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		r.stack = append(r.stack, msg.Screen)
		return msg.Screen.Init()
	case ReplaceScreenMsg:
		r.stack[r.top()] = msg.Screen
		return msg.Screen.Init()
	case PopScreenMsg:
		if r.top() > 0 {
			r.stack = r.stack[:r.top()]
		}
		return nil
	case PopToRootMsg:
		r.stack = r.stack[:1]
		return r.stack[0].Init()
	}

	if len(r.stack) == 0 {
		return nil
	}
	next, cmd := r.stack[r.top()].Update(msg)
	r.stack[r.top()] = next
	return cmd
}

// View draws the active screen into width x height.
func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}
