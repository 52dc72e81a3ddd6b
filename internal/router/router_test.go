package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnquest/internal/screen"
)

type fakeScreen struct {
	name  string
	inits int
	seen  []tea.Msg
}

func (f *fakeScreen) Init() tea.Cmd { f.inits++; return nil }
func (f *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	f.seen = append(f.seen, msg)
	return f, nil
}
func (f *fakeScreen) View(int, int) string { return "<" + f.name + ">" }
func (f *fakeScreen) Title() string        { return f.name }

func TestNavigation(t *testing.T) {
	screens := map[string]*fakeScreen{}
	get := func(name string) *fakeScreen {
		if s, ok := screens[name]; ok {
			return s
		}
		s := &fakeScreen{name: name}
		screens[name] = s
		return s
	}

	tests := []struct {
		name      string
		msgs      func() []tea.Msg
		wantTop   string
		wantDepth int
	}{
		{"push", func() []tea.Msg { return []tea.Msg{PushScreenMsg{get("play")}} }, "play", 2},
		{"pop", func() []tea.Msg { return []tea.Msg{PushScreenMsg{get("play")}, PopScreenMsg{}} }, "home", 1},
		{"pop keeps root", func() []tea.Msg { return []tea.Msg{PopScreenMsg{}, PopScreenMsg{}} }, "home", 1},
		{"replace", func() []tea.Msg {
			return []tea.Msg{PushScreenMsg{get("play")}, ReplaceScreenMsg{get("results")}}
		}, "results", 2},
		{"replace root", func() []tea.Msg { return []tea.Msg{ReplaceScreenMsg{get("history")}} }, "history", 1},
		{"pop to root", func() []tea.Msg {
			return []tea.Msg{PushScreenMsg{get("play")}, PushScreenMsg{get("results")}, PopToRootMsg{}}
		}, "home", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clear(screens)
			r := New(get("home"))
			for _, m := range tt.msgs() {
				r.Update(m)
			}
			if got := r.Active().Title(); got != tt.wantTop {
				t.Errorf("active = %q, want %q", got, tt.wantTop)
			}
			if r.Depth() != tt.wantDepth {
				t.Errorf("depth = %d, want %d", r.Depth(), tt.wantDepth)
			}
			if got := r.View(80, 24); got != "<"+tt.wantTop+">" {
				t.Errorf("view = %q", got)
			}
		})
	}
}

func TestInitOnEntry(t *testing.T) {
	home, play := &fakeScreen{name: "home"}, &fakeScreen{name: "play"}
	r := New(home)

	r.Update(PushScreenMsg{play})
	if play.inits != 1 {
		t.Errorf("pushed screen init ran %d times", play.inits)
	}
	r.Update(PopToRootMsg{})
	if home.inits != 1 {
		t.Errorf("root should re-init on PopToRoot, ran %d times", home.inits)
	}
	r.Update(PushScreenMsg{play})
	r.Update(PopScreenMsg{})
	if home.inits != 1 {
		t.Error("plain pop must not re-init the screen below")
	}
}

func TestOtherMessagesGoToActive(t *testing.T) {
	home, play := &fakeScreen{name: "home"}, &fakeScreen{name: "play"}
	r := New(home)
	r.Update(PushScreenMsg{play})

	key := tea.KeyPressMsg{Code: 'a', Text: "a"}
	if cmd := r.Update(key); cmd != nil {
		t.Error("unexpected command")
	}
	if len(play.seen) != 1 || len(home.seen) != 0 {
		t.Errorf("play saw %d, home saw %d", len(play.seen), len(home.seen))
	}
}
