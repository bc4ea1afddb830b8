package router

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/frame"
)

type fakePage struct {
	name     string
	nav      Navigator
	payloads []any
	keys     []string
	ticks    int
	commands []command.Command
	area     frame.Rect

	// onKey runs inside HandleKeyEvent
	onKey func(p *fakePage, key tea.KeyMsg)
	// activeDuringKey records the router state seen by the handler
	router          *Router
	activeDuringKey string
}

func (p *fakePage) SetNavigator(nav Navigator) { p.nav = nav }

func (p *fakePage) Draw(f *frame.Frame, area frame.Rect) error {
	f.Render(area, p.name)
	return nil
}

func (p *fakePage) HandleKeyEvent(key tea.KeyMsg) (command.Command, error) {
	p.keys = append(p.keys, key.String())
	if p.onKey != nil {
		p.onKey(p, key)
	}
	if p.router != nil {
		p.activeDuringKey = p.router.Active()
	}
	return nil, nil
}

func (p *fakePage) HandleCommand(cmd command.Command) error {
	p.commands = append(p.commands, cmd)
	return nil
}

func (p *fakePage) Update(payload any)     { p.payloads = append(p.payloads, payload) }
func (p *fakePage) Resize(area frame.Rect) { p.area = area }
func (p *fakePage) Tick() error            { p.ticks++; return nil }

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func assertPanics(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("Expected %s to panic", name)
		}
	}()
	fn()
}

func TestNavigateToActivatesAndDeliversPayload(t *testing.T) {
	r := New("app")
	a := &fakePage{name: "a"}
	b := &fakePage{name: "b"}
	r.AddRoute("a", a)
	r.AddRoute("b", b)
	r.Resize(frame.Rect{W: 50, H: 10})

	r.NavigateTo("b", 42)

	if r.Active() != "b" {
		t.Errorf("Expected active route b, got %q", r.Active())
	}
	if len(b.payloads) != 1 || b.payloads[0] != 42 {
		t.Errorf("Expected payload 42, got %v", b.payloads)
	}
	if b.area.W != 50 {
		t.Errorf("Expected activated page to be resized, got %+v", b.area)
	}
	if len(a.payloads) != 0 {
		t.Errorf("Expected page a untouched, got %v", a.payloads)
	}
}

func TestNavigateToUnknownKeyPanics(t *testing.T) {
	r := New("app")
	r.AddRoute("a", &fakePage{})

	assertPanics(t, "NavigateTo(missing)", func() {
		r.NavigateTo("missing", nil)
	})
}

func TestNavigateUpWithoutParentPanics(t *testing.T) {
	r := New("app")
	assertPanics(t, "NavigateUp", func() {
		r.NavigateUp("a", nil)
	})

	p := &fakePage{}
	r.AddRoute("p", p)
	assertPanics(t, "page NavigateUp", func() {
		p.nav.NavigateUp("a", nil)
	})
}

func TestDuplicateRoutePanics(t *testing.T) {
	r := New("app")
	r.AddRoute("a", &fakePage{})
	assertPanics(t, "AddRoute twice", func() {
		r.AddRoute("a", &fakePage{})
	})
}

func TestInputGoesToActivePageOnly(t *testing.T) {
	r := New("app")
	a := &fakePage{name: "a"}
	b := &fakePage{name: "b"}
	r.AddRoute("a", a)
	r.AddRoute("b", b)
	r.NavigateTo("a", nil)

	_, _ = r.HandleKeyEvent(key("x"))
	_ = r.Tick()
	_ = r.HandleCommand(command.RefreshCollections{})

	if len(a.keys) != 1 || a.ticks != 1 || len(a.commands) != 1 {
		t.Errorf("Expected page a to get key, tick and command, got %d/%d/%d", len(a.keys), a.ticks, len(a.commands))
	}
	if len(b.keys) != 0 || b.ticks != 0 || len(b.commands) != 0 {
		t.Error("Expected inactive page b to get nothing")
	}
}

func TestEmptyRouterIgnoresInput(t *testing.T) {
	r := New("empty")
	cmd, err := r.HandleKeyEvent(key("x"))
	if cmd != nil || err != nil {
		t.Errorf("Expected nothing from an empty router, got %v %v", cmd, err)
	}
	if err := r.Draw(frame.New(10, 2), frame.Rect{W: 10, H: 2}); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}

func TestNavigationFromHandlerIsDeferred(t *testing.T) {
	r := New("app")
	a := &fakePage{name: "a", router: r}
	b := &fakePage{name: "b"}
	a.onKey = func(p *fakePage, _ tea.KeyMsg) {
		p.nav.NavigateTo("b", "from-a")
	}
	r.AddRoute("a", a)
	r.AddRoute("b", b)
	r.NavigateTo("a", nil)

	_, _ = r.HandleKeyEvent(key("go"))

	if a.activeDuringKey != "a" {
		t.Errorf("Expected page a to still be active inside its handler, got %q", a.activeDuringKey)
	}
	if r.Active() != "b" {
		t.Errorf("Expected b to be active after the handler, got %q", r.Active())
	}
	if len(b.payloads) != 1 || b.payloads[0] != "from-a" {
		t.Errorf("Expected payload from-a, got %v", b.payloads)
	}
}

func TestNestedRouterNavigatesUp(t *testing.T) {
	root := New("app")
	list := &fakePage{name: "list"}
	root.AddRoute("list", list)

	viewer := New("viewer")
	workspace := &fakePage{name: "workspace"}
	workspace.onKey = func(p *fakePage, k tea.KeyMsg) {
		if k.String() == "q" {
			p.nav.NavigateUp("list", "back")
		}
	}
	viewer.AddRoute("workspace", workspace)
	root.AddRoute("viewer", viewer)

	root.NavigateTo("viewer", "collection")
	if viewer.Active() != "workspace" {
		t.Fatalf("Expected nested router to reset to its first route, got %q", viewer.Active())
	}
	if len(workspace.payloads) != 1 || workspace.payloads[0] != "collection" {
		t.Errorf("Expected payload to reach nested page, got %v", workspace.payloads)
	}

	_, _ = root.HandleKeyEvent(key("q"))

	if root.Active() != "list" {
		t.Errorf("Expected root to show list, got %q", root.Active())
	}
	if len(list.payloads) != 1 || list.payloads[0] != "back" {
		t.Errorf("Expected payload back, got %v", list.payloads)
	}
}

func TestDrawTooSmall(t *testing.T) {
	r := New("app")
	r.SetMinSize(80, 22)
	r.AddRoute("a", &fakePage{name: "page-a"})
	r.NavigateTo("a", nil)

	f := frame.New(40, 10)
	if err := r.Draw(f, f.Area()); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	out := f.PlainString()
	if !strings.Contains(out, "terminal too small") {
		t.Errorf("Expected too-small notice, got %q", out)
	}
	if strings.Contains(out, "page-a") {
		t.Error("Expected active page not to be drawn")
	}

	big := frame.New(100, 30)
	_ = r.Draw(big, big.Area())
	if !strings.Contains(big.PlainString(), "page-a") {
		t.Error("Expected active page to be drawn at full size")
	}
}
