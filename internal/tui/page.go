package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/executor"
	"github.com/studiowebux/hac/internal/frame"
	"github.com/studiowebux/hac/internal/highlight"
	"github.com/studiowebux/hac/internal/keybinds"
	"github.com/studiowebux/hac/internal/loader"
	"github.com/studiowebux/hac/internal/router"
)

// deps are the services every page can reach. Pages never apply effects
// themselves; anything that must happen outside the page goes on the bus.
type deps struct {
	loader      *loader.Loader
	bus         *command.Bus
	pipeline    *executor.Pipeline
	keys        *keybinds.Registry
	highlighter *highlight.Highlighter
	logger      *log.Logger
}

// action resolves a key in a context, falling back to global bindings
func (d *deps) action(ctx keybinds.Context, msg tea.KeyMsg) keybinds.Action {
	action, _ := d.keys.Match(ctx, msg.String())
	return action
}

// send enqueues a command from a background goroutine. A closed bus means
// the application is shutting down.
func (d *deps) send(cmd command.Command) {
	if err := d.bus.Send(cmd); err != nil {
		d.logger.Debug("command dropped", "command", cmd.Name(), "err", err)
	}
}

type hintItem struct {
	action keybinds.Action
	label  string
}

// hint renders the footer listing the keys bound to each action
func (d *deps) hint(ctx keybinds.Context, items ...hintItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, d.keys.KeyString(ctx, item.action)+" "+item.label)
	}
	return styleSubtle.Render(strings.Join(parts, "  "))
}

// basePage provides the no-op parts of router.Page
type basePage struct {
	nav  router.Navigator
	area frame.Rect
}

func (p *basePage) SetNavigator(nav router.Navigator) { p.nav = nav }

func (p *basePage) Resize(area frame.Rect) { p.area = area }

func (p *basePage) Update(any) {}

func (p *basePage) Tick() error { return nil }

func (p *basePage) HandleCommand(command.Command) error { return nil }

// shell wraps the root router so the force-quit binding works on every
// page, including while a text field has focus.
type shell struct {
	*router.Router
	keys *keybinds.Registry
}

func (s *shell) HandleKeyEvent(msg tea.KeyMsg) (command.Command, error) {
	if action, ok := s.keys.Match(keybinds.ContextGlobal, msg.String()); ok && action == keybinds.ActionQuitForce {
		return command.Quit{}, nil
	}
	return s.Router.HandleKeyEvent(msg)
}
