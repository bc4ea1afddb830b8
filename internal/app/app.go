// Package app runs the single UI goroutine: it pulls events from the event
// source, feeds them to the router, and applies the commands pages and
// background workers put on the bus.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/event"
	"github.com/studiowebux/hac/internal/frame"
	"github.com/studiowebux/hac/internal/router"
)

// DefaultStatusTimeout is how long an error stays on the status line
const DefaultStatusTimeout = 4 * time.Second

// Screen receives finished frames
type Screen interface {
	Draw(content string)
}

// EffectFunc applies a command the loop itself does not know about, such as
// collection file operations. It runs on the UI goroutine before the
// command reaches the active page.
type EffectFunc func(cmd command.Command) error

// Options wires an App
type Options struct {
	Source *event.Source
	Bus    *command.Bus
	// Root is usually a *router.Router, possibly wrapped to catch keys that
	// work on every page
	Root   router.Page
	Screen Screen
	// Effects may be nil
	Effects       EffectFunc
	StatusTimeout time.Duration
	Logger        *log.Logger
}

// App is the application loop
type App struct {
	source  *event.Source
	bus     *command.Bus
	root    router.Page
	screen  Screen
	effects EffectFunc
	logger  *log.Logger

	size          frame.Rect
	quit          bool
	status        string
	statusUntil   time.Time
	statusTimeout time.Duration
	now           func() time.Time
}

var statusStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff5f5f"})

// New creates an App. Source, Bus and Root are required.
func New(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.StatusTimeout <= 0 {
		opts.StatusTimeout = DefaultStatusTimeout
	}
	return &App{
		source:        opts.Source,
		bus:           opts.Bus,
		root:          opts.Root,
		screen:        opts.Screen,
		effects:       opts.Effects,
		logger:        opts.Logger,
		statusTimeout: opts.StatusTimeout,
		now:           time.Now,
	}
}

// Run blocks until a Quit command has been applied, the event source stops,
// or ctx is cancelled. Every command queued before Quit is applied before
// Run returns. The bus is closed on return, so late producers fail quietly.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.bus.Close()

	a.source.Start(ctx)

	for {
		for _, cmd := range a.bus.Drain() {
			a.apply(cmd)
		}
		if a.quit {
			a.logger.Info("quit")
			return nil
		}

		ev, ok := a.source.Next(ctx)
		if !ok {
			if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			a.logger.Info("event source stopped")
			return nil
		}
		a.dispatch(ev)
	}
}

// Status returns the message currently shown on the status line
func (a *App) Status() string {
	if a.status != "" && a.now().After(a.statusUntil) {
		a.status = ""
	}
	return a.status
}

func (a *App) dispatch(ev event.Event) {
	switch ev.Kind {
	case event.KindKey:
		cmd, err := a.root.HandleKeyEvent(ev.Key)
		if err != nil {
			a.send(command.Errorf("", err))
		}
		if cmd != nil {
			a.send(cmd)
		}
	case event.KindResize:
		a.size = ev.Size
		body, _ := a.size.SplitBottom(1)
		a.root.Resize(body)
		a.send(command.Render{})
	case event.KindTick:
		a.send(command.Tick{})
	case event.KindRender:
		a.send(command.Render{})
	}
}

func (a *App) apply(cmd command.Command) {
	switch c := cmd.(type) {
	case command.Quit:
		a.quit = true
	case command.Tick:
		if err := a.root.Tick(); err != nil {
			a.showError(err.Error())
		}
	case command.Render:
		a.draw()
	case command.Error:
		a.showError(c.Message)
	default:
		if a.effects != nil {
			if err := a.effects(cmd); err != nil {
				a.showError(err.Error())
				return
			}
		}
		if err := a.root.HandleCommand(cmd); err != nil {
			a.showError(err.Error())
		}
	}
}

func (a *App) showError(msg string) {
	a.logger.Error("command failed", "err", msg)
	a.status = msg
	a.statusUntil = a.now().Add(a.statusTimeout)
}

func (a *App) send(cmd command.Command) {
	if err := a.bus.Send(cmd); err != nil {
		a.logger.Debug("command dropped", "command", cmd.Name(), "err", err)
	}
}

func (a *App) draw() {
	if a.screen == nil || a.size.Empty() {
		return
	}

	f := frame.New(a.size.W, a.size.H)
	body, statusLine := f.Area().SplitBottom(1)
	if err := a.root.Draw(f, body); err != nil {
		a.showError(err.Error())
	}
	if msg := a.Status(); msg != "" {
		f.Render(statusLine, statusStyle.Render(msg))
	}
	a.screen.Draw(f.String())
}
