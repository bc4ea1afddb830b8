package router

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/frame"
)

// Page is one screen of the application. Only the active page of a router
// receives input, ticks, commands and draw calls.
type Page interface {
	Draw(f *frame.Frame, area frame.Rect) error
	HandleKeyEvent(key tea.KeyMsg) (command.Command, error)
	HandleCommand(cmd command.Command) error
	// Update hands the navigation payload to the page being activated
	Update(payload any)
	Resize(area frame.Rect)
	Tick() error
}

// Navigator is given to pages so they can ask for navigation
type Navigator interface {
	NavigateTo(key string, payload any)
	NavigateUp(key string, payload any)
}

// Navigable pages receive a Navigator when they are registered
type Navigable interface {
	SetNavigator(nav Navigator)
}

type navigation struct {
	key     string
	payload any
	up      bool
}

// Router holds registered pages and the active one. A Router is itself a
// Page so routers can be nested; NavigateUp on a nested router is handled
// by its parent.
type Router struct {
	name   string
	routes map[string]Page
	order  []string
	active string
	parent *Router
	area   frame.Rect

	minWidth  int
	minHeight int

	pending []navigation
}

// New creates an empty router
func New(name string) *Router {
	return &Router{
		name:   name,
		routes: make(map[string]Page),
	}
}

// Name returns the router name used in logs
func (r *Router) Name() string {
	return r.name
}

// AddRoute registers a page. Registering the same key twice panics.
func (r *Router) AddRoute(key string, page Page) {
	if _, exists := r.routes[key]; exists {
		panic(fmt.Sprintf("router %s: route %q registered twice", r.name, key))
	}
	r.routes[key] = page
	r.order = append(r.order, key)

	if n, ok := page.(Navigable); ok {
		n.SetNavigator(&pageNavigator{router: r})
	}
	if child, ok := page.(*Router); ok {
		child.AttachParent(r)
	}
}

// AttachParent makes NavigateUp requests go to parent
func (r *Router) AttachParent(parent *Router) {
	r.parent = parent
}

// SetMinSize sets the smallest area the router draws pages in. Below it a
// notice is drawn instead.
func (r *Router) SetMinSize(width, height int) {
	r.minWidth = width
	r.minHeight = height
}

// Active returns the key of the active page, or "" before any navigation
func (r *Router) Active() string {
	return r.active
}

// Page returns a registered page
func (r *Router) Page(key string) (Page, bool) {
	p, ok := r.routes[key]
	return p, ok
}

// NavigateTo activates the page registered under key and hands it payload.
// An unknown key is a programming error and panics.
func (r *Router) NavigateTo(key string, payload any) {
	page := r.mustRoute(key)

	log.Debug("navigate", "router", r.name, "from", r.active, "to", key)
	r.active = key
	page.Resize(r.area)
	page.Update(payload)
}

// NavigateUp asks the parent router to navigate. Calling it on a router
// without a parent panics.
func (r *Router) NavigateUp(key string, payload any) {
	if r.parent == nil {
		panic(fmt.Sprintf("router %s: NavigateUp(%q) without a parent router", r.name, key))
	}
	r.parent.NavigateTo(key, payload)
}

// Draw implements Page
func (r *Router) Draw(f *frame.Frame, area frame.Rect) error {
	if area.W < r.minWidth || area.H < r.minHeight {
		f.Render(area, r.tooSmall(area))
		return nil
	}

	page, ok := r.activePage()
	if !ok {
		return nil
	}
	return page.Draw(f, area)
}

// HandleKeyEvent implements Page
func (r *Router) HandleKeyEvent(key tea.KeyMsg) (command.Command, error) {
	page, ok := r.activePage()
	if !ok {
		return nil, nil
	}
	cmd, err := page.HandleKeyEvent(key)
	r.flush()
	return cmd, err
}

// HandleCommand implements Page
func (r *Router) HandleCommand(cmd command.Command) error {
	page, ok := r.activePage()
	if !ok {
		return nil
	}
	err := page.HandleCommand(cmd)
	r.flush()
	return err
}

// Tick implements Page
func (r *Router) Tick() error {
	page, ok := r.activePage()
	if !ok {
		return nil
	}
	err := page.Tick()
	r.flush()
	return err
}

// Resize implements Page
func (r *Router) Resize(area frame.Rect) {
	r.area = area
	if page, ok := r.activePage(); ok {
		page.Resize(area)
	}
}

// Update implements Page. A nested router being activated starts over at
// its first registered route.
func (r *Router) Update(payload any) {
	if len(r.order) == 0 {
		return
	}
	r.NavigateTo(r.order[0], payload)
}

func (r *Router) activePage() (Page, bool) {
	if r.active == "" {
		return nil, false
	}
	p, ok := r.routes[r.active]
	return p, ok
}

func (r *Router) mustRoute(key string) Page {
	page, ok := r.routes[key]
	if !ok {
		panic(fmt.Sprintf("router %s: no route registered for %q", r.name, key))
	}
	return page
}

// flush applies the navigation requests queued by a page handler
func (r *Router) flush() {
	for len(r.pending) > 0 {
		nav := r.pending[0]
		r.pending = r.pending[1:]
		if nav.up {
			r.NavigateUp(nav.key, nav.payload)
		} else {
			r.NavigateTo(nav.key, nav.payload)
		}
	}
}

func (r *Router) tooSmall(area frame.Rect) string {
	msg := fmt.Sprintf("terminal too small\nneed %dx%d, have %dx%d", r.minWidth, r.minHeight, area.W, area.H)
	return lipgloss.Place(area.W, area.H, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Align(lipgloss.Center).Render(msg))
}

// pageNavigator queues requests so they are applied once the current
// handler returns. Route and parent checks happen immediately so mistakes
// panic at the call site.
type pageNavigator struct {
	router *Router
}

func (n *pageNavigator) NavigateTo(key string, payload any) {
	n.router.mustRoute(key)
	n.router.pending = append(n.router.pending, navigation{key: key, payload: payload})
}

func (n *pageNavigator) NavigateUp(key string, payload any) {
	if n.router.parent == nil {
		panic(fmt.Sprintf("router %s: NavigateUp(%q) without a parent router", n.router.name, key))
	}
	n.router.pending = append(n.router.pending, navigation{key: key, payload: payload, up: true})
}
