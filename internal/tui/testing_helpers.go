package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/studiowebux/hac/internal/collection"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/executor"
	"github.com/studiowebux/hac/internal/frame"
	"github.com/studiowebux/hac/internal/highlight"
	"github.com/studiowebux/hac/internal/keybinds"
	"github.com/studiowebux/hac/internal/loader"
	"github.com/studiowebux/hac/internal/router"
)

// newTestDeps creates deps over a temporary collections directory
func newTestDeps(t *testing.T) *deps {
	t.Helper()

	logger := log.New(io.Discard)
	return &deps{
		loader:      loader.New(t.TempDir(), false, logger),
		bus:         command.NewBus(),
		pipeline:    executor.NewPipeline(nil, nil),
		keys:        keybinds.NewDefaultRegistry(),
		highlighter: highlight.New(highlight.DefaultTheme),
		logger:      logger,
	}
}

// newTestRoot builds the full page tree with a fixed size
func newTestRoot(t *testing.T, d *deps) *router.Router {
	t.Helper()

	root, v := newRootRouter(d)
	root.Resize(frame.Rect{W: 120, H: 40})
	t.Cleanup(func() {
		// background saves must finish before the temporary directory goes
		v.saveMu.Lock()
		v.saveMu.Unlock()
		d.pipeline.Wait()
	})
	return root
}

// openCollection saves c in the collections directory and shows it in the
// viewer. The viewer session is returned.
func openCollection(t *testing.T, d *deps, root *router.Router, c collection.Collection) *viewer {
	t.Helper()

	created, err := d.loader.Create(c.Info.Name)
	if err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}
	c.Path = created.Path
	if err := d.loader.Save(c); err != nil {
		t.Fatalf("Failed to save collection: %v", err)
	}

	root.NavigateTo(routeCollectionViewer, c)
	return testWorkspace(t, root).v
}

func testViewerRouter(t *testing.T, root *router.Router) *router.Router {
	t.Helper()

	page, ok := root.Page(routeCollectionViewer)
	if !ok {
		t.Fatal("collection viewer route missing")
	}
	return page.(*router.Router)
}

func testWorkspace(t *testing.T, root *router.Router) *workspacePage {
	t.Helper()

	page, _ := testViewerRouter(t, root).Page(routeWorkspace)
	return page.(*workspacePage)
}

// key builds the key message bubbletea produces for s
func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys to page and fails the test on a handler error. The last
// command returned is kept.
func press(t *testing.T, page router.Page, keys ...string) command.Command {
	t.Helper()

	var last command.Command
	for _, k := range keys {
		cmd, err := page.HandleKeyEvent(key(k))
		if err != nil {
			t.Fatalf("Key %q failed: %v", k, err)
		}
		if cmd != nil {
			last = cmd
		}
	}
	return last
}

// typeText sends every rune of s as its own key press
func typeText(t *testing.T, page router.Page, s string) {
	t.Helper()

	for _, r := range s {
		if _, err := page.HandleKeyEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}); err != nil {
			t.Fatalf("Typing %q failed: %v", r, err)
		}
	}
}

func strPtr(s string) *string { return &s }

// sampleCollection has a directory with two requests and a root request
func sampleCollection() collection.Collection {
	return collection.Collection{
		Info: collection.Info{Name: "Demo"},
		Requests: []collection.RequestNode{
			{Directory: &collection.Directory{
				ID:   "dir",
				Name: "users",
				Requests: []collection.RequestNode{
					{Request: &collection.Request{ID: "list", Method: collection.MethodGet, Name: "list users", URI: "http://localhost/users"}},
					{Request: &collection.Request{ID: "create", Method: collection.MethodPost, Name: "create user", URI: "http://localhost/users",
						BodyKind: collection.BodyJSON, Body: strPtr(`{"name":"ada"}`)}},
				},
			}},
			{Request: &collection.Request{ID: "health", Method: collection.MethodGet, Name: "health", URI: "http://localhost/health"}},
		},
	}
}
