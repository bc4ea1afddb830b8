package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/hac/internal/collection"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/frame"
	"github.com/studiowebux/hac/internal/keybinds"
)

type focus int

const (
	focusSidebar focus = iota
	focusEditor
	focusResponse
)

// workspacePage is the main page of the collection viewer: the request tree
// on the left, the editor and the response on the right
type workspacePage struct {
	basePage
	v *viewer

	focus    focus
	sidebar  *sidebar
	editor   *editor
	response *responseView
}

func newWorkspacePage(v *viewer) *workspacePage {
	return &workspacePage{
		v:        v,
		sidebar:  &sidebar{v: v},
		editor:   newEditor(v),
		response: newResponseView(v),
	}
}

// Update opens the collection.Collection payload. A nil payload means a
// dialog of the viewer closed and the session is kept.
func (p *workspacePage) Update(payload any) {
	if c, ok := payload.(collection.Collection); ok {
		p.v.open(c)
		p.focus = focusSidebar
	}
}

func (p *workspacePage) setFocus(f focus) {
	p.focus = f
}

func (p *workspacePage) Tick() error {
	p.response.tick()
	p.v.autosave()
	return nil
}

func (p *workspacePage) HandleCommand(cmd command.Command) error {
	p.v.handleCommand(cmd)
	return nil
}

func (p *workspacePage) HandleKeyEvent(msg tea.KeyMsg) (command.Command, error) {
	if p.v.store == nil {
		return nil, nil
	}
	switch p.focus {
	case focusEditor:
		return p.editor.handleKey(p, msg)
	case focusResponse:
		return p.response.handleKey(p, msg)
	default:
		return p.sidebar.handleKey(p, msg)
	}
}

// layout splits the page into sidebar, editor and response rectangles
func layout(area frame.Rect) (side, edit, resp frame.Rect) {
	sideWidth := max(24, area.W*30/100)
	side, right := area.SplitLeft(sideWidth)
	editHeight := right.H / 2
	edit, resp = right.SplitTop(editHeight)
	return side, edit, resp
}

func (p *workspacePage) Draw(f *frame.Frame, area frame.Rect) error {
	if p.v.store == nil {
		return nil
	}
	body, footer := area.SplitBottom(1)
	side, edit, resp := layout(body)

	info := p.v.store.Info()
	f.Render(side, panel(info.Name, p.sidebar.view(side.W-2, side.H-3), side.W, side.H, p.focus == focusSidebar))
	f.Render(edit, panel("Request", p.editor.view(edit.W-2, edit.H-3), edit.W, edit.H, p.focus == focusEditor))
	f.Render(resp, panel("Response", p.response.view(resp.W-2, resp.H-3), resp.W, resp.H, p.focus == focusResponse))
	f.Render(footer, p.footer())
	return nil
}

func (p *workspacePage) footer() string {
	d := p.v.d
	switch p.focus {
	case focusEditor:
		if p.editor.mode == editBody {
			return d.hint(keybinds.ContextTextInput, hintItem{keybinds.ActionTextCancel, "done"})
		}
		if p.editor.editing() {
			return d.hint(keybinds.ContextTextInput,
				hintItem{keybinds.ActionTextSubmit, "save"},
				hintItem{keybinds.ActionTextCancel, "cancel"})
		}
		return d.hint(keybinds.ContextRequestEditor,
			hintItem{keybinds.ActionSend, "send"},
			hintItem{keybinds.ActionEditURI, "uri"},
			hintItem{keybinds.ActionEditName, "name"},
			hintItem{keybinds.ActionEditBody, "body"},
			hintItem{keybinds.ActionToggleBodyKind, "body kind"},
			hintItem{keybinds.ActionAddHeader, "add header"},
			hintItem{keybinds.ActionToggleHeader, "toggle"},
			hintItem{keybinds.ActionDeleteHeader, "remove"})
	case focusResponse:
		return d.hint(keybinds.ContextResponse,
			hintItem{keybinds.ActionToggleHeaders, "headers"},
			hintItem{keybinds.ActionFilter, "filter"},
			hintItem{keybinds.ActionCopyBody, "copy"},
			hintItem{keybinds.ActionBack, "back"})
	default:
		return d.hint(keybinds.ContextSidebar,
			hintItem{keybinds.ActionSelect, "open"},
			hintItem{keybinds.ActionCreateRequest, "new request"},
			hintItem{keybinds.ActionCreateDirectory, "new directory"},
			hintItem{keybinds.ActionRenameDirectory, "rename"},
			hintItem{keybinds.ActionDeleteItem, "delete"},
			hintItem{keybinds.ActionCycleMethod, "method"},
			hintItem{keybinds.ActionBack, "collections"})
	}
}
