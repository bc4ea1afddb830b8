package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/hac/internal/collection"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/keybinds"
)

type editMode int

const (
	editNone editMode = iota
	editURI
	editName
	editBody
)

// editor shows and edits the selected request. Edits are written to the
// store when a field is committed, never on every keystroke.
type editor struct {
	v *viewer

	mode         editMode
	uri          textField
	name         textField
	body         textarea.Model
	headerCursor int
	loadedID     string
}

func newEditor(v *viewer) *editor {
	body := textarea.New()
	body.ShowLineNumbers = false
	body.Placeholder = "{}"
	body.CharLimit = 0
	return &editor{
		v:    v,
		uri:  newTextField("", "https://"),
		name: newTextField("", "request name"),
		body: body,
	}
}

// sync drops any edit in progress when the selected request changed
func (e *editor) sync() {
	if e.loadedID == e.v.selected {
		return
	}
	e.loadedID = e.v.selected
	e.stopEditing()
	e.headerCursor = 0
}

func (e *editor) stopEditing() {
	e.mode = editNone
	e.uri.blur()
	e.name.blur()
	e.body.Blur()
}

func (e *editor) editing() bool {
	return e.mode != editNone
}

func (e *editor) update(fn func(*collection.Request)) {
	if err := e.v.store.UpdateRequest(e.v.selected, fn); err != nil {
		e.v.d.logger.Warn("update request", "id", e.v.selected, "err", err)
	}
}

func (e *editor) handleKey(w *workspacePage, msg tea.KeyMsg) (command.Command, error) {
	e.sync()
	req, ok := e.v.store.Request(e.v.selected)
	if !ok {
		switch e.v.d.action(keybinds.ContextRequestEditor, msg) {
		case keybinds.ActionSwitchFocus:
			w.setFocus(focusResponse)
		case keybinds.ActionBack:
			w.setFocus(focusSidebar)
		}
		return nil, nil
	}

	if e.editing() {
		return e.handleEditKey(msg)
	}

	switch e.v.d.action(keybinds.ContextRequestEditor, msg) {
	case keybinds.ActionSwitchFocus:
		w.setFocus(focusResponse)
	case keybinds.ActionBack:
		w.setFocus(focusSidebar)
	case keybinds.ActionSend:
		return nil, e.v.send(req.ID)
	case keybinds.ActionEditURI:
		e.mode = editURI
		e.uri.reset(req.URI)
		e.uri.focus()
	case keybinds.ActionEditName:
		e.mode = editName
		e.name.reset(req.Name)
		e.name.focus()
	case keybinds.ActionEditBody:
		if req.BodyKind != collection.BodyJSON {
			e.update(func(r *collection.Request) { r.BodyKind = collection.BodyJSON })
			req, _ = e.v.store.Request(req.ID)
		}
		e.mode = editBody
		e.body.SetValue(deref(req.Body))
		e.body.Focus()
	case keybinds.ActionToggleBodyKind:
		e.update(func(r *collection.Request) {
			if r.BodyKind == collection.BodyJSON {
				r.BodyKind = collection.BodyNone
			} else {
				r.BodyKind = collection.BodyJSON
			}
		})
	case keybinds.ActionCycleMethod:
		e.update(func(r *collection.Request) { r.Method = r.Method.Next() })
	case keybinds.ActionAddHeader:
		w.nav.NavigateTo(routeHeaderForm, req.ID)
	case keybinds.ActionNavigateUp:
		if e.headerCursor > 0 {
			e.headerCursor--
		}
	case keybinds.ActionNavigateDown:
		if e.headerCursor < len(req.Headers)-1 {
			e.headerCursor++
		}
	case keybinds.ActionToggleHeader:
		i := e.headerCursor
		if i < len(req.Headers) {
			e.update(func(r *collection.Request) { r.Headers[i].Enabled = !r.Headers[i].Enabled })
		}
	case keybinds.ActionDeleteHeader:
		i := e.headerCursor
		if i < len(req.Headers) {
			e.update(func(r *collection.Request) {
				r.Headers = append(r.Headers[:i], r.Headers[i+1:]...)
			})
			if e.headerCursor >= len(req.Headers)-1 && e.headerCursor > 0 {
				e.headerCursor--
			}
		}
	}
	return nil, nil
}

// handleEditKey feeds a focused field. Enter commits single line fields and
// sending follows a committed URI; the body is multi-line, so it is
// committed when leaving it.
func (e *editor) handleEditKey(msg tea.KeyMsg) (command.Command, error) {
	action := e.v.d.action(keybinds.ContextTextInput, msg)

	switch e.mode {
	case editURI:
		switch action {
		case keybinds.ActionTextSubmit:
			uri := strings.TrimSpace(e.uri.value())
			e.update(func(r *collection.Request) { r.URI = uri })
			e.stopEditing()
			return nil, e.v.send(e.v.selected)
		case keybinds.ActionTextCancel:
			e.stopEditing()
		default:
			e.uri.update(msg)
		}
	case editName:
		switch action {
		case keybinds.ActionTextSubmit:
			name := strings.TrimSpace(e.name.value())
			e.update(func(r *collection.Request) { r.Name = name })
			e.stopEditing()
		case keybinds.ActionTextCancel:
			e.stopEditing()
		default:
			e.name.update(msg)
		}
	case editBody:
		if action == keybinds.ActionTextCancel {
			body := e.body.Value()
			e.update(func(r *collection.Request) { r.Body = &body })
			e.stopEditing()
			return nil, nil
		}
		e.body, _ = e.body.Update(msg)
	}
	return nil, nil
}

func (e *editor) view(width, height int) string {
	e.sync()
	req, ok := e.v.store.Request(e.v.selected)
	if !ok {
		return styleSubtle.Render("select a request in the sidebar")
	}

	var b strings.Builder

	uri := req.URI
	if uri == "" {
		uri = styleSubtle.Render("no uri")
	}
	if e.mode == editURI {
		b.WriteString(methodBadge(req.Method) + " " + e.uri.view(width-8) + "\n")
	} else {
		b.WriteString(methodBadge(req.Method) + " " + uri + "\n")
	}

	if e.mode == editName {
		b.WriteString(e.name.view(width) + "\n")
	} else {
		b.WriteString(styleSubtle.Render(req.Name) + "\n")
	}

	b.WriteString("\n" + styleTitle.Render(fmt.Sprintf("Headers (%d)", len(req.Headers))) + "\n")
	for i, h := range req.Headers {
		check := "[x]"
		if !h.Enabled {
			check = "[ ]"
		}
		line := fmt.Sprintf("%s %s: %s", check, h.Name, h.Value)
		if !h.Enabled {
			line = styleSubtle.Render(line)
		}
		if i == e.headerCursor {
			line = styleSelected.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + styleTitle.Render("Body ("+bodyKindLabel(req.BodyKind)+")") + "\n")
	used := strings.Count(b.String(), "\n")
	switch {
	case e.mode == editBody:
		e.body.SetWidth(max(10, width))
		e.body.SetHeight(max(3, height-used-1))
		b.WriteString(e.body.View())
	case req.BodyKind == collection.BodyJSON:
		b.WriteString(e.v.d.highlighter.Highlight(deref(req.Body), "application/json"))
	default:
		b.WriteString(styleSubtle.Render("no body"))
	}
	return b.String()
}

func bodyKindLabel(kind collection.BodyKind) string {
	if kind == collection.BodyJSON {
		return "json"
	}
	return "none"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
