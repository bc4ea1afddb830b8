package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/hac/internal/collection"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/frame"
	"github.com/studiowebux/hac/internal/keybinds"
	"github.com/studiowebux/hac/internal/router"
)

// viewerPage is the base of the viewer dialogs. They draw over the
// workspace and keep the session ticking while open.
type viewerPage struct {
	basePage
	v        *viewer
	backdrop router.Page
}

func (p *viewerPage) HandleCommand(cmd command.Command) error {
	p.v.handleCommand(cmd)
	return nil
}

func (p *viewerPage) Tick() error {
	p.v.autosave()
	return nil
}

func (p *viewerPage) back() {
	p.nav.NavigateTo(routeWorkspace, nil)
}

func (p *viewerPage) drawDialog(f *frame.Frame, area frame.Rect, title, body string, ctx keybinds.Context, hints ...hintItem) error {
	if err := p.backdrop.Draw(f, area); err != nil {
		return err
	}
	drawModal(f, area, title, body, p.v.d.hint(ctx, hints...), formWidth, modalHeight(body))
	return nil
}

var textHints = []hintItem{
	{keybinds.ActionTextSubmit, "confirm"},
	{keybinds.ActionTextCancel, "cancel"},
}

// createDirectoryPage asks for the name of a new top level directory
type createDirectoryPage struct {
	viewerPage
	name textField
}

func newCreateDirectoryPage(v *viewer, backdrop router.Page) *createDirectoryPage {
	return &createDirectoryPage{
		viewerPage: viewerPage{v: v, backdrop: backdrop},
		name:       newTextField("Name", collection.UnnamedDirectory),
	}
}

func (p *createDirectoryPage) Update(any) {
	p.name.reset("")
	p.name.focus()
}

func (p *createDirectoryPage) HandleKeyEvent(msg tea.KeyMsg) (command.Command, error) {
	switch p.v.d.action(keybinds.ContextTextInput, msg) {
	case keybinds.ActionTextCancel:
		p.name.reset("")
		p.back()
		return nil, nil
	case keybinds.ActionTextSubmit:
		id, err := p.v.store.CreateDirectory("", strings.TrimSpace(p.name.value()))
		p.name.reset("")
		p.back()
		if err != nil {
			return nil, err
		}
		p.v.hovered = id
		p.v.autosave()
		return nil, nil
	}

	p.name.update(msg)
	return nil, nil
}

func (p *createDirectoryPage) Draw(f *frame.Frame, area frame.Rect) error {
	return p.drawDialog(f, area, "New directory", p.name.view(formWidth-4), keybinds.ContextTextInput, textHints...)
}

// createRequestPage asks for a request name and the directory it goes in
type createRequestPage struct {
	viewerPage
	name      textField
	parents   []collection.Node
	parent    int
	onParents bool
}

func newCreateRequestPage(v *viewer, backdrop router.Page) *createRequestPage {
	return &createRequestPage{
		viewerPage: viewerPage{v: v, backdrop: backdrop},
		name:       newTextField("Name", collection.UnnamedRequest),
	}
}

// Update expects the id of the preselected parent directory, "" for the
// collection root
func (p *createRequestPage) Update(payload any) {
	parentID, _ := payload.(string)

	p.parents = []collection.Node{{Name: "(collection root)", Kind: collection.KindDirectory}}
	p.parents = append(p.parents, directories(p.v.store, "")...)
	p.parent = 0
	for i, n := range p.parents {
		if n.ID == parentID {
			p.parent = i
		}
	}
	p.onParents = false
	p.name.reset("")
	p.name.focus()
}

// directories lists every directory below parentID, depth first
func directories(store *collection.Store, parentID string) []collection.Node {
	var out []collection.Node
	for _, n := range store.Children(parentID) {
		if n.Kind != collection.KindDirectory {
			continue
		}
		out = append(out, n)
		out = append(out, directories(store, n.ID)...)
	}
	return out
}

func (p *createRequestPage) HandleKeyEvent(msg tea.KeyMsg) (command.Command, error) {
	switch p.v.d.action(keybinds.ContextTextInput, msg) {
	case keybinds.ActionTextCancel:
		p.name.reset("")
		p.back()
		return nil, nil
	case keybinds.ActionNextField:
		p.onParents = !p.onParents
		if p.onParents {
			p.name.blur()
		} else {
			p.name.focus()
		}
		return nil, nil
	case keybinds.ActionTextSubmit:
		return p.submit()
	}

	if p.onParents {
		switch msg.String() {
		case "up", "k", "left", "h":
			p.parent = (p.parent + len(p.parents) - 1) % len(p.parents)
		case "down", "j", "right", "l":
			p.parent = (p.parent + 1) % len(p.parents)
		}
		return nil, nil
	}

	p.name.update(msg)
	return nil, nil
}

func (p *createRequestPage) submit() (command.Command, error) {
	parentID := p.parents[p.parent].ID
	id, err := p.v.store.CreateRequest(parentID, collection.Request{
		Method: collection.MethodGet,
		Name:   strings.TrimSpace(p.name.value()),
	})
	p.name.reset("")
	p.back()
	if err != nil {
		return nil, err
	}

	for dir := parentID; dir != ""; {
		p.v.expanded[dir] = true
		n, ok := p.v.store.Find(dir)
		if !ok {
			break
		}
		dir = n.ParentID
	}
	p.v.autosave()
	return command.SelectRequest{RequestID: id}, nil
}

func (p *createRequestPage) Draw(f *frame.Frame, area frame.Rect) error {
	var b strings.Builder
	b.WriteString(p.name.view(formWidth-4) + "\n\n")

	label := "Directory"
	if p.onParents {
		label = styleTitle.Render(label)
	} else {
		label = styleSubtle.Render(label)
	}
	b.WriteString(label + "\n")
	b.WriteString("< " + p.parents[p.parent].Name + " >")

	return p.drawDialog(f, area, "New request", b.String(), keybinds.ContextTextInput,
		hintItem{keybinds.ActionTextSubmit, "confirm"},
		hintItem{keybinds.ActionNextField, "switch field"},
		hintItem{keybinds.ActionTextCancel, "cancel"},
	)
}

// renameDirectoryPage renames the directory whose id it is given
type renameDirectoryPage struct {
	viewerPage
	id   string
	name textField
}

func newRenameDirectoryPage(v *viewer, backdrop router.Page) *renameDirectoryPage {
	return &renameDirectoryPage{
		viewerPage: viewerPage{v: v, backdrop: backdrop},
		name:       newTextField("Name", collection.UnnamedDirectory),
	}
}

func (p *renameDirectoryPage) Update(payload any) {
	p.id, _ = payload.(string)
	current := ""
	if n, ok := p.v.store.Find(p.id); ok {
		current = n.Name
	}
	p.name.reset(current)
	p.name.focus()
}

func (p *renameDirectoryPage) HandleKeyEvent(msg tea.KeyMsg) (command.Command, error) {
	switch p.v.d.action(keybinds.ContextTextInput, msg) {
	case keybinds.ActionTextCancel:
		p.back()
		return nil, nil
	case keybinds.ActionTextSubmit:
		err := p.v.store.RenameDirectory(p.id, strings.TrimSpace(p.name.value()))
		p.back()
		if errors.Is(err, collection.ErrNotFound) {
			p.v.d.logger.Warn("rename directory", "id", p.id, "err", err)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		p.v.autosave()
		return nil, nil
	}

	p.name.update(msg)
	return nil, nil
}

func (p *renameDirectoryPage) Draw(f *frame.Frame, area frame.Rect) error {
	return p.drawDialog(f, area, "Rename directory", p.name.view(formWidth-4), keybinds.ContextTextInput, textHints...)
}

// deleteItemPage confirms the removal of a request or a directory
type deleteItemPage struct {
	viewerPage
	id string
}

func newDeleteItemPage(v *viewer, backdrop router.Page) *deleteItemPage {
	return &deleteItemPage{viewerPage: viewerPage{v: v, backdrop: backdrop}}
}

func (p *deleteItemPage) Update(payload any) {
	p.id, _ = payload.(string)
}

func (p *deleteItemPage) HandleKeyEvent(msg tea.KeyMsg) (command.Command, error) {
	switch p.v.d.action(keybinds.ContextConfirm, msg) {
	case keybinds.ActionCancel:
		p.back()
	case keybinds.ActionConfirm:
		p.back()
		n, ok := p.v.store.Find(p.id)
		if err := p.v.store.DeleteNode(p.id); err != nil {
			p.v.d.logger.Warn("delete item", "id", p.id, "err", err)
			return nil, nil
		}
		if _, ok := p.v.store.Find(p.v.selected); !ok {
			p.v.selected = ""
		}
		if ok {
			p.v.hovered = n.ParentID
		}
		p.v.autosave()
	}
	return nil, nil
}

func (p *deleteItemPage) Draw(f *frame.Frame, area frame.Rect) error {
	n, ok := p.v.store.Find(p.id)
	if !ok {
		return p.backdrop.Draw(f, area)
	}

	body := "Delete " + n.Kind.String() + " " + styleWarning.Render(n.Name) + "?"
	if n.Kind == collection.KindDirectory && n.Children > 0 {
		body += "\n" + styleError.Render("Everything inside it is deleted too.")
	}
	return p.drawDialog(f, area, "Delete", body, keybinds.ContextConfirm,
		hintItem{keybinds.ActionConfirm, "delete"},
		hintItem{keybinds.ActionCancel, "cancel"},
	)
}

// headerFormPage adds a header to the request whose id it is given
type headerFormPage struct {
	viewerPage
	id    string
	name  textField
	value textField
	err   string
}

func newHeaderFormPage(v *viewer, backdrop router.Page) *headerFormPage {
	return &headerFormPage{
		viewerPage: viewerPage{v: v, backdrop: backdrop},
		name:       newTextField("Name", "Accept"),
		value:      newTextField("Value", "application/json"),
	}
}

func (p *headerFormPage) Update(payload any) {
	p.id, _ = payload.(string)
	p.err = ""
	p.name.reset("")
	p.value.reset("")
	p.value.blur()
	p.name.focus()
}

func (p *headerFormPage) HandleKeyEvent(msg tea.KeyMsg) (command.Command, error) {
	switch p.v.d.action(keybinds.ContextTextInput, msg) {
	case keybinds.ActionTextCancel:
		p.back()
		return nil, nil
	case keybinds.ActionNextField:
		if p.name.focused() {
			p.name.blur()
			p.value.focus()
		} else {
			p.value.blur()
			p.name.focus()
		}
		return nil, nil
	case keybinds.ActionTextSubmit:
		header := collection.Header{
			Name:    strings.TrimSpace(p.name.value()),
			Value:   strings.TrimSpace(p.value.value()),
			Enabled: true,
		}
		if err := header.Validate(); err != nil {
			p.err = err.Error()
			return nil, nil
		}
		err := p.v.store.UpdateRequest(p.id, func(r *collection.Request) {
			r.Headers = append(r.Headers, header)
		})
		p.back()
		if err != nil {
			p.v.d.logger.Warn("add header", "id", p.id, "err", err)
			return nil, nil
		}
		p.v.autosave()
		return nil, nil
	}

	if p.name.focused() {
		p.name.update(msg)
	} else {
		p.value.update(msg)
	}
	return nil, nil
}

func (p *headerFormPage) Draw(f *frame.Frame, area frame.Rect) error {
	body := p.name.view(formWidth-4) + "\n" + p.value.view(formWidth-4) + wrapError(p.err)
	return p.drawDialog(f, area, "New header", body, keybinds.ContextTextInput,
		hintItem{keybinds.ActionTextSubmit, "confirm"},
		hintItem{keybinds.ActionNextField, "next field"},
		hintItem{keybinds.ActionTextCancel, "cancel"},
	)
}
