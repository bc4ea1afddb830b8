package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/hac/internal/collection"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/frame"
	"github.com/studiowebux/hac/internal/keybinds"
	"github.com/studiowebux/hac/internal/loader"
	"github.com/studiowebux/hac/internal/router"
)

// collectionForm is shared by the create and rename collection dialogs
type collectionForm struct {
	basePage
	d        *deps
	backdrop router.Page
	name     textField
	err      string
}

func newCollectionForm(d *deps, backdrop router.Page) collectionForm {
	return collectionForm{
		d:        d,
		backdrop: backdrop,
		name:     newTextField("Name", "my collection"),
	}
}

func (f *collectionForm) open(value string) {
	f.err = ""
	f.name.reset(value)
	f.name.focus()
}

func (f *collectionForm) close() {
	f.name.reset("")
	f.name.blur()
	f.nav.NavigateTo(routeCollectionList, nil)
}

func (f *collectionForm) draw(fr *frame.Frame, area frame.Rect, title string) error {
	if err := f.backdrop.Draw(fr, area); err != nil {
		return err
	}
	body := f.name.view(formWidth-4) + wrapError(f.err)
	drawModal(fr, area, title, body, f.d.hint(keybinds.ContextTextInput,
		hintItem{keybinds.ActionTextSubmit, "confirm"},
		hintItem{keybinds.ActionTextCancel, "cancel"},
	), formWidth, modalHeight(body))
	return nil
}

// createCollectionPage asks for the name of a new collection
type createCollectionPage struct {
	collectionForm
}

func newCreateCollectionPage(d *deps, backdrop router.Page) *createCollectionPage {
	return &createCollectionPage{collectionForm: newCollectionForm(d, backdrop)}
}

func (p *createCollectionPage) Update(any) { p.open("") }

func (p *createCollectionPage) HandleKeyEvent(msg tea.KeyMsg) (command.Command, error) {
	switch p.d.action(keybinds.ContextTextInput, msg) {
	case keybinds.ActionTextCancel:
		p.close()
		return nil, nil
	case keybinds.ActionTextSubmit:
		name := strings.TrimSpace(p.name.value())
		if name == "" {
			p.err = "name cannot be empty"
			return nil, nil
		}
		p.close()
		return command.CreateCollection{Collection: collection.Collection{
			Info: collection.Info{Name: name},
		}}, nil
	}

	p.name.update(msg)
	return nil, nil
}

func (p *createCollectionPage) Draw(f *frame.Frame, area frame.Rect) error {
	return p.draw(f, area, "New collection")
}

// renameCollectionPage edits the display name of a collection file
type renameCollectionPage struct {
	collectionForm
	meta loader.Meta
}

func newRenameCollectionPage(d *deps, backdrop router.Page) *renameCollectionPage {
	return &renameCollectionPage{collectionForm: newCollectionForm(d, backdrop)}
}

// Update expects the loader.Meta of the collection to rename
func (p *renameCollectionPage) Update(payload any) {
	p.meta, _ = payload.(loader.Meta)
	p.open(p.meta.Name)
}

func (p *renameCollectionPage) HandleKeyEvent(msg tea.KeyMsg) (command.Command, error) {
	switch p.d.action(keybinds.ContextTextInput, msg) {
	case keybinds.ActionTextCancel:
		p.close()
		return nil, nil
	case keybinds.ActionTextSubmit:
		name := strings.TrimSpace(p.name.value())
		if name == "" {
			p.err = "name cannot be empty"
			return nil, nil
		}
		p.close()
		if name == p.meta.Name || p.meta.Path == "" {
			return nil, nil
		}
		return command.RenameCollection{Path: p.meta.Path, NewName: name}, nil
	}

	p.name.update(msg)
	return nil, nil
}

func (p *renameCollectionPage) Draw(f *frame.Frame, area frame.Rect) error {
	return p.draw(f, area, "Rename collection")
}

// deleteCollectionPage confirms the removal of a collection file
type deleteCollectionPage struct {
	basePage
	d        *deps
	backdrop router.Page
	meta     loader.Meta
}

func newDeleteCollectionPage(d *deps, backdrop router.Page) *deleteCollectionPage {
	return &deleteCollectionPage{d: d, backdrop: backdrop}
}

// Update expects the loader.Meta of the collection to delete
func (p *deleteCollectionPage) Update(payload any) {
	p.meta, _ = payload.(loader.Meta)
}

func (p *deleteCollectionPage) HandleKeyEvent(msg tea.KeyMsg) (command.Command, error) {
	switch p.d.action(keybinds.ContextConfirm, msg) {
	case keybinds.ActionConfirm:
		p.nav.NavigateTo(routeCollectionList, nil)
		if p.meta.Path == "" {
			return nil, nil
		}
		return command.DeleteCollection{Path: p.meta.Path}, nil
	case keybinds.ActionCancel:
		p.nav.NavigateTo(routeCollectionList, nil)
	}
	return nil, nil
}

func (p *deleteCollectionPage) Draw(f *frame.Frame, area frame.Rect) error {
	if err := p.backdrop.Draw(f, area); err != nil {
		return err
	}
	body := "Delete " + styleWarning.Render(p.meta.Name) + "?\n" +
		styleSubtle.Render(p.meta.Path) + "\n\n" +
		styleError.Render("This cannot be undone.")
	drawModal(f, area, "Delete collection", body, p.d.hint(keybinds.ContextConfirm,
		hintItem{keybinds.ActionConfirm, "delete"},
		hintItem{keybinds.ActionCancel, "cancel"},
	), formWidth, modalHeight(body))
	return nil
}
