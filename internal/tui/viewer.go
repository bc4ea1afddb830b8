package tui

import (
	"sync"

	"github.com/studiowebux/hac/internal/collection"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/executor"
	"github.com/studiowebux/hac/internal/router"
)

// Routes of the nested collection viewer router
const (
	routeWorkspace       = "workspace"
	routeCreateDirectory = "create_directory"
	routeCreateRequest   = "create_request"
	routeRenameDirectory = "rename_directory"
	routeDeleteItem      = "delete_item"
	routeHeaderForm      = "header_form"
)

// viewer is the state shared by every page of the collection viewer. It is
// only touched from the UI goroutine, except for the store and savedVersion,
// which the autosave goroutine uses while holding saveMu.
type viewer struct {
	d     *deps
	store *collection.Store

	expanded map[string]bool
	hovered  string
	selected string

	responses map[string]executor.Response
	pending   map[string]bool

	saveMu       sync.Mutex
	savedVersion uint64
}

func newViewer(d *deps) *viewer {
	return &viewer{
		d:         d,
		expanded:  make(map[string]bool),
		responses: make(map[string]executor.Response),
		pending:   make(map[string]bool),
	}
}

// open replaces the session with a freshly loaded collection
func (v *viewer) open(c collection.Collection) {
	v.saveMu.Lock()
	defer v.saveMu.Unlock()

	v.store = collection.NewStore(c)
	v.expanded = make(map[string]bool)
	v.responses = make(map[string]executor.Response)
	v.pending = make(map[string]bool)
	v.hovered = ""
	v.selected = ""
	v.savedVersion = v.store.Version()

	if rows := v.store.Visible(v.expanded); len(rows) > 0 {
		v.hovered = rows[0].ID
	}
	v.d.logger.Info("collection opened", "name", c.Info.Name, "path", c.Path, "requests", c.CountRequests())
}

// newViewerRouter builds the nested router of the collection viewer. It
// starts on the workspace whenever it is activated.
func newViewerRouter(d *deps) (*router.Router, *viewer) {
	v := newViewer(d)
	workspace := newWorkspacePage(v)

	r := router.New("viewer")
	r.SetMinSize(60, 12)
	r.AddRoute(routeWorkspace, workspace)
	r.AddRoute(routeCreateDirectory, newCreateDirectoryPage(v, workspace))
	r.AddRoute(routeCreateRequest, newCreateRequestPage(v, workspace))
	r.AddRoute(routeRenameDirectory, newRenameDirectoryPage(v, workspace))
	r.AddRoute(routeDeleteItem, newDeleteItemPage(v, workspace))
	r.AddRoute(routeHeaderForm, newHeaderFormPage(v, workspace))
	return r, v
}

// autosave writes the collection in the background when it changed since
// the last save. Only one save runs at a time; when one is already running
// the changes are picked up on a later tick.
func (v *viewer) autosave() {
	if v.store == nil || !v.saveMu.TryLock() {
		return
	}
	if v.store.Version() == v.savedVersion {
		v.saveMu.Unlock()
		return
	}

	store := v.store
	go func() {
		defer v.saveMu.Unlock()
		if err := v.save(store); err != nil {
			v.d.send(command.Errorf("autosave failed", err))
		}
	}()
}

// flush saves synchronously after any running autosave finished. It is used
// when leaving the viewer and on quit.
func (v *viewer) flush() error {
	v.saveMu.Lock()
	defer v.saveMu.Unlock()

	if v.store == nil {
		return nil
	}
	return v.save(v.store)
}

// save writes store when it changed since the last successful save. The
// caller holds saveMu.
func (v *viewer) save(store *collection.Store) error {
	version := store.Version()
	if version == v.savedVersion {
		return nil
	}
	snapshot := store.Snapshot()
	if err := v.d.loader.Save(snapshot); err != nil {
		return err
	}
	v.savedVersion = version
	v.d.logger.Debug("collection saved", "path", snapshot.Path, "version", version)
	return nil
}

// send dispatches the request through the pipeline. The response comes
// back as a ResponseReceived command.
func (v *viewer) send(id string) error {
	req, ok := v.store.Request(id)
	if !ok {
		return nil
	}
	if v.pending[id] {
		return nil
	}

	bus := v.d.bus
	err := v.d.pipeline.Dispatch(req, func(resp executor.Response) error {
		return bus.Send(command.ResponseReceived{RequestID: id, Response: resp})
	})
	if err != nil {
		return err
	}
	v.pending[id] = true
	return nil
}

// handleCommand is called by every viewer page so responses are stored even
// while a dialog is open
func (v *viewer) handleCommand(cmd command.Command) {
	switch c := cmd.(type) {
	case command.ResponseReceived:
		delete(v.pending, c.RequestID)
		v.responses[c.RequestID] = c.Response
	case command.SelectRequest:
		if v.store == nil {
			return
		}
		if _, ok := v.store.Request(c.RequestID); ok {
			v.selected = c.RequestID
			v.hovered = c.RequestID
		}
	}
}

// hoveredNode resolves the hovered id, which may have been deleted
func (v *viewer) hoveredNode() (collection.Node, bool) {
	if v.store == nil || v.hovered == "" {
		return collection.Node{}, false
	}
	return v.store.Find(v.hovered)
}

// parentFor returns the directory new requests go in when n is hovered
func parentFor(n collection.Node) string {
	if n.Kind == collection.KindDirectory {
		return n.ID
	}
	return n.ParentID
}
