package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiowebux/hac/internal/collection"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/loader"
)

// seed writes one collection file per name. Each file is one byte larger
// and one minute older than the previous one.
func seed(t *testing.T, d *deps, names ...string) {
	t.Helper()

	now := time.Now()
	for i, name := range names {
		c, err := d.loader.Create(name)
		require.NoError(t, err)
		c.Info.Description = string(make([]byte, i*100))
		require.NoError(t, d.loader.Save(c))
		mod := now.Add(-time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(c.Path, mod, mod))
	}
}

func listPage(t *testing.T, d *deps) (*collectionListPage, func(keys ...string) command.Command) {
	t.Helper()

	root := newTestRoot(t, d)
	root.NavigateTo(routeCollectionList, nil)
	page, _ := root.Page(routeCollectionList)
	return page.(*collectionListPage), func(keys ...string) command.Command {
		return press(t, root, keys...)
	}
}

func names(p *collectionListPage) []string {
	var out []string
	for _, i := range p.visible {
		out = append(out, p.metas[i].Name)
	}
	return out
}

func TestCollectionListSortRing(t *testing.T) {
	d := newTestDeps(t)
	seed(t, d, "beta", "alpha", "gamma")
	p, keys := listPage(t, d)

	assert.Equal(t, sortRecent, p.sort)
	assert.Equal(t, []string{"beta", "alpha", "gamma"}, names(p))

	keys("tab")
	assert.Equal(t, sortName, p.sort)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names(p))

	keys("tab")
	assert.Equal(t, sortSize, p.sort)
	assert.Equal(t, []string{"gamma", "alpha", "beta"}, names(p))

	keys("tab")
	assert.Equal(t, sortRecent, p.sort)
}

func TestSortModeRing(t *testing.T) {
	assert.Equal(t, sortName, sortRecent.next())
	assert.Equal(t, sortRecent, sortSize.next())
	assert.Equal(t, sortSize, sortRecent.prev())
}

func TestCollectionListKeepsCursorWhenSorting(t *testing.T) {
	d := newTestDeps(t)
	seed(t, d, "beta", "alpha", "gamma")
	p, keys := listPage(t, d)

	keys("j", "j")
	current, _ := p.current()
	require.Equal(t, "gamma", current.Name)

	keys("tab")
	current, _ = p.current()
	assert.Equal(t, "gamma", current.Name)
}

func TestCollectionListFuzzySearch(t *testing.T) {
	d := newTestDeps(t)
	seed(t, d, "payments api", "users api", "internal tools")
	p, keys := listPage(t, d)

	keys("/")
	typeText(t, p, "usr")
	assert.Equal(t, []string{"users api"}, names(p))

	keys("enter")
	assert.False(t, p.search.focused())
	assert.Equal(t, []string{"users api"}, names(p))

	keys("esc")
	assert.Len(t, p.visible, 3)
}

func TestCollectionListOpenAndQuit(t *testing.T) {
	d := newTestDeps(t)
	seed(t, d, "demo")
	_, keys := listPage(t, d)

	cmd := keys("enter")
	sel, ok := cmd.(command.SelectCollection)
	require.True(t, ok, "expected SelectCollection, got %T", cmd)
	assert.Equal(t, "demo", sel.Collection.Info.Name)
	assert.Equal(t, "demo.json", filepath.Base(sel.Collection.Path))

	assert.Equal(t, command.Quit{}, keys("q"))
}

func TestCreateCollectionForm(t *testing.T) {
	d := newTestDeps(t)
	root := newTestRoot(t, d)
	root.NavigateTo(routeCollectionList, nil)

	press(t, root, "n")
	require.Equal(t, routeCreateCollection, root.Active())

	press(t, root, "enter")
	page, _ := root.Page(routeCreateCollection)
	assert.NotEmpty(t, page.(*createCollectionPage).err, "empty name must be rejected")
	assert.Equal(t, routeCreateCollection, root.Active())

	typeText(t, root, "orders")
	cmd := press(t, root, "enter")
	create, ok := cmd.(command.CreateCollection)
	require.True(t, ok, "expected CreateCollection, got %T", cmd)
	assert.Equal(t, "orders", create.Collection.Info.Name)
	assert.Equal(t, routeCollectionList, root.Active())
}

func TestRenameAndDeleteCollectionForms(t *testing.T) {
	d := newTestDeps(t)
	seed(t, d, "demo")
	root := newTestRoot(t, d)
	root.NavigateTo(routeCollectionList, nil)

	press(t, root, "e")
	require.Equal(t, routeRenameCollection, root.Active())
	typeText(t, root, "2")
	cmd := press(t, root, "enter")
	rename, ok := cmd.(command.RenameCollection)
	require.True(t, ok, "expected RenameCollection, got %T", cmd)
	assert.Equal(t, "demo2", rename.NewName)

	press(t, root, "d")
	require.Equal(t, routeDeleteCollection, root.Active())
	assert.Nil(t, press(t, root, "n"))
	assert.Equal(t, routeCollectionList, root.Active())

	press(t, root, "d")
	cmd = press(t, root, "y")
	del, ok := cmd.(command.DeleteCollection)
	require.True(t, ok, "expected DeleteCollection, got %T", cmd)
	assert.Equal(t, "demo.json", filepath.Base(del.Path))
}

func TestEffectsApplyCollectionCommands(t *testing.T) {
	d := newTestDeps(t)
	root := newTestRoot(t, d)
	root.NavigateTo(routeCollectionList, nil)
	apply := newEffects(d, root)

	require.NoError(t, apply(command.CreateCollection{Collection: collection.Collection{Info: collection.Info{Name: "orders"}}}))
	assert.Equal(t, routeCollectionViewer, root.Active(), "a new collection opens in the viewer")
	path := filepath.Join(d.loader.Dir(), "orders.json")
	assert.FileExists(t, path)

	err := apply(command.CreateCollection{Collection: collection.Collection{Info: collection.Info{Name: "orders"}}})
	assert.True(t, errors.Is(err, loader.ErrCollectionExists), "got %v", err)

	require.NoError(t, apply(command.RenameCollection{Path: path, NewName: "invoices"}))
	assert.FileExists(t, filepath.Join(d.loader.Dir(), "invoices.json"))
	assert.NoFileExists(t, path)

	require.NoError(t, apply(command.DeleteCollection{Path: filepath.Join(d.loader.Dir(), "invoices.json")}))
	metas, err := d.loader.List()
	require.NoError(t, err)
	assert.Empty(t, metas)

	c := sampleCollection()
	require.NoError(t, apply(command.SelectCollection{Collection: c}))
	assert.Equal(t, routeCollectionViewer, root.Active())
	assert.Equal(t, 4, testWorkspace(t, root).v.store.Len())
}

func TestShellQuitsFromTextField(t *testing.T) {
	d := newTestDeps(t)
	root := newTestRoot(t, d)
	root.NavigateTo(routeCreateCollection, nil)
	s := &shell{Router: root, keys: d.keys}

	cmd, err := s.HandleKeyEvent(key("ctrl+c"))
	require.NoError(t, err)
	assert.Equal(t, command.Quit{}, cmd)

	// q is text while a field has focus
	cmd, err = s.HandleKeyEvent(key("q"))
	require.NoError(t, err)
	assert.Nil(t, cmd)
}
