package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/studiowebux/hac/internal/collection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(os.Stderr).WithPrefix("test")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const jsonCollection = `{
  "info": {"name": "json api"},
  "requests": [
    {"id": "r1", "method": "GET", "name": "list", "uri": "http://localhost/items"},
    {"id": "d1", "name": "admin", "requests": [
      {"id": "r2", "method": "POST", "name": "create", "uri": "http://localhost/admin", "bodyType": "json", "body": "{}"}
    ]}
  ]
}`

const jsoncCollection = `{
  // comments are allowed
  "info": {"name": "commented"},
  "requests": [],
}`

const yamlCollection = `info:
  name: yaml api
requests:
  - id: r1
    method: DELETE
    name: remove
    uri: http://localhost/items/1
`

func TestLoadCollectionsAllFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", jsonCollection)
	writeFile(t, dir, "b.jsonc", jsoncCollection)
	writeFile(t, dir, "c.yaml", yamlCollection)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	l := New(dir, false, quietLogger())
	collections, err := l.LoadCollections(context.Background())
	require.NoError(t, err)
	require.Len(t, collections, 3)

	assert.Equal(t, "json api", collections[0].Info.Name)
	assert.Equal(t, 2, collections[0].CountRequests())
	assert.Equal(t, filepath.Join(dir, "a.json"), collections[0].Path)

	assert.Equal(t, "commented", collections[1].Info.Name)

	assert.Equal(t, "yaml api", collections[2].Info.Name)
	require.Len(t, collections[2].Requests, 1)
	assert.Equal(t, collection.MethodDelete, collections[2].Requests[0].Request.Method)
}

func TestLoadCollectionsFailsOnBadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", jsonCollection)
	writeFile(t, dir, "bad.json", `{"info": `)

	_, err := New(dir, false, quietLogger()).LoadCollections(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestLoadFallsBackToFileName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "unnamed.json", `{"info": {}}`)

	c, err := New(dir, false, quietLogger()).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "unnamed", c.Info.Name)
}

func TestCreateSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, false, quietLogger())

	c, err := l.Create("My API: v2")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "My API_ v2.json"), c.Path)

	_, err = l.Create("My API: v2")
	assert.True(t, errors.Is(err, ErrCollectionExists), "expected ErrCollectionExists, got %v", err)

	store := collection.NewStore(c)
	_, err = store.CreateRequest("", collection.Request{Name: "ping", URI: "http://localhost/ping"})
	require.NoError(t, err)
	require.NoError(t, l.Save(store.Snapshot()))

	loaded, err := l.Load(c.Path)
	require.NoError(t, err)
	assert.Equal(t, "My API: v2", loaded.Info.Name)
	require.Len(t, loaded.Requests, 1)
	assert.Equal(t, "ping", loaded.Requests[0].Request.Name)
}

func TestSaveYAMLKeepsFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.yml", yamlCollection)
	l := New(dir, false, quietLogger())

	c, err := l.Load(path)
	require.NoError(t, err)
	c.Info.Description = "edited"
	require.NoError(t, l.Save(c))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "description: edited")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(string(data)), "{"))
}

func TestRenameMovesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "old.json", jsonCollection)
	writeFile(t, dir, "taken.json", jsonCollection)
	l := New(dir, false, quietLogger())

	_, err := l.Rename(path, "taken")
	assert.True(t, errors.Is(err, ErrCollectionExists))

	newPath, err := l.Rename(path, "fresh")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fresh.json"), newPath)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "old file should be gone")

	c, err := l.Load(newPath)
	require.NoError(t, err)
	assert.Equal(t, "fresh", c.Info.Name)
	assert.Equal(t, 2, c.CountRequests())
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gone.json", jsonCollection)
	l := New(dir, false, quietLogger())

	require.NoError(t, l.Delete(path))
	metas, err := l.List()
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestDryRunNeverTouchesDisk(t *testing.T) {
	dir := t.TempDir()
	existing := writeFile(t, dir, "existing.json", jsonCollection)
	l := New(dir, true, quietLogger())

	c, err := l.Create("virtual")
	require.NoError(t, err)
	_, err = os.Stat(c.Path)
	assert.True(t, os.IsNotExist(err), "dry run must not create files")

	metas, err := l.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)

	require.NoError(t, l.Delete(existing))
	_, err = os.Stat(existing)
	assert.NoError(t, err, "dry run must not delete files")

	metas, err = l.List()
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, "virtual", metas[0].Name)

	renamed, err := l.Rename(c.Path, "renamed")
	require.NoError(t, err)
	loaded, err := l.Load(renamed)
	require.NoError(t, err)
	assert.Equal(t, "renamed", loaded.Info.Name)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c_json", SanitizeFilename("a/b:c.json"))
	assert.Equal(t, "plain name", SanitizeFilename("plain name"))
}

func TestWatchNotifiesOnChange(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, false, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	require.NoError(t, l.Watch(ctx, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))

	writeFile(t, dir, "notes.txt", "not a collection")
	writeFile(t, dir, "new.json", jsonCollection)

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("Expected a change notification")
	}
}
