package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studiowebux/hac/internal/collection"
	"github.com/studiowebux/hac/internal/config"
	"github.com/studiowebux/hac/internal/converter"
	"github.com/studiowebux/hac/internal/loader"
)

func useTempDirs(t *testing.T) {
	t.Helper()
	tmp := t.TempDir()
	flagConfigDir = filepath.Join(tmp, "config")
	flagDataDir = filepath.Join(tmp, "data")
	flagDryRun = false
	t.Cleanup(func() {
		flagConfigDir, flagDataDir = "", ""
		flagTargetCollection = ""
		flagCreateCollection = false
	})
}

func TestFindCollectionRequiresCreate(t *testing.T) {
	l := loader.New(t.TempDir(), false, nil)

	flagCreateCollection = false
	_, err := findCollection(l, "users api")
	assert.Error(t, err)

	flagCreateCollection = true
	t.Cleanup(func() { flagCreateCollection = false })
	c, err := findCollection(l, "users api")
	require.NoError(t, err)
	assert.Equal(t, "users api", c.Info.Name)

	again, err := findCollection(l, "users api")
	require.NoError(t, err)
	assert.Equal(t, c.Path, again.Path)

	byFile, err := findCollection(l, c.Path)
	require.NoError(t, err)
	assert.Equal(t, c.Path, byFile.Path)
}

func TestAppendToCollection(t *testing.T) {
	useTempDirs(t)
	flagTargetCollection = "imports"
	flagCreateCollection = true

	req, err := converter.CurlToRequest(`curl -X POST https://api.example.com/users -d '{"a":1}'`, converter.Options{})
	require.NoError(t, err)

	path, err := appendToCollection([]collection.RequestNode{{Request: &req}})
	require.NoError(t, err)

	_, err = appendToCollection([]collection.RequestNode{{Request: &req}})
	require.NoError(t, err)

	l := loader.New(filepath.Dir(path), false, nil)
	c, err := l.Load(path)
	require.NoError(t, err)
	require.Len(t, c.Requests, 2)
	assert.NotEqual(t, c.Requests[0].ID(), c.Requests[1].ID())
	assert.Equal(t, collection.MethodPost, c.Requests[0].Request.Method)
	assert.Equal(t, filepath.Join(config.DataDir, "collections"), filepath.Dir(path))
}
