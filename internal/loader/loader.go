package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/studiowebux/hac/internal/collection"
	"github.com/tidwall/jsonc"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	filePermissions = 0644
	defaultExt      = ".json"
)

var (
	// ErrCollectionExists is returned when a create or rename would overwrite
	// another collection file
	ErrCollectionExists = errors.New("collection already exists")

	// ErrUnsupportedFormat is returned for files that are not collections
	ErrUnsupportedFormat = errors.New("unsupported collection format")
)

// Meta describes a collection file without parsing it
type Meta struct {
	Name     string
	Path     string
	Size     int64
	Modified time.Time
}

// Loader reads and writes collection files in one directory.
// In dry-run mode every write is kept in memory and the directory is never
// touched.
type Loader struct {
	dir    string
	dryRun bool
	logger *log.Logger

	mu      sync.Mutex
	virtual map[string]collection.Collection
	removed map[string]bool
}

// New creates a loader for dir
func New(dir string, dryRun bool, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		dir:     dir,
		dryRun:  dryRun,
		logger:  logger.WithPrefix("loader"),
		virtual: make(map[string]collection.Collection),
		removed: make(map[string]bool),
	}
}

// Dir returns the collections directory
func (l *Loader) Dir() string {
	return l.dir
}

// DryRun reports whether writes are kept in memory
func (l *Loader) DryRun() bool {
	return l.dryRun
}

// IsCollectionFile reports whether path has a supported extension
func IsCollectionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc", ".yaml", ".yml":
		return true
	}
	return false
}

// List returns metadata for every collection file, sorted by path
func (l *Loader) List() ([]Meta, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read collections directory: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[string]bool)
	var metas []Meta
	for _, entry := range entries {
		if entry.IsDir() || !IsCollectionFile(entry.Name()) {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		if l.removed[path] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to read collection metadata: %w", err)
		}
		seen[path] = true
		metas = append(metas, Meta{
			Name:     strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	for path, c := range l.virtual {
		if seen[path] {
			continue
		}
		metas = append(metas, Meta{
			Name:     c.Info.Name,
			Path:     path,
			Size:     int64(len(c.Info.Name)),
			Modified: time.Now(),
		})
	}

	sort.Slice(metas, func(i, j int) bool { return metas[i].Path < metas[j].Path })
	return metas, nil
}

// LoadCollections parses every collection file concurrently. A file that
// fails to parse fails the whole load.
func (l *Loader) LoadCollections(ctx context.Context) ([]collection.Collection, error) {
	metas, err := l.List()
	if err != nil {
		return nil, err
	}

	collections := make([]collection.Collection, len(metas))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, meta := range metas {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := l.Load(meta.Path)
			if err != nil {
				return err
			}
			collections[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return collections, nil
}

// Load parses one collection file
func (l *Loader) Load(path string) (collection.Collection, error) {
	l.mu.Lock()
	c, ok := l.virtual[path]
	l.mu.Unlock()
	if ok {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return collection.Collection{}, fmt.Errorf("failed to read collection: %w", err)
	}

	c, err = Decode(path, data)
	if err != nil {
		return collection.Collection{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	c.Path = path
	if c.Info.Name == "" {
		c.Info.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, nil
}

// Decode parses data in the format given by the extension of path
func Decode(path string, data []byte) (collection.Collection, error) {
	var c collection.Collection
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &c); err != nil {
			return c, fmt.Errorf("failed to parse JSONC: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return c, ErrUnsupportedFormat
	}
	return c, nil
}

// Encode serializes c in the format given by the extension of path. JSONC
// files are written back as plain JSON.
func Encode(path string, c collection.Collection) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case ".yaml", ".yml":
		return yaml.Marshal(c)
	}
	return nil, ErrUnsupportedFormat
}

// Save writes c back to c.Path
func (l *Loader) Save(c collection.Collection) error {
	if c.Path == "" {
		return fmt.Errorf("collection %q has no path", c.Info.Name)
	}

	if l.dryRun {
		l.mu.Lock()
		l.virtual[c.Path] = c
		l.mu.Unlock()
		return nil
	}

	data, err := Encode(c.Path, c)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	return writeAtomic(c.Path, data)
}

// Create makes a new, empty collection file named after name
func (l *Loader) Create(name string) (collection.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return collection.Collection{}, fmt.Errorf("collection name cannot be empty")
	}

	path := filepath.Join(l.dir, SanitizeFilename(name)+defaultExt)
	if l.exists(path) {
		return collection.Collection{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrCollectionExists)
	}

	c := collection.Collection{
		Info: collection.Info{Name: name},
		Path: path,
	}
	if l.dryRun {
		l.mu.Lock()
		l.virtual[path] = c
		delete(l.removed, path)
		l.mu.Unlock()
		return c, nil
	}

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return collection.Collection{}, fmt.Errorf("failed to create collections directory: %w", err)
	}
	if err := l.Save(c); err != nil {
		return collection.Collection{}, err
	}
	l.logger.Debug("collection created", "path", path)
	return c, nil
}

// Rename changes the collection name and moves its file to match. The new
// path is returned.
func (l *Loader) Rename(path, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("collection name cannot be empty")
	}

	c, err := l.Load(path)
	if err != nil {
		return "", err
	}

	newPath := filepath.Join(filepath.Dir(path), SanitizeFilename(name)+filepath.Ext(path))
	if newPath != path && l.exists(newPath) {
		return "", fmt.Errorf("%s: %w", filepath.Base(newPath), ErrCollectionExists)
	}

	c.Info.Name = name
	c.Path = newPath

	if l.dryRun {
		l.mu.Lock()
		delete(l.virtual, path)
		l.removed[path] = true
		l.virtual[newPath] = c
		delete(l.removed, newPath)
		l.mu.Unlock()
		return newPath, nil
	}

	if err := l.Save(c); err != nil {
		return "", err
	}
	if newPath != path {
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("failed to remove old collection file: %w", err)
		}
	}
	l.logger.Debug("collection renamed", "from", path, "to", newPath)
	return newPath, nil
}

// Delete removes a collection file
func (l *Loader) Delete(path string) error {
	if l.dryRun {
		l.mu.Lock()
		delete(l.virtual, path)
		l.removed[path] = true
		l.mu.Unlock()
		return nil
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove collection: %w", err)
	}
	l.logger.Debug("collection deleted", "path", path)
	return nil
}

func (l *Loader) exists(path string) bool {
	l.mu.Lock()
	_, virtual := l.virtual[path]
	removed := l.removed[path]
	l.mu.Unlock()
	if virtual {
		return true
	}
	if removed {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// SanitizeFilename replaces characters that are not safe in file names
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '?', '%', '*', ':', '|', '"', '<', '>', '.':
			return '_'
		}
		return r
	}, name)
}

// writeAtomic writes to a temporary file in the same directory and renames
// it over path
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".hac-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write collection: %w", err)
	}
	if err := tmp.Chmod(filePermissions); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write collection: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace collection: %w", err)
	}
	return nil
}
