package collection

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when an id does not resolve to a node
	ErrNotFound = errors.New("node not found")
	// ErrNotDirectory is returned when a node is used as a parent but is a request
	ErrNotDirectory = errors.New("node is not a directory")
)

// NodeKind distinguishes requests from directories in the arena
type NodeKind int

const (
	KindRequest NodeKind = iota
	KindDirectory
)

func (k NodeKind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "request"
}

type node struct {
	id       string
	parent   string
	kind     NodeKind
	name     string
	request  *Request
	children []string
}

// Node is a read-only view of one arena entry
type Node struct {
	ID       string
	ParentID string
	Kind     NodeKind
	Name     string
	Method   Method
	Children int
}

// Row is a Node as laid out in the sidebar
type Row struct {
	Node
	Depth    int
	Expanded bool
}

// Store holds the active collection as an arena of nodes keyed by id.
// Views keep ids and resolve them through the store, which only ever hands
// out copies. All methods are safe for concurrent use; a single RWMutex is
// held for the duration of one call.
type Store struct {
	mu      sync.RWMutex
	info    Info
	path    string
	nodes   map[string]*node
	roots   []string
	version uint64
}

// NewStore builds an arena from a loaded collection.
// Missing or duplicated ids are replaced with fresh ones so that every id in
// the arena is unique.
func NewStore(c Collection) *Store {
	s := &Store{
		info:  c.Info,
		path:  c.Path,
		nodes: make(map[string]*node),
	}
	s.roots = s.insertAll("", c.Requests)
	return s
}

func (s *Store) insertAll(parent string, nodes []RequestNode) []string {
	ids := make([]string, 0, len(nodes))
	for _, rn := range nodes {
		id := rn.ID()
		if id == "" || s.nodes[id] != nil {
			id = uuid.NewString()
		}

		switch {
		case rn.Directory != nil:
			n := &node{
				id:     id,
				parent: parent,
				kind:   KindDirectory,
				name:   nameOr(rn.Directory.Name, UnnamedDirectory),
			}
			s.nodes[id] = n
			n.children = s.insertAll(id, rn.Directory.Requests)
		case rn.Request != nil:
			req := rn.Request.Clone()
			req.ID = id
			req.Name = nameOr(req.Name, UnnamedRequest)
			req.Normalize()
			s.nodes[id] = &node{
				id:      id,
				parent:  parent,
				kind:    KindRequest,
				request: &req,
			}
		default:
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func nameOr(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}

// Info returns the collection metadata
func (s *Store) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// Path returns the file the collection belongs to
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Version increases on every successful mutation
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len returns the number of nodes at any depth
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// CreateDirectory adds a directory under parentID ("" for the root) and
// returns its id.
func (s *Store) CreateDirectory(parentID, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkParent(parentID); err != nil {
		return "", err
	}

	id := s.newID()
	s.nodes[id] = &node{
		id:     id,
		parent: parentID,
		kind:   KindDirectory,
		name:   nameOr(name, UnnamedDirectory),
	}
	s.appendChild(parentID, id)
	s.version++
	return id, nil
}

// RenameDirectory changes a directory name
func (s *Store) RenameDirectory(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("rename %s: %w", id, ErrNotFound)
	}
	if n.kind != KindDirectory {
		return fmt.Errorf("rename %s: %w", id, ErrNotDirectory)
	}
	n.name = nameOr(name, UnnamedDirectory)
	s.version++
	return nil
}

// CreateRequest adds a request under parentID ("" for the root) and returns
// the id assigned to it. Any id carried by req is ignored.
func (s *Store) CreateRequest(parentID string, req Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkParent(parentID); err != nil {
		return "", err
	}

	id := s.newID()
	stored := req.Clone()
	stored.ID = id
	stored.Name = nameOr(stored.Name, UnnamedRequest)
	stored.Normalize()

	s.nodes[id] = &node{
		id:      id,
		parent:  parentID,
		kind:    KindRequest,
		request: &stored,
	}
	s.appendChild(parentID, id)
	s.version++
	return id, nil
}

// UpdateRequest applies fn to a copy of the request and stores the result.
// The id cannot be changed by fn.
func (s *Store) UpdateRequest(id string, fn func(*Request)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok || n.kind != KindRequest {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}

	updated := n.request.Clone()
	fn(&updated)
	updated.ID = id
	updated.Name = nameOr(updated.Name, UnnamedRequest)
	updated.Normalize()
	n.request = &updated
	s.version++
	return nil
}

// CycleMethod moves the request method one step forward on the ring and
// returns the new method.
func (s *Store) CycleMethod(id string) (Method, error) {
	var method Method
	err := s.UpdateRequest(id, func(r *Request) {
		r.Method = r.Method.Next()
		method = r.Method
	})
	return method, err
}

// DeleteNode removes a node and, for directories, everything below it
func (s *Store) DeleteNode(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}

	if n.parent == "" {
		s.roots = without(s.roots, id)
	} else if parent, ok := s.nodes[n.parent]; ok {
		parent.children = without(parent.children, id)
	}
	s.removeSubtree(id)
	s.version++
	return nil
}

func (s *Store) removeSubtree(id string) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	for _, child := range n.children {
		s.removeSubtree(child)
	}
	delete(s.nodes, id)
}

// Find returns a view of the node with the given id
func (s *Store) Find(id string) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.view(), true
}

// Request returns a copy of the request with the given id
func (s *Store) Request(id string) (Request, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok || n.kind != KindRequest {
		return Request{}, false
	}
	return n.request.Clone(), true
}

// Children returns the direct children of parentID ("" for the root) in
// insertion order.
func (s *Store) Children(parentID string) []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.roots
	if parentID != "" {
		parent, ok := s.nodes[parentID]
		if !ok {
			return nil
		}
		ids = parent.children
	}

	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := s.nodes[id]; ok {
			out = append(out, n.view())
		}
	}
	return out
}

// Visible flattens the tree into sidebar rows. Children of directories not
// present in expanded are skipped.
func (s *Store) Visible(expanded map[string]bool) []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []Row
	var walk func(ids []string, depth int)
	walk = func(ids []string, depth int) {
		for _, id := range ids {
			n, ok := s.nodes[id]
			if !ok {
				continue
			}
			open := n.kind == KindDirectory && expanded[id]
			rows = append(rows, Row{Node: n.view(), Depth: depth, Expanded: open})
			if open {
				walk(n.children, depth+1)
			}
		}
	}
	walk(s.roots, 0)
	return rows
}

// Snapshot rebuilds the collection tree from the arena
func (s *Store) Snapshot() Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Collection{
		Info:     s.info,
		Requests: s.build(s.roots),
		Path:     s.path,
	}
}

func (s *Store) build(ids []string) []RequestNode {
	out := make([]RequestNode, 0, len(ids))
	for _, id := range ids {
		n, ok := s.nodes[id]
		if !ok {
			continue
		}
		if n.kind == KindDirectory {
			out = append(out, RequestNode{Directory: &Directory{
				ID:       n.id,
				Name:     n.name,
				Requests: s.build(n.children),
			}})
			continue
		}
		req := n.request.Clone()
		out = append(out, RequestNode{Request: &req})
	}
	return out
}

func (s *Store) checkParent(parentID string) error {
	if parentID == "" {
		return nil
	}
	parent, ok := s.nodes[parentID]
	if !ok {
		return fmt.Errorf("parent %s: %w", parentID, ErrNotFound)
	}
	if parent.kind != KindDirectory {
		return fmt.Errorf("parent %s: %w", parentID, ErrNotDirectory)
	}
	return nil
}

func (s *Store) appendChild(parentID, id string) {
	if parentID == "" {
		s.roots = append(s.roots, id)
		return
	}
	parent := s.nodes[parentID]
	parent.children = append(parent.children, id)
}

func (s *Store) newID() string {
	for {
		id := uuid.NewString()
		if _, taken := s.nodes[id]; !taken {
			return id
		}
	}
}

func (n *node) view() Node {
	v := Node{
		ID:       n.id,
		ParentID: n.parent,
		Kind:     n.kind,
		Name:     n.name,
		Children: len(n.children),
	}
	if n.kind == KindRequest {
		v.Name = n.request.Name
		v.Method = n.request.Method
	}
	return v
}

func without(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
