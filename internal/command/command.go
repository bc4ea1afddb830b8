// Package command defines the messages pages and background workers use to
// ask the application loop for effects, and the queue that carries them.
package command

import (
	"github.com/studiowebux/hac/internal/collection"
	"github.com/studiowebux/hac/internal/executor"
)

// Command is a request for an effect. Producers only enqueue commands; the
// application loop is the single place where they are applied.
type Command interface {
	Name() string
}

// Quit ends the application loop
type Quit struct{}

// Tick is forwarded to the active page at the tick rate
type Tick struct{}

// Render asks for a redraw
type Render struct{}

// Error is logged and shown on the status line
type Error struct {
	Message string
}

// SelectCollection opens a collection in the viewer
type SelectCollection struct {
	Collection collection.Collection
}

// SelectRequest focuses a request in the viewer
type SelectRequest struct {
	RequestID string
}

// CreateCollection persists a newly created collection
type CreateCollection struct {
	Collection collection.Collection
}

// DeleteCollection removes a collection file
type DeleteCollection struct {
	Path string
}

// RenameCollection changes the display name of a collection file
type RenameCollection struct {
	Path    string
	NewName string
}

// RefreshCollections reloads the collection list from disk
type RefreshCollections struct{}

// ResponseReceived carries a finished request back to the UI goroutine
type ResponseReceived struct {
	RequestID string
	Response  executor.Response
}

func (Quit) Name() string               { return "quit" }
func (Tick) Name() string               { return "tick" }
func (Render) Name() string             { return "render" }
func (Error) Name() string              { return "error" }
func (SelectCollection) Name() string   { return "select_collection" }
func (SelectRequest) Name() string      { return "select_request" }
func (CreateCollection) Name() string   { return "create_collection" }
func (DeleteCollection) Name() string   { return "delete_collection" }
func (RenameCollection) Name() string   { return "rename_collection" }
func (RefreshCollections) Name() string { return "refresh_collections" }
func (ResponseReceived) Name() string   { return "response_received" }

// Errorf is a shorthand for building an Error command from an error value
func Errorf(prefix string, err error) Error {
	if prefix == "" {
		return Error{Message: err.Error()}
	}
	return Error{Message: prefix + ": " + err.Error()}
}
