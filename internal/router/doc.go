/*
Package router implements page navigation.

# Overview

A Router owns a fixed set of pages registered at startup with AddRoute and
tracks which one is active. Draw, key, tick, resize and command calls go to
the active page only.

# Navigation

Pages implementing Navigable receive a Navigator when registered:
  - NavigateTo(key, payload) activates a sibling page and passes payload to
    its Update method
  - NavigateUp(key, payload) performs NavigateTo on the parent router

Requests issued from inside a handler are queued and applied right after
the handler returns, so a page never observes itself being deactivated
half way through handling an event.

Navigating to a key that was never registered, or navigating up from a
router without a parent, panics. Both are wiring mistakes.

# Nesting

A Router implements Page. Registering a router as a route of another router
attaches it as a child. Activating a child router resets it to its first
registered route with the given payload.

# Example Usage

	root := router.New("app")
	root.SetMinSize(80, 22)
	root.AddRoute("collection_list", listPage)

	viewer := router.New("viewer")
	viewer.AddRoute("workspace", workspacePage)
	root.AddRoute("collection_viewer", viewer)

	root.NavigateTo("collection_list", nil)
*/
package router
