/*
Package tui builds the pages of hac and wires them to the application loop.

# Pages

The root router "app" holds the collection list, its create, rename and
delete dialogs, and the collection viewer. The viewer is itself a router
whose first page is the workspace (sidebar, request editor, response view)
followed by the dialogs that edit the request tree.

Pages keep ids, never pointers into the collection: the store hands out
copies. Dialogs draw the page below them first, then a centered box.

# Effects

Pages only return commands. Collection file operations and switching
between the list and the viewer are applied by the effect function on the
UI goroutine. Responses and autosave failures come back through the bus
from background goroutines.
*/
package tui
