package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the part of the interface in which keybindings are active
type Context string

const (
	ContextGlobal         Context = "global"          // Available everywhere
	ContextCollectionList Context = "collection_list" // Collection list page
	ContextSidebar        Context = "sidebar"         // Request tree in the collection viewer
	ContextRequestEditor  Context = "request_editor"  // URI, headers and body of the selected request
	ContextResponse       Context = "response"        // Response viewer
	ContextTextInput      Context = "text_input"      // Any focused text field or form
	ContextConfirm        Context = "confirm"         // Confirmation prompts
)

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit application (from the collection list)
	ActionQuitForce Action = "quit_force" // Quit from anywhere (ctrl+c)

	// Navigation actions
	ActionNavigateUp   Action = "navigate_up"
	ActionNavigateDown Action = "navigate_down"
	ActionGoToTop      Action = "go_to_top"
	ActionGoToBottom   Action = "go_to_bottom"
	ActionBack         Action = "back" // Leave the current page or panel
	ActionSwitchFocus  Action = "switch_focus"

	// Collection list
	ActionOpen     Action = "open"
	ActionCreate   Action = "create"
	ActionRename   Action = "rename"
	ActionDelete   Action = "delete"
	ActionSearch   Action = "search"
	ActionSortNext Action = "sort_next"
	ActionSortPrev Action = "sort_prev"

	// Sidebar
	ActionSelect          Action = "select" // Open a request or toggle a directory
	ActionCreateDirectory Action = "create_directory"
	ActionCreateRequest   Action = "create_request"
	ActionRenameDirectory Action = "rename_directory"
	ActionDeleteItem      Action = "delete_item"
	ActionCycleMethod     Action = "cycle_method"

	// Request editor
	ActionSend           Action = "send"
	ActionEditURI        Action = "edit_uri"
	ActionEditName       Action = "edit_name"
	ActionEditBody       Action = "edit_body"
	ActionToggleBodyKind Action = "toggle_body_kind"
	ActionAddHeader      Action = "add_header"
	ActionToggleHeader   Action = "toggle_header"
	ActionDeleteHeader   Action = "delete_header"

	// Response viewer
	ActionScrollUp      Action = "scroll_up"
	ActionScrollDown    Action = "scroll_down"
	ActionToggleHeaders Action = "toggle_headers"
	ActionFilter        Action = "filter"
	ActionCopyBody      Action = "copy_body"

	// Text input and forms
	ActionTextSubmit Action = "text_submit"
	ActionTextCancel Action = "text_cancel"
	ActionNextField  Action = "next_field"

	// Confirmation
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)

// Contexts lists every context in display order
var Contexts = []Context{
	ContextGlobal,
	ContextCollectionList,
	ContextSidebar,
	ContextRequestEditor,
	ContextResponse,
	ContextTextInput,
	ContextConfirm,
}

// knownActions is used to reject typos in keybinds.json
var knownActions = map[Action]bool{
	ActionQuit: true, ActionQuitForce: true,
	ActionNavigateUp: true, ActionNavigateDown: true, ActionGoToTop: true, ActionGoToBottom: true,
	ActionBack: true, ActionSwitchFocus: true,
	ActionOpen: true, ActionCreate: true, ActionRename: true, ActionDelete: true,
	ActionSearch: true, ActionSortNext: true, ActionSortPrev: true,
	ActionSelect: true, ActionCreateDirectory: true, ActionCreateRequest: true,
	ActionRenameDirectory: true, ActionDeleteItem: true, ActionCycleMethod: true,
	ActionSend: true, ActionEditURI: true, ActionEditName: true, ActionEditBody: true,
	ActionToggleBodyKind: true, ActionAddHeader: true, ActionToggleHeader: true, ActionDeleteHeader: true,
	ActionScrollUp: true, ActionScrollDown: true, ActionToggleHeaders: true, ActionFilter: true, ActionCopyBody: true,
	ActionTextSubmit: true, ActionTextCancel: true, ActionNextField: true,
	ActionConfirm: true, ActionCancel: true,
}

// IsKnown reports whether a is an action the interface handles
func (a Action) IsKnown() bool {
	return knownActions[a]
}

// IsKnown reports whether c is one of Contexts
func (c Context) IsKnown() bool {
	for _, known := range Contexts {
		if c == known {
			return true
		}
	}
	return false
}
