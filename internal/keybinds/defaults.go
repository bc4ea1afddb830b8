package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerCollectionListBindings(r)
	registerSidebarBindings(r)
	registerRequestEditorBindings(r)
	registerResponseBindings(r)
	registerTextInputBindings(r)
	registerConfirmBindings(r)

	return r
}

func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
}

func registerCollectionListBindings(r *Registry) {
	r.RegisterMultiple(ContextCollectionList, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextCollectionList, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextCollectionList, "g", ActionGoToTop)
	r.Register(ContextCollectionList, "G", ActionGoToBottom)
	r.Register(ContextCollectionList, "enter", ActionOpen)
	r.Register(ContextCollectionList, "n", ActionCreate)
	r.Register(ContextCollectionList, "e", ActionRename)
	r.Register(ContextCollectionList, "d", ActionDelete)
	r.Register(ContextCollectionList, "/", ActionSearch)
	r.Register(ContextCollectionList, "tab", ActionSortNext)
	r.Register(ContextCollectionList, "shift+tab", ActionSortPrev)
	r.Register(ContextCollectionList, "esc", ActionBack)
	r.Register(ContextCollectionList, "q", ActionQuit)
}

func registerSidebarBindings(r *Registry) {
	r.RegisterMultiple(ContextSidebar, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextSidebar, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextSidebar, "g", ActionGoToTop)
	r.Register(ContextSidebar, "G", ActionGoToBottom)
	r.RegisterMultiple(ContextSidebar, []string{"enter", " ", "space"}, ActionSelect)
	r.Register(ContextSidebar, "d", ActionCreateDirectory)
	r.Register(ContextSidebar, "n", ActionCreateRequest)
	r.Register(ContextSidebar, "r", ActionRenameDirectory)
	r.Register(ContextSidebar, "D", ActionDeleteItem)
	r.Register(ContextSidebar, "m", ActionCycleMethod)
	r.Register(ContextSidebar, "tab", ActionSwitchFocus)
	r.RegisterMultiple(ContextSidebar, []string{"esc", "q"}, ActionBack)
}

func registerRequestEditorBindings(r *Registry) {
	r.RegisterMultiple(ContextRequestEditor, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextRequestEditor, []string{"down", "j"}, ActionNavigateDown)
	r.RegisterMultiple(ContextRequestEditor, []string{"ctrl+s", "s"}, ActionSend)
	r.RegisterMultiple(ContextRequestEditor, []string{"i", "u"}, ActionEditURI)
	r.Register(ContextRequestEditor, "R", ActionEditName)
	r.Register(ContextRequestEditor, "b", ActionEditBody)
	r.Register(ContextRequestEditor, "B", ActionToggleBodyKind)
	r.Register(ContextRequestEditor, "a", ActionAddHeader)
	r.RegisterMultiple(ContextRequestEditor, []string{" ", "space"}, ActionToggleHeader)
	r.Register(ContextRequestEditor, "x", ActionDeleteHeader)
	r.Register(ContextRequestEditor, "m", ActionCycleMethod)
	r.Register(ContextRequestEditor, "tab", ActionSwitchFocus)
	r.RegisterMultiple(ContextRequestEditor, []string{"esc", "q"}, ActionBack)
}

func registerResponseBindings(r *Registry) {
	r.RegisterMultiple(ContextResponse, []string{"up", "k"}, ActionScrollUp)
	r.RegisterMultiple(ContextResponse, []string{"down", "j"}, ActionScrollDown)
	r.Register(ContextResponse, "g", ActionGoToTop)
	r.Register(ContextResponse, "G", ActionGoToBottom)
	r.Register(ContextResponse, "h", ActionToggleHeaders)
	r.Register(ContextResponse, "/", ActionFilter)
	r.Register(ContextResponse, "y", ActionCopyBody)
	r.Register(ContextResponse, "tab", ActionSwitchFocus)
	r.RegisterMultiple(ContextResponse, []string{"esc", "q"}, ActionBack)
}

func registerTextInputBindings(r *Registry) {
	r.Register(ContextTextInput, "enter", ActionTextSubmit)
	r.Register(ContextTextInput, "esc", ActionTextCancel)
	r.Register(ContextTextInput, "tab", ActionNextField)
}

func registerConfirmBindings(r *Registry) {
	r.RegisterMultiple(ContextConfirm, []string{"y", "Y", "enter"}, ActionConfirm)
	r.RegisterMultiple(ContextConfirm, []string{"n", "N", "esc"}, ActionCancel)
}
