package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sahilm/fuzzy"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/frame"
	"github.com/studiowebux/hac/internal/keybinds"
	"github.com/studiowebux/hac/internal/loader"
)

// Routes of the top level router
const (
	routeCollectionList   = "collection_list"
	routeCreateCollection = "create_collection"
	routeRenameCollection = "rename_collection"
	routeDeleteCollection = "delete_collection"
	routeCollectionViewer = "collection_viewer"
)

// sortMode orders the collection list. tab walks the ring forward.
type sortMode int

const (
	sortRecent sortMode = iota
	sortName
	sortSize
	sortModeCount
)

func (m sortMode) String() string {
	switch m {
	case sortName:
		return "name"
	case sortSize:
		return "size"
	default:
		return "recent"
	}
}

func (m sortMode) next() sortMode { return (m + 1) % sortModeCount }

func (m sortMode) prev() sortMode { return (m + sortModeCount - 1) % sortModeCount }

// sortMetas orders metas in place. Ties are broken by path so the order is
// stable across reloads.
func sortMetas(metas []loader.Meta, mode sortMode) {
	sort.SliceStable(metas, func(i, j int) bool {
		a, b := metas[i], metas[j]
		switch mode {
		case sortName:
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if an != bn {
				return an < bn
			}
		case sortSize:
			if a.Size != b.Size {
				return a.Size > b.Size
			}
		default:
			if !a.Modified.Equal(b.Modified) {
				return a.Modified.After(b.Modified)
			}
		}
		return a.Path < b.Path
	})
}

// collectionListPage lists the collection files and is the first page shown
type collectionListPage struct {
	basePage
	d *deps

	metas    []loader.Meta
	visible  []int
	cursor   int
	sort     sortMode
	search   textField
	err      string
	selected string
}

func newCollectionListPage(d *deps) *collectionListPage {
	return &collectionListPage{
		d:      d,
		search: newTextField("", "search collections"),
	}
}

// Update reloads the list. A string payload is the path to put the cursor on.
func (p *collectionListPage) Update(payload any) {
	if path, ok := payload.(string); ok {
		p.selected = path
	}
	p.reload()
}

func (p *collectionListPage) HandleCommand(cmd command.Command) error {
	switch cmd.(type) {
	case command.RefreshCollections, command.CreateCollection, command.RenameCollection, command.DeleteCollection:
		p.reload()
	}
	return nil
}

func (p *collectionListPage) reload() {
	if current, ok := p.current(); ok && p.selected == "" {
		p.selected = current.Path
	}

	metas, err := p.d.loader.List()
	if err != nil {
		p.err = err.Error()
		p.d.logger.Error("failed to list collections", "err", err)
		return
	}
	p.err = ""
	p.metas = metas
	p.refilter()
}

// refilter applies the sort order and the fuzzy search, then restores the
// cursor on the remembered path when it is still listed.
func (p *collectionListPage) refilter() {
	sortMetas(p.metas, p.sort)

	p.visible = p.visible[:0]
	query := strings.TrimSpace(p.search.value())
	if query == "" {
		for i := range p.metas {
			p.visible = append(p.visible, i)
		}
	} else {
		names := make([]string, len(p.metas))
		for i, m := range p.metas {
			names[i] = m.Name
		}
		for _, match := range fuzzy.Find(query, names) {
			p.visible = append(p.visible, match.Index)
		}
	}

	p.cursor = 0
	if p.selected != "" {
		for i, idx := range p.visible {
			if p.metas[idx].Path == p.selected {
				p.cursor = i
				break
			}
		}
		p.selected = ""
	}
}

func (p *collectionListPage) current() (loader.Meta, bool) {
	if p.cursor < 0 || p.cursor >= len(p.visible) {
		return loader.Meta{}, false
	}
	return p.metas[p.visible[p.cursor]], true
}

func (p *collectionListPage) HandleKeyEvent(msg tea.KeyMsg) (command.Command, error) {
	if p.search.focused() {
		return p.handleSearchKey(msg)
	}

	switch p.d.action(keybinds.ContextCollectionList, msg) {
	case keybinds.ActionQuit:
		return command.Quit{}, nil
	case keybinds.ActionNavigateUp:
		if p.cursor > 0 {
			p.cursor--
		}
	case keybinds.ActionNavigateDown:
		if p.cursor < len(p.visible)-1 {
			p.cursor++
		}
	case keybinds.ActionGoToTop:
		p.cursor = 0
	case keybinds.ActionGoToBottom:
		p.cursor = max(0, len(p.visible)-1)
	case keybinds.ActionSortNext:
		p.resort(p.sort.next())
	case keybinds.ActionSortPrev:
		p.resort(p.sort.prev())
	case keybinds.ActionSearch:
		p.search.focus()
	case keybinds.ActionBack:
		if p.search.value() != "" {
			p.search.reset("")
			p.keepCursor()
		}
	case keybinds.ActionCreate:
		p.nav.NavigateTo(routeCreateCollection, nil)
	case keybinds.ActionRename:
		if meta, ok := p.current(); ok {
			p.nav.NavigateTo(routeRenameCollection, meta)
		}
	case keybinds.ActionDelete:
		if meta, ok := p.current(); ok {
			p.nav.NavigateTo(routeDeleteCollection, meta)
		}
	case keybinds.ActionOpen:
		meta, ok := p.current()
		if !ok {
			return nil, nil
		}
		c, err := p.d.loader.Load(meta.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(meta.Path), err)
		}
		return command.SelectCollection{Collection: c}, nil
	}
	return nil, nil
}

func (p *collectionListPage) handleSearchKey(msg tea.KeyMsg) (command.Command, error) {
	switch p.d.action(keybinds.ContextTextInput, msg) {
	case keybinds.ActionTextSubmit:
		p.search.blur()
		return nil, nil
	case keybinds.ActionTextCancel:
		p.search.blur()
		p.search.reset("")
		p.keepCursor()
		return nil, nil
	}

	p.search.update(msg)
	p.refilter()
	return nil, nil
}

func (p *collectionListPage) resort(mode sortMode) {
	p.sort = mode
	p.keepCursor()
}

// keepCursor refilters while leaving the cursor on the same collection
func (p *collectionListPage) keepCursor() {
	if meta, ok := p.current(); ok {
		p.selected = meta.Path
	}
	p.refilter()
}

func (p *collectionListPage) Draw(f *frame.Frame, area frame.Rect) error {
	header, rest := area.SplitTop(2)
	body, footer := rest.SplitBottom(2)

	title := styleTitle.Render("hac") + styleSubtle.Render(fmt.Sprintf("  %d collections, sorted by %s", len(p.metas), p.sort))
	f.Render(header, title)

	var lines []string
	if p.search.focused() || p.search.value() != "" {
		lines = append(lines, "/ "+p.search.input.View(), "")
	}
	if p.err != "" {
		lines = append(lines, styleError.Render(p.err))
	}
	if len(p.visible) == 0 && p.err == "" {
		lines = append(lines, styleSubtle.Render("no collections yet, press "+
			p.d.keys.KeyString(keybinds.ContextCollectionList, keybinds.ActionCreate)+" to create one"))
	}

	nameWidth := max(20, body.W-40)
	start := scrollStart(p.cursor, len(p.visible), body.H-len(lines))
	for i := start; i < len(p.visible); i++ {
		meta := p.metas[p.visible[i]]
		name := lipgloss.NewStyle().Width(nameWidth).MaxWidth(nameWidth).Render(meta.Name)
		line := fmt.Sprintf("%s %12s  %8s", name, humanize.Time(meta.Modified), humanize.Bytes(uint64(meta.Size)))
		if i == p.cursor {
			line = styleSelected.Render(line)
		}
		lines = append(lines, line)
	}
	f.Render(body, strings.Join(lines, "\n"))

	f.Render(footer, "\n"+p.d.hint(keybinds.ContextCollectionList,
		hintItem{keybinds.ActionOpen, "open"},
		hintItem{keybinds.ActionCreate, "new"},
		hintItem{keybinds.ActionRename, "rename"},
		hintItem{keybinds.ActionDelete, "delete"},
		hintItem{keybinds.ActionSearch, "search"},
		hintItem{keybinds.ActionSortNext, "sort"},
		hintItem{keybinds.ActionQuit, "quit"},
	))
	return nil
}

// scrollStart returns the first row to draw so that cursor stays visible in
// a window of height rows
func scrollStart(cursor, total, height int) int {
	if height <= 0 || total <= height {
		return 0
	}
	start := cursor - height + 1
	if start < 0 {
		start = 0
	}
	if start > total-height {
		start = total - height
	}
	return start
}
