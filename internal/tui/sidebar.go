package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/hac/internal/collection"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/keybinds"
)

// sidebar is the request tree of the workspace. It keeps no rows of its
// own: they are recomputed from the store on every key and draw.
type sidebar struct {
	v *viewer
}

func (s *sidebar) rows() []collection.Row {
	if s.v.store == nil {
		return nil
	}
	return s.v.store.Visible(s.v.expanded)
}

// cursorOf returns the index of the row with id, 0 when the node is gone
// or hidden under a collapsed directory
func cursorOf(rows []collection.Row, id string) int {
	for i, row := range rows {
		if row.ID == id {
			return i
		}
	}
	return 0
}

// normalize puts the hover back on a visible row after the tree changed
func (s *sidebar) normalize() {
	rows := s.rows()
	if len(rows) == 0 {
		s.v.hovered = ""
		return
	}
	s.v.hovered = rows[cursorOf(rows, s.v.hovered)].ID
}

func (s *sidebar) move(delta int) {
	rows := s.rows()
	if len(rows) == 0 {
		s.v.hovered = ""
		return
	}
	i := cursorOf(rows, s.v.hovered) + delta
	i = max(0, min(i, len(rows)-1))
	s.v.hovered = rows[i].ID
}

func (s *sidebar) jump(top bool) {
	rows := s.rows()
	if len(rows) == 0 {
		return
	}
	if top {
		s.v.hovered = rows[0].ID
	} else {
		s.v.hovered = rows[len(rows)-1].ID
	}
}

func (s *sidebar) handleKey(w *workspacePage, msg tea.KeyMsg) (command.Command, error) {
	v := s.v
	s.normalize()
	switch v.d.action(keybinds.ContextSidebar, msg) {
	case keybinds.ActionNavigateUp:
		s.move(-1)
	case keybinds.ActionNavigateDown:
		s.move(1)
	case keybinds.ActionGoToTop:
		s.jump(true)
	case keybinds.ActionGoToBottom:
		s.jump(false)
	case keybinds.ActionSwitchFocus:
		w.setFocus(focusEditor)
	case keybinds.ActionBack:
		path := ""
		if v.store != nil {
			path = v.store.Path()
		}
		err := v.flush()
		w.nav.NavigateUp(routeCollectionList, path)
		if err != nil {
			return command.Errorf("failed to save collection", err), nil
		}
	case keybinds.ActionSelect:
		n, ok := v.hoveredNode()
		if !ok {
			return nil, nil
		}
		if n.Kind == collection.KindDirectory {
			v.expanded[n.ID] = !v.expanded[n.ID]
			return nil, nil
		}
		w.setFocus(focusEditor)
		return command.SelectRequest{RequestID: n.ID}, nil
	case keybinds.ActionCreateDirectory:
		w.nav.NavigateTo(routeCreateDirectory, nil)
	case keybinds.ActionCreateRequest:
		parent := ""
		if n, ok := v.hoveredNode(); ok {
			parent = parentFor(n)
		}
		w.nav.NavigateTo(routeCreateRequest, parent)
	case keybinds.ActionRenameDirectory:
		if n, ok := v.hoveredNode(); ok && n.Kind == collection.KindDirectory {
			w.nav.NavigateTo(routeRenameDirectory, n.ID)
		}
	case keybinds.ActionDeleteItem:
		if n, ok := v.hoveredNode(); ok {
			w.nav.NavigateTo(routeDeleteItem, n.ID)
		}
	case keybinds.ActionCycleMethod:
		if n, ok := v.hoveredNode(); ok && n.Kind == collection.KindRequest {
			if _, err := v.store.CycleMethod(n.ID); err != nil {
				v.d.logger.Warn("cycle method", "id", n.ID, "err", err)
			}
		}
	}
	return nil, nil
}

func (s *sidebar) view(width, height int) string {
	rows := s.rows()
	if len(rows) == 0 {
		return styleSubtle.Render("empty collection\n\n") + s.v.d.hint(keybinds.ContextSidebar,
			hintItem{keybinds.ActionCreateRequest, "request"},
			hintItem{keybinds.ActionCreateDirectory, "directory"},
		)
	}

	cursor := cursorOf(rows, s.v.hovered)
	start := scrollStart(cursor, len(rows), height)
	end := min(len(rows), start+height)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		row := rows[i]
		indent := strings.Repeat("  ", row.Depth)

		var line string
		if row.Kind == collection.KindDirectory {
			icon := "▸ "
			if row.Expanded {
				icon = "▾ "
			}
			line = indent + icon + row.Name
		} else {
			line = indent + methodBadge(row.Method) + " " + row.Name
		}

		switch {
		case i == cursor:
			line = styleSelected.Width(width).Render(line)
		case row.ID == s.v.selected:
			line = styleTitle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
