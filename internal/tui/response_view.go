package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/hac/internal/command"
	"github.com/studiowebux/hac/internal/executor"
	"github.com/studiowebux/hac/internal/filter"
	"github.com/studiowebux/hac/internal/keybinds"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

// responseView shows the last response of the selected request
type responseView struct {
	v *viewer

	viewport    viewport.Model
	showHeaders bool
	filter      textField
	expression  string
	compiled    *filter.Expression
	filterErr   string
	spinner     int

	// content cache key
	shownID   string
	shownResp *executor.Response
	shownExpr string
	shownHdrs bool
	shownW    int
}

func newResponseView(v *viewer) *responseView {
	return &responseView{
		v:        v,
		viewport: viewport.New(0, 0),
		filter:   newTextField("", "jmespath, e.g. items[0].name"),
	}
}

func (r *responseView) tick() {
	r.spinner = (r.spinner + 1) % len(spinnerFrames)
}

func (r *responseView) current() (executor.Response, bool) {
	resp, ok := r.v.responses[r.v.selected]
	return resp, ok
}

// body returns the text shown for a response, filtered when an expression
// is set
func (r *responseView) body(resp executor.Response) string {
	text := deref(resp.PrettyBody)
	if text == "" {
		text = deref(resp.Body)
	}
	r.filterErr = ""
	if r.compiled == nil || resp.Body == nil {
		return text
	}
	filtered, err := r.compiled.Apply(deref(resp.Body))
	if err != nil {
		r.filterErr = err.Error()
		return text
	}
	return filtered
}

func contentType(headers []executor.Header) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, "Content-Type") {
			return h.Value
		}
	}
	return ""
}

// refresh rebuilds the viewport content when the response, the filter or
// the header toggle changed
func (r *responseView) refresh(width int) {
	resp, ok := r.current()
	var respPtr *executor.Response
	if ok {
		respPtr = &resp
	}
	if r.shownID == r.v.selected && r.shownExpr == r.expression && r.shownHdrs == r.showHeaders &&
		r.shownW == width && sameResponse(r.shownResp, respPtr) {
		return
	}

	r.shownID = r.v.selected
	r.shownResp = respPtr
	r.shownExpr = r.expression
	r.shownHdrs = r.showHeaders
	r.shownW = width
	r.viewport.GotoTop()

	if !ok {
		r.viewport.SetContent("")
		return
	}

	var b strings.Builder
	if r.showHeaders {
		for _, h := range resp.Headers {
			b.WriteString(styleTitle.Render(h.Name) + ": " + h.Value + "\n")
		}
		r.viewport.SetContent(b.String())
		return
	}
	if resp.IsError {
		r.viewport.SetContent(styleError.Render(resp.Cause))
		return
	}
	text := r.body(resp)
	r.viewport.SetContent(r.v.d.highlighter.Highlight(text, contentType(resp.Headers)))
}

func sameResponse(a, b *executor.Response) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Body == b.Body && a.Duration == b.Duration && a.Cause == b.Cause
}

func (r *responseView) handleKey(w *workspacePage, msg tea.KeyMsg) (command.Command, error) {
	if r.filter.focused() {
		switch r.v.d.action(keybinds.ContextTextInput, msg) {
		case keybinds.ActionTextSubmit:
			expr := strings.TrimSpace(r.filter.value())
			if expr == "" {
				r.expression, r.compiled = "", nil
				r.filter.blur()
				return nil, nil
			}
			compiled, err := filter.Compile(expr)
			if err != nil {
				return nil, err
			}
			r.expression, r.compiled = expr, compiled
			r.filter.blur()
		case keybinds.ActionTextCancel:
			r.expression, r.compiled = "", nil
			r.filter.reset("")
			r.filter.blur()
		default:
			r.filter.update(msg)
		}
		return nil, nil
	}

	switch r.v.d.action(keybinds.ContextResponse, msg) {
	case keybinds.ActionSwitchFocus:
		w.setFocus(focusSidebar)
	case keybinds.ActionBack:
		w.setFocus(focusEditor)
	case keybinds.ActionScrollUp:
		r.viewport.ScrollUp(1)
	case keybinds.ActionScrollDown:
		r.viewport.ScrollDown(1)
	case keybinds.ActionGoToTop:
		r.viewport.GotoTop()
	case keybinds.ActionGoToBottom:
		r.viewport.GotoBottom()
	case keybinds.ActionToggleHeaders:
		r.showHeaders = !r.showHeaders
	case keybinds.ActionFilter:
		r.filter.reset(r.expression)
		r.filter.focus()
	case keybinds.ActionCopyBody:
		resp, ok := r.current()
		if !ok || resp.Body == nil {
			return nil, nil
		}
		if err := copyToClipboard(r.body(resp)); err != nil {
			return nil, fmt.Errorf("failed to copy body: %w", err)
		}
	}
	return nil, nil
}

// summary is the status line above the body
func (r *responseView) summary() string {
	if r.v.pending[r.v.selected] {
		return styleWarning.Render(spinnerFrames[r.spinner] + " sending request")
	}
	resp, ok := r.current()
	if !ok {
		return styleSubtle.Render("no response yet, press " +
			r.v.d.keys.KeyString(keybinds.ContextRequestEditor, keybinds.ActionSend) + " in the editor to send")
	}
	if resp.IsError {
		return styleError.Render("request failed") + styleSubtle.Render(" after "+executor.FormatDuration(resp.Duration))
	}

	status := resp.StatusCode()
	parts := []string{
		statusStyle(status).Render(fmt.Sprintf("%d", status)),
		executor.FormatDuration(resp.Duration),
		executor.FormatSize(resp.TotalSize),
	}
	if r.showHeaders {
		parts = append(parts, styleSubtle.Render(fmt.Sprintf("headers %s", executor.FormatSize(resp.HeadersSize))))
	}
	if r.expression != "" {
		parts = append(parts, styleSubtle.Render("filter "+r.expression))
	}
	return strings.Join(parts, "  ")
}

func (r *responseView) view(width, height int) string {
	header := r.summary()
	lines := 1
	if r.filter.focused() {
		header += "\n" + r.filter.view(width)
		lines += 3
	}

	r.refresh(width)
	if r.filterErr != "" {
		header += "\n" + styleError.Render(r.filterErr)
		lines++
	}

	r.viewport.Width = max(0, width)
	r.viewport.Height = max(0, height-lines-1)
	return header + "\n\n" + r.viewport.View()
}
