package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/hac/internal/frame"
)

const (
	formWidth  = 50
	formHeight = 9
)

// textField is a single line input used by forms and the URI editor
type textField struct {
	label string
	input textinput.Model
}

func newTextField(label, placeholder string) textField {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	input.CharLimit = 2048
	return textField{label: label, input: input}
}

func (f *textField) focus() { f.input.Focus() }

func (f *textField) blur() { f.input.Blur() }

func (f *textField) focused() bool { return f.input.Focused() }

// reset replaces the buffer and moves the cursor to its end
func (f *textField) reset(value string) {
	f.input.SetValue(value)
	f.input.CursorEnd()
}

func (f *textField) value() string { return f.input.Value() }

func (f *textField) update(msg tea.KeyMsg) {
	f.input, _ = f.input.Update(msg)
}

func (f *textField) setWidth(w int) {
	if w > 0 {
		f.input.Width = w
	}
}

func (f *textField) view(width int) string {
	style := styleBorder
	if f.focused() {
		style = styleBorderFocused
	}
	if width < 4 {
		width = 4
	}
	f.setWidth(width - 3)
	field := style.Width(width - 2).Render(f.input.View())
	if f.label == "" {
		return field
	}
	return styleSubtle.Render(f.label) + "\n" + field
}

// drawModal renders a centered dialog over whatever was drawn before it
func drawModal(f *frame.Frame, area frame.Rect, title, body, footer string, w, h int) {
	rect := area.Center(w, h)
	content := styleTitle.Render(title) + "\n\n" + body
	if footer != "" {
		content += "\n\n" + footer
	}
	f.Render(rect, styleModal.
		Width(rect.W-4).
		Height(rect.H-2).
		MaxHeight(rect.H).
		Render(clipLines(content, rect.H-2)))
}

// modalHeight is the dialog height needed for a body of n lines
func modalHeight(body string) int {
	return lipgloss.Height(body) + 6
}

func wrapError(err string) string {
	if err == "" {
		return ""
	}
	return "\n" + styleError.Render(strings.TrimSpace(err))
}
