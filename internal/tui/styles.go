package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/hac/internal/collection"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#5f87ff"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
	colorPurple = lipgloss.AdaptiveColor{Light: "#5f005f", Dark: "#d787ff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray)

	styleBorderFocused = styleBorder.
				BorderForeground(colorCyan)

	styleModal = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan).
			Padding(0, 1)
)

var methodColors = map[collection.Method]lipgloss.AdaptiveColor{
	collection.MethodGet:    colorGreen,
	collection.MethodPost:   colorBlue,
	collection.MethodPut:    colorYellow,
	collection.MethodPatch:  colorPurple,
	collection.MethodDelete: colorRed,
}

// methodBadge renders a method padded to the widest method name
func methodBadge(m collection.Method) string {
	return lipgloss.NewStyle().
		Bold(true).
		Width(6).
		Foreground(methodColors[m]).
		Render(m.String())
}

// statusStyle colours a status code by class
func statusStyle(status int) lipgloss.Style {
	switch {
	case status >= 200 && status < 300:
		return styleSuccess
	case status >= 400:
		return styleError
	default:
		return styleWarning
	}
}

// panel draws content in a bordered box of exactly w by h cells
func panel(title, content string, w, h int, focused bool) string {
	style := styleBorder
	if focused {
		style = styleBorderFocused
	}
	if w < 2 || h < 2 {
		return ""
	}

	inner := content
	if title != "" {
		inner = styleTitle.Render(title) + "\n" + content
	}
	return style.
		Width(w - 2).
		Height(h - 2).
		MaxHeight(h).
		Render(clipLines(inner, h-2))
}

// clipLines keeps the first n lines of s
func clipLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			count++
			if count == n {
				return s[:i]
			}
		}
	}
	return s
}
