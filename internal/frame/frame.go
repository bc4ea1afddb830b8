// Package frame is the drawing surface pages render into. A Frame is a grid
// of terminal lines; pages render styled blocks (lipgloss output, bubbles
// views) into rectangles and the frame composes them without breaking ANSI
// sequences.
package frame

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Rect is a rectangle of terminal cells
type Rect struct {
	X, Y int
	W, H int
}

// Empty reports whether the rectangle has no cells
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Inset shrinks the rectangle by n cells on every side
func (r Rect) Inset(n int) Rect {
	out := Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// SplitTop cuts h rows off the top and returns them and the remainder
func (r Rect) SplitTop(h int) (Rect, Rect) {
	h = clamp(h, 0, r.H)
	return Rect{X: r.X, Y: r.Y, W: r.W, H: h},
		Rect{X: r.X, Y: r.Y + h, W: r.W, H: r.H - h}
}

// SplitBottom cuts h rows off the bottom and returns the remainder and them
func (r Rect) SplitBottom(h int) (Rect, Rect) {
	h = clamp(h, 0, r.H)
	return Rect{X: r.X, Y: r.Y, W: r.W, H: r.H - h},
		Rect{X: r.X, Y: r.Y + r.H - h, W: r.W, H: h}
}

// SplitLeft cuts w columns off the left and returns them and the remainder
func (r Rect) SplitLeft(w int) (Rect, Rect) {
	w = clamp(w, 0, r.W)
	return Rect{X: r.X, Y: r.Y, W: w, H: r.H},
		Rect{X: r.X + w, Y: r.Y, W: r.W - w, H: r.H}
}

// SplitPercent splits vertically with pct percent of the width on the left
func (r Rect) SplitPercent(pct int) (Rect, Rect) {
	return r.SplitLeft(r.W * clamp(pct, 0, 100) / 100)
}

// Center returns a w by h rectangle centered in r
func (r Rect) Center(w, h int) Rect {
	w = clamp(w, 0, r.W)
	h = clamp(h, 0, r.H)
	return Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}

// Frame holds one screenful of lines
type Frame struct {
	width  int
	height int
	lines  []string
}

// New creates a blank frame
func New(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	f := &Frame{width: width, height: height, lines: make([]string, height)}
	blank := strings.Repeat(" ", width)
	for i := range f.lines {
		f.lines[i] = blank
	}
	return f
}

// Area returns the full rectangle of the frame
func (f *Frame) Area() Rect {
	return Rect{W: f.width, H: f.height}
}

// Render places block inside rect. Lines past the rectangle height are
// dropped, lines are truncated or padded to its width, and rows of rect
// left uncovered by the block are blanked.
func (f *Frame) Render(rect Rect, block string) {
	rect = f.clip(rect)
	if rect.Empty() {
		return
	}

	blockLines := strings.Split(block, "\n")
	for row := 0; row < rect.H; row++ {
		content := ""
		if row < len(blockLines) {
			content = blockLines[row]
		}
		f.put(rect.Y+row, rect.X, rect.W, fit(content, rect.W))
	}
}

// Clear blanks the rectangle
func (f *Frame) Clear(rect Rect) {
	f.Render(rect, "")
}

// Line returns line y of the frame, for tests
func (f *Frame) Line(y int) string {
	if y < 0 || y >= len(f.lines) {
		return ""
	}
	return f.lines[y]
}

// String joins the frame lines into the text written to the terminal
func (f *Frame) String() string {
	return strings.Join(f.lines, "\n")
}

// PlainString is String without ANSI sequences
func (f *Frame) PlainString() string {
	return ansi.Strip(f.String())
}

func (f *Frame) clip(r Rect) Rect {
	if r.X < 0 {
		r.W += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.H += r.Y
		r.Y = 0
	}
	if r.X+r.W > f.width {
		r.W = f.width - r.X
	}
	if r.Y+r.H > f.height {
		r.H = f.height - r.Y
	}
	return r
}

// put replaces w cells of line y starting at column x
func (f *Frame) put(y, x, w int, content string) {
	line := f.lines[y]
	left := ansi.Cut(line, 0, x)
	right := ansi.Cut(line, x+w, f.width)
	f.lines[y] = left + content + ansi.ResetStyle + right
}

// fit truncates or pads s to exactly w cells
func fit(s string, w int) string {
	width := ansi.StringWidth(s)
	if width > w {
		return ansi.Truncate(s, w, "")
	}
	return s + strings.Repeat(" ", w-width)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
