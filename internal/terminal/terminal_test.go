package terminal

import (
	"bytes"
	"io"
	"strconv"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestTerminal() *Terminal {
	return New(Options{Input: &bytes.Buffer{}, Output: io.Discard})
}

func TestDriverForwardsInput(t *testing.T) {
	term := newTestTerminal()
	d := &driver{term: term}

	d.Update(tea.KeyMsg{Type: tea.KeyEnter})
	d.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	first := <-term.Messages()
	if k, ok := first.(tea.KeyMsg); !ok || k.Type != tea.KeyEnter {
		t.Errorf("Expected enter key, got %#v", first)
	}
	second := <-term.Messages()
	if s, ok := second.(tea.WindowSizeMsg); !ok || s.Width != 80 {
		t.Errorf("Expected window size, got %#v", second)
	}
}

func TestDriverShowsLastFrame(t *testing.T) {
	term := newTestTerminal()
	d := &driver{term: term}

	d.Update(frameMsg("one"))
	d.Update(frameMsg("two"))

	if got := d.View(); got != "two" {
		t.Errorf("Expected 'two', got %q", got)
	}
	if n := len(term.Messages()); n != 0 {
		t.Errorf("Expected frames not to be forwarded as input, got %d messages", n)
	}
}

func TestForwardKeepsEveryMessageInOrder(t *testing.T) {
	term := newTestTerminal()
	d := &driver{term: term}

	const count = 1000
	for i := 0; i < count; i++ {
		d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(strconv.Itoa(i))})
	}

	for i := 0; i < count; i++ {
		select {
		case msg := <-term.Messages():
			k, ok := msg.(tea.KeyMsg)
			if !ok || string(k.Runes) != strconv.Itoa(i) {
				t.Fatalf("Expected key %d, got %#v", i, msg)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("Timed out waiting for key %d", i)
		}
	}
}

func TestStopBeforeStart(t *testing.T) {
	if err := newTestTerminal().Stop(); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}
