package event

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeDevice struct {
	ch chan tea.Msg
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{ch: make(chan tea.Msg, 16)}
}

func (d *fakeDevice) Messages() <-chan tea.Msg {
	return d.ch
}

// slow rates so that only input events show up during the test
const slow = time.Hour

func nextWithin(t *testing.T, s *Source, d time.Duration) (Event, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return s.Next(ctx)
}

func TestKeyAndResizeAreForwardedInOrder(t *testing.T) {
	dev := newFakeDevice()
	s := NewSource(dev, slow, slow)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	dev.ch <- tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}
	dev.ch <- struct{}{}
	dev.ch <- tea.WindowSizeMsg{Width: 120, Height: 40}

	ev, ok := nextWithin(t, s, time.Second)
	if !ok || ev.Kind != KindKey || ev.Key.String() != "a" {
		t.Fatalf("Expected key 'a', got %+v (ok=%v)", ev, ok)
	}

	ev, ok = nextWithin(t, s, time.Second)
	if !ok || ev.Kind != KindResize {
		t.Fatalf("Expected resize after the unknown message was dropped, got %+v", ev)
	}
	if ev.Size.W != 120 || ev.Size.H != 40 {
		t.Errorf("Expected 120x40, got %dx%d", ev.Size.W, ev.Size.H)
	}
}

func TestTickAndRenderAreProduced(t *testing.T) {
	s := NewSource(newFakeDevice(), 5*time.Millisecond, 7*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	seen := map[Kind]bool{}
	deadline := time.After(2 * time.Second)
	for !(seen[KindTick] && seen[KindRender]) {
		select {
		case <-deadline:
			t.Fatalf("Expected tick and render events, saw %v", seen)
		default:
		}
		ev, ok := nextWithin(t, s, time.Second)
		if !ok {
			t.Fatal("Source stopped unexpectedly")
		}
		seen[ev.Kind] = true
	}
}

func TestStartIsIdempotent(t *testing.T) {
	dev := newFakeDevice()
	s := NewSource(dev, slow, slow)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	s.Start(ctx)

	dev.ch <- tea.KeyMsg{Type: tea.KeyEnter}
	if ev, ok := nextWithin(t, s, time.Second); !ok || ev.Key.Type != tea.KeyEnter {
		t.Fatalf("Expected enter key, got %+v", ev)
	}
	if _, ok := nextWithin(t, s, 50*time.Millisecond); ok {
		t.Error("Expected a single producer, got a duplicated event")
	}
}

func TestSourceStopsOnCancel(t *testing.T) {
	s := NewSource(newFakeDevice(), slow, slow)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	// the producer closes the stream once it notices the cancellation
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, ok := s.Next(context.Background()); !ok {
			return
		}
	}
	t.Error("Expected the source to close after cancel")
}

func TestTranslate(t *testing.T) {
	if _, ok := Translate(tea.FocusMsg{}); ok {
		t.Error("Expected focus message to be unknown")
	}
	if ev, ok := Translate(tea.KeyMsg{Type: tea.KeyEsc}); !ok || ev.Kind != KindKey {
		t.Errorf("Expected key event, got %+v", ev)
	}
}
