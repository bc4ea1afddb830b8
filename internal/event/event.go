// Package event merges terminal input with a fixed-rate tick and a
// fixed-rate render signal into one ordered stream.
package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/studiowebux/hac/internal/frame"
)

const (
	DefaultTickRate  = 250 * time.Millisecond
	DefaultFrameRate = time.Second / 30
)

// Kind identifies an event
type Kind int

const (
	KindKey Kind = iota
	KindResize
	KindTick
	KindRender
)

func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindResize:
		return "resize"
	case KindTick:
		return "tick"
	case KindRender:
		return "render"
	default:
		return "unknown"
	}
}

// Event is one item of the merged stream. Key is set for KindKey and Size
// for KindResize.
type Event struct {
	Kind Kind
	Key  tea.KeyMsg
	Size frame.Rect
}

// InputDevice delivers raw terminal messages. The channel is closed when
// the device stops.
type InputDevice interface {
	Messages() <-chan tea.Msg
}

// Source produces events until its context is cancelled
type Source struct {
	input     InputDevice
	tickRate  time.Duration
	frameRate time.Duration

	events chan Event
	once   sync.Once
}

// NewSource creates a source; zero rates use the defaults
func NewSource(input InputDevice, tickRate, frameRate time.Duration) *Source {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return &Source{
		input:     input,
		tickRate:  tickRate,
		frameRate: frameRate,
		events:    make(chan Event),
	}
}

// Start spawns the producer goroutine. Calling it again has no effect.
func (s *Source) Start(ctx context.Context) {
	s.once.Do(func() {
		go s.run(ctx)
	})
}

// Next blocks until the next event. It returns false once the source has
// stopped or ctx is done.
func (s *Source) Next(ctx context.Context) (Event, bool) {
	select {
	case ev, ok := <-s.events:
		return ev, ok
	case <-ctx.Done():
		return Event{}, false
	}
}

func (s *Source) run(ctx context.Context) {
	defer close(s.events)

	tick := time.NewTicker(s.tickRate)
	defer tick.Stop()
	render := time.NewTicker(s.frameRate)
	defer render.Stop()

	var input <-chan tea.Msg
	if s.input != nil {
		input = s.input.Messages()
	}

	for {
		var ev Event

		select {
		case <-ctx.Done():
			return
		case msg, ok := <-input:
			if !ok {
				input = nil
				continue
			}
			translated, known := Translate(msg)
			if !known {
				log.Debug("ignored input message", "type", fmt.Sprintf("%T", msg))
				continue
			}
			ev = translated
		case <-tick.C:
			ev = Event{Kind: KindTick}
		case <-render.C:
			ev = Event{Kind: KindRender}
		}

		select {
		case s.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Translate maps a terminal message to an event. Messages that are neither
// keys nor resizes are reported as unknown.
func Translate(msg tea.Msg) (Event, bool) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return Event{Kind: KindKey, Key: m}, true
	case tea.WindowSizeMsg:
		return Event{Kind: KindResize, Size: frame.Rect{W: m.Width, H: m.Height}}, true
	default:
		return Event{}, false
	}
}
